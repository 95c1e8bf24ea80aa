package errors

import (
	"sync"
	"time"
)

// maxTUIMessages bounds the history kept by TUIHandler.
const maxTUIMessages = 50

// TUIHandler stores messages for display in the status bar.
type TUIHandler struct {
	mu       sync.RWMutex
	messages []Message
	onNotify func(msg Message)
	now      func() time.Time
}

// Message is one notification shown to the user.
type Message struct {
	Text      string
	Type      MessageType
	Timestamp time.Time
}

// MessageType classifies a Message.
type MessageType int

const (
	MessageTypeError MessageType = iota
	MessageTypeWarning
	MessageTypeInfo
	MessageTypeSuccess
)

// String returns the lowercase name of t.
func (t MessageType) String() string {
	switch t {
	case MessageTypeError:
		return "error"
	case MessageTypeWarning:
		return "warning"
	case MessageTypeSuccess:
		return "success"
	default:
		return "info"
	}
}

// NewTUIHandler creates a TUIHandler. onNotify, if set, is called
// synchronously for every message.
func NewTUIHandler(onNotify func(msg Message)) *TUIHandler {
	return &TUIHandler{onNotify: onNotify, now: time.Now}
}

// SetOnNotify replaces the notification callback.
func (h *TUIHandler) SetOnNotify(onNotify func(msg Message)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onNotify = onNotify
}

func (h *TUIHandler) Error(msg string)   { h.add(msg, MessageTypeError) }
func (h *TUIHandler) Warning(msg string) { h.add(msg, MessageTypeWarning) }
func (h *TUIHandler) Info(msg string)    { h.add(msg, MessageTypeInfo) }
func (h *TUIHandler) Success(msg string) { h.add(msg, MessageTypeSuccess) }

func (h *TUIHandler) add(text string, msgType MessageType) {
	h.mu.Lock()
	message := Message{Text: text, Type: msgType, Timestamp: h.now()}
	h.messages = append(h.messages, message)
	if over := len(h.messages) - maxTUIMessages; over > 0 {
		h.messages = append([]Message(nil), h.messages[over:]...)
	}
	onNotify := h.onNotify
	h.mu.Unlock()

	if onNotify != nil {
		onNotify(message)
	}
}

// GetLatest returns the most recent message.
func (h *TUIHandler) GetLatest() (Message, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.messages) == 0 {
		return Message{}, false
	}
	return h.messages[len(h.messages)-1], true
}

// Clear drops all stored messages.
func (h *TUIHandler) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = nil
}

// GetAll returns a copy of the stored messages, oldest first.
func (h *TUIHandler) GetAll() []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()
	copied := make([]Message, len(h.messages))
	copy(copied, h.messages)
	return copied
}
