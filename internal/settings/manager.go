package settings

import "github.com/cristianoliveira/condoview/internal/domain"

// TUIState represents the TUI model state that can be persisted.
// It keeps internal/tui from depending on the file format.
type TUIState struct {
	ActiveTab  domain.Tab
	TypeFilter string
	FullHelp   bool
}

// FromSettings converts Settings to TUIState.
func FromSettings(s *Settings) TUIState {
	if s == nil {
		return TUIState{ActiveTab: domain.DefaultTab()}
	}
	return TUIState{
		ActiveTab:  domain.NormalizeTab(string(s.ActiveTab)),
		TypeFilter: s.TypeFilter,
		FullHelp:   s.Help == HelpFull,
	}
}

// ToSettings converts TUIState to Settings.
func (t TUIState) ToSettings() *Settings {
	s := &Settings{ActiveTab: t.ActiveTab, TypeFilter: t.TypeFilter, Help: HelpShort}
	if t.FullHelp {
		s.Help = HelpFull
	}
	return s
}
