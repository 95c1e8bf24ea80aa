package mockserver

import (
	"bytes"
	"strconv"
	"sync"
)

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

// syncBuffer is a bytes.Buffer safe for the request logger goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
