package messaging

import "sync"

// DefaultCapacity is how many received messages are kept.
const DefaultCapacity = 50

// Buffer keeps the most recent messages. Adding to a full buffer drops the
// oldest entry.
type Buffer struct {
	mu    sync.RWMutex
	items []string
	start int
	size  int
}

func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Buffer{items: make([]string, capacity)}
}

func (b *Buffer) Add(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.size < len(b.items) {
		b.items[(b.start+b.size)%len(b.items)] = msg
		b.size++
		return
	}
	b.items[b.start] = msg
	b.start = (b.start + 1) % len(b.items)
}

// Snapshot returns a copy of the buffered messages, oldest first.
func (b *Buffer) Snapshot() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]string, b.size)
	for i := 0; i < b.size; i++ {
		out[i] = b.items[(b.start+i)%len(b.items)]
	}
	return out
}

func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

func (b *Buffer) Cap() int {
	return len(b.items)
}
