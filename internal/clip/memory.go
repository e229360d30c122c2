package clip

import (
	"context"
	"sync"
)

// Memory is an in-process clipboard. Hosts without a display use it so the
// page runtime still has somewhere to copy to; tests use it to observe
// writes and to simulate a platform rejection.
type Memory struct {
	mu     sync.Mutex
	text   string
	writes int
	reject error
}

// NewMemory returns an empty in-process clipboard.
func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Name() string { return "memory" }

func (m *Memory) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.reject != nil {
		return m.reject
	}
	m.text = text
	return nil
}

// Reject makes every following write fail with err. Pass nil to accept
// writes again.
func (m *Memory) Reject(err error) {
	m.mu.Lock()
	m.reject = err
	m.mu.Unlock()
}

// Text returns the last accepted payload.
func (m *Memory) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// Writes returns how many writes were attempted, accepted or not.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
