// Package persist keeps durable storage and the in-memory task store in step.
package persist

import (
	"context"
	"errors"
	"sync"
)

// DefaultSlot is the storage slot name used when none is configured.
const DefaultSlot = "myTasks"

// ErrNotFound is returned by Slot.Read when nothing has been stored yet.
var ErrNotFound = errors.New("slot is empty")

// Slot is a single named durable value. Writes overwrite the previous value.
type Slot interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Close() error
}

// MemorySlot is a process-local Slot, used for ephemeral sessions and tests.
type MemorySlot struct {
	mu   sync.Mutex
	data []byte
	set  bool
}

// NewMemorySlot returns an empty MemorySlot.
func NewMemorySlot() *MemorySlot { return &MemorySlot{} }

func (m *MemorySlot) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return nil, ErrNotFound
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, nil
}

func (m *MemorySlot) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	m.set = true
	return nil
}

func (m *MemorySlot) Close() error { return nil }
