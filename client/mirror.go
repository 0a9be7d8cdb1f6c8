package client

import (
	"context"
	"sync"
)

// Command is one mutating dashboard action. Apply is the optimistic local
// patch, Inverse undoes it when the API call fails. Commands that upload
// binary payloads have no meaningful provisional entry and leave Apply nil.
type Command[T any] struct {
	Apply   func(items []T) []T
	Inverse func(items []T) []T
	Execute func(ctx context.Context) error
	Refresh func(ctx context.Context) ([]T, error)
}

// Mirror keeps a local copy of one entity collection so the dashboard can
// render mutations before the server confirms them. Failed commands roll
// back via the inverse patch, successful ones reconcile from a fresh list.
type Mirror[T any] struct {
	mu    sync.Mutex
	items []T
}

func NewMirror[T any](initial []T) *Mirror[T] {
	m := &Mirror[T]{}
	m.items = append(m.items, initial...)
	return m
}

// Items returns a copy of the current local state.
func (m *Mirror[T]) Items() []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]T, len(m.items))
	copy(out, m.items)
	return out
}

// Replace swaps the local state wholesale, used after an explicit refetch.
func (m *Mirror[T]) Replace(items []T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items[:0:0], items...)
}

// Run applies the command optimistically, executes it against the API and
// either reconciles from the server or rolls back. There is no retry: the
// caller decides whether to resubmit.
func (m *Mirror[T]) Run(ctx context.Context, cmd Command[T]) error {
	if cmd.Apply != nil {
		m.mu.Lock()
		m.items = cmd.Apply(m.items)
		m.mu.Unlock()
	}

	if err := cmd.Execute(ctx); err != nil {
		if cmd.Apply != nil && cmd.Inverse != nil {
			m.mu.Lock()
			m.items = cmd.Inverse(m.items)
			m.mu.Unlock()
		}
		return err
	}

	if cmd.Refresh != nil {
		if fresh, err := cmd.Refresh(ctx); err == nil {
			m.Replace(fresh)
		}
	}
	return nil
}

// CreateCommand inserts a provisional entry at the head of the list and
// removes it again if the create fails.
func CreateCommand[T any](provisional T, execute func(ctx context.Context) error, refresh func(ctx context.Context) ([]T, error)) Command[T] {
	return Command[T]{
		Apply: func(items []T) []T {
			return append([]T{provisional}, items...)
		},
		Inverse: func(items []T) []T {
			if len(items) == 0 {
				return items
			}
			return items[1:]
		},
		Execute: execute,
		Refresh: refresh,
	}
}

// UploadCommand is a create whose payload is a binary upload. The final URL
// is only known once the server answers, so it skips the optimistic insert
// and relies on the reconciling refresh alone.
func UploadCommand[T any](execute func(ctx context.Context) error, refresh func(ctx context.Context) ([]T, error)) Command[T] {
	return Command[T]{Execute: execute, Refresh: refresh}
}

// UpdateCommand patches the matching entry in place and restores the
// original on failure.
func UpdateCommand[T any](match func(T) bool, patch func(T) T, execute func(ctx context.Context) error, refresh func(ctx context.Context) ([]T, error)) Command[T] {
	var original T
	var found bool
	return Command[T]{
		Apply: func(items []T) []T {
			out := make([]T, len(items))
			copy(out, items)
			for i, it := range out {
				if match(it) {
					original, found = it, true
					out[i] = patch(it)
					break
				}
			}
			return out
		},
		Inverse: func(items []T) []T {
			if !found {
				return items
			}
			out := make([]T, len(items))
			copy(out, items)
			for i, it := range out {
				if match(it) {
					out[i] = original
					break
				}
			}
			return out
		},
		Execute: execute,
		Refresh: refresh,
	}
}

// DeleteCommand removes the matching entry immediately and reinserts it at
// its previous position if the server rejects the delete.
func DeleteCommand[T any](match func(T) bool, execute func(ctx context.Context) error, refresh func(ctx context.Context) ([]T, error)) Command[T] {
	var removed T
	var at int
	var found bool
	return Command[T]{
		Apply: func(items []T) []T {
			out := make([]T, 0, len(items))
			for i, it := range items {
				if !found && match(it) {
					removed, at, found = it, i, true
					continue
				}
				out = append(out, it)
			}
			return out
		},
		Inverse: func(items []T) []T {
			if !found {
				return items
			}
			if at > len(items) {
				at = len(items)
			}
			out := make([]T, 0, len(items)+1)
			out = append(out, items[:at]...)
			out = append(out, removed)
			out = append(out, items[at:]...)
			return out
		},
		Execute: execute,
		Refresh: refresh,
	}
}
