package repositories

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("record not found")
)

// IDStrategy selects how a new post's ID is chosen.
type IDStrategy string

const (
	// IDSize uses the collection size plus one. After a deletion the new ID
	// can collide with a live post, which is then replaced.
	IDSize IDStrategy = "size"
	// IDSequence hands out IDs from a monotonic counter; IDs are never reused.
	IDSequence IDStrategy = "sequence"
)

// ParseIDStrategy converts a configuration value to an IDStrategy.
// The empty string selects IDSize.
func ParseIDStrategy(s string) (IDStrategy, error) {
	switch IDStrategy(s) {
	case "", IDSize:
		return IDSize, nil
	case IDSequence:
		return IDSequence, nil
	default:
		return "", fmt.Errorf("unknown id strategy %q", s)
	}
}

// Supported store backends. All of them keep data in memory only.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

// Open creates the post repository for the named backend
func Open(backend string, strategy IDStrategy) (PostRepository, error) {
	switch backend {
	case "", BackendMemory:
		return NewMemoryPostRepository(strategy), nil
	case BackendBadger:
		return NewBadgerPostRepository(strategy)
	case BackendSQLite:
		return NewSQLitePostRepository(strategy)
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
