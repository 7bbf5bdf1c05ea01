// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrStorage, etc.)
//   - Keep interfaces small and focused (Interface Segregation Principle)
package ports

import (
	"context"
	"time"
)

// Record store keys for the two persisted collections.
const (
	// QuotesKey is the record store key holding the quote collection,
	// a JSON array in most-recent-first order.
	QuotesKey = "litra_quotes"

	// CategoryColorsKey is the record store key holding the category
	// color map, a JSON object of category name to color token.
	CategoryColorsKey = "category_colors"
)

// RecordStore is the durable key-value persistence boundary.
// Each key holds one JSON-serialized collection; writes replace the whole
// value atomically from a reader's perspective.
type RecordStore interface {
	// Load returns the raw value stored under key.
	// Returns domain.ErrNotFound when the key has never been written;
	// callers treat that as the empty collection.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save persists value under key, replacing any previous value.
	// A reader after a completed Save observes the new value in full.
	// Returns domain.ErrStorage on failure, leaving the previous value intact.
	Save(ctx context.Context, key string, value []byte) error
}

// TextRecognizer extracts plain text from an image of a book page.
// Implementations call an external recognition service; the application
// layer sees only the recognized text or a failure.
type TextRecognizer interface {
	// Recognize returns the text found in the image, with whitespace and
	// newlines collapsed to single spaces. Returns domain.ErrUnavailable
	// when the recognition service cannot be reached or fails.
	Recognize(ctx context.Context, image []byte, mimeType string) (string, error)
}

// Clock supplies the current time for date stamping and window queries.
// Injected so tests can pin the reference date.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock {
	return ClockFunc(time.Now)
}
