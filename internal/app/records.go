// Package app contains application services that orchestrate use cases.
package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/litra-app/litra-backend/internal/domain"
	"github.com/litra-app/litra-backend/internal/platform/logging"
	"github.com/litra-app/litra-backend/internal/ports"
)

// Records is the gateway between application services and the record store.
// It owns JSON serialization of the two collections and serializes every
// read-modify-write cycle behind a single mutex, so concurrent requests
// never interleave a stale read with a save.
type Records struct {
	mu    sync.Mutex
	store ports.RecordStore
}

// NewRecords creates a Records gateway over the given store.
func NewRecords(store ports.RecordStore) *Records {
	return &Records{store: store}
}

// Quotes loads the quote collection. A key that was never written reads
// as the empty collection.
func (r *Records) Quotes(ctx context.Context) ([]domain.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.loadQuotes(ctx)
}

// MutateQuotes loads the quote collection, applies fn, and saves the
// result. The whole cycle runs under the gateway mutex. If fn returns an
// error nothing is written and the error propagates unchanged.
func (r *Records) MutateQuotes(ctx context.Context, fn func(quotes []domain.Quote) ([]domain.Quote, error)) ([]domain.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	quotes, err := r.loadQuotes(ctx)
	if err != nil {
		return nil, err
	}

	mutated, err := fn(quotes)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(mutated)
	if err != nil {
		return nil, domain.NewStorageError("encode", ports.QuotesKey, err)
	}

	if err := r.store.Save(ctx, ports.QuotesKey, data); err != nil {
		return nil, err
	}

	return mutated, nil
}

// Colors loads the category color map. A key that was never written reads
// as the empty map.
func (r *Records) Colors(ctx context.Context) (domain.CategoryColors, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.loadColors(ctx)
}

// MutateColors loads the color map, applies fn, and saves the result,
// all under the gateway mutex.
func (r *Records) MutateColors(ctx context.Context, fn func(colors domain.CategoryColors) (domain.CategoryColors, error)) (domain.CategoryColors, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	colors, err := r.loadColors(ctx)
	if err != nil {
		return nil, err
	}

	mutated, err := fn(colors)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(mutated)
	if err != nil {
		return nil, domain.NewStorageError("encode", ports.CategoryColorsKey, err)
	}

	if err := r.store.Save(ctx, ports.CategoryColorsKey, data); err != nil {
		return nil, err
	}

	return mutated, nil
}

func (r *Records) loadQuotes(ctx context.Context) ([]domain.Quote, error) {
	data, err := r.store.Load(ctx, ports.QuotesKey)
	if err != nil {
		if domain.IsNotFound(err) {
			return []domain.Quote{}, nil
		}

		return nil, err
	}

	// A payload that no longer parses is treated as an empty library
	// rather than an error, so a corrupted file cannot brick the app.
	var quotes []domain.Quote
	if err := json.Unmarshal(data, &quotes); err != nil {
		logging.FromContext(ctx).WarnContext(ctx, "discarding unreadable record",
			slog.String("key", ports.QuotesKey),
			slog.Any("error", err),
		)

		return []domain.Quote{}, nil
	}

	if quotes == nil {
		quotes = []domain.Quote{}
	}

	return quotes, nil
}

func (r *Records) loadColors(ctx context.Context) (domain.CategoryColors, error) {
	data, err := r.store.Load(ctx, ports.CategoryColorsKey)
	if err != nil {
		if domain.IsNotFound(err) {
			return domain.CategoryColors{}, nil
		}

		return nil, err
	}

	var colors domain.CategoryColors
	if err := json.Unmarshal(data, &colors); err != nil {
		logging.FromContext(ctx).WarnContext(ctx, "discarding unreadable record",
			slog.String("key", ports.CategoryColorsKey),
			slog.Any("error", err),
		)

		return domain.CategoryColors{}, nil
	}

	if colors == nil {
		colors = domain.CategoryColors{}
	}

	return colors, nil
}
