package ports

import (
	"context"
)

// Flag names understood by the application layer.
const (
	// FlagPruneStaleColors controls whether deleting the last quote of a
	// category also removes that category's entry from the color map. Off
	// by default; stale color entries are harmless and ignored by readers.
	FlagPruneStaleColors = "prune-stale-colors"
)

// FeatureFlags defines the contract for feature flag evaluation.
// This port allows the application to check feature enablement without
// knowing the underlying provider.
//
// Design principles:
//   - Always provide default values for graceful degradation
//   - Context parameter reserved for request-scoped targeting
//   - Synchronous evaluation (async flag updates happen in adapter)
//
// Example usage:
//
//	if flags.IsEnabled(ctx, ports.FlagPruneStaleColors, false) {
//	    delete(colors, category)
//	}
type FeatureFlags interface {
	// IsEnabled checks if a boolean feature flag is enabled.
	// Returns defaultValue if the flag doesn't exist or evaluation fails.
	IsEnabled(ctx context.Context, flag string, defaultValue bool) bool

	// GetString retrieves a string feature flag value.
	// Returns defaultValue if the flag doesn't exist or evaluation fails.
	GetString(ctx context.Context, flag string, defaultValue string) string

	// GetInt retrieves an integer feature flag value.
	// Returns defaultValue if the flag doesn't exist or evaluation fails.
	GetInt(ctx context.Context, flag string, defaultValue int) int
}

// StaticFlags is a FeatureFlags implementation backed by a fixed map,
// typically loaded from configuration at startup. A nil *StaticFlags is
// valid and evaluates every flag to its default.
type StaticFlags struct {
	values map[string]any
}

// NewStaticFlags creates a StaticFlags from the given values.
func NewStaticFlags(values map[string]any) *StaticFlags {
	return &StaticFlags{values: values}
}

// IsEnabled implements FeatureFlags.
func (f *StaticFlags) IsEnabled(_ context.Context, flag string, defaultValue bool) bool {
	if f == nil {
		return defaultValue
	}

	if v, ok := f.values[flag].(bool); ok {
		return v
	}

	return defaultValue
}

// GetString implements FeatureFlags.
func (f *StaticFlags) GetString(_ context.Context, flag string, defaultValue string) string {
	if f == nil {
		return defaultValue
	}

	if v, ok := f.values[flag].(string); ok {
		return v
	}

	return defaultValue
}

// GetInt implements FeatureFlags.
func (f *StaticFlags) GetInt(_ context.Context, flag string, defaultValue int) int {
	if f == nil {
		return defaultValue
	}

	switch v := f.values[flag].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}

	return defaultValue
}
