package app

import (
	"context"
	"log/slog"

	"github.com/litra-app/litra-backend/internal/domain"
)

// CategorySummary describes one category as presented to clients:
// its name, resolved color token, and how many quotes carry it.
type CategorySummary struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

// CategoryService orchestrates category use cases. Categories are not
// stored as entities; they are derived from the tags on the quote
// collection, with an independent color map layered on top.
type CategoryService struct {
	records *Records
	logger  *slog.Logger
}

// CategoryServiceConfig contains configuration for the category service.
type CategoryServiceConfig struct {
	Records *Records
	Logger  *slog.Logger
}

// NewCategoryService creates a new category service with the provided dependencies.
func NewCategoryService(cfg CategoryServiceConfig) *CategoryService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &CategoryService{
		records: cfg.Records,
		logger:  logger,
	}
}

// List returns the categories currently in use, in first-appearance order.
// A category without an assigned color resolves to a palette color cycled
// by position, so every category always renders with a stable color.
// Color entries for categories no longer in use are ignored.
func (s *CategoryService) List(ctx context.Context) ([]CategorySummary, error) {
	quotes, err := s.records.Quotes(ctx)
	if err != nil {
		return nil, err
	}

	colors, err := s.records.Colors(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, q := range quotes {
		if q.Category != "" {
			counts[q.Category]++
		}
	}

	names := domain.DistinctCategories(quotes)
	summaries := make([]CategorySummary, 0, len(names))

	for i, name := range names {
		color, ok := colors[name]
		if !ok {
			color = domain.CategoryPalette[i%len(domain.CategoryPalette)]
		}

		summaries = append(summaries, CategorySummary{
			Name:  name,
			Color: color,
			Count: counts[name],
		})
	}

	return summaries, nil
}

// AssignColor sets the color token for an in-use category. The token must
// be one of the fixed palette colors and the category must currently tag
// at least one quote.
func (s *CategoryService) AssignColor(ctx context.Context, name, color string) error {
	name = domain.NormalizeCategory(name)
	if name == "" {
		return domain.NewValidationError("category", "category name must not be empty")
	}

	if !domain.IsPaletteColor(color) {
		return domain.NewValidationErrorWithValue("color", "color is not part of the palette", color)
	}

	quotes, err := s.records.Quotes(ctx)
	if err != nil {
		return err
	}

	if !categoryInUse(quotes, name) {
		return domain.NewNotFoundError("category", name)
	}

	if _, err := s.records.MutateColors(ctx, func(colors domain.CategoryColors) (domain.CategoryColors, error) {
		colors[name] = color

		return colors, nil
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to assign category color",
			slog.String("category", name),
			slog.Any("error", err),
		)

		return err
	}

	s.logger.InfoContext(ctx, "assigned category color",
		slog.String("category", name),
		slog.String("color", color),
	)

	return nil
}

// Delete removes the category by untagging every quote that carries it.
// The quotes themselves survive. The color entry is removed afterwards;
// a failure in that second phase is logged and tolerated, since readers
// ignore colors for unused categories.
func (s *CategoryService) Delete(ctx context.Context, name string) error {
	name = domain.NormalizeCategory(name)
	if name == "" {
		return domain.NewValidationError("category", "category name must not be empty")
	}

	if _, err := s.records.MutateQuotes(ctx, func(quotes []domain.Quote) ([]domain.Quote, error) {
		if !categoryInUse(quotes, name) {
			return nil, domain.NewNotFoundError("category", name)
		}

		for i := range quotes {
			if quotes[i].Category == name {
				quotes[i].Category = ""
			}
		}

		return quotes, nil
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete category",
			slog.String("category", name),
			slog.Any("error", err),
		)

		return err
	}

	s.logger.InfoContext(ctx, "deleted category",
		slog.String("category", name),
	)

	if _, err := s.records.MutateColors(ctx, func(colors domain.CategoryColors) (domain.CategoryColors, error) {
		delete(colors, name)

		return colors, nil
	}); err != nil {
		// The quotes are already untagged; a leftover color entry is harmless.
		s.logger.WarnContext(ctx, "failed to prune category color",
			slog.String("category", name),
			slog.Any("error", err),
		)
	}

	return nil
}

func categoryInUse(quotes []domain.Quote, name string) bool {
	for _, q := range quotes {
		if q.Category == name {
			return true
		}
	}

	return false
}
