package app

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/litra-app/litra-backend/internal/domain"
	"github.com/litra-app/litra-backend/internal/ports"
)

// QuoteDraft carries user-supplied fields for creating or updating a quote.
type QuoteDraft struct {
	Text       string
	BookTitle  string
	Author     string
	PageNumber string
	Category   string
	Theme      string
}

// QuoteFilter narrows a listing. Zero value means the whole collection.
type QuoteFilter struct {
	// Search matches case-insensitively against text, book title, and author.
	Search string

	// Category keeps only quotes tagged with exactly this category.
	Category string
}

// LibraryService orchestrates quote collection use cases.
// It depends on port interfaces, not concrete implementations,
// following the Dependency Inversion Principle.
type LibraryService struct {
	records *Records
	clock   ports.Clock
	flags   ports.FeatureFlags
	logger  *slog.Logger
}

// LibraryServiceConfig contains configuration for the library service.
type LibraryServiceConfig struct {
	Records *Records
	Clock   ports.Clock
	Flags   ports.FeatureFlags
	Logger  *slog.Logger
}

// NewLibraryService creates a new library service with the provided dependencies.
func NewLibraryService(cfg LibraryServiceConfig) *LibraryService {
	clock := cfg.Clock
	if clock == nil {
		clock = ports.SystemClock()
	}

	flags := cfg.Flags
	if flags == nil {
		flags = ports.NewStaticFlags(nil)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &LibraryService{
		records: cfg.Records,
		clock:   clock,
		flags:   flags,
		logger:  logger,
	}
}

// List returns quotes in most-recent-first order, optionally narrowed by
// filter. Filtering never reorders the stored collection.
func (s *LibraryService) List(ctx context.Context, filter QuoteFilter) ([]domain.Quote, error) {
	quotes, err := s.records.Quotes(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load quotes",
			slog.Any("error", err),
		)

		return nil, err
	}

	return domain.Filter(quotes, filter.Search, filter.Category), nil
}

// Get returns the quote with the given id.
func (s *LibraryService) Get(ctx context.Context, id string) (*domain.Quote, error) {
	quotes, err := s.records.Quotes(ctx)
	if err != nil {
		return nil, err
	}

	for i := range quotes {
		if quotes[i].ID == id {
			q := quotes[i]

			return &q, nil
		}
	}

	return nil, domain.NewNotFoundError("quote", id)
}

// Create validates the draft, stamps identity and creation date, and
// prepends the new quote so listings stay most-recent-first.
func (s *LibraryService) Create(ctx context.Context, draft QuoteDraft) (*domain.Quote, error) {
	text, err := normalizeQuoteText(draft.Text)
	if err != nil {
		s.logger.WarnContext(ctx, "rejected quote draft",
			slog.Any("error", err),
		)

		return nil, err
	}

	quote := domain.Quote{
		ID:         uuid.NewString(),
		Text:       text,
		BookTitle:  defaultIfBlank(draft.BookTitle, domain.UnknownBook),
		Author:     defaultIfBlank(draft.Author, domain.UnknownAuthor),
		PageNumber: strings.TrimSpace(draft.PageNumber),
		Category:   domain.NormalizeCategory(draft.Category),
		Theme:      domain.ParseTheme(draft.Theme),
		Date:       s.clock.Now().Format(domain.DateLayout),
	}

	if _, err := s.records.MutateQuotes(ctx, func(quotes []domain.Quote) ([]domain.Quote, error) {
		return append([]domain.Quote{quote}, quotes...), nil
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to save quote",
			slog.String("quote_id", quote.ID),
			slog.Any("error", err),
		)

		return nil, err
	}

	s.logger.InfoContext(ctx, "created quote",
		slog.String("quote_id", quote.ID),
		slog.String("book_title", quote.BookTitle),
	)

	return &quote, nil
}

// Update replaces the editable fields of an existing quote. Identity and
// creation date are immutable; the quote keeps its position in the list.
func (s *LibraryService) Update(ctx context.Context, id string, draft QuoteDraft) (*domain.Quote, error) {
	text, err := normalizeQuoteText(draft.Text)
	if err != nil {
		return nil, err
	}

	var updated domain.Quote

	if _, err := s.records.MutateQuotes(ctx, func(quotes []domain.Quote) ([]domain.Quote, error) {
		for i := range quotes {
			if quotes[i].ID != id {
				continue
			}

			quotes[i].Text = text
			quotes[i].BookTitle = defaultIfBlank(draft.BookTitle, domain.UnknownBook)
			quotes[i].Author = defaultIfBlank(draft.Author, domain.UnknownAuthor)
			quotes[i].PageNumber = strings.TrimSpace(draft.PageNumber)
			quotes[i].Category = domain.NormalizeCategory(draft.Category)
			quotes[i].Theme = domain.ParseTheme(draft.Theme)
			updated = quotes[i]

			return quotes, nil
		}

		return nil, domain.NewNotFoundError("quote", id)
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to update quote",
			slog.String("quote_id", id),
			slog.Any("error", err),
		)

		return nil, err
	}

	s.logger.InfoContext(ctx, "updated quote",
		slog.String("quote_id", id),
	)

	return &updated, nil
}

// Delete removes the quote with the given id. Deleting an id that is not
// in the collection succeeds without changing anything. When stale-color
// pruning is enabled and the removed quote was the last one in its
// category, the category's color entry is dropped as well; a failure in
// that cleanup is logged and tolerated.
func (s *LibraryService) Delete(ctx context.Context, id string) error {
	var orphaned string

	if _, err := s.records.MutateQuotes(ctx, func(quotes []domain.Quote) ([]domain.Quote, error) {
		var category string

		kept := make([]domain.Quote, 0, len(quotes))
		for _, q := range quotes {
			if q.ID != id {
				kept = append(kept, q)
			} else {
				category = q.Category
			}
		}

		if category != "" && !categoryInUse(kept, category) {
			orphaned = category
		}

		return kept, nil
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete quote",
			slog.String("quote_id", id),
			slog.Any("error", err),
		)

		return err
	}

	s.logger.InfoContext(ctx, "deleted quote",
		slog.String("quote_id", id),
	)

	if orphaned != "" && s.flags.IsEnabled(ctx, ports.FlagPruneStaleColors, false) {
		if _, err := s.records.MutateColors(ctx, func(colors domain.CategoryColors) (domain.CategoryColors, error) {
			delete(colors, orphaned)

			return colors, nil
		}); err != nil {
			// The quote is already gone; a leftover color entry is harmless.
			s.logger.WarnContext(ctx, "failed to prune category color",
				slog.String("category", orphaned),
				slog.Any("error", err),
			)
		}
	}

	return nil
}

// normalizeQuoteText trims the draft text and enforces the two save rules:
// minimum length and rejection of the untouched capture placeholder.
// Lowercasing uses Turkish casing so a placeholder re-typed in capitals
// (dotted İ included) still matches the fragment.
func normalizeQuoteText(raw string) (string, error) {
	text := strings.TrimSpace(raw)

	if strings.Contains(cases.Lower(language.Turkish).String(text), domain.ScanPlaceholderFragment) {
		return "", domain.NewValidationError("quote", "quote text is the unedited capture placeholder")
	}

	if utf8.RuneCountInString(text) < domain.MinQuoteLength {
		return "", domain.NewValidationError("quote", "quote text must be at least 5 characters")
	}

	return text, nil
}

func defaultIfBlank(raw, fallback string) string {
	if trimmed := strings.TrimSpace(raw); trimmed != "" {
		return trimmed
	}

	return fallback
}
