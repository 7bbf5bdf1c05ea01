package app

import (
	"context"
	"log/slog"

	"github.com/litra-app/litra-backend/internal/domain"
	"github.com/litra-app/litra-backend/internal/ports"
)

// DefaultStatsWindowDays is the activity window used when a caller does
// not ask for a specific one.
const DefaultStatsWindowDays = 10

// StatsOverview is the reading activity snapshot shown on the stats screen.
type StatsOverview struct {
	TotalQuotes   int                  `json:"totalQuotes"`
	RecentQuotes  int                  `json:"recentQuotes"`
	WindowDays    int                  `json:"windowDays"`
	TopBooks      []domain.RankedEntry `json:"topBooks"`
	TopCategories []domain.RankedEntry `json:"topCategories"`
}

// StatsService computes reading statistics over the quote collection.
type StatsService struct {
	records *Records
	clock   ports.Clock
	logger  *slog.Logger
}

// StatsServiceConfig contains configuration for the stats service.
type StatsServiceConfig struct {
	Records *Records
	Clock   ports.Clock
	Logger  *slog.Logger
}

// NewStatsService creates a new stats service with the provided dependencies.
func NewStatsService(cfg StatsServiceConfig) *StatsService {
	clock := cfg.Clock
	if clock == nil {
		clock = ports.SystemClock()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &StatsService{
		records: cfg.Records,
		clock:   clock,
		logger:  logger,
	}
}

// Overview computes the activity snapshot for the given window. A
// non-positive windowDays falls back to DefaultStatsWindowDays.
func (s *StatsService) Overview(ctx context.Context, windowDays int) (*StatsOverview, error) {
	if windowDays <= 0 {
		windowDays = DefaultStatsWindowDays
	}

	quotes, err := s.records.Quotes(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load quotes for stats",
			slog.Any("error", err),
		)

		return nil, err
	}

	return &StatsOverview{
		TotalQuotes:   domain.TotalCount(quotes),
		RecentQuotes:  domain.RecentCount(quotes, windowDays, s.clock.Now()),
		WindowDays:    windowDays,
		TopBooks:      domain.TopBooks(quotes, domain.DefaultTopN),
		TopCategories: domain.TopCategories(quotes, domain.DefaultTopN),
	}, nil
}
