package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/biobalance/admin/internal/insights"
	"github.com/biobalance/admin/types"
	"go.uber.org/zap"
)

const (
	// DefaultInsightDays is used when the request carries no window.
	DefaultInsightDays = 7

	// MaxInsightDays bounds the query window.
	MaxInsightDays = 365

	activityHistoryDays = 30
)

// ErrInvalidFocus is returned for an unknown insight focus category. An
// empty focus is accepted and adds no focus suggestions.
var ErrInvalidFocus = errors.New("invalid insight type")

// InsightsService loads the rows of a query window and hands them to the
// aggregator.
type InsightsService struct {
	users      UserRepository
	stats      StatRepository
	meals      MealRepository
	chats      ChatRepository
	aggregator *insights.Aggregator
	log        *zap.Logger
}

func NewInsightsService(
	users UserRepository,
	stats StatRepository,
	meals MealRepository,
	chats ChatRepository,
	aggregator *insights.Aggregator,
	logger *zap.Logger,
) *InsightsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InsightsService{
		users:      users,
		stats:      stats,
		meals:      meals,
		chats:      chats,
		aggregator: aggregator,
		log:        logger,
	}
}

// Generate computes a fresh snapshot for the last days days ending at now.
// Chat messages are optional input: a failure to load them is logged and
// the snapshot is computed without them.
func (s *InsightsService) Generate(ctx context.Context, days int, focus types.FocusCategory, now time.Time) (types.MetricsSnapshot, error) {
	if focus != "" && !focus.Valid() {
		return types.MetricsSnapshot{}, ErrInvalidFocus
	}
	days = ClampDays(days)
	since := now.AddDate(0, 0, -days)

	users, err := s.users.List(ctx, 0)
	if err != nil {
		return types.MetricsSnapshot{}, fmt.Errorf("list users: %w", err)
	}
	stats, err := s.stats.ListSince(ctx, since.Format(types.DateLayout), 0)
	if err != nil {
		return types.MetricsSnapshot{}, fmt.Errorf("list stats: %w", err)
	}
	meals, err := s.meals.ListSince(ctx, since)
	if err != nil {
		return types.MetricsSnapshot{}, fmt.Errorf("list meals: %w", err)
	}
	chats, err := s.chats.ListSince(ctx, since)
	if err != nil {
		s.log.Warn("insights: chat messages unavailable", zap.Error(err))
		chats = nil
	}

	return s.aggregator.Snapshot(ctx, insights.Input{
		Days:  days,
		Focus: focus,
		Users: users,
		Stats: stats,
		Meals: meals,
		Chats: chats,
	}), nil
}

// ClampDays maps a requested window onto 1..MaxInsightDays, using
// DefaultInsightDays for non-positive input.
func ClampDays(days int) int {
	switch {
	case days < 1:
		return DefaultInsightDays
	case days > MaxInsightDays:
		return MaxInsightDays
	default:
		return days
	}
}

// DashboardService builds the dashboard page.
type DashboardService struct {
	users UserRepository
	stats StatRepository
}

func NewDashboardService(users UserRepository, stats StatRepository) *DashboardService {
	return &DashboardService{users: users, stats: stats}
}

func (s *DashboardService) Dashboard(ctx context.Context, now time.Time) (types.Dashboard, error) {
	total, err := s.users.Count(ctx)
	if err != nil {
		return types.Dashboard{}, fmt.Errorf("count users: %w", err)
	}
	today, err := s.stats.ListByDate(ctx, now.Format(types.DateLayout))
	if err != nil {
		return types.Dashboard{}, fmt.Errorf("list today's stats: %w", err)
	}
	users, err := s.users.List(ctx, 0)
	if err != nil {
		return types.Dashboard{}, fmt.Errorf("list users: %w", err)
	}
	history, err := s.stats.ListSince(ctx, insights.WindowStart(now, activityHistoryDays), 0)
	if err != nil {
		return types.Dashboard{}, fmt.Errorf("list activity: %w", err)
	}

	cutoff := insights.WindowStart(now, insights.DefaultInactiveDays)
	recent := make([]types.DailyStat, 0, len(history))
	for _, st := range history {
		if st.Date >= cutoff {
			recent = append(recent, st)
		}
	}

	return types.Dashboard{
		Stats:           insights.OverallStats(total, today),
		AtRiskUsers:     insights.AtRiskUsers(users, recent),
		ActivityHistory: insights.ActivityHistory(history),
	}, nil
}
