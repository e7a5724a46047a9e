package services

import (
	"context"
	"fmt"
	"time"

	"github.com/biobalance/admin/internal/insights"
	"github.com/biobalance/admin/types"
)

// StatRepository defines read operations for daily stats.
type StatRepository interface {
	ListByDate(ctx context.Context, date string) ([]types.DailyStat, error)
	ListSince(ctx context.Context, since string, limit int) ([]types.DailyStat, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]types.DailyStat, error)
}

// MealRepository defines read operations for meals.
type MealRepository interface {
	List(ctx context.Context, limit int) ([]types.Meal, error)
	ListSince(ctx context.Context, since time.Time) ([]types.Meal, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]types.Meal, error)
}

// RecipeRepository defines read operations for saved recipes.
type RecipeRepository interface {
	List(ctx context.Context, limit int) ([]types.SavedRecipe, error)
}

const (
	statsWindowDays = 30

	// unknownEmail is shown for recipes whose owner has no profile.
	unknownEmail = "unknown"
)

// MealService lists meals joined with their owners.
type MealService struct {
	repo  MealRepository
	users UserRepository
}

func NewMealService(repo MealRepository, users UserRepository) *MealService {
	return &MealService{repo: repo, users: users}
}

// List returns the newest meals, each with its owner's summary when the
// owner has a profile.
func (s *MealService) List(ctx context.Context) ([]types.MealWithUser, error) {
	meals, err := s.repo.List(ctx, ListLimit)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(meals))
	for _, m := range meals {
		ids = append(ids, m.UserID)
	}
	owners, err := summaries(ctx, s.users, distinct(ids))
	if err != nil {
		return nil, err
	}

	out := make([]types.MealWithUser, 0, len(meals))
	for _, m := range meals {
		row := types.MealWithUser{Meal: m}
		if owner, ok := owners[m.UserID]; ok {
			row.UserProfile = &owner
		}
		out = append(out, row)
	}
	return out, nil
}

// RecipeService lists saved recipes annotated with owner emails.
type RecipeService struct {
	repo  RecipeRepository
	users UserRepository
}

func NewRecipeService(repo RecipeRepository, users UserRepository) *RecipeService {
	return &RecipeService{repo: repo, users: users}
}

func (s *RecipeService) List(ctx context.Context) ([]types.RecipeWithEmail, error) {
	recipes, err := s.repo.List(ctx, ListLimit)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(recipes))
	for _, r := range recipes {
		ids = append(ids, r.UserID)
	}
	owners, err := summaries(ctx, s.users, distinct(ids))
	if err != nil {
		return nil, err
	}

	out := make([]types.RecipeWithEmail, 0, len(recipes))
	for _, r := range recipes {
		email := unknownEmail
		if owner, ok := owners[r.UserID]; ok && owner.Email != "" {
			email = owner.Email
		}
		out = append(out, types.RecipeWithEmail{SavedRecipe: r, UserEmail: email})
	}
	return out, nil
}

// StatService builds the stats page.
type StatService struct {
	repo  StatRepository
	users UserRepository
}

func NewStatService(repo StatRepository, users UserRepository) *StatService {
	return &StatService{repo: repo, users: users}
}

// Overview returns today's stats, the newest stats of the last 30 days and
// today's averages. now fixes "today".
func (s *StatService) Overview(ctx context.Context, now time.Time) (types.StatsOverview, error) {
	today, err := s.repo.ListByDate(ctx, now.Format(types.DateLayout))
	if err != nil {
		return types.StatsOverview{}, fmt.Errorf("list today's stats: %w", err)
	}
	recent, err := s.repo.ListSince(ctx, insights.WindowStart(now, statsWindowDays), ListLimit)
	if err != nil {
		return types.StatsOverview{}, fmt.Errorf("list recent stats: %w", err)
	}

	ids := make([]string, 0, len(today)+len(recent))
	for _, st := range today {
		ids = append(ids, st.UserID)
	}
	for _, st := range recent {
		ids = append(ids, st.UserID)
	}
	owners, err := summaries(ctx, s.users, distinct(ids))
	if err != nil {
		return types.StatsOverview{}, err
	}

	calories, protein, water := insights.Averages(today)
	return types.StatsOverview{
		TodayStats:  withOwners(today, owners),
		RecentStats: withOwners(recent, owners),
		AvgCalories: calories,
		AvgProtein:  protein,
		AvgWater:    water,
		ActiveToday: len(today),
	}, nil
}

func withOwners(stats []types.DailyStat, owners map[string]types.UserSummary) []types.StatWithUser {
	out := make([]types.StatWithUser, 0, len(stats))
	for _, st := range stats {
		row := types.StatWithUser{DailyStat: st}
		if owner, ok := owners[st.UserID]; ok {
			row.UserProfile = &owner
		}
		out = append(out, row)
	}
	return out
}
