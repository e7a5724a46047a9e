package services

import (
	"context"
	"fmt"

	"github.com/biobalance/admin/internal/insights"
	"github.com/biobalance/admin/types"
)

const (
	// ListLimit caps every list endpoint.
	ListLimit = 100

	detailStatsLimit = 30
	detailMealsLimit = 10
)

// UserRepository defines read operations for user profiles.
type UserRepository interface {
	List(ctx context.Context, limit int) ([]types.UserProfile, error)
	GetByID(ctx context.Context, id string) (types.UserProfile, error)
	ListByIDs(ctx context.Context, ids []string) ([]types.UserProfile, error)
	Count(ctx context.Context) (int, error)
}

// UserService encapsulates user use-cases.
type UserService struct {
	repo  UserRepository
	stats StatRepository
	meals MealRepository
}

func NewUserService(repo UserRepository, stats StatRepository, meals MealRepository) *UserService {
	return &UserService{repo: repo, stats: stats, meals: meals}
}

// List returns the newest profiles, capped at ListLimit.
func (s *UserService) List(ctx context.Context) ([]types.UserProfile, error) {
	return s.repo.List(ctx, ListLimit)
}

// Detail returns the profile with its recent stats, recent meals and the
// averages over those stats. Unknown ids yield store.ErrNotFound.
func (s *UserService) Detail(ctx context.Context, id string) (types.UserDetail, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return types.UserDetail{}, err
	}
	stats, err := s.stats.ListByUser(ctx, id, detailStatsLimit)
	if err != nil {
		return types.UserDetail{}, fmt.Errorf("list stats: %w", err)
	}
	meals, err := s.meals.ListByUser(ctx, id, detailMealsLimit)
	if err != nil {
		return types.UserDetail{}, fmt.Errorf("list meals: %w", err)
	}

	calories, protein, water := insights.Averages(stats)
	return types.UserDetail{
		User:        user,
		Stats:       stats,
		Meals:       meals,
		AvgCalories: calories,
		AvgProtein:  protein,
		AvgWater:    water,
	}, nil
}

// summaries resolves the profile summaries of ids. Missing profiles are
// simply absent from the map.
func summaries(ctx context.Context, repo UserRepository, ids []string) (map[string]types.UserSummary, error) {
	out := make(map[string]types.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	profiles, err := repo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	for _, p := range profiles {
		out[p.ID] = p.Summary()
	}
	return out, nil
}

func distinct(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
