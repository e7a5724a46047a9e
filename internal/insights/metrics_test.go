package insights_test

import (
	"fmt"
	"testing"

	"github.com/biobalance/admin/internal/insights"
	"github.com/biobalance/admin/types"
)

func users(n int) []types.UserProfile {
	out := make([]types.UserProfile, n)
	for i := range out {
		out[i] = types.UserProfile{ID: fmt.Sprintf("user-%d", i)}
	}
	return out
}

func statsFor(userIDs ...string) []types.DailyStat {
	out := make([]types.DailyStat, 0, len(userIDs))
	for _, id := range userIDs {
		out = append(out, types.DailyStat{UserID: id, Date: "2026-10-01", Calories: 2000, Protein: 120, Water: 8})
	}
	return out
}

func meals(n int) []types.Meal {
	return make([]types.Meal, n)
}

func TestComputeMetricsEmptyInput(t *testing.T) {
	t.Parallel()

	m := insights.ComputeMetrics(insights.Input{Days: 7})
	if m.TotalUsers != 0 || m.ActiveUsers != 0 {
		t.Fatalf("expected zero users, got %+v", m)
	}
	if m.AvgCalories != 0 || m.AvgProtein != 0 || m.AvgWater != 0 {
		t.Fatalf("expected zero averages, got %+v", m)
	}
	if m.EngagementRate != 0 || m.AvgMealsPerUser != 0 || m.ChatEngagement != 0 {
		t.Fatalf("expected zero ratios, got %+v", m)
	}
	if m.Days != 7 {
		t.Fatalf("expected days 7, got %d", m.Days)
	}
}

func TestComputeMetricsNoUsersKeepsEngagementZero(t *testing.T) {
	t.Parallel()

	m := insights.ComputeMetrics(insights.Input{
		Stats: statsFor("a", "b"),
		Chats: make([]types.ChatMessage, 4),
	})
	if m.ActiveUsers != 2 {
		t.Fatalf("expected 2 active users, got %d", m.ActiveUsers)
	}
	if m.EngagementRate != 0 {
		t.Fatalf("expected engagement 0 without users, got %v", m.EngagementRate)
	}
	if m.ChatEngagement != 0 {
		t.Fatalf("expected chat engagement 0 without users, got %v", m.ChatEngagement)
	}
}

func TestComputeMetricsToleratesMoreActiveThanTotal(t *testing.T) {
	t.Parallel()

	m := insights.ComputeMetrics(insights.Input{
		Users: users(1),
		Stats: statsFor("a", "b", "c"),
	})
	if m.EngagementRate != 300 {
		t.Fatalf("expected engagement 300, got %v", m.EngagementRate)
	}
}

func TestComputeMetricsEngagementRate(t *testing.T) {
	t.Parallel()

	m := insights.ComputeMetrics(insights.Input{
		Users: users(10),
		Stats: statsFor("user-1", "user-2", "user-3", "user-3"),
	})
	if m.ActiveUsers != 3 {
		t.Fatalf("expected 3 distinct active users, got %d", m.ActiveUsers)
	}
	if m.EngagementRate != 30 {
		t.Fatalf("expected engagement 30, got %v", m.EngagementRate)
	}
	if m.EngagementRate < 0 {
		t.Fatalf("engagement must not be negative")
	}
}

func TestComputeMetricsRoundsAverages(t *testing.T) {
	t.Parallel()

	m := insights.ComputeMetrics(insights.Input{
		Users: users(2),
		Stats: []types.DailyStat{
			{UserID: "a", Calories: 100, Protein: 10.2, Water: 3},
			{UserID: "b", Calories: 201, Protein: 10.2, Water: 4},
		},
	})
	if m.AvgCalories != 151 {
		t.Fatalf("expected avg calories 151, got %d", m.AvgCalories)
	}
	if m.AvgProtein != 10 {
		t.Fatalf("expected avg protein 10, got %d", m.AvgProtein)
	}
	if m.AvgWater != 4 {
		t.Fatalf("expected avg water 4, got %d", m.AvgWater)
	}
}

func TestComputeMetricsMealsAndChats(t *testing.T) {
	t.Parallel()

	m := insights.ComputeMetrics(insights.Input{
		Users: users(4),
		Stats: statsFor("a", "b"),
		Meals: meals(5),
		Chats: make([]types.ChatMessage, 2),
	})
	if m.AvgMealsPerUser != 2.5 {
		t.Fatalf("expected 2.5 meals per user, got %v", m.AvgMealsPerUser)
	}
	if m.ChatEngagement != 0.5 {
		t.Fatalf("expected chat engagement 0.5, got %v", m.ChatEngagement)
	}
	if m.MealCount != 5 || m.ChatMessages != 2 {
		t.Fatalf("unexpected counts: %+v", m)
	}
}

func TestComputeMetricsMealsWithoutActiveUsers(t *testing.T) {
	t.Parallel()

	m := insights.ComputeMetrics(insights.Input{
		Users: users(3),
		Meals: meals(9),
	})
	if m.AvgMealsPerUser != 0 {
		t.Fatalf("expected 0 meals per user without active users, got %v", m.AvgMealsPerUser)
	}
}
