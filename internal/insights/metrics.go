// Package insights aggregates daily nutrition records into engagement
// metrics and turns them into a short textual report.
package insights

import (
	"math"

	"github.com/biobalance/admin/types"
)

// Input is everything the aggregator needs for one report. Stats, Meals
// and Chats are expected to be already filtered to the query window.
type Input struct {
	Days  int
	Focus types.FocusCategory
	Users []types.UserProfile
	Stats []types.DailyStat
	Meals []types.Meal
	Chats []types.ChatMessage
}

// ComputeMetrics derives the aggregate numbers for in. It never divides by
// zero: every ratio falls back to 0 when its denominator is empty.
func ComputeMetrics(in Input) types.Metrics {
	totalUsers := len(in.Users)
	activeUsers := countDistinctUsers(in.Stats)
	avgCalories, avgProtein, avgWater := Averages(in.Stats)

	m := types.Metrics{
		Days:         in.Days,
		TotalUsers:   totalUsers,
		ActiveUsers:  activeUsers,
		AvgCalories:  avgCalories,
		AvgProtein:   avgProtein,
		AvgWater:     avgWater,
		MealCount:    len(in.Meals),
		ChatMessages: len(in.Chats),
	}
	if totalUsers > 0 {
		m.EngagementRate = float64(activeUsers) * 100 / float64(totalUsers)
		m.ChatEngagement = float64(len(in.Chats)) / float64(totalUsers)
	}
	if activeUsers > 0 {
		m.AvgMealsPerUser = float64(len(in.Meals)) / float64(activeUsers)
	}
	return m
}

// Averages returns the rounded mean calories, protein and water over stats,
// or zeros when stats is empty.
func Averages(stats []types.DailyStat) (calories, protein, water int) {
	if len(stats) == 0 {
		return 0, 0, 0
	}
	var sumCalories, sumProtein, sumWater float64
	for _, s := range stats {
		sumCalories += s.Calories
		sumProtein += s.Protein
		sumWater += s.Water
	}
	n := float64(len(stats))
	return roundInt(sumCalories / n), roundInt(sumProtein / n), roundInt(sumWater / n)
}

func countDistinctUsers(stats []types.DailyStat) int {
	seen := make(map[string]struct{}, len(stats))
	for _, s := range stats {
		seen[s.UserID] = struct{}{}
	}
	return len(seen)
}

func roundInt(v float64) int {
	return int(math.Round(v))
}
