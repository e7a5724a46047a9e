package insights

import (
	"sort"
	"time"

	"github.com/biobalance/admin/types"
)

// DefaultInactiveDays is the trailing window after which a silent user
// counts as at risk.
const DefaultInactiveDays = 3

// OverallStats builds the dashboard headline from the profile count and
// the daily stats of the current day.
func OverallStats(totalUsers int, todayStats []types.DailyStat) types.OverallStats {
	calories, protein, water := Averages(todayStats)
	return types.OverallStats{
		TotalUsers:       totalUsers,
		ActiveUsersToday: countDistinctUsers(todayStats),
		AvgCalories:      calories,
		AvgProtein:       protein,
		AvgWater:         water,
	}
}

// ActivityHistory groups stats by date and counts distinct users per
// date, oldest first.
func ActivityHistory(stats []types.DailyStat) []types.ActivityPoint {
	byDate := make(map[string]map[string]struct{})
	for _, s := range stats {
		users, ok := byDate[s.Date]
		if !ok {
			users = make(map[string]struct{})
			byDate[s.Date] = users
		}
		users[s.UserID] = struct{}{}
	}

	points := make([]types.ActivityPoint, 0, len(byDate))
	for date, users := range byDate {
		points = append(points, types.ActivityPoint{Date: date, ActiveUsers: len(users)})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})
	return points
}

// AtRiskUsers returns the users that have no stat in recentStats.
// recentStats must already be limited to the inactivity window.
func AtRiskUsers(users []types.UserProfile, recentStats []types.DailyStat) []types.UserSummary {
	active := make(map[string]struct{}, len(recentStats))
	for _, s := range recentStats {
		active[s.UserID] = struct{}{}
	}

	atRisk := make([]types.UserSummary, 0)
	for _, u := range users {
		if _, ok := active[u.ID]; ok {
			continue
		}
		atRisk = append(atRisk, u.Summary())
	}
	return atRisk
}

// WindowStart returns the first calendar date of a window of days ending
// at now, formatted like daily_stats.date.
func WindowStart(now time.Time, days int) string {
	return now.AddDate(0, 0, -days).Format(types.DateLayout)
}
