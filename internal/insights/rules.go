package insights

import (
	"context"
	"fmt"
	"strings"

	"github.com/biobalance/admin/types"
)

// Engagement bands. A rate equal to a bound belongs to the band above it.
const (
	LowEngagementThreshold       = 40.0
	ExcellentEngagementThreshold = 60.0
	LowMealsPerUserThreshold     = 2.0
	LowChatEngagementThreshold   = 1.0
)

const (
	TitleCriticalEngagement  = "Critical low engagement"
	TitleRoomForImprovement  = "Room for improvement"
	TitleExcellentEngagement = "Excellent engagement"
	TitleLowMealLogging      = "Low meal logging"
	TitleLowBotUsage         = "Low bot usage"
)

const (
	SuggestSmartReminders    = "Add a smart reminder system that nudges users who have not logged today"
	SuggestOnboarding        = "Improve onboarding so new users log their first meal within minutes"
	SuggestGamification      = "Introduce gamification such as streaks and badges for consistent logging"
	SuggestNotificationAB    = "A/B test notification timing to find when users respond best"
	SuggestSocialProof       = "Add a social-proof feature showing how many users logged today"
	SuggestReferralProgram   = "Launch a referral program to grow the engaged user base"
	SuggestQuickLogTemplates = "Offer quick-log templates for frequently eaten meals"
	SuggestLabelScan         = "Allow logging a meal by scanning its nutrition label"
	SuggestProactiveBot      = "Have the bot send proactive check-in messages"
	SuggestQuickActions      = "Add quick-action buttons to the chat screen"
	SuggestWeeklyEmail       = "Send a weekly email report summarizing each user's progress"
	SuggestHealthSync        = "Sync with third-party health data such as Apple Health and Google Fit"
	SuggestProgressCharts    = "Add visual progress charts to the home screen"
	SuggestPersonalizedRecs  = "Personalize bot recommendations based on each user's goal"
	SuggestHydration         = "Add hydration reminders throughout the day"
	SuggestProteinRecipes    = "Recommend recipes that close each user's daily protein gap"
)

var focusSuggestions = map[types.FocusCategory][]string{
	types.FocusUserExperience:  {SuggestProgressCharts},
	types.FocusBotAlgorithm:    {SuggestPersonalizedRecs},
	types.FocusNutritionHabits: {SuggestHydration, SuggestProteinRecipes},
}

// RuleGenerator derives a report from fixed thresholds. It is deterministic
// and never fails.
type RuleGenerator struct{}

func NewRuleGenerator() *RuleGenerator {
	return &RuleGenerator{}
}

func (g *RuleGenerator) Generate(_ context.Context, m types.Metrics, focus types.FocusCategory) types.Report {
	insights := make([]types.Insight, 0, 3)
	suggestions := make([]string, 0, 8)
	engagement := roundInt(m.EngagementRate)

	switch {
	case m.EngagementRate < LowEngagementThreshold:
		insights = append(insights, types.Insight{
			Title:       TitleCriticalEngagement,
			Description: fmt.Sprintf("Only %d%% of registered users were active in the last %d days.", engagement, m.Days),
			Type:        types.InsightWarning,
		})
		suggestions = append(suggestions, SuggestSmartReminders, SuggestOnboarding, SuggestGamification)
	case m.EngagementRate < ExcellentEngagementThreshold:
		insights = append(insights, types.Insight{
			Title:       TitleRoomForImprovement,
			Description: fmt.Sprintf("%d%% of registered users were active in the last %d days. There is room to grow.", engagement, m.Days),
			Type:        types.InsightInfo,
		})
		suggestions = append(suggestions, SuggestNotificationAB, SuggestSocialProof)
	default:
		insights = append(insights, types.Insight{
			Title:       TitleExcellentEngagement,
			Description: fmt.Sprintf("%d%% of registered users were active in the last %d days.", engagement, m.Days),
			Type:        types.InsightPositive,
		})
		suggestions = append(suggestions, SuggestReferralProgram)
	}

	if m.AvgMealsPerUser < LowMealsPerUserThreshold {
		insights = append(insights, types.Insight{
			Title:       TitleLowMealLogging,
			Description: fmt.Sprintf("Active users logged %.1f meals on average in the window.", m.AvgMealsPerUser),
			Type:        types.InsightWarning,
		})
		suggestions = append(suggestions, SuggestQuickLogTemplates, SuggestLabelScan)
	}

	if m.ChatEngagement < LowChatEngagementThreshold {
		insights = append(insights, types.Insight{
			Title:       TitleLowBotUsage,
			Description: fmt.Sprintf("Users sent %.1f chat messages each on average.", m.ChatEngagement),
			Type:        types.InsightInfo,
		})
		suggestions = append(suggestions, SuggestProactiveBot, SuggestQuickActions)
	}

	suggestions = append(suggestions, SuggestWeeklyEmail, SuggestHealthSync)
	suggestions = append(suggestions, focusSuggestions[focus]...)

	return types.Report{
		Insights:    insights,
		Suggestions: suggestions,
		Summary:     summarize(m),
	}
}

func summarize(m types.Metrics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Over the last %d days %d of %d registered users were active (%d%% engagement). ",
		m.Days, m.ActiveUsers, m.TotalUsers, roundInt(m.EngagementRate))
	fmt.Fprintf(&b, "Active users logged %.1f meals each and users sent %.1f bot messages each. ",
		m.AvgMealsPerUser, m.ChatEngagement)
	fmt.Fprintf(&b, "The average day had %d kcal, %dg protein and %d cups of water. ",
		m.AvgCalories, m.AvgProtein, m.AvgWater)
	b.WriteString(closingRemark(m))
	return b.String()
}

func closingRemark(m types.Metrics) string {
	lowEngagement := m.EngagementRate < LowEngagementThreshold
	lowLogging := m.AvgMealsPerUser < LowMealsPerUserThreshold

	switch {
	case lowEngagement && lowLogging:
		return "Bringing users back and making meal logging faster should be the top priorities."
	case lowEngagement:
		return "Users who stay log consistently; the priority is bringing inactive users back."
	case lowLogging:
		return "Users come back, but they log too few meals; reducing logging friction should come first."
	default:
		return "Engagement and meal logging are healthy; keep iterating on retention features."
	}
}
