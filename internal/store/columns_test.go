package store

import (
	"strings"
	"testing"
)

func TestNullableColumnsAreCoalesced(t *testing.T) {
	tests := []struct {
		name    string
		columns string
		want    []string
	}{
		{"profiles", profileColumns, []string{"email", "full_name", "goal"}},
		{"stats", statColumns, []string{"calories", "protein", "fat", "carbs", "water", "updated_at"}},
		{"meals", mealColumns, []string{"description", "calories", "protein", "fat", "carbs"}},
		{"recipes", recipeColumns, []string{"title", "content", "calories", "protein", "fat"}},
		{"chats", chatColumns, []string{"content"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, col := range tt.want {
				if !strings.Contains(tt.columns, "COALESCE("+col+",") {
					t.Errorf("column %s is not coalesced in %q", col, tt.columns)
				}
			}
		})
	}
}

func TestLimitArg(t *testing.T) {
	if got := limitArg(0); got != nil {
		t.Fatalf("limitArg(0) = %v, want nil", got)
	}
	if got := limitArg(-1); got != nil {
		t.Fatalf("limitArg(-1) = %v, want nil", got)
	}
	if got := limitArg(25); got != 25 {
		t.Fatalf("limitArg(25) = %v, want 25", got)
	}
}
