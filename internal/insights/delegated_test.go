package insights

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/biobalance/admin/config"
	"github.com/biobalance/admin/types"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

type stubCompleter struct {
	reply  string
	err    error
	calls  int
	prompt string
}

func (s *stubCompleter) Complete(_ context.Context, _, prompt string) (string, error) {
	s.calls++
	s.prompt = prompt
	return s.reply, s.err
}

var sampleMetrics = types.Metrics{
	Days:            7,
	TotalUsers:      10,
	ActiveUsers:     3,
	EngagementRate:  30,
	AvgMealsPerUser: 1,
	ChatEngagement:  0.2,
}

func TestDelegatedGeneratorReturnsReplyVerbatim(t *testing.T) {
	t.Parallel()

	stub := &stubCompleter{reply: `{
  "insights": [{"title": "Strong mornings", "description": "Most meals are logged before noon.", "type": "positive"}],
  "suggestions": ["Ship an evening reminder"],
  "summary": "Usage is concentrated in the morning."
}`}
	gen := NewDelegatedGenerator(stub, NewRuleGenerator(), zap.NewNop())

	report := gen.Generate(context.Background(), sampleMetrics, types.FocusUserExperience)

	want := types.Report{
		Insights:    []types.Insight{{Title: "Strong mornings", Description: "Most meals are logged before noon.", Type: types.InsightPositive}},
		Suggestions: []string{"Ship an evening reminder"},
		Summary:     "Usage is concentrated in the morning.",
	}
	if !reflect.DeepEqual(report, want) {
		t.Fatalf("unexpected report: %+v", report)
	}
	if stub.calls != 1 {
		t.Fatalf("expected one call, got %d", stub.calls)
	}
	if !strings.Contains(stub.prompt, "user_experience") || !strings.Contains(stub.prompt, `"engagementRate": 30`) {
		t.Fatalf("prompt is missing focus or metrics: %s", stub.prompt)
	}
}

func TestDelegatedGeneratorFallsBack(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		stub *stubCompleter
	}{
		{name: "call error", stub: &stubCompleter{err: errors.New("connection refused")}},
		{name: "malformed json", stub: &stubCompleter{reply: `{"insights": [`}},
		{name: "plain text", stub: &stubCompleter{reply: "Engagement looks fine."}},
		{name: "missing summary", stub: &stubCompleter{reply: `{"insights": [], "suggestions": []}`}},
		{name: "empty summary", stub: &stubCompleter{reply: `{"insights": [], "suggestions": [], "summary": "  "}`}},
		{name: "unknown insight type", stub: &stubCompleter{reply: `{"insights": [{"title": "x", "type": "great"}], "suggestions": [], "summary": "s"}`}},
	}

	rules := NewRuleGenerator()
	want := rules.Generate(context.Background(), sampleMetrics, types.FocusNutritionHabits)

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gen := NewDelegatedGenerator(tc.stub, rules, zap.NewNop())
			report := gen.Generate(context.Background(), sampleMetrics, types.FocusNutritionHabits)
			if !reflect.DeepEqual(report, want) {
				t.Fatalf("expected rule-based report, got %+v", report)
			}
		})
	}
}

func TestParseReportStripsCodeFence(t *testing.T) {
	t.Parallel()

	report, err := parseReport("```json\n{\"insights\": [], \"suggestions\": [\"a\"], \"summary\": \"ok\"}\n```")
	if err != nil {
		t.Fatalf("parse report: %v", err)
	}
	if report.Summary != "ok" || len(report.Suggestions) != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func newTestOpenAIClient(t *testing.T, baseURL string) *OpenAIClient {
	t.Helper()
	c, err := NewOpenAIClient(config.OpenAIConfig{APIKey: "sk-test", BaseURL: baseURL, Model: "test-model"}, option.WithMaxRetries(0))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func completionBody(content string) string {
	data, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 0,
		"model":   "test-model",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	return string(data)
}

func TestOpenAIClientComplete(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected authorization %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Model          string            `json:"model"`
			Messages       []json.RawMessage `json:"messages"`
			ResponseFormat struct {
				Type string `json:"type"`
			} `json:"response_format"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "test-model" || len(req.Messages) != 2 || req.ResponseFormat.Type != "json_object" {
			t.Errorf("unexpected request: %s", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody(`{"summary":"hi"}`)))
	}))
	defer ts.Close()

	content, err := newTestOpenAIClient(t, ts.URL).Complete(context.Background(), "system", "prompt")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if content != `{"summary":"hi"}` {
		t.Fatalf("unexpected content %q", content)
	}
}

func TestOpenAIClientStatusError(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit"}}`))
	}))
	defer ts.Close()

	_, err := newTestOpenAIClient(t, ts.URL).Complete(context.Background(), "system", "prompt")
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected status error on 429, got %v", err)
	}
}

func TestBuildPromptWithoutFocus(t *testing.T) {
	t.Parallel()

	prompt, err := buildPrompt(types.Metrics{Days: 7}, "")
	if err != nil {
		t.Fatalf("buildPrompt: %v", err)
	}
	if strings.Contains(prompt, "Focus area") {
		t.Fatalf("prompt should not name a focus area: %q", prompt)
	}
}

func TestNewOpenAIClientRequiresKey(t *testing.T) {
	t.Parallel()

	if _, err := NewOpenAIClient(config.OpenAIConfig{}); err == nil {
		t.Fatal("expected error without API key")
	}
}

func TestAPIBaseURL(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":                           "https://api.openai.com/v1/",
		"https://api.openai.com":     "https://api.openai.com/v1/",
		"https://api.openai.com/v1/": "https://api.openai.com/v1/",
		" http://localhost:8080/ ":   "http://localhost:8080/v1/",
	}
	for in, want := range tests {
		if got := apiBaseURL(in); got != want {
			t.Errorf("apiBaseURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAggregatorWithMalformedOpenAIReply(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody("not json at all")))
	}))
	defer ts.Close()

	agg := NewAggregator(NewDelegatedGenerator(newTestOpenAIClient(t, ts.URL), NewRuleGenerator(), zap.NewNop()))

	snap := agg.Snapshot(context.Background(), Input{
		Days:  7,
		Users: []types.UserProfile{{ID: "a"}, {ID: "b"}},
		Stats: []types.DailyStat{{UserID: "a"}},
	})
	if snap.EngagementRate != 50 {
		t.Fatalf("expected engagement 50, got %v", snap.EngagementRate)
	}
	if snap.Summary == "" || len(snap.Insights) == 0 || len(snap.Suggestions) == 0 {
		t.Fatalf("expected a rule-based report, got %+v", snap.Report)
	}
	if snap.Insights[0].Title != TitleRoomForImprovement {
		t.Fatalf("unexpected first insight %+v", snap.Insights[0])
	}
}

func TestNewGeneratorSelectsImplementation(t *testing.T) {
	t.Parallel()

	if _, ok := NewGenerator(configWithKey(""), zap.NewNop()).(*RuleGenerator); !ok {
		t.Fatalf("expected rule generator without API key")
	}
	if _, ok := NewGenerator(configWithKey("sk-test"), zap.NewNop()).(*DelegatedGenerator); !ok {
		t.Fatalf("expected delegated generator with API key")
	}
}

func configWithKey(key string) config.OpenAIConfig {
	return config.OpenAIConfig{APIKey: key, BaseURL: "http://localhost", Model: "test-model"}
}
