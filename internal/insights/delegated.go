package insights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/biobalance/admin/types"
	"go.uber.org/zap"
)

// Completer sends a system and user prompt to a text-generation service
// and returns the raw reply.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

const systemPrompt = `You are a product analyst for a nutrition-tracking app with a chat bot.
Reply with a single JSON object and nothing else, shaped as:
{"insights":[{"title":string,"description":string,"type":"positive"|"warning"|"info"}],
 "suggestions":[string],
 "summary":string}`

var errMalformedReport = errors.New("malformed report")

// DelegatedGenerator asks an external text generator for the report and
// falls back to another Generator when the call or its reply fails.
type DelegatedGenerator struct {
	completer Completer
	fallback  Generator
	log       *zap.Logger
}

func NewDelegatedGenerator(completer Completer, fallback Generator, logger *zap.Logger) *DelegatedGenerator {
	if fallback == nil {
		fallback = NewRuleGenerator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DelegatedGenerator{
		completer: completer,
		fallback:  fallback,
		log:       logger,
	}
}

func (g *DelegatedGenerator) Generate(ctx context.Context, m types.Metrics, focus types.FocusCategory) types.Report {
	report, err := g.delegate(ctx, m, focus)
	if err != nil {
		g.log.Warn("insights: delegated generation failed, using rules",
			zap.String("focus", string(focus)),
			zap.Error(err))
		return g.fallback.Generate(ctx, m, focus)
	}
	return report
}

func (g *DelegatedGenerator) delegate(ctx context.Context, m types.Metrics, focus types.FocusCategory) (types.Report, error) {
	prompt, err := buildPrompt(m, focus)
	if err != nil {
		return types.Report{}, err
	}
	reply, err := g.completer.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		return types.Report{}, fmt.Errorf("complete: %w", err)
	}
	return parseReport(reply)
}

func buildPrompt(m types.Metrics, focus types.FocusCategory) (string, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal metrics: %w", err)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze the last %d days of app usage.\n", m.Days)
	if focus != "" {
		fmt.Fprintf(&b, "Focus area: %s.\n", focus)
	}
	b.WriteString("Metrics:\n")
	b.Write(data)
	b.WriteString("\nReturn 2-4 insights, 4-8 concrete product suggestions and a one-paragraph summary.")
	return b.String(), nil
}

// parseReport accepts the reply only when it carries both arrays, a
// non-empty summary and insights with a title and a known type.
func parseReport(reply string) (types.Report, error) {
	raw := strings.TrimSpace(reply)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var parsed struct {
		Insights    *[]types.Insight `json:"insights"`
		Suggestions *[]string        `json:"suggestions"`
		Summary     *string          `json:"summary"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return types.Report{}, fmt.Errorf("%w: %v", errMalformedReport, err)
	}
	if parsed.Insights == nil || parsed.Suggestions == nil || parsed.Summary == nil {
		return types.Report{}, fmt.Errorf("%w: missing field", errMalformedReport)
	}
	if strings.TrimSpace(*parsed.Summary) == "" {
		return types.Report{}, fmt.Errorf("%w: empty summary", errMalformedReport)
	}
	for i, insight := range *parsed.Insights {
		if strings.TrimSpace(insight.Title) == "" || !insight.Type.Valid() {
			return types.Report{}, fmt.Errorf("%w: insight %d", errMalformedReport, i)
		}
	}

	return types.Report{
		Insights:    *parsed.Insights,
		Suggestions: *parsed.Suggestions,
		Summary:     *parsed.Summary,
	}, nil
}
