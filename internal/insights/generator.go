package insights

import (
	"context"

	"github.com/biobalance/admin/config"
	"github.com/biobalance/admin/types"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

// Generator turns metrics into insights, suggestions and a summary.
type Generator interface {
	Generate(ctx context.Context, m types.Metrics, focus types.FocusCategory) types.Report
}

// NewGenerator picks the delegated generator when an OpenAI key is
// configured and the rule-based one otherwise.
func NewGenerator(cfg config.OpenAIConfig, logger *zap.Logger) Generator {
	rules := NewRuleGenerator()
	if cfg.APIKey == "" {
		return rules
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	client, err := NewOpenAIClient(cfg, option.WithMaxRetries(1))
	if err != nil {
		logger.Warn("insights: OpenAI client unavailable, using rules", zap.Error(err))
		return rules
	}
	return NewDelegatedGenerator(client, rules, logger)
}

// Aggregator computes a MetricsSnapshot from raw rows.
type Aggregator struct {
	generator Generator
}

func NewAggregator(generator Generator) *Aggregator {
	if generator == nil {
		generator = NewRuleGenerator()
	}
	return &Aggregator{generator: generator}
}

// Snapshot computes the metrics for in and attaches the generated report.
func (a *Aggregator) Snapshot(ctx context.Context, in Input) types.MetricsSnapshot {
	metrics := ComputeMetrics(in)
	report := a.generator.Generate(ctx, metrics, in.Focus)
	return types.MetricsSnapshot{
		Metrics: metrics,
		Report:  report,
	}
}
