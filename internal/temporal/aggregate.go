// Package temporal turns raw, inconsistently populated credit-report
// records into time-ordered, per-bureau, cross-bureau-comparable
// metrics. The whole package is a pure, synchronous, in-memory
// transformation: no I/O, no shared state, safe to call from any number
// of goroutines.
package temporal

import (
	"go.uber.org/zap"

	"github.com/sells-group/credit-insights/internal/model"
)

// Stats carries the diagnostic counters from one aggregation run.
type Stats struct {
	RecordsSeen    int `json:"recordsSeen"`
	RecordsSkipped int `json:"recordsSkipped"`
	ReportGroups   int `json:"reportGroups"`
	Bureaus        int `json:"bureaus"`
}

// Option customizes a single Aggregate call.
type Option func(*aggregateOptions)

type aggregateOptions struct {
	rules []CategoryRule
}

// WithRules overrides the built-in categorization rule table, e.g. with
// one loaded via LoadRules.
func WithRules(rules []CategoryRule) Option {
	return func(o *aggregateOptions) {
		o.rules = rules
	}
}

// Aggregate runs the full pipeline: validate → group by (bureau, date)
// → categorize → build per-bureau trends → build the cross-bureau view.
// It is deterministic for a fixed input, never mutates records, and
// never fails on malformed individual records; data-quality problems
// are counted in Stats instead. With no valid data it returns an empty
// but well-formed analysis, never nil.
func Aggregate(records []model.RawRecord, opts ...Option) (*model.TemporalAnalysis, Stats) {
	var options aggregateOptions
	for _, opt := range opts {
		opt(&options)
	}

	stats := Stats{RecordsSeen: len(records)}
	analysis := model.NewTemporalAnalysis()

	valid, skipped := ValidateRecords(records)
	stats.RecordsSkipped = skipped
	if len(valid) == 0 {
		return analysis, stats
	}

	cat := NewCategorizer(options.rules)
	groups := groupByBureauDate(valid, cat)
	stats.ReportGroups = len(groups)
	if len(groups) == 0 {
		return analysis, stats
	}

	analysis.Bureaus = buildBureauTrends(groups)
	analysis.CrossBureauComparison = buildCrossBureauComparison(groups)
	stats.Bureaus = len(analysis.Bureaus)

	zap.L().Debug("temporal: aggregation complete",
		zap.Int("records", stats.RecordsSeen),
		zap.Int("skipped", stats.RecordsSkipped),
		zap.Int("groups", stats.ReportGroups),
		zap.Int("bureaus", stats.Bureaus),
	)

	return analysis, stats
}
