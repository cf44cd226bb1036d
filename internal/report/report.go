// Package report renders a temporal credit analysis as the text block
// embedded in LLM prompts and printed by the analyze command.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sells-group/credit-insights/internal/model"
	"github.com/sells-group/credit-insights/internal/temporal"
)

var bucketLabels = map[model.Bucket]string{
	model.BucketUtilization:   "Utilization",
	model.BucketInquiries:     "Inquiries",
	model.BucketAccounts:      "Accounts",
	model.BucketPayments:      "Payments",
	model.BucketDelinquencies: "Delinquencies",
}

// Format generates a human-readable report for one customer's analysis.
// Bureaus and dates print in sorted order so output is deterministic.
func Format(customerID string, analysis *model.TemporalAnalysis, stats temporal.Stats) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Credit Report Analysis: %s\n\n", customerID)

	if len(analysis.Bureaus) == 0 {
		b.WriteString("No credit report data available for this customer.\n")
		writeFooter(&b, stats)
		return b.String()
	}

	bureaus := make([]string, 0, len(analysis.Bureaus))
	for name := range analysis.Bureaus {
		bureaus = append(bureaus, name)
	}
	sort.Strings(bureaus)

	for _, name := range bureaus {
		trend := analysis.Bureaus[name]
		fmt.Fprintf(&b, "## %s\n", name)
		fmt.Fprintf(&b, "- Reports: %d (%s to %s)\n",
			trend.TotalReports,
			trend.DateRangeAscending[0],
			trend.DateRangeAscending[len(trend.DateRangeAscending)-1],
		)

		if len(trend.ScoreProgression) > 0 {
			b.WriteString("- Score progression: ")
			parts := make([]string, 0, len(trend.ScoreProgression))
			for _, p := range trend.ScoreProgression {
				parts = append(parts, fmt.Sprintf("%s: %.0f", p.Date, p.Average))
			}
			b.WriteString(strings.Join(parts, " → "))
			b.WriteString("\n")
			writeScoreDelta(&b, trend.ScoreProgression)
		}

		for _, bucket := range model.AllBuckets() {
			writeTrend(&b, bucketLabels[bucket], trend.TrendFor(bucket))
		}
		b.WriteString("\n")
	}

	writeComparison(&b, analysis)
	writeFooter(&b, stats)
	return b.String()
}

func writeScoreDelta(b *strings.Builder, progression []model.ScorePoint) {
	if len(progression) < 2 {
		return
	}
	delta := progression[len(progression)-1].Average - progression[0].Average
	direction := "stable"
	if delta > 0 {
		direction = "improving"
	} else if delta < 0 {
		direction = "declining"
	}
	fmt.Fprintf(b, "- Score change: %+.0f (%s)\n", delta, direction)
}

func writeTrend(b *strings.Builder, label string, points []model.TrendPoint) {
	if len(points) == 0 {
		return
	}
	fmt.Fprintf(b, "- %s:\n", label)
	for _, p := range points {
		keys := make([]string, 0, len(p.Values))
		for k := range p.Values {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", k, p.Values[k]))
		}
		fmt.Fprintf(b, "  - %s: %s\n", p.Date, strings.Join(parts, ", "))
	}
}

func writeComparison(b *strings.Builder, analysis *model.TemporalAnalysis) {
	if len(analysis.CrossBureauComparison) == 0 {
		return
	}

	b.WriteString("## Cross-Bureau Comparison\n")
	dates := make([]string, 0, len(analysis.CrossBureauComparison))
	for date := range analysis.CrossBureauComparison {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	for _, date := range dates {
		snapshots := analysis.CrossBureauComparison[date]
		bureaus := make([]string, 0, len(snapshots))
		for name := range snapshots {
			bureaus = append(bureaus, name)
		}
		sort.Strings(bureaus)

		fmt.Fprintf(b, "- %s:\n", date)
		for _, name := range bureaus {
			snap := snapshots[name]
			if len(snap.Scores) > 0 {
				fmt.Fprintf(b, "  - %s: avg score %.0f (%d reading(s))\n",
					name, meanOf(snap.Scores), len(snap.Scores))
			} else {
				fmt.Fprintf(b, "  - %s: no valid scores\n", name)
			}
		}
	}
	b.WriteString("\n")
}

func writeFooter(b *strings.Builder, stats temporal.Stats) {
	b.WriteString("---\n")
	fmt.Fprintf(b, "Records: %d processed, %d skipped; %d report group(s) across %d bureau(s)\n",
		stats.RecordsSeen, stats.RecordsSkipped, stats.ReportGroups, stats.Bureaus)
}

func meanOf(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
