package temporal

import (
	"go.uber.org/zap"

	"github.com/sells-group/credit-insights/internal/model"
)

// bureauDateKey is the composite grouping key: one bureau's report on
// one date.
type bureauDateKey struct {
	bureau string
	date   string
}

// bureauDateGroup accumulates everything reported for one key. Scores
// hold only values that passed the sentinel filter and range check.
type bureauDateGroup struct {
	bureau  string
	date    string
	scores  []float64
	metrics model.CategorizedMetrics
}

// groupByBureauDate indexes validated records by (bureau, reportDate).
// Duplicate keys merge: scores from all records under a key pool
// together (the trend builder averages them), and summary parameters
// merge per sub-key with the later record in iteration order winning.
// Upstream data is expected to be consistent within a report, so the
// overwrite is a tie-break, not a correctness hazard.
func groupByBureauDate(records []model.RawRecord, cat *Categorizer) map[bureauDateKey]*bureauDateGroup {
	groups := make(map[bureauDateKey]*bureauDateGroup)

	for _, rec := range records {
		if !rec.HasCreditResponse() {
			continue
		}
		cr, ok := model.DecodeCreditResponse(rec[model.FieldCreditResponse])
		if !ok {
			// Validation already dropped malformed responses; a miss
			// here means the caller bypassed ValidateRecords.
			continue
		}

		key := bureauDateKey{bureau: cr.Bureau, date: cr.ReportDate}
		group, seen := groups[key]
		if !seen {
			group = &bureauDateGroup{bureau: cr.Bureau, date: cr.ReportDate}
			groups[key] = group
		} else {
			zap.L().Debug("temporal: merging duplicate report",
				zap.String("bureau", cr.Bureau),
				zap.String("report_date", cr.ReportDate),
			)
		}

		for _, entry := range cr.Scores {
			if v, valid := scoreValue(entry.Value); valid {
				group.scores = append(group.scores, v)
			}
		}

		cat.Apply(cr.Summary, &group.metrics)
	}

	return groups
}
