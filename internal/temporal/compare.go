package temporal

import (
	"github.com/sells-group/credit-insights/internal/model"
)

// buildCrossBureauComparison re-keys the grouped data by report date so
// all bureaus reporting on the same date sit side by side. Keys are the
// union of every bureau's report dates; a bureau with no report on an
// exact date is simply absent from that date's snapshot, with no
// interpolation.
func buildCrossBureauComparison(groups map[bureauDateKey]*bureauDateGroup) map[string]map[string]model.BureauDateSnapshot {
	comparison := make(map[string]map[string]model.BureauDateSnapshot)

	for key, g := range groups {
		byBureau, ok := comparison[key.date]
		if !ok {
			byBureau = make(map[string]model.BureauDateSnapshot)
			comparison[key.date] = byBureau
		}

		snapshot := model.BureauDateSnapshot{
			Metrics: g.metrics.Clone(),
		}
		if len(g.scores) > 0 {
			snapshot.Scores = append([]float64(nil), g.scores...)
		}
		byBureau[key.bureau] = snapshot
	}

	return comparison
}
