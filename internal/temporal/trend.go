package temporal

import (
	"sort"

	"github.com/sells-group/credit-insights/internal/model"
)

// buildBureauTrends produces each bureau's time-ordered view from the
// grouped data. Dates sort ascending lexically, which is chronological
// for the upstream's ISO-style date strings. A date with no valid
// scores contributes no score point, and a bucket with no data on a
// date contributes no trend point; absence stays absence, never a zero.
func buildBureauTrends(groups map[bureauDateKey]*bureauDateGroup) map[string]model.BureauTrend {
	byBureau := make(map[string][]*bureauDateGroup)
	for _, g := range groups {
		byBureau[g.bureau] = append(byBureau[g.bureau], g)
	}

	trends := make(map[string]model.BureauTrend, len(byBureau))
	for bureau, bureauGroups := range byBureau {
		sort.Slice(bureauGroups, func(i, j int) bool {
			return bureauGroups[i].date < bureauGroups[j].date
		})

		trend := model.BureauTrend{
			TotalReports:       len(bureauGroups),
			DateRangeAscending: make([]string, 0, len(bureauGroups)),
		}

		for _, g := range bureauGroups {
			trend.DateRangeAscending = append(trend.DateRangeAscending, g.date)

			if len(g.scores) > 0 {
				trend.ScoreProgression = append(trend.ScoreProgression, model.ScorePoint{
					Date:    g.date,
					Average: mean(g.scores),
					Count:   len(g.scores),
				})
			}

			trend.UtilizationTrend = appendTrendPoint(trend.UtilizationTrend, g, model.BucketUtilization)
			trend.InquiryTrend = appendTrendPoint(trend.InquiryTrend, g, model.BucketInquiries)
			trend.AccountTrend = appendTrendPoint(trend.AccountTrend, g, model.BucketAccounts)
			trend.PaymentTrend = appendTrendPoint(trend.PaymentTrend, g, model.BucketPayments)
			trend.DelinquencyTrend = appendTrendPoint(trend.DelinquencyTrend, g, model.BucketDelinquencies)
		}

		trends[bureau] = trend
	}

	return trends
}

func appendTrendPoint(points []model.TrendPoint, g *bureauDateGroup, bucket model.Bucket) []model.TrendPoint {
	values := g.metrics.Bucket(bucket)
	if len(values) == 0 {
		return points
	}
	return append(points, model.TrendPoint{Date: g.date, Values: values})
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
