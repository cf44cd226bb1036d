package model

// Bucket is one of the five semantic categories a summary parameter can
// be classified into.
type Bucket string

const (
	BucketUtilization   Bucket = "utilization"
	BucketInquiries     Bucket = "inquiries"
	BucketAccounts      Bucket = "accounts"
	BucketPayments      Bucket = "payments"
	BucketDelinquencies Bucket = "delinquencies"
)

// AllBuckets returns the five buckets in presentation order.
func AllBuckets() []Bucket {
	return []Bucket{
		BucketUtilization,
		BucketInquiries,
		BucketAccounts,
		BucketPayments,
		BucketDelinquencies,
	}
}

// CategorizedMetrics holds the classified summary parameters for one
// (bureau, reportDate) group. Sub-keys that had no valid value are
// absent, never present with a placeholder. Parameters whose name
// matched no rule are kept in Uncategorized keyed by name.
type CategorizedMetrics struct {
	Utilization   map[string]string `json:"utilization,omitempty"`
	Inquiries     map[string]string `json:"inquiries,omitempty"`
	Accounts      map[string]string `json:"accounts,omitempty"`
	Payments      map[string]string `json:"payments,omitempty"`
	Delinquencies map[string]string `json:"delinquencies,omitempty"`
	Uncategorized map[string]string `json:"uncategorized,omitempty"`
}

// Set assigns value to subKey in the given bucket, allocating the
// bucket map on first use. Later writes for the same sub-key overwrite
// earlier ones.
func (m *CategorizedMetrics) Set(bucket Bucket, subKey, value string) {
	target := m.bucketMap(bucket)
	if target == nil {
		return
	}
	(*target)[subKey] = value
}

// SetUncategorized records a parameter that matched no rule.
func (m *CategorizedMetrics) SetUncategorized(name, value string) {
	if m.Uncategorized == nil {
		m.Uncategorized = make(map[string]string)
	}
	m.Uncategorized[name] = value
}

// Get returns the value for subKey in bucket, if present.
func (m *CategorizedMetrics) Get(bucket Bucket, subKey string) (string, bool) {
	target := m.bucketMap(bucket)
	if target == nil || *target == nil {
		return "", false
	}
	v, ok := (*target)[subKey]
	return v, ok
}

// Bucket returns a copy of the named bucket's map, or nil when empty.
func (m *CategorizedMetrics) Bucket(bucket Bucket) map[string]string {
	target := m.bucketMap(bucket)
	if target == nil || len(*target) == 0 {
		return nil
	}
	out := make(map[string]string, len(*target))
	for k, v := range *target {
		out[k] = v
	}
	return out
}

// Clone deep-copies the metrics so results can be handed off without
// sharing mutable maps.
func (m *CategorizedMetrics) Clone() CategorizedMetrics {
	var out CategorizedMetrics
	for _, b := range AllBuckets() {
		src := m.bucketMap(b)
		if src == nil || len(*src) == 0 {
			continue
		}
		dst := out.bucketMap(b)
		*dst = make(map[string]string, len(*src))
		for k, v := range *src {
			(*dst)[k] = v
		}
	}
	if len(m.Uncategorized) > 0 {
		out.Uncategorized = make(map[string]string, len(m.Uncategorized))
		for k, v := range m.Uncategorized {
			out.Uncategorized[k] = v
		}
	}
	return out
}

func (m *CategorizedMetrics) bucketMap(bucket Bucket) *map[string]string {
	var target *map[string]string
	switch bucket {
	case BucketUtilization:
		target = &m.Utilization
	case BucketInquiries:
		target = &m.Inquiries
	case BucketAccounts:
		target = &m.Accounts
	case BucketPayments:
		target = &m.Payments
	case BucketDelinquencies:
		target = &m.Delinquencies
	default:
		return nil
	}
	if *target == nil {
		*target = make(map[string]string)
	}
	return target
}

// ScorePoint is one entry in a bureau's score progression: the mean of
// all range-valid scores reported on a date.
type ScorePoint struct {
	Date    string  `json:"date"`
	Average float64 `json:"avg"`
	Count   int     `json:"count"`
}

// TrendPoint is one dated entry in a categorized trend array. Values
// carries only the sub-keys actually present on that date.
type TrendPoint struct {
	Date   string            `json:"date"`
	Values map[string]string `json:"values"`
}

// BureauTrend is the time-ordered view of one bureau's reports. All
// arrays are ordered oldest to newest.
type BureauTrend struct {
	TotalReports       int          `json:"totalReports"`
	DateRangeAscending []string     `json:"dateRangeAscending"`
	ScoreProgression   []ScorePoint `json:"scoreProgression"`
	UtilizationTrend   []TrendPoint `json:"utilizationTrend"`
	InquiryTrend       []TrendPoint `json:"inquiryTrend"`
	AccountTrend       []TrendPoint `json:"accountTrend"`
	PaymentTrend       []TrendPoint `json:"paymentTrend"`
	DelinquencyTrend   []TrendPoint `json:"delinquencyTrend"`
}

// TrendFor returns the trend array backing the given bucket.
func (t *BureauTrend) TrendFor(bucket Bucket) []TrendPoint {
	switch bucket {
	case BucketUtilization:
		return t.UtilizationTrend
	case BucketInquiries:
		return t.InquiryTrend
	case BucketAccounts:
		return t.AccountTrend
	case BucketPayments:
		return t.PaymentTrend
	case BucketDelinquencies:
		return t.DelinquencyTrend
	}
	return nil
}

// BureauDateSnapshot is one bureau's data at one report date, used by
// the cross-bureau comparison view.
type BureauDateSnapshot struct {
	Scores  []float64          `json:"scores,omitempty"`
	Metrics CategorizedMetrics `json:"metrics"`
}

// TemporalAnalysis is the engine's output: per-bureau trends plus a
// date-keyed cross-bureau view. Both maps are always non-nil.
type TemporalAnalysis struct {
	Bureaus               map[string]BureauTrend                   `json:"bureaus"`
	CrossBureauComparison map[string]map[string]BureauDateSnapshot `json:"crossBureauComparison"`
}

// NewTemporalAnalysis returns an empty but well-formed analysis.
func NewTemporalAnalysis() *TemporalAnalysis {
	return &TemporalAnalysis{
		Bureaus:               make(map[string]BureauTrend),
		CrossBureauComparison: make(map[string]map[string]BureauDateSnapshot),
	}
}
