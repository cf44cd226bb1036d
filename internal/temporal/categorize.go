package temporal

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sells-group/credit-insights/internal/model"
)

// SubKeyRule selects a sub-key within a bucket. All Contains substrings
// must appear in the parameter name for the rule to fire.
type SubKeyRule struct {
	Contains []string `yaml:"contains"`
	SubKey   string   `yaml:"sub_key"`
}

// CategoryRule maps parameter names containing one of Keywords to a
// bucket. SubKeys are evaluated in order, first match wins; when none
// match, DefaultSubKey is used.
type CategoryRule struct {
	Keywords      []string     `yaml:"keywords"`
	Bucket        model.Bucket `yaml:"bucket"`
	SubKeys       []SubKeyRule `yaml:"sub_keys"`
	DefaultSubKey string       `yaml:"default_sub_key"`
}

// DefaultRules is the built-in, ordered categorization table. Matching
// is a case-insensitive substring check against the parameter's
// free-text name; the first rule whose keyword matches wins.
func DefaultRules() []CategoryRule {
	return []CategoryRule{
		{
			Keywords: []string{"utilization", "util"},
			Bucket:   model.BucketUtilization,
			SubKeys: []SubKeyRule{
				{Contains: []string{"revolving"}, SubKey: "revolving"},
				{Contains: []string{"credit card"}, SubKey: "credit_card"},
			},
			DefaultSubKey: "overall",
		},
		{
			Keywords: []string{"inquiry", "inquiries"},
			Bucket:   model.BucketInquiries,
			SubKeys: []SubKeyRule{
				{Contains: []string{"hard"}, SubKey: "total"},
				{Contains: []string{"months since"}, SubKey: "months_since"},
				{Contains: []string{"past 6 months"}, SubKey: "recent"},
			},
			DefaultSubKey: "total",
		},
		{
			Keywords: []string{"tradeline", "trade", "account"},
			Bucket:   model.BucketAccounts,
			SubKeys: []SubKeyRule{
				{Contains: []string{"number of tradelines"}, SubKey: "total"},
				{Contains: []string{"open trade"}, SubKey: "open"},
				{Contains: []string{"credit card"}, SubKey: "credit_cards"},
				{Contains: []string{"installment"}, SubKey: "installment"},
			},
			DefaultSubKey: "total",
		},
		{
			Keywords: []string{"payment", "satisfactory"},
			Bucket:   model.BucketPayments,
			SubKeys: []SubKeyRule{
				{Contains: []string{"number of payments"}, SubKey: "total"},
				{Contains: []string{"satisfactory"}, SubKey: "satisfactory"},
				{Contains: []string{"never delinquent"}, SubKey: "never_delinquent"},
			},
			DefaultSubKey: "total",
		},
		{
			Keywords: []string{"delinquency", "delinq", "derogatory"},
			Bucket:   model.BucketDelinquencies,
			SubKeys: []SubKeyRule{
				{Contains: []string{"minor delinq"}, SubKey: "minor"},
				{Contains: []string{"major derogatory"}, SubKey: "major"},
				{Contains: []string{"months since", "delinquency"}, SubKey: "months_since"},
			},
			DefaultSubKey: "total",
		},
	}
}

// Categorizer classifies summary parameters against an ordered rule
// table. The zero value is not usable; construct with NewCategorizer.
type Categorizer struct {
	rules []CategoryRule
}

// NewCategorizer builds a categorizer from the given rules, falling
// back to DefaultRules when none are provided.
func NewCategorizer(rules []CategoryRule) *Categorizer {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Categorizer{rules: rules}
}

// Match resolves a parameter name to its bucket and sub-key. Returns
// false when no rule's keywords match.
func (c *Categorizer) Match(name string) (model.Bucket, string, bool) {
	lower := strings.ToLower(name)
	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if !strings.Contains(lower, kw) {
				continue
			}
			return rule.Bucket, subKeyFor(rule, lower), true
		}
	}
	return "", "", false
}

// Apply classifies params into metrics. Sentinel values are skipped
// entirely: the sub-key stays unset rather than holding a placeholder.
// Unmatched parameters are retained in the uncategorized map so they
// stay inspectable but feed no trend array.
func (c *Categorizer) Apply(params []model.SummaryParameter, metrics *model.CategorizedMetrics) {
	for _, p := range params {
		if p.Name == "" || IsSentinel(p.Value) {
			continue
		}
		value := strings.TrimSpace(paramString(p.Value))

		bucket, subKey, ok := c.Match(p.Name)
		if !ok {
			metrics.SetUncategorized(p.Name, value)
			continue
		}
		metrics.Set(bucket, subKey, value)
	}
}

func subKeyFor(rule CategoryRule, lowerName string) string {
	for _, sk := range rule.SubKeys {
		if containsAll(lowerName, sk.Contains) {
			return sk.SubKey
		}
	}
	return rule.DefaultSubKey
}

func containsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return len(subs) > 0
}

// paramString renders a parameter value as a string. JSON numbers that
// are whole render without the trailing ".0" the float form would get.
func paramString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
