package model

import (
	"fmt"
	"strings"
)

// Upstream field names on the credit-data API. The GraphQL schema keeps
// the legacy MISMO-style casing, so the ingestion layer maps them here
// and nothing downstream ever sees them.
const (
	FieldCreditResponse = "CreditResponse"
	FieldBureau         = "CREDIT_BUREAU"
	FieldReportDate     = "CreditReportFirstIssuedDate"
	FieldScores         = "CREDIT_SCORE"
	FieldScoreValue     = "Value"
	FieldScoreModel     = "ModelNameType"
	FieldScoreSource    = "CreditRepositorySourceType"
	FieldSummary        = "CREDIT_SUMMARY"
	FieldSummaryDataSet = "DATA_SET"
	FieldParameterID    = "ID"
	FieldParameterName  = "Name"
	FieldParameterValue = "Value"
)

// RawRecord is one record as returned by the credit-data API: an opaque
// key/value bag that may or may not carry a CreditResponse. Records are
// transient; the aggregation engine never retains them across calls.
type RawRecord map[string]any

// HasCreditResponse reports whether the record carries a CreditResponse
// key at all, regardless of its shape.
func (r RawRecord) HasCreditResponse() bool {
	_, ok := r[FieldCreditResponse]
	return ok
}

// ID returns the record's id field as a string, or "" when absent.
func (r RawRecord) ID() string {
	if v, ok := r["id"]; ok {
		return asString(v)
	}
	return ""
}

// CreditResponse is the credit-report payload nested inside a RawRecord.
type CreditResponse struct {
	Bureau     string
	ReportDate string
	Scores     []ScoreEntry
	Summary    []SummaryParameter
}

// ScoreEntry is a single credit score reading. Value is kept untyped
// because the API delivers it as a number, a numeric string, or a
// sentinel placeholder depending on the bureau.
type ScoreEntry struct {
	Value      any
	ModelType  string
	SourceType string
}

// SummaryParameter is one named rollup statistic attached to a report,
// e.g. "Revolving Utilization" or "Number of Tradelines".
type SummaryParameter struct {
	ID    string
	Name  string
	Value any
}

// DecodeCreditResponse maps the raw CreditResponse value of a record to
// the typed form. Returns false when the value is not map-shaped, which
// callers treat as structural invalidity. Single-element score and
// summary lists sometimes arrive collapsed to a bare object; both forms
// are accepted.
func DecodeCreditResponse(v any) (*CreditResponse, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}

	cr := &CreditResponse{
		Bureau:     strings.TrimSpace(asString(m[FieldBureau])),
		ReportDate: strings.TrimSpace(asString(m[FieldReportDate])),
	}

	for _, sv := range asList(m[FieldScores]) {
		sm, ok := sv.(map[string]any)
		if !ok {
			continue
		}
		cr.Scores = append(cr.Scores, ScoreEntry{
			Value:      sm[FieldScoreValue],
			ModelType:  asString(sm[FieldScoreModel]),
			SourceType: asString(sm[FieldScoreSource]),
		})
	}

	if sum, ok := m[FieldSummary].(map[string]any); ok {
		for _, pv := range asList(sum[FieldSummaryDataSet]) {
			pm, ok := pv.(map[string]any)
			if !ok {
				continue
			}
			cr.Summary = append(cr.Summary, SummaryParameter{
				ID:    asString(pm[FieldParameterID]),
				Name:  asString(pm[FieldParameterName]),
				Value: pm[FieldParameterValue],
			})
		}
	}

	return cr, true
}

// asString renders any scalar as its string form; nil becomes "".
func asString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// asList normalizes list-or-single JSON values to a slice.
func asList(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	default:
		return []any{t}
	}
}
