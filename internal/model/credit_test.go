package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCreditResponse_FullShape(t *testing.T) {
	raw := `{
		"CREDIT_BUREAU": "Experian",
		"CreditReportFirstIssuedDate": "2024-01-01",
		"CREDIT_SCORE": [
			{"Value": "700", "ModelNameType": "FICO", "CreditRepositorySourceType": "Experian"}
		],
		"CREDIT_SUMMARY": {
			"DATA_SET": [
				{"ID": "1", "Name": "Revolving Utilization", "Value": "25%"}
			]
		}
	}`
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))

	cr, ok := DecodeCreditResponse(v)
	require.True(t, ok)
	assert.Equal(t, "Experian", cr.Bureau)
	assert.Equal(t, "2024-01-01", cr.ReportDate)
	require.Len(t, cr.Scores, 1)
	assert.Equal(t, "700", cr.Scores[0].Value)
	assert.Equal(t, "FICO", cr.Scores[0].ModelType)
	require.Len(t, cr.Summary, 1)
	assert.Equal(t, "Revolving Utilization", cr.Summary[0].Name)
	assert.Equal(t, "25%", cr.Summary[0].Value)
}

func TestDecodeCreditResponse_CollapsedSingletons(t *testing.T) {
	// Single-element lists sometimes arrive as bare objects.
	v := map[string]any{
		FieldBureau:     "TransUnion",
		FieldReportDate: "2024-02-01",
		FieldScores: map[string]any{
			FieldScoreValue: float64(680),
		},
		FieldSummary: map[string]any{
			FieldSummaryDataSet: map[string]any{
				FieldParameterName:  "Hard Inquiries",
				FieldParameterValue: "2",
			},
		},
	}

	cr, ok := DecodeCreditResponse(v)
	require.True(t, ok)
	require.Len(t, cr.Scores, 1)
	assert.Equal(t, float64(680), cr.Scores[0].Value)
	require.Len(t, cr.Summary, 1)
	assert.Equal(t, "Hard Inquiries", cr.Summary[0].Name)
}

func TestDecodeCreditResponse_NotMapShaped(t *testing.T) {
	_, ok := DecodeCreditResponse("nope")
	assert.False(t, ok)
	_, ok = DecodeCreditResponse([]any{1, 2})
	assert.False(t, ok)
	_, ok = DecodeCreditResponse(nil)
	assert.False(t, ok)
}

func TestDecodeCreditResponse_TrimsWhitespace(t *testing.T) {
	cr, ok := DecodeCreditResponse(map[string]any{
		FieldBureau:     "  Equifax  ",
		FieldReportDate: " 2024-03-01 ",
	})
	require.True(t, ok)
	assert.Equal(t, "Equifax", cr.Bureau)
	assert.Equal(t, "2024-03-01", cr.ReportDate)
}

func TestRawRecord_Accessors(t *testing.T) {
	rec := RawRecord{"id": "abc", FieldCreditResponse: map[string]any{}}
	assert.Equal(t, "abc", rec.ID())
	assert.True(t, rec.HasCreditResponse())

	empty := RawRecord{}
	assert.Equal(t, "", empty.ID())
	assert.False(t, empty.HasCreditResponse())
}

func TestCategorizedMetrics_CloneIsDeep(t *testing.T) {
	var m CategorizedMetrics
	m.Set(BucketUtilization, "revolving", "25%")
	m.SetUncategorized("Foo", "1")

	clone := m.Clone()
	clone.Set(BucketUtilization, "revolving", "99%")
	clone.Uncategorized["Foo"] = "2"

	v, _ := m.Get(BucketUtilization, "revolving")
	assert.Equal(t, "25%", v)
	assert.Equal(t, "1", m.Uncategorized["Foo"])
}
