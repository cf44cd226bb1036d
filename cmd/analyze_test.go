package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/credit-insights/internal/model"
)

func writeSnapshot(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoadSnapshot_FetchFormat(t *testing.T) {
	path := writeSnapshot(t, []fetchResult{
		{
			CustomerID: "cust-1",
			Records: []model.RawRecord{
				{model.FieldCreditResponse: map[string]any{
					model.FieldBureau:     "Experian",
					model.FieldReportDate: "2024-01-01",
				}},
			},
		},
	})

	records, err := loadSnapshot(path, "cust-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].HasCreditResponse())
}

func TestLoadSnapshot_WrongCustomer(t *testing.T) {
	path := writeSnapshot(t, []fetchResult{{CustomerID: "cust-1"}})

	_, err := loadSnapshot(path, "cust-2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data for customer cust-2")
}

func TestLoadSnapshot_BareRecordList(t *testing.T) {
	path := writeSnapshot(t, []model.RawRecord{
		{model.FieldCreditResponse: map[string]any{
			model.FieldBureau:     "TransUnion",
			model.FieldReportDate: "2024-02-01",
		}},
	})

	records, err := loadSnapshot(path, "whoever")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestLoadSnapshot_MissingFile(t *testing.T) {
	_, err := loadSnapshot(filepath.Join(t.TempDir(), "absent.json"), "c")
	assert.Error(t, err)
}

func TestLoadSnapshot_Garbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := loadSnapshot(path, "c")
	assert.Error(t, err)
}
