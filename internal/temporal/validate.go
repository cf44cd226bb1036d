package temporal

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/credit-insights/internal/model"
)

// ValidateRecords drops structurally invalid records and returns the
// survivors with a count of skips. A record is invalid when its
// CreditResponse is present but not map-shaped, when the decoded
// response is missing the bureau or report date, or when the record
// carries an id that is not a UUID. Invalid records are counted, never
// surfaced as errors; the surrounding call keeps processing.
func ValidateRecords(records []model.RawRecord) ([]model.RawRecord, int) {
	valid := make([]model.RawRecord, 0, len(records))
	var skipped int

	for _, rec := range records {
		if id := rec.ID(); id != "" {
			if _, err := uuid.Parse(id); err != nil {
				zap.L().Debug("temporal: record id is not a UUID",
					zap.String("id", id),
				)
				skipped++
				continue
			}
		}

		if rec.HasCreditResponse() {
			cr, ok := model.DecodeCreditResponse(rec[model.FieldCreditResponse])
			if !ok {
				zap.L().Debug("temporal: CreditResponse is not map-shaped")
				skipped++
				continue
			}
			if cr.Bureau == "" || cr.ReportDate == "" {
				zap.L().Debug("temporal: CreditResponse missing bureau or report date",
					zap.String("bureau", cr.Bureau),
					zap.String("report_date", cr.ReportDate),
				)
				skipped++
				continue
			}
		}

		valid = append(valid, rec)
	}

	if skipped > 0 {
		zap.L().Warn("temporal: skipped invalid records",
			zap.Int("skipped", skipped),
			zap.Int("valid", len(valid)),
			zap.Int("total", len(records)),
		)
	}

	return valid, skipped
}
