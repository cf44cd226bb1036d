package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/credit-insights/internal/model"
	"github.com/sells-group/credit-insights/internal/report"
	"github.com/sells-group/credit-insights/internal/temporal"
)

var (
	analyzeInput string
	analyzeJSON  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <customer-id>",
	Short: "Aggregate a customer's credit records into a temporal analysis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		customerID := args[0]

		var records []model.RawRecord
		if analyzeInput != "" {
			loaded, err := loadSnapshot(analyzeInput, customerID)
			if err != nil {
				return err
			}
			records = loaded
		} else {
			client, err := initCreditClient()
			if err != nil {
				return err
			}
			fetched, err := client.CustomerRecords(cmd.Context(), customerID)
			if err != nil {
				return eris.Wrapf(err, "fetch records for %s", customerID)
			}
			records = fetched
		}

		rules, err := loadRules()
		if err != nil {
			return err
		}

		analysis, stats := temporal.Aggregate(records, temporal.WithRules(rules))

		if analyzeJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(analysis)
		}

		fmt.Print(report.Format(customerID, analysis, stats))
		return nil
	},
}

// loadSnapshot reads records for customerID from a fetch-command JSON
// snapshot. A snapshot holding a single bare record list is accepted
// too, in which case the customer id is not checked.
func loadSnapshot(path, customerID string) ([]model.RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read snapshot %s", path)
	}

	var snapshots []fetchResult
	if err := json.Unmarshal(data, &snapshots); err == nil && len(snapshots) > 0 && snapshots[0].CustomerID != "" {
		for _, s := range snapshots {
			if s.CustomerID == customerID {
				return s.Records, nil
			}
		}
		return nil, eris.Errorf("snapshot %s has no data for customer %s", path, customerID)
	}

	var records []model.RawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, eris.Wrapf(err, "parse snapshot %s", path)
	}
	return records, nil
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeInput, "input", "", "read records from a fetch snapshot instead of the API")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the raw analysis as JSON")
	rootCmd.AddCommand(analyzeCmd)
}
