package main

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/credit-insights/internal/model"
)

var (
	fetchOut         string
	fetchConcurrency int
	fetchTxns        bool
	fetchPhones      bool
)

// fetchResult is one customer's raw data snapshot.
type fetchResult struct {
	CustomerID   string              `json:"customerId"`
	Records      []model.RawRecord   `json:"records"`
	Transactions []model.Transaction `json:"transactions,omitempty"`
	PhoneHistory []model.PhoneEvent  `json:"phoneHistory,omitempty"`
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <customer-id>...",
	Short: "Fetch raw credit records for one or more customers",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		client, err := initCreditClient()
		if err != nil {
			return err
		}

		g, gCtx := errgroup.WithContext(ctx)
		g.SetLimit(fetchConcurrency)

		var mu sync.Mutex
		results := make([]fetchResult, 0, len(args))

		for _, customerID := range args {
			g.Go(func() error {
				records, err := client.CustomerRecords(gCtx, customerID)
				if err != nil {
					return eris.Wrapf(err, "fetch records for %s", customerID)
				}

				result := fetchResult{CustomerID: customerID, Records: records}

				if fetchTxns {
					txns, err := client.Transactions(gCtx, customerID, cfg.CreditAPI.TransactionLimit)
					if err != nil {
						return eris.Wrapf(err, "fetch transactions for %s", customerID)
					}
					result.Transactions = txns
				}
				if fetchPhones {
					phones, err := client.PhoneHistory(gCtx, customerID)
					if err != nil {
						return eris.Wrapf(err, "fetch phone history for %s", customerID)
					}
					result.PhoneHistory = phones
				}

				zap.L().Info("fetched customer data",
					zap.String("customer_id", customerID),
					zap.Int("records", len(records)),
				)

				mu.Lock()
				results = append(results, result)
				mu.Unlock()
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return err
		}

		out := os.Stdout
		if fetchOut != "" {
			f, err := os.Create(fetchOut)
			if err != nil {
				return eris.Wrapf(err, "create output file %s", fetchOut)
			}
			defer f.Close()
			out = f
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchOut, "out", "", "write JSON output to a file instead of stdout")
	fetchCmd.Flags().IntVar(&fetchConcurrency, "concurrency", 4, "max concurrent customer fetches")
	fetchCmd.Flags().BoolVar(&fetchTxns, "transactions", false, "include recent transactions")
	fetchCmd.Flags().BoolVar(&fetchPhones, "phones", false, "include phone history")
	rootCmd.AddCommand(fetchCmd)
}
