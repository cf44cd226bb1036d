package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/credit-insights/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "credit-insights",
	Short: "Customer credit analysis and chat service",
	Long:  "Fetches customer credit data from the upstream GraphQL API, aggregates it into temporal multi-bureau analyses, and serves it through an OpenAI-compatible chat endpoint.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
