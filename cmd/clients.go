package main

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/credit-insights/internal/temporal"
	"github.com/sells-group/credit-insights/pkg/creditapi"
)

// initCreditClient builds the credit-data API client from config.
func initCreditClient() (creditapi.Client, error) {
	if cfg.CreditAPI.BaseURL == "" {
		return nil, eris.New("credit_api.base_url is not configured")
	}
	if cfg.CreditAPI.Token == "" {
		return nil, eris.New("credit_api.token is not configured")
	}

	return creditapi.NewClient(
		cfg.CreditAPI.BaseURL,
		creditapi.StaticToken(cfg.CreditAPI.Token),
		creditapi.WithRateLimit(cfg.CreditAPI.RequestsPerSec),
	), nil
}

// loadRules reads the categorization rule override when configured;
// nil means the engine's built-in table.
func loadRules() ([]temporal.CategoryRule, error) {
	if cfg.Engine.RulesFile == "" {
		return nil, nil
	}
	rules, err := temporal.LoadRules(cfg.Engine.RulesFile)
	if err != nil {
		return nil, eris.Wrap(err, "load categorization rules")
	}
	return rules, nil
}
