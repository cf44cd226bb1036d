package main

import (
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/credit-insights/internal/chat"
	"github.com/sells-group/credit-insights/internal/prompt"
	"github.com/sells-group/credit-insights/pkg/agenta"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the OpenAI-compatible chat server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		creditClient, err := initCreditClient()
		if err != nil {
			return err
		}

		rules, err := loadRules()
		if err != nil {
			return err
		}

		promptOpts := []prompt.Option{
			prompt.WithLocalTemplate(cfg.Prompt.SystemTemplate),
		}
		if cfg.Agenta.Key != "" {
			manager := agenta.NewClient(cfg.Agenta.Key, agenta.WithBaseURL(cfg.Agenta.BaseURL))
			promptOpts = append(promptOpts, prompt.WithManager(manager, cfg.Agenta.AppSlug, cfg.Agenta.Environment))
		}

		completers := chat.NewCompleters(cfg.LLM)
		if len(completers) == 0 {
			return eris.New("no LLM provider keys configured")
		}

		server := chat.NewServer(chat.Options{
			Credit:          creditClient,
			Prompts:         prompt.NewBuilder(promptOpts...),
			Completers:      completers,
			DefaultProvider: cfg.LLM.Provider,
			DefaultModel:    cfg.LLM.DefaultModel,
			Rules:           rules,
			AllowedOrigins:  cfg.Server.AllowedOrigins,
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: server.Router(),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting chat server",
			zap.Int("port", port),
			zap.String("provider", cfg.LLM.Provider),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
