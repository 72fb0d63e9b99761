package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/charmkar/workflow/internal/core/api"
	"github.com/charmkar/workflow/internal/core/config"
	"github.com/charmkar/workflow/internal/core/db"
	"github.com/charmkar/workflow/internal/core/logging"
	"github.com/charmkar/workflow/internal/core/server"
	"github.com/charmkar/workflow/internal/rules"
	"github.com/charmkar/workflow/internal/sms"
	"github.com/charmkar/workflow/internal/store"
)

const Version = "0.1.0"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP event-intake service",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("host", "0.0.0.0", "HTTP server host")
	serveCmd.Flags().Int("port", 8090, "HTTP server port")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	logger, err := logging.New(logLevel, logFormat)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("host") {
		cfg.Host, _ = cmd.Flags().GetString("host")
	}
	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetInt("port")
	}

	if dbURL == "" {
		return fmt.Errorf("--db-url required")
	}
	database, err := db.Open(dbURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	if err := db.MigrateUp(database); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	queries, err := db.LoadQueries(database)
	if err != nil {
		return fmt.Errorf("failed to load queries: %w", err)
	}

	smsCfg, err := cfg.SMSConfig()
	if err != nil {
		return fmt.Errorf("failed to load sms config: %w", err)
	}
	transport, err := sms.NewClient(smsCfg)
	if err != nil {
		return fmt.Errorf("failed to create sms client: %w", err)
	}

	ruleStore := store.NewRuleStore(queries, logger)
	noteStore := store.NewNoteStore(queries)

	dispatcher := rules.NewDispatcher(logger,
		rules.NewNoteAction(noteStore),
		rules.NewSMSAction(transport),
	)
	engine := rules.NewEngine(ruleStore, dispatcher, logger)

	service, err := api.NewService(engine, database, logger)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	httpServer, err := server.NewHTTPServer(cfg, service, config.APIToken())
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	logger.Info("starting workflow service",
		"version", Version, "host", cfg.Host, "port", cfg.Port,
		"action_kinds", dispatcher.Kinds())

	errChan := make(chan error, 1)
	go func() {
		errChan <- httpServer.Start(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case <-sigChan:
		logger.Info("shutting down gracefully")
		return httpServer.Shutdown(ctx)
	}
}
