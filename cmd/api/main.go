package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"crudapi/internal/config"
	"crudapi/internal/logger"
)

// @title CRUD API
// @version 1.0
// @BasePath /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cli carries what PersistentPreRunE loads for every subcommand.
type cli struct {
	cfg *config.AppConfig
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "crudapi",
		Short: "Generic document CRUD API over MongoDB or PostgreSQL",
		Long: `crudapi serves /api/v1/<resource> CRUD endpoints backed by a document store.

The store is chosen with STORE_DRIVER (mongo or postgres). Configuration is read
from the environment; a .env file in the working directory is loaded if present.

Run without a subcommand to start the HTTP server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.cfg = config.Load()
			c.log = logger.New(c.cfg.Log)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), c.cfg, c.log)
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP server",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe(cmd.Context(), c.cfg, c.log)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create the PostgreSQL document table and indexes",
			Long: `migrate prepares the JSONB documents table used when STORE_DRIVER=postgres.
It is a no-op for MongoDB, whose collections are created on first write.`,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runMigrate(cmd.Context(), c.cfg, c.log)
			},
		},
	)

	return root
}
