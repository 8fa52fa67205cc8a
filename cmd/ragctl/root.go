package main

import (
	"fmt"

	"classroom-ai-be/internal/bootstrap"
	"classroom-ai-be/internal/config"
	"classroom-ai-be/internal/pkg/logger"
	"classroom-ai-be/pkg/database"
	"classroom-ai-be/pkg/events"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:          "ragctl",
	Short:        "Operate the classroom assistant's document indexes",
	SilenceUsage: true,
}

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	keyColor  = color.New(color.FgCyan, color.Bold)
)

// openIndexing wires the retrieval pipeline from the environment, against
// the database when DB_CONNECTION_STRING is set. Index events go to NATS
// when NATS_URL is reachable.
func openIndexing() (*bootstrap.Indexing, error) {
	cfg := config.Load()

	var db *gorm.DB
	if cfg.Database.Connection != "" {
		conn, err := database.NewGormDBFromDSN(cfg.Database.Connection, false)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		db = conn
	}

	var publisher events.Publisher = events.NopPublisher{}
	if natsPub := bootstrap.NewNatsPublisher(cfg.App.NatsURL); natsPub != nil {
		publisher = natsPub
	}

	return bootstrap.NewIndexing(cfg, bootstrap.NewRepositoryFactory(db), publisher, logger.NewNopLogger())
}
