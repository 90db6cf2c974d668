package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/ghalass/gmao-pro-sub001/common/database"
	"github.com/ghalass/gmao-pro-sub001/common/logger"
	"github.com/ghalass/gmao-pro-sub001/internal/config"

	"go.uber.org/zap"
)

// apply-migration runs one or more .sql files against the configured database.
// Each file runs in its own transaction.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <migration_file.sql>...\n", os.Args[0])
		os.Exit(2)
	}

	cfg := config.Load()
	log, err := logger.NewLogger("info", "console", "apply-migration")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("Cannot connect to database", zap.Error(err))
	}
	defer database.Close(db)

	log.Info("Connected to database", zap.String("database", cfg.Database.Database))

	for _, file := range os.Args[1:] {
		content, err := os.ReadFile(file)
		if err != nil {
			log.Fatal("Failed to read migration file", zap.String("file", file), zap.Error(err))
		}
		if strings.TrimSpace(string(content)) == "" {
			log.Warn("Empty migration file skipped", zap.String("file", file))
			continue
		}
		// lib/pq runs a multi-statement script in one simple query when there are no args
		err = database.WithTx(context.Background(), db, func(tx *sql.Tx) error {
			_, err := tx.Exec(string(content))
			return err
		})
		if err != nil {
			log.Fatal("Migration failed", zap.String("file", file), zap.Error(err))
		}
		log.Info("Migration applied", zap.String("file", file))
	}
}
