// Command loader bulk-loads the transaction collection from a JSON file.
// It is the only writer of the transactions table: it clears the existing
// rows and inserts the new set in batches.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"fintrack/internal/models"
	"fintrack/internal/repository"
	"fintrack/pkg/config"
	"fintrack/pkg/logger"
	"fintrack/pkg/postgres"

	"go.uber.org/zap"
)

const batchSize = 500

func main() {
	filePath := flag.String("file", "transactions.json", "path to the transactions JSON array")
	keep := flag.Bool("keep", false, "keep existing rows instead of clearing them first")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.Migrate(&cfg.Database, appLogger); err != nil {
		appLogger.Fatal("Failed to migrate database", zap.Error(err))
	}

	raw, err := os.ReadFile(*filePath)
	if err != nil {
		appLogger.Fatal("Failed to read transactions file", zap.String("path", *filePath), zap.Error(err))
	}

	var transactions []models.Transaction
	if err := json.Unmarshal(raw, &transactions); err != nil {
		appLogger.Fatal("Failed to parse transactions file", zap.String("path", *filePath), zap.Error(err))
	}

	txRepo := repository.NewTransactionRepository(db, appLogger)

	if !*keep {
		if err := txRepo.Truncate(ctx); err != nil {
			appLogger.Fatal("Failed to clear old data", zap.Error(err))
		}
		appLogger.Info("Old data cleared")
	}

	for start := 0; start < len(transactions); start += batchSize {
		end := start + batchSize
		if end > len(transactions) {
			end = len(transactions)
		}
		if err := txRepo.InsertBatch(ctx, transactions[start:end]); err != nil {
			appLogger.Fatal("Failed to insert transactions",
				zap.Int("from", start),
				zap.Int("to", end),
				zap.Error(err),
			)
		}
	}

	appLogger.Info("Transactions inserted", zap.Int("count", len(transactions)))
}
