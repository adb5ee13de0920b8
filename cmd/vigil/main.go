package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/vigil-dev/vigil/db"
	"github.com/vigil-dev/vigil/internal/router"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()

	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err = godotenv.Load(); err != nil {
		logger.Info("No .env file found, using process environment")
	}

	dsn := os.Getenv("DATABASE_URL")

	if dsn == "" {
		logger.Fatal("DATABASE_URL not set")
	}

	if err = db.ConnectDatabase(dsn); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err = db.MigrateDatabase(); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	r := router.NewRouter(logger)

	var port string

	if port = os.Getenv("PORT"); port == "" {
		port = "3000"
		logger.Info("PORT not set, defaulting to 3000")
	}

	if err = r.Run(":" + port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
