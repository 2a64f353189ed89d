package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hackhub-dev/hackhub/db"
	"github.com/hackhub-dev/hackhub/internal/auth"
	"github.com/hackhub-dev/hackhub/internal/router"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	zapLogger := newLogger()
	defer zapLogger.Sync()

	if err := auth.InitJWTSecret(); err != nil {
		zapLogger.Fatal("failed to initialize JWT secret", zap.Error(err))
	}

	dsn := os.Getenv("DATABASE_URL")

	if dsn == "" {
		zapLogger.Fatal("DATABASE_URL environment variable is not set")
	}

	if err := db.ConnectDatabase(dsn); err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := db.MigrateDatabase(); err != nil {
		zapLogger.Fatal("failed to migrate database", zap.Error(err))
	}

	r := router.NewRouter(zapLogger)

	var port string

	if port = os.Getenv("PORT"); port == "" {
		port = "3000"
		zapLogger.Info("PORT not set, defaulting to 3000")
	}

	if err := r.Run(":" + port); err != nil {
		zapLogger.Fatal("failed to start server", zap.Error(err))
	}
}

func newLogger() *zap.Logger {
	level := zapcore.InfoLevel

	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		parsed, err := zapcore.ParseLevel(levelStr)
		if err != nil {
			log.Fatalf("Invalid log level: %v", err)
		}
		level = parsed
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)

	zapLogger, err := config.Build()
	if err != nil {
		log.Fatalf("Error initializing zap logger: %v", err)
	}

	return zapLogger
}
