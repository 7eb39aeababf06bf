// Command bibliobot-dev runs the bot against the seeded in-memory
// backend, so the whole front end can be exercised without a library
// API deployment.
package main

import (
	"log"
	"os"

	"go.uber.org/zap"

	"bibliobot/internal/app"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	os.Setenv("USE_MOCK_API", "true")
	if os.Getenv("WEBHOOK_MODE") == "" {
		os.Setenv("WEBHOOK_MODE", "false")
	}
	if os.Getenv("SESSION_DB_PATH") == "" {
		os.Setenv("SESSION_DB_PATH", "data/session-dev.db")
	}

	if os.Getenv("TELEGRAM_BOT_TOKEN") == "" {
		logger.Warn("TELEGRAM_BOT_TOKEN not set; the bot will fail to start without a valid token")
	}
	if os.Getenv("ALLOWED_USER_IDS") == "" {
		logger.Warn("ALLOWED_USER_IDS not set; the application will fail to start without it")
	}

	logger.Info("Starting application with in-memory mock backend")

	application, err := app.New(logger)
	if err != nil {
		logger.Fatal("Failed to create application", zap.Error(err))
	}

	if err := application.Run(); err != nil {
		logger.Fatal("Application error", zap.Error(err))
	}
}
