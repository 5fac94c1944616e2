package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mauandrade99/gerenciador-cli/internal/app"
	"github.com/mauandrade99/gerenciador-cli/internal/logger"
)

func main() {
	// Initialize custom logger with colors
	logHandler := logger.NewPrettyHandler(os.Stderr, logger.ParseLevel(os.Getenv("LOG_LEVEL")))
	slog.SetDefault(slog.New(logHandler))

	application, err := app.New()
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
