package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shelfwise/shelfwise/internal/app"
	"github.com/shelfwise/shelfwise/internal/books"
)

const serviceName = "bookshop"

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg, serviceName)

	core, err := app.NewCore(ctx, cfg, logger, serviceName)
	if err != nil {
		logger.Error("initialise core", slog.Any("error", err))
		os.Exit(1)
	}
	defer core.Close()

	booksService := books.NewService(books.NewRepository(core.Pool))
	router := core.Router(app.RouterParams{
		BooksHandler: books.NewHandler(logger, booksService),
	})

	if err := app.Serve(ctx, cfg, logger, router, core.Background()...); err != nil {
		logger.Error("http server", slog.Any("error", err))
	}
}
