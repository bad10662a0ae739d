package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/raidhaan/pos-backend/internal/customers"
	"github.com/raidhaan/pos-backend/internal/orders"
	"github.com/raidhaan/pos-backend/internal/printing"
	"github.com/raidhaan/pos-backend/internal/receipt"
	"github.com/raidhaan/pos-backend/pkg/config"
	"github.com/raidhaan/pos-backend/pkg/db"
	"github.com/raidhaan/pos-backend/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "pos"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "pos",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "receipt":
		if len(os.Args) != 3 {
			usage()
			os.Exit(2)
		}
		if err := printReceipt(context.Background(), cfg, logg, os.Args[2]); err != nil {
			logg.Error(context.Background(), "receipt command failed", err)
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: pos receipt <order-id>")
}

// printReceipt loads the order, renders the 80mm receipt, and dispatches it
// through the configured print channels.
func printReceipt(ctx context.Context, cfg *config.Config, logg *logger.Logger, rawID string) error {
	id, err := strconv.ParseUint(rawID, 10, 32)
	if err != nil {
		return fmt.Errorf("invalid order id %q", rawID)
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("bootstrapping database: %w", err)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	orderService, err := orders.NewService(
		orders.NewRepository(dbClient.DB()),
		customers.NewRepository(dbClient.DB()),
		dbClient,
	)
	if err != nil {
		return fmt.Errorf("creating order service: %w", err)
	}

	renderer, err := receipt.NewRenderer(cfg.Store.Name)
	if err != nil {
		return fmt.Errorf("creating receipt renderer: %w", err)
	}

	order, err := orderService.Show(ctx, uint(id))
	if err != nil {
		return err
	}

	markup, err := renderer.Render(order)
	if err != nil {
		return err
	}
	autoPrint, err := renderer.RenderAutoPrint(order)
	if err != nil {
		return err
	}

	dispatcher := printing.NewDispatcher(logg,
		printing.NewNativeSpooler(cfg.Print),
		printing.NewBridgeClient(cfg.Print),
		printing.NewBrowserFallback(cfg.Print),
	)

	ctx = logg.WithOrderNumber(ctx, order.OrderNumber)
	printed, err := dispatcher.Print(ctx, printing.Document{Markup: markup, AutoPrint: autoPrint})
	if !printed {
		logg.Warn(ctx, "receipt could not be printed on any channel")
		if err != nil {
			logg.Debug(ctx, err.Error())
		}
	}
	return nil
}
