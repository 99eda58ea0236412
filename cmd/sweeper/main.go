// The sweeper cancels bookings whose payment stayed pending beyond the grace
// period. It runs against the shared Mongo store, so one instance serves every
// API replica.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jayu-patel/hotels-management-sub000/internal/app/commands"
	bookingapp "github.com/Jayu-patel/hotels-management-sub000/internal/app/handlers/booking"
	"github.com/Jayu-patel/hotels-management-sub000/internal/app/middleware"
	appoutbox "github.com/Jayu-patel/hotels-management-sub000/internal/app/outbox"
	domainpricing "github.com/Jayu-patel/hotels-management-sub000/internal/domain/pricing"
	"github.com/Jayu-patel/hotels-management-sub000/internal/infra/config"
	mongodb "github.com/Jayu-patel/hotels-management-sub000/internal/infra/db/mongo"
	"github.com/Jayu-patel/hotels-management-sub000/internal/infra/obs"
	infraoutbox "github.com/Jayu-patel/hotels-management-sub000/internal/infra/outbox"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	if cfg.StorageMode != "mongo" {
		logger.Error("sweeper requires STORAGE_MODE=mongo")
		os.Exit(1)
	}

	client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo connect failed", "error", err)
		os.Exit(1)
	}

	slabs := mongodb.NewSlabRepository(client.DB)
	store := infraoutbox.NewStore(client.DB)
	uowFactory := mongodb.Factory{
		DB:         client.DB,
		RoomsRepo:  mongodb.NewRoomRepository(client.DB),
		SlabsRepo:  slabs,
		LedgerRepo: mongodb.NewBookingLedger(client.DB),
		PricingSvc: domainpricing.NewResolver(slabs),
	}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, bookingapp.CancelStalePendingCommand{}.Key(), &bookingapp.CancelStalePendingHandler{
		UoWFactory: uowFactory,
		Outbox:     store,
		Encoder:    appoutbox.JSONEventEncoder{},
		Logger:     logger,
	})
	bus := middleware.ChainCommands(
		commandBus,
		middleware.Transaction(uowFactory, nil),
		middleware.OutboxFlush(store),
	)

	logger.Info("sweeper starting", "interval", cfg.SweepInterval, "grace", cfg.PendingPaymentGrace)
	ticker := time.NewTicker(cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("sweeper stopped")
			return
		case <-ticker.C:
			cmd := bookingapp.CancelStalePendingCommand{GracePeriod: cfg.PendingPaymentGrace}
			result, err := commands.Dispatch[bookingapp.CancelStalePendingCommand, *bookingapp.CancelStalePendingResult](ctx, bus, cmd)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					logger.Error("sweep failed", "error", err)
				}
				continue
			}
			if len(result.CancelledIDs) > 0 {
				logger.Info("stale bookings cancelled", "count", len(result.CancelledIDs))
			}
		}
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
