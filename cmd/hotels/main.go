package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Jayu-patel/hotels-management-sub000/internal/app/commands"
	availabilityapp "github.com/Jayu-patel/hotels-management-sub000/internal/app/handlers/availability"
	bookingapp "github.com/Jayu-patel/hotels-management-sub000/internal/app/handlers/booking"
	pricingapp "github.com/Jayu-patel/hotels-management-sub000/internal/app/handlers/pricing"
	"github.com/Jayu-patel/hotels-management-sub000/internal/app/middleware"
	appoutbox "github.com/Jayu-patel/hotels-management-sub000/internal/app/outbox"
	"github.com/Jayu-patel/hotels-management-sub000/internal/app/queries"
	"github.com/Jayu-patel/hotels-management-sub000/internal/app/uow"
	domainpricing "github.com/Jayu-patel/hotels-management-sub000/internal/domain/pricing"
	domainrooms "github.com/Jayu-patel/hotels-management-sub000/internal/domain/rooms"
	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/shared/daterange"
	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/shared/money"
	"github.com/Jayu-patel/hotels-management-sub000/internal/infra/broker/kafka"
	"github.com/Jayu-patel/hotels-management-sub000/internal/infra/cache"
	"github.com/Jayu-patel/hotels-management-sub000/internal/infra/config"
	mongodb "github.com/Jayu-patel/hotels-management-sub000/internal/infra/db/mongo"
	ginserver "github.com/Jayu-patel/hotels-management-sub000/internal/infra/http/gin"
	"github.com/Jayu-patel/hotels-management-sub000/internal/infra/obs"
	infraoutbox "github.com/Jayu-patel/hotels-management-sub000/internal/infra/outbox"
	"github.com/Jayu-patel/hotels-management-sub000/internal/infra/storage/memory"
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

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}
	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	fixturesPath := getenv("HOTEL_FIXTURES", "")
	if fixturesPath == "" {
		fixturesPath = defaultFixturesPath()
	}
	if err := app.loadFixtures(ctx, fixturesPath, logger); err != nil {
		logger.Warn("hotel fixtures load failed", "error", err, "path", fixturesPath)
	}

	app.startWorkers(ctx, cfg, logger)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	commands commands.Bus
	rooms    domainrooms.Repository
	slabs    domainpricing.SlabRepository
	ready    func() error

	baseCurrency string

	outboxWorker *infraoutbox.Worker
	consumer     *kafka.Consumer
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		ready:        func() error { return nil },
		baseCurrency: cfg.BaseCurrency,
	}

	var (
		uowFactory  uow.UoWFactory
		outboxStore appoutbox.Outbox
	)
	idStore := memory.NewIdempotencyStore(cfg.IdempotencyTTL)

	switch cfg.StorageMode {
	case "mongo":
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("mongo connect: %w", err)
		}
		app.ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
		app.rooms = mongodb.NewRoomRepository(client.DB)
		app.slabs = wrapSlabCache(cfg, mongodb.NewSlabRepository(client.DB), logger)
		store := infraoutbox.NewStore(client.DB)
		outboxStore = store
		app.outboxWorker = &infraoutbox.Worker{
			Store:       store,
			Interval:    cfg.OutboxPollInterval,
			TopicPrefix: cfg.KafkaTopicPrefix,
			Backoff:     cfg.RetryBackoff,
		}
		uowFactory = mongodb.Factory{
			DB:         client.DB,
			RoomsRepo:  app.rooms,
			SlabsRepo:  app.slabs,
			LedgerRepo: mongodb.NewBookingLedger(client.DB),
			PricingSvc: domainpricing.NewResolver(app.slabs),
		}
	default:
		app.rooms = memory.NewRoomRepository()
		app.slabs = wrapSlabCache(cfg, memory.NewSlabRepository(), logger)
		outboxStore = memory.NewOutbox()
		uowFactory = memory.Factory{
			RoomsRepo:  app.rooms,
			SlabsRepo:  app.slabs,
			LedgerRepo: memory.NewLedger(),
			PricingSvc: domainpricing.NewResolver(app.slabs),
		}
	}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, bookingapp.ReserveRoomsCommand{}.Key(), &bookingapp.ReserveRoomsHandler{
		UoWFactory:        uowFactory,
		Outbox:            outboxStore,
		Encoder:           appoutbox.JSONEventEncoder{},
		ServiceFeePercent: cfg.ServiceFeePercent,
		TaxPercent:        cfg.TaxPercent,
	})
	commands.RegisterHandler(commandBus, bookingapp.TransitionBookingCommand{}.Key(), &bookingapp.TransitionBookingHandler{
		UoWFactory: uowFactory,
		Outbox:     outboxStore,
		Encoder:    appoutbox.JSONEventEncoder{},
	})
	commands.RegisterHandler(commandBus, bookingapp.SetPaymentStatusCommand{}.Key(), &bookingapp.SetPaymentStatusHandler{
		UoWFactory: uowFactory,
		Outbox:     outboxStore,
		Encoder:    appoutbox.JSONEventEncoder{},
	})
	commands.RegisterHandler(commandBus, bookingapp.CancelStalePendingCommand{}.Key(), &bookingapp.CancelStalePendingHandler{
		UoWFactory: uowFactory,
		Outbox:     outboxStore,
		Encoder:    appoutbox.JSONEventEncoder{},
		Logger:     logger,
	})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, bookingapp.GetBookingQuery{}.Key(), &bookingapp.GetBookingHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, bookingapp.ListUserBookingsQuery{}.Key(), &bookingapp.ListUserBookingsHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, availabilityapp.CheckAvailabilityQuery{}.Key(), &availabilityapp.CheckAvailabilityHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, pricingapp.QuotePriceQuery{}.Key(), &pricingapp.QuotePriceHandler{UoWFactory: uowFactory})

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Validation(middleware.SelfValidator{}),
		middleware.Idempotency(idStore, nil),
		middleware.Retry(cfg.ReserveRetryLimit),
		middleware.Transaction(uowFactory, nil),
		middleware.OutboxFlush(outboxStore),
	)
	queryBusWithMiddleware := middleware.ChainQueries(queryBus)

	app.commands = commandBusWithMiddleware
	app.handlers = ginserver.Handlers{
		Booking: ginserver.BookingHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
		},
		Availability: ginserver.AvailabilityHandler{Queries: queryBusWithMiddleware},
		Pricing:      ginserver.PricingHandler{Queries: queryBusWithMiddleware},
	}
	return app, nil
}

func wrapSlabCache(cfg config.Config, inner domainpricing.SlabRepository, logger *slog.Logger) domainpricing.SlabRepository {
	if cfg.RedisAddr == "" {
		return inner
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	return cache.NewSlabCache(client, inner, cfg.SlabCacheTTL, logger)
}

// startWorkers launches the optional background pieces: the outbox relay and
// the payment event consumer. Both need Kafka brokers.
func (a *application) startWorkers(ctx context.Context, cfg config.Config, logger *slog.Logger) {
	if len(cfg.KafkaBrokers) == 0 {
		return
	}
	producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
	if err != nil {
		logger.Error("kafka producer init failed", "error", err)
		return
	}
	if a.outboxWorker != nil {
		a.outboxWorker.Producer = producer
		go func() {
			if err := a.outboxWorker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}

	consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, "hotels-payments", nil, kafka.PaymentEventHandler{
		Commands: a.commands,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("kafka consumer init failed", "error", err)
		return
	}
	a.consumer = consumer
	topic := cfg.KafkaTopicPrefix + "payment.events.v1"
	go func() {
		defer consumer.Close()
		if err := consumer.Run(ctx, []string{topic}); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("payment consumer stopped", "error", err)
		}
	}()
}

func (a *application) loadFixtures(ctx context.Context, path string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("hotel fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}

	var fixtures hotelFixtures
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	now := time.Now()
	for _, fx := range fixtures.Rooms {
		currency := fx.Currency
		if currency == "" {
			currency = a.baseCurrency
		}
		room, err := domainrooms.NewRoom(domainrooms.CreateParams{
			ID:                domainrooms.RoomID(fx.ID),
			HotelID:           domainrooms.HotelID(fx.HotelID),
			Name:              fx.Name,
			BasePricePerNight: money.Money{Amount: fx.BasePriceCents, Currency: currency},
			TotalCount:        fx.TotalCount,
			CapacityPerRoom:   fx.CapacityPerRoom,
			Amenities:         fx.Amenities,
			Now:               now,
		})
		if err != nil {
			logger.Error("room fixture invalid", "room_id", fx.ID, "error", err)
			continue
		}
		if err := a.rooms.Save(ctx, room); err != nil {
			logger.Error("cannot store fixture room", "room_id", fx.ID, "error", err)
			continue
		}
		logger.Info("room fixture imported", "room_id", room.ID)
	}

	for _, fx := range fixtures.PriceSlabs {
		slab := domainpricing.PriceSlab{
			ID:                domainpricing.SlabID(fx.ID),
			HotelID:           domainrooms.HotelID(fx.HotelID),
			Kind:              domainpricing.SlabKind(fx.Kind),
			MultiplierPercent: fx.MultiplierPercent,
			MinNights:         fx.MinNights,
			MaxNights:         fx.MaxNights,
			DiscountPercent:   fx.DiscountPercent,
		}
		if fx.StartDate != "" {
			if slab.StartDate, err = time.Parse(daterange.ISODate, fx.StartDate); err != nil {
				logger.Error("slab fixture start date invalid", "slab_id", fx.ID, "error", err)
				continue
			}
		}
		if fx.EndDate != "" {
			if slab.EndDate, err = time.Parse(daterange.ISODate, fx.EndDate); err != nil {
				logger.Error("slab fixture end date invalid", "slab_id", fx.ID, "error", err)
				continue
			}
		}
		if err := a.slabs.Save(ctx, slab); err != nil {
			logger.Error("cannot store fixture slab", "slab_id", fx.ID, "error", err)
			continue
		}
		logger.Info("price slab fixture imported", "slab_id", slab.ID)
	}
	return nil
}

type hotelFixtures struct {
	Rooms      []roomFixture `json:"rooms"`
	PriceSlabs []slabFixture `json:"price_slabs"`
}

type roomFixture struct {
	ID              string   `json:"id"`
	HotelID         string   `json:"hotel_id"`
	Name            string   `json:"name"`
	BasePriceCents  int64    `json:"base_price_cents"`
	Currency        string   `json:"currency"`
	TotalCount      int      `json:"total_count"`
	CapacityPerRoom int      `json:"capacity_per_room"`
	Amenities       []string `json:"amenities"`
}

type slabFixture struct {
	ID                string `json:"id"`
	HotelID           string `json:"hotel_id"`
	Kind              string `json:"kind"`
	StartDate         string `json:"start_date"`
	EndDate           string `json:"end_date"`
	MultiplierPercent int    `json:"multiplier_percent"`
	MinNights         int    `json:"min_nights"`
	MaxNights         int    `json:"max_nights"`
	DiscountPercent   int    `json:"discount_percent"`
}

func defaultFixturesPath() string {
	candidates := []string{
		filepath.Join("data", "hotels.json"),
		filepath.Join("backend", "data", "hotels.json"),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return candidates[0]
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
