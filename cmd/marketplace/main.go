package main

import (
	bookinghandler "vendora/internal/bookings/handler"
	bookingrepo "vendora/internal/bookings/repository"
	bookingservice "vendora/internal/bookings/service"
	bookingvalidator "vendora/internal/bookings/validator"
	cataloghandler "vendora/internal/catalog/handler"
	catalogservice "vendora/internal/catalog/service"
	deliverablehandler "vendora/internal/deliverables/handler"
	deliverablerepo "vendora/internal/deliverables/repository"
	deliverableservice "vendora/internal/deliverables/service"
	messaginghandler "vendora/internal/messaging/handler"
	messagingrepo "vendora/internal/messaging/repository"
	messagingservice "vendora/internal/messaging/service"
	shortlisthandler "vendora/internal/shortlist/handler"
	shortlistrepo "vendora/internal/shortlist/repository"
	shortlistservice "vendora/internal/shortlist/service"
	timelinehandler "vendora/internal/timeline/handler"
	timelineservice "vendora/internal/timeline/service"
	"vendora/pkg/app"
	"vendora/pkg/cache"
	"vendora/pkg/client"
	"vendora/pkg/config"
	"vendora/pkg/contracts"
	"vendora/pkg/events"
	kafkaconfig "vendora/pkg/kafka/config"

	"github.com/joho/godotenv"
)

const ServiceName = "marketplace"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting marketplace service")

	publisher := initPublisher(cfg)
	defer func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	}()

	handlers := initServices(cfg, publisher)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handlers...)
	serverApp.Run()
}

func initPublisher(cfg *config.Config) events.Publisher {
	if !cfg.EventsEnabled {
		cfg.Log.Info("Domain events disabled, using noop publisher")
		return events.NoopPublisher{}
	}

	kcfg := kafkaconfig.Load()
	publisher, err := events.NewKafkaPublisher(kcfg, cfg.EventsTopic, cfg.EventsDLQ, ServiceName, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize event publisher", "error", err)
	}
	return publisher
}

func initServices(cfg *config.Config, publisher events.Publisher) []contracts.Handler {
	timelineCache := initTimelineCache(cfg)

	catalogClient := client.NewHttpClient(cfg.CatalogBaseURL, cfg.CatalogTimeout)
	catalogSource := catalogservice.NewHTTPSource(catalogClient, cfg.Log, cfg.CatalogMaxRetries, cfg.CatalogRetryDelay)

	shortlistRepo := shortlistrepo.NewMongoShortlistRepository(cfg)
	bookingRepo := bookingrepo.NewMongoBookingRepository(cfg)
	quoteLockRepo := bookingrepo.NewQuoteLockRepository(cfg)
	deliverableRepo := deliverablerepo.NewMongoDeliverableRepository(cfg)
	messagingRepo := messagingrepo.NewMongoMessagingRepository(cfg)

	messagingSvc := messagingservice.NewMessagingService(messagingRepo, publisher, timelineCache, cfg)
	bookingSvc := bookingservice.NewBookingService(
		bookingRepo,
		quoteLockRepo,
		catalogSource,
		messagingSvc,
		publisher,
		timelineCache,
		bookingvalidator.NewBookingValidator(cfg.Log),
		cfg,
	)
	deliverableSvc := deliverableservice.NewDeliverableService(deliverableRepo, bookingSvc, publisher, timelineCache, cfg)
	shortlistSvc := shortlistservice.NewShortlistService(shortlistRepo, catalogSource, cfg)
	timelineSvc := timelineservice.NewTimelineService(bookingRepo, deliverableRepo, messagingRepo, timelineCache, cfg)

	cfg.Log.Info("Marketplace services initialized", "database", cfg.MongoDatabaseName)

	return []contracts.Handler{
		cataloghandler.NewCatalogHandler(catalogSource, cfg.Log),
		shortlisthandler.NewShortlistHandler(shortlistSvc, cfg.Log),
		bookinghandler.NewBookingHandler(bookingSvc, cfg.Log),
		deliverablehandler.NewDeliverableHandler(deliverableSvc, cfg.Log),
		messaginghandler.NewMessagingHandler(messagingSvc, cfg.Log),
		timelinehandler.NewTimelineHandler(timelineSvc, cfg.Log),
	}
}

func initTimelineCache(cfg *config.Config) cache.TimelineCache {
	if cfg.Client.Redis == nil {
		cfg.Log.Warn("Redis unavailable, timeline cache disabled")
		return cache.NoopTimelineCache{}
	}
	return cache.NewRedisTimelineCache(cfg.Client.Redis, cfg.TimelineCacheTTL, cfg.Log)
}
