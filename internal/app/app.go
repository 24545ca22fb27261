package app

import (
	"context"
	"database/sql"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"parkezy/internal/access"
	"parkezy/internal/config"
	"parkezy/internal/engine"
	"parkezy/internal/geofence"
	httpserver "parkezy/internal/http"
	"parkezy/internal/http/handlers"
	"parkezy/internal/http/middleware"
	"parkezy/internal/livestatus"
	"parkezy/internal/notify"
	"parkezy/internal/occupancy"
	"parkezy/internal/repository"
	libdb "parkezy/libs/db"
	libredis "parkezy/libs/redis"
)

// App wires booking-service dependencies.
type App struct {
	server      *httpserver.Server
	db          *sql.DB
	redisClient *redis.Client
	amqpPub     *notify.AMQPPublisher
	scheduler   *notify.Scheduler
	logger      *zap.Logger
}

// New constructs the application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := libdb.NewPostgresDB(cfg.Database.DSN, libdb.Pool{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		return nil, err
	}

	redisClient, err := libredis.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	var amqpPub *notify.AMQPPublisher
	var warningBus notify.WarningPublisher
	if cfg.AMQP.URL != "" {
		amqpPub, err = notify.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, logger)
		if err != nil {
			redisClient.Close()
			sqlDB.Close()
			return nil, err
		}
		warningBus = amqpPub
	} else {
		logger.Warn("amqp url not configured, warnings will only be logged")
		warningBus = notify.NopPublisher{}
	}

	scheduler := notify.NewScheduler(warningBus, logger)
	hub := livestatus.NewHub(logger)
	publisher := livestatus.NewPublisher(redisClient, hub, cfg.SnapshotTTL(), logger)

	spotRepo := repository.NewSpotRepository(sqlDB)
	historyRepo := repository.NewHistoryRepository(sqlDB, access.NewBcryptHasher(0))

	engines := engine.NewRegistry(engine.Deps{
		Geofence:  geofence.NewClient(cfg.Geofence.BaseURL, logger),
		Notifier:  scheduler,
		Publisher: publisher,
		Occupancy: occupancy.NewClient(cfg.Occupancy.BaseURL, logger),
		Archiver:  historyRepo,
		Logger:    logger,
	}, engine.Options{
		TickInterval: cfg.TickInterval(),
	})

	bookings := handlers.NewBookingsHandler(engines, spotRepo, logger)
	geofenceEvents := handlers.NewGeofenceEventsHandler(engines, logger)

	routes := httpserver.Routes{
		CreateBooking:  bookings.HandleCreate,
		StartSession:   bookings.HandleStart,
		EndSession:     bookings.HandleEnd,
		ExtendSession:  bookings.HandleExtend,
		CancelSession:  bookings.HandleCancel,
		CurrentSession: bookings.HandleCurrent,
		SessionHistory: bookings.HandleHistory,
		StatusSnapshot: handlers.NewStatusSnapshotHandler(publisher, logger),
		StatusWS:       handlers.NewStatusWSHandler(hub, logger),
		GeofenceEvents: geofenceEvents.HandleEvent,
		Health:         handlers.NewHealthHandler(),
		Auth:           middleware.AuthMiddleware(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
	}

	router := httpserver.NewRouter(routes)
	server := httpserver.NewServer(cfg.HTTPAddress(), router, httpserver.Timeouts{
		Read:  cfg.HTTP.ReadTimeout,
		Write: cfg.HTTP.WriteTimeout,
	}, logger)

	return &App{
		server:      server,
		db:          sqlDB,
		redisClient: redisClient,
		amqpPub:     amqpPub,
		scheduler:   scheduler,
		logger:      logger,
	}, nil
}

// Run starts HTTP server.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	a.scheduler.Close()
	if a.amqpPub != nil {
		a.amqpPub.Close()
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
