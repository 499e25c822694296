package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"seaberth/internal/app/commands"
	accountapp "seaberth/internal/app/handlers/account"
	boatsapp "seaberth/internal/app/handlers/boats"
	bookingapp "seaberth/internal/app/handlers/booking"
	favoritesapp "seaberth/internal/app/handlers/favorites"
	meapp "seaberth/internal/app/handlers/me"
	reviewsapp "seaberth/internal/app/handlers/reviews"
	"seaberth/internal/app/middleware"
	appoutbox "seaberth/internal/app/outbox"
	"seaberth/internal/app/policies"
	"seaberth/internal/app/queries"
	"seaberth/internal/app/schedule"
	authsvc "seaberth/internal/app/services/auth"
	"seaberth/internal/app/uow"
	domainavailability "seaberth/internal/domain/availability"
	domainpricing "seaberth/internal/domain/pricing"
	domainuser "seaberth/internal/domain/user"
	"seaberth/internal/infra/broker/kafka"
	"seaberth/internal/infra/config"
	mongodb "seaberth/internal/infra/db/mongo"
	ginserver "seaberth/internal/infra/http/gin"
	"seaberth/internal/infra/obs"
	infraoutbox "seaberth/internal/infra/outbox"
	"seaberth/internal/infra/security"
	"seaberth/internal/infra/storage/memory"
	"seaberth/internal/infra/storage/s3"
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
		logger.Error("application bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer app.close()

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	go app.sweeper.Run(ctx)
	if app.outboxWorker != nil {
		go func() {
			if err := app.outboxWorker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}

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
	handlers     ginserver.Handlers
	sweeper      *schedule.Sweeper
	outboxWorker *infraoutbox.Worker
	ready        func() error
	close        func()
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, error) {
	var (
		uowFactory  uow.UoWFactory
		outboxStore appoutbox.Outbox
		idStore     middleware.IdempotencyStore
		authService *authsvc.Service
		worker      *infraoutbox.Worker
		ready       = func() error { return nil }
		closeFns    []func()
	)

	sessions := memory.NewSessionStore()

	switch cfg.StorageMode {
	case "mongo":
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, err
		}
		if err := client.Ping(ctx); err != nil {
			return application{}, err
		}
		userRepo := mongodb.NewUserRepository(client.DB)
		uowFactory = mongodb.Factory{
			DB:           client.DB,
			BoatRepo:     mongodb.NewBoatRepository(client.DB),
			BookingRepo:  mongodb.NewBookingRepository(client.DB),
			ReviewRepo:   mongodb.NewReviewRepository(client.DB),
			FavoriteRepo: mongodb.NewFavoriteRepository(client.DB),
			UserRepo:     userRepo,
		}
		store := infraoutbox.NewStore(client.DB)
		outboxStore = store
		idStore = mongodb.NewIdempotencyStore(client.DB, cfg.IdempotencyTTL)
		authService = newAuthService(userRepo, sessions, cfg, logger)
		ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
		if len(cfg.KafkaBrokers) > 0 {
			producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
			if err != nil {
				return application{}, err
			}
			closeFns = append(closeFns, func() { _ = producer.Close() })
			worker = &infraoutbox.Worker{
				Store:       store,
				Producer:    producer,
				Interval:    cfg.OutboxPollInterval,
				TopicPrefix: cfg.KafkaTopicPrefix,
				Backoff:     cfg.RetryBackoff,
			}
		} else {
			logger.Warn("no kafka brokers configured, outbox events stay queued")
		}
	default:
		userRepo := memory.NewUserRepository()
		uowFactory = memory.Factory{
			BoatRepo:     memory.NewBoatRepository(),
			BookingRepo:  memory.NewBookingRepository(),
			ReviewRepo:   memory.NewReviewRepository(),
			FavoriteRepo: memory.NewFavoriteRepository(),
			UserRepo:     userRepo,
		}
		outboxStore = memory.NewOutbox()
		idStore = memory.NewIdempotencyStore()
		authService = newAuthService(userRepo, sessions, cfg, logger)
	}

	uploader := buildUploader(cfg, logger)
	guard := domainavailability.NewGuard()
	var pricing policies.PricingPort = domainpricing.StandardCalculator{}
	encoder := appoutbox.JSONEventEncoder{}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, bookingapp.CreateBookingCommand{}.Key(), &bookingapp.CreateBookingHandler{
		UoWFactory: uowFactory,
		Guard:      guard,
		Pricing:    pricing,
		Outbox:     outboxStore,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, bookingapp.InstantBookCommand{}.Key(), &bookingapp.InstantBookHandler{
		UoWFactory: uowFactory,
		Guard:      guard,
		Pricing:    pricing,
		Outbox:     outboxStore,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, bookingapp.CancelBookingCommand{}.Key(), &bookingapp.CancelBookingHandler{
		UoWFactory: uowFactory,
		Outbox:     outboxStore,
		Encoder:    encoder,
		Logger:     logger,
	})
	commands.RegisterHandler(commandBus, bookingapp.AdminSetStatusCommand{}.Key(), &bookingapp.AdminSetStatusHandler{
		UoWFactory: uowFactory,
		Outbox:     outboxStore,
		Encoder:    encoder,
		Logger:     logger,
	})
	commands.RegisterHandler(commandBus, bookingapp.SweepCompletedCommand{}.Key(), &bookingapp.SweepCompletedHandler{
		UoWFactory: uowFactory,
		Outbox:     outboxStore,
		Encoder:    encoder,
		Logger:     logger,
	})
	commands.RegisterHandler(commandBus, boatsapp.RegisterBoatCommand{}.Key(), &boatsapp.RegisterBoatHandler{
		UoWFactory: uowFactory,
		Outbox:     outboxStore,
		Encoder:    encoder,
		Logger:     logger,
	})
	commands.RegisterHandler(commandBus, boatsapp.SetPhotoCommand{}.Key(), &boatsapp.SetPhotoHandler{
		UoWFactory: uowFactory,
		Uploader:   uploader,
		Logger:     logger,
	})
	commands.RegisterHandler(commandBus, reviewsapp.SubmitReviewCommand{}.Key(), &reviewsapp.SubmitReviewHandler{
		UoWFactory: uowFactory,
		Outbox:     outboxStore,
		Encoder:    encoder,
		Logger:     logger,
	})
	commands.RegisterHandler(commandBus, reviewsapp.MarkHelpfulCommand{}.Key(), &reviewsapp.MarkHelpfulHandler{
		UoWFactory: uowFactory,
	})
	commands.RegisterHandler(commandBus, reviewsapp.DeleteReviewCommand{}.Key(), &reviewsapp.DeleteReviewHandler{
		UoWFactory: uowFactory,
		Outbox:     outboxStore,
		Encoder:    encoder,
		Logger:     logger,
	})
	commands.RegisterHandler(commandBus, favoritesapp.AddFavoriteCommand{}.Key(), &favoritesapp.AddFavoriteHandler{
		UoWFactory: uowFactory,
	})
	commands.RegisterHandler(commandBus, favoritesapp.RemoveFavoriteCommand{}.Key(), &favoritesapp.RemoveFavoriteHandler{
		UoWFactory: uowFactory,
	})
	commands.RegisterHandler(commandBus, accountapp.DeleteAccountCommand{}.Key(), &accountapp.DeleteAccountHandler{
		UoWFactory: uowFactory,
		Sessions:   sessions,
		Outbox:     outboxStore,
		Encoder:    encoder,
		Logger:     logger,
	})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, boatsapp.SearchCatalogQuery{}.Key(), &boatsapp.SearchCatalogHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, boatsapp.GetBoatQuery{}.Key(), &boatsapp.GetBoatHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, bookingapp.AdminListBookingsQuery{}.Key(), &bookingapp.AdminListBookingsHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, meapp.MyBookingsQuery{}.Key(), &meapp.MyBookingsHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, reviewsapp.ListReviewsQuery{}.Key(), &reviewsapp.ListReviewsHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, favoritesapp.ListFavoritesQuery{}.Key(), &favoritesapp.ListFavoritesHandler{UoWFactory: uowFactory})

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Validation(middleware.SelfValidation{}),
		middleware.Authorization(middleware.SelfAuthorization{}),
		middleware.Idempotency(idStore, nil),
		middleware.Transaction(uowFactory, nil),
		middleware.OutboxFlush(outboxStore),
	)
	queryBusWithMiddleware := middleware.ChainQueries(queryBus)

	sweeper := &schedule.Sweeper{
		Bus:      commandBusWithMiddleware,
		Interval: cfg.SweepInterval,
		Logger:   logger,
	}

	handlers := ginserver.Handlers{
		Auth: ginserver.AuthHandler{Service: authService, Logger: logger},
		Boats: ginserver.BoatHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
			Logger:   logger,
		},
		Booking: ginserver.BookingHandler{
			Commands: commandBusWithMiddleware,
			Logger:   logger,
		},
		Reviews: ginserver.ReviewsHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
			Logger:   logger,
		},
		Favorites: ginserver.FavoritesHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
			Logger:   logger,
		},
		Me: ginserver.MeHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
			Logger:   logger,
		},
		Admin: ginserver.AdminHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
			Logger:   logger,
		},
		AuthMiddleware: ginserver.AuthMiddleware{Service: authService, Logger: logger}.Handle,
	}

	return application{
		handlers:     handlers,
		sweeper:      sweeper,
		outboxWorker: worker,
		ready:        ready,
		close: func() {
			for _, fn := range closeFns {
				fn()
			}
		},
	}, nil
}

func newAuthService(users domainuser.Repository, sessions *memory.SessionStore, cfg config.Config, logger *slog.Logger) *authsvc.Service {
	return &authsvc.Service{
		Users:      users,
		Sessions:   sessions,
		Passwords:  security.BcryptHasher{},
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
	}
}

func buildUploader(cfg config.Config, logger *slog.Logger) s3.Uploader {
	client, err := s3.NewClient(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicEndpoint, logger)
	if err != nil {
		logger.Warn("object storage unavailable, photo uploads disabled", "error", err)
		return s3.NoopUploader{}
	}
	return client
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
