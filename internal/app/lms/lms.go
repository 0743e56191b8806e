// Package lms собирает основное приложение: хранилище, кеш, брокер,
// платёжный шлюз, сервисы и HTTP-сервер.
package lms

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/lms-backend/internal/cache"
	"github.com/magabrotheeeer/lms-backend/internal/config"
	"github.com/magabrotheeeer/lms-backend/internal/lib/jwt"
	"github.com/magabrotheeeer/lms-backend/internal/migrations"
	"github.com/magabrotheeeer/lms-backend/internal/paymentprovider"
	"github.com/magabrotheeeer/lms-backend/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/lms-backend/internal/services/auth"
	courseservice "github.com/magabrotheeeer/lms-backend/internal/services/course"
	lessonservice "github.com/magabrotheeeer/lms-backend/internal/services/lesson"
	paymentservice "github.com/magabrotheeeer/lms-backend/internal/services/payment"
	profileservice "github.com/magabrotheeeer/lms-backend/internal/services/profile"
	subservice "github.com/magabrotheeeer/lms-backend/internal/services/subscription"
	"github.com/magabrotheeeer/lms-backend/internal/storage/repository"
)

// App агрегирует зависимости HTTP-сервиса.
type App struct {
	server     *http.Server
	logger     *slog.Logger
	db         *repository.Storage
	rabbitConn *amqp.Connection
}

// New инициализирует приложение: подключается к PostgreSQL, применяет
// миграции, поднимает Redis и RabbitMQ, собирает сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	rabbitConn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	channel, err := rabbitmq.SetupChannel(rabbitConn)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	gateway := paymentprovider.NewClient(cfg.GatewayAPIURL, cfg.GatewaySecretKey)

	authService := authservice.NewAuthService(db, jwtMaker)
	subscriptionService := subservice.NewSubscriptionService(db, db, channel, logger)
	courseService := courseservice.NewCourseService(db, cacheRedis, subscriptionService, logger)
	lessonService := lessonservice.NewLessonService(db, logger)
	profileService := profileservice.NewProfileService(db, db, logger)
	paymentService := paymentservice.NewPaymentService(db, db, gateway, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Auth:         authService,
		Course:       courseService,
		Lesson:       lessonService,
		Profile:      profileService,
		Payment:      paymentService,
		Subscription: subscriptionService,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:     srv,
		logger:     logger,
		db:         db,
		rabbitConn: rabbitConn,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.rabbitConn.Close(); closeErr != nil {
			a.logger.Error("failed to close rabbitmq connection", slog.Any("err", closeErr))
		}
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database connection", slog.Any("err", closeErr))
		}
		return err
	}
}
