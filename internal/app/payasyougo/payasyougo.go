// Package payasyougo собирает основное приложение: хранилище, миграции,
// кеш, брокер аудита, сервисы и HTTP-сервер.
package payasyougo

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/payasyougo/payasyougo/internal/cache"
	"github.com/payasyougo/payasyougo/internal/config"
	"github.com/payasyougo/payasyougo/internal/lib/jwt"
	"github.com/payasyougo/payasyougo/internal/lib/sl"
	"github.com/payasyougo/payasyougo/internal/migrations"
	"github.com/payasyougo/payasyougo/internal/rabbitmq"
	auditservice "github.com/payasyougo/payasyougo/internal/services/audit"
	authservice "github.com/payasyougo/payasyougo/internal/services/auth"
	clientservice "github.com/payasyougo/payasyougo/internal/services/client"
	expenseservice "github.com/payasyougo/payasyougo/internal/services/expense"
	invoiceservice "github.com/payasyougo/payasyougo/internal/services/invoice"
	settingservice "github.com/payasyougo/payasyougo/internal/services/settings"
	taxestimservice "github.com/payasyougo/payasyougo/internal/services/taxestim"
	timeentryservice "github.com/payasyougo/payasyougo/internal/services/timeentry"
	"github.com/payasyougo/payasyougo/internal/storage/repository"
	"github.com/streadway/amqp"
)

// App инкапсулирует HTTP-сервер и внешние соединения приложения.
type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *repository.Storage
	amqpConn *amqp.Connection
}

// New инициализирует все зависимости и возвращает готовое приложение.
// Недоступный брокер аудита не мешает запуску: события просто не
// публикуются, пока брокер не поднимется.
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

	var recorder auditservice.Recorder = auditservice.Nop{}
	amqpConn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		logger.Warn("audit broker unavailable, events will not be published", sl.Err(err))
	} else {
		ch, err := rabbitmq.SetupChannel(amqpConn)
		if err != nil {
			return nil, err
		}
		recorder = auditservice.New(ch, logger)
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.NewAuthService(db, jwtMaker)
	clientService := clientservice.NewClientService(db, cacheRedis, recorder, logger)
	invoiceService := invoiceservice.NewInvoiceService(db, cacheRedis, recorder, logger)
	timeEntryService := timeentryservice.NewTimeEntryService(db, recorder, logger)
	expenseService := expenseservice.NewExpenseService(db, recorder, logger)
	settingService := settingservice.NewSettingService(db, cacheRedis, recorder, logger)
	taxEstimService := taxestimservice.New(db, cacheRedis, recorder, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, jwtMaker, &Services{
		Auth:      authService,
		Client:    clientService,
		Invoice:   invoiceService,
		TimeEntry: timeEntryService,
		Expense:   expenseService,
		Setting:   settingService,
		TaxEstim:  taxEstimService,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		amqpConn: amqpConn,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до отмены контекста или ошибки.
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
		if a.amqpConn != nil {
			_ = a.amqpConn.Close()
		}
		_ = a.db.DB.Close()
		return err
	}
}
