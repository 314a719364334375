package app

import (
	"context"
	"fmt"

	ginpkg "github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	gininbound "github.com/paysync/server/internal/adapter/inbound/gin"
	"github.com/paysync/server/internal/adapter/inbound/rabbitmq"
	redisadapter "github.com/paysync/server/internal/adapter/outbound/redis"
	"github.com/paysync/server/internal/adapter/outbound/reportsink"
	"github.com/paysync/server/internal/adapter/outbound/stripeprovider"
	infraevents "github.com/paysync/server/internal/infra/events"
	"github.com/paysync/server/internal/module/payments"
	"github.com/paysync/server/internal/shared/cache"
	"github.com/paysync/server/internal/shared/config"
	"github.com/paysync/server/internal/shared/logger"
	"github.com/paysync/server/internal/utils/metrics"
)

// App wires the handlers to their collaborators and owns process-wide
// state: the store connection, the provider client, the broker consumer
// and the operational HTTP router. Handles are passed into each handler
// explicitly; there are no ambient globals to reach for.
type App struct {
	cfg      *config.Config
	logger   *zap.Logger
	redis    redis.UniversalClient
	consumer *rabbitmq.Consumer
	router   *ginpkg.Engine
}

// New builds the application from configuration.
func New(cfg *config.Config) (*App, error) {
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	registry := prometheus.NewRegistry()
	m := metrics.New("paysync", registry)

	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	store := redisadapter.NewAccountStore(redisClient, cfg.Redis.Namespace)

	stripe := stripeprovider.New(&stripeprovider.Config{APIToken: cfg.Stripe.APIToken}, m)
	provider := payments.NewBreakerProvider(stripe, nil)

	var sink payments.ReportSink
	switch cfg.Report.Sink {
	case "http":
		sink = reportsink.NewHTTPSink(cfg.Report.Endpoint, cfg.Report.Timeout)
	default:
		sink = reportsink.NewLogSink(log)
	}
	reporter := payments.NewReporter(sink, cfg.Report.Service, m)

	bus := infraevents.NewBus(log, m)
	bus.Register(payments.NewChargeHandler(store, provider, reporter, cfg.Stripe.Currency, log))
	bus.Register(payments.NewCustomerProvisionHandler(store, provider, log))
	bus.Register(payments.NewSourceAttachHandler(store, provider, reporter, log))
	bus.Register(payments.NewAccountCleanupHandler(store, provider, log))

	consumer, err := rabbitmq.NewConsumer(cfg.Rabbit, bus, log)
	if err != nil {
		cache.Close(redisClient)
		return nil, fmt.Errorf("init consumer: %w", err)
	}

	return &App{
		cfg:      cfg,
		logger:   log,
		redis:    redisClient,
		consumer: consumer,
		router:   gininbound.NewRouter(redisClient, registry, log),
	}, nil
}

// Start begins consuming trigger events.
func (a *App) Start(ctx context.Context) error {
	return a.consumer.Start(ctx)
}

// Router returns the operational HTTP router.
func (a *App) Router() *ginpkg.Engine {
	return a.router
}

// Logger returns the application logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Stop drains the consumer and releases connections.
func (a *App) Stop() {
	if err := a.consumer.Close(); err != nil {
		a.logger.Warn("close consumer", zap.Error(err))
	}
	if err := cache.Close(a.redis); err != nil {
		a.logger.Warn("close redis", zap.Error(err))
	}
	_ = a.logger.Sync()
}
