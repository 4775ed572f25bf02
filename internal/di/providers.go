package di

import (
	"context"
	"fmt"
	"time"

	drepo "MacroBot/internal/domain/repository"
	"MacroBot/internal/handler/webhook"
	internalrepo "MacroBot/internal/repository"
	"MacroBot/internal/service/fred"
	"MacroBot/internal/service/line"
	"MacroBot/internal/usecase"
	"MacroBot/pkg/cache"
	"MacroBot/pkg/config"
	xhttp "MacroBot/pkg/http"
	pkgkafka "MacroBot/pkg/kafka"
	applogger "MacroBot/pkg/logger"
	"MacroBot/pkg/metrics"
	"MacroBot/pkg/postgres"
	"MacroBot/pkg/server"
)

// ProvideErrorPublisher creates the Kafka producer behind the error-log
// collector. It returns nil when the collector is disabled.
func ProvideErrorPublisher(cfg *config.Config) (applogger.Publisher, func(), error) {
	if !cfg.Logging.Collector.Enabled {
		return nil, func() {}, nil
	}
	producer, err := pkgkafka.NewProducer(kafkaOptions(cfg)...)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, func() { _ = producer.Close() }, nil
}

func kafkaOptions(cfg *config.Config) []pkgkafka.ProducerOption {
	return []pkgkafka.ProducerOption{
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithWriteTimeout(cfg.Kafka.WriteTimeout),
	}
}

// ProvideLogger creates the application logger and attaches the collector
// when a publisher is configured.
func ProvideLogger(cfg *config.Config, pub applogger.Publisher) (*applogger.Logger, func(), error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}
	if pub == nil {
		return l, func() {}, nil
	}

	l.AddCollector(&applogger.CollectionConfig{
		TimeInterval:   cfg.Logging.Collector.Interval,
		CountThreshold: cfg.Logging.Collector.Threshold,
		Topic:          cfg.Logging.Collector.Topic,
		Publisher:      pub,
	})
	return l, l.RemoveCollector, nil
}

func postgresOptions(cfg *config.Config) []postgres.ClientOption {
	opts := []postgres.ClientOption{
		postgres.WithPool(cfg.Postgres.MaxOpenConns, cfg.Postgres.MaxIdleConns, cfg.Postgres.ConnMaxLifetime),
		postgres.WithConnectTimeout(cfg.Postgres.ConnectTimeout),
	}
	if cfg.Postgres.DSN != "" {
		return append(opts, postgres.WithDSN(cfg.Postgres.DSN))
	}
	return append(opts,
		postgres.WithHost(cfg.Postgres.Host, cfg.Postgres.Port),
		postgres.WithDatabase(cfg.Postgres.Database),
		postgres.WithCredentials(cfg.Postgres.User, cfg.Postgres.Password),
		postgres.WithSSLMode(cfg.Postgres.SSLMode),
	)
}

// ProvidePostgresClient connects to Postgres and applies the schema.
func ProvidePostgresClient(cfg *config.Config, l *applogger.Logger) (*postgres.Client, func(), error) {
	opts := postgresOptions(cfg)
	client, err := postgres.NewClient(opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.Schema); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("postgres schema: %w", err)
	}
	l.Info("postgres connected, schema ready")

	return client, func() {
		if err := client.Close(); err != nil {
			l.Warn("postgres close error", applogger.Error(err))
		}
	}, nil
}

// ProvideStore creates the Postgres-backed indicator store.
func ProvideStore(client *postgres.Client, l *applogger.Logger) drepo.Store {
	return internalrepo.NewPostgresStore(client.DB(), l)
}

// ProvideCache creates the lookup cache and job locker.
func ProvideCache(cfg *config.Config, l *applogger.Logger) (cache.Service, func(), error) {
	var (
		c   cache.Service
		err error
	)
	switch cfg.Cache.Driver {
	case "redis":
		c, err = cache.NewRedisCache(
			cache.WithRedisAddr(cfg.Cache.Redis.Addr),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
			cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("redis cache: %w", err)
		}
	default:
		c = cache.NewMemoryCache(
			cache.WithMemoryMaxSize(cfg.Cache.Memory.MaxSize),
			cache.WithMemoryCleanup(cfg.Cache.Memory.CleanupInterval),
		)
	}
	l.Info("cache ready", applogger.String("driver", cfg.Cache.Driver))

	return c, func() { _ = c.Close() }, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() drepo.Metrics {
	return metrics.New()
}

// ProvideSeriesSource creates the FRED client.
func ProvideSeriesSource(cfg *config.Config) drepo.SeriesSource {
	return fred.New(cfg.Fred.BaseURL, cfg.Fred.APIKey, cfg.Fred.Timeout)
}

// ProvideMessenger creates the LINE Messaging API client.
func ProvideMessenger(cfg *config.Config, l *applogger.Logger) drepo.Messenger {
	return line.New(cfg.Line.APIURL, cfg.Line.AccessToken, cfg.Line.Timeout, l)
}

// ProvideLookup creates the cached lookup engine.
func ProvideLookup(cfg *config.Config, store drepo.Store, c cache.Service, m drepo.Metrics, l *applogger.Logger) usecase.Lookup {
	svc := usecase.NewLookupService(store, m, l, time.Now)
	return usecase.NewCachedLookup(svc, c, cfg.Lookup.CacheTTL, l)
}

func ProvideUpdateScanner(cfg *config.Config, store drepo.Store) *usecase.UpdateScanner {
	return usecase.NewUpdateScanner(store, cfg.Notifier.Window, cfg.Notifier.Limit)
}

// sharedCache returns c only when other subcommands see the same keys. A
// memory cache dies with its process, so it can neither lock a job against
// another run nor drop lookups cached by serve.
func sharedCache(cfg *config.Config, c cache.Service) cache.Service {
	if cfg.Cache.Driver != "redis" {
		return nil
	}
	return c
}

func ProvideChangeNotifier(cfg *config.Config, scanner *usecase.UpdateScanner, msg drepo.Messenger, c cache.Service, m drepo.Metrics, l *applogger.Logger) *usecase.ChangeNotifier {
	var opts []usecase.NotifierOption
	if shared := sharedCache(cfg, c); shared != nil {
		opts = append(opts, usecase.WithNotifierLock(shared, cfg.Notifier.LockTTL))
	} else {
		l.Warn("notify lock disabled", applogger.String("driver", cfg.Cache.Driver))
	}
	return usecase.NewChangeNotifier(scanner, msg, cfg.Line.RecipientID, m, l, opts...)
}

func ProvideIngestionSync(cfg *config.Config, store drepo.Store, src drepo.SeriesSource, c cache.Service, m drepo.Metrics, l *applogger.Logger) *usecase.IngestionSync {
	opts := []usecase.SyncOption{usecase.WithDefaultStart(cfg.Ingest.DefaultStart)}
	if shared := sharedCache(cfg, c); shared != nil {
		opts = append(opts,
			usecase.WithSyncLock(shared, cfg.Ingest.LockTTL),
			usecase.WithInvalidator(shared),
		)
	} else {
		l.Warn("sync lock and lookup invalidation disabled", applogger.String("driver", cfg.Cache.Driver))
	}
	return usecase.NewIngestionSync(store, src, cfg.Fred.Source, m, l, opts...)
}

// ProvideLineHandler creates the webhook handler.
func ProvideLineHandler(cfg *config.Config, lookup usecase.Lookup, msg drepo.Messenger, l *applogger.Logger) *webhook.LineHandler {
	return webhook.NewLineHandler(l, cfg.Line.ChannelSecret, lookup, msg)
}

// ProvideHTTPServer creates the Echo server with the webhook routes.
func ProvideHTTPServer(cfg *config.Config, h *webhook.LineHandler, l *applogger.Logger) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(l, []xhttp.Handler{h},
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
	)
}

// ProvideApp assembles the serve lifecycle.
func ProvideApp(l *applogger.Logger, srv *xhttp.Server, store drepo.Store) *server.App {
	return server.New(l, srv, map[string]server.Pinger{"postgres": store})
}
