package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/drosan-dev/marketplace-backend/internal/cfg"
	v1Http "github.com/drosan-dev/marketplace-backend/internal/delivery/v1/http"
	"github.com/drosan-dev/marketplace-backend/internal/infrastructure/kafka"
	"github.com/drosan-dev/marketplace-backend/internal/repository/pgdb"
	pgdbConv "github.com/drosan-dev/marketplace-backend/internal/repository/pgdb/converter"
	"github.com/drosan-dev/marketplace-backend/internal/repository/redis"
	redisConv "github.com/drosan-dev/marketplace-backend/internal/repository/redis/converter"
	"github.com/drosan-dev/marketplace-backend/internal/usecase"
	"github.com/drosan-dev/marketplace-backend/pkg/clients"
	"github.com/drosan-dev/marketplace-backend/pkg/closer"
	"github.com/drosan-dev/marketplace-backend/pkg/e"
	"github.com/drosan-dev/marketplace-backend/pkg/logger"
	"github.com/drosan-dev/marketplace-backend/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	shutdownTimeout  = 10 * time.Second
	forcedTimeout    = 2 * time.Second
	ensureTopicWait  = 10 * time.Second
	redisPingTimeout = 5 * time.Second
)

// App собирает зависимости приложения и управляет их жизненным циклом.
type App struct {
	cfg    *config.Config
	logger logger.Logger

	db           *postgres.PgDatabase
	redisClient  *clients.RedisClient
	producer     *kafka.Producer
	outboxWorker *kafka.OutboxWorker
	httpSrv      *v1Http.Server
	closer       *closer.Closer

	workerCancel context.CancelFunc
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	db, err := initPGDB(log, cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	producer, err := kafka.NewProducer(log, cfg.Kafka)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if err := producer.EnsureTopic(ensureTopicWait); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	prConv := pgdbConv.NewProductConverterImpl()
	clConv := pgdbConv.NewCartLineConverterImpl()
	obConv := pgdbConv.NewOutboxEventConverterImpl()
	detailConv := redisConv.NewProductDetailConverterImpl()

	productRepo := pgdb.NewProductRepo(db.Pool, prConv)
	cartRepo := pgdb.NewCartRepo(db.Pool, clConv)
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, obConv)
	cacheRepo := redis.NewCacheRepo(redisClient, detailConv, cfg.Redis, log)
	txManager := pgdb.NewTxManager(db.Pool)

	marketplaceUC := usecase.NewMarketplaceUC(
		productRepo,
		cartRepo,
		outboxRepo,
		cacheRepo,
		txManager,
		log,
	)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, log)
	router.Init(marketplaceUC)

	httpSrv := v1Http.NewServer(r, cfg.Http)

	outboxWorker := kafka.NewOutboxWorker(outboxRepo, log, producer, db.Dsn)

	return &App{
		cfg:          cfg,
		logger:       log,
		db:           db,
		redisClient:  redisClient,
		producer:     producer,
		outboxWorker: outboxWorker,
		httpSrv:      httpSrv,
		closer:       closer.NewCloser(forcedTimeout),
	}, nil
}

// Run запускает HTTP-сервер и outbox-воркер и блокируется до сигнала
// завершения или фатальной ошибки сервера. Ресурсы закрываются в порядке,
// обратном порядку запуска.
func (a *App) Run() error {
	workerCtx, workerCancel := context.WithCancel(context.Background())
	a.workerCancel = workerCancel
	a.outboxWorker.Start(workerCtx)

	a.registerClosers()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Warnf("Shutdown finished with errors: %v", err)
	} else {
		a.logger.Infof("Application shutdown complete")
	}

	return appErr
}

// registerClosers добавляет ресурсы в closer. Закрытие идет в порядке LIFO:
// сначала HTTP-сервер перестает принимать запросы, потом останавливается
// воркер, затем продюсер, Redis и пул базы.
func (a *App) registerClosers() {
	a.closer.Add(func(ctx context.Context) error {
		a.db.Close()
		return nil
	})
	a.closer.Add(func(ctx context.Context) error {
		return a.redisClient.Client.Close()
	})
	a.closer.Add(func(ctx context.Context) error {
		return a.producer.Close()
	})
	a.closer.Add(func(ctx context.Context) error {
		a.workerCancel()
		a.outboxWorker.Stop()
		return nil
	})
	a.closer.Add(func(ctx context.Context) error {
		return a.httpSrv.Stop(ctx)
	})
}

func initPGDB(log logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		log.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(log); err != nil {
		log.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		log.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
