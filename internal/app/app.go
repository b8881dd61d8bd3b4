package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/quotes-backend/internal/cfg"
	v1Http "github.com/DRSN-tech/quotes-backend/internal/delivery/v1/http"
	"github.com/DRSN-tech/quotes-backend/internal/infrastructure/charts"
	"github.com/DRSN-tech/quotes-backend/internal/infrastructure/kafka"
	s3Repo "github.com/DRSN-tech/quotes-backend/internal/repository/minio"
	"github.com/DRSN-tech/quotes-backend/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/quotes-backend/internal/repository/pgdb/converter/generated"
	"github.com/DRSN-tech/quotes-backend/internal/repository/redis"
	redisConv "github.com/DRSN-tech/quotes-backend/internal/repository/redis/converter/generated"
	"github.com/DRSN-tech/quotes-backend/internal/usecase"
	"github.com/DRSN-tech/quotes-backend/pkg/clients"
	"github.com/DRSN-tech/quotes-backend/pkg/closer"
	"github.com/DRSN-tech/quotes-backend/pkg/e"
	"github.com/DRSN-tech/quotes-backend/pkg/logger"
	"github.com/DRSN-tech/quotes-backend/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

// App собирает зависимости приложения и управляет их жизненным циклом.
type App struct {
	cfg    *config.Config
	logger logger.Logger

	db          *postgres.PgDatabase
	redisClient *clients.RedisClient
	producer    *kafka.Producer
	worker      *kafka.ActivityWorker
	httpSrv     *v1Http.Server
	closer      *closer.Closer

	workerCancel context.CancelFunc
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	db, err := initPGDB(log, cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	prConv := pgdbConv.NewProductConverterImpl()
	custConv := pgdbConv.NewCustomerConverterImpl()
	activityConv := pgdbConv.NewActivityEventConverterImpl()
	outboxConv := pgdbConv.NewActivityOutboxConverterImpl()
	infoConv := redisConv.NewProductInfoConverterImpl()

	productRepo := pgdb.NewProductRepo(db.Pool, prConv)
	customerRepo := pgdb.NewCustomerRepo(db.Pool, custConv)
	quoteRepo := pgdb.NewQuoteRepo(db.Pool)
	activityRepo := pgdb.NewActivityEventRepo(db.Pool, activityConv, outboxConv)

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cacheRepo := redis.NewCacheRepo(redisClient, infoConv, cfg.Redis, log)

	minioClient, err := clients.NewMinIOClient(cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minioCtx, minioCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer minioCancel()
	if err := clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	snapshotRepo := s3Repo.NewSnapshotRepo(minioClient, cfg.Minio)

	renderer := charts.NewChartsService(cfg.Charts, log)

	producer, err := kafka.NewProducer(log, cfg.Kafka)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if err := producer.EnsureTopic(10 * time.Second); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	worker := kafka.NewActivityWorker(activityRepo, log, producer, db.Dsn)

	productUC := usecase.NewProductUC(productRepo, quoteRepo, activityRepo, cacheRepo, db.Pool, log)
	customerUC := usecase.NewCustomerUC(customerRepo, activityRepo, db.Pool, log)
	quoteUC := usecase.NewQuoteUC(quoteRepo, productRepo, customerRepo, activityRepo, cacheRepo, db.Pool, log)
	analyticsUC := usecase.NewAnalyticsUC(productRepo, quoteRepo, renderer, snapshotRepo, log)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, log)
	router.Init(productUC, customerUC, quoteUC, analyticsUC)

	return &App{
		cfg:         cfg,
		logger:      log,
		db:          db,
		redisClient: redisClient,
		producer:    producer,
		worker:      worker,
		httpSrv:     v1Http.NewServer(r, cfg.Http),
		closer:      closer.NewCloser(2 * time.Second),
	}, nil
}

// Run запускает воркер и HTTP-сервер и блокируется до сигнала завершения.
func (a *App) Run() error {
	workerCtx, workerCancel := context.WithCancel(context.Background())
	a.workerCancel = workerCancel
	a.worker.Start(workerCtx)

	a.registerClosers()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Errorf(err, "HTTP server failed")
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

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Errorf(err, "shutdown finished with errors")
		if appErr == nil {
			appErr = err
		}
	} else {
		a.logger.Infof("Application shutdown complete")
	}

	return appErr
}

// registerClosers регистрирует ресурсы в порядке запуска, закрытие идёт в обратном.
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
		a.worker.Stop()
		return nil
	})
	a.closer.Add(func(ctx context.Context) error {
		return a.httpSrv.Stop(ctx)
	})
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		logger.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
