package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/v2"
	"github.com/exaring/otelpgx"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/movie-catalog/internal/catalog"
	"github.com/metinatakli/movie-catalog/internal/domain"
	"github.com/metinatakli/movie-catalog/internal/reconcile"
	"github.com/metinatakli/movie-catalog/internal/repository"
	"github.com/metinatakli/movie-catalog/internal/storage"
	appvalidator "github.com/metinatakli/movie-catalog/internal/validator"
	"github.com/metinatakli/movie-catalog/internal/vcs"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

const serviceName = "movie-catalog-api"

var (
	version = vcs.Version()
)

type Application struct {
	config         Config
	logger         *slog.Logger
	validator      *validator.Validate
	sessionManager *scs.SessionManager

	catalog *catalog.Catalog
	files   domain.FileStore
	sweeper *reconcile.Sweeper
}

type Config struct {
	Port             int
	Env              string
	OtelCollectorUrl string
	OtelSampleRatio  float64
	DB               DBConfig
	Redis            RedisConfig
	Storage          StorageConfig
	Sweep            SweepConfig
}

type DBConfig struct {
	// Driver is either postgres or sqlite. For sqlite the DSN is a file path.
	Driver       string
	DSN          string
	MaxOpenConns int
	MaxIdleTime  time.Duration
}

type RedisConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  time.Duration
}

type StorageConfig struct {
	PosterDir      string
	BaseURL        string
	MaxUploadBytes int64
}

type SweepConfig struct {
	Interval    time.Duration
	GracePeriod time.Duration
	LockTTL     time.Duration
}

func NewApp(
	cfg Config,
	logger *slog.Logger,
	validator *validator.Validate,
	sessionManager *scs.SessionManager,
	movieRepo domain.MovieRepository,
	files domain.FileStore,
	locker reconcile.Locker,
) *Application {
	return &Application{
		config:         cfg,
		logger:         logger,
		validator:      validator,
		sessionManager: sessionManager,
		catalog: catalog.New(
			catalog.Config{PosterDir: cfg.Storage.PosterDir, BaseURL: cfg.Storage.BaseURL},
			movieRepo,
			files,
			logger,
		),
		files: files,
		sweeper: reconcile.NewSweeper(
			reconcile.Config{PosterDir: cfg.Storage.PosterDir, GracePeriod: cfg.Sweep.GracePeriod},
			files,
			movieRepo,
			locker,
			logger,
		),
	}
}

func Run() error {
	var cfg Config

	flag.IntVar(&cfg.Port, "port", 3000, "server port")
	flag.StringVar(&cfg.Env, "env", "dev", "Environment (dev|staging|prod)")
	flag.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", "", "OpenTelemetry collector gRPC endpoint")
	flag.Float64Var(&cfg.OtelSampleRatio, "otel-sample-ratio", 1.0, "Fraction of root spans sampled (0-1)")

	flag.StringVar(&cfg.DB.Driver, "db-driver", "postgres", "Record store driver (postgres|sqlite)")
	flag.StringVar(&cfg.DB.DSN, "db-dsn", "", "PostgreSQL DSN, or SQLite file path")
	flag.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")

	flag.StringVar(&cfg.Redis.URL, "redis-url", "", "Redis URL, sessions and sweep lock stay in process when empty")
	flag.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	flag.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	flag.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", 2*time.Minute, "Redis max idle time for connections")

	flag.StringVar(&cfg.Storage.PosterDir, "poster-dir", "posters", "Directory posters are stored in")
	flag.StringVar(&cfg.Storage.BaseURL, "base-url", "http://localhost:3000", "Base URL used to build poster URLs")
	flag.Int64Var(&cfg.Storage.MaxUploadBytes, "max-upload-bytes", 10<<20, "Maximum size of a movie upload request")

	flag.DurationVar(&cfg.Sweep.Interval, "sweep-interval", 0, "Interval of the unreferenced poster sweep (0 disables it)")
	flag.DurationVar(&cfg.Sweep.GracePeriod, "sweep-grace-period", time.Hour, "Minimum age of a poster before the sweep may remove it")
	flag.DurationVar(&cfg.Sweep.LockTTL, "sweep-lock-ttl", 5*time.Minute, "Expiry of the distributed sweep lock")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	shutdownTelemetry, err := initTelemetry(context.Background(), cfg, logger)
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	if cfg.OtelCollectorUrl != "" {
		logger = slog.New(NewMultiHandler(logger.Handler(), otelslog.NewHandler(serviceName)))
	}

	movieRepo, closeRepo, err := newMovieRepository(cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	var (
		sessionManager *scs.SessionManager
		locker         reconcile.Locker
	)

	if cfg.Redis.URL != "" {
		redisClient, err := NewRedisClient(cfg)
		if err != nil {
			return err
		}
		defer redisClient.Close()

		sessionManager = NewSessionManager(redisClient)
		locker = reconcile.NewRedisLocker(redisClient, cfg.Sweep.LockTTL)
	} else {
		logger.Warn("redis URL not set, sessions and the sweep lock are local to this process")

		sessionManager = NewSessionManager(nil)
		locker = &reconcile.LocalLocker{}
	}

	app := NewApp(
		cfg,
		logger,
		appvalidator.NewValidator(),
		sessionManager,
		movieRepo,
		storage.NewLocalFileStore(logger),
		locker,
	)

	return app.run()
}

func newMovieRepository(cfg Config) (domain.MovieRepository, func(), error) {
	switch cfg.DB.Driver {
	case "sqlite":
		repo, err := repository.NewSQLiteMovieRepository(cfg.DB.DSN)
		if err != nil {
			return nil, nil, err
		}

		return repo, func() { repo.Close() }, nil
	case "postgres":
		db, err := NewDatabasePool(cfg)
		if err != nil {
			return nil, nil, err
		}

		return repository.NewPostgresMovieRepository(db), db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported db driver %q", cfg.DB.Driver)
	}
}

// NewSessionManager keeps sessions in Redis when a client is given and in memory
// otherwise.
func NewSessionManager(client *redis.Client) *scs.SessionManager {
	sessionManager := scs.New()

	if client != nil {
		sessionManager.Store = goredisstore.New(client)
	}
	sessionManager.IdleTimeout = 20 * time.Minute
	sessionManager.Cookie.Name = "session_id"

	return sessionManager
}

func NewRedisClient(cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.URL,
		MaxIdleConns:    cfg.Redis.MaxIdleConns,
		MaxActiveConns:  cfg.Redis.MaxOpenConns,
		ConnMaxIdleTime: cfg.Redis.MaxIdleTime,
	})

	if err := errors.Join(redisotel.InstrumentTracing(rdb), redisotel.InstrumentMetrics(rdb)); err != nil {
		rdb.Close()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := rdb.Ping(ctx).Err()
	if err != nil {
		rdb.Close()
		return nil, err
	}

	return rdb, nil
}

func NewDatabasePool(cfg Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.DB.MaxIdleTime
	config.MaxConns = int32(cfg.DB.MaxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (app *Application) run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: time.Minute,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if app.config.Sweep.Interval > 0 {
		go app.sweeper.Run(ctx, app.config.Sweep.Interval)
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		shutdownError <- srv.Shutdown(shutdownCtx)
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}
