package integration_test

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/movie-catalog/internal/app"
	"github.com/metinatakli/movie-catalog/internal/reconcile"
	"github.com/metinatakli/movie-catalog/internal/repository"
	"github.com/metinatakli/movie-catalog/internal/storage"
	appvalidator "github.com/metinatakli/movie-catalog/internal/validator"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type TestApp struct {
	App            *app.Application
	DB             *pgxpool.Pool
	Redis          *redis.Client
	PosterDir      string
	sessionManager *scs.SessionManager
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	validator := appvalidator.NewValidator()

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	sessionManager := app.NewSessionManager(redisClient)

	application := app.NewApp(
		cfg,
		logger,
		validator,
		sessionManager,
		repository.NewPostgresMovieRepository(db),
		storage.NewLocalFileStore(logger),
		reconcile.NewRedisLocker(redisClient, cfg.Sweep.LockTTL),
	)

	return &TestApp{
		App:            application,
		DB:             db,
		Redis:          redisClient,
		PosterDir:      cfg.Storage.PosterDir,
		sessionManager: sessionManager,
	}, nil
}

// authenticatedUserCookies stores a session for TestUserId in Redis, the way the auth
// service does on login, and returns the cookie carrying it.
func (a *TestApp) authenticatedUserCookies(t testing.TB) []http.Cookie {
	ctx, err := a.sessionManager.Load(context.Background(), "")
	require.NoError(t, err)

	a.sessionManager.Put(ctx, "userID", TestUserId)

	token, _, err := a.sessionManager.Commit(ctx)
	require.NoError(t, err)

	return []http.Cookie{{Name: a.sessionManager.Cookie.Name, Value: token}}
}
