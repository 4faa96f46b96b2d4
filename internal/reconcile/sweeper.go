// Package reconcile removes posters that no movie record references.
//
// Such posters are left behind when a process dies between writing a poster and
// saving its record, or when a compensating delete fails.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/metinatakli/movie-catalog/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

type Config struct {
	PosterDir string
	// GracePeriod protects posters whose record save may still be in flight.
	GracePeriod time.Duration
}

type Sweeper struct {
	config Config
	files  domain.FileStore
	movies domain.MovieRepository
	locker Locker
	logger *slog.Logger
	now    func() time.Time

	removed metric.Int64Counter
}

func NewSweeper(cfg Config, files domain.FileStore, movies domain.MovieRepository, locker Locker, logger *slog.Logger) *Sweeper {
	removed, _ := otel.Meter("github.com/metinatakli/movie-catalog/internal/reconcile").
		Int64Counter("reconcile.posters.removed",
			metric.WithDescription("Unreferenced posters removed by the sweeper"))

	return &Sweeper{
		config:  cfg,
		files:   files,
		movies:  movies,
		locker:  locker,
		logger:  logger,
		now:     time.Now,
		removed: removed,
	}
}

// Run sweeps every interval until ctx is done.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("poster sweeper started", "interval", interval.String(), "gracePeriod", s.config.GracePeriod.String())

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("poster sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				s.logger.Error("poster sweep failed", "error", err)
			}
		}
	}
}

// RunOnce deletes every unreferenced poster older than the grace period and returns
// how many were removed. It does nothing when another sweep holds the lock.
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	locked, err := s.locker.TryLock(ctx)
	if err != nil {
		return 0, err
	}

	if !locked {
		s.logger.DebugContext(ctx, "poster sweep skipped, lock held elsewhere")
		return 0, nil
	}

	defer func() {
		if err := s.locker.Unlock(context.WithoutCancel(ctx)); err != nil {
			s.logger.ErrorContext(ctx, "failed to release sweep lock", "error", err)
		}
	}()

	blobs, err := s.files.List(ctx, s.config.PosterDir)
	if err != nil {
		return 0, fmt.Errorf("list posters: %w", err)
	}

	// posters are read after listing so a record saved in between still protects its file
	posters, err := s.movies.GetPosters(ctx)
	if err != nil {
		return 0, fmt.Errorf("list referenced posters: %w", err)
	}

	referenced := make(map[string]struct{}, len(posters))
	for _, p := range posters {
		referenced[p] = struct{}{}
	}

	cutoff := s.now().Add(-s.config.GracePeriod)
	removed := 0

	for _, blob := range blobs {
		if _, ok := referenced[blob.Name]; ok {
			continue
		}

		if blob.ModTime.After(cutoff) {
			continue
		}

		err := s.files.Delete(ctx, s.config.PosterDir, blob.Name)
		if err != nil {
			if errors.Is(err, domain.ErrFileNotFound) {
				continue
			}

			s.logger.ErrorContext(ctx, "failed to remove unreferenced poster", "poster", blob.Name, "error", err)
			continue
		}

		removed++
		s.logger.InfoContext(ctx, "removed unreferenced poster", "poster", blob.Name, "size", blob.Size)
	}

	if removed > 0 {
		s.removed.Add(ctx, int64(removed))
	}

	return removed, nil
}
