// Package catalog keeps movie records and their poster files consistent.
//
// Records live in a domain.MovieRepository and posters in a domain.FileStore. The two
// never share a transaction, so every operation orders its steps so that a failure in
// between leaves at worst an orphaned poster behind, never a record pointing at a file
// that was not written. Posters written by a call whose record save fails are deleted
// again before the call returns.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/metinatakli/movie-catalog/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const DeleteConfirmation = "Movie Deleted Successfully"

type Config struct {
	// PosterDir is the directory all posters are stored in.
	PosterDir string
	// BaseURL prefixes the poster URLs handed out to clients. It is never used to
	// resolve files.
	BaseURL string
}

type Catalog struct {
	config Config
	movies domain.MovieRepository
	files  domain.FileStore
	logger *slog.Logger

	posterWrites  metric.Int64Counter
	compensations metric.Int64Counter
}

func New(cfg Config, movies domain.MovieRepository, files domain.FileStore, logger *slog.Logger) *Catalog {
	meter := otel.Meter("github.com/metinatakli/movie-catalog/internal/catalog")

	// the global meter provider hands out no-op instruments until telemetry is set up
	posterWrites, _ := meter.Int64Counter("catalog.poster.writes",
		metric.WithDescription("Posters written to the file store"))
	compensations, _ := meter.Int64Counter("catalog.poster.compensations",
		metric.WithDescription("Posters deleted again because the record could not be saved"))

	return &Catalog{
		config:        cfg,
		movies:        movies,
		files:         files,
		logger:        logger,
		posterWrites:  posterWrites,
		compensations: compensations,
	}
}

func (c *Catalog) AddMovie(ctx context.Context, fields domain.MovieFields, poster *domain.Upload) (*domain.MovieDetails, error) {
	if poster.Empty() {
		return nil, domain.ErrFileMissing
	}

	exists, err := c.files.Exists(ctx, c.config.PosterDir, poster.Name)
	if err != nil {
		return nil, err
	}

	if exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrFileAlreadyExists, poster.Name)
	}

	storedName, err := c.storePoster(ctx, *poster)
	if err != nil {
		return nil, err
	}

	movie := newMovie(0, fields, storedName)

	err = c.movies.Save(ctx, movie)
	if err != nil {
		c.compensate(ctx, storedName, "add")
		return nil, err
	}

	c.logger.InfoContext(ctx, "movie added", "movieId", movie.ID, "poster", storedName)

	return c.details(movie), nil
}

func (c *Catalog) GetMovieById(ctx context.Context, id int) (*domain.MovieDetails, error) {
	movie, err := c.getMovie(ctx, id)
	if err != nil {
		return nil, err
	}

	return c.details(movie), nil
}

// GetAllMovies returns every movie. An empty catalog is reported as ErrMovieNotFound
// rather than as an empty list.
func (c *Catalog) GetAllMovies(ctx context.Context) ([]domain.MovieDetails, error) {
	movies, err := c.movies.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if len(movies) == 0 {
		return nil, domain.ErrMovieNotFound
	}

	return c.detailsList(movies), nil
}

// UpdateMovieById replaces every field of the movie with fields. The poster only changes
// when a non-empty replacement is given, in which case the old poster is deleted first.
func (c *Catalog) UpdateMovieById(ctx context.Context, id int, fields domain.MovieFields, poster *domain.Upload) (*domain.MovieDetails, error) {
	existing, err := c.getMovie(ctx, id)
	if err != nil {
		return nil, err
	}

	posterName := existing.Poster
	replaced := false

	if !poster.Empty() {
		if poster.Name != existing.Poster {
			exists, err := c.files.Exists(ctx, c.config.PosterDir, poster.Name)
			if err != nil {
				return nil, err
			}

			if exists {
				return nil, fmt.Errorf("%w: %s", domain.ErrFileAlreadyExists, poster.Name)
			}
		}

		if existing.Poster != "" {
			err = c.files.Delete(ctx, c.config.PosterDir, existing.Poster)
			if err != nil && !errors.Is(err, domain.ErrFileNotFound) {
				return nil, err
			}
		}

		posterName, err = c.storePoster(ctx, *poster)
		if err != nil {
			return nil, err
		}

		replaced = true
	}

	movie := newMovie(existing.ID, fields, posterName)

	err = c.movies.Save(ctx, movie)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			err = fmt.Errorf("%w: %d", domain.ErrMovieNotFound, id)
		}

		if replaced {
			c.compensate(ctx, posterName, "update")
		}

		return nil, err
	}

	c.logger.InfoContext(ctx, "movie updated", "movieId", movie.ID, "poster", posterName, "posterReplaced", replaced)

	return c.details(movie), nil
}

// DeleteMovieById deletes the poster and then the record. A missing poster fails the
// whole operation with ErrFileNotFound and leaves the record in place.
func (c *Catalog) DeleteMovieById(ctx context.Context, id int) (string, error) {
	existing, err := c.getMovie(ctx, id)
	if err != nil {
		return "", err
	}

	err = c.files.Delete(ctx, c.config.PosterDir, existing.Poster)
	if err != nil {
		if errors.Is(err, domain.ErrFileNotFound) {
			c.logger.WarnContext(ctx, "poster of movie is missing, record kept", "movieId", id, "poster", existing.Poster)
		}

		return "", err
	}

	err = c.movies.DeleteById(ctx, existing.ID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: %d", domain.ErrMovieNotFound, id)
		}

		return "", err
	}

	c.logger.InfoContext(ctx, "movie deleted", "movieId", id, "poster", existing.Poster)

	return DeleteConfirmation, nil
}

func (c *Catalog) GetAllMoviesWithPagination(ctx context.Context, pageNumber, pageSize int) (*domain.MoviePage, error) {
	return c.getPage(ctx, domain.PageRequest{
		PageNumber: pageNumber,
		PageSize:   pageSize,
	})
}

func (c *Catalog) GetAllMoviesWithPaginationAndSorting(
	ctx context.Context,
	pageNumber, pageSize int,
	sortBy, direction string,
) (*domain.MoviePage, error) {
	return c.getPage(ctx, domain.PageRequest{
		PageNumber: pageNumber,
		PageSize:   pageSize,
		SortBy:     sortBy,
		Direction:  domain.ParseSortDirection(direction),
	})
}

func (c *Catalog) getPage(ctx context.Context, page domain.PageRequest) (*domain.MoviePage, error) {
	if !page.Valid() {
		return nil, domain.ErrInvalidPagination
	}

	movies, metadata, err := c.movies.GetPage(ctx, page)
	if err != nil {
		return nil, err
	}

	return &domain.MoviePage{
		Movies:     c.detailsList(movies),
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
		Metadata:   *metadata,
	}, nil
}

func (c *Catalog) getMovie(ctx context.Context, id int) (*domain.Movie, error) {
	movie, err := c.movies.GetById(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", domain.ErrMovieNotFound, id)
		}

		return nil, err
	}

	return movie, nil
}

func (c *Catalog) storePoster(ctx context.Context, poster domain.Upload) (string, error) {
	storedName, err := c.files.Store(ctx, c.config.PosterDir, poster)
	if err != nil {
		return "", err
	}

	c.posterWrites.Add(ctx, 1)

	return storedName, nil
}

// compensate removes a poster written by an operation whose record save failed.
func (c *Catalog) compensate(ctx context.Context, name, operation string) {
	c.compensations.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))

	err := c.files.Delete(context.WithoutCancel(ctx), c.config.PosterDir, name)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to remove orphaned poster", "poster", name, "operation", operation, "error", err)
		return
	}

	c.logger.WarnContext(ctx, "removed orphaned poster after failed save", "poster", name, "operation", operation)
}

func (c *Catalog) PosterUrl(name string) string {
	return c.config.BaseURL + "/file/" + name
}

// PosterDir is where the catalog keeps its posters.
func (c *Catalog) PosterDir() string {
	return c.config.PosterDir
}

func (c *Catalog) details(movie *domain.Movie) *domain.MovieDetails {
	return &domain.MovieDetails{
		Movie:     *movie,
		PosterUrl: c.PosterUrl(movie.Poster),
	}
}

func (c *Catalog) detailsList(movies []*domain.Movie) []domain.MovieDetails {
	list := make([]domain.MovieDetails, len(movies))

	for i, movie := range movies {
		list[i] = *c.details(movie)
	}

	return list
}

func newMovie(id int, fields domain.MovieFields, poster string) *domain.Movie {
	return &domain.Movie{
		ID:          id,
		Title:       fields.Title,
		Director:    fields.Director,
		Studio:      fields.Studio,
		Cast:        fields.Cast,
		ReleaseYear: fields.ReleaseYear,
		Poster:      poster,
	}
}
