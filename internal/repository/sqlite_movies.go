package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/metinatakli/movie-catalog/internal/domain"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteMovieRepository stores movies in a single SQLite file. It backs local
// development and single-node deployments that run without PostgreSQL.
type SQLiteMovieRepository struct {
	db        *sql.DB
	writeLock *sync.Mutex // sqlite allows a single writer
}

var _ domain.MovieRepository = (*SQLiteMovieRepository)(nil)

func NewSQLiteMovieRepository(path string) (*SQLiteMovieRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	db.SetConnMaxLifetime(5 * time.Minute)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if err := initializeSQLiteSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize db: %w", err)
	}

	return &SQLiteMovieRepository{
		db:        db,
		writeLock: new(sync.Mutex),
	}, nil
}

func initializeSQLiteSchema(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS movies (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			title        TEXT    NOT NULL,
			director     TEXT    NOT NULL,
			studio       TEXT    NOT NULL,
			movie_cast   TEXT    NOT NULL DEFAULT '',
			release_year INTEGER NOT NULL,
			poster       TEXT    NOT NULL UNIQUE
		)
	`); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	return nil
}

func (r *SQLiteMovieRepository) Save(ctx context.Context, movie *domain.Movie) error {
	r.writeLock.Lock()
	defer r.writeLock.Unlock()

	if movie.ID == 0 {
		result, err := r.db.ExecContext(ctx,
			`INSERT INTO movies (title, director, studio, movie_cast, release_year, poster)
			VALUES (?, ?, ?, ?, ?, ?)`,
			movie.Title,
			movie.Director,
			movie.Studio,
			movie.Cast,
			movie.ReleaseYear,
			movie.Poster,
		)
		if err != nil {
			return fmt.Errorf("insert movie: %w", mapSQLiteError(err, movie.Poster))
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}

		movie.ID = int(id)

		return nil
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE movies
		SET title = ?, director = ?, studio = ?, movie_cast = ?, release_year = ?, poster = ?
		WHERE id = ?`,
		movie.Title,
		movie.Director,
		movie.Studio,
		movie.Cast,
		movie.ReleaseYear,
		movie.Poster,
		movie.ID,
	)
	if err != nil {
		return fmt.Errorf("update movie: %w", mapSQLiteError(err, movie.Poster))
	}

	if n, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("rows affected: %w", err)
	} else if n == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func (r *SQLiteMovieRepository) GetById(ctx context.Context, id int) (*domain.Movie, error) {
	var movie domain.Movie

	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, director, studio, movie_cast, release_year, poster FROM movies WHERE id = ?`,
		id,
	).Scan(
		&movie.ID,
		&movie.Title,
		&movie.Director,
		&movie.Studio,
		&movie.Cast,
		&movie.ReleaseYear,
		&movie.Poster,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, fmt.Errorf("query movie: %w", err)
	}

	return &movie, nil
}

func (r *SQLiteMovieRepository) GetAll(ctx context.Context) ([]*domain.Movie, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, director, studio, movie_cast, release_year, poster FROM movies ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}

	return scanSQLiteMovies(rows)
}

func (r *SQLiteMovieRepository) DeleteById(ctx context.Context, id int) error {
	r.writeLock.Lock()
	defer r.writeLock.Unlock()

	result, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}

	if n, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("rows affected: %w", err)
	} else if n == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func (r *SQLiteMovieRepository) GetPage(ctx context.Context, page domain.PageRequest) ([]*domain.Movie, *domain.Metadata, error) {
	order, err := orderBy(page)
	if err != nil {
		return nil, nil, err
	}

	var totalElements int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM movies`).Scan(&totalElements); err != nil {
		return nil, nil, fmt.Errorf("count movies: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT id, title, director, studio, movie_cast, release_year, poster FROM movies %s LIMIT ? OFFSET ?`, order),
		page.Limit(),
		page.Offset(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("query movies: %w", err)
	}

	movies, err := scanSQLiteMovies(rows)
	if err != nil {
		return nil, nil, err
	}

	return movies, domain.NewMetadata(totalElements, page.PageNumber, page.PageSize), nil
}

func (r *SQLiteMovieRepository) GetPosters(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT poster FROM movies WHERE poster <> ''`)
	if err != nil {
		return nil, fmt.Errorf("query posters: %w", err)
	}
	defer rows.Close()

	posters := []string{}

	for rows.Next() {
		var poster string
		if err := rows.Scan(&poster); err != nil {
			return nil, fmt.Errorf("scan poster: %w", err)
		}

		posters = append(posters, poster)
	}

	return posters, rows.Err()
}

func (r *SQLiteMovieRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteMovieRepository) Close() error {
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}

	return nil
}

func scanSQLiteMovies(rows *sql.Rows) ([]*domain.Movie, error) {
	defer rows.Close()

	movies := []*domain.Movie{}

	for rows.Next() {
		var movie domain.Movie

		if err := rows.Scan(
			&movie.ID,
			&movie.Title,
			&movie.Director,
			&movie.Studio,
			&movie.Cast,
			&movie.ReleaseYear,
			&movie.Poster,
		); err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}

		movies = append(movies, &movie)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}

	return movies, nil
}

func mapSQLiteError(err error, poster string) error {
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) && liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return errors.Join(fmt.Errorf("%w: %s", domain.ErrFileAlreadyExists, poster), err)
	}

	return err
}
