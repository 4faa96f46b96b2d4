package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/movie-catalog/internal/domain"
)

type PostgresMovieRepository struct {
	db *pgxpool.Pool
}

func NewPostgresMovieRepository(db *pgxpool.Pool) *PostgresMovieRepository {
	return &PostgresMovieRepository{
		db: db,
	}
}

func (p *PostgresMovieRepository) Save(ctx context.Context, movie *domain.Movie) error {
	var err error

	if movie.ID == 0 {
		query := `INSERT INTO movies (title, director, studio, movie_cast, release_year, poster)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`

		err = p.db.QueryRow(ctx,
			query,
			movie.Title,
			movie.Director,
			movie.Studio,
			movie.Cast,
			movie.ReleaseYear,
			movie.Poster).Scan(&movie.ID)
	} else {
		query := `UPDATE movies
			SET title = $1, director = $2, studio = $3, movie_cast = $4, release_year = $5, poster = $6
			WHERE id = $7
			RETURNING id`

		err = p.db.QueryRow(ctx,
			query,
			movie.Title,
			movie.Director,
			movie.Studio,
			movie.Cast,
			movie.ReleaseYear,
			movie.Poster,
			movie.ID).Scan(&movie.ID)
	}

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrRecordNotFound
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%w: %s", domain.ErrFileAlreadyExists, movie.Poster)
		}

		return err
	}

	return nil
}

func (p *PostgresMovieRepository) GetById(ctx context.Context, id int) (*domain.Movie, error) {
	query := `SELECT id, title, director, studio, movie_cast, release_year, poster
		FROM movies
		WHERE id = $1`

	var movie domain.Movie

	err := p.db.QueryRow(ctx, query, id).Scan(
		&movie.ID,
		&movie.Title,
		&movie.Director,
		&movie.Studio,
		&movie.Cast,
		&movie.ReleaseYear,
		&movie.Poster,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &movie, nil
}

func (p *PostgresMovieRepository) GetAll(ctx context.Context) ([]*domain.Movie, error) {
	query := `SELECT id, title, director, studio, movie_cast, release_year, poster
		FROM movies
		ORDER BY id`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := []*domain.Movie{}

	for rows.Next() {
		var movie domain.Movie

		err := rows.Scan(
			&movie.ID,
			&movie.Title,
			&movie.Director,
			&movie.Studio,
			&movie.Cast,
			&movie.ReleaseYear,
			&movie.Poster,
		)
		if err != nil {
			return nil, err
		}

		movies = append(movies, &movie)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return movies, nil
}

func (p *PostgresMovieRepository) DeleteById(ctx context.Context, id int) error {
	result, err := p.db.Exec(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func (p *PostgresMovieRepository) GetPage(ctx context.Context, page domain.PageRequest) ([]*domain.Movie, *domain.Metadata, error) {
	order, err := orderBy(page)
	if err != nil {
		return nil, nil, err
	}

	query := fmt.Sprintf(`SELECT count(*) OVER(), id, title, director, studio, movie_cast, release_year, poster
		FROM movies
		%s
		LIMIT $1 OFFSET $2`, order)

	rows, err := p.db.Query(ctx, query, page.Limit(), page.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	totalElements := 0
	movies := make([]*domain.Movie, 0, page.PageSize)

	for rows.Next() {
		var movie domain.Movie

		err := rows.Scan(
			&totalElements,
			&movie.ID,
			&movie.Title,
			&movie.Director,
			&movie.Studio,
			&movie.Cast,
			&movie.ReleaseYear,
			&movie.Poster,
		)
		if err != nil {
			return nil, nil, err
		}

		movies = append(movies, &movie)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	// the window count is only available when the page holds rows
	if len(movies) == 0 && page.Offset() > 0 {
		err = p.db.QueryRow(ctx, `SELECT count(*) FROM movies`).Scan(&totalElements)
		if err != nil {
			return nil, nil, err
		}
	}

	return movies, domain.NewMetadata(totalElements, page.PageNumber, page.PageSize), nil
}

func (p *PostgresMovieRepository) GetPosters(ctx context.Context) ([]string, error) {
	rows, err := p.db.Query(ctx, `SELECT poster FROM movies WHERE poster <> ''`)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, pgx.RowTo[string])
}
