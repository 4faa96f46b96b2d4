package repository

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/metinatakli/movie-catalog/internal/domain"
)

func newTestSQLiteRepo(t *testing.T) *SQLiteMovieRepository {
	t.Helper()

	repo, err := NewSQLiteMovieRepository(filepath.Join(t.TempDir(), "movies.db"))
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}

	t.Cleanup(func() { repo.Close() })

	return repo
}

func seedMovies(t *testing.T, repo *SQLiteMovieRepository, years ...int) []*domain.Movie {
	t.Helper()

	movies := make([]*domain.Movie, 0, len(years))

	for i, year := range years {
		movie := &domain.Movie{
			Title:       fmt.Sprintf("Movie %d", i+1),
			Director:    "Director",
			Studio:      "Studio",
			Cast:        "Actor One, Actor Two",
			ReleaseYear: year,
			Poster:      fmt.Sprintf("poster%d.png", i+1),
		}

		if err := repo.Save(context.Background(), movie); err != nil {
			t.Fatalf("failed to seed movie: %v", err)
		}

		movies = append(movies, movie)
	}

	return movies
}

func TestSQLiteMovieRepository_Save(t *testing.T) {
	repo := newTestSQLiteRepo(t)
	ctx := context.Background()

	movie := &domain.Movie{
		Title:       "Inception",
		Director:    "Christopher Nolan",
		Studio:      "Warner Bros.",
		Cast:        "Leonardo DiCaprio",
		ReleaseYear: 2010,
		Poster:      "inception.png",
	}

	if err := repo.Save(ctx, movie); err != nil {
		t.Fatalf("Save() insert error = %v", err)
	}
	if movie.ID == 0 {
		t.Fatal("Save() did not assign an id")
	}

	updated := &domain.Movie{
		ID:          movie.ID,
		Title:       "Inception (Director's Cut)",
		Director:    "C. Nolan",
		Studio:      "Legendary",
		Cast:        "",
		ReleaseYear: 2011,
		Poster:      "inception.png",
	}

	if err := repo.Save(ctx, updated); err != nil {
		t.Fatalf("Save() update error = %v", err)
	}

	got, err := repo.GetById(ctx, movie.ID)
	if err != nil {
		t.Fatalf("GetById() error = %v", err)
	}

	if diff := cmp.Diff(updated, got); diff != "" {
		t.Errorf("GetById() mismatch (-want +got):\n%s", diff)
	}

	err = repo.Save(ctx, &domain.Movie{ID: 999, Title: "Ghost", Poster: "ghost.png"})
	if !errors.Is(err, domain.ErrRecordNotFound) {
		t.Errorf("Save() of vanished row error = %v, want %v", err, domain.ErrRecordNotFound)
	}

	err = repo.Save(ctx, &domain.Movie{Title: "Duplicate", Poster: "inception.png"})
	if !errors.Is(err, domain.ErrFileAlreadyExists) {
		t.Errorf("Save() with taken poster error = %v, want %v", err, domain.ErrFileAlreadyExists)
	}
}

func TestSQLiteMovieRepository_GetByIdAndDelete(t *testing.T) {
	repo := newTestSQLiteRepo(t)
	ctx := context.Background()

	if _, err := repo.GetById(ctx, 1); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Errorf("GetById() on empty store error = %v, want %v", err, domain.ErrRecordNotFound)
	}

	movies := seedMovies(t, repo, 2000, 2001)

	if err := repo.DeleteById(ctx, movies[0].ID); err != nil {
		t.Fatalf("DeleteById() error = %v", err)
	}

	if _, err := repo.GetById(ctx, movies[0].ID); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Errorf("GetById() after delete error = %v, want %v", err, domain.ErrRecordNotFound)
	}

	if err := repo.DeleteById(ctx, movies[0].ID); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Errorf("DeleteById() twice error = %v, want %v", err, domain.ErrRecordNotFound)
	}

	all, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}

	if diff := cmp.Diff(movies[1:], all); diff != "" {
		t.Errorf("GetAll() mismatch (-want +got):\n%s", diff)
	}

	posters, err := repo.GetPosters(ctx)
	if err != nil {
		t.Fatalf("GetPosters() error = %v", err)
	}

	if diff := cmp.Diff([]string{"poster2.png"}, posters); diff != "" {
		t.Errorf("GetPosters() mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLiteMovieRepository_GetPage(t *testing.T) {
	repo := newTestSQLiteRepo(t)
	seedMovies(t, repo, 1999, 2010, 1985, 2010, 2023)

	tests := []struct {
		name         string
		page         domain.PageRequest
		wantIDs      []int
		wantMetadata *domain.Metadata
		wantErr      error
	}{
		{
			name:         "first page",
			page:         domain.PageRequest{PageNumber: 0, PageSize: 2},
			wantIDs:      []int{1, 2},
			wantMetadata: &domain.Metadata{TotalElements: 5, TotalPages: 3, IsLast: false},
		},
		{
			name:         "last partial page",
			page:         domain.PageRequest{PageNumber: 2, PageSize: 2},
			wantIDs:      []int{5},
			wantMetadata: &domain.Metadata{TotalElements: 5, TotalPages: 3, IsLast: true},
		},
		{
			name:         "page beyond the end keeps the totals",
			page:         domain.PageRequest{PageNumber: 7, PageSize: 2},
			wantIDs:      []int{},
			wantMetadata: &domain.Metadata{TotalElements: 5, TotalPages: 3, IsLast: true},
		},
		{
			name:         "sorted by release year descending",
			page:         domain.PageRequest{PageNumber: 0, PageSize: 5, SortBy: "releaseYear", Direction: domain.SortDescending},
			wantIDs:      []int{5, 2, 4, 1, 3},
			wantMetadata: &domain.Metadata{TotalElements: 5, TotalPages: 1, IsLast: true},
		},
		{
			name:         "sorted by title ascending",
			page:         domain.PageRequest{PageNumber: 1, PageSize: 3, SortBy: "title", Direction: domain.SortAscending},
			wantIDs:      []int{4, 5},
			wantMetadata: &domain.Metadata{TotalElements: 5, TotalPages: 2, IsLast: true},
		},
		{
			name:    "unknown sort field",
			page:    domain.PageRequest{PageNumber: 0, PageSize: 2, SortBy: "rating"},
			wantErr: domain.ErrInvalidSortField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			movies, metadata, err := repo.GetPage(context.Background(), tt.page)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("GetPage() error = %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("GetPage() unexpected error = %v", err)
			}

			ids := make([]int, 0, len(movies))
			for _, m := range movies {
				ids = append(ids, m.ID)
			}

			if diff := cmp.Diff(tt.wantIDs, ids); diff != "" {
				t.Errorf("GetPage() ids mismatch (-want +got):\n%s", diff)
			}

			if diff := cmp.Diff(tt.wantMetadata, metadata); diff != "" {
				t.Errorf("GetPage() metadata mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOrderBy(t *testing.T) {
	tests := []struct {
		name    string
		page    domain.PageRequest
		want    string
		wantErr error
	}{
		{
			name: "unsorted falls back to id",
			page: domain.PageRequest{},
			want: "ORDER BY id ASC",
		},
		{
			name: "descending id",
			page: domain.PageRequest{SortBy: "id", Direction: domain.SortDescending},
			want: "ORDER BY id DESC",
		},
		{
			name: "column with tie breaker",
			page: domain.PageRequest{SortBy: "cast", Direction: domain.SortAscending},
			want: "ORDER BY movie_cast ASC, id ASC",
		},
		{
			name: "unknown direction is ascending",
			page: domain.PageRequest{SortBy: "studio", Direction: "sideways"},
			want: "ORDER BY studio ASC, id ASC",
		},
		{
			name:    "column names are not accepted verbatim",
			page:    domain.PageRequest{SortBy: "release_year; DROP TABLE movies"},
			wantErr: domain.ErrInvalidSortField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := orderBy(tt.page)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("orderBy() error = %v, want %v", err, tt.wantErr)
			}

			if got != tt.want {
				t.Errorf("orderBy() = %q, want %q", got, tt.want)
			}
		})
	}
}
