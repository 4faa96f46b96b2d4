package mocks

import (
	"context"

	"github.com/metinatakli/movie-catalog/internal/domain"
)

type MockMovieRepo struct {
	domain.MovieRepository
	SaveFunc       func(ctx context.Context, movie *domain.Movie) error
	GetByIdFunc    func(ctx context.Context, id int) (*domain.Movie, error)
	GetAllFunc     func(ctx context.Context) ([]*domain.Movie, error)
	DeleteByIdFunc func(ctx context.Context, id int) error
	GetPageFunc    func(ctx context.Context, page domain.PageRequest) ([]*domain.Movie, *domain.Metadata, error)
	GetPostersFunc func(ctx context.Context) ([]string, error)
}

func (m *MockMovieRepo) Save(ctx context.Context, movie *domain.Movie) error {
	return m.SaveFunc(ctx, movie)
}

func (m *MockMovieRepo) GetById(ctx context.Context, id int) (*domain.Movie, error) {
	return m.GetByIdFunc(ctx, id)
}

func (m *MockMovieRepo) GetAll(ctx context.Context) ([]*domain.Movie, error) {
	return m.GetAllFunc(ctx)
}

func (m *MockMovieRepo) DeleteById(ctx context.Context, id int) error {
	return m.DeleteByIdFunc(ctx, id)
}

func (m *MockMovieRepo) GetPage(ctx context.Context, page domain.PageRequest) ([]*domain.Movie, *domain.Metadata, error) {
	return m.GetPageFunc(ctx, page)
}

func (m *MockMovieRepo) GetPosters(ctx context.Context) ([]string, error) {
	return m.GetPostersFunc(ctx)
}
