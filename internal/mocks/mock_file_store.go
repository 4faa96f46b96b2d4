package mocks

import (
	"context"
	"io"

	"github.com/metinatakli/movie-catalog/internal/domain"
)

type MockFileStore struct {
	domain.FileStore
	StoreFunc  func(ctx context.Context, dir string, upload domain.Upload) (string, error)
	OpenFunc   func(ctx context.Context, dir, name string) (io.ReadCloser, error)
	DeleteFunc func(ctx context.Context, dir, name string) error
	ExistsFunc func(ctx context.Context, dir, name string) (bool, error)
	ListFunc   func(ctx context.Context, dir string) ([]domain.BlobInfo, error)
}

func (m *MockFileStore) Store(ctx context.Context, dir string, upload domain.Upload) (string, error) {
	return m.StoreFunc(ctx, dir, upload)
}

func (m *MockFileStore) Open(ctx context.Context, dir, name string) (io.ReadCloser, error) {
	return m.OpenFunc(ctx, dir, name)
}

func (m *MockFileStore) Delete(ctx context.Context, dir, name string) error {
	return m.DeleteFunc(ctx, dir, name)
}

func (m *MockFileStore) Exists(ctx context.Context, dir, name string) (bool, error) {
	return m.ExistsFunc(ctx, dir, name)
}

func (m *MockFileStore) List(ctx context.Context, dir string) ([]domain.BlobInfo, error) {
	return m.ListFunc(ctx, dir)
}
