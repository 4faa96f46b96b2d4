package domain

import (
	"context"
	"io"
	"time"
)

// Upload is a file received from a client, stored under its declared name.
type Upload struct {
	Name    string
	Size    int64
	Content io.Reader
}

func (u *Upload) Empty() bool {
	return u == nil || u.Content == nil || u.Size <= 0
}

type BlobInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
}

type FileStore interface {
	Store(ctx context.Context, dir string, upload Upload) (string, error)
	Open(ctx context.Context, dir, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, dir, name string) error
	Exists(ctx context.Context, dir, name string) (bool, error)
	List(ctx context.Context, dir string) ([]BlobInfo, error)
}
