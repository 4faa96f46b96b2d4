package domain

import "errors"

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrMovieNotFound     = errors.New("movie not found")
	ErrFileMissing       = errors.New("poster file is required but was not provided")
	ErrFileAlreadyExists = errors.New("file already exists, please give another file")
	ErrFileNotFound      = errors.New("file not found")
	ErrFileWriteConflict = errors.New("file was written concurrently under the same name")
	ErrInvalidFileName   = errors.New("invalid file name")
	ErrInvalidSortField  = errors.New("invalid sort field")
	ErrInvalidPagination = errors.New("page number is out of range or page size is not positive")
)
