package domain

import "context"

type Movie struct {
	ID          int
	Title       string
	Director    string
	Studio      string
	Cast        string
	ReleaseYear int
	Poster      string
}

// MovieDetails is a movie together with the URL its poster is served from.
type MovieDetails struct {
	Movie
	PosterUrl string
}

type MoviePage struct {
	Movies     []MovieDetails
	PageNumber int
	PageSize   int
	Metadata
}

// MovieFields holds the caller supplied attributes of a movie. The poster is never part
// of it, it is derived from the uploaded file.
type MovieFields struct {
	Title       string
	Director    string
	Studio      string
	Cast        string
	ReleaseYear int
}

type MovieRepository interface {
	Save(ctx context.Context, movie *Movie) error
	GetById(ctx context.Context, id int) (*Movie, error)
	GetAll(ctx context.Context) ([]*Movie, error)
	DeleteById(ctx context.Context, id int) error
	GetPage(ctx context.Context, page PageRequest) ([]*Movie, *Metadata, error)
	GetPosters(ctx context.Context) ([]string, error)
}
