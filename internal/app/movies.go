package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/metinatakli/movie-catalog/api"
	"github.com/metinatakli/movie-catalog/internal/domain"
)

const (
	defaultPageNumber = 0
	defaultPageSize   = 10
	defaultSortBy     = "id"
	defaultDirection  = "asc"

	// mimetype inspects at most this many leading bytes by default
	sniffLen = 3072
)

func (app *Application) AddMovie(w http.ResponseWriter, r *http.Request) {
	form, ok := app.movieForm(w, r)
	if !ok {
		return
	}
	defer form.Close()

	movie, err := app.catalog.AddMovie(r.Context(), toMovieFields(form.dto), form.poster)
	if err != nil {
		app.catalogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, toMovieResponse(movie), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetMovieById(w http.ResponseWriter, r *http.Request, movieId int) {
	if movieId < 1 {
		app.badRequestResponse(w, r, errors.New(ErrInvalidMovieIdFormat))
		return
	}

	movie, err := app.catalog.GetMovieById(r.Context(), movieId)
	if err != nil {
		app.catalogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toMovieResponse(movie), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetAllMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := app.catalog.GetAllMovies(r.Context())
	if err != nil {
		app.catalogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toMovieResponses(movies), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) UpdateMovieById(w http.ResponseWriter, r *http.Request, movieId int) {
	if movieId < 1 {
		app.badRequestResponse(w, r, errors.New(ErrInvalidMovieIdFormat))
		return
	}

	form, ok := app.movieForm(w, r)
	if !ok {
		return
	}
	defer form.Close()

	movie, err := app.catalog.UpdateMovieById(r.Context(), movieId, toMovieFields(form.dto), form.poster)
	if err != nil {
		app.catalogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toMovieResponse(movie), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) DeleteMovieById(w http.ResponseWriter, r *http.Request, movieId int) {
	if movieId < 1 {
		app.badRequestResponse(w, r, errors.New(ErrInvalidMovieIdFormat))
		return
	}

	message, err := app.catalog.DeleteMovieById(r.Context(), movieId)
	if err != nil {
		app.catalogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, api.DeleteMovieResponse{Message: message}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetMoviesPaginated(w http.ResponseWriter, r *http.Request, params api.GetMoviesPaginatedParams) {
	err := app.validator.Struct(params)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	page, err := app.catalog.GetAllMoviesWithPagination(
		r.Context(),
		valueOr(params.PageNumber, defaultPageNumber),
		valueOr(params.PageSize, defaultPageSize),
	)
	if err != nil {
		app.catalogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toMoviePageResponse(page), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetMoviesPaginatedSorted(w http.ResponseWriter, r *http.Request, params api.GetMoviesPaginatedSortedParams) {
	err := app.validator.Struct(params)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	page, err := app.catalog.GetAllMoviesWithPaginationAndSorting(
		r.Context(),
		valueOr(params.PageNumber, defaultPageNumber),
		valueOr(params.PageSize, defaultPageSize),
		valueOr(params.SortBy, defaultSortBy),
		valueOr(params.Direction, defaultDirection),
	)
	if err != nil {
		app.catalogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toMoviePageResponse(page), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// GetFile streams a poster. The content type is sniffed from the first bytes since
// posters are stored under client supplied names.
func (app *Application) GetFile(w http.ResponseWriter, r *http.Request, fileName string) {
	logger := app.contextGetLogger(r)

	file, err := app.files.Open(r.Context(), app.catalog.PosterDir(), fileName)
	if err != nil {
		app.catalogErrorResponse(w, r, err)
		return
	}
	defer file.Close()

	head := make([]byte, sniffLen)

	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		app.serverErrorResponse(w, r, err)
		return
	}
	head = head[:n]

	mtype := mimetype.Detect(head)

	w.Header().Set("Content-Type", mtype.String())
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", fileName))
	w.WriteHeader(http.StatusOK)

	written, err := io.Copy(w, io.MultiReader(bytes.NewReader(head), file))
	if err != nil {
		logger.Error("failed to stream poster", "poster", fileName, "written", written, "error", err)
		return
	}

	logger.Debug("poster served", "poster", fileName, "size", written, "contentType", mtype.String())
}

// movieForm reads and validates a multipart movie request, writing the error response
// itself when the request is unusable.
func (app *Application) movieForm(w http.ResponseWriter, r *http.Request) (*movieForm, bool) {
	form, err := app.readMovieForm(w, r)
	if err != nil {
		switch {
		case errors.Is(err, errUploadTooLarge):
			app.uploadTooLargeResponse(w, r)
		default:
			app.badRequestResponse(w, r, err)
		}

		return nil, false
	}

	err = app.validator.Struct(form.dto)
	if err != nil {
		form.Close()
		app.failedValidationResponse(w, r, err)
		return nil, false
	}

	return form, true
}

func toMovieFields(dto api.MovieRequest) domain.MovieFields {
	return domain.MovieFields{
		Title:       dto.Title,
		Director:    dto.Director,
		Studio:      dto.Studio,
		Cast:        valueOr(dto.Cast, ""),
		ReleaseYear: dto.ReleaseYear,
	}
}

func toMovieResponse(movie *domain.MovieDetails) api.MovieResponse {
	return api.MovieResponse{
		MovieId:     movie.ID,
		Title:       movie.Title,
		Director:    movie.Director,
		Studio:      movie.Studio,
		Cast:        movie.Cast,
		ReleaseYear: movie.ReleaseYear,
		Poster:      movie.Poster,
		PosterUrl:   movie.PosterUrl,
	}
}

func toMovieResponses(movies []domain.MovieDetails) []api.MovieResponse {
	resp := make([]api.MovieResponse, len(movies))

	for i := range movies {
		resp[i] = toMovieResponse(&movies[i])
	}

	return resp
}

func toMoviePageResponse(page *domain.MoviePage) api.MoviePageResponse {
	return api.MoviePageResponse{
		Movies:        toMovieResponses(page.Movies),
		PageNumber:    page.PageNumber,
		PageSize:      page.PageSize,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
		IsLast:        page.IsLast,
	}
}

func valueOr[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}

	return *v
}
