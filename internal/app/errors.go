package app

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/movie-catalog/api"
	"github.com/metinatakli/movie-catalog/internal/domain"
	appvalidator "github.com/metinatakli/movie-catalog/internal/validator"
)

const (
	ErrInternalServer       = "The server encountered a problem and could not process your request"
	ErrNotFound             = "The requested resource not found"
	ErrMovieNotFound        = "Movie not found"
	ErrFileNotFound         = "File not found"
	ErrUnauthorized         = "You must be authenticated to access this resource"
	ErrFailedValidation     = "One or more fields have invalid values"
	ErrMethodNotAllowed     = "The requested method is not supported for this resource"
	ErrUploadTooLarge       = "The uploaded file exceeds the size limit"
	ErrInvalidSortField     = "invalid sort field"
	ErrInvalidFileName      = "invalid file name"
	ErrFileWriteConflict    = "the file was written concurrently, please try again"
	ErrInvalidPagination    = "page number is out of range or page size is not positive"
	ErrMalformedMultipart   = "request body must be multipart/form-data"
	ErrMissingMovieDto      = "movieDto part is required"
	ErrInvalidMovieIdFormat = "movie ID must be greater than zero"
)

func (app *Application) logError(r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.contextGetLogger(r).Error(err.Error(), "method", method, "uri", uri)
}

// The errorResponse() method is a generic helper for sending JSON-formatted error
// messages to the client with a given status code.
func (app *Application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	resp := api.ErrorResponse{
		Message:   message,
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
	}

	err := app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(500)
	}
}

func (app *Application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	app.errorResponse(w, r, http.StatusInternalServerError, ErrInternalServer)
}

func (app *Application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, ErrNotFound)
}

func (app *Application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusMethodNotAllowed, ErrMethodNotAllowed)
}

func (app *Application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (app *Application) conflictResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusConflict, err.Error())
}

func (app *Application) unauthorizedAccessResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusUnauthorized, ErrUnauthorized)
}

func (app *Application) uploadTooLargeResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusRequestEntityTooLarge, ErrUploadTooLarge)
}

func (app *Application) failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.ValidationErrorResponse{
		Message:          ErrFailedValidation,
		RequestId:        middleware.GetReqID(r.Context()),
		Timestamp:        time.Now(),
		ValidationErrors: make([]api.ValidationError, 0, len(validationErrors)),
	}

	for _, fe := range validationErrors {
		resp.ValidationErrors = append(resp.ValidationErrors, api.ValidationError{
			Field: fe.Field(),
			Issue: appvalidator.ValidationMessage(fe),
		})
	}

	err = app.writeJSON(w, http.StatusUnprocessableEntity, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// paramErrorResponse handles path and query parameters that could not be bound.
func (app *Application) paramErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var formatErr *api.InvalidParamFormatError
	if errors.As(err, &formatErr) {
		app.badRequestResponse(w, r, fmt.Errorf("invalid value for parameter %s", formatErr.ParamName))
		return
	}

	app.badRequestResponse(w, r, err)
}

// catalogErrorResponse maps catalog failures to responses. Every error kind gets its own
// status so clients never need to parse messages.
func (app *Application) catalogErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logger := app.contextGetLogger(r)

	switch {
	case errors.Is(err, domain.ErrMovieNotFound):
		app.errorResponse(w, r, http.StatusNotFound, ErrMovieNotFound)
	case errors.Is(err, domain.ErrFileNotFound):
		logger.Warn("poster file not found", "error", err)
		app.errorResponse(w, r, http.StatusNotFound, ErrFileNotFound)
	case errors.Is(err, domain.ErrFileMissing):
		app.badRequestResponse(w, r, domain.ErrFileMissing)
	case errors.Is(err, domain.ErrInvalidFileName):
		app.badRequestResponse(w, r, errors.New(ErrInvalidFileName))
	case errors.Is(err, domain.ErrInvalidSortField):
		app.badRequestResponse(w, r, errors.New(ErrInvalidSortField))
	case errors.Is(err, domain.ErrInvalidPagination):
		app.errorResponse(w, r, http.StatusUnprocessableEntity, ErrInvalidPagination)
	case errors.Is(err, domain.ErrFileAlreadyExists):
		logger.Warn("poster name already taken", "error", err)
		app.conflictResponse(w, r, domain.ErrFileAlreadyExists)
	case errors.Is(err, domain.ErrFileWriteConflict):
		logger.Warn("concurrent poster write", "error", err)
		app.conflictResponse(w, r, errors.New(ErrFileWriteConflict))
	default:
		app.serverErrorResponse(w, r, err)
	}
}
