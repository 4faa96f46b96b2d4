package app

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/metinatakli/movie-catalog/api"
	"github.com/metinatakli/movie-catalog/internal/domain"
)

const (
	movieDtoPart = "movieDto"
	filePart     = "file"

	// parts beyond this size are spooled to temporary files by the multipart reader
	multipartMemory = 1 << 20
)

var (
	errUploadTooLarge   = errors.New("upload too large")
	errMissingMovieDto  = errors.New(ErrMissingMovieDto)
	errMalformedRequest = errors.New(ErrMalformedMultipart)
)

func (app *Application) writeJSON(w http.ResponseWriter, status int, data any, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}

	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)

	return nil
}

// decodeJSON decodes a single JSON value from src into dst and turns decoder errors into
// messages that can be returned to the client.
func decodeJSON(src io.Reader, dst any) error {
	dec := json.NewDecoder(src)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

// movieForm is a parsed multipart movie request. Close must be called once the poster
// has been consumed.
type movieForm struct {
	dto    api.MovieRequest
	poster *domain.Upload
	file   multipart.File
}

func (f *movieForm) Close() {
	if f.file != nil {
		f.file.Close()
	}
}

// readMovieForm parses a multipart body holding a movieDto JSON part and an optional
// file part. The movieDto part may be sent as a plain form value or as a file part.
func (app *Application) readMovieForm(w http.ResponseWriter, r *http.Request) (*movieForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, app.config.Storage.MaxUploadBytes)

	err := r.ParseMultipartForm(multipartMemory)
	if err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			return nil, errUploadTooLarge
		}

		return nil, errMalformedRequest
	}

	raw, err := movieDtoReader(r.MultipartForm)
	if err != nil {
		return nil, err
	}

	form := &movieForm{}

	err = decodeJSON(raw, &form.dto)
	if err != nil {
		return nil, fmt.Errorf("movieDto: %w", err)
	}

	file, header, err := r.FormFile(filePart)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return form, nil
		}

		return nil, err
	}

	form.file = file
	form.poster = &domain.Upload{
		Name:    header.Filename,
		Size:    header.Size,
		Content: file,
	}

	return form, nil
}

func movieDtoReader(form *multipart.Form) (io.Reader, error) {
	if values := form.Value[movieDtoPart]; len(values) > 0 {
		return strings.NewReader(values[0]), nil
	}

	headers := form.File[movieDtoPart]
	if len(headers) == 0 {
		return nil, errMissingMovieDto
	}

	part, err := headers[0].Open()
	if err != nil {
		return nil, err
	}
	defer part.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(part); err != nil {
		return nil, err
	}

	return &buf, nil
}
