package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/metinatakli/movie-catalog/api"
	"github.com/metinatakli/movie-catalog/internal/mocks"
	"github.com/metinatakli/movie-catalog/internal/reconcile"
	"github.com/metinatakli/movie-catalog/internal/validator"
)

const (
	testPosterDir = "/posters"
	testBaseUrl   = "http://localhost:3000"
)

func newTestApplication(repo *mocks.MockMovieRepo, files *mocks.MockFileStore, opts ...func(*Config)) *Application {
	cfg := Config{
		Env: "test",
		Storage: StorageConfig{
			PosterDir:      testPosterDir,
			BaseURL:        testBaseUrl,
			MaxUploadBytes: 1 << 20,
		},
		Sweep: SweepConfig{GracePeriod: time.Hour},
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return NewApp(
		cfg,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		validator.NewValidator(),
		NewSessionManager(nil),
		repo,
		files,
		&reconcile.LocalLocker{},
	)
}

// authenticate commits a session holding userId and attaches its cookie to r.
func authenticate(t *testing.T, app *Application, r *http.Request, userId int) {
	t.Helper()

	ctx, err := app.sessionManager.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("Failed to load session: %v", err)
	}

	app.sessionManager.Put(ctx, SessionKeyUserId.String(), userId)

	token, _, err := app.sessionManager.Commit(ctx)
	if err != nil {
		t.Fatalf("Failed to commit session: %v", err)
	}

	r.AddCookie(&http.Cookie{Name: app.sessionManager.Cookie.Name, Value: token})
}

type multipartFile struct {
	name    string
	content []byte
}

// newMultipartRequest builds a movie upload. An empty movieDto omits the part, a nil
// file omits the poster.
func newMultipartRequest(t *testing.T, method, url, movieDto string, file *multipartFile) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if movieDto != "" {
		if err := mw.WriteField(movieDtoPart, movieDto); err != nil {
			t.Fatal(err)
		}
	}

	if file != nil {
		part, err := mw.CreateFormFile(filePart, file.name)
		if err != nil {
			t.Fatal(err)
		}

		if _, err := part.Write(file.content); err != nil {
			t.Fatal(err)
		}
	}

	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	r := httptest.NewRequest(method, url, &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())

	return r
}

func movieDtoJSON(t *testing.T, dto api.MovieRequest) string {
	t.Helper()

	js, err := json.Marshal(dto)
	if err != nil {
		t.Fatal(err)
	}

	return string(js)
}

func serve(app *Application, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	app.Routes().ServeHTTP(w, r)

	return w
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, tt struct {
	wantStatus     int
	wantErrMessage string
}) {
	if tt.wantStatus >= 200 && tt.wantStatus < 300 {
		return
	}

	switch {
	case tt.wantStatus == http.StatusUnprocessableEntity && tt.wantErrMessage != ErrInvalidPagination:
		var validationResp api.ValidationErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&validationResp); err != nil {
			t.Fatalf("Failed to decode validation error response: %v", err)
		}

		errorSet := make(map[string]bool)
		for _, vErr := range validationResp.ValidationErrors {
			errorSet[vErr.Issue] = true
		}

		if !errorSet[tt.wantErrMessage] {
			t.Errorf("Expected validation error message '%s' not found in response", tt.wantErrMessage)
		}

	default:
		var errorResp api.ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&errorResp); err != nil {
			t.Fatalf("Failed to decode error response: %v", err)
		}

		if tt.wantErrMessage != "" && errorResp.Message != tt.wantErrMessage {
			t.Errorf("Error message = %v, want %v", errorResp.Message, tt.wantErrMessage)
		}
	}
}

func ptr[T any](v T) *T {
	return &v
}
