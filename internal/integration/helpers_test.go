package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

var keysToIgnore = map[string]struct{}{
	"timestamp": {},
	"requestId": {},
}

func prepareRequest(method, path string, body io.Reader, headers map[string]string, cookies []http.Cookie) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	for i := range cookies {
		req.AddCookie(&cookies[i])
	}

	return req, nil
}

func compareResponse(t *testing.T, body io.Reader, expectedResponse string) {
	var actual any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	clean(actual)

	var expected any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// ignore indetermistic fields while comparing
	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		_, ignored := keysToIgnore[k]
		return ignored
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func clean(v any) {
	switch v := v.(type) {
	case map[string]any:
		for k := range v {
			if _, ok := keysToIgnore[k]; ok {
				delete(v, k)
				continue
			}
			clean(v[k])
		}
	case []any:
		for _, item := range v {
			clean(item)
		}
	}
}

// multipartBody encodes a movie upload. A nil poster leaves out the file part.
func multipartBody(t testing.TB, movieDto string, posterName string, poster []byte) (io.Reader, map[string]string) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	require.NoError(t, mw.WriteField("movieDto", movieDto))

	if poster != nil {
		part, err := mw.CreateFormFile("file", posterName)
		require.NoError(t, err)

		_, err = part.Write(poster)
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())

	return &body, map[string]string{"Content-Type": mw.FormDataContentType()}
}

func truncateMovies(t testing.TB, db *pgxpool.Pool) {
	_, err := db.Exec(context.Background(), "TRUNCATE movies RESTART IDENTITY")
	require.NoError(t, err)
}

// insertTestMovie stores a record and writes its poster into dir.
func insertTestMovie(t testing.TB, db *pgxpool.Pool, dir, title string, releaseYear int, poster string) int {
	var id int

	err := db.QueryRow(context.Background(),
		`INSERT INTO movies (title, director, studio, movie_cast, release_year, poster)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		title, TestMovieDirector, TestMovieStudio, TestMovieCast, releaseYear, poster).Scan(&id)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, poster), TestPosterContent, 0o644))

	return id
}

func clearPosters(t testing.TB, dir string) {
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	for _, entry := range entries {
		require.NoError(t, os.Remove(filepath.Join(dir, entry.Name())))
	}
}

func posterExists(t testing.TB, dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	if os.IsNotExist(err) {
		return false
	}
	require.NoError(t, err)

	return true
}
