package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"movie-catalog/internal/database"
	"movie-catalog/internal/database/dbtest"
	"movie-catalog/internal/metrics"
	"movie-catalog/internal/repository"
	"movie-catalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type envelope struct {
	Status  string              `json:"status"`
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Errors  map[string][]string `json:"errors"`
}

func newTestApp(t *testing.T) (*fiber.App, *database.Database) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	db := dbtest.New(t)
	genres := repository.NewGenreRepository(db)
	movies := repository.NewMovieRepository(db, genres, metrics.NewRecorder())
	svc := services.NewMovieService(movies, genres, nil, log)
	h := NewMovieHandler(svc, log)
	upload := NewUploadHandler(svc, log)

	app := fiber.New()
	app.Get("/movies", h.GetAllMovies)
	app.Get("/movies/:id", h.GetMovieByID)
	app.Post("/movies", h.CreateMovie)
	app.Patch("/movies/:id", h.UpdateMovie)
	app.Delete("/movies/:id", h.DeleteMovie)
	app.Get("/genres", h.GetGenres)
	app.Get("/upload/presign", upload.GetPresignedURL)
	return app, db
}

func do(t *testing.T, app *fiber.App, method, target string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			if err != nil {
				t.Fatalf("marshal body: %v", err)
			}
			raw = string(b)
		}
		reader = strings.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	if err := json.NewDecoder(bytes.NewReader(raw)).Decode(&env); err != nil {
		t.Fatalf("decode %s %s response %q: %v", method, target, raw, err)
	}
	return resp.StatusCode, env
}

func moviePayload() map[string]any {
	return map[string]any{
		"title":    "The Dark Knight",
		"year":     2008,
		"director": "Christopher Nolan",
		"duration": 152,
		"poster":   "https://img.example.com/dark-knight.jpg",
		"genre":    []string{"Action", "Crime", "Drama"},
		"rate":     9,
	}
}

func createMovie(t *testing.T, app *fiber.App, body map[string]any) MovieResponse {
	t.Helper()
	status, env := do(t, app, http.MethodPost, "/movies", body)
	if status != fiber.StatusCreated {
		t.Fatalf("create status = %d, body %+v", status, env)
	}
	var movie MovieResponse
	if err := json.Unmarshal(env.Data, &movie); err != nil {
		t.Fatalf("decode movie: %v", err)
	}
	return movie
}

func TestMovieLifecycle(t *testing.T) {
	app, _ := newTestApp(t)

	created := createMovie(t, app, moviePayload())
	if strings.Join(created.Genres, ",") != "Action,Crime,Drama" {
		t.Fatalf("unexpected genres %v", created.Genres)
	}

	status, env := do(t, app, http.MethodGet, "/movies/"+created.ID.String(), nil)
	if status != fiber.StatusOK {
		t.Fatalf("get status = %d", status)
	}

	status, env = do(t, app, http.MethodPatch, "/movies/"+created.ID.String(), map[string]any{"rate": 10, "genre": []string{"Crime"}})
	if status != fiber.StatusOK {
		t.Fatalf("patch status = %d, body %+v", status, env)
	}
	var updated MovieResponse
	if err := json.Unmarshal(env.Data, &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Rate != 10 || updated.Title != "The Dark Knight" || len(updated.Genres) != 1 || updated.Genres[0] != "Crime" {
		t.Fatalf("unexpected update result %+v", updated)
	}

	status, _ = do(t, app, http.MethodDelete, "/movies/"+created.ID.String(), nil)
	if status != fiber.StatusOK {
		t.Fatalf("delete status = %d", status)
	}
	status, env = do(t, app, http.MethodGet, "/movies/"+created.ID.String(), nil)
	if status != fiber.StatusNotFound || env.Message != "Movie not found" {
		t.Fatalf("after delete got %d %q", status, env.Message)
	}
}

func TestCreateMovieValidationErrors(t *testing.T) {
	app, _ := newTestApp(t)

	body := moviePayload()
	body["year"] = "2008"
	body["rate"] = 42
	delete(body, "director")

	status, env := do(t, app, http.MethodPost, "/movies", body)
	if status != fiber.StatusBadRequest {
		t.Fatalf("status = %d", status)
	}
	for _, field := range []string{"year", "rate", "director"} {
		if len(env.Errors[field]) == 0 {
			t.Fatalf("expected error for %s, got %v", field, env.Errors)
		}
	}
}

func TestCreateMovieRejectsMalformedBody(t *testing.T) {
	app, _ := newTestApp(t)

	status, env := do(t, app, http.MethodPost, "/movies", `{"title": `)
	if status != fiber.StatusBadRequest || env.Message != "Invalid request body" {
		t.Fatalf("got %d %q", status, env.Message)
	}
}

func TestCreateMovieUnknownGenreIsBadRequest(t *testing.T) {
	app, db := newTestApp(t)

	if err := db.Exec("DELETE FROM genre WHERE name = ?", "Romance").Error; err != nil {
		t.Fatalf("remove genre: %v", err)
	}
	body := moviePayload()
	body["genre"] = []string{"Drama", "Romance"}

	status, env := do(t, app, http.MethodPost, "/movies", body)
	if status != fiber.StatusBadRequest {
		t.Fatalf("status = %d, body %+v", status, env)
	}
	if len(env.Errors["genre"]) != 1 || !strings.Contains(env.Errors["genre"][0], "Romance") {
		t.Fatalf("expected genre error naming Romance, got %v", env.Errors)
	}
}

func TestMalformedIDIsBadRequest(t *testing.T) {
	app, _ := newTestApp(t)

	for _, method := range []string{http.MethodGet, http.MethodPatch, http.MethodDelete} {
		var body any
		if method == http.MethodPatch {
			body = map[string]any{"rate": 1}
		}
		status, env := do(t, app, method, "/movies/42", body)
		if status != fiber.StatusBadRequest || env.Message != "Invalid movie ID" {
			t.Fatalf("%s: got %d %q", method, status, env.Message)
		}
	}
}

func TestUnknownIDIsNotFound(t *testing.T) {
	app, _ := newTestApp(t)
	const id = "7b0c2a52-8f5e-4a1e-9b3d-2f0e6c1d9a11"

	status, _ := do(t, app, http.MethodPatch, "/movies/"+id, map[string]any{"rate": 1})
	if status != fiber.StatusNotFound {
		t.Fatalf("patch status = %d", status)
	}
	status, _ = do(t, app, http.MethodDelete, "/movies/"+id, nil)
	if status != fiber.StatusNotFound {
		t.Fatalf("delete status = %d", status)
	}
}

func TestListMoviesFilters(t *testing.T) {
	app, _ := newTestApp(t)

	createMovie(t, app, moviePayload())
	other := moviePayload()
	other["title"] = "Pride and Prejudice"
	other["director"] = "Joe Wright"
	other["genre"] = []string{"Romance", "Drama"}
	createMovie(t, app, other)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"Pride and Prejudice", "The Dark Knight"}},
		{"?genre=romance", []string{"Pride and Prejudice"}},
		{"?search=NOLAN", []string{"The Dark Knight"}},
		{"?genre=drama&search=wright", []string{"Pride and Prejudice"}},
		{"?genre=Western", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			status, env := do(t, app, http.MethodGet, "/movies"+tt.query, nil)
			if status != fiber.StatusOK {
				t.Fatalf("status = %d", status)
			}
			var movies []MovieResponse
			if err := json.Unmarshal(env.Data, &movies); err != nil {
				t.Fatalf("decode: %v", err)
			}
			var titles []string
			for _, m := range movies {
				titles = append(titles, m.Title)
			}
			if strings.Join(titles, "|") != strings.Join(tt.want, "|") {
				t.Fatalf("titles = %v, want %v", titles, tt.want)
			}
		})
	}
}

func TestGetGenres(t *testing.T) {
	app, _ := newTestApp(t)

	status, env := do(t, app, http.MethodGet, "/genres", nil)
	if status != fiber.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var genres []GenreResponse
	if err := json.Unmarshal(env.Data, &genres); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(genres) != 9 || genres[0].Name != "Action" {
		t.Fatalf("unexpected genres %+v", genres)
	}
}

func TestStorageFailureIsInternalError(t *testing.T) {
	app, db := newTestApp(t)
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	status, env := do(t, app, http.MethodGet, "/movies", nil)
	if status != fiber.StatusInternalServerError || env.Status != "fail" {
		t.Fatalf("got %d %q", status, env.Status)
	}
}

func TestPresignWithoutStorage(t *testing.T) {
	app, _ := newTestApp(t)

	status, _ := do(t, app, http.MethodGet, "/upload/presign", nil)
	if status != fiber.StatusBadRequest {
		t.Fatalf("missing filename status = %d", status)
	}
	status, _ = do(t, app, http.MethodGet, "/upload/presign?filename=a.jpg", nil)
	if status != fiber.StatusServiceUnavailable {
		t.Fatalf("disabled storage status = %d", status)
	}
}
