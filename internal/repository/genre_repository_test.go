package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"movie-catalog/internal/apperror"
	"movie-catalog/internal/database/dbtest"
	"movie-catalog/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestResolveKeepsInputOrder(t *testing.T) {
	db := dbtest.New(t)
	genres := NewGenreRepository(db)
	ctx := context.Background()

	all, err := genres.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	byName := map[string]uint{}
	for _, g := range all {
		byName[g.Name] = g.ID
	}

	ids, err := genres.Resolve(ctx, db.DB, []string{"Sci-Fi", "Action", "Drama"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []uint{byName["Sci-Fi"], byName["Action"], byName["Drama"]}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
	}
}

func TestResolveFailsOnFirstUnknownName(t *testing.T) {
	db := dbtest.New(t)
	genres := NewGenreRepository(db)

	_, err := genres.Resolve(context.Background(), nil, []string{"Action", "Western", "Horror"})
	var genreErr *apperror.GenreNotFoundError
	if !errors.As(err, &genreErr) {
		t.Fatalf("expected GenreNotFoundError, got %v", err)
	}
	if genreErr.Name != "Western" {
		t.Fatalf("expected first unknown genre, got %q", genreErr.Name)
	}
}

func TestResolveWithoutTransactionAppliesQueryTimeout(t *testing.T) {
	db := dbtest.New(t)
	genres := &genreRepository{db: db, timeout: time.Nanosecond}

	_, err := genres.Resolve(context.Background(), nil, []string{"Drama"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected query timeout, got %v", err)
	}
}

func TestResolveIsCaseSensitive(t *testing.T) {
	db := dbtest.New(t)

	_, err := NewGenreRepository(db).Resolve(context.Background(), nil, []string{"drama"})
	if apperror.KindOf(err) != apperror.KindGenreNotFound {
		t.Fatalf("expected exact-name resolution, got %v", err)
	}
}

func TestFindAllGenresOrderedByName(t *testing.T) {
	db := dbtest.New(t)

	all, err := NewGenreRepository(db).FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(all) != len(models.GenreVocabulary) {
		t.Fatalf("expected %d genres, got %d", len(models.GenreVocabulary), len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Name > all[i].Name {
			t.Fatalf("genres not ordered: %q before %q", all[i-1].Name, all[i].Name)
		}
	}
}

func TestErrorFields(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23503", Severity: "ERROR", ConstraintName: "fk_movie_genres_genre", TableName: "movie_genres"}
	fields := ErrorFields(apperror.CreateFailed(pgErr))
	if fields["pg_code"] != "23503" || fields["pg_constraint"] != "fk_movie_genres_genre" || fields["pg_table"] != "movie_genres" {
		t.Fatalf("unexpected fields %v", fields)
	}
	if _, ok := fields["storage_unavailable"]; ok {
		t.Fatalf("foreign key violation is not a connectivity failure")
	}

	if fields := ErrorFields(errors.New("plain")); fields != nil {
		t.Fatalf("expected nil fields, got %v", fields)
	}
}

func TestIsConnectivityError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadline", context.DeadlineExceeded, true},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, true},
		{"connection failure", &pgconn.PgError{Code: "08006"}, true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"wrapped deadline", apperror.UpdateFailed(context.DeadlineExceeded), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConnectivityError(tt.err); got != tt.want {
				t.Fatalf("IsConnectivityError() = %v, want %v", got, tt.want)
			}
		})
	}
}
