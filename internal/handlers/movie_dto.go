package handlers

import (
	"movie-catalog/internal/models"

	"github.com/google/uuid"
)

// MovieRequest documents the movie body. Handlers decode the raw JSON object
// instead so that absent and invalid fields can be told apart.
type MovieRequest struct {
	Title    string   `json:"title" example:"Inception"`
	Year     int      `json:"year" example:"2010"`
	Director string   `json:"director" example:"Christopher Nolan"`
	Duration int      `json:"duration" example:"148"`
	Poster   string   `json:"poster" example:"https://image.example.com/inception.jpg"`
	Genre    []string `json:"genre" example:"Action,Sci-Fi"`
	Rate     int      `json:"rate" example:"9"`
}

type MovieResponse struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Year     int       `json:"year"`
	Director string    `json:"director"`
	Duration int       `json:"duration"`
	Poster   string    `json:"poster"`
	Genres   []string  `json:"genres"`
	Rate     int       `json:"rate"`
}

type GenreResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func toMovieResponse(m *models.Movie) MovieResponse {
	return MovieResponse{
		ID:       m.ID,
		Title:    m.Title,
		Year:     m.Year,
		Director: m.Director,
		Duration: m.Duration,
		Poster:   m.Poster,
		Genres:   m.GenreNames(),
		Rate:     m.Rate,
	}
}

func toMovieResponses(movies []models.Movie) []MovieResponse {
	out := make([]MovieResponse, 0, len(movies))
	for i := range movies {
		out = append(out, toMovieResponse(&movies[i]))
	}
	return out
}
