package repository

import (
	"strings"

	"movie-catalog/internal/models"

	"gorm.io/gorm"
)

// MovieFilter narrows a movie listing. Empty fields impose no condition;
// when both are set the conditions are ANDed.
type MovieFilter struct {
	// Genre matches a genre name exactly, ignoring case.
	Genre string
	// Search is a case-insensitive substring of title, director or any genre name.
	Search string
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

// Scope applies the filter to a query over the movie table.
func (f MovieFilter) Scope(db *gorm.DB) *gorm.DB {
	if genre := strings.TrimSpace(f.Genre); genre != "" {
		db = db.Where("movie.id IN (?)",
			genreMovieIDs(db).Where("LOWER(genre.name) = ?", strings.ToLower(genre)))
	}

	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := containsPattern(search)
		db = db.Where(
			`(LOWER(movie.title) LIKE ? ESCAPE '\' OR LOWER(movie.director) LIKE ? ESCAPE '\' OR movie.id IN (?))`,
			pattern, pattern,
			genreMovieIDs(db).Where(`LOWER(genre.name) LIKE ? ESCAPE '\'`, pattern),
		)
	}

	return db
}

// genreMovieIDs starts a subquery selecting movie ids joined to their genres.
func genreMovieIDs(db *gorm.DB) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).
		Model(&models.MovieGenre{}).
		Select("movie_genres.movie_id").
		Joins("JOIN genre ON genre.id = movie_genres.genre_id")
}
