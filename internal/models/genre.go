package models

import "github.com/google/uuid"

// GenreVocabulary is the closed set of genre names seeded into the genre table.
var GenreVocabulary = []string{
	"Drama", "Action", "Crime", "Adventure", "Sci-Fi",
	"Romance", "Animation", "Biography", "Fantasy",
}

type Genre struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null;size:50" json:"name"`
}

func (Genre) TableName() string {
	return "genre"
}

// MovieGenre is one association row; the composite key keeps pairs unique.
type MovieGenre struct {
	MovieID uuid.UUID `gorm:"type:uuid;primaryKey" json:"movie_id"`
	GenreID uint      `gorm:"primaryKey" json:"genre_id"`
}

func (MovieGenre) TableName() string {
	return "movie_genres"
}
