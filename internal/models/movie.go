package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Movie struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id" example:"3fa85f64-5717-4562-b3fc-2c963f66afa6"`
	Title    string    `gorm:"not null;size:200;index" json:"title" example:"The Dark Knight"`
	Year     int       `gorm:"not null" json:"year" example:"2008"`
	Director string    `gorm:"not null;size:200" json:"director" example:"Christopher Nolan"`
	Duration int       `gorm:"not null" json:"duration" example:"152"`
	Poster   string    `gorm:"not null;type:text" json:"poster" example:"https://i.ibb.co/3s8zK3P/dark-knight.jpg"`
	Rate     int       `gorm:"not null;default:0" json:"rate" example:"9"`
	Genres   []Genre   `gorm:"many2many:movie_genres;" json:"-"`
}

func (Movie) TableName() string {
	return "movie"
}

// BeforeCreate assigns the identifier inside the creating transaction.
func (m *Movie) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// GenreNames returns the names of the hydrated genres in their loaded order.
func (m *Movie) GenreNames() []string {
	names := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		names = append(names, g.Name)
	}
	return names
}
