package repository

import (
	"context"
	"time"

	"movie-catalog/internal/apperror"
	"movie-catalog/internal/database"
	"movie-catalog/internal/models"

	"gorm.io/gorm"
)

// GenreRepository reads the canonical genre table. It never writes to it.
type GenreRepository interface {
	// Resolve maps names to genre ids in input order, failing with
	// GenreNotFoundError on the first name without a row. Pass the write
	// transaction so a failure rolls it back.
	Resolve(ctx context.Context, tx *gorm.DB, names []string) ([]uint, error)
	FindAll(ctx context.Context) ([]models.Genre, error)
}

type genreRepository struct {
	db      *database.Database
	timeout time.Duration
}

func NewGenreRepository(db *database.Database) GenreRepository {
	return &genreRepository{
		db:      db,
		timeout: db.GetQueryTimeout(),
	}
}

func (r *genreRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *genreRepository) Resolve(ctx context.Context, tx *gorm.DB, names []string) ([]uint, error) {
	if len(names) == 0 {
		return nil, nil
	}
	if tx == nil {
		var cancel context.CancelFunc
		ctx, cancel = r.withTimeout(ctx)
		defer cancel()
		tx = r.db.DB
	}

	var genres []models.Genre
	if err := tx.WithContext(ctx).Where("name IN ?", names).Find(&genres).Error; err != nil {
		return nil, err
	}

	byName := make(map[string]uint, len(genres))
	for _, g := range genres {
		byName[g.Name] = g.ID
	}

	ids := make([]uint, 0, len(names))
	for _, name := range names {
		id, ok := byName[name]
		if !ok {
			return nil, apperror.GenreNotFound(name)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *genreRepository) FindAll(ctx context.Context) ([]models.Genre, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var genres []models.Genre
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&genres).Error; err != nil {
		return nil, apperror.StorageUnavailable("list genres", err)
	}
	return genres, nil
}
