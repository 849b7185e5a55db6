package repository

import (
	"context"
	"errors"
	"time"

	"movie-catalog/internal/apperror"
	"movie-catalog/internal/database"
	"movie-catalog/internal/metrics"
	"movie-catalog/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MovieRepository interface {
	FindAll(ctx context.Context, filter MovieFilter) ([]models.Movie, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Movie, error)
	Create(ctx context.Context, input *models.MovieInput) (*models.Movie, error)
	// Update applies input to the locked row and returns the movie after the
	// change together with its scalar fields as they were before it.
	Update(ctx context.Context, id uuid.UUID, input *models.MovieInput) (updated *models.Movie, previous *models.Movie, err error)
	// Delete removes the movie and its association rows, returning the movie
	// as it was just before removal.
	Delete(ctx context.Context, id uuid.UUID) (*models.Movie, error)
}

type movieRepository struct {
	db      *database.Database
	genres  GenreRepository
	metrics *metrics.Recorder
	timeout time.Duration
}

// NewMovieRepository builds the repository around the shared pool. recorder
// may be nil.
func NewMovieRepository(db *database.Database, genres GenreRepository, recorder *metrics.Recorder) MovieRepository {
	return &movieRepository{
		db:      db,
		genres:  genres,
		metrics: recorder,
		timeout: db.GetQueryTimeout(),
	}
}

func (r *movieRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

func preloadGenres(db *gorm.DB) *gorm.DB {
	return db.Preload("Genres", func(db *gorm.DB) *gorm.DB {
		return db.Order("genre.name ASC")
	})
}

func (r *movieRepository) FindAll(ctx context.Context, filter MovieFilter) (movies []models.Movie, err error) {
	defer func(started time.Time) { r.metrics.Observe("find_all", started, err) }(time.Now())

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err = r.db.WithContext(ctx).
		Model(&models.Movie{}).
		Scopes(filter.Scope, preloadGenres).
		Order("movie.title ASC").
		Order("movie.id ASC").
		Find(&movies).Error
	if err != nil {
		return nil, apperror.StorageUnavailable("list movies", err)
	}
	return movies, nil
}

func (r *movieRepository) FindByID(ctx context.Context, id uuid.UUID) (movie *models.Movie, err error) {
	defer func(started time.Time) { r.metrics.Observe("find_by_id", started, err) }(time.Now())

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	movie, err = findMovie(r.db.WithContext(ctx), id)
	if err != nil && !apperror.IsNotFound(err) {
		return nil, apperror.StorageUnavailable("get movie", err)
	}
	return movie, err
}

func (r *movieRepository) Create(ctx context.Context, input *models.MovieInput) (created *models.Movie, err error) {
	defer func(started time.Time) { r.metrics.Observe("create", started, err) }(time.Now())

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		movie := models.Movie{}
		input.Apply(&movie)

		if err := tx.Omit(clause.Associations).Create(&movie).Error; err != nil {
			return err
		}

		if err := r.linkGenres(ctx, tx, movie.ID, input.Genres); err != nil {
			return err
		}

		loaded, err := findMovie(tx, movie.ID)
		if err != nil {
			return err
		}
		created = loaded
		return nil
	})
	if err != nil {
		return nil, apperror.CreateFailed(err)
	}
	return created, nil
}

func (r *movieRepository) Update(ctx context.Context, id uuid.UUID, input *models.MovieInput) (updated, previous *models.Movie, err error) {
	defer func(started time.Time) { r.metrics.Observe("update", started, err) }(time.Now())

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := lockMovie(tx, id)
		if err != nil {
			return err
		}
		before := *current

		input.Apply(current)
		err = tx.Model(&models.Movie{}).Where("id = ?", id).Updates(map[string]any{
			"title":    current.Title,
			"year":     current.Year,
			"director": current.Director,
			"duration": current.Duration,
			"poster":   current.Poster,
			"rate":     current.Rate,
		}).Error
		if err != nil {
			return err
		}

		if input.HasGenres() {
			if err := tx.Where("movie_id = ?", id).Delete(&models.MovieGenre{}).Error; err != nil {
				return err
			}
			if err := r.linkGenres(ctx, tx, id, input.Genres); err != nil {
				return err
			}
		}

		loaded, err := findMovie(tx, id)
		if err != nil {
			return err
		}
		updated, previous = loaded, &before
		return nil
	})
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, nil, err
		}
		return nil, nil, apperror.UpdateFailed(err)
	}
	return updated, previous, nil
}

func (r *movieRepository) Delete(ctx context.Context, id uuid.UUID) (deleted *models.Movie, err error) {
	defer func(started time.Time) { r.metrics.Observe("delete", started, err) }(time.Now())

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockMovie(tx, id); err != nil {
			return err
		}

		movie, err := findMovie(tx, id)
		if err != nil {
			return err
		}

		// Association rows go first; nothing relies on ON DELETE CASCADE.
		if err := tx.Where("movie_id = ?", id).Delete(&models.MovieGenre{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.Movie{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperror.NotFound(id.String())
		}

		deleted = movie
		return nil
	})
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.DeleteFailed(err)
	}
	return deleted, nil
}

func (r *movieRepository) linkGenres(ctx context.Context, tx *gorm.DB, movieID uuid.UUID, names []string) error {
	genreIDs, err := r.genres.Resolve(ctx, tx, names)
	if err != nil {
		return err
	}
	if len(genreIDs) == 0 {
		return nil
	}

	links := make([]models.MovieGenre, 0, len(genreIDs))
	for _, genreID := range genreIDs {
		links = append(links, models.MovieGenre{MovieID: movieID, GenreID: genreID})
	}
	return tx.Create(&links).Error
}

// lockMovie reads the scalar row under SELECT ... FOR UPDATE so concurrent
// writers to the same movie are serialized until the transaction ends.
func lockMovie(tx *gorm.DB, id uuid.UUID) (*models.Movie, error) {
	var movie models.Movie
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).Take(&movie).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(id.String())
		}
		return nil, err
	}
	return &movie, nil
}

func findMovie(db *gorm.DB, id uuid.UUID) (*models.Movie, error) {
	var movie models.Movie
	err := db.Scopes(preloadGenres).Where("movie.id = ?", id).Take(&movie).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(id.String())
		}
		return nil, err
	}
	return &movie, nil
}
