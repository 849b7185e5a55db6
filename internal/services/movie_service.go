package services

import (
	"context"
	"errors"

	"movie-catalog/internal/apperror"
	"movie-catalog/internal/models"
	"movie-catalog/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrPosterStorageDisabled = errors.New("poster storage is not configured")

type MovieService interface {
	GetAllMovies(ctx context.Context, filter repository.MovieFilter) ([]models.Movie, error)
	GetMovieByID(ctx context.Context, id uuid.UUID) (*models.Movie, error)
	CreateMovie(ctx context.Context, payload map[string]any) (*models.Movie, error)
	UpdateMovie(ctx context.Context, id uuid.UUID, payload map[string]any) (*models.Movie, error)
	DeleteMovie(ctx context.Context, id uuid.UUID) (*models.Movie, error)

	GetGenres(ctx context.Context) ([]models.Genre, error)
	PresignPosterUpload(ctx context.Context, filename, contentType string) (*PosterUpload, error)
}

type movieService struct {
	repo      repository.MovieRepository
	genreRepo repository.GenreRepository
	posters   PosterStorage
	logger    *logrus.Logger
}

// NewMovieService wires the repositories together. posters may be nil, in
// which case poster uploads are refused and no poster cleanup happens.
func NewMovieService(repo repository.MovieRepository, genreRepo repository.GenreRepository, posters PosterStorage, logger *logrus.Logger) MovieService {
	return &movieService{
		repo:      repo,
		genreRepo: genreRepo,
		posters:   posters,
		logger:    logger,
	}
}

func (s *movieService) GetAllMovies(ctx context.Context, filter repository.MovieFilter) ([]models.Movie, error) {
	movies, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logFailure(err, logrus.Fields{"genre": filter.Genre, "search": filter.Search}, "Failed to list movies")
		return nil, err
	}
	return movies, nil
}

func (s *movieService) GetMovieByID(ctx context.Context, id uuid.UUID) (*models.Movie, error) {
	movie, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logFailure(err, logrus.Fields{"id": id}, "Failed to get movie")
		return nil, err
	}
	return movie, nil
}

func (s *movieService) CreateMovie(ctx context.Context, payload map[string]any) (*models.Movie, error) {
	input, err := models.ValidateMovie(payload)
	if err != nil {
		s.logger.WithError(err).Debug("Rejected movie payload")
		return nil, err
	}

	movie, err := s.repo.Create(ctx, input)
	if err != nil {
		s.logFailure(err, logrus.Fields{"title": *input.Title}, "Failed to create movie")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"id": movie.ID, "title": movie.Title}).Info("Movie created")
	return movie, nil
}

func (s *movieService) UpdateMovie(ctx context.Context, id uuid.UUID, payload map[string]any) (*models.Movie, error) {
	input, err := models.ValidatePartialMovie(payload)
	if err != nil {
		s.logger.WithError(err).WithField("id", id).Debug("Rejected partial movie payload")
		return nil, err
	}

	movie, previous, err := s.repo.Update(ctx, id, input)
	if err != nil {
		s.logFailure(err, logrus.Fields{"id": id}, "Failed to update movie")
		return nil, err
	}

	if previous.Poster != "" && previous.Poster != movie.Poster {
		s.removePoster(ctx, previous.Poster)
	}

	s.logger.WithField("id", id).Info("Movie updated")
	return movie, nil
}

func (s *movieService) DeleteMovie(ctx context.Context, id uuid.UUID) (*models.Movie, error) {
	movie, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logFailure(err, logrus.Fields{"id": id}, "Failed to delete movie")
		return nil, err
	}

	s.removePoster(ctx, movie.Poster)

	s.logger.WithField("id", id).Info("Movie deleted")
	return movie, nil
}

func (s *movieService) GetGenres(ctx context.Context) ([]models.Genre, error) {
	genres, err := s.genreRepo.FindAll(ctx)
	if err != nil {
		s.logFailure(err, nil, "Failed to list genres")
		return nil, err
	}
	return genres, nil
}

func (s *movieService) PresignPosterUpload(ctx context.Context, filename, contentType string) (*PosterUpload, error) {
	if s.posters == nil {
		return nil, ErrPosterStorageDisabled
	}
	return s.posters.PresignUpload(ctx, filename, contentType)
}

// removePoster deletes a poster object after its movie stopped referencing
// it. The database write is already committed, so failures are only logged.
func (s *movieService) removePoster(ctx context.Context, posterURL string) {
	if s.posters == nil {
		return
	}
	key, ok := s.posters.ObjectKey(posterURL)
	if !ok {
		return
	}
	if err := s.posters.Delete(ctx, key); err != nil {
		s.logger.WithError(err).WithField("poster", posterURL).Warn("Failed to delete old poster from storage")
	}
}

// logFailure logs err with its kind and any storage diagnostics. Absent
// movies and rejected input are expected outcomes and stay below warning level.
func (s *movieService) logFailure(err error, fields logrus.Fields, msg string) {
	entry := s.logger.WithError(err).WithField("kind", apperror.KindOf(err).String())
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	if diag := repository.ErrorFields(err); diag != nil {
		entry = entry.WithFields(diag)
	}

	switch apperror.KindOf(err) {
	case apperror.KindNotFound, apperror.KindValidation, apperror.KindGenreNotFound:
		entry.Info(msg)
	default:
		entry.Error(msg)
	}
}
