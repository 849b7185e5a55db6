package handlers

import (
	"errors"
	"strings"

	"movie-catalog/internal/apperror"
	"movie-catalog/internal/repository"
	"movie-catalog/internal/services"
	"movie-catalog/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type MovieHandler struct {
	service services.MovieService
	logger  *logrus.Logger
}

func NewMovieHandler(service services.MovieService, logger *logrus.Logger) *MovieHandler {
	return &MovieHandler{
		service: service,
		logger:  logger,
	}
}

// GetAllMovies godoc
// @Summary Get all movies
// @Description List movies, optionally filtered by genre (exact, case-insensitive) and a search term matched against title, director and genre
// @Tags movies
// @Accept json
// @Produce json
// @Param genre query string false "Genre name"
// @Param search query string false "Search by title, director or genre"
// @Success 200 {object} utils.StandardResponse{data=[]MovieResponse} "List of movies"
// @Failure 500 {object} utils.StandardResponse "Internal server error"
// @Router /movies [get]
func (h *MovieHandler) GetAllMovies(c *fiber.Ctx) error {
	ctx := c.Context()

	filter := repository.MovieFilter{
		Genre:  strings.TrimSpace(c.Query("genre")),
		Search: strings.TrimSpace(c.Query("search")),
	}

	movies, err := h.service.GetAllMovies(ctx, filter)
	if err != nil {
		return h.errorResponse(c, err, "Failed to retrieve movies")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Movies retrieved successfully", toMovieResponses(movies))
}

// GetMovieByID godoc
// @Summary Get movie by ID
// @Description Get a single movie with its genres
// @Tags movies
// @Accept json
// @Produce json
// @Param id path string true "Movie ID (UUID)"
// @Success 200 {object} utils.StandardResponse{data=MovieResponse} "Movie details"
// @Failure 400 {object} utils.StandardResponse "Invalid movie ID"
// @Failure 404 {object} utils.StandardResponse "Movie not found"
// @Router /movies/{id} [get]
func (h *MovieHandler) GetMovieByID(c *fiber.Ctx) error {
	ctx := c.Context()

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid movie ID")
	}

	movie, err := h.service.GetMovieByID(ctx, id)
	if err != nil {
		return h.errorResponse(c, err, "Failed to retrieve movie")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Movie retrieved successfully", toMovieResponse(movie))
}

// CreateMovie godoc
// @Summary Create a new movie
// @Description Create a movie and associate it with existing genres
// @Tags movies
// @Accept json
// @Produce json
// @Param movie body MovieRequest true "Movie request object"
// @Success 201 {object} utils.StandardResponse{data=MovieResponse} "Movie created successfully"
// @Failure 400 {object} utils.StandardResponse "Validation failed or unknown genre"
// @Failure 500 {object} utils.StandardResponse "Internal server error"
// @Router /movies [post]
func (h *MovieHandler) CreateMovie(c *fiber.Ctx) error {
	ctx := c.Context()

	var payload map[string]any
	if err := c.BodyParser(&payload); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	movie, err := h.service.CreateMovie(ctx, payload)
	if err != nil {
		return h.errorResponse(c, err, "Failed to create movie")
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, "Movie created successfully", toMovieResponse(movie))
}

// UpdateMovie godoc
// @Summary Update a movie
// @Description Partially update a movie. Absent fields keep their value; a genre list replaces the current one
// @Tags movies
// @Accept json
// @Produce json
// @Param id path string true "Movie ID (UUID)"
// @Param movie body MovieRequest true "Fields to change"
// @Success 200 {object} utils.StandardResponse{data=MovieResponse} "Movie updated successfully"
// @Failure 400 {object} utils.StandardResponse "Invalid request"
// @Failure 404 {object} utils.StandardResponse "Movie not found"
// @Failure 500 {object} utils.StandardResponse "Internal server error"
// @Router /movies/{id} [patch]
// @Router /movies/{id} [put]
func (h *MovieHandler) UpdateMovie(c *fiber.Ctx) error {
	ctx := c.Context()

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid movie ID")
	}

	var payload map[string]any
	if err := c.BodyParser(&payload); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	movie, err := h.service.UpdateMovie(ctx, id, payload)
	if err != nil {
		return h.errorResponse(c, err, "Failed to update movie")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Movie updated successfully", toMovieResponse(movie))
}

// DeleteMovie godoc
// @Summary Delete a movie
// @Description Delete a movie and its genre associations
// @Tags movies
// @Accept json
// @Produce json
// @Param id path string true "Movie ID (UUID)"
// @Success 200 {object} utils.StandardResponse{data=MovieResponse} "Movie deleted successfully"
// @Failure 400 {object} utils.StandardResponse "Invalid movie ID"
// @Failure 404 {object} utils.StandardResponse "Movie not found"
// @Failure 500 {object} utils.StandardResponse "Internal server error"
// @Router /movies/{id} [delete]
func (h *MovieHandler) DeleteMovie(c *fiber.Ctx) error {
	ctx := c.Context()

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid movie ID")
	}

	movie, err := h.service.DeleteMovie(ctx, id)
	if err != nil {
		return h.errorResponse(c, err, "Failed to delete movie")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Movie deleted successfully", toMovieResponse(movie))
}

// GetGenres godoc
// @Summary List genres
// @Description List the genre vocabulary movies can be tagged with
// @Tags genres
// @Produce json
// @Success 200 {object} utils.StandardResponse{data=[]GenreResponse} "List of genres"
// @Failure 500 {object} utils.StandardResponse "Internal server error"
// @Router /genres [get]
func (h *MovieHandler) GetGenres(c *fiber.Ctx) error {
	genres, err := h.service.GetGenres(c.Context())
	if err != nil {
		return h.errorResponse(c, err, "Failed to retrieve genres")
	}

	out := make([]GenreResponse, 0, len(genres))
	for _, g := range genres {
		out = append(out, GenreResponse{ID: g.ID, Name: g.Name})
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Genres retrieved successfully", out)
}

// errorResponse maps err onto a status code by its kind. fallback is the
// message for failures the client cannot act on.
func (h *MovieHandler) errorResponse(c *fiber.Ctx, err error, fallback string) error {
	var validationErr *apperror.ValidationError
	var genreErr *apperror.GenreNotFoundError

	switch {
	case errors.As(err, &validationErr):
		return utils.ValidationErrorResponse(c, "Validation failed", validationErr.Fields)
	case errors.As(err, &genreErr):
		return utils.ValidationErrorResponse(c, genreErr.Error(), map[string][]string{
			"genre": {genreErr.Error()},
		})
	case apperror.IsNotFound(err):
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Movie not found")
	}

	h.logger.WithError(err).WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
	}).Error(fallback)
	return utils.ErrorResponse(c, fiber.StatusInternalServerError, fallback)
}
