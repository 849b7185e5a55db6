package routes

import (
	"movie-catalog/internal/handlers"
	"movie-catalog/internal/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// Setup registers the API. uploadHandler is nil when no poster storage is configured.
func Setup(app *fiber.App, movieHandler *handlers.MovieHandler, uploadHandler *handlers.UploadHandler, recorder *metrics.Recorder) {
	app.Get("/metrics", adaptor.HTTPHandler(recorder.Handler()))

	// API versioning
	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Movie routes - CRUD operations
	movies := v1.Group("/movies")
	{
		movies.Get("/", movieHandler.GetAllMovies)
		movies.Get("/:id", movieHandler.GetMovieByID)
		movies.Post("/", movieHandler.CreateMovie)
		movies.Patch("/:id", movieHandler.UpdateMovie)
		movies.Put("/:id", movieHandler.UpdateMovie)
		movies.Delete("/:id", movieHandler.DeleteMovie)
	}

	v1.Get("/genres", movieHandler.GetGenres)

	if uploadHandler != nil {
		upload := v1.Group("/upload")
		{
			upload.Get("/presign", uploadHandler.GetPresignedURL)
		}
	}
}
