// Package http содержит компоненты для HTTP сервера.
package http

import (
	"github.com/gofiber/fiber/v3"

	"notekeeper/internal/notes/adapters/http/handlers"
	"notekeeper/internal/notes/adapters/http/middleware"
	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/ports/api"
)

// Services сценарии, обслуживаемые HTTP сервером.
type Services struct {
	Auth       api.AuthService
	Categories api.LabelService[entities.Category]
	Tags       api.LabelService[entities.Tag]
	Notes      api.NoteService
}

// SetupRouter настраивает маршрутизацию для HTTP сервера.
// limiter может быть nil, тогда частота запросов не ограничивается.
func SetupRouter(app *fiber.App, services Services, limiter middleware.Limiter) {
	authHandler := handlers.NewAuthHandler(services.Auth)
	categoryHandler := handlers.NewLabelHandler("category", services.Categories, handlers.CategoryResponse)
	tagHandler := handlers.NewLabelHandler("tag", services.Tags, handlers.TagResponse)
	noteHandler := handlers.NewNoteHandler(services.Notes)

	// Middleware для всех запросов.
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())

	authenticate := middleware.NewAuthMiddleware(services.Auth)
	guarded := []fiber.Handler{authenticate}
	public := []fiber.Handler{}
	if limiter != nil {
		rateLimit := middleware.NewRateLimitMiddleware(limiter)
		guarded = append(guarded, rateLimit)
		public = append(public, rateLimit)
	}

	// API версии 1.
	apiV1 := app.Group("/api/v1")

	// Auth routes (публичные, кроме logout).
	authRoutes := apiV1.Group("/auth", public...)
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Use("/logout", authenticate)
	authRoutes.Post("/logout", authHandler.Logout)

	categories := apiV1.Group("/categories", guarded...)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/:id", categoryHandler.Get)
	categories.Put("/:id", categoryHandler.Update)
	categories.Patch("/:id", categoryHandler.Patch)
	categories.Delete("/:id", categoryHandler.Delete)

	tags := apiV1.Group("/tags", guarded...)
	tags.Get("/", tagHandler.List)
	tags.Post("/", tagHandler.Create)
	tags.Get("/:id", tagHandler.Get)
	tags.Put("/:id", tagHandler.Update)
	tags.Patch("/:id", tagHandler.Patch)
	tags.Delete("/:id", tagHandler.Delete)

	notes := apiV1.Group("/notes", guarded...)
	notes.Get("/", noteHandler.List)
	notes.Post("/", noteHandler.Create)
	notes.Get("/:id", noteHandler.Get)
	notes.Put("/:id", noteHandler.Update)
	notes.Patch("/:id", noteHandler.Patch)
	notes.Delete("/:id", noteHandler.Delete)
	notes.Post("/:id/toggle_favorite", noteHandler.ToggleFavorite)
	notes.Get("/:id/history", noteHandler.History)

	// Обработчик для несуществующих маршрутов.
	app.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"detail": "Not found.",
		})
	})
}
