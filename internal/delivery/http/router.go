package http

import (
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// StaticConfig locates the front-end files served next to the API
type StaticConfig struct {
	PagesDir  string
	StaticDir string
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, handler *Handler, static StaticConfig) {
	// Front-end pages
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendFile(filepath.Join(static.PagesDir, "index.html"))
	})
	app.Get("/about", func(c *fiber.Ctx) error {
		return c.SendFile(filepath.Join(static.PagesDir, "about.html"))
	})

	// Health, metrics and journal
	app.Get("/health", handler.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(handler.metrics.Handler()))
	app.Get("/history", handler.GetHistory)

	// Proxy endpoints called by the browser
	app.Post("/weather", handler.GetWeather)
	app.Post("/countryInfo", handler.GetCountryInfo)
	app.Post("/cityWikipediaPage", handler.GetWikipediaPage)

	if static.StaticDir != "" {
		app.Static("/", static.StaticDir)
	}
}
