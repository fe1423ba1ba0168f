package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/cityexplorer/backend/internal/config"
	"github.com/cityexplorer/backend/internal/delivery/http"
	"github.com/cityexplorer/backend/internal/observability"
	"github.com/cityexplorer/backend/internal/repository/postgres"
	"github.com/cityexplorer/backend/internal/service"
)

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	// Configuration
	cfg := config.Load()
	log := setupLogger(cfg)

	if envErr != nil {
		log.Info().Msg("No .env file found, using system environment")
	}

	// Lookup journal: PostgreSQL when configured, no-op otherwise
	var repo service.LookupRepository = postgres.NewMockRepository()
	if cfg.DatabaseURL != "" {
		pool, pgRepo, err := connectDatabase(cfg.DatabaseURL)
		if err != nil {
			log.Warn().Err(err).Msg("Could not connect to database, lookup journal disabled")
		} else {
			defer pool.Close()
			repo = pgRepo
			log.Info().Msg("Connected to PostgreSQL")
		}
	}

	metrics, err := observability.NewCollector(nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to register metrics")
	}

	// Dependency Injection: Services
	weatherSvc := service.NewWeatherService(cfg.OpenWeatherURL, cfg.OpenWeatherAPIKey, cfg.UpstreamTimeout, metrics)
	countrySvc := service.NewCountryService(cfg.RestCountriesURL, cfg.UpstreamTimeout, metrics)
	wikipediaSvc := service.NewWikipediaService(cfg.WikipediaURL, cfg.UpstreamTimeout, metrics)

	handler := http.NewHandler(weatherSvc, countrySvc, wikipediaSvc, repo, metrics, log)

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:      "City Explorer v1.0",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.UpstreamTimeout + 10*time.Second,
		ErrorHandler: http.ErrorHandler(log),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Routes
	http.SetupRoutes(app, handler, http.StaticConfig{
		PagesDir:  cfg.PagesDir,
		StaticDir: cfg.StaticDir,
	})

	// Graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server starting")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	handler.WaitBackground()
	log.Info().Msg("Server exited gracefully")
}

// connectDatabase opens the pool, verifies it and makes sure the journal table exists
func connectDatabase(databaseURL string) (*pgxpool.Pool, *postgres.PostgresRepository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}

	repo := postgres.NewPostgresRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}

	return pool, repo, nil
}

func setupLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	// JSON lines in production
	if cfg.IsProduction() {
		out = os.Stdout
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
