package http

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/cityexplorer/backend/internal/domain"
	"github.com/cityexplorer/backend/internal/observability"
	"github.com/cityexplorer/backend/internal/service"
)

const (
	routeWeather   = "weather"
	routeCountry   = "countryInfo"
	routeWikipedia = "cityWikipediaPage"
)

// Handler contains all HTTP handlers
type Handler struct {
	weatherSvc   *service.WeatherService
	countrySvc   *service.CountryService
	wikipediaSvc *service.WikipediaService
	repo         service.LookupRepository
	metrics      *observability.Collector
	log          zerolog.Logger

	wgBg sync.WaitGroup // tracks journal writes for graceful shutdown
}

// NewHandler creates a new handler
func NewHandler(
	weatherSvc *service.WeatherService,
	countrySvc *service.CountryService,
	wikipediaSvc *service.WikipediaService,
	repo service.LookupRepository,
	metrics *observability.Collector,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		weatherSvc:   weatherSvc,
		countrySvc:   countrySvc,
		wikipediaSvc: wikipediaSvc,
		repo:         repo,
		metrics:      metrics,
		log:          log,
	}
}

// WaitBackground blocks until all pending journal writes complete.
// Call during graceful shutdown to avoid dropped writes.
func (h *Handler) WaitBackground() {
	h.wgBg.Wait()
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	status := fiber.StatusOK
	health := fiber.Map{
		"status":   "ok",
		"service":  "city-explorer-backend",
		"version":  "1.0.0",
		"database": "healthy",
	}

	if h.repo != nil {
		if err := h.repo.Health(c.Context()); err != nil {
			h.log.Error().Err(err).Msg("health check: database unavailable")
			health["status"] = "degraded"
			health["database"] = "unhealthy"
			status = fiber.StatusServiceUnavailable
		}
	}

	return c.Status(status).JSON(health)
}

// GetWeather proxies a city lookup to the weather provider
func (h *Handler) GetWeather(c *fiber.Ctx) error {
	start := time.Now()

	var req domain.WeatherQuery
	if err := parseBody(c, &req); err != nil {
		return h.finish(routeWeather, "", start, err)
	}
	h.log.Debug().Str("city", req.City).Msg("weather lookup")

	summary, err := h.weatherSvc.GetWeather(c.Context(), req)
	if err != nil {
		return h.finish(routeWeather, req.City, start, err)
	}

	h.finish(routeWeather, req.City, start, nil)
	return c.JSON(summary)
}

// GetCountryInfo proxies an alpha-code lookup to the country provider
func (h *Handler) GetCountryInfo(c *fiber.Ctx) error {
	start := time.Now()

	var req domain.CountryQuery
	if err := parseBody(c, &req); err != nil {
		return h.finish(routeCountry, "", start, err)
	}
	h.log.Debug().Str("country_code", req.CountryCode).Msg("country lookup")

	summary, err := h.countrySvc.GetCountryInfo(c.Context(), req)
	if err != nil {
		return h.finish(routeCountry, req.CountryCode, start, err)
	}

	h.finish(routeCountry, req.CountryCode, start, nil)
	return c.JSON(summary)
}

// GetWikipediaPage resolves a city name to its encyclopedia page URL
func (h *Handler) GetWikipediaPage(c *fiber.Ctx) error {
	start := time.Now()

	var req domain.WikipediaQuery
	if err := parseBody(c, &req); err != nil {
		return h.finish(routeWikipedia, "", start, err)
	}
	h.log.Debug().Str("city_name", req.CityName).Msg("wikipedia lookup")

	result, err := h.wikipediaSvc.GetPageURL(c.Context(), req)
	if err != nil {
		return h.finish(routeWikipedia, req.CityName, start, err)
	}

	h.finish(routeWikipedia, req.CityName, start, nil)
	return c.JSON(result)
}

// GetHistory returns journal entries within a time range
func (h *Handler) GetHistory(c *fiber.Ctx) error {
	hours := c.QueryInt("hours", 24)
	if hours < 1 || hours > 720 { // max 30 days
		hours = 24
	}

	if h.repo == nil {
		return c.JSON(fiber.Map{"success": true, "data": []domain.Lookup{}, "count": 0})
	}

	to := time.Now()
	from := to.Add(-time.Duration(hours) * time.Hour)

	data, err := h.repo.GetRecentLookups(c.Context(), from, to)
	if err != nil {
		h.log.Error().Err(err).Int("hours", hours).Msg("failed to read lookup history")
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch lookup history")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
		"count":   len(data),
	})
}

// finish logs, counts and journals a proxy request, then hands err back
// so the handler can return it to the error handler unchanged.
func (h *Handler) finish(route, query string, start time.Time, err error) error {
	duration := time.Since(start)
	outcome := domain.Outcome(err)

	status := fiber.StatusOK
	if err != nil {
		status = fiber.StatusInternalServerError
		var le *domain.LookupError
		if errors.As(err, &le) {
			status = le.Status
			if le.Kind == domain.KindTransport {
				h.log.Error().Err(le.Err).Str("route", route).Str("query", query).Msg(le.Message)
			} else {
				h.log.Warn().Str("route", route).Str("query", query).Int("status", le.Status).Msg(le.Message)
			}
		}
	}

	h.metrics.ObserveLookup(route, outcome)
	h.recordLookup(domain.Lookup{
		Route:      route,
		Query:      query,
		Status:     status,
		Outcome:    outcome,
		DurationMs: duration.Milliseconds(),
		Timestamp:  start,
	})

	return err
}

// recordLookup writes the journal entry asynchronously
func (h *Handler) recordLookup(l domain.Lookup) {
	if h.repo == nil {
		return
	}

	h.wgBg.Add(1)
	go func() {
		defer h.wgBg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.repo.SaveLookup(ctx, l); err != nil {
			h.log.Warn().Err(err).Str("route", l.Route).Msg("failed to save lookup")
		}
	}()
}

// parseBody decodes a JSON request body into v. An empty body leaves v zeroed.
func parseBody(c *fiber.Ctx, v any) error {
	body := c.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := c.App().Config().JSONDecoder(body, v); err != nil {
		return domain.NewValidationError("Invalid request body")
	}
	return nil
}
