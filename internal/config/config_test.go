package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "GO_ENV", "LOG_LEVEL", "DATABASE_URL", "OPENWEATHERMAP_KEY",
		"OPENWEATHER_URL", "RESTCOUNTRIES_URL", "WIKIPEDIA_URL",
		"UPSTREAM_TIMEOUT_SECONDS", "STATIC_DIR", "PAGES_DIR", "CORS_ORIGINS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.OpenWeatherAPIKey)
	assert.Equal(t, "https://api.openweathermap.org/data/2.5/weather", cfg.OpenWeatherURL)
	assert.Equal(t, "https://restcountries.com/v3.1/alpha", cfg.RestCountriesURL)
	assert.Equal(t, "https://en.wikipedia.org/w/api.php", cfg.WikipediaURL)
	assert.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, "public", cfg.StaticDir)
	assert.Equal(t, "pages", cfg.PagesDir)
	assert.Equal(t, "*", cfg.CORSOrigins)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("GO_ENV", "production")
	t.Setenv("OPENWEATHERMAP_KEY", "secret")
	t.Setenv("UPSTREAM_TIMEOUT_SECONDS", "3")

	cfg := Load()

	assert.Equal(t, "8081", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "secret", cfg.OpenWeatherAPIKey)
	assert.Equal(t, 3*time.Second, cfg.UpstreamTimeout)
}

func TestLoadIgnoresInvalidTimeout(t *testing.T) {
	t.Setenv("UPSTREAM_TIMEOUT_SECONDS", "soon")
	assert.Equal(t, 10*time.Second, Load().UpstreamTimeout)

	t.Setenv("UPSTREAM_TIMEOUT_SECONDS", "-4")
	assert.Equal(t, 10*time.Second, Load().UpstreamTimeout)
}
