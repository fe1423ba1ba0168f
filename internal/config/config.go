package config

import (
	"os"
	"strconv"
	"time"
)

// Config is built once at startup and handed to every constructor that needs it.
// Nothing mutates it afterwards.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	DatabaseURL string

	OpenWeatherAPIKey string
	OpenWeatherURL    string
	RestCountriesURL  string
	WikipediaURL      string
	UpstreamTimeout   time.Duration

	StaticDir   string
	PagesDir    string
	CORSOrigins string
}

// Load reads the configuration from the process environment
func Load() *Config {
	return &Config{
		Port:              getEnv("PORT", "3000"),
		Env:               getEnv("GO_ENV", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		OpenWeatherAPIKey: getEnv("OPENWEATHERMAP_KEY", ""),
		OpenWeatherURL:    getEnv("OPENWEATHER_URL", "https://api.openweathermap.org/data/2.5/weather"),
		RestCountriesURL:  getEnv("RESTCOUNTRIES_URL", "https://restcountries.com/v3.1/alpha"),
		WikipediaURL:      getEnv("WIKIPEDIA_URL", "https://en.wikipedia.org/w/api.php"),
		UpstreamTimeout:   time.Duration(getEnvInt("UPSTREAM_TIMEOUT_SECONDS", 10)) * time.Second,
		StaticDir:         getEnv("STATIC_DIR", "public"),
		PagesDir:          getEnv("PAGES_DIR", "pages"),
		CORSOrigins:       getEnv("CORS_ORIGINS", "*"),
	}
}

// IsProduction reports whether GO_ENV selects production behaviour
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil && intVal > 0 {
			return intVal
		}
	}
	return defaultValue
}
