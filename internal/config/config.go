package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config groups all runtime settings. Values come from the environment
// (optionally seeded from a .env file) with defaults suited to local runs.
type Config struct {
	Server       ServerConfig
	Store        StoreConfig
	Geocode      GeocodeConfig
	Routing      RoutingConfig
	Autocomplete AutocompleteConfig
	Auth         AuthConfig
	Cache        CacheConfig
	Kafka        KafkaConfig
	Sentry       SentryConfig
	Log          LogConfig
	Locale       string
	SeedPath     string
}

type ServerConfig struct {
	Port              string
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	// Inbound limit for the geocode proxy, per client address.
	GeocodeRPS   float64
	GeocodeBurst int
}

type StoreConfig struct {
	Name         string
	Lat          float64
	Lon          float64
	RadiusMeters float64
	DefaultZoom  int
}

type GeocodeConfig struct {
	BaseURL           string
	Locality          string
	UserAgent         string
	MaxResults        int
	MinChars          int
	RequestsPerSecond float64
	Timeout           time.Duration
}

type RoutingConfig struct {
	BaseURL     string
	Profile     string
	Timeout     time.Duration
	MaxAttempts int
}

type AutocompleteConfig struct {
	Delay time.Duration
}

type AuthConfig struct {
	JWTSecret     string
	AdminUsername string
	AdminPassword string
	AdminTTL      time.Duration
	CustomerTTL   time.Duration
}

type CacheConfig struct {
	// Backend is one of "none", "redis" or "postgres".
	Backend     string
	RedisAddr   string
	RedisDB     int
	DatabaseURL string
	TTL         time.Duration
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type SentryConfig struct {
	DSN         string
	Environment string
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads the .env file if present and builds a validated Config.
func Load() (*Config, error) {
	cfg := Read()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read builds a Config without validating it. Command line tools use it
// since they need only a subset of the settings.
func Read() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:              Get("PORT", "8080"),
			ReadHeaderTimeout: GetDuration("SERVER_READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       GetDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:      GetDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:       GetDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			GeocodeRPS:        GetFloat("GEOCODE_PROXY_RPS", 2),
			GeocodeBurst:      GetInt("GEOCODE_PROXY_BURST", 5),
		},
		Store: StoreConfig{
			Name:         Get("STORE_NAME", "Toko UMKM CIPAS"),
			Lat:          GetFloat("STORE_LAT", -6.914744),
			Lon:          GetFloat("STORE_LON", 107.609810),
			RadiusMeters: GetFloat("DELIVERY_RADIUS_METERS", 10000),
			DefaultZoom:  GetInt("MAP_DEFAULT_ZOOM", 12),
		},
		Geocode: GeocodeConfig{
			BaseURL:           Get("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
			Locality:          Get("GEOCODE_LOCALITY", "Bandung"),
			UserAgent:         Get("GEOCODE_USER_AGENT", "UMKM CIPAS Website"),
			MaxResults:        GetInt("GEOCODE_MAX_RESULTS", 5),
			MinChars:          GetInt("GEOCODE_MIN_CHARS", 3),
			RequestsPerSecond: GetFloat("GEOCODE_RPS", 1),
			Timeout:           GetDuration("GEOCODE_TIMEOUT", 10*time.Second),
		},
		Routing: RoutingConfig{
			BaseURL:     Get("OSRM_URL", "https://router.project-osrm.org"),
			Profile:     Get("OSRM_PROFILE", "driving"),
			Timeout:     GetDuration("OSRM_TIMEOUT", 5*time.Second),
			MaxAttempts: GetInt("OSRM_MAX_ATTEMPTS", 2),
		},
		Autocomplete: AutocompleteConfig{
			Delay: GetDuration("AUTOCOMPLETE_DELAY", 500*time.Millisecond),
		},
		Auth: AuthConfig{
			JWTSecret:     os.Getenv("JWT_SECRET"),
			AdminUsername: Get("ADMIN_USERNAME", "umkmcipas"),
			AdminPassword: os.Getenv("ADMIN_PASSWORD"),
			AdminTTL:      GetDuration("ADMIN_TOKEN_TTL", 24*time.Hour),
			CustomerTTL:   GetDuration("CUSTOMER_TOKEN_TTL", 30*24*time.Hour),
		},
		Cache: CacheConfig{
			Backend:     strings.ToLower(Get("GEOCODE_CACHE", "none")),
			RedisAddr:   Get("REDIS_ADDR", "localhost:6379"),
			RedisDB:     GetInt("REDIS_DB", 0),
			DatabaseURL: os.Getenv("DATABASE_URL"),
			TTL:         GetDuration("GEOCODE_CACHE_TTL", 7*24*time.Hour),
		},
		Kafka: KafkaConfig{
			Brokers: GetList("KAFKA_BROKERS"),
			Topic:   Get("KAFKA_TOPIC", "storefront_orders"),
		},
		Sentry: SentryConfig{
			DSN:         os.Getenv("SENTRY_DSN"),
			Environment: Get("SENTRY_ENVIRONMENT", "development"),
		},
		Log: LogConfig{
			Level:  Get("LOG_LEVEL", "info"),
			Format: Get("LOG_FORMAT", "text"),
		},
		Locale:   Get("LOCALE", "id"),
		SeedPath: os.Getenv("SEED_PATH"),
	}
}

// Validate checks the settings that the server cannot run without.
func (c *Config) Validate() error {
	if c.Store.Lat < -90 || c.Store.Lat > 90 || c.Store.Lon < -180 || c.Store.Lon > 180 {
		return fmt.Errorf("config: store location out of range: lat=%v lon=%v", c.Store.Lat, c.Store.Lon)
	}
	if c.Store.RadiusMeters <= 0 {
		return fmt.Errorf("config: DELIVERY_RADIUS_METERS must be positive, got %v", c.Store.RadiusMeters)
	}
	if c.Geocode.MinChars < 0 || c.Geocode.MaxResults < 1 {
		return errors.New("config: GEOCODE_MIN_CHARS must be >= 0 and GEOCODE_MAX_RESULTS >= 1")
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("config: JWT_SECRET is required")
	}

	switch c.Cache.Backend {
	case "none", "redis":
	case "postgres":
		if strings.TrimSpace(c.Cache.DatabaseURL) == "" {
			return errors.New("config: DATABASE_URL is required when GEOCODE_CACHE=postgres")
		}
	default:
		return fmt.Errorf("config: unknown GEOCODE_CACHE backend %q", c.Cache.Backend)
	}

	return nil
}

func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func GetFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func GetDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

// GetList splits a comma separated variable, dropping empty items.
func GetList(key string) []string {
	raw := os.Getenv(key)
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	out := make([]string, 0, 4)
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
