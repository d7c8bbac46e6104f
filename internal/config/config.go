package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Upstream bookmarks backend
	UpstreamBaseURL string        // ex: https://backend.otramalaga.org/api
	UpstreamTimeout time.Duration // per-request timeout against the backend

	// Geocoding
	GeocoderBaseURL string        // Nominatim-compatible endpoint
	GeocodeDebounce time.Duration // delay before a typed query is sent (default: 300ms)
	GeocodeMinQuery int           // minimum query length that triggers a search (default: 3)

	// Cache & refresh
	CacheTTL        time.Duration // expiration window for cached GET responses (default: 5m)
	RefreshInterval time.Duration // periodic marker collection refresh (default: 5m)

	// Map defaults
	DefaultCenterLat float64 // initial map center latitude
	DefaultCenterLon float64 // initial map center longitude
	DefaultZoom      int     // initial zoom level
	FocusZoom        int     // zoom applied when focusing a single marker

	StyleFile string // path to the category/tag style vocabulary (optional)

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	// Media storage (S3-compatible). Empty endpoint disables uploads.
	MediaEndpoint       string
	MediaPublicEndpoint string
	MediaAccessKey      string
	MediaSecretKey      string
	MediaBucket         string
	MediaUseSSL         bool

	AllowedOrigins []string // CORS origins for the browser frontend
}

func Load() *Config {
	// Best effort: a missing .env is the normal production case.
	_ = godotenv.Load()

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("CIVICMAP_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("CIVICMAP_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("CIVICMAP_LOG_LEVEL", "info"),
		PrettyLog: mustBool("CIVICMAP_PRETTY_LOG", true),

		// Upstream
		UpstreamBaseURL: requireEnv("CIVICMAP_UPSTREAM_BASE_URL"),
		UpstreamTimeout: mustDuration("CIVICMAP_UPSTREAM_TIMEOUT", 10*time.Second),

		// Geocoding
		GeocoderBaseURL: getenv("CIVICMAP_GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
		GeocodeDebounce: mustDuration("CIVICMAP_GEOCODE_DEBOUNCE", 300*time.Millisecond),
		GeocodeMinQuery: getenvInt("CIVICMAP_GEOCODE_MIN_QUERY", 3),

		// Cache & refresh
		CacheTTL:        mustDuration("CIVICMAP_CACHE_TTL", 5*time.Minute),
		RefreshInterval: mustDuration("CIVICMAP_REFRESH_INTERVAL", 5*time.Minute),

		// Map defaults (Málaga city center)
		DefaultCenterLat: mustFloat("CIVICMAP_DEFAULT_CENTER_LAT", 36.7213),
		DefaultCenterLon: mustFloat("CIVICMAP_DEFAULT_CENTER_LON", -4.4214),
		DefaultZoom:      getenvInt("CIVICMAP_DEFAULT_ZOOM", 13),
		FocusZoom:        getenvInt("CIVICMAP_FOCUS_ZOOM", 15),

		StyleFile: getenv("CIVICMAP_STYLE_FILE", ""),

		// Redis settings
		RedisAddr:             requireEnv("CIVICMAP_REDIS_ADDR"),
		RedisUser:             getenv("CIVICMAP_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("CIVICMAP_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("CIVICMAP_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("CIVICMAP_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Media storage
		MediaEndpoint:       getenv("CIVICMAP_MEDIA_ENDPOINT", ""),
		MediaPublicEndpoint: getenv("CIVICMAP_MEDIA_PUBLIC_ENDPOINT", ""),
		MediaAccessKey:      getenv("CIVICMAP_MEDIA_ACCESS_KEY", ""),
		MediaSecretKey:      getenv("CIVICMAP_MEDIA_SECRET_KEY", ""),
		MediaBucket:         getenv("CIVICMAP_MEDIA_BUCKET", "civicmap-media"),
		MediaUseSSL:         mustBool("CIVICMAP_MEDIA_USE_SSL", true),

		AllowedOrigins: splitAndTrim(getenv("CIVICMAP_ALLOWED_ORIGINS", "")),
	}

	// Validate Redis password configuration
	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: CIVICMAP_REDIS_PASSWORD is required when CIVICMAP_REDIS_PASSWORD_REQUIRED=true")
	}

	if cfg.GeocodeMinQuery < 1 {
		panic(fmt.Sprintf("❌ FATAL: CIVICMAP_GEOCODE_MIN_QUERY must be >= 1, got %d", cfg.GeocodeMinQuery))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		cfgCopy.MediaSecretKey = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func mustFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
