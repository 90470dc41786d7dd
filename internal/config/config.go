package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/MrSnakeDoc/mindnest/internal/store/kv"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	CatalogFile       string        // path to the catalog data file (.json, .yaml or .yml)
	ReloadInterval    time.Duration // interval to reload the catalog file (default: 24h, 0 = manual only)
	OrphanGCInterval  time.Duration // interval to collect orphan bookmarks (default: 24h, 0 = disabled)
	OrphanGCThreshold time.Duration // how long a bookmark may stay orphaned (default: 720h)
	StoreBackend      string        // "sqlite" | "redis" | "badger" | "memory"
	SQLiteDSN         string        // ex: "file:mindnest.db?cache=shared&mode=rwc"
	BadgerDir         string        // ex: "/app/data/badger"
	RateBurst         int           // bookmark/category writes burst per client IP
	RatePerMin        int           // bookmark/category writes refill per client IP per minute

	// Redis (only when StoreBackend = "redis")
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold  int           // warn after this many attempts

	AllowedHosts []string // optional, restrict admin endpoints to specific Host headers
	AllowedCIDRS []string // optional, restrict admin endpoints to specific IPs (e.g. "1.2.3.4, 10.0.0.0/8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

// Load reads the configuration from the environment. It panics on a
// missing required value or an unusable combination.
func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("MINDNEST_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("MINDNEST_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("MINDNEST_LOG_LEVEL", "info"),
		PrettyLog: mustBool("MINDNEST_PRETTY_LOG", true),

		// Catalog and preferences
		CatalogFile:       getenv("MINDNEST_CATALOG_FILE", "/app/recommendations.json"),
		ReloadInterval:    mustDuration("MINDNEST_RELOAD_INTERVAL", 24*time.Hour),
		OrphanGCInterval:  mustDuration("MINDNEST_ORPHAN_GC_INTERVAL", 24*time.Hour),
		OrphanGCThreshold: mustDuration("MINDNEST_ORPHAN_GC_THRESHOLD", 30*24*time.Hour),
		StoreBackend:      strings.ToLower(getenv("MINDNEST_STORE_BACKEND", kv.BackendSQLite)),
		SQLiteDSN:         getenv("MINDNEST_SQLITE_DSN", "file:mindnest.db?cache=shared&mode=rwc"),
		BadgerDir:         getenv("MINDNEST_BADGER_DIR", "/app/data/badger"),
		RateBurst:         getenvInt("MINDNEST_RATE_BURST", 20),
		RatePerMin:        getenvInt("MINDNEST_RATE_PER_MIN", 60),

		// Redis settings
		RedisUser:           getenv("MINDNEST_REDIS_USERNAME", ""),
		RedisPassword:       getenv("MINDNEST_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("MINDNEST_REDIS_DB", 0),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:  getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("MINDNEST_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("MINDNEST_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("MINDNEST_TRUST_PROXY", false),
	}

	if cfg.StoreBackend == kv.BackendRedis {
		cfg.RedisAddr = requireEnv("MINDNEST_REDIS_ADDR")
	}

	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("❌ FATAL: %v", err))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfgCopy.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case kv.BackendSQLite, kv.BackendBadger, kv.BackendMemory:
	case kv.BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("MINDNEST_REDIS_ADDR is required when MINDNEST_STORE_BACKEND=redis")
		}
	default:
		return fmt.Errorf("unknown MINDNEST_STORE_BACKEND %q (want sqlite, redis, badger or memory)", c.StoreBackend)
	}
	if c.CatalogFile == "" {
		return fmt.Errorf("MINDNEST_CATALOG_FILE must not be empty")
	}
	if c.ReloadInterval < 0 || c.OrphanGCInterval < 0 {
		return fmt.Errorf("intervals must not be negative")
	}
	if c.OrphanGCThreshold <= 0 {
		return fmt.Errorf("MINDNEST_ORPHAN_GC_THRESHOLD must be > 0, got %v", c.OrphanGCThreshold)
	}
	return nil
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

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
