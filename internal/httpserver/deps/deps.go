package deps

import (
	"time"

	"github.com/MrSnakeDoc/mindnest/internal/domain"
	"github.com/MrSnakeDoc/mindnest/internal/index"
	"github.com/MrSnakeDoc/mindnest/internal/logger"
	"github.com/MrSnakeDoc/mindnest/internal/metrics"
	"github.com/MrSnakeDoc/mindnest/internal/preferences"
	"github.com/MrSnakeDoc/mindnest/internal/store/kv"
)

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	TimeNow       func() time.Time     // for testing, defaults to time.Now
	AllowedHosts  []string             // Host headers allowed to reach the admin endpoints
	AllowedCIDRS  []string             // IPs allowed to access healthz/readyz/infra/reload
	TrustProxy    bool                 // true if running behind a trusted reverse proxy (e.g., cloudflared)
	CatalogFile   string               // Path to the catalog data file
	Catalog       *index.CatalogIndex  // Catalog snapshot being served
	Preferences   *preferences.Store   // Selected categories and bookmarks
	Store         kv.Store             // Backend the preferences persist to
	StoreBackend  string               // Backend name (sqlite, redis, badger, memory)
	LinkOpener    domain.LinkOpener    // Opens external links; nil means redirect the client
	Metrics       *metrics.Metrics     // Prometheus collectors; nil disables /metrics
	ReloadTrigger chan struct{}        // Channel to trigger manual catalog reload
	RateBurst     int                  // Bookmark toggle burst per client IP
	RatePerMin    int                  // Bookmark toggle refill per client IP per minute
}
