package mw

import (
	"net/http"

	"github.com/MrSnakeDoc/mindnest/internal/logger"
	"github.com/MrSnakeDoc/mindnest/internal/utils"
)

// AllowOnlyCIDRS lets through only clients whose IP matches one of the
// allowed IPs or CIDRs. An empty list disables filtering.
// trustProxy should be true when running behind a trusted reverse proxy/tunnel (e.g., cloudflared).
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	m := utils.NewIPMatcher(allowed)
	if m.IsEmpty() {
		log.Debug("AllowOnlyCIDRS: empty matcher, passthrough mode")
		return func(next http.Handler) http.Handler { return next }
	}

	log.Debugf("AllowOnlyCIDRS: initialized with %d rules, trustProxy=%v", len(allowed), trustProxy)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if !m.Allow(ip) {
				log.Warn("admin endpoint rejected client",
					logger.String("ip", ip),
					logger.String("path", r.URL.Path))
				forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
