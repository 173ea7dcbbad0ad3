package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"varibulk/internal/infrastructure/cache"
)

// Pinger is a dependency that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

// Ping implements Pinger.
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Database is the part of the connection pool the probes read.
type Database interface {
	Pinger
	Stat() *pgxpool.Stat
}

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	app     string
	version string
	db      Database
	cache   *cache.AttributeCache
	// checks beyond the database, by name
	checks map[string]Pinger
}

// NewHealthHandler creates a new health handler. cache may be nil.
func NewHealthHandler(app, version string, db Database, attrCache *cache.AttributeCache) *HealthHandler {
	return &HealthHandler{
		app:     app,
		version: version,
		db:      db,
		cache:   attrCache,
		checks:  make(map[string]Pinger),
	}
}

// AddCheck registers an extra readiness check, such as the lock store.
func (h *HealthHandler) AddCheck(name string, p Pinger) {
	h.checks[name] = p
}

// Live handles liveness probe (is the process alive?).
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready handles readiness probe (is the service ready to accept traffic?).
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(h.checks)+1)

	all := map[string]Pinger{"database": h.db}
	for name, p := range h.checks {
		all[name] = p
	}
	for name, p := range all {
		if err := p.Ping(ctx); err != nil {
			checks[name] = "unhealthy: " + err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "healthy"
	}

	body := gin.H{"status": "ok", "checks": checks}
	if status != http.StatusOK {
		body["status"] = "error"
	}
	c.JSON(status, body)
}

// Info returns application information.
// GET /health/info
func (h *HealthHandler) Info(c *gin.Context) {
	stat := h.db.Stat()

	body := gin.H{
		"app":     h.app,
		"version": h.version,
		"database": map[string]any{
			"total_conns":    stat.TotalConns(),
			"acquired_conns": stat.AcquiredConns(),
			"idle_conns":     stat.IdleConns(),
			"max_conns":      stat.MaxConns(),
		},
	}
	if h.cache != nil {
		s := h.cache.Stats()
		body["attribute_cache"] = map[string]any{
			"entries": s.Entries,
			"hits":    s.Hits,
			"misses":  s.Misses,
		}
	}
	c.JSON(http.StatusOK, body)
}
