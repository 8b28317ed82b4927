package handlers

import (
	"context"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by *pgxpool.Pool and the redis adapter in package http.
type Pinger interface {
	Ping(ctx context.Context) error
}

type dependency struct {
	name string
	ping Pinger
	// optional dependencies degrade readiness instead of failing it
	optional bool
}

type HealthHandler struct {
	deps      []dependency
	startTime time.Time
	version   string
}

// NewHealthHandler checks db always and redis when it is non-nil.
func NewHealthHandler(db, redis Pinger, version string) *HealthHandler {
	deps := []dependency{{name: "database", ping: db}}
	if redis != nil {
		deps = append(deps, dependency{name: "redis", ping: redis, optional: true})
	}
	return &HealthHandler{deps: deps, startTime: time.Now(), version: version}
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version,omitempty"`
	Uptime    string            `json:"uptime,omitempty"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Liveness never touches dependencies.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness pings every dependency and reports each one.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string, len(h.deps)+1)
	status, code := "healthy", http.StatusOK
	for _, d := range h.deps {
		err := d.ping.Ping(ctx)
		switch {
		case err == nil:
			checks[d.name] = "healthy"
		case d.optional:
			checks[d.name] = "degraded: " + err.Error()
		default:
			checks[d.name] = "unhealthy: " + err.Error()
			status, code = "unhealthy", http.StatusServiceUnavailable
		}
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	checks["memory_alloc_mb"] = strconv.FormatFloat(float64(m.Alloc)/(1<<20), 'f', 2, 64)

	c.JSON(code, HealthResponse{
		Status:    status,
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}

// Health only pings required dependencies.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	for _, d := range h.deps {
		if d.optional {
			continue
		}
		if err := d.ping.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  d.name + " unavailable",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": h.version})
}
