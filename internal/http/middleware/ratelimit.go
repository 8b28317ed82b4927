package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type clientInfo struct {
	start time.Time
	count int
}

// memoryWindow is a fixed-window counter kept in process memory. It backs
// the Redis limiters when Redis is not configured.
type memoryWindow struct {
	mu      sync.Mutex
	window  time.Duration
	clients map[string]*clientInfo
	now     func() time.Time
}

func newMemoryWindow(window time.Duration) *memoryWindow {
	return &memoryWindow{
		window:  window,
		clients: make(map[string]*clientInfo),
		now:     time.Now,
	}
}

// hit counts one request for key and returns the count in the current window.
func (m *memoryWindow) hit(key string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	ci, ok := m.clients[key]
	if !ok || now.Sub(ci.start) > m.window {
		if len(m.clients) > 10000 {
			m.sweep(now)
		}
		m.clients[key] = &clientInfo{start: now, count: 1}
		return 1
	}
	ci.count++
	return int64(ci.count)
}

func (m *memoryWindow) sweep(now time.Time) {
	for k, ci := range m.clients {
		if now.Sub(ci.start) > m.window {
			delete(m.clients, k)
		}
	}
}

// SimpleRateLimit blocks clients that send more than maxRequests per window
func SimpleRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	mw := newMemoryWindow(window)
	return func(c *gin.Context) {
		if mw.hit(c.ClientIP()) > int64(maxRequests) {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}
