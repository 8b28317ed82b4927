package middleware

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"testing"
	"time"

	"ecogrow/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// redisForTest connects to REDIS_ADDR and installs it as the limiter backend.
func redisForTest(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))

	client := redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD"), DB: db})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis not reachable: %v", err)
	}
	SetRedisClient(client)
	t.Cleanup(func() {
		SetRedisClient(nil)
		_ = client.Close()
	})
	return client
}

func TestRedisRateLimitIntegration(t *testing.T) {
	redisForTest(t)

	// odd window so keys from earlier runs do not collide
	const limit = 2
	r := gin.New()
	r.GET("/test", RedisRateLimit(limit, 3*time.Second), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < limit; i++ {
		assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/test", "").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodGet, "/test", "").Code)
}

func TestUserRateLimitRedisIntegration(t *testing.T) {
	redisForTest(t)

	sessions := service.NewSessionManager("secret", time.Hour, nil)
	// fresh user id per run keeps the counter at zero
	token, _, err := sessions.Issue(uuid.NewString())
	require.NoError(t, err)

	r := gin.New()
	r.POST("/scans", JWT(sessions), UserRateLimit("scan", 1, 5*time.Second), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	w := do(r, http.MethodPost, "/scans", token)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = do(r, http.MethodPost, "/scans", token)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
