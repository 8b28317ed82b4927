package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ecogrow/internal/domain"
	"ecogrow/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubRoles map[string]bool

func (s stubRoles) CheckRole(_ context.Context, userID string, _ domain.Role) bool {
	return s[userID]
}

func do(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWT(t *testing.T) {
	sessions := service.NewSessionManager("secret", time.Hour, nil)
	token, _, err := sessions.Issue("alice")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/p", JWT(sessions), func(c *gin.Context) {
		c.String(http.StatusOK, SessionFrom(c).UserID)
	})
	r.GET("/o", OptionalJWT(sessions), func(c *gin.Context) {
		if s := SessionFrom(c); s != nil {
			c.String(http.StatusOK, s.UserID)
			return
		}
		c.String(http.StatusOK, "anon")
	})

	w := do(r, http.MethodGet, "/p", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Not authenticated"}`, w.Body.String())

	w = do(r, http.MethodGet, "/p", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "/p", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", w.Body.String())

	assert.Equal(t, "anon", do(r, http.MethodGet, "/o", "").Body.String())
	assert.Equal(t, "anon", do(r, http.MethodGet, "/o", "garbage").Body.String())
	assert.Equal(t, "alice", do(r, http.MethodGet, "/o", token).Body.String())
}

func TestRequireRole(t *testing.T) {
	sessions := service.NewSessionManager("secret", time.Hour, nil)
	adminToken, _, _ := sessions.Issue("root")
	userToken, _, _ := sessions.Issue("alice")

	r := gin.New()
	r.GET("/admin", JWT(sessions), RequireRole(stubRoles{"root": true}, domain.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodGet, "/admin", adminToken).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/admin", userToken).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/admin", "").Code)
}

func TestSimpleRateLimit(t *testing.T) {
	r := gin.New()
	r.GET("/x", SimpleRateLimit(2, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/x", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/x", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodGet, "/x", "").Code)
}

func TestMemoryWindowResets(t *testing.T) {
	mw := newMemoryWindow(time.Minute)
	now := time.Now()
	mw.now = func() time.Time { return now }

	assert.Equal(t, int64(1), mw.hit("a"))
	assert.Equal(t, int64(2), mw.hit("a"))
	assert.Equal(t, int64(1), mw.hit("b"))

	mw.now = func() time.Time { return now.Add(2 * time.Minute) }
	assert.Equal(t, int64(1), mw.hit("a"))
}

func TestUserRateLimitFallsBackToMemory(t *testing.T) {
	SetRedisClient(nil)
	sessions := service.NewSessionManager("secret", time.Hour, nil)
	alice, _, _ := sessions.Issue("alice")
	bob, _, _ := sessions.Issue("bob")

	r := gin.New()
	r.POST("/scan", JWT(sessions), UserRateLimit("scan", 1, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/scan", alice).Code)
	w := do(r, http.MethodPost, "/scan", alice)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/scan", bob).Code)
}
