package handlers

import (
	"errors"
	"net/http"

	"ecogrow/internal/http/middleware"
	"ecogrow/internal/logger"
	"ecogrow/internal/service"

	"github.com/gin-gonic/gin"
)

// HandlerConfig holds configuration for handler
type HandlerConfig struct {
	MaxImageBytes int64
}

type Handler struct {
	Auth        *service.AuthService
	Profiles    *service.ProfileService
	Scans       *service.ScanService
	Orders      *service.OrderService
	Admin       *service.AdminService
	Leaderboard *service.LeaderboardService
	Audit       *service.AuditService

	cfg HandlerConfig
}

type Services struct {
	Auth        *service.AuthService
	Profiles    *service.ProfileService
	Scans       *service.ScanService
	Orders      *service.OrderService
	Admin       *service.AdminService
	Leaderboard *service.LeaderboardService
	Audit       *service.AuditService
}

func NewHandler(s Services, cfg HandlerConfig) *Handler {
	if cfg.MaxImageBytes <= 0 {
		cfg.MaxImageBytes = 10 << 20
	}
	return &Handler{
		Auth:        s.Auth,
		Profiles:    s.Profiles,
		Scans:       s.Scans,
		Orders:      s.Orders,
		Admin:       s.Admin,
		Leaderboard: s.Leaderboard,
		Audit:       s.Audit,
		cfg:         cfg,
	}
}

// fail maps service errors to a status and writes {"error": msg}. Unknown
// errors are 500 with their own message, which is what the client shows.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := err.Error()

	switch {
	case errors.Is(err, service.ErrNotAuthenticated),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenRevoked):
		status = http.StatusUnauthorized
		msg = service.ErrNotAuthenticated.Error()
	case errors.Is(err, service.ErrImageRequired),
		errors.Is(err, service.ErrTreeNameRequired),
		errors.Is(err, service.ErrInsufficientCoins),
		errors.Is(err, service.ErrOutOfStock),
		errors.Is(err, service.ErrInvalidItem),
		errors.Is(err, service.ErrInvalidDelivery),
		errors.Is(err, service.ErrFullNameRequired),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidFilter):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrProfileNotFound),
		errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrOrderNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrSignOut):
		msg = service.ErrSignOut.Error()
	}

	if status == http.StatusInternalServerError {
		logger.Error("request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": msg})
}

func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
}

func session(c *gin.Context) *service.Session {
	return middleware.SessionFrom(c)
}
