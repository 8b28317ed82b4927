package http

import (
	"context"

	"ecogrow/internal/config"
	"ecogrow/internal/domain"
	"ecogrow/internal/http/handlers"
	"ecogrow/internal/http/middleware"
	"ecogrow/internal/repository"
	"ecogrow/internal/reward"
	"ecogrow/internal/service"
	"ecogrow/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"
)

// Stores groups the persistence ports the services need.
type Stores struct {
	Profiles repository.ProfileStore
	Trees    repository.TreeStore
	Items    repository.ItemStore
	Orders   repository.OrderStore
	Roles    repository.RoleStore
	Audit    repository.AuditStore
	Settler  repository.Settler
}

// PostgresStores builds the pgx-backed repositories.
func PostgresStores(db *pgxpool.Pool) Stores {
	return Stores{
		Profiles: repository.NewProfileRepository(db),
		Trees:    repository.NewTreeRepository(db),
		Items:    repository.NewMarketplaceRepository(db),
		Orders:   repository.NewOrderRepository(db),
		Roles:    repository.NewRoleRepository(db),
		Audit:    repository.NewAuditRepository(db),
		Settler:  repository.NewSettlementRepository(db),
	}
}

type Deps struct {
	Config   *config.Config
	Stores   Stores
	Sessions *service.SessionManager
	Hub      *ws.Hub
	// Scorer defaults to the global random source.
	Scorer *reward.Scorer
	DB     handlers.Pinger
	Redis  handlers.Pinger
}

// RedisPinger adapts a go-redis client to handlers.Pinger. It returns nil for
// a nil client so the readiness check skips redis.
func RedisPinger(client *redis.Client) handlers.Pinger {
	if client == nil {
		return nil
	}
	return redisPinger{client}
}

type redisPinger struct{ c *redis.Client }

func (p redisPinger) Ping(ctx context.Context) error { return p.c.Ping(ctx).Err() }

// NewHandler wires services over the stores.
func NewHandler(d Deps) *handlers.Handler {
	scorer := d.Scorer
	if scorer == nil {
		scorer = reward.NewScorer(reward.DefaultSource())
	}
	var notifier service.Notifier = service.NopNotifier()
	if d.Hub != nil {
		notifier = d.Hub
	}

	st := d.Stores
	audit := service.NewAuditService(st.Audit)

	return handlers.NewHandler(handlers.Services{
		Auth:     service.NewAuthService(d.Sessions, st.Profiles, audit),
		Profiles: service.NewProfileService(st.Profiles, st.Roles),
		Scans:    service.NewScanService(st.Profiles, st.Trees, scorer, audit, notifier),
		Orders: service.NewOrderService(service.OrderServiceDeps{
			Profiles: st.Profiles,
			Items:    st.Items,
			Orders:   st.Orders,
			Settler:  st.Settler,
			Audit:    audit,
			Notifier: notifier,
			Mode:     d.Config.OrderSettlementMode,
		}),
		Admin: service.NewAdminService(service.AdminServiceDeps{
			Profiles: st.Profiles,
			Items:    st.Items,
			Orders:   st.Orders,
			Roles:    st.Roles,
			Audit:    audit,
			Notifier: notifier,
		}),
		Leaderboard: service.NewLeaderboardService(st.Profiles),
		Audit:       audit,
	}, handlers.HandlerConfig{
		MaxImageBytes: d.Config.ScanMaxImageBytes,
	})
}

func RegisterRoutes(r *gin.Engine, d Deps) *handlers.Handler {
	cfg := d.Config
	h := NewHandler(d)

	r.Use(middleware.Metrics())

	if d.DB != nil {
		health := handlers.NewHealthHandler(d.DB, d.Redis, cfg.AppVersion)
		r.GET("/health", health.Health)
		r.GET("/healthz", health.Liveness)
		r.GET("/readyz", health.Readiness)
	}

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))
	registerAPIRoutes(v1, h, d.Sessions, cfg)

	// legacy prefix
	api := r.Group("/api")
	api.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))
	registerAPIRoutes(api, h, d.Sessions, cfg)

	if d.Hub != nil {
		r.GET("/ws", ws.HandleWS(d.Hub, d.Sessions, cfg.AllowedOrigin))
	}
	return h
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, sessions *service.SessionManager, cfg *config.Config) {
	auth := middleware.JWT(sessions)

	// Auth
	if cfg.DevMode {
		api.POST("/auth/dev", h.DevSignIn)
	}
	api.POST("/auth/signout", auth, h.SignOut)

	// Profile
	api.GET("/me", auth, h.Me)
	api.PATCH("/me", auth, h.UpdateProfile)
	api.GET("/navigation", middleware.OptionalJWT(sessions), h.Navigation)

	// Scans
	scanRL := middleware.UserRateLimit("scan", cfg.ScanRateLimit, cfg.ScanRateWindow)
	api.POST("/scans", auth, scanRL, h.Scan)
	api.GET("/trees", auth, h.ListTrees)

	// Marketplace
	api.GET("/marketplace/items", h.ListItems)
	api.POST("/orders", auth, h.PlaceOrder)
	api.GET("/orders", auth, h.MyOrders)

	// Leaderboard
	api.GET("/leaderboard", h.GetLeaderboard)
	api.GET("/leaderboard/rank", auth, h.GetMyRank)

	admin := api.Group("/admin")
	admin.Use(auth, middleware.RequireRole(h.Profiles, domain.RoleAdmin))
	{
		admin.GET("/orders", h.AdminListOrders)
		admin.PATCH("/orders/:id/status", h.AdminUpdateOrderStatus)
		admin.GET("/items", h.AdminListItems)
		admin.POST("/items", h.AdminCreateItem)
		admin.DELETE("/items/:id", h.AdminDeleteItem)
		admin.GET("/users", h.AdminListUsers)
		admin.POST("/users/:id/admin", h.AdminToggleAdmin)
		admin.GET("/audit", h.AdminAuditLogs)
	}
}
