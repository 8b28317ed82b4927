package service

import (
	"context"
	"errors"
	"strings"

	"ecogrow/internal/domain"
	"ecogrow/internal/logger"
	"ecogrow/internal/repository"

	"github.com/google/uuid"
)

// FilterAll selects every order in ListOrders.
const FilterAll = "all"

// AdminService provides moderation operations. Callers must already have
// passed the admin role check.
type AdminService struct {
	profiles repository.ProfileStore
	items    repository.ItemStore
	orders   repository.OrderStore
	roles    repository.RoleStore
	audit    *AuditService
	notifier Notifier
}

type AdminServiceDeps struct {
	Profiles repository.ProfileStore
	Items    repository.ItemStore
	Orders   repository.OrderStore
	Roles    repository.RoleStore
	Audit    *AuditService
	Notifier Notifier
}

// NewAdminService creates a new admin service
func NewAdminService(d AdminServiceDeps) *AdminService {
	if d.Notifier == nil {
		d.Notifier = NopNotifier()
	}
	return &AdminService{
		profiles: d.Profiles,
		items:    d.Items,
		orders:   d.Orders,
		roles:    d.Roles,
		audit:    d.Audit,
		notifier: d.Notifier,
	}
}

// OrderListing is the filtered list plus counts over the full list.
type OrderListing struct {
	Filter string         `json:"filter"`
	Orders []domain.Order `json:"orders"`
	Counts map[string]int `json:"counts"`
}

// ListOrders fetches every order and filters in memory. Counts always cover
// all orders, keyed by status plus "all".
func (s *AdminService) ListOrders(ctx context.Context, filter string) (*OrderListing, error) {
	if filter == "" {
		filter = FilterAll
	}
	if filter != FilterAll && !domain.OrderStatus(filter).Valid() {
		return nil, ErrInvalidFilter
	}

	all, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(domain.OrderStatuses)+1)
	counts[FilterAll] = len(all)
	for _, st := range domain.OrderStatuses {
		counts[string(st)] = 0
	}

	filtered := []domain.Order{}
	for _, o := range all {
		counts[string(o.Status)]++
		if filter == FilterAll || string(o.Status) == filter {
			filtered = append(filtered, o)
		}
	}

	return &OrderListing{Filter: filter, Orders: filtered, Counts: counts}, nil
}

// UpdateOrderStatus sets any of the five statuses from any other.
func (s *AdminService) UpdateOrderStatus(ctx context.Context, admin *Session, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	o, err := s.orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	s.audit.LogAdminAction(ctx, admin.UserID, domain.AuditActionOrderStatus, o.ID, map[string]any{
		"status": string(status),
	})
	s.notifier.Notify(o.UserID, domain.Notification{
		Type:    domain.NotifyOrderStatus,
		Message: "Your order for " + o.ItemName + " is now " + string(status),
		Level:   domain.LevelSuccess,
		Data: map[string]any{
			"order_id": o.ID,
			"status":   string(status),
		},
	})
	logger.Info("order status updated", "order_id", o.ID, "status", status, "admin_id", admin.UserID)

	return o, nil
}

func (s *AdminService) ListItems(ctx context.Context) ([]domain.MarketplaceItem, error) {
	return s.items.ListNewest(ctx)
}

type CreateItemRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	PriceEcoCoin int64  `json:"price_eco_coin"`
	Stock        int64  `json:"stock"`
}

// CreateItem rejects empty name or description and non-positive price.
// Stock is taken as given.
func (s *AdminService) CreateItem(ctx context.Context, admin *Session, req CreateItemRequest) (*domain.MarketplaceItem, error) {
	name := strings.TrimSpace(req.Name)
	desc := strings.TrimSpace(req.Description)
	if name == "" || desc == "" || req.PriceEcoCoin <= 0 {
		return nil, ErrInvalidItem
	}

	item := &domain.MarketplaceItem{
		ID:           uuid.NewString(),
		Name:         name,
		Description:  desc,
		PriceEcoCoin: req.PriceEcoCoin,
		Stock:        req.Stock,
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}

	s.audit.LogAdminAction(ctx, admin.UserID, domain.AuditActionItemCreate, item.ID, map[string]any{
		"name":  item.Name,
		"price": item.PriceEcoCoin,
		"stock": item.Stock,
	})
	return item, nil
}

// DeleteItem removes the item whether or not orders reference it.
func (s *AdminService) DeleteItem(ctx context.Context, admin *Session, id string) error {
	if err := s.items.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.LogAdminAction(ctx, admin.UserID, domain.AuditActionItemDelete, id, nil)
	return nil
}

type AdminUser struct {
	domain.Profile
	IsAdmin bool `json:"is_admin"`
}

// ListUsers returns profiles newest first, flagged from all admin grants.
func (s *AdminService) ListUsers(ctx context.Context) ([]AdminUser, error) {
	profiles, err := s.profiles.ListNewest(ctx)
	if err != nil {
		return nil, err
	}
	adminIDs, err := s.roles.ListUserIDs(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}

	admins := make(map[string]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}

	users := make([]AdminUser, 0, len(profiles))
	for _, p := range profiles {
		_, ok := admins[p.ID]
		users = append(users, AdminUser{Profile: p, IsAdmin: ok})
	}
	return users, nil
}

// ToggleAdmin grants the admin role if the user lacks it and revokes it
// otherwise, deciding on a fresh read. It returns whether the user is an
// admin afterwards. A grant that loses a race to another grant is fine.
func (s *AdminService) ToggleAdmin(ctx context.Context, admin *Session, userID string) (bool, error) {
	has, err := s.roles.HasRole(ctx, userID, domain.RoleAdmin)
	if errors.Is(err, repository.ErrMultipleRows) {
		has, err = true, nil
	}
	if err != nil {
		return false, err
	}

	if has {
		if err := s.roles.Revoke(ctx, userID, domain.RoleAdmin); err != nil {
			return true, err
		}
		s.audit.LogAdminAction(ctx, admin.UserID, domain.AuditActionRoleRevoke, userID, nil)
		return false, nil
	}

	err = s.roles.Grant(ctx, userID, domain.RoleAdmin)
	if err != nil && !errors.Is(err, repository.ErrDuplicate) {
		return false, err
	}
	s.audit.LogAdminAction(ctx, admin.UserID, domain.AuditActionRoleGrant, userID, nil)
	return true, nil
}
