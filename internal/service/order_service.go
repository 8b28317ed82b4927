package service

import (
	"context"
	"errors"

	"ecogrow/internal/config"
	"ecogrow/internal/domain"
	"ecogrow/internal/logger"
	"ecogrow/internal/repository"

	"github.com/google/uuid"
)

// Steps of the sequential buy flow, used for metrics and the audit trail.
const (
	StepPrecheck       = "precheck"
	StepOrderInsert    = "order_insert"
	StepBalanceDebit   = "balance_debit"
	StepStockDecrement = "stock_decrement"
	StepSettle         = "settle"
)

type OrderService struct {
	profiles repository.ProfileStore
	items    repository.ItemStore
	orders   repository.OrderStore
	settler  repository.Settler
	audit    *AuditService
	notifier Notifier
	mode     string
}

type OrderServiceDeps struct {
	Profiles repository.ProfileStore
	Items    repository.ItemStore
	Orders   repository.OrderStore
	Settler  repository.Settler
	Audit    *AuditService
	Notifier Notifier
	// Mode is config.SettlementSequential or config.SettlementAtomic.
	Mode string
}

func NewOrderService(d OrderServiceDeps) *OrderService {
	if d.Notifier == nil {
		d.Notifier = NopNotifier()
	}
	if d.Mode == "" {
		d.Mode = config.SettlementSequential
	}
	return &OrderService{
		profiles: d.Profiles,
		items:    d.Items,
		orders:   d.Orders,
		settler:  d.Settler,
		audit:    d.Audit,
		notifier: d.Notifier,
		mode:     d.Mode,
	}
}

func (s *OrderService) Mode() string { return s.mode }

// ListItems is the storefront, sorted by name.
func (s *OrderService) ListItems(ctx context.Context) ([]domain.MarketplaceItem, error) {
	return s.items.ListByName(ctx)
}

func (s *OrderService) ListMyOrders(ctx context.Context, sess *Session) ([]domain.Order, error) {
	if sess == nil {
		return nil, ErrNotAuthenticated
	}
	return s.orders.ListByUser(ctx, sess.UserID)
}

// CanBuy checks balance first, then stock.
func CanBuy(p *domain.Profile, item *domain.MarketplaceItem) error {
	if p.EcoCoins < item.PriceEcoCoin {
		return ErrInsufficientCoins
	}
	if item.Stock <= 0 {
		return ErrOutOfStock
	}
	return nil
}

type PlaceOrderRequest struct {
	ItemID   string              `json:"item_id"`
	Delivery domain.DeliveryInfo `json:"delivery_info"`
}

type PlaceOrderResult struct {
	Order      *domain.Order            `json:"order"`
	NewBalance int64                    `json:"new_balance"`
	Items      []domain.MarketplaceItem `json:"items"`
	Message    string                   `json:"message"`
}

// PlaceOrder validates against the profile and item as read now, then
// settles. In sequential mode the three writes are independent and a failure
// leaves earlier writes in place; two concurrent buyers can both pass the
// checks. Atomic mode runs them in one transaction instead.
func (s *OrderService) PlaceOrder(ctx context.Context, sess *Session, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	if sess == nil {
		return nil, ErrNotAuthenticated
	}
	if len(req.Delivery.MissingFields()) > 0 {
		return nil, ErrInvalidDelivery
	}

	profile, err := s.profiles.GetByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	item, err := s.items.GetByID(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	if err := CanBuy(profile, item); err != nil {
		OrderFailures.WithLabelValues(StepPrecheck).Inc()
		return nil, err
	}

	order := &domain.Order{
		ID:           uuid.NewString(),
		UserID:       sess.UserID,
		ItemID:       item.ID,
		ItemName:     item.Name,
		Price:        item.PriceEcoCoin,
		DeliveryInfo: req.Delivery,
		Status:       domain.OrderStatusPending,
	}

	var newBalance int64
	if s.mode == config.SettlementAtomic {
		newBalance, err = s.settleAtomic(ctx, order)
	} else {
		newBalance, err = s.settleSequential(ctx, order, profile, item)
	}
	if err != nil {
		return nil, err
	}

	OrdersPlaced.WithLabelValues(s.mode).Inc()
	s.audit.LogOrder(ctx, order, s.mode)
	s.audit.LogBalanceChange(ctx, sess.UserID, -order.Price, "order", map[string]any{"order_id": order.ID})
	s.notifier.Notify(sess.UserID, domain.Notification{
		Type:    domain.NotifyBalanceChanged,
		Message: MsgOrderPlaced,
		Level:   domain.LevelSuccess,
		Data: map[string]any{
			"eco_coins": newBalance,
			"change":    -order.Price,
			"order_id":  order.ID,
		},
	})

	items, err := s.items.ListByName(ctx)
	if err != nil {
		logger.Warn("failed to refresh items after order", "order_id", order.ID, "error", err)
		items = []domain.MarketplaceItem{}
	}

	return &PlaceOrderResult{
		Order:      order,
		NewBalance: newBalance,
		Items:      items,
		Message:    MsgOrderPlaced,
	}, nil
}

func (s *OrderService) settleSequential(ctx context.Context, o *domain.Order, p *domain.Profile, item *domain.MarketplaceItem) (int64, error) {
	if err := s.orders.Create(ctx, o); err != nil {
		return 0, s.stepFailed(ctx, o, StepOrderInsert, err)
	}

	newBalance := p.EcoCoins - item.PriceEcoCoin
	if err := s.profiles.SetCoins(ctx, o.UserID, newBalance); err != nil {
		return 0, s.stepFailed(ctx, o, StepBalanceDebit, err)
	}

	if err := s.items.SetStock(ctx, item.ID, item.Stock-1); err != nil {
		return 0, s.stepFailed(ctx, o, StepStockDecrement, err)
	}

	return newBalance, nil
}

func (s *OrderService) settleAtomic(ctx context.Context, o *domain.Order) (int64, error) {
	st, err := s.settler.SettleOrder(ctx, o)
	switch {
	case errors.Is(err, repository.ErrInsufficientFunds):
		OrderFailures.WithLabelValues(StepPrecheck).Inc()
		return 0, ErrInsufficientCoins
	case errors.Is(err, repository.ErrOutOfStock):
		OrderFailures.WithLabelValues(StepPrecheck).Inc()
		return 0, ErrOutOfStock
	case errors.Is(err, repository.ErrNotFound):
		OrderFailures.WithLabelValues(StepSettle).Inc()
		return 0, ErrItemNotFound
	case err != nil:
		return 0, s.stepFailed(ctx, o, StepSettle, err)
	}
	return st.NewBalance, nil
}

// stepFailed records the failure and returns err unchanged so its message
// reaches the user.
func (s *OrderService) stepFailed(ctx context.Context, o *domain.Order, step string, err error) error {
	OrderFailures.WithLabelValues(step).Inc()
	logger.Error("order step failed",
		"step", step,
		"order_id", o.ID,
		"user_id", o.UserID,
		"item_id", o.ItemID,
		"error", err,
	)
	s.audit.LogOrderFailure(ctx, o.UserID, o.ItemID, step, err)
	return err
}

