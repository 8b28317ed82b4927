// Package memstore is an in-process implementation of the repository
// interfaces. It backs service and handler tests and supports injecting
// failures into individual operations.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"ecogrow/internal/domain"
	"ecogrow/internal/repository"

	"github.com/google/uuid"
)

// Operation names accepted by Fail.
const (
	OpProfileGet       = "profiles.get"
	OpProfileCreate    = "profiles.create"
	OpProfileUpdate    = "profiles.update"
	OpProfileSetCoins  = "profiles.set_coins"
	OpProfileIncrement = "profiles.increment"
	OpProfileRank      = "profiles.rank"
	OpProfileList      = "profiles.list"
	OpTreeCreate       = "trees.create"
	OpTreeList         = "trees.list"
	OpItemGet          = "items.get"
	OpItemList         = "items.list"
	OpItemCreate       = "items.create"
	OpItemDelete       = "items.delete"
	OpItemSetStock     = "items.set_stock"
	OpOrderCreate      = "orders.create"
	OpOrderList        = "orders.list"
	OpOrderUpdate      = "orders.update_status"
	OpRoleHas          = "roles.has"
	OpRoleGrant        = "roles.grant"
	OpRoleRevoke       = "roles.revoke"
	OpRoleList         = "roles.list"
	OpAuditCreate      = "audit.create"
	OpSettle           = "settle"
)

type Store struct {
	mu sync.Mutex

	profiles map[string]*domain.Profile
	items    map[string]*domain.MarketplaceItem
	trees    []domain.Tree
	orders   []domain.Order
	grants   []domain.RoleGrant
	audit    []*domain.AuditLog
	auditSeq int64

	failures map[string]error
	calls    map[string]int

	clock time.Time
}

func New() *Store {
	return &Store{
		profiles: make(map[string]*domain.Profile),
		items:    make(map[string]*domain.MarketplaceItem),
		failures: make(map[string]error),
		calls:    make(map[string]int),
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Fail makes every later call of op return err. A nil err clears it.
func (s *Store) Fail(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// Calls reports how many times op was invoked, failed calls included.
func (s *Store) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// enter records the call and returns the injected failure, if any.
// Callers hold s.mu.
func (s *Store) enter(op string) error {
	s.calls[op]++
	return s.failures[op]
}

// tick returns a strictly increasing timestamp so "newest first" is stable.
func (s *Store) tick() time.Time {
	s.clock = s.clock.Add(time.Millisecond)
	return s.clock
}

func (s *Store) Profiles() *Profiles { return &Profiles{s} }
func (s *Store) Trees() *Trees       { return &Trees{s} }
func (s *Store) Items() *Items       { return &Items{s} }
func (s *Store) Orders() *Orders     { return &Orders{s} }
func (s *Store) Roles() *Roles       { return &Roles{s} }
func (s *Store) Audit() *Audit       { return &Audit{s} }
func (s *Store) Settler() *Settler   { return &Settler{s} }

// Seeding helpers. They bypass failure injection.

func (s *Store) PutProfile(p domain.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.tick()
		p.UpdatedAt = p.CreatedAt
	}
	if p.Badges == nil {
		p.Badges = []string{}
	}
	s.profiles[p.ID] = &p
}

func (s *Store) PutItem(item domain.MarketplaceItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = s.tick()
		item.UpdatedAt = item.CreatedAt
	}
	s.items[item.ID] = &item
}

// PutGrant appends a grant without the uniqueness check.
func (s *Store) PutGrant(userID string, role domain.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grants = append(s.grants, domain.RoleGrant{
		ID: uuid.NewString(), UserID: userID, Role: role, CreatedAt: s.tick(),
	})
}

// Inspection helpers for assertions.

func (s *Store) Profile(id string) (domain.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return domain.Profile{}, false
	}
	return *p, true
}

func (s *Store) Item(id string) (domain.MarketplaceItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return domain.MarketplaceItem{}, false
	}
	return *item, true
}

func (s *Store) AllOrders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Order(nil), s.orders...)
}

func (s *Store) AllTrees() []domain.Tree {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Tree(nil), s.trees...)
}

func (s *Store) AuditLogs() []*domain.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*domain.AuditLog(nil), s.audit...)
}

type Profiles struct{ s *Store }

var _ repository.ProfileStore = (*Profiles)(nil)

func (r *Profiles) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpProfileGet); err != nil {
		return nil, err
	}
	p, ok := r.s.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *Profiles) Create(_ context.Context, p *domain.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpProfileCreate); err != nil {
		return err
	}
	if _, ok := r.s.profiles[p.ID]; ok {
		return repository.ErrDuplicate
	}
	if p.Badges == nil {
		p.Badges = []string{}
	}
	p.CreatedAt = r.s.tick()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	r.s.profiles[p.ID] = &cp
	return nil
}

func (r *Profiles) Update(_ context.Context, id, fullName string, location *string) (*domain.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpProfileUpdate); err != nil {
		return nil, err
	}
	p, ok := r.s.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.FullName = fullName
	p.Location = location
	p.UpdatedAt = r.s.tick()
	cp := *p
	return &cp, nil
}

func (r *Profiles) SetCoins(_ context.Context, id string, coins int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpProfileSetCoins); err != nil {
		return err
	}
	p, ok := r.s.profiles[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.EcoCoins = coins
	p.UpdatedAt = r.s.tick()
	return nil
}

func (r *Profiles) IncrementCoins(_ context.Context, id string, amount int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpProfileIncrement); err != nil {
		return err
	}
	p, ok := r.s.profiles[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.EcoCoins += amount
	p.UpdatedAt = r.s.tick()
	return nil
}

// GetRank mirrors RANK() OVER (ORDER BY eco_coins DESC): ties share a rank.
func (r *Profiles) GetRank(_ context.Context, id string) (*domain.Rank, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpProfileRank); err != nil {
		return nil, err
	}
	p, ok := r.s.profiles[id]
	if !ok {
		return nil, nil
	}
	rank := int64(1)
	for _, other := range r.s.profiles {
		if other.EcoCoins > p.EcoCoins {
			rank++
		}
	}
	return &domain.Rank{Rank: rank, TotalUsers: int64(len(r.s.profiles))}, nil
}

func (r *Profiles) ListByCoins(_ context.Context) ([]domain.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpProfileList); err != nil {
		return nil, err
	}
	out := r.s.profileSlice()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].EcoCoins != out[j].EcoCoins {
			return out[i].EcoCoins > out[j].EcoCoins
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *Profiles) ListNewest(_ context.Context) ([]domain.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpProfileList); err != nil {
		return nil, err
	}
	out := r.s.profileSlice()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) profileSlice() []domain.Profile {
	out := make([]domain.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, *p)
	}
	// map order is random; settle on id first so later stable sorts are deterministic
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type Trees struct{ s *Store }

var _ repository.TreeStore = (*Trees)(nil)

func (r *Trees) Create(_ context.Context, t *domain.Tree) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpTreeCreate); err != nil {
		return err
	}
	t.CreatedAt = r.s.tick()
	t.UpdatedAt = t.CreatedAt
	r.s.trees = append(r.s.trees, *t)
	return nil
}

func (r *Trees) ListByUser(_ context.Context, userID string) ([]domain.Tree, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpTreeList); err != nil {
		return nil, err
	}
	out := []domain.Tree{}
	for i := len(r.s.trees) - 1; i >= 0; i-- {
		if r.s.trees[i].UserID == userID {
			out = append(out, r.s.trees[i])
		}
	}
	return out, nil
}

type Items struct{ s *Store }

var _ repository.ItemStore = (*Items)(nil)

func (r *Items) GetByID(_ context.Context, id string) (*domain.MarketplaceItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpItemGet); err != nil {
		return nil, err
	}
	item, ok := r.s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *item
	return &cp, nil
}

func (r *Items) ListByName(_ context.Context) ([]domain.MarketplaceItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpItemList); err != nil {
		return nil, err
	}
	out := r.s.itemSlice()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *Items) ListNewest(_ context.Context) ([]domain.MarketplaceItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpItemList); err != nil {
		return nil, err
	}
	out := r.s.itemSlice()
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) itemSlice() []domain.MarketplaceItem {
	out := make([]domain.MarketplaceItem, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Items) Create(_ context.Context, item *domain.MarketplaceItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpItemCreate); err != nil {
		return err
	}
	if _, ok := r.s.items[item.ID]; ok {
		return repository.ErrDuplicate
	}
	item.CreatedAt = r.s.tick()
	item.UpdatedAt = item.CreatedAt
	cp := *item
	r.s.items[item.ID] = &cp
	return nil
}

func (r *Items) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpItemDelete); err != nil {
		return err
	}
	delete(r.s.items, id)
	return nil
}

func (r *Items) SetStock(_ context.Context, id string, stock int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpItemSetStock); err != nil {
		return err
	}
	item, ok := r.s.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	item.Stock = stock
	item.UpdatedAt = r.s.tick()
	return nil
}

type Orders struct{ s *Store }

var _ repository.OrderStore = (*Orders)(nil)

func (r *Orders) Create(_ context.Context, o *domain.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpOrderCreate); err != nil {
		return err
	}
	r.s.insertOrder(o)
	return nil
}

func (s *Store) insertOrder(o *domain.Order) {
	if o.Status == "" {
		o.Status = domain.OrderStatusPending
	}
	o.CreatedAt = s.tick()
	o.UpdatedAt = o.CreatedAt
	s.orders = append(s.orders, *o)
}

func (r *Orders) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpOrderList); err != nil {
		return nil, err
	}
	out := []domain.Order{}
	for i := len(r.s.orders) - 1; i >= 0; i-- {
		if r.s.orders[i].UserID == userID {
			out = append(out, r.s.orders[i])
		}
	}
	return out, nil
}

func (r *Orders) ListAll(_ context.Context) ([]domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpOrderList); err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(r.s.orders))
	for i := len(r.s.orders) - 1; i >= 0; i-- {
		out = append(out, r.s.orders[i])
	}
	return out, nil
}

func (r *Orders) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpOrderUpdate); err != nil {
		return nil, err
	}
	for i := range r.s.orders {
		if r.s.orders[i].ID == id {
			r.s.orders[i].Status = status
			r.s.orders[i].UpdatedAt = r.s.tick()
			cp := r.s.orders[i]
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

type Roles struct{ s *Store }

var _ repository.RoleStore = (*Roles)(nil)

func (r *Roles) HasRole(_ context.Context, userID string, role domain.Role) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpRoleHas); err != nil {
		return false, err
	}
	n := 0
	for _, g := range r.s.grants {
		if g.UserID == userID && g.Role == role {
			n++
		}
	}
	if n > 1 {
		return false, repository.ErrMultipleRows
	}
	return n == 1, nil
}

func (r *Roles) Grant(_ context.Context, userID string, role domain.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpRoleGrant); err != nil {
		return err
	}
	for _, g := range r.s.grants {
		if g.UserID == userID && g.Role == role {
			return repository.ErrDuplicate
		}
	}
	r.s.grants = append(r.s.grants, domain.RoleGrant{
		ID: uuid.NewString(), UserID: userID, Role: role, CreatedAt: r.s.tick(),
	})
	return nil
}

func (r *Roles) Revoke(_ context.Context, userID string, role domain.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpRoleRevoke); err != nil {
		return err
	}
	kept := r.s.grants[:0]
	for _, g := range r.s.grants {
		if g.UserID == userID && g.Role == role {
			continue
		}
		kept = append(kept, g)
	}
	r.s.grants = kept
	return nil
}

func (r *Roles) ListUserIDs(_ context.Context, role domain.Role) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpRoleList); err != nil {
		return nil, err
	}
	ids := []string{}
	for _, g := range r.s.grants {
		if g.Role == role {
			ids = append(ids, g.UserID)
		}
	}
	return ids, nil
}

type Audit struct{ s *Store }

var _ repository.AuditStore = (*Audit)(nil)

func (r *Audit) Create(_ context.Context, log *domain.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpAuditCreate); err != nil {
		return err
	}
	r.s.auditSeq++
	log.ID = r.s.auditSeq
	log.CreatedAt = r.s.tick()
	cp := *log
	r.s.audit = append(r.s.audit, &cp)
	return nil
}

func (r *Audit) GetByUserID(_ context.Context, userID string, limit int) ([]*domain.AuditLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*domain.AuditLog{}
	for i := len(r.s.audit) - 1; i >= 0 && len(out) < limit; i-- {
		if r.s.audit[i].UserID == userID {
			out = append(out, r.s.audit[i])
		}
	}
	return out, nil
}

func (r *Audit) GetRecent(_ context.Context, limit int) ([]*domain.AuditLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*domain.AuditLog{}
	for i := len(r.s.audit) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.s.audit[i])
	}
	return out, nil
}

// Settler applies the buy flow under the store lock, with the same checks
// as the transactional repository.
type Settler struct{ s *Store }

var _ repository.Settler = (*Settler)(nil)

func (r *Settler) SettleOrder(_ context.Context, o *domain.Order) (*domain.Settlement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpSettle); err != nil {
		return nil, err
	}
	p, ok := r.s.profiles[o.UserID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	item, ok := r.s.items[o.ItemID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	o.ItemName = item.Name
	o.Price = item.PriceEcoCoin
	if p.EcoCoins < item.PriceEcoCoin {
		return nil, repository.ErrInsufficientFunds
	}
	if item.Stock <= 0 {
		return nil, repository.ErrOutOfStock
	}
	p.EcoCoins -= item.PriceEcoCoin
	item.Stock--
	o.Status = domain.OrderStatusPending
	r.s.insertOrder(o)
	return &domain.Settlement{Order: o, NewBalance: p.EcoCoins, NewStock: item.Stock}, nil
}
