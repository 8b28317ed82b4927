package service

import (
	"context"
	"math"
	"strings"

	"ecogrow/internal/domain"
	"ecogrow/internal/logger"
	"ecogrow/internal/repository"
	"ecogrow/internal/reward"

	"github.com/google/uuid"
)

type ScanService struct {
	profiles repository.ProfileStore
	trees    repository.TreeStore
	scorer   *reward.Scorer
	audit    *AuditService
	notifier Notifier
}

func NewScanService(profiles repository.ProfileStore, trees repository.TreeStore, scorer *reward.Scorer, audit *AuditService, notifier Notifier) *ScanService {
	if notifier == nil {
		notifier = NopNotifier()
	}
	return &ScanService{
		profiles: profiles,
		trees:    trees,
		scorer:   scorer,
		audit:    audit,
		notifier: notifier,
	}
}

// ScanRequest carries the user's input. Image only gates submission; its
// bytes are never read.
type ScanRequest struct {
	TreeName string
	Image    []byte
}

type ScanResult struct {
	Tree     domain.Tree     `json:"tree"`
	Reward   int64           `json:"reward"`
	Bonuses  []reward.Bonus  `json:"bonuses"`
	Message  string          `json:"message"`
	Analysis reward.Analysis `json:"analysis"`
}

// Scan validates input, records a tree and credits the reward. Steps that
// succeeded before a failure stay written.
func (s *ScanService) Scan(ctx context.Context, sess *Session, req ScanRequest) (*ScanResult, error) {
	if len(req.Image) == 0 {
		return nil, ErrImageRequired
	}
	name := strings.TrimSpace(req.TreeName)
	if name == "" {
		return nil, ErrTreeNameRequired
	}
	if sess == nil {
		return nil, ErrNotAuthenticated
	}

	res := s.scorer.Analyze()

	tree := domain.Tree{
		ID:            uuid.NewString(),
		UserID:        sess.UserID,
		TreeName:      name,
		GrowthLevel:   res.Metrics.Growth,
		Humidity:      res.Metrics.Humidity,
		SoilCondition: res.Metrics.Soil,
		TotalScans:    1,
	}
	if err := s.trees.Create(ctx, &tree); err != nil {
		return nil, err
	}

	s.credit(ctx, sess.UserID, res.Reward)

	ScansTotal.Inc()
	CoinsAwarded.Add(float64(res.Reward))
	s.audit.LogScan(ctx, sess.UserID, tree.ID, res.Reward)

	return &ScanResult{
		Tree:     tree,
		Reward:   res.Reward,
		Bonuses:  res.Bonuses,
		Message:  MsgScanComplete,
		Analysis: res.Analysis,
	}, nil
}

// credit prefers the atomic procedure and falls back to read-then-write.
// Fallback failures are logged only.
func (s *ScanService) credit(ctx context.Context, userID string, amount int64) {
	log := logger.Component("scan")

	err := s.profiles.IncrementCoins(ctx, userID, amount)
	if err == nil {
		s.afterCredit(ctx, userID, amount)
		return
	}
	log.Warn("increment_eco_coins failed, falling back", "user_id", userID, "error", err)

	p, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		log.Error("fallback credit: read failed", "user_id", userID, "error", err)
		return
	}
	if err := s.profiles.SetCoins(ctx, userID, p.EcoCoins+amount); err != nil {
		log.Error("fallback credit: write failed", "user_id", userID, "error", err)
		return
	}
	s.afterCredit(ctx, userID, amount)
}

func (s *ScanService) afterCredit(ctx context.Context, userID string, amount int64) {
	s.audit.LogBalanceChange(ctx, userID, amount, "tree_scan", nil)

	data := map[string]any{"change": amount}
	if p, err := s.profiles.GetByID(ctx, userID); err == nil {
		data["eco_coins"] = p.EcoCoins
	}
	s.notifier.Notify(userID, domain.Notification{
		Type:    domain.NotifyBalanceChanged,
		Message: MsgScanComplete,
		Level:   domain.LevelSuccess,
		Data:    data,
	})
}

type TreeSummary struct {
	Trees         []domain.Tree `json:"trees"`
	TotalTrees    int           `json:"total_trees"`
	AverageGrowth int64         `json:"average_growth"`
}

func (s *ScanService) ListTrees(ctx context.Context, sess *Session) (*TreeSummary, error) {
	if sess == nil {
		return nil, ErrNotAuthenticated
	}
	trees, err := s.trees.ListByUser(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	return &TreeSummary{
		Trees:         trees,
		TotalTrees:    len(trees),
		AverageGrowth: averageGrowth(trees),
	}, nil
}

// averageGrowth rounds half up, so 22.5 becomes 23.
func averageGrowth(trees []domain.Tree) int64 {
	if len(trees) == 0 {
		return 0
	}
	var sum int
	for _, t := range trees {
		sum += t.GrowthLevel
	}
	return int64(math.Floor(float64(sum)/float64(len(trees)) + 0.5))
}
