package service

import (
	"context"

	"ecogrow/internal/domain"
	"ecogrow/internal/logger"
	"ecogrow/internal/repository"
)

// AuditService handles audit logging. Writes are best effort: failures are
// logged and never reach the caller.
type AuditService struct {
	repo repository.AuditStore
}

// NewAuditService creates a new audit service
func NewAuditService(repo repository.AuditStore) *AuditService {
	return &AuditService{repo: repo}
}

// Log creates a new audit log entry
func (s *AuditService) Log(ctx context.Context, userID, action, category string, details map[string]any) {
	s.LogWithRequest(ctx, userID, action, category, "", "", details)
}

// LogWithRequest creates an audit log with request info (IP, User-Agent)
func (s *AuditService) LogWithRequest(ctx context.Context, userID, action, category, ip, userAgent string, details map[string]any) {
	if s == nil || s.repo == nil {
		return
	}
	log := &domain.AuditLog{
		UserID:    userID,
		Action:    action,
		Category:  category,
		Details:   details,
		IP:        ip,
		UserAgent: userAgent,
	}

	if err := s.repo.Create(ctx, log); err != nil {
		logger.Error("failed to create audit log", "error", err, "action", action, "user_id", userID)
	}
}

func (s *AuditService) LogLogin(ctx context.Context, userID, ip, userAgent string) {
	s.LogWithRequest(ctx, userID, domain.AuditActionLogin, domain.AuditCategoryAuth, ip, userAgent, nil)
}

func (s *AuditService) LogLogout(ctx context.Context, userID string) {
	s.Log(ctx, userID, domain.AuditActionLogout, domain.AuditCategoryAuth, nil)
}

// LogScan records a scan and the coins it earned.
func (s *AuditService) LogScan(ctx context.Context, userID, treeID string, reward int64) {
	s.Log(ctx, userID, domain.AuditActionTreeScan, domain.AuditCategoryScan, map[string]any{
		"tree_id": treeID,
		"reward":  reward,
	})
}

// LogBalanceChange logs a balance change
func (s *AuditService) LogBalanceChange(ctx context.Context, userID string, change int64, reason string, details map[string]any) {
	action := domain.AuditActionBalanceCredit
	if change < 0 {
		action = domain.AuditActionBalanceDebit
	}

	if details == nil {
		details = make(map[string]any)
	}
	details["change"] = change
	details["reason"] = reason

	s.Log(ctx, userID, action, domain.AuditCategoryBalance, details)
}

func (s *AuditService) LogOrder(ctx context.Context, o *domain.Order, mode string) {
	s.Log(ctx, o.UserID, domain.AuditActionOrderPlaced, domain.AuditCategoryOrder, map[string]any{
		"order_id": o.ID,
		"item_id":  o.ItemID,
		"price":    o.Price,
		"mode":     mode,
	})
}

// LogOrderFailure records the step at which a buy stopped. Earlier steps
// are not undone, so this is the trail for reconciling them.
func (s *AuditService) LogOrderFailure(ctx context.Context, userID, itemID, step string, err error) {
	s.Log(ctx, userID, domain.AuditActionOrderFailed, domain.AuditCategoryOrder, map[string]any{
		"item_id": itemID,
		"step":    step,
		"error":   err.Error(),
	})
}

// LogAdminAction logs an admin action
func (s *AuditService) LogAdminAction(ctx context.Context, adminID, action, targetID string, details map[string]any) {
	if details == nil {
		details = make(map[string]any)
	}
	details["target_id"] = targetID

	s.Log(ctx, adminID, action, domain.AuditCategoryAdmin, details)
}

// GetUserAuditLogs returns audit logs for a user
func (s *AuditService) GetUserAuditLogs(ctx context.Context, userID string, limit int) ([]*domain.AuditLog, error) {
	return s.repo.GetByUserID(ctx, userID, limit)
}

// GetRecentLogs returns recent audit logs
func (s *AuditService) GetRecentLogs(ctx context.Context, limit int) ([]*domain.AuditLog, error) {
	return s.repo.GetRecent(ctx, limit)
}
