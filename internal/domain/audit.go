package domain

import "time"

// AuditLog represents an audit log entry for tracking important actions
type AuditLog struct {
	ID        int64          `db:"id" json:"id"`
	UserID    string         `db:"user_id" json:"user_id"`
	Action    string         `db:"action" json:"action"`
	Category  string         `db:"category" json:"category"`
	Details   map[string]any `db:"details" json:"details"`
	IP        string         `db:"ip" json:"ip,omitempty"`
	UserAgent string         `db:"user_agent" json:"user_agent,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// Audit action categories
const (
	AuditCategoryAuth    = "auth"
	AuditCategoryScan    = "scan"
	AuditCategoryBalance = "balance"
	AuditCategoryOrder   = "order"
	AuditCategoryAdmin   = "admin"
)

// Audit actions
const (
	AuditActionLogin  = "login"
	AuditActionLogout = "logout"

	AuditActionTreeScan      = "tree_scan"
	AuditActionBalanceCredit = "balance_credit"
	AuditActionBalanceDebit  = "balance_debit"

	AuditActionOrderPlaced = "order_placed"
	AuditActionOrderFailed = "order_failed"

	AuditActionOrderStatus = "admin_order_status"
	AuditActionItemCreate  = "admin_item_create"
	AuditActionItemDelete  = "admin_item_delete"
	AuditActionRoleGrant   = "admin_role_grant"
	AuditActionRoleRevoke  = "admin_role_revoke"
)
