package domain

// Notification kinds pushed to connected clients.
const (
	NotifyOrderStatus    = "order_status"
	NotifyBalanceChanged = "balance_changed"
)

const (
	LevelSuccess = "success"
	LevelError   = "error"
)

type Notification struct {
	Type    string         `json:"type"`
	Message string         `json:"message"`
	Level   string         `json:"level"`
	Data    map[string]any `json:"data,omitempty"`
}
