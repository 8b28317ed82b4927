package service

import "errors"

// User-facing errors. Handlers return err.Error() as-is, so the text is
// what the client shows.
var (
	ErrNotAuthenticated  = errors.New("Not authenticated")
	ErrImageRequired     = errors.New("Please upload an image first!")
	ErrTreeNameRequired  = errors.New("Please enter a tree name!")
	ErrInsufficientCoins = errors.New("Insufficient EcoCoins")
	ErrOutOfStock        = errors.New("Item is out of stock")
	ErrInvalidItem       = errors.New("Please fill all fields correctly")
	ErrInvalidDelivery   = errors.New("Please fill all delivery details")
	ErrFullNameRequired  = errors.New("Full name is required")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidFilter     = errors.New("invalid status filter")
	ErrProfileNotFound   = errors.New("profile not found")
	ErrItemNotFound      = errors.New("item not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrSignOut           = errors.New("failed to sign out")
	ErrInvalidToken      = errors.New("invalid token")
	ErrTokenRevoked      = errors.New("token revoked")
)

// Messages returned on success.
const (
	MsgScanComplete  = "Tree analysis complete! 🌳"
	MsgOrderPlaced   = "Order placed successfully! Check \"My Orders\" for tracking."
	MsgItemCreated   = "Marketplace item created successfully"
	MsgItemDeleted   = "Marketplace item deleted"
	MsgAdminGranted  = "Admin role granted"
	MsgAdminRevoked  = "Admin role removed"
	MsgLoggedOut     = "Logged out successfully"
	MsgStatusUpdated = "Order status updated to: "
)
