package domain

import (
	"strings"
	"time"
)

// OrderStatus - статус заказа
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusApproved  OrderStatus = "approved"
	OrderStatusOnTheWay  OrderStatus = "on the way"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderStatuses is every status in workflow order.
var OrderStatuses = [...]OrderStatus{
	OrderStatusPending,
	OrderStatusApproved,
	OrderStatusOnTheWay,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// DeliveryInfo is stored verbatim as JSON on the order row.
type DeliveryInfo struct {
	FullName        string `json:"fullName"`
	Phone           string `json:"phone"`
	WhatsApp        string `json:"whatsapp"`
	Address         string `json:"address"`
	City            string `json:"city"`
	AdditionalNotes string `json:"additionalNotes,omitempty"`
}

// MissingFields returns the JSON names of required fields that are blank.
func (d DeliveryInfo) MissingFields() []string {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"fullName", d.FullName},
		{"phone", d.Phone},
		{"whatsapp", d.WhatsApp},
		{"address", d.Address},
		{"city", d.City},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Order snapshots the item name and price at purchase time. Only Status
// changes after creation.
type Order struct {
	ID           string       `db:"id" json:"id"`
	UserID       string       `db:"user_id" json:"user_id"`
	ItemID       string       `db:"item_id" json:"item_id"`
	ItemName     string       `db:"item_name" json:"item_name"`
	Price        int64        `db:"price" json:"price"`
	DeliveryInfo DeliveryInfo `db:"delivery_info" json:"delivery_info"`
	Status       OrderStatus  `db:"status" json:"status"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}

// Settlement is what the atomic buy path reports after committing.
type Settlement struct {
	Order      *Order `json:"order"`
	NewBalance int64  `json:"new_balance"`
	NewStock   int64  `json:"new_stock"`
}
