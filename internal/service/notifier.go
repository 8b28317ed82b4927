package service

import "ecogrow/internal/domain"

// Notifier pushes a notification to every live connection of a user.
// Delivery is best effort.
type Notifier interface {
	Notify(userID string, n domain.Notification)
}

type nopNotifier struct{}

func (nopNotifier) Notify(string, domain.Notification) {}

// NopNotifier drops every notification.
func NopNotifier() Notifier { return nopNotifier{} }
