// Package shell decides which view a client may show.
package shell

type View string

const (
	ViewHome        View = "home"
	ViewDashboard   View = "dashboard"
	ViewScan        View = "scan"
	ViewMarketplace View = "marketplace"
	ViewOrders      View = "orders"
	ViewAdmin       View = "admin"
)

// State is what the client knows when it navigates.
type State struct {
	Authenticated bool
	HasProfile    bool
	IsAdmin       bool
	Requested     View
}

// Resolve returns the view to render. Signed-out users and users without a
// profile see home. The admin view falls back to the dashboard for
// everyone else, as does any unknown view.
func Resolve(s State) View {
	if !s.Authenticated || !s.HasProfile {
		return ViewHome
	}
	switch s.Requested {
	case ViewDashboard, ViewScan, ViewMarketplace, ViewOrders:
		return s.Requested
	case ViewAdmin:
		if s.IsAdmin {
			return ViewAdmin
		}
	}
	return ViewDashboard
}

type MenuItem struct {
	View  View   `json:"view"`
	Label string `json:"label"`
}

// Menu lists navbar entries in display order.
func Menu(isAdmin bool) []MenuItem {
	items := []MenuItem{
		{ViewDashboard, "Dashboard"},
		{ViewScan, "Scan Tree"},
		{ViewMarketplace, "Marketplace"},
		{ViewOrders, "My Orders"},
	}
	if isAdmin {
		items = append(items, MenuItem{ViewAdmin, "Admin"})
	}
	return items
}
