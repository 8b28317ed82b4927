package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	cases := []struct {
		name  string
		state State
		want  View
	}{
		{"signed out", State{Requested: ViewMarketplace}, ViewHome},
		{"no profile yet", State{Authenticated: true, Requested: ViewScan}, ViewHome},
		{"default", State{Authenticated: true, HasProfile: true}, ViewDashboard},
		{"scan", State{Authenticated: true, HasProfile: true, Requested: ViewScan}, ViewScan},
		{"orders", State{Authenticated: true, HasProfile: true, Requested: ViewOrders}, ViewOrders},
		{"admin denied", State{Authenticated: true, HasProfile: true, Requested: ViewAdmin}, ViewDashboard},
		{"admin allowed", State{Authenticated: true, HasProfile: true, IsAdmin: true, Requested: ViewAdmin}, ViewAdmin},
		{"home while signed in", State{Authenticated: true, HasProfile: true, Requested: ViewHome}, ViewDashboard},
		{"unknown", State{Authenticated: true, HasProfile: true, Requested: "settings"}, ViewDashboard},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Resolve(tc.state))
		})
	}
}

func TestMenu(t *testing.T) {
	labels := func(items []MenuItem) []string {
		var out []string
		for _, it := range items {
			out = append(out, it.Label)
		}
		return out
	}

	assert.Equal(t, []string{"Dashboard", "Scan Tree", "Marketplace", "My Orders"}, labels(Menu(false)))
	assert.Equal(t, []string{"Dashboard", "Scan Tree", "Marketplace", "My Orders", "Admin"}, labels(Menu(true)))
}
