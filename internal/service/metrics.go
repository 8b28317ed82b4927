package service

import "github.com/prometheus/client_golang/prometheus"

var (
	ScansTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ecogrow_scans_total",
		Help: "Completed tree scans",
	})
	CoinsAwarded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ecogrow_coins_awarded_total",
		Help: "EcoCoins awarded by scans",
	})
	OrdersPlaced = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecogrow_orders_placed_total",
			Help: "Orders placed, by settlement mode",
		},
		[]string{"mode"},
	)
	OrderFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecogrow_order_failures_total",
			Help: "Failed buy attempts, by failing step",
		},
		[]string{"step"},
	)
)

func init() {
	prometheus.MustRegister(ScansTotal, CoinsAwarded, OrdersPlaced, OrderFailures)
}
