package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledgerbridge_http_requests_total",
			Help: "Total HTTP requests by method, path and status code",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "ledgerbridge_http_request_duration_seconds",
			Help: "HTTP request latency",
		},
		[]string{"method", "path"},
	)

	InvoiceDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledgerbridge_invoice_decisions_total",
			Help: "Approve/reject decisions by outcome",
		},
		[]string{"decision"},
	)

	BidsPlaced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ledgerbridge_bids_placed_total",
			Help: "Bids successfully placed",
		},
	)

	RemindersSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledgerbridge_reminders_sent_total",
			Help: "Collection reminders by channel and result",
		},
		[]string{"channel", "result"},
	)

	Disbursements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledgerbridge_disbursements_total",
			Help: "Disbursement attempts by provider and result",
		},
		[]string{"provider", "result"},
	)
)
