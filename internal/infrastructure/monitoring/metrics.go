package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type CollectionsMetrics struct {
	PaymentsRecorded        *prometheus.CounterVec
	PurchasesPaid           prometheus.Counter
	PaymentHistoryFallbacks prometheus.Counter
	OpenObligations         *prometheus.GaugeVec
	OverdueObligations      *prometheus.GaugeVec
	OverdueNotices          *prometheus.CounterVec
	LoanTransitions         *prometheus.CounterVec
}

type NotifierMetrics struct {
	NoticesConsumed *prometheus.CounterVec
}

var (
	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coop_collections_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Collections = CollectionsMetrics{
		PaymentsRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coop_collections_loan_payments_total",
				Help: "Loan payment attempts by outcome.",
			},
			[]string{"status"},
		),
		PurchasesPaid: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "coop_collections_purchases_paid_total",
				Help: "Deferred purchases marked as paid.",
			},
		),
		PaymentHistoryFallbacks: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "coop_collections_payment_history_fallbacks_total",
				Help: "Loans aggregated as if unpaid because their payment history could not be fetched.",
			},
		),
		OpenObligations: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "coop_collections_open_obligations",
				Help: "Open obligations seen by the last collections sweep.",
			},
			[]string{"type"},
		),
		OverdueObligations: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "coop_collections_overdue_obligations",
				Help: "Overdue obligations seen by the last collections sweep.",
			},
			[]string{"type"},
		),
		OverdueNotices: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coop_collections_overdue_notices_total",
				Help: "Overdue notices published by outcome.",
			},
			[]string{"status"},
		),
		LoanTransitions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coop_collections_loan_transitions_total",
				Help: "Loan lifecycle transitions by resulting status.",
			},
			[]string{"status"},
		),
	}

	Notifier = NotifierMetrics{
		NoticesConsumed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coop_collections_notices_consumed_total",
				Help: "Overdue events consumed by the notifier by outcome.",
			},
			[]string{"status"},
		),
	}
)

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordPayment(status string) {
	Collections.PaymentsRecorded.WithLabelValues(status).Inc()
}

func RecordPurchasePaid() {
	Collections.PurchasesPaid.Inc()
}

func RecordPaymentHistoryFallback() {
	Collections.PaymentHistoryFallbacks.Inc()
}

func SetObligationCounts(obligationType string, open, overdue int) {
	Collections.OpenObligations.WithLabelValues(obligationType).Set(float64(open))
	Collections.OverdueObligations.WithLabelValues(obligationType).Set(float64(overdue))
}

func RecordOverdueNotice(status string) {
	Collections.OverdueNotices.WithLabelValues(status).Inc()
}

func RecordLoanTransition(status string) {
	Collections.LoanTransitions.WithLabelValues(status).Inc()
}

func RecordNoticeConsumed(status string) {
	Notifier.NoticesConsumed.WithLabelValues(status).Inc()
}
