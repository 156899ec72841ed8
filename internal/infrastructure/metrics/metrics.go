package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Posting metrics
	EntriesPosted   prometheus.Counter
	PostingsCreated *prometheus.CounterVec
	Reversals       *prometheus.CounterVec
	PostingErrors   *prometheus.CounterVec
	PostingDuration *prometheus.HistogramVec
	PostingAmount   prometheus.Histogram

	// Document metrics
	PledgesCreated   prometheus.Counter
	ReceiptsPosted   prometheus.Counter
	ReceiptsVoided   prometheus.Counter
	BankTransfers    prometheus.Counter
	BankRedemptions  prometheus.Counter
	ExpensesRecorded prometheus.Counter
	VouchersPosted   prometheus.Counter

	// Account metrics
	AccountsCreated prometheus.Counter

	// Consistency metrics
	ConsistencyChecks *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		EntriesPosted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pawnbook_ledger_entries_total",
			Help: "Total number of ledger entries written",
		}),
		PostingsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pawnbook_postings_total",
				Help: "Total balanced postings by business event",
			},
			[]string{"event"},
		),
		Reversals: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pawnbook_reversals_total",
				Help: "Total reversals by business event",
			},
			[]string{"event"},
		),
		PostingErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pawnbook_posting_errors_total",
				Help: "Total posting failures by business event",
			},
			[]string{"event"},
		),
		PostingDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pawnbook_posting_duration_seconds",
				Help:    "Duration of posting transactions",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"event"},
		),
		PostingAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "pawnbook_posting_amount",
			Help:    "Posted amounts",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000},
		}),

		PledgesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pawnbook_pledges_created_total",
			Help: "Total number of pledges created",
		}),
		ReceiptsPosted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pawnbook_receipts_posted_total",
			Help: "Total number of receipts posted",
		}),
		ReceiptsVoided: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pawnbook_receipts_voided_total",
			Help: "Total number of receipts voided",
		}),
		BankTransfers: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pawnbook_bank_transfers_total",
			Help: "Total number of pledges transferred to banks",
		}),
		BankRedemptions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pawnbook_bank_redemptions_total",
			Help: "Total number of bank pledges redeemed",
		}),
		ExpensesRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pawnbook_expenses_recorded_total",
			Help: "Total number of expense transactions recorded",
		}),
		VouchersPosted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pawnbook_vouchers_posted_total",
			Help: "Total number of manual vouchers posted",
		}),

		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pawnbook_accounts_created_total",
			Help: "Total number of chart of accounts nodes created",
		}),

		ConsistencyChecks: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pawnbook_consistency_checks_total",
				Help: "Trial balance consistency checks by result",
			},
			[]string{"result"},
		),
	}
}
