package application

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess = "success"
)

// Metrics are the counters exported by the application services.
type Metrics struct {
	unionAccounts *prometheus.CounterVec
}

// NewMetrics registers the application counters with the given registerer,
// if any.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	unionAccounts := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uniond_union_accounts_total",
			Help: "Number of union account creation attempts by outcome.",
		},
		[]string{"outcome"},
	)
	if reg != nil {
		if err := reg.Register(unionAccounts); err != nil {
			return nil, err
		}
	}
	return &Metrics{unionAccounts}, nil
}

func (m *Metrics) observeUnionAccount(err error) {
	if m == nil {
		return
	}
	outcome := outcomeSuccess
	if err != nil {
		outcome = ReasonOf(err).String()
	}
	m.unionAccounts.WithLabelValues(outcome).Inc()
}
