package adapters

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nzvirtual/api/internal/ports"
)

// PrometheusRecorder counts token validations by outcome.
type PrometheusRecorder struct {
	validations *prometheus.CounterVec
}

func NewPrometheusRecorder(reg prometheus.Registerer) (*PrometheusRecorder, error) {
	validations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nzvirtual",
			Subsystem: "jwt",
			Name:      "validations_total",
			Help:      "Total number of token validations by outcome.",
		},
		[]string{"outcome"},
	)
	if err := reg.Register(validations); err != nil {
		return nil, err
	}
	return &PrometheusRecorder{validations: validations}, nil
}

func (r *PrometheusRecorder) RecordValidation(outcome ports.ValidationOutcome) {
	r.validations.WithLabelValues(outcome.String()).Inc()
}
