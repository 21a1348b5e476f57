// Package metrics exposes conversion counters through Prometheus.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Label values.
const (
	DirectionNormalize   = "normalize"
	DirectionDenormalize = "denormalize"

	OutcomeSuccess = "success"
	OutcomeError   = "error"

	LookupHit    = "hit"
	LookupNone   = "none"
	LookupCached = "cached"

	ModeRaised = "raised"
	ModeSilent = "silent"
)

// Metrics holds the engine collectors. A nil *Metrics records nothing.
type Metrics struct {
	Conversions        *prometheus.CounterVec
	AdapterLookups     *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
}

// New creates the collectors and registers them on reg. Collectors already
// registered by another engine on the same registerer are reused.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "configmapper_conversions_total",
			Help: "Normalize and denormalize calls by outcome.",
		}, []string{"direction", "outcome"}),
		AdapterLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "configmapper_adapter_lookups_total",
			Help: "Adapter registry lookups by result.",
		}, []string{"result"}),
		ValidationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "configmapper_validation_failures_total",
			Help: "Failed property validations, raised or swallowed.",
		}, []string{"mode"}),
	}

	if reg == nil {
		return m, nil
	}

	var err error
	if m.Conversions, err = register(reg, m.Conversions); err != nil {
		return nil, err
	}

	if m.AdapterLookups, err = register(reg, m.AdapterLookups); err != nil {
		return nil, err
	}

	if m.ValidationFailures, err = register(reg, m.ValidationFailures); err != nil {
		return nil, err
	}

	return m, nil
}

func register(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}

		return nil, err
	}

	return c, nil
}

// Conversion counts one top-level call.
func (m *Metrics) Conversion(direction string, err error) {
	if m == nil {
		return
	}

	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}

	m.Conversions.WithLabelValues(direction, outcome).Inc()
}

// AdapterLookup counts one registry lookup.
func (m *Metrics) AdapterLookup(found, cached bool) {
	if m == nil {
		return
	}

	result := LookupNone
	switch {
	case cached:
		result = LookupCached
	case found:
		result = LookupHit
	}

	m.AdapterLookups.WithLabelValues(result).Inc()
}

// ValidationFailure counts one failed validation.
func (m *Metrics) ValidationFailure(silent bool) {
	if m == nil {
		return
	}

	mode := ModeRaised
	if silent {
		mode = ModeSilent
	}

	m.ValidationFailures.WithLabelValues(mode).Inc()
}
