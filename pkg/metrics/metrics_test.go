package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"github.com/bplib-go/custodytree/pkg/metrics"
)

func TestOutcomeLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ok", metrics.OutcomeLabel(nil))
	assert.NotEqual(t, "ok", metrics.OutcomeLabel(assertErr{}))
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }

func TestObserveOccupancy(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.ObserveOccupancy(3, 10)

	families, err := reg.Gather()
	assert.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestObserveOccupancyNilSafe(t *testing.T) {
	t.Parallel()

	var m *metrics.Metrics
	assert.NotPanics(t, func() { m.ObserveOccupancy(1, 2) })
}
