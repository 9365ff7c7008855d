package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCronJobMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCronJobMetrics(reg)

	m.ObserveDuration("consistency-sweep", 250*time.Millisecond)
	m.IncSuccess("consistency-sweep")
	m.IncFailure("consistency-sweep")

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := map[string]*dto.MetricFamily{}
	for _, family := range families {
		byName[family.GetName()] = family
	}

	require.Contains(t, byName, "job_duration_seconds")
	require.Contains(t, byName, "job_success")
	require.Contains(t, byName, "job_failure")
	assert.Equal(t, float64(1), byName["job_success"].GetMetric()[0].GetCounter().GetValue())
	assert.Equal(t, float64(1), byName["job_failure"].GetMetric()[0].GetCounter().GetValue())
}

func TestNilRegistererIsSafe(t *testing.T) {
	m := NewCronJobMetrics(nil)
	m.ObserveDuration("x", time.Second)
	m.IncSuccess("x")
	m.IncFailure("")
}
