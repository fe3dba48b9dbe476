package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/espalier/pkg/ports"
)

type staticEnvironment struct {
	result ports.Result
	err    error
}

func (e staticEnvironment) Fetch(context.Context, []ports.Key) (ports.Result, error) {
	return e.result, e.err
}

func TestObserveResolution(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveResolution(OutcomeResolved)
	m.ObserveResolution(OutcomeResolved)
	m.ObserveResolution(OutcomeNotReady)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.resolutions.WithLabelValues(OutcomeResolved)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolutions.WithLabelValues(OutcomeNotReady)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.resolutions.WithLabelValues(OutcomeFailed)))
}

func TestInstrumentEnvironment(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	env := m.InstrumentEnvironment(staticEnvironment{result: ports.MapResult{}})

	_, err := env.Fetch(context.Background(), []ports.Key{ports.PackageKey("lib")})
	require.NoError(t, err)
	_, err = env.Fetch(context.Background(), []ports.Key{
		ports.PackageKey("lib"),
		ports.ConfigurationKey("host"),
	})
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)

	var sawKeys, sawDuration bool
	for _, fam := range families {
		switch fam.GetName() {
		case "espalier_fetch_keys":
			sawKeys = true
			require.Len(t, fam.GetMetric(), 1)
			summary := fam.GetMetric()[0].GetSummary()
			assert.Equal(t, uint64(2), summary.GetSampleCount())
			assert.Equal(t, 3.0, summary.GetSampleSum())
		case "espalier_fetch_duration_seconds":
			sawDuration = true
			require.Len(t, fam.GetMetric(), 1)
			assert.Equal(t, uint64(2), fam.GetMetric()[0].GetHistogram().GetSampleCount())
		}
	}
	assert.True(t, sawKeys)
	assert.True(t, sawDuration)
}

func TestInstrumentEnvironment_ErrorPassesThrough(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	boom := errors.New("backend down")

	env := m.InstrumentEnvironment(staticEnvironment{err: boom})

	_, err := env.Fetch(context.Background(), nil)
	assert.ErrorIs(t, err, boom)
}
