package handlers

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPromMetrics(t *testing.T) {
	metrics := NewPromMetrics(prometheus.NewRegistry())

	metrics.login("success")
	metrics.login("success")
	metrics.login("bad_credentials")
	metrics.registered()

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.logins.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.logins.WithLabelValues("bad_credentials")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.registrations))
}

func TestNilPromMetrics(t *testing.T) {
	var metrics *PromMetrics
	assert.NotPanics(t, func() {
		metrics.login("success")
		metrics.registered()
	})
}
