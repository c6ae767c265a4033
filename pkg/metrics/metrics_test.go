package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInit_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Init()
		Init()
	})
	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, ExportsTotal)
}

func TestObserveExport(t *testing.T) {
	Init()

	before := testutil.ToFloat64(ExportsTotal.WithLabelValues("forbidden"))
	ObserveExport("forbidden", time.Second)
	assert.Equal(t, before+1, testutil.ToFloat64(ExportsTotal.WithLabelValues("forbidden")))
}

func TestIncDomainCacheLookup(t *testing.T) {
	Init()

	before := testutil.ToFloat64(DomainCacheLookupsTotal.WithLabelValues("hit"))
	IncDomainCacheLookup("hit")
	IncDomainCacheLookup("hit")
	assert.Equal(t, before+2, testutil.ToFloat64(DomainCacheLookupsTotal.WithLabelValues("hit")))
}

func TestObserveHTTPRequest(t *testing.T) {
	Init()

	counter := HTTPRequestsTotal.WithLabelValues("GET", "/api/analytics/export", "200")
	before := testutil.ToFloat64(counter)
	ObserveHTTPRequest("GET", "/api/analytics/export", "200", 50*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
