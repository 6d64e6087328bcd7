package observability

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewMetrics_IsolatedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("test", reg)

	m.TransfersSubmitted.WithLabelValues("native_transfer").Inc()
	m.TransfersSubmitted.WithLabelValues("native_transfer").Inc()
	m.BalanceQueries.WithLabelValues("token").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.TransfersSubmitted.WithLabelValues("native_transfer")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BalanceQueries.WithLabelValues("token")))
}

func TestRecordSwapRequest_Status(t *testing.T) {
	before := testutil.ToFloat64(DefaultMetrics.SwapRequests.WithLabelValues("quote", "error"))
	RecordSwapRequest("quote", errors.New("boom"))
	after := testutil.ToFloat64(DefaultMetrics.SwapRequests.WithLabelValues("quote", "error"))
	assert.Equal(t, before+1, after)
}

func TestRecordDBQuery_CountsErrors(t *testing.T) {
	before := testutil.ToFloat64(DefaultMetrics.DBQueryErrors.WithLabelValues("postgres", "insert"))
	RecordDBQuery("postgres", "insert", 0.01, nil)
	RecordDBQuery("postgres", "insert", 0.01, errors.New("dup"))
	after := testutil.ToFloat64(DefaultMetrics.DBQueryErrors.WithLabelValues("postgres", "insert"))
	assert.Equal(t, before+1, after)
}
