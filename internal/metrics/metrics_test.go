package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveEvents(t *testing.T) {
	m := New()
	m.ObserveEvents([]string{
		`{"type":"gameStarted","attributes":{"id":"1"}}`,
		`{"type":"gameEnded","attributes":{"id":"1"}}`,
		`{"type":"epochCycled","attributes":{"epoch":"0","next":"1"}}`,
		`{"type":"rewardClaimed","attributes":{"amount":"450"}}`,
		`{"type":"devRewardClaimed","attributes":{"amount":"50"}}`,
		`{"type":"rewardClaimed","attributes":{"amount":"bogus"}}`,
		`not json`,
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsTotal.WithLabelValues("started")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsTotal.WithLabelValues("ended")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EpochsCycled))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CurrentEpoch))
	assert.Equal(t, 450.0, testutil.ToFloat64(m.RewardsPaid.WithLabelValues("player")))
	assert.Equal(t, 50.0, testutil.ToFloat64(m.RewardsPaid.WithLabelValues("developer")))
}

func TestHandlerServesRegistry(t *testing.T) {
	m := New()
	m.Calls.WithLabelValues("arena", "e_cycle", "ok").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `arena_calls_total{method="e_cycle",result="ok",target="arena"} 1`))
}
