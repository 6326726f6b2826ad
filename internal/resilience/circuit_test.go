package resilience

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestBreakerOpensAfterFailureRatio(t *testing.T) {
	b := NewBreaker(4, 0.5, time.Minute, zerolog.Nop())
	for i := 0; i < 2; i++ {
		b.Report(true)
	}
	for i := 0; i < 2; i++ {
		b.Report(false)
	}
	require.Equal(t, Open, b.CurrentState())
	require.False(t, b.Allow())
}

func TestBreakerHalfOpenRecovers(t *testing.T) {
	b := NewBreaker(1, 0.5, 10*time.Millisecond, zerolog.Nop())
	b.Report(false)
	require.Equal(t, Open, b.CurrentState())

	time.Sleep(20 * time.Millisecond)
	require.True(t, b.Allow())
	require.Equal(t, HalfOpen, b.CurrentState())

	b.Report(true)
	require.Equal(t, Closed, b.CurrentState())
}

func TestHTTPClientRetriesOnServerError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cl := HTTPClient{
		Client:      srv.Client(),
		MaxAttempts: 3,
		BaseBackoff: time.Millisecond,
	}
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := cl.Do(context.Background(), req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestHTTPClientRefusesWhenOpen(t *testing.T) {
	b := NewBreaker(1, 0.5, time.Minute, zerolog.Nop())
	b.Report(false)

	cl := HTTPClient{Client: &http.Client{}, Breaker: b, MaxAttempts: 2}
	req, err := http.NewRequest(http.MethodGet, "http://127.0.0.1:0", nil)
	require.NoError(t, err)

	_, err = cl.Do(context.Background(), req)
	require.ErrorIs(t, err, ErrOpenCircuit)
}
