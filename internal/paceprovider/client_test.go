package paceprovider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"runcoach/internal/paceprofile"
)

// newTestServer serves a token endpoint and pace zones for user 7
func newTestServer(t *testing.T, zones http.HandlerFunc) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-token",
			"token_type":   "bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/users/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		zones(w, r)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(srv *httptest.Server) *Client {
	return New(context.Background(), Config{
		BaseURL:      srv.URL,
		ClientID:     "id",
		ClientSecret: "secret",
		Timeout:      5 * time.Second,
	})
}

func TestPaceBoundaries(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/7/pace-zones" {
			t.Errorf("path = %q, want /users/7/pace-zones", r.URL.Path)
		}
		w.Header().Set("X-RateLimit-Limit", "100,1000")
		w.Header().Set("X-RateLimit-Usage", "10,200")
		w.Write([]byte(`{"easy_min": 330, "marathon_max": 300, "threshold_max": null}`))
	})
	client := newTestClient(srv)

	b, err := client.PaceBoundaries(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, b)
	require.NotNil(t, b.EasyMin)
	require.Equal(t, 330.0, *b.EasyMin)
	require.Equal(t, 300.0, *b.MarathonMax)
	require.Nil(t, b.ThresholdMax)
	require.Nil(t, b.IntervalMax)

	short, daily := client.RateLimitStatus()
	require.Equal(t, 90, short)
	require.Equal(t, 800, daily)
}

func TestPaceBoundaries_NotFound(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	b, err := newTestClient(srv).PaceBoundaries(context.Background(), 7)
	require.NoError(t, err)
	require.Nil(t, b)
}

func TestPaceBoundaries_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		errMsg  string
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			errMsg: "API error 500",
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"easy_min": "fast"`))
			},
			errMsg: "decoding pace boundaries",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.handler)

			_, err := newTestClient(srv).PaceBoundaries(context.Background(), 7)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestPaceBoundaries_StaticToken(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"interval_max": 250}`))
	})

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"})
	client := NewClient(srv.URL+"/", ts, time.Second, 0)

	b, err := client.PaceBoundaries(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, 250.0, *b.IntervalMax)
}

func TestPaceBoundaries_Cancelled(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not be sent")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newTestClient(srv)
	client.rateLimiter.UpdateFromHeaders(http.Header{
		"X-Ratelimit-Limit": []string{"1,1000"},
		"X-Ratelimit-Usage": []string{"1,1"},
	})

	_, err := client.PaceBoundaries(ctx, 7)
	require.ErrorIs(t, err, context.Canceled)
}

func TestPaceBoundaries_QuotaExhaustedFallsThrough(t *testing.T) {
	var requests atomic.Int32
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Header().Set("X-RateLimit-Limit", "100,1000")
		w.Header().Set("X-RateLimit-Usage", "100,1000")
		w.Write([]byte(`{"interval_max": 250, "threshold_max": 280}`))
	})
	client := newTestClient(srv)
	resolver := paceprofile.NewResolver(paceprofile.DefaultSettings(), client, nil)
	paces := []float64{240, 260, 280, 300, 320}

	// The first lookup succeeds and reports the quota as used up
	first := resolver.Resolve(context.Background(), paceprofile.Request{UserID: 7, Paces: paces})
	require.Equal(t, paceprofile.SourceExternalProvider, first.Source)

	_, err := client.PaceBoundaries(context.Background(), 7)
	require.ErrorIs(t, err, ErrRateLimited)

	// The resolver moves on to the next tier without waiting for the reset
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	second := resolver.Resolve(ctx, paceprofile.Request{UserID: 7, Paces: paces})
	require.Less(t, time.Since(start), 500*time.Millisecond)
	require.Equal(t, paceprofile.SourceActivityPercentile, second.Source)
	require.NoError(t, ctx.Err())
	require.Equal(t, int32(1), requests.Load())
}
