package geolocation_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"shortlink/internal/config"
	"shortlink/internal/geolocation"
)

const successBody = `{
	"status": "success",
	"country": "United States",
	"countryCode": "US",
	"region": "VA",
	"regionName": "Virginia",
	"city": "Ashburn",
	"zip": "20149",
	"lat": 39.03,
	"lon": -77.5,
	"timezone": "America/New_York",
	"isp": "Google LLC",
	"org": "Google Public DNS",
	"as": "AS15169 Google LLC",
	"query": "8.8.8.8"
}`

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...func(*config.GeoConfig)) (*geolocation.Client, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := &config.GeoConfig{
		Enabled:       true,
		BaseURL:       srv.URL + "/json",
		Timeout:       time.Second,
		RatePerMinute: 0,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return geolocation.NewClient(cfg, logger), &calls
}

func TestLookup_Success(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, successBody)
	})

	loc := client.Lookup(context.Background(), "8.8.8.8")

	assert.Equal(t, "/json/8.8.8.8", gotPath)
	assert.Equal(t, "success", loc.Status)
	assert.Equal(t, "United States", loc.Country)
	assert.Equal(t, "US", loc.CountryCode)
	assert.Equal(t, "Ashburn", loc.City)
	assert.InDelta(t, 39.03, loc.Lat, 0.0001)
	assert.InDelta(t, -77.5, loc.Lon, 0.0001)
	assert.Equal(t, "AS15169 Google LLC", loc.AS)
}

func TestLookup_FailStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"fail","message":"reserved range","query":"8.8.8.8"}`)
	})

	assert.True(t, client.Lookup(context.Background(), "8.8.8.8").IsEmpty())
}

func TestLookup_NonOKStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, successBody)
	})

	assert.True(t, client.Lookup(context.Background(), "8.8.8.8").IsEmpty())
}

func TestLookup_MalformedBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status": "success", "lat": "north"`)
	})

	assert.True(t, client.Lookup(context.Background(), "8.8.8.8").IsEmpty())
}

func TestLookup_Timeout(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}, func(cfg *config.GeoConfig) {
		cfg.Timeout = 50 * time.Millisecond
	})

	start := time.Now()
	loc := client.Lookup(context.Background(), "8.8.8.8")

	assert.True(t, loc.IsEmpty())
	assert.Less(t, time.Since(start), time.Second)
}

func TestLookup_NetworkError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := geolocation.NewClient(&config.GeoConfig{
		Enabled: true,
		BaseURL: "http://127.0.0.1:1/json",
		Timeout: time.Second,
	}, logger)

	assert.True(t, client.Lookup(context.Background(), "8.8.8.8").IsEmpty())
}

func TestLookup_CancelledContext(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, successBody)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.True(t, client.Lookup(ctx, "8.8.8.8").IsEmpty())
}

func TestLookup_SkipsNonPublicAddresses(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, successBody)
	})

	for _, ip := range []string{"127.0.0.1", "10.0.0.5", "::1", "fd00::7", "2001:db8::1", "198.18.0.1", "", "unknown"} {
		assert.True(t, client.Lookup(context.Background(), ip).IsEmpty(), ip)
	}
	assert.Zero(t, calls.Load())
}

func TestLookup_Disabled(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, successBody)
	}, func(cfg *config.GeoConfig) {
		cfg.Enabled = false
	})

	assert.True(t, client.Lookup(context.Background(), "8.8.8.8").IsEmpty())
	assert.Zero(t, calls.Load())
}

func TestLookup_Throttled(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, successBody)
	}, func(cfg *config.GeoConfig) {
		cfg.RatePerMinute = 2
	})

	ctx := context.Background()
	assert.False(t, client.Lookup(ctx, "8.8.8.8").IsEmpty())
	assert.False(t, client.Lookup(ctx, "8.8.8.8").IsEmpty())
	assert.True(t, client.Lookup(ctx, "8.8.8.8").IsEmpty())
	assert.Equal(t, int32(2), calls.Load())
}
