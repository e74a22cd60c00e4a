// Package geolocation resolves visitor IPs to locations through ip-api.com.
package geolocation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"shortlink/internal/config"
	"shortlink/internal/domain"
	"shortlink/internal/validation"
)

const statusSuccess = "success"

// Responses are tiny; anything larger is not ip-api.
const maxResponseSize = 64 << 10

type Client struct {
	httpClient  *http.Client
	baseURL     string
	enabled     bool
	limiter     *rate.Limiter
	ipValidator *validation.IPValidator
	logger      *slog.Logger
}

func NewClient(cfg *config.GeoConfig, logger *slog.Logger) *Client {
	limit := rate.Inf
	burst := 1
	if cfg.RatePerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RatePerMinute))
		burst = cfg.RatePerMinute
	}

	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		enabled:     cfg.Enabled,
		limiter:     rate.NewLimiter(limit, burst),
		ipValidator: validation.NewIPValidator(),
		logger:      logger,
	}
}

// Lookup never fails: private addresses, throttling and every upstream
// error yield the empty Location.
func (c *Client) Lookup(ctx context.Context, ip string) domain.Location {
	if !c.enabled || !c.ipValidator.IsPublic(ip) {
		return domain.Location{}
	}

	if !c.limiter.Allow() {
		c.logger.Debug("geolocation lookup throttled", slog.String("ip", ip))
		return domain.Location{}
	}

	loc, err := c.fetch(ctx, strings.TrimSpace(ip))
	if err != nil {
		c.logger.Debug("geolocation lookup failed",
			slog.String("ip", ip),
			slog.String("error", err.Error()))
		return domain.Location{}
	}
	return loc
}

func (c *Client) fetch(ctx context.Context, ip string) (domain.Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+url.PathEscape(ip), nil)
	if err != nil {
		return domain.Location{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Location{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Location{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var loc domain.Location
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&loc); err != nil {
		return domain.Location{}, fmt.Errorf("failed to decode response: %w", err)
	}

	if loc.Status != statusSuccess {
		return domain.Location{}, fmt.Errorf("lookup status %q", loc.Status)
	}
	return loc, nil
}
