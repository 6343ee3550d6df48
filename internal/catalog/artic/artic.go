package artic

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/vbonduro/travelplanner/internal/catalog"
)

const (
	DefaultBaseURL = "https://api.artic.edu/api/v1"
	DefaultTimeout = 5 * time.Second
)

// Client checks artwork ids against the Art Institute of Chicago API.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *Client) Exists(ctx context.Context, externalID int64) bool {
	return c.Lookup(ctx, externalID) == catalog.Found
}

func (c *Client) Lookup(ctx context.Context, externalID int64) catalog.Result {
	url := fmt.Sprintf("%s/artworks/%d?fields=id", c.baseURL, externalID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.logger.Error("failed to create catalog request", "external_id", externalID, "error", err)
		return catalog.Unreachable
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("catalog lookup failed", "external_id", externalID, "error", err)
		return catalog.Unreachable
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		c.logger.Debug("catalog artwork found", "external_id", externalID, "duration_ms", time.Since(start).Milliseconds())
		return catalog.Found
	case resp.StatusCode == http.StatusNotFound:
		c.logger.Info("catalog artwork not found", "external_id", externalID)
		return catalog.NotFound
	default:
		c.logger.Warn("catalog returned unexpected status", "external_id", externalID, "status", resp.StatusCode)
		return catalog.Unreachable
	}
}
