package geofence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Event is the callback payload the geofence service posts back to us.
type Event struct {
	UserID int64  `json:"user_id"`
	SpotID string `json:"spot_id"`
	Type   string `json:"type"` // "entered" or "exited"
}

// Client registers spot coordinates with the external geofence service.
// Best-effort: registration failures are reported to the caller but the
// booking lifecycle does not depend on them.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient builds HTTP client wrapper. Empty baseURL disables the client.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		logger: logger,
	}
}

type monitorRequest struct {
	SpotID    string  `json:"spot_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type stopRequest struct {
	SpotID string `json:"spot_id"`
}

// Monitor asks the geofence service to watch the spot's coordinates.
func (c *Client) Monitor(ctx context.Context, spotID string, lat, lon float64) error {
	if c.baseURL == "" {
		c.logger.Debug("geofence client disabled, skipping monitor registration")
		return nil
	}
	return c.post(ctx, "/internal/geofence/monitors", monitorRequest{
		SpotID:    spotID,
		Latitude:  lat,
		Longitude: lon,
	})
}

// StopMonitoring removes the watch for the spot.
func (c *Client) StopMonitoring(ctx context.Context, spotID string) error {
	if c.baseURL == "" {
		c.logger.Debug("geofence client disabled, skipping monitor removal")
		return nil
	}
	return c.post(ctx, "/internal/geofence/monitors/stop", stopRequest{SpotID: spotID})
}

func (c *Client) post(ctx context.Context, path string, body interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s%s", c.baseURL, path), bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("geofence request failed", zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		c.logger.Warn("geofence service returned non-success", zap.Int("status", resp.StatusCode))
		return fmt.Errorf("geofence: non-success status %d", resp.StatusCode)
	}
	return nil
}
