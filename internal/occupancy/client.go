package occupancy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Client flips the occupied flag on spots owned by the spots service.
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

type occupancyRequest struct {
	SpotID   string `json:"spot_id"`
	Occupied bool   `json:"occupied"`
}

// SetOccupied marks the spot occupied or free (best-effort).
func (c *Client) SetOccupied(ctx context.Context, spotID string, occupied bool) error {
	if c.baseURL == "" {
		c.logger.Debug("occupancy client disabled, skipping update")
		return nil
	}

	data, err := json.Marshal(occupancyRequest{SpotID: spotID, Occupied: occupied})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/internal/spots/occupancy", c.baseURL), bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("occupancy request failed", zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		c.logger.Warn("occupancy service returned non-success", zap.Int("status", resp.StatusCode))
		return fmt.Errorf("occupancy: non-success status %d", resp.StatusCode)
	}
	return nil
}
