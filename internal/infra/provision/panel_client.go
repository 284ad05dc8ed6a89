package provision

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"hostpanel/internal/pkg/config"

	"github.com/google/uuid"
)

// PanelClient asks the game-server panel to re-read a user's entitlements.
// The call is fire-and-forget from the caller's point of view: the ledger
// already committed, and a failed sync is picked up by the reconciliation
// sweep on the panel side.
type PanelClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewPanelClient(cfg config.ProvisionConfig) *PanelClient {
	return &PanelClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (c *PanelClient) SyncUser(ctx context.Context, userID uuid.UUID) error {
	if c.baseURL == "" {
		return nil
	}

	url := fmt.Sprintf("%s/api/application/users/%s/sync", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("panel sync returned %d", resp.StatusCode)
	}
	return nil
}

// NoopProvisioner is used when no panel is configured (tests, local dev).
type NoopProvisioner struct{}

func (NoopProvisioner) SyncUser(ctx context.Context, userID uuid.UUID) error {
	slog.DebugContext(ctx, "provisioner disabled, skipping sync", "user_id", userID)
	return nil
}
