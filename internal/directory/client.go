// Package directory implements the read-only owner-directory lookup used
// to populate the owner filter selector.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mferrell/dealflow/internal/common"
	"github.com/mferrell/dealflow/internal/service"
)

// Client looks up owners against the directory HTTP service.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a directory client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type ownerResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// Owners fetches the {id, displayName} directory. Any failure degrades to
// an empty list so a broken directory never takes down the list view; the
// cause is logged for the operator.
func (c *Client) Owners(ctx context.Context) ([]service.DirectoryEntry, error) {
	entries, err := c.fetch(ctx)
	if err != nil {
		common.LogWarn("Owner directory lookup failed, using empty list", common.Fields{"error": err})
		return []service.DirectoryEntry{}, nil
	}
	return entries, nil
}

func (c *Client) fetch(ctx context.Context) ([]service.DirectoryEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/owners", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build directory request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directory request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directory returned status %d", resp.StatusCode)
	}

	var owners []ownerResponse
	if err := json.NewDecoder(resp.Body).Decode(&owners); err != nil {
		return nil, fmt.Errorf("failed to decode directory response: %w", err)
	}

	entries := make([]service.DirectoryEntry, 0, len(owners))
	for _, o := range owners {
		entries = append(entries, service.DirectoryEntry{
			ID:          o.ID,
			DisplayName: o.DisplayName,
		})
	}
	return entries, nil
}
