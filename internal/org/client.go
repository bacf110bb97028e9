package org

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/wakelyai/webchat/internal/menu"
)

// ErrNotFound signals that the organization slug does not resolve to any
// tenant. Callers replace the whole widget with the not-found page; every
// other failure degrades to a generic identity instead.
var ErrNotFound = errors.New("organization not found")

// Client fetches tenant metadata and menu data from the public backend.
type Client interface {
	FetchOrganization(ctx context.Context, slug string) (*Organization, error)
	FetchMenu(ctx context.Context, organizationID string) ([]menu.Item, error)
}

// HTTPClient implements Client against the public HTTP API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	logger     apt.Logger
}

// NewHTTPClient creates an HTTP organization client. Organization and menu
// fetches carry no per-request deadline; they happen once per session and
// rely on the client-level timeout.
func NewHTTPClient(baseURL string, logger apt.Logger) *HTTPClient {
	if baseURL == "" {
		baseURL = "http://localhost:8080/api"
	}
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// FetchOrganization resolves a tenant by its URL slug. A backend 404 maps to
// ErrNotFound; any other failure is returned wrapped.
func (c *HTTPClient) FetchOrganization(ctx context.Context, slug string) (*Organization, error) {
	url := fmt.Sprintf("%s/public/org/%s", c.baseURL, slug)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("organization request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("organization backend returned status %d", resp.StatusCode)
	}

	var organization Organization
	if err := json.NewDecoder(resp.Body).Decode(&organization); err != nil {
		return nil, fmt.Errorf("failed to decode organization: %w", err)
	}

	return &organization, nil
}

// FetchMenu loads the published menu for an organization. The menu is a
// non-critical enhancement: every failure is logged and swallowed, returning
// an empty list.
func (c *HTTPClient) FetchMenu(ctx context.Context, organizationID string) ([]menu.Item, error) {
	url := fmt.Sprintf("%s/public/menu/%s", c.baseURL, organizationID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.logger.Infof("Menu request build failed: %v", err)
		return nil, nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Infof("Menu request failed: %v", err)
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Infof("Menu backend returned status %d", resp.StatusCode)
		return nil, nil
	}

	var payload struct {
		Menu []menu.Item `json:"menu"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.Infof("Failed to decode menu: %v", err)
		return nil, nil
	}

	return payload.Menu, nil
}

// NoopClient is a no-op implementation for tests and degraded wiring.
type NoopClient struct{}

func NewNoopClient() *NoopClient {
	return &NoopClient{}
}

func (c *NoopClient) FetchOrganization(ctx context.Context, slug string) (*Organization, error) {
	return nil, ErrNotFound
}

func (c *NoopClient) FetchMenu(ctx context.Context, organizationID string) ([]menu.Item, error) {
	return nil, nil
}
