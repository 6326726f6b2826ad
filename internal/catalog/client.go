package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mtzalva/backend-taller/internal/common"
	"github.com/mtzalva/backend-taller/internal/resilience"
)

// Client talks to the collaborator catalog API. Requests carry the caller's
// bearer token so the upstream applies its own authorization.
type Client struct {
	BaseURL string
	HTTP    resilience.HTTPClient
}

// NewClient builds a catalog client with retrying HTTP behavior.
func NewClient(baseURL string, httpClient *http.Client, breaker *resilience.Breaker, timeout time.Duration) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: resilience.HTTPClient{
			Client:      httpClient,
			Breaker:     breaker,
			MaxAttempts: 2,
			BaseBackoff: 200 * time.Millisecond,
			Jitter:      0.2,
			Timeout:     timeout,
		},
	}
}

// Fetch retrieves and normalizes one catalog collection. Upstream error
// statuses are mapped to user-facing errors by HTTP status code.
func (c *Client) Fetch(ctx context.Context, kind Kind, bearerToken string) ([]Item, error) {
	if !kind.Valid() {
		return nil, common.NewAppError("NOT_FOUND", "El recurso solicitado no existe.", http.StatusNotFound, nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+kind.Path(), nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+bearerToken)
	}

	resp, err := c.HTTP.Do(ctx, req)
	if err != nil {
		return nil, common.ClassifyStatus(http.StatusBadGateway, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, common.ClassifyStatus(http.StatusBadGateway, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, common.ClassifyStatus(resp.StatusCode, fmt.Errorf("catalog upstream returned %s", resp.Status))
	}

	items, err := DecodeItems(body)
	if err != nil {
		return nil, common.ClassifyStatus(http.StatusBadGateway, err)
	}
	return items, nil
}
