// Package search is the client side of the external search/index
// collaborator invoked after publish and preview builds.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"exhibits-dashboard/config"
)

// Indexer pushes an exhibit into the external search index.
type Indexer interface {
	IndexExhibit(ctx context.Context, uuid string) error
}

// HTTPIndexer posts exhibit identifiers to a search service endpoint.
type HTTPIndexer struct {
	endpoint string
	client   *http.Client
}

// NewFromConfig returns an HTTP indexer, or a no-op one when no endpoint is
// configured.
func NewFromConfig(cfg config.SearchConfig) Indexer {
	if cfg.Endpoint == "" {
		return NoopIndexer{}
	}
	return &HTTPIndexer{
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: cfg.Timeout},
	}
}

func (x *HTTPIndexer) IndexExhibit(ctx context.Context, uuid string) error {
	body, err := json.Marshal(map[string]string{"uuid": uuid})
	if err != nil {
		return fmt.Errorf("search: encode index request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, x.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("search: build index request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := x.client.Do(req)
	if err != nil {
		return fmt.Errorf("search: index exhibit %s: %w", uuid, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("search: index exhibit %s: unexpected status %d", uuid, resp.StatusCode)
	}
	return nil
}

// NoopIndexer satisfies Indexer when indexing is disabled.
type NoopIndexer struct{}

func (NoopIndexer) IndexExhibit(context.Context, string) error { return nil }
