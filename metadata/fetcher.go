package metadata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// MAX_DOCUMENT_SIZE caps how much of a gateway response is read.
const MAX_DOCUMENT_SIZE = 1 << 20

type Fetcher interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

// GatewayFetcher reads documents through an HTTP IPFS gateway.
type GatewayFetcher struct {
	gateway string
	client  *http.Client
}

func NewGatewayFetcher(gateway string, timeout time.Duration) *GatewayFetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &GatewayFetcher{
		gateway: strings.TrimRight(gateway, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// GatewayURL maps ipfs://<cid>[/path] (and ipfs://ipfs/<cid>) to
// <gateway>/ipfs/<cid>[/path]. http and https urls are returned as they
// are.
func GatewayURL(gateway, uri string) (string, error) {
	uri = strings.TrimSpace(uri)
	lower := strings.ToLower(uri)
	switch {
	case strings.HasPrefix(lower, "ipfs://"):
		path := strings.TrimPrefix(uri[len("ipfs://"):], "ipfs/")
		if path == "" {
			return "", fmt.Errorf("missing cid in %q", uri)
		}
		return fmt.Sprintf("%s/ipfs/%s", strings.TrimRight(gateway, "/"), path), nil
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return uri, nil
	}
	return "", fmt.Errorf("unsupported metadata uri %q", uri)
}

func (self *GatewayFetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	u, err := GatewayURL(self.gateway, uri)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := self.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, MAX_DOCUMENT_SIZE))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		if len(body) == 0 {
			return nil, fmt.Errorf("gateway fetch failed: %s", resp.Status)
		}
		return nil, fmt.Errorf("gateway fetch failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return body, nil
}
