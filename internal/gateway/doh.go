package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// DoHClient resolves names through a public DNS-over-HTTPS endpoint
// (Google/Cloudflare JSON API shape). Used as the fallback signal when the
// registry rate-limits RDAP lookups.
type DoHClient struct {
	endpoint   string
	httpClient *http.Client
	log        *zap.Logger
}

type dohResponse struct {
	Status int `json:"Status"`
	Answer []struct {
		Name string `json:"name"`
		Type int    `json:"type"`
		Data string `json:"data"`
	} `json:"Answer"`
}

func NewDoHClient(endpoint string, log *zap.Logger) *DoHClient {
	return &DoHClient{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log.With(zap.String("gateway", "doh")),
	}
}

// Resolve reports whether the name has at least one A record.
func (c *DoHClient) Resolve(ctx context.Context, fqdn string) (bool, error) {
	query := url.Values{}
	query.Set("name", fqdn)
	query.Set("type", "A")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return false, fmt.Errorf("create DoH request: %w", err)
	}
	req.Header.Set("Accept", "application/dns-json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("DoH request for %s: %w", fqdn, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("DoH resolver returned status %d", resp.StatusCode)
	}

	var dnsResp dohResponse
	if err := json.NewDecoder(resp.Body).Decode(&dnsResp); err != nil {
		return false, fmt.Errorf("parse DoH response: %w", err)
	}

	resolves := dnsResp.Status == 0 && len(dnsResp.Answer) > 0

	c.log.Debug("DoH resolve",
		zap.String("fqdn", fqdn),
		zap.Bool("resolves", resolves),
	)

	return resolves, nil
}
