package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// RDAPClient queries a registry's RDAP endpoint for domain registration
// status. The availability decision lives in the domain service; this only
// reports what the registry said.
type RDAPClient struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

func NewRDAPClient(baseURL string, log *zap.Logger) *RDAPClient {
	return &RDAPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log.With(zap.String("gateway", "rdap")),
	}
}

// Lookup returns the HTTP status of the RDAP domain query. 404 means the
// domain has no registration record; 200 means one exists; 403 is how some
// registries (registro.br included) signal rate limiting.
func (c *RDAPClient) Lookup(ctx context.Context, fqdn string) (int, error) {
	url := fmt.Sprintf("%s/domain/%s", c.baseURL, fqdn)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("create RDAP request: %w", err)
	}
	req.Header.Set("Accept", "application/rdap+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("RDAP request for %s: %w", fqdn, err)
	}
	defer resp.Body.Close()

	c.log.Debug("RDAP lookup",
		zap.String("fqdn", fqdn),
		zap.Int("status", resp.StatusCode),
	)

	return resp.StatusCode, nil
}
