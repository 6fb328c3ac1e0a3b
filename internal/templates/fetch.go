package templates

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/szulist/zabbix-proxy-dashboards/internal/config"
)

// Fetcher retrieves template content from upstream URLs or local files.
type Fetcher struct {
	httpClient *http.Client
	log        *zap.Logger
}

// NewFetcher creates a Fetcher with an OTel-instrumented HTTP transport.
// Upstream fetches run under their own templates.timeout, independent of the
// Zabbix connection timeout.
func NewFetcher(cfg *config.Config, log *zap.Logger) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout:   time.Duration(cfg.Templates.Timeout) * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: log,
	}
}

// Fetch returns the raw content behind a reference. http(s) references are
// fetched upstream; anything else is read from the local filesystem.
// Failures are per-template: the caller logs and moves on.
func (f *Fetcher) Fetch(ctx context.Context, ref string) (string, error) {
	if !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		data, err := os.ReadFile(ref)
		if err != nil {
			return "", fmt.Errorf("failed to read template file: %w", err)
		}
		return string(data), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch template: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch template: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read template body: %w", err)
	}

	f.log.Debug("Fetched template", zap.String("ref", ref), zap.Int("bytes", len(body)))
	return string(body), nil
}
