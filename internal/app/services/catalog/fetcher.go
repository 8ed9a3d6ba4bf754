package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/kiddarkness/itemshop/internal/app/domain/shop"
	"github.com/kiddarkness/itemshop/pkg/logger"
)

// maxCatalogBody bounds how much of the catalog response is read. The full
// shop document is a few megabytes on busy rotation days.
const maxCatalogBody = 16 << 20

// Fetcher retrieves the raw entry list from the external catalog service.
type Fetcher interface {
	Fetch(ctx context.Context) ([]shop.RawCatalogEntry, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context) ([]shop.RawCatalogEntry, error)

func (f FetcherFunc) Fetch(ctx context.Context) ([]shop.RawCatalogEntry, error) {
	if f == nil {
		return nil, nil
	}
	return f(ctx)
}

// HTTPFetcher pulls the shop document from the catalog API and extracts the
// entry list from its nested data.entries path.
type HTTPFetcher struct {
	client   *http.Client
	endpoint *url.URL
	language string
	log      *logger.Logger
}

// NewHTTPFetcher constructs a fetcher for the given catalog endpoint. The
// language parameter is fixed per deployment (es-419 in production).
func NewHTTPFetcher(client *http.Client, endpoint, language string, log *logger.Logger) (*HTTPFetcher, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("catalog endpoint required")
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse catalog endpoint: %w", err)
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if log == nil {
		log = logger.NewDefault("catalog-fetcher")
	}
	return &HTTPFetcher{
		client:   client,
		endpoint: parsed,
		language: strings.TrimSpace(language),
		log:      log,
	}, nil
}

func (f *HTTPFetcher) Fetch(ctx context.Context) ([]shop.RawCatalogEntry, error) {
	requestURL := *f.endpoint
	if f.language != "" {
		q := requestURL.Query()
		q.Set("language", f.language)
		requestURL.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBody))
	if err != nil {
		return nil, fmt.Errorf("read catalog body: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("catalog body is not valid JSON")
	}

	result := gjson.GetBytes(body, "data.entries")
	if !result.Exists() || !result.IsArray() {
		return nil, fmt.Errorf("catalog body missing data.entries")
	}

	var entries []shop.RawCatalogEntry
	if err := json.Unmarshal([]byte(result.Raw), &entries); err != nil {
		return nil, fmt.Errorf("decode catalog entries: %w", err)
	}
	return entries, nil
}
