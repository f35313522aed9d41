package form

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultFetchTimeout bounds LoadURL when no timeout is given.
const DefaultFetchTimeout = 10 * time.Second

// IsURL reports whether source names an http(s) location.
func IsURL(source string) bool {
	s := strings.TrimSpace(source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// LoadURL fetches a JSON or YAML form document over HTTP. A nil client uses
// http.DefaultClient; a non-positive timeout uses DefaultFetchTimeout.
func LoadURL(ctx context.Context, client *http.Client, url string, timeout time.Duration) (*Catalog, error) {
	data, err := fetch(ctx, client, url, timeout)
	if err != nil {
		return nil, err
	}
	defs, err := Parse(data, url)
	if err != nil {
		return nil, err
	}
	catalog := &Catalog{forms: make(map[string]Definition, len(defs))}
	for _, def := range defs {
		if err := catalog.add(def, url); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}

// Load dispatches to LoadURL for http(s) sources and LoadPath otherwise.
func Load(ctx context.Context, source string) (*Catalog, error) {
	if IsURL(source) {
		return LoadURL(ctx, nil, strings.TrimSpace(source), 0)
	}
	return LoadPath(source)
}

func fetch(ctx context.Context, client *http.Client, url string, timeout time.Duration) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("form: context is required")
	}
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("form: url is required")
	}
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("form: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.5")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("form: fetch %s: %w", url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("form: fetch %s: unexpected status %s", url, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("form: read %s: %w", url, err)
	}
	return data, nil
}
