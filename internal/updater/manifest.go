package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	goversion "github.com/hashicorp/go-version"

	"github.com/rennerdo30/lumen-desktop/internal/version"
)

// maxManifestSize caps the manifest body; the document is a few hundred bytes.
const maxManifestSize = 64 << 10

// Manifest is the remote document describing the latest release.
type Manifest struct {
	Version           string `json:"version"`
	LatestDownloadURL string `json:"latestDownloadUrl"`

	parsed *goversion.Version
}

// SemVer returns the parsed manifest version.
func (m *Manifest) SemVer() *goversion.Version {
	return m.parsed
}

// ManifestSource fetches the current manifest.
type ManifestSource interface {
	Fetch(ctx context.Context) (*Manifest, error)
}

// ManifestClient fetches the manifest over HTTPS.
type ManifestClient struct {
	httpClient *http.Client
	url        string
}

// NewManifestClient creates a client for the manifest at manifestURL.
func NewManifestClient(manifestURL string, httpClient *http.Client) *ManifestClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ManifestClient{
		httpClient: httpClient,
		url:        manifestURL,
	}
}

// URL returns the manifest location.
func (c *ManifestClient) URL() string {
	return c.url
}

// Fetch downloads and validates the manifest. Every failure is a *ManifestFetchError.
func (c *ManifestClient) Fetch(ctx context.Context) (*Manifest, error) {
	m, err := c.fetch(ctx)
	if err != nil {
		return nil, &ManifestFetchError{URL: c.url, Err: err}
	}
	return m, nil
}

func (c *ManifestClient) fetch(ctx context.Context) (*Manifest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrNetworkError, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxManifestSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrNetworkError, err)
	}
	if len(body) > maxManifestSize {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrInvalidManifest, maxManifestSize)
	}

	return ParseManifest(body)
}

// ParseManifest decodes and validates a manifest document.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidManifest, err)
	}

	m.Version = strings.TrimSpace(m.Version)
	parsed, err := ParseVersion(m.Version)
	if err != nil {
		return nil, err
	}
	m.parsed = parsed

	m.LatestDownloadURL = strings.TrimSpace(m.LatestDownloadURL)
	if m.LatestDownloadURL == "" {
		return nil, fmt.Errorf("%w: missing latestDownloadUrl", ErrInvalidManifest)
	}
	u, err := url.Parse(m.LatestDownloadURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%w: latestDownloadUrl %q is not an absolute URL", ErrInvalidManifest, m.LatestDownloadURL)
	}

	return &m, nil
}
