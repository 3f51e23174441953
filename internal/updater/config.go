package updater

import (
	"os"
	"path/filepath"
	"time"
)

// DefaultManifestURL is the fixed location of the version manifest.
const DefaultManifestURL = "https://updates.lumen.app/desktop/manifest.json"

// Config holds updater configuration.
type Config struct {
	// ManifestURL is the manifest location. Only tests point it elsewhere.
	ManifestURL string

	// CheckTimeout bounds the manifest request.
	CheckTimeout time.Duration

	// DownloadTimeout bounds the installer download.
	DownloadTimeout time.Duration

	// DownloadDir receives the installer. Empty means DefaultDownloadDir().
	DownloadDir string
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		ManifestURL:     DefaultManifestURL,
		CheckTimeout:    30 * time.Second,
		DownloadTimeout: 10 * time.Minute,
		DownloadDir:     DefaultDownloadDir(),
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.ManifestURL == "" {
		c.ManifestURL = def.ManifestURL
	}
	if c.CheckTimeout <= 0 {
		c.CheckTimeout = def.CheckTimeout
	}
	if c.DownloadTimeout <= 0 {
		c.DownloadTimeout = def.DownloadTimeout
	}
	if c.DownloadDir == "" {
		c.DownloadDir = def.DownloadDir
	}
	return c
}

// DefaultDownloadDir returns ~/Downloads, or the temp dir when there is no home.
func DefaultDownloadDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return os.TempDir()
	}
	return filepath.Join(home, "Downloads")
}
