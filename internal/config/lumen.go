package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/rennerdo30/lumen-desktop/internal/logging"
)

// DefaultAppURL is the remote web application the shell displays.
const DefaultAppURL = "https://app.lumen.app/"

// Config is the top-level configuration of the desktop shell.
type Config struct {
	App     AppSettings    `yaml:"app"`
	Logging logging.Config `yaml:"logging"`
	Update  UpdateSettings `yaml:"update"`
	API     APISettings    `yaml:"api"`
}

// AppSettings describes the main window.
type AppSettings struct {
	URL         string `yaml:"url"`
	Title       string `yaml:"title"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	StartHidden bool   `yaml:"start_hidden"`
}

// UpdateSettings tunes the launch-time update check. The manifest location
// is compiled in and cannot be configured.
type UpdateSettings struct {
	Enabled         bool          `yaml:"enabled"`
	CheckTimeout    time.Duration `yaml:"check_timeout"`
	DownloadTimeout time.Duration `yaml:"download_timeout"`
	DownloadDir     string        `yaml:"download_dir"`
}

// APISettings controls the loopback status API.
type APISettings struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		App: AppSettings{
			URL:    DefaultAppURL,
			Title:  "Lumen",
			Width:  1280,
			Height: 800,
		},
		Logging: logging.DefaultConfig(),
		Update: UpdateSettings{
			Enabled:         true,
			CheckTimeout:    30 * time.Second,
			DownloadTimeout: 10 * time.Minute,
		},
		API: APISettings{
			Enabled: false,
			Listen:  "127.0.0.1:7390",
		},
	}
}

// Validate checks the configuration for values the shell cannot run with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.App.URL)
	if err != nil {
		return fmt.Errorf("app.url: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("app.url: scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("app.url: missing host")
	}

	if c.App.Width < 400 || c.App.Height < 300 {
		return fmt.Errorf("app window must be at least 400x300, got %dx%d", c.App.Width, c.App.Height)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}

	if c.Update.CheckTimeout < 0 || c.Update.DownloadTimeout < 0 {
		return fmt.Errorf("update: timeouts must not be negative")
	}

	if c.API.Enabled {
		host, _, err := net.SplitHostPort(c.API.Listen)
		if err != nil {
			return fmt.Errorf("api.listen: %w", err)
		}
		if ip := net.ParseIP(host); host != "localhost" && (ip == nil || !ip.IsLoopback()) {
			return fmt.Errorf("api.listen: must bind a loopback address, got %q", c.API.Listen)
		}
	}

	return nil
}

// DefaultPath returns <UserConfigDir>/lumen/config.yaml.
//
//	Linux:   ~/.config/lumen/config.yaml
//	macOS:   ~/Library/Application Support/lumen/config.yaml
//	Windows: %AppData%\lumen\config.yaml
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "lumen.yaml"
	}
	return filepath.Join(dir, "lumen", "config.yaml")
}
