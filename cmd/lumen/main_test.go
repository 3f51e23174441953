package main

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rennerdo30/lumen-desktop/internal/config"
	"github.com/rennerdo30/lumen-desktop/internal/updater"
	"github.com/rennerdo30/lumen-desktop/internal/version"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, version.Version)
	assert.Contains(t, out, "Lumen")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	out, err := execute(t, "config", "init", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	cfg := config.Config{}
	require.NoError(t, config.LoadAndValidate(path, &cfg))
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestConfigInit_UsesConfigFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lumen.yaml")

	_, err := execute(t, "--config", path, "config", "init")
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestConfigInit_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app: {}\n"), 0600))

	_, err := execute(t, "config", "init", "-o", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "config", "init", "-o", path, "--force")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), config.DefaultAppURL)
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file uses defaults", func(t *testing.T) {
		out, err := execute(t, "-c", filepath.Join(dir, "absent.yaml"), "validate")
		require.NoError(t, err)
		assert.Contains(t, out, "Configuration is valid")
	})

	t.Run("invalid file", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("app:\n  url: ftp://example.com\n"), 0600))

		_, err := execute(t, "-c", path, "validate")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration invalid")
	})

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(dir, "good.yaml")
		require.NoError(t, os.WriteFile(path, []byte("app:\n  url: https://lumen.example.com/\nupdate:\n  check_timeout: 5s\n"), 0600))

		out, err := execute(t, "-c", path, "validate")
		require.NoError(t, err)
		assert.Contains(t, out, "Configuration is valid")
	})
}

func TestUpdaterConfig(t *testing.T) {
	cfg := config.DefaultConfig().Update
	cfg.DownloadDir = "/tmp/dl"

	uc := updaterConfig(cfg)
	assert.Equal(t, cfg.CheckTimeout, uc.CheckTimeout)
	assert.Equal(t, cfg.DownloadTimeout, uc.DownloadTimeout)
	assert.Equal(t, "/tmp/dl", uc.DownloadDir)
	assert.Empty(t, uc.ManifestURL, "manifest URL is compiled in")
}

func TestConsoleHost_Prompt(t *testing.T) {
	tests := []struct {
		input string
		want  updater.Decision
	}{
		{"y\n", updater.Accepted},
		{"YES\n", updater.Accepted},
		{"n\n", updater.Declined},
		{"\n", updater.Declined},
		{"", updater.Declined},
		{"y", updater.Accepted},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			h := &consoleHost{in: bufio.NewReader(strings.NewReader(tt.input)), out: &out}

			got, err := h.Prompt(updater.PromptOptions{Title: "Update available", Message: "Install?"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Update available")
			assert.Contains(t, out.String(), "[y/N]")
		})
	}
}

func TestConsoleHost_Progress(t *testing.T) {
	var out bytes.Buffer
	h := &consoleHost{in: bufio.NewReader(strings.NewReader("")), out: &out}

	h.Progress(500, 1000)
	h.Progress(500, 1000)
	h.Progress(1000, 1000)

	assert.Equal(t, 1, strings.Count(out.String(), "50%"))
	assert.Contains(t, out.String(), "100% (1.0 kB/1.0 kB)\n")

	out.Reset()
	h.Progress(2048, -1)
	assert.Contains(t, out.String(), "2.0 kB")
}

func TestConsoleHost_Notify(t *testing.T) {
	var out bytes.Buffer
	h := &consoleHost{in: bufio.NewReader(strings.NewReader("")), out: &out}

	h.Notify(updater.NoticeInfo, "Download complete")
	h.Notify(updater.NoticeError, "boom")

	assert.Contains(t, out.String(), "Download complete\n")
	assert.Contains(t, out.String(), "Error: boom")
}

func TestCommandContext(t *testing.T) {
	cmd := newUpdateCommand()
	require.Nil(t, cmd.Context())
	assert.NotNil(t, commandContext(cmd))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cmd.SetContext(ctx)
	assert.Equal(t, ctx, commandContext(cmd))
}

func TestRunUpdateCheck_OutsideExecute(t *testing.T) {
	configFile = filepath.Join(t.TempDir(), "config.yaml")
	t.Cleanup(func() { configFile = "" })
	require.NoError(t, os.WriteFile(configFile, []byte("update:\n  check_timeout: 1ms\n"), 0600))

	cmd := newUpdateCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)

	assert.NotPanics(t, func() {
		_ = runUpdateCheck(cmd, nil)
	})
}
