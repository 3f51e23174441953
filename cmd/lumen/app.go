package main

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"github.com/rennerdo30/lumen-desktop/internal/api"
	"github.com/rennerdo30/lumen-desktop/internal/config"
	"github.com/rennerdo30/lumen-desktop/internal/logging"
	"github.com/rennerdo30/lumen-desktop/internal/metrics"
	"github.com/rennerdo30/lumen-desktop/internal/shell"
	"github.com/rennerdo30/lumen-desktop/internal/tray"
	"github.com/rennerdo30/lumen-desktop/internal/updater"
	"github.com/rennerdo30/lumen-desktop/internal/version"
)

//go:embed all:frontend
var assets embed.FS

func updaterConfig(cfg config.UpdateSettings) updater.Config {
	return updater.Config{
		CheckTimeout:    cfg.CheckTimeout,
		DownloadTimeout: cfg.DownloadTimeout,
		DownloadDir:     cfg.DownloadDir,
	}
}

func runShell(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logging.Setup(cfg.Logging); err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer logging.Close()

	logging.Info("starting", "version", version.Short(), "url", cfg.App.URL)

	m := metrics.New()

	var sh *shell.Shell
	tr := tray.New(tray.Config{
		Title:  cfg.App.Title,
		OnShow: func() { sh.ShowWindow() },
		OnHide: func() { sh.HideWindow() },
		OnQuit: func() { sh.Exit() },
	})
	sh = shell.New(shell.Config{URL: cfg.App.URL, Title: cfg.App.Title}, shell.Options{Tray: tr})

	apiCfg := api.Config{Metrics: m}
	if cfg.Update.Enabled {
		u, err := updater.New(updaterConfig(cfg.Update), updater.Options{Host: sh, Metrics: m})
		if err != nil {
			return fmt.Errorf("create updater: %w", err)
		}
		sh.OnWindowReady(func(ctx context.Context) { u.Run(ctx) })
		apiCfg.Updates = u
	} else {
		logging.Info("update check disabled")
	}

	if cfg.API.Enabled {
		srv, err := api.Listen(cfg.API.Listen, api.New(apiCfg).Handler(), nil)
		if err != nil {
			return fmt.Errorf("start status API: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				logging.Warn("status API shutdown", "error", err)
			}
		}()
	}

	err = wails.Run(&options.App{
		Title:       cfg.App.Title,
		Width:       cfg.App.Width,
		Height:      cfg.App.Height,
		MinWidth:    400,
		MinHeight:   300,
		StartHidden: cfg.App.StartHidden,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 15, G: 23, B: 42, A: 255},
		OnStartup:        sh.OnStartup,
		OnDomReady:       sh.OnDomReady,
		OnBeforeClose:    sh.OnBeforeClose,
		OnShutdown:       sh.OnShutdown,
	})
	if err != nil {
		return fmt.Errorf("run window: %w", err)
	}

	logging.Info("exited", "lifecycle", sh.Lifecycle())
	return nil
}
