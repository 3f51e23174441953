package updater

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/rennerdo30/lumen-desktop/internal/logging"
	"github.com/rennerdo30/lumen-desktop/internal/metrics"
)

// UpdateInfo describes a release newer than the running build.
type UpdateInfo struct {
	CurrentVersion string `json:"current_version"`
	NewVersion     string `json:"new_version"`
	DownloadURL    string `json:"download_url"`
}

// Options wires the updater to its collaborators. Host is required; the rest
// default to the HTTPS manifest client, the file Downloader and the ShellLauncher.
type Options struct {
	Host       Host
	Manifests  ManifestSource
	Downloader DownloadService
	Launcher   Launcher
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
}

// Updater runs the update cycle. One Updater runs at most one cycle.
type Updater struct {
	config     Config
	host       Host
	manifests  ManifestSource
	downloader DownloadService
	launcher   Launcher
	metrics    *metrics.Metrics
	log        *slog.Logger

	once   sync.Once
	mu     sync.RWMutex
	result CycleResult
}

// New creates an Updater.
func New(cfg Config, opts Options) (*Updater, error) {
	if opts.Host == nil {
		return nil, errors.New("updater: host is required")
	}
	cfg = cfg.withDefaults()

	u := &Updater{
		config:     cfg,
		host:       opts.Host,
		manifests:  opts.Manifests,
		downloader: opts.Downloader,
		launcher:   opts.Launcher,
		metrics:    opts.Metrics,
		log:        opts.Logger,
	}

	if u.manifests == nil {
		u.manifests = NewManifestClient(cfg.ManifestURL, &http.Client{Timeout: cfg.CheckTimeout})
	}
	if u.downloader == nil {
		u.downloader = NewDownloader(cfg.DownloadDir, &http.Client{})
	}
	if u.launcher == nil {
		u.launcher = NewShellLauncher()
	}
	if u.log == nil {
		u.log = logging.WithComponent("updater")
	}

	u.result = CycleResult{
		Stage:          StageIdle,
		CurrentVersion: CurrentVersion().String(),
		UpdatedAt:      time.Now(),
	}

	return u, nil
}

// Run executes the update cycle once. Later calls return the first cycle's
// outcome without touching the network or the operator.
func (u *Updater) Run(ctx context.Context) CycleResult {
	u.once.Do(func() {
		if err := u.CheckForUpdates(ctx); err != nil {
			u.log.Debug("update cycle ended with error", "stage", u.Result().Stage, "error", err)
		}
	})
	return u.Result()
}

// Result returns a snapshot of the cycle state.
func (u *Updater) Result() CycleResult {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.result
}

// Check fetches the manifest and compares it with the running build. It
// returns ErrNoUpdateAvailable when the manifest is not strictly newer.
func (u *Updater) Check(ctx context.Context) (*UpdateInfo, error) {
	checkCtx, cancel := context.WithTimeout(ctx, u.config.CheckTimeout)
	defer cancel()

	m, err := u.manifests.Fetch(checkCtx)
	if err != nil {
		var fetchErr *ManifestFetchError
		if !errors.As(err, &fetchErr) {
			err = &ManifestFetchError{URL: u.config.ManifestURL, Err: err}
		}
		u.metrics.ObserveCheck(metrics.CheckFailed)
		return nil, err
	}

	latest := m.SemVer()
	if latest == nil {
		if latest, err = ParseVersion(m.Version); err != nil {
			u.metrics.ObserveCheck(metrics.CheckFailed)
			return nil, &ManifestFetchError{URL: u.config.ManifestURL, Err: err}
		}
	}

	current := CurrentVersion()
	u.update(func(r *CycleResult) {
		r.LatestVersion = latest.Original()
		r.DownloadURL = m.LatestDownloadURL
	})

	if !IsNewer(latest, current) {
		u.metrics.ObserveCheck(metrics.CheckUpToDate)
		return nil, ErrNoUpdateAvailable
	}

	u.metrics.ObserveCheck(metrics.CheckAvailable)
	return &UpdateInfo{
		CurrentVersion: current.String(),
		NewVersion:     latest.Original(),
		DownloadURL:    m.LatestDownloadURL,
	}, nil
}

// CheckForUpdates runs check, consent and, when accepted, DownloadAndInstall.
// Check failures are logged only; the operator sees nothing.
func (u *Updater) CheckForUpdates(ctx context.Context) error {
	u.transition(StageChecking, nil)

	info, err := u.Check(ctx)
	switch {
	case errors.Is(err, ErrNoUpdateAvailable):
		u.log.Info("application is up to date", "current", u.Result().CurrentVersion, "latest", u.Result().LatestVersion)
		u.transition(StageUpToDate, nil)
		return nil
	case err != nil:
		u.log.Warn("update check failed", "error", err)
		u.transition(StageFailed, err)
		return err
	}

	u.log.Info("update available", "current", info.CurrentVersion, "latest", info.NewVersion)
	u.transition(StageAwaitingConsent, nil)

	u.host.ShowWindow()
	decision, err := u.host.Prompt(PromptOptions{
		Title:        "Update available",
		Message:      fmt.Sprintf("Lumen %s is available. You are running %s.\n\nDownload and install it now?", info.NewVersion, info.CurrentVersion),
		AcceptLabel:  "Update now",
		DeclineLabel: "Later",
	})
	if err != nil {
		u.log.Warn("consent prompt failed, treating as declined", "error", err)
		decision = Declined
	}

	if decision != Accepted {
		u.log.Info("update declined", "version", info.NewVersion)
		u.transition(StageDeclined, nil)
		return nil
	}

	return u.DownloadAndInstall(ctx, info.DownloadURL)
}

// DownloadAndInstall downloads the installer at rawURL, launches it and exits
// the running instance. A failed download or launch leaves the app running.
func (u *Updater) DownloadAndInstall(ctx context.Context, rawURL string) error {
	u.transition(StageDownloading, nil)
	u.update(func(r *CycleResult) { r.DownloadURL = rawURL })
	u.host.Notify(NoticeInfo, "Downloading update…")

	dlCtx, cancel := context.WithTimeout(ctx, u.config.DownloadTimeout)
	defer cancel()

	started := time.Now()
	var received int64
	lastPct := -1
	path, err := u.downloader.Download(dlCtx, rawURL, func(downloaded, total int64) {
		received = downloaded
		if total > 0 {
			pct := int(downloaded * 100 / total)
			if pct == lastPct {
				return
			}
			lastPct = pct
		}
		u.host.Progress(downloaded, total)
	})
	u.metrics.ObserveDownload(received, time.Since(started))

	if err != nil {
		dlErr := &DownloadError{URL: rawURL, Err: err}
		u.log.Error("installer download failed", "url", rawURL, "error", err)
		u.host.Notify(NoticeError, "The update could not be downloaded. Lumen will try again next time it starts.")
		u.transition(StageFailed, dlErr)
		return dlErr
	}

	u.update(func(r *CycleResult) { r.LocalPath = path })
	u.host.Notify(NoticeInfo, "Download complete")

	// The installer is executed as downloaded; nothing verifies its origin.
	u.log.Warn("launching unverified installer", "path", path, "bytes", received)
	if err := u.launcher.Launch(path); err != nil {
		launchErr := &LaunchError{Path: path, Err: err}
		u.log.Error("installer launch failed", "path", path, "error", err)
		u.transition(StageFailed, launchErr)
		return launchErr
	}

	u.transition(StageInstalled, nil)
	u.log.Info("installer started, exiting", "path", path)
	u.transition(StageProcessExit, nil)
	u.host.Exit()
	return nil
}

func (u *Updater) transition(to Stage, err error) {
	u.mu.Lock()
	from := u.result.Stage
	u.result.Stage = to
	u.result.UpdatedAt = time.Now()
	if err != nil {
		u.result.err = err
		u.result.Error = err.Error()
	}
	u.mu.Unlock()

	u.metrics.ObserveStage(to.String())
	u.log.Debug("update stage", "from", from, "to", to)
}

func (u *Updater) update(fn func(r *CycleResult)) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fn(&u.result)
}
