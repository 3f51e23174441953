// Package shell hosts the remote application in a Wails window and implements
// updater.Host on top of the window, its dialogs and the system tray.
package shell

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/rennerdo30/lumen-desktop/internal/logging"
	"github.com/rennerdo30/lumen-desktop/internal/tray"
	"github.com/rennerdo30/lumen-desktop/internal/updater"
)

// ErrNotStarted is returned by operations that need the window before
// OnStartup has run.
var ErrNotStarted = errors.New("shell: window not started")

// Lifecycle tells the close handler whether a window close hides or exits.
type Lifecycle int32

const (
	Running Lifecycle = iota
	Exiting
)

func (l Lifecycle) String() string {
	if l == Exiting {
		return "exiting"
	}
	return "running"
}

// Tray is the tray surface the shell needs.
type Tray interface {
	Run(ctx context.Context)
	Quit()
	SetTooltip(tooltip string)
	SetStatus(status tray.Status)
}

// Config holds the shell settings.
type Config struct {
	// URL is the remote application loaded into the window.
	URL string
	// Title is the product name used for the window title and notices.
	Title string
}

// Options wires optional collaborators. Nil fields use the Wails runtime,
// no tray and the default logger.
type Options struct {
	Runtime Runtime
	Tray    Tray
	Logger  *slog.Logger
}

// Shell owns the window and tray handles for the lifetime of the process.
type Shell struct {
	cfg  Config
	rt   Runtime
	tray Tray
	log  *slog.Logger

	mu         sync.RWMutex
	ctx        context.Context
	stopTray   context.CancelFunc
	onReady    []func(ctx context.Context)
	lifecycle  atomic.Int32
	navigated  atomic.Bool
	readyOnce  sync.Once
	readyGroup sync.WaitGroup
}

var _ updater.Host = (*Shell)(nil)

// New creates a Shell.
func New(cfg Config, opts Options) *Shell {
	if cfg.Title == "" {
		cfg.Title = "Lumen"
	}
	s := &Shell{
		cfg:  cfg,
		rt:   opts.Runtime,
		tray: opts.Tray,
		log:  opts.Logger,
	}
	if s.rt == nil {
		s.rt = wailsRuntime{}
	}
	if s.log == nil {
		s.log = logging.WithComponent("shell")
	}
	return s
}

// OnWindowReady registers fn to run, in its own goroutine, the first time the
// remote page reports DOM ready. Register before the window starts.
func (s *Shell) OnWindowReady(fn func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onReady = append(s.onReady, fn)
}

// Lifecycle returns the current lifecycle flag.
func (s *Shell) Lifecycle() Lifecycle {
	return Lifecycle(s.lifecycle.Load())
}

func (s *Shell) context() context.Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ctx
}

// OnStartup is the Wails startup handler. It keeps the window context and
// starts the tray.
func (s *Shell) OnStartup(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	trayCtx, cancel := context.WithCancel(ctx)
	s.stopTray = cancel
	s.mu.Unlock()

	s.log.Info("window started", "url", s.cfg.URL)

	if s.tray != nil {
		go s.tray.Run(trayCtx)
	}
}

// OnDomReady is the Wails DOM-ready handler. The bundled loader page is
// replaced by the remote application; the remote page's DOM-ready fires the
// window-ready callbacks once.
func (s *Shell) OnDomReady(ctx context.Context) {
	if !s.navigated.Swap(true) {
		s.navigate(ctx, s.cfg.URL)
		return
	}

	s.readyOnce.Do(func() {
		s.log.Info("remote application ready")

		s.mu.RLock()
		callbacks := append([]func(context.Context){}, s.onReady...)
		s.mu.RUnlock()

		for _, fn := range callbacks {
			s.readyGroup.Add(1)
			go func(fn func(context.Context)) {
				defer s.readyGroup.Done()
				fn(ctx)
			}(fn)
		}
	})
}

func (s *Shell) navigate(ctx context.Context, url string) {
	target, err := json.Marshal(url)
	if err != nil {
		s.log.Error("cannot encode application url", "url", url, "error", err)
		return
	}
	s.log.Debug("navigating to remote application", "url", url)
	s.rt.WindowExecJS(ctx, fmt.Sprintf("window.location.replace(%s);", target))
}

// OnBeforeClose is the Wails close handler. While running, closing the window
// hides it to the tray; once Exit was called the close goes through.
func (s *Shell) OnBeforeClose(ctx context.Context) (prevent bool) {
	if s.Lifecycle() == Exiting {
		return false
	}
	s.log.Debug("window close hidden to tray")
	s.rt.WindowHide(ctx)
	return true
}

// OnShutdown is the Wails shutdown handler.
func (s *Shell) OnShutdown(_ context.Context) {
	s.mu.Lock()
	stop := s.stopTray
	s.mu.Unlock()

	if stop != nil {
		stop()
	}
	if s.tray != nil {
		s.tray.Quit()
	}
	s.log.Info("window shut down")
}

// ShowWindow brings the window to the front. It is a no-op before startup.
func (s *Shell) ShowWindow() {
	ctx := s.context()
	if ctx == nil {
		return
	}
	s.rt.WindowUnminimise(ctx)
	s.rt.WindowShow(ctx)
}

// HideWindow hides the window to the tray. It is a no-op before startup.
func (s *Shell) HideWindow() {
	ctx := s.context()
	if ctx == nil {
		return
	}
	s.rt.WindowHide(ctx)
}

// Prompt shows a blocking question dialog.
func (s *Shell) Prompt(opts updater.PromptOptions) (updater.Decision, error) {
	ctx := s.context()
	if ctx == nil {
		return updater.Declined, ErrNotStarted
	}

	answer, err := s.rt.MessageDialog(ctx, runtime.MessageDialogOptions{
		Type:          runtime.QuestionDialog,
		Title:         opts.Title,
		Message:       opts.Message,
		Buttons:       []string{opts.AcceptLabel, opts.DeclineLabel},
		DefaultButton: opts.AcceptLabel,
		CancelButton:  opts.DeclineLabel,
	})
	if err != nil {
		return updater.Declined, fmt.Errorf("question dialog: %w", err)
	}

	s.log.Debug("prompt answered", "title", opts.Title, "answer", answer)
	if isAccept(answer, opts.AcceptLabel) {
		return updater.Accepted, nil
	}
	return updater.Declined, nil
}

// isAccept matches the dialog result. Windows and Linux question dialogs
// return "Yes"/"No" regardless of the requested labels; macOS returns the label.
func isAccept(answer, acceptLabel string) bool {
	answer = strings.TrimSpace(answer)
	if acceptLabel != "" && strings.EqualFold(answer, acceptLabel) {
		return true
	}
	return strings.EqualFold(answer, "yes") || strings.EqualFold(answer, "ok")
}

// Notify shows a status notice. Info notices go to the window title and tray
// tooltip; error notices open a dialog that blocks until dismissed.
func (s *Shell) Notify(kind updater.NoticeKind, message string) {
	if kind == updater.NoticeError {
		s.setStatus(tray.StatusError)
		s.setTitle("")
		s.setTooltip(message)

		ctx := s.context()
		if ctx == nil {
			s.log.Warn("error notice before startup", "message", message)
			return
		}
		if _, err := s.rt.MessageDialog(ctx, runtime.MessageDialogOptions{
			Type:    runtime.ErrorDialog,
			Title:   s.cfg.Title,
			Message: message,
		}); err != nil {
			s.log.Warn("error dialog failed", "message", message, "error", err)
		}
		return
	}

	s.setStatus(tray.StatusUpdating)
	s.setTitle(message)
	s.setTooltip(message)
}

// Progress reports installer download progress in the title and tooltip.
func (s *Shell) Progress(downloaded, total int64) {
	text := formatProgress(downloaded, total)
	s.setTitle(text)
	s.setTooltip(text)
}

func formatProgress(downloaded, total int64) string {
	if downloaded < 0 {
		downloaded = 0
	}
	if total > 0 {
		pct := downloaded * 100 / total
		return fmt.Sprintf("Downloading update %d%% (%s of %s)", pct,
			humanize.Bytes(uint64(downloaded)), humanize.Bytes(uint64(total)))
	}
	return fmt.Sprintf("Downloading update (%s)", humanize.Bytes(uint64(downloaded)))
}

// Exit marks the shell as exiting, removes the tray icon and quits the Wails
// application so wails.Run returns.
func (s *Shell) Exit() {
	if Lifecycle(s.lifecycle.Swap(int32(Exiting))) == Exiting {
		return
	}
	s.log.Info("exiting")

	if s.tray != nil {
		s.tray.Quit()
	}
	if ctx := s.context(); ctx != nil {
		s.rt.Quit(ctx)
	}
}

func (s *Shell) setTitle(status string) {
	ctx := s.context()
	if ctx == nil {
		return
	}
	title := s.cfg.Title
	if status != "" {
		title = s.cfg.Title + " - " + status
	}
	s.rt.WindowSetTitle(ctx, title)
}

func (s *Shell) setTooltip(status string) {
	if s.tray == nil {
		return
	}
	s.tray.SetTooltip(s.cfg.Title + ": " + status)
}

func (s *Shell) setStatus(status tray.Status) {
	if s.tray != nil {
		s.tray.SetStatus(status)
	}
}

// Wait blocks until the window-ready callbacks have returned.
func (s *Shell) Wait() {
	s.readyGroup.Wait()
}
