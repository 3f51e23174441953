// Package tray provides the Lumen system tray icon and menu.
package tray

import (
	"context"
	"sync"
)

// Status selects the tray icon.
type Status int

const (
	StatusIdle Status = iota
	StatusUpdating
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusUpdating:
		return "updating"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// MenuItem represents a menu item interface for abstraction.
type MenuItem interface {
	SetTitle(title string)
	SetTooltip(tooltip string)
	Enable()
	Disable()
	Show()
	Hide()
	Clicked() <-chan struct{}
}

// SystrayAdapter provides an interface for systray operations.
// This allows mocking the systray package for testing.
type SystrayAdapter interface {
	Run(onReady func(), onExit func())
	SetIcon(iconBytes []byte)
	SetTitle(title string)
	SetTooltip(tooltip string)
	AddMenuItem(title string, tooltip string) MenuItem
	AddSeparator()
	Quit()
}

// Config holds tray configuration.
type Config struct {
	// Title is the product name shown in the menu and tooltip.
	Title  string
	OnShow func()
	OnHide func()
	OnQuit func()
}

// Tray is the system tray icon with its Show/Hide/Quit menu.
type Tray struct {
	title   string
	onShow  func()
	onHide  func()
	onQuit  func()
	adapter SystrayAdapter

	mu      sync.Mutex
	status  Status
	ready   bool
	tooltip string

	quitOnce sync.Once
}

// New creates a new system tray.
func New(cfg Config) *Tray {
	return NewWithAdapter(cfg, defaultAdapter)
}

// NewWithAdapter creates a new system tray with a custom adapter (for testing).
func NewWithAdapter(cfg Config, adapter SystrayAdapter) *Tray {
	title := cfg.Title
	if title == "" {
		title = "Lumen"
	}
	return &Tray{
		title:   title,
		onShow:  cfg.OnShow,
		onHide:  cfg.OnHide,
		onQuit:  cfg.OnQuit,
		adapter: adapter,
		status:  StatusIdle,
		tooltip: title,
	}
}

// Run starts the system tray. It blocks until the tray exits; menu handling
// stops when ctx is cancelled.
func (t *Tray) Run(ctx context.Context) {
	t.adapter.Run(func() { t.onReady(ctx) }, t.onExit)
}

// SetStatus updates the tray icon.
func (t *Tray) SetStatus(status Status) {
	t.mu.Lock()
	t.status = status
	ready := t.ready
	t.mu.Unlock()

	if ready {
		t.updateIcon()
	}
}

// Status returns the current icon status.
func (t *Tray) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// SetTooltip updates the tray tooltip. Calls before the tray is ready are
// applied once it is.
func (t *Tray) SetTooltip(tooltip string) {
	t.mu.Lock()
	t.tooltip = tooltip
	ready := t.ready
	t.mu.Unlock()

	if ready {
		t.adapter.SetTooltip(tooltip)
	}
}

func (t *Tray) onReady(ctx context.Context) {
	t.mu.Lock()
	t.ready = true
	tooltip := t.tooltip
	t.mu.Unlock()

	t.adapter.SetTitle(t.title)
	t.adapter.SetTooltip(tooltip)
	t.updateIcon()

	mShow := t.adapter.AddMenuItem("Show "+t.title, "Show the main window")
	mHide := t.adapter.AddMenuItem("Hide "+t.title, "Hide the main window to the tray")

	t.adapter.AddSeparator()

	mQuit := t.adapter.AddMenuItem("Quit", "Quit "+t.title)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return

			case <-mShow.Clicked():
				if t.onShow != nil {
					t.onShow()
				}

			case <-mHide.Clicked():
				if t.onHide != nil {
					t.onHide()
				}

			case <-mQuit.Clicked():
				if t.onQuit != nil {
					t.onQuit()
				} else {
					t.Quit()
				}
				return
			}
		}
	}()
}

func (t *Tray) onExit() {
	t.mu.Lock()
	t.ready = false
	t.mu.Unlock()
}

func (t *Tray) updateIcon() {
	var icon []byte
	switch t.Status() {
	case StatusUpdating:
		icon = iconUpdating
	case StatusError:
		icon = iconError
	default:
		icon = iconIdle
	}
	t.adapter.SetIcon(icon)
}

// Quit removes the tray icon. Safe to call more than once.
func (t *Tray) Quit() {
	t.quitOnce.Do(t.adapter.Quit)
}
