//go:build !cgo

package tray

import "github.com/rennerdo30/lumen-desktop/internal/logging"

type noopMenuItem struct {
	clickCh chan struct{}
}

func (m *noopMenuItem) SetTitle(_ string)        {}
func (m *noopMenuItem) SetTooltip(_ string)      {}
func (m *noopMenuItem) Enable()                  {}
func (m *noopMenuItem) Disable()                 {}
func (m *noopMenuItem) Show()                    {}
func (m *noopMenuItem) Hide()                    {}
func (m *noopMenuItem) Clicked() <-chan struct{} { return m.clickCh }

// noopSystrayAdapter stands in for the tray when the binary is built without CGo.
// The window stays reachable; only the tray icon is missing.
type noopSystrayAdapter struct{}

func (a *noopSystrayAdapter) Run(onReady func(), _ func()) {
	logging.Warn("system tray not available (built without CGo)")
	onReady()
}

func (a *noopSystrayAdapter) SetIcon(_ []byte)    {}
func (a *noopSystrayAdapter) SetTitle(_ string)   {}
func (a *noopSystrayAdapter) SetTooltip(_ string) {}
func (a *noopSystrayAdapter) AddMenuItem(_, _ string) MenuItem {
	return &noopMenuItem{clickCh: make(chan struct{})}
}
func (a *noopSystrayAdapter) AddSeparator() {}
func (a *noopSystrayAdapter) Quit()         {}

var defaultAdapter SystrayAdapter = &noopSystrayAdapter{}
