package tray

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockMenuItem implements MenuItem interface for testing.
type mockMenuItem struct {
	mu        sync.Mutex
	title     string
	tooltip   string
	enabled   bool
	visible   bool
	clickedCh chan struct{}
}

func newMockMenuItem(title, tooltip string) *mockMenuItem {
	return &mockMenuItem{
		title:     title,
		tooltip:   tooltip,
		enabled:   true,
		visible:   true,
		clickedCh: make(chan struct{}, 10),
	}
}

func (m *mockMenuItem) SetTitle(title string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.title = title
}

func (m *mockMenuItem) SetTooltip(tooltip string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tooltip = tooltip
}

func (m *mockMenuItem) Enable() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = true
}

func (m *mockMenuItem) Disable() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = false
}

func (m *mockMenuItem) Show() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.visible = true
}

func (m *mockMenuItem) Hide() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.visible = false
}

func (m *mockMenuItem) Clicked() <-chan struct{} {
	return m.clickedCh
}

func (m *mockMenuItem) Click() {
	m.clickedCh <- struct{}{}
}

func (m *mockMenuItem) GetTitle() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.title
}

func (m *mockMenuItem) IsEnabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled
}

func (m *mockMenuItem) IsVisible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visible
}

// mockSystrayAdapter implements SystrayAdapter for testing.
type mockSystrayAdapter struct {
	mu            sync.Mutex
	icon          []byte
	title         string
	tooltip       string
	menuItems     []*mockMenuItem
	separatorCnt  int
	quitCalled    bool
	quitCount     int
	onReadyCalled bool
	onExitCalled  bool
	runBlocking   bool
}

func newMockAdapter() *mockSystrayAdapter {
	return &mockSystrayAdapter{
		menuItems: make([]*mockMenuItem, 0),
	}
}

func (a *mockSystrayAdapter) Run(onReady func(), onExit func()) {
	a.mu.Lock()
	a.onReadyCalled = true
	blocking := a.runBlocking
	a.mu.Unlock()

	onReady()

	if blocking {
		// Block until quit is called
		for {
			a.mu.Lock()
			if a.quitCalled {
				a.mu.Unlock()
				break
			}
			a.mu.Unlock()
			time.Sleep(10 * time.Millisecond)
		}
	}

	a.mu.Lock()
	a.onExitCalled = true
	a.mu.Unlock()
	onExit()
}

func (a *mockSystrayAdapter) SetIcon(iconBytes []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.icon = iconBytes
}

func (a *mockSystrayAdapter) SetTitle(title string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.title = title
}

func (a *mockSystrayAdapter) SetTooltip(tooltip string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tooltip = tooltip
}

func (a *mockSystrayAdapter) AddMenuItem(title string, tooltip string) MenuItem {
	a.mu.Lock()
	defer a.mu.Unlock()
	item := newMockMenuItem(title, tooltip)
	a.menuItems = append(a.menuItems, item)
	return item
}

func (a *mockSystrayAdapter) AddSeparator() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.separatorCnt++
}

func (a *mockSystrayAdapter) Quit() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.quitCalled = true
	a.quitCount++
}

func (a *mockSystrayAdapter) GetIcon() []byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.icon
}

func (a *mockSystrayAdapter) GetTitle() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.title
}

func (a *mockSystrayAdapter) GetTooltip() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tooltip
}

func (a *mockSystrayAdapter) GetMenuItem(index int) *mockMenuItem {
	a.mu.Lock()
	defer a.mu.Unlock()
	if index >= 0 && index < len(a.menuItems) {
		return a.menuItems[index]
	}
	return nil
}

func (a *mockSystrayAdapter) GetSeparatorCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.separatorCnt
}

func (a *mockSystrayAdapter) QuitCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.quitCount
}

func (a *mockSystrayAdapter) WasOnExitCalled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.onExitCalled
}

func (a *mockSystrayAdapter) ItemCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.menuItems)
}

// runBlocking starts the tray on a blocking mock and waits for the menu.
func runBlocking(t *testing.T, tray *Tray, adapter *mockSystrayAdapter) <-chan struct{} {
	t.Helper()
	adapter.runBlocking = true
	done := make(chan struct{})
	go func() {
		defer close(done)
		tray.Run(context.Background())
	}()
	require.Eventually(t, func() bool { return adapter.ItemCount() == 3 }, time.Second, 5*time.Millisecond)
	return done
}

func TestNew(t *testing.T) {
	tray := New(Config{})
	require.NotNil(t, tray)
	assert.Equal(t, "Lumen", tray.title)
	assert.Equal(t, StatusIdle, tray.Status())
	assert.NotNil(t, tray.adapter)
}

func TestNewWithAdapter_Title(t *testing.T) {
	adapter := newMockAdapter()
	tray := NewWithAdapter(Config{Title: "Acme"}, adapter)
	assert.Equal(t, "Acme", tray.title)
	assert.Same(t, adapter, tray.adapter)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "idle", StatusIdle.String())
	assert.Equal(t, "updating", StatusUpdating.String())
	assert.Equal(t, "error", StatusError.String())
	assert.Equal(t, "idle", Status(99).String())
}

func TestTray_onReady_SetsUpMenu(t *testing.T) {
	adapter := newMockAdapter()
	tray := NewWithAdapter(Config{}, adapter)

	tray.Run(context.Background())

	assert.Equal(t, "Lumen", adapter.GetTitle())
	assert.Equal(t, "Lumen", adapter.GetTooltip())
	assert.Equal(t, iconIdle, adapter.GetIcon())

	require.Equal(t, 3, adapter.ItemCount())
	assert.Equal(t, 1, adapter.GetSeparatorCount())
	assert.Equal(t, "Show Lumen", adapter.GetMenuItem(0).GetTitle())
	assert.Equal(t, "Hide Lumen", adapter.GetMenuItem(1).GetTitle())
	assert.Equal(t, "Quit", adapter.GetMenuItem(2).GetTitle())
	assert.True(t, adapter.WasOnExitCalled())
}

func TestTray_MenuClicks(t *testing.T) {
	adapter := newMockAdapter()
	var shown, hidden, quit atomic.Int32

	tray := NewWithAdapter(Config{
		OnShow: func() { shown.Add(1) },
		OnHide: func() { hidden.Add(1) },
		OnQuit: func() { quit.Add(1) },
	}, adapter)
	tray.Run(context.Background())

	adapter.GetMenuItem(0).Click()
	assert.Eventually(t, func() bool { return shown.Load() == 1 }, time.Second, 5*time.Millisecond)

	adapter.GetMenuItem(1).Click()
	assert.Eventually(t, func() bool { return hidden.Load() == 1 }, time.Second, 5*time.Millisecond)

	adapter.GetMenuItem(2).Click()
	assert.Eventually(t, func() bool { return quit.Load() == 1 }, time.Second, 5*time.Millisecond)

	// OnQuit owns shutdown; the tray does not quit itself.
	assert.Zero(t, adapter.QuitCount())
}

func TestTray_QuitClick_NoCallback(t *testing.T) {
	adapter := newMockAdapter()
	tray := NewWithAdapter(Config{}, adapter)
	tray.Run(context.Background())

	adapter.GetMenuItem(2).Click()
	assert.Eventually(t, func() bool { return adapter.QuitCount() == 1 }, time.Second, 5*time.Millisecond)
}

func TestTray_NilCallbacks(t *testing.T) {
	adapter := newMockAdapter()
	tray := NewWithAdapter(Config{}, adapter)
	tray.Run(context.Background())

	assert.NotPanics(t, func() {
		adapter.GetMenuItem(0).Click()
		adapter.GetMenuItem(1).Click()
		time.Sleep(20 * time.Millisecond)
	})
}

func TestTray_ContextCancelStopsMenuLoop(t *testing.T) {
	adapter := newMockAdapter()
	var shown atomic.Int32
	tray := NewWithAdapter(Config{OnShow: func() { shown.Add(1) }}, adapter)

	ctx, cancel := context.WithCancel(context.Background())
	tray.Run(ctx)
	cancel()
	time.Sleep(20 * time.Millisecond)

	adapter.GetMenuItem(0).Click()
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, shown.Load())
}

func TestTray_SetTooltip(t *testing.T) {
	adapter := newMockAdapter()
	tray := NewWithAdapter(Config{}, adapter)

	tray.SetTooltip("Downloading update 10%")
	assert.Empty(t, adapter.GetTooltip(), "not applied before the tray is ready")

	done := runBlocking(t, tray, adapter)
	assert.Equal(t, "Downloading update 10%", adapter.GetTooltip())

	tray.SetTooltip("Download complete")
	assert.Equal(t, "Download complete", adapter.GetTooltip())

	tray.Quit()
	<-done
}

func TestTray_SetStatus(t *testing.T) {
	adapter := newMockAdapter()
	tray := NewWithAdapter(Config{}, adapter)

	tray.SetStatus(StatusUpdating)
	assert.Nil(t, adapter.GetIcon())

	done := runBlocking(t, tray, adapter)
	assert.Equal(t, iconUpdating, adapter.GetIcon())

	tray.SetStatus(StatusError)
	assert.Equal(t, iconError, adapter.GetIcon())
	assert.Equal(t, StatusError, tray.Status())

	tray.SetStatus(StatusIdle)
	assert.Equal(t, iconIdle, adapter.GetIcon())

	tray.Quit()
	<-done
}

func TestTray_QuitOnce(t *testing.T) {
	adapter := newMockAdapter()
	tray := NewWithAdapter(Config{}, adapter)

	tray.Quit()
	tray.Quit()
	assert.Equal(t, 1, adapter.QuitCount())
}

func TestDefaultAdapter_IsSet(t *testing.T) {
	assert.NotNil(t, defaultAdapter)
	var _ MenuItem = newMockMenuItem("", "")
	var _ SystrayAdapter = newMockAdapter()
}
