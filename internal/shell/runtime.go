package shell

import (
	"context"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// Runtime is the subset of the Wails runtime the shell drives.
type Runtime interface {
	WindowShow(ctx context.Context)
	WindowHide(ctx context.Context)
	WindowUnminimise(ctx context.Context)
	WindowSetTitle(ctx context.Context, title string)
	WindowExecJS(ctx context.Context, js string)
	MessageDialog(ctx context.Context, opts runtime.MessageDialogOptions) (string, error)
	Quit(ctx context.Context)
}

// wailsRuntime forwards to github.com/wailsapp/wails/v2/pkg/runtime.
type wailsRuntime struct{}

func (wailsRuntime) WindowShow(ctx context.Context)       { runtime.WindowShow(ctx) }
func (wailsRuntime) WindowHide(ctx context.Context)       { runtime.WindowHide(ctx) }
func (wailsRuntime) WindowUnminimise(ctx context.Context) { runtime.WindowUnminimise(ctx) }
func (wailsRuntime) Quit(ctx context.Context)             { runtime.Quit(ctx) }

func (wailsRuntime) WindowSetTitle(ctx context.Context, title string) {
	runtime.WindowSetTitle(ctx, title)
}

func (wailsRuntime) WindowExecJS(ctx context.Context, js string) {
	runtime.WindowExecJS(ctx, js)
}

func (wailsRuntime) MessageDialog(ctx context.Context, opts runtime.MessageDialogOptions) (string, error) {
	return runtime.MessageDialog(ctx, opts)
}
