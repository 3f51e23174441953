//go:build !windows

package updater

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

func openFile(path string) error {
	if err := os.Chmod(path, 0755); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}

	cmd := exec.Command(openCommand(), path)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", cmd.Path, err)
	}
	return cmd.Process.Release()
}

// openCommand is the desktop "open" helper: open(1) on macOS, xdg-open elsewhere.
func openCommand() string {
	if runtime.GOOS == "darwin" {
		return "open"
	}
	return "xdg-open"
}
