package updater

import (
	"fmt"
	"os"
)

// Launcher starts a downloaded installer.
type Launcher interface {
	Launch(path string) error
}

// ShellLauncher hands the file to the operating system's default open/execute
// mechanism and returns once the process was spawned.
type ShellLauncher struct {
	open func(path string) error
}

// NewShellLauncher returns the launcher for the current platform.
func NewShellLauncher() *ShellLauncher {
	return &ShellLauncher{open: openFile}
}

// Launch starts path without waiting for it.
func (l *ShellLauncher) Launch(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat installer: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("installer %s is a directory", path)
	}
	return l.open(path)
}
