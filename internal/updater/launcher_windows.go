//go:build windows

package updater

import (
	"fmt"
	"path/filepath"

	"golang.org/x/sys/windows"
)

// openFile runs the installer through ShellExecute so UAC elevation prompts work.
func openFile(path string) error {
	verb, err := windows.UTF16PtrFromString("open")
	if err != nil {
		return err
	}
	file, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}
	dir, err := windows.UTF16PtrFromString(filepath.Dir(path))
	if err != nil {
		return err
	}

	if err := windows.ShellExecute(0, verb, file, nil, dir, windows.SW_SHOWNORMAL); err != nil {
		return fmt.Errorf("shell execute: %w", err)
	}
	return nil
}
