// Package updater implements the launch-time self-update cycle of the shell:
// fetch the version manifest, compare it with the running build, ask the
// operator, download the installer, launch it and exit.
package updater

import (
	"errors"
	"fmt"
)

var (
	// ErrNoUpdateAvailable indicates the running build is current.
	ErrNoUpdateAvailable = errors.New("no update available")

	// ErrManifestFetch is matched by every ManifestFetchError.
	ErrManifestFetch = errors.New("manifest fetch failed")

	// ErrInvalidManifest indicates the manifest decoded but is unusable.
	ErrInvalidManifest = errors.New("invalid manifest")

	// ErrInvalidVersion indicates a version string is not a semantic version.
	ErrInvalidVersion = errors.New("invalid version format")

	// ErrNetworkError indicates a transport failure or unexpected status.
	ErrNetworkError = errors.New("network error")

	// ErrDownloadFailed is matched by every DownloadError.
	ErrDownloadFailed = errors.New("download failed")

	// ErrLaunchFailed is matched by every LaunchError.
	ErrLaunchFailed = errors.New("launch failed")
)

// ManifestFetchError reports a failed check. It is logged, never shown.
type ManifestFetchError struct {
	URL string
	Err error
}

func (e *ManifestFetchError) Error() string {
	return fmt.Sprintf("fetch manifest %s: %v", e.URL, e.Err)
}

func (e *ManifestFetchError) Unwrap() []error { return []error{ErrManifestFetch, e.Err} }

// DownloadError reports a failed installer download. The operator sees an error notice.
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() []error { return []error{ErrDownloadFailed, e.Err} }

// LaunchError reports that the installer could not be started.
type LaunchError struct {
	Path string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s: %v", e.Path, e.Err)
}

func (e *LaunchError) Unwrap() []error { return []error{ErrLaunchFailed, e.Err} }
