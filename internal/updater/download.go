package updater

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rennerdo30/lumen-desktop/internal/version"
)

// defaultInstallerName is used when the download URL has no usable file name.
const defaultInstallerName = "lumen-setup"

const maxNameAttempts = 100

// ProgressCallback is called during download with progress info.
// total is -1 when the server sent no Content-Length.
type ProgressCallback func(downloaded, total int64)

// DownloadService fetches an installer to local disk and returns its path.
type DownloadService interface {
	Download(ctx context.Context, rawURL string, progress ProgressCallback) (string, error)
}

// Downloader saves installers into a directory.
type Downloader struct {
	httpClient *http.Client
	dir        string
}

// NewDownloader creates a Downloader writing into dir.
func NewDownloader(dir string, httpClient *http.Client) *Downloader {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Downloader{
		httpClient: httpClient,
		dir:        dir,
	}
}

// Download streams rawURL into the download directory. The body is written to
// a ".part" file that only takes the final name once the copy completed. An
// existing file with the same name is kept; the installer gets a numbered name.
func (d *Downloader) Download(ctx context.Context, rawURL string, progress ProgressCallback) (string, error) {
	name := InstallerFileName(rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrNetworkError, resp.StatusCode)
	}

	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	out, err := os.CreateTemp(d.dir, name+".*.part")
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	partPath := out.Name()

	var reader io.Reader = resp.Body
	if progress != nil {
		reader = &progressReader{
			reader:   resp.Body,
			total:    resp.ContentLength,
			callback: progress,
		}
	}

	_, copyErr := io.Copy(out, reader)
	closeErr := out.Close()
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		os.Remove(partPath)
		return "", fmt.Errorf("write %s: %w", name, copyErr)
	}

	destPath, err := availablePath(d.dir, name)
	if err != nil {
		os.Remove(partPath)
		return "", err
	}
	if err := os.Rename(partPath, destPath); err != nil {
		os.Remove(partPath)
		return "", fmt.Errorf("finalize %s: %w", destPath, err)
	}

	return destPath, nil
}

// availablePath returns dir/name, or dir/"base-N.ext" for the first N that
// does not exist yet.
func availablePath(dir, name string) (string, error) {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	candidate := filepath.Join(dir, name)
	for n := 1; n <= maxNameAttempts; n++ {
		if _, err := os.Lstat(candidate); errors.Is(err, os.ErrNotExist) {
			return candidate, nil
		} else if err != nil {
			return "", fmt.Errorf("stat %s: %w", candidate, err)
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s-%d%s", base, n, ext))
	}
	return "", fmt.Errorf("no free file name for %s in %s", name, dir)
}

// InstallerFileName derives the local file name from the last URL path segment.
func InstallerFileName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return defaultInstallerName
	}
	name := path.Base(u.Path)
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == "/" || name == ".." || strings.ContainsAny(name, `\:`) {
		return defaultInstallerName
	}
	return name
}

// progressReader wraps an io.Reader to report progress.
type progressReader struct {
	reader     io.Reader
	total      int64
	downloaded int64
	callback   ProgressCallback
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	if n > 0 {
		pr.downloaded += int64(n)
		pr.callback(pr.downloaded, pr.total)
	}
	return n, err
}
