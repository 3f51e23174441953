package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rennerdo30/lumen-desktop/internal/updater"
	"github.com/rennerdo30/lumen-desktop/internal/version"
)

func newUpdateCommand() *cobra.Command {
	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Check for updates and install them after confirmation",
		Long: `Run one update cycle from the terminal: fetch the release manifest, ask
before downloading a newer installer, then start it.`,
		RunE: runUpdate,
	}

	updateCheckCmd := &cobra.Command{
		Use:   "check",
		Short: "Check if updates are available",
		RunE:  runUpdateCheck,
	}

	updateCmd.AddCommand(updateCheckCmd)
	return updateCmd
}

func newConsoleUpdater(cmd *cobra.Command) (*updater.Updater, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	host := &consoleHost{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.OutOrStdout()}
	return updater.New(updaterConfig(cfg.Update), updater.Options{Host: host})
}

// commandContext returns the command's context. cmd.Context() is nil when the
// command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func runUpdateCheck(cmd *cobra.Command, args []string) error {
	u, err := newConsoleUpdater(cmd)
	if err != nil {
		return fmt.Errorf("create updater: %w", err)
	}

	info, err := u.Check(commandContext(cmd))
	if err != nil {
		if errors.Is(err, updater.ErrNoUpdateAvailable) {
			fmt.Fprintf(cmd.OutOrStdout(), "Current version %s is up to date.\n", version.Short())
			return nil
		}
		return fmt.Errorf("check for update: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Update available!\n")
	fmt.Fprintf(out, "  Current version: %s\n", info.CurrentVersion)
	fmt.Fprintf(out, "  New version:     %s\n", info.NewVersion)
	fmt.Fprintf(out, "  Download:        %s\n", info.DownloadURL)
	fmt.Fprintf(out, "\nRun 'lumen update' to install.\n")
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	u, err := newConsoleUpdater(cmd)
	if err != nil {
		return fmt.Errorf("create updater: %w", err)
	}

	res := u.Run(commandContext(cmd))
	out := cmd.OutOrStdout()
	switch res.Stage {
	case updater.StageUpToDate:
		fmt.Fprintf(out, "Current version %s is up to date.\n", version.Short())
	case updater.StageDeclined:
		fmt.Fprintln(out, "Update skipped.")
	case updater.StageProcessExit:
		fmt.Fprintf(out, "Installer started: %s\n", res.LocalPath)
	case updater.StageFailed:
		return fmt.Errorf("update failed: %w", res.Err())
	}
	return nil
}

// consoleHost answers the updater on a terminal.
type consoleHost struct {
	in  *bufio.Reader
	out io.Writer

	mu      sync.Mutex
	lastPct int64
}

func (h *consoleHost) ShowWindow() {}

func (h *consoleHost) Prompt(opts updater.PromptOptions) (updater.Decision, error) {
	fmt.Fprintf(h.out, "%s\n%s [y/N]: ", opts.Title, opts.Message)

	line, err := h.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return updater.Declined, err
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return updater.Accepted, nil
	}
	return updater.Declined, nil
}

func (h *consoleHost) Notify(kind updater.NoticeKind, message string) {
	if kind == updater.NoticeError {
		fmt.Fprintf(h.out, "\nError: %s\n", message)
		return
	}
	fmt.Fprintln(h.out, message)
}

func (h *consoleHost) Progress(downloaded, total int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if total <= 0 {
		fmt.Fprintf(h.out, "\rDownloading: %s", humanize.Bytes(uint64(downloaded)))
		return
	}
	pct := downloaded * 100 / total
	if pct == h.lastPct {
		return
	}
	h.lastPct = pct
	fmt.Fprintf(h.out, "\rDownloading: %d%% (%s/%s)", pct, humanize.Bytes(uint64(downloaded)), humanize.Bytes(uint64(total)))
	if downloaded >= total {
		fmt.Fprintln(h.out)
	}
}

func (h *consoleHost) Exit() {}
