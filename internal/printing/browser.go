package printing

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/raidhaan/pos-backend/pkg/config"
)

// BrowserFallback writes the document to a temp file and hands it to the
// platform's default browser, where the auto-print variant opens the
// interactive print dialog. Last resort: it always applies when an opener
// exists, and reports failure instead of raising when none does.
type BrowserFallback struct {
	cfg config.PrintConfig

	lookPath func(file string) (string, error)
	start    func(ctx context.Context, name string, args ...string) error
}

// NewBrowserFallback builds the browser channel.
func NewBrowserFallback(cfg config.PrintConfig) *BrowserFallback {
	return &BrowserFallback{
		cfg:      cfg,
		lookPath: exec.LookPath,
		start:    startCommand,
	}
}

func (f *BrowserFallback) Name() string {
	return "browser"
}

func (f *BrowserFallback) Available(ctx context.Context) bool {
	name, _ := openerCommand()
	_, err := f.lookPath(name)
	return err == nil
}

func (f *BrowserFallback) Print(ctx context.Context, doc Document) error {
	markup := doc.AutoPrint
	if markup == "" {
		markup = doc.Markup
	}

	file, err := os.CreateTemp("", "receipt-*.html")
	if err != nil {
		return fmt.Errorf("writing receipt temp file: %w", err)
	}
	if _, err := file.WriteString(markup); err != nil {
		file.Close()
		return fmt.Errorf("writing receipt temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("writing receipt temp file: %w", err)
	}

	name, args := openerCommand()
	args = append(args, file.Name())
	if err := f.start(ctx, name, args...); err != nil {
		return fmt.Errorf("opening receipt in browser: %w", err)
	}
	return settle(ctx, f.cfg.SettleDelay)
}

// openerCommand returns the platform launcher for the default browser.
func openerCommand() (string, []string) {
	switch runtime.GOOS {
	case "darwin":
		return "open", nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler"}
	default:
		return "xdg-open", nil
	}
}

// startCommand launches without waiting: the browser process may outlive the
// print call, and some browsers block until the tab closes.
func startCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Start()
}
