package printing

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/raidhaan/pos-backend/pkg/config"
)

const spoolCommand = "lp"

// NativeSpooler submits the document straight to the system print spooler.
// Spooling has no dialog, so the channel only volunteers when the deployment
// opted into silent printing or configured a printer name; otherwise the
// interactive browser fallback is the better fit.
type NativeSpooler struct {
	cfg config.PrintConfig

	lookPath func(file string) (string, error)
	run      func(ctx context.Context, stdin string, name string, args ...string) error
}

// NewNativeSpooler builds the native spooler channel.
func NewNativeSpooler(cfg config.PrintConfig) *NativeSpooler {
	return &NativeSpooler{
		cfg:      cfg,
		lookPath: exec.LookPath,
		run:      runCommand,
	}
}

func (n *NativeSpooler) Name() string {
	return "native"
}

func (n *NativeSpooler) Available(ctx context.Context) bool {
	if !n.cfg.SilentPrint && n.cfg.PrinterName == "" {
		return false
	}
	_, err := n.lookPath(spoolCommand)
	return err == nil
}

func (n *NativeSpooler) Print(ctx context.Context, doc Document) error {
	args := []string{}
	if n.cfg.PrinterName != "" {
		args = append(args, "-d", n.cfg.PrinterName)
	}
	if err := n.run(ctx, doc.Markup, spoolCommand, args...); err != nil {
		return fmt.Errorf("spooling receipt: %w", err)
	}
	return settle(ctx, n.cfg.SettleDelay)
}

func runCommand(ctx context.Context, stdin string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(stdin)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w (%s)", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}
