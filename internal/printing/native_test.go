package printing

import (
	"context"
	"errors"
	"testing"

	"github.com/raidhaan/pos-backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNativeSpoolerAvailability(t *testing.T) {
	found := func(string) (string, error) { return "/usr/bin/lp", nil }
	missing := func(string) (string, error) { return "", errors.New("not found") }

	spooler := NewNativeSpooler(config.PrintConfig{})
	spooler.lookPath = found
	assert.False(t, spooler.Available(context.Background()),
		"opts out unless silent printing or a printer name is configured")

	spooler = NewNativeSpooler(config.PrintConfig{SilentPrint: true})
	spooler.lookPath = found
	assert.True(t, spooler.Available(context.Background()))

	spooler = NewNativeSpooler(config.PrintConfig{PrinterName: "EPSON-TM20"})
	spooler.lookPath = found
	assert.True(t, spooler.Available(context.Background()))

	spooler = NewNativeSpooler(config.PrintConfig{SilentPrint: true})
	spooler.lookPath = missing
	assert.False(t, spooler.Available(context.Background()), "no spool command on the host")
}

func TestNativeSpoolerPrintTargetsConfiguredPrinter(t *testing.T) {
	var gotStdin, gotName string
	var gotArgs []string

	spooler := NewNativeSpooler(config.PrintConfig{PrinterName: "EPSON-TM20"})
	spooler.run = func(ctx context.Context, stdin string, name string, args ...string) error {
		gotStdin, gotName, gotArgs = stdin, name, args
		return nil
	}

	err := spooler.Print(context.Background(), Document{Markup: "<html>receipt</html>"})
	require.NoError(t, err)
	assert.Equal(t, "lp", gotName)
	assert.Equal(t, []string{"-d", "EPSON-TM20"}, gotArgs)
	assert.Equal(t, "<html>receipt</html>", gotStdin)
}

func TestNativeSpoolerPrintDefaultPrinter(t *testing.T) {
	var gotArgs []string

	spooler := NewNativeSpooler(config.PrintConfig{SilentPrint: true})
	spooler.run = func(ctx context.Context, stdin string, name string, args ...string) error {
		gotArgs = args
		return nil
	}

	err := spooler.Print(context.Background(), Document{Markup: "receipt"})
	require.NoError(t, err)
	assert.Empty(t, gotArgs)
}

func TestNativeSpoolerPrintWrapsSpoolFailure(t *testing.T) {
	spooler := NewNativeSpooler(config.PrintConfig{SilentPrint: true})
	spooler.run = func(ctx context.Context, stdin string, name string, args ...string) error {
		return errors.New("lp: no default destination")
	}

	err := spooler.Print(context.Background(), Document{Markup: "receipt"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spooling receipt")
}
