package printing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/raidhaan/pos-backend/pkg/config"
	pkgerrors "github.com/raidhaan/pos-backend/pkg/errors"
)

// BridgeClient talks to a local printer-bridge daemon over a websocket. The
// daemon handles the raw printer access; this client negotiates trust and
// submits the rendered document for direct printing.
//
// Trust negotiation accepts an unsigned mode when BridgeAllowUnsigned is set.
// That is a development convenience; production deployments must configure a
// certificate and disable the unsigned mode.
type BridgeClient struct {
	cfg    config.PrintConfig
	dialer *websocket.Dialer
}

// NewBridgeClient builds the bridge channel.
func NewBridgeClient(cfg config.PrintConfig) *BridgeClient {
	return &BridgeClient{
		cfg: cfg,
		dialer: &websocket.Dialer{
			HandshakeTimeout: cfg.BridgeDialTimeout,
		},
	}
}

// bridgeMessage is one call submitted to the daemon.
type bridgeMessage struct {
	Call   string `json:"call"`
	UID    string `json:"uid"`
	Params any    `json:"params"`
}

// bridgeAck is the daemon's reply to a call.
type bridgeAck struct {
	UID    string `json:"uid"`
	Result string `json:"result"`
	Error  string `json:"error"`
}

type certificateParams struct {
	// nil certificate requests the unsigned trust mode.
	Certificate *string `json:"certificate"`
}

type printOptions struct {
	Copies int  `json:"copies"`
	Duplex bool `json:"duplex"`
}

type printPayload struct {
	Type   string `json:"type"`
	Format string `json:"format"`
	Data   string `json:"data"`
}

type printParams struct {
	// nil printer targets the daemon's default printer.
	Printer *string        `json:"printer"`
	Options printOptions   `json:"options"`
	Data    []printPayload `json:"data"`
}

func (b *BridgeClient) Name() string {
	return "bridge"
}

func (b *BridgeClient) Available(ctx context.Context) bool {
	return b.cfg.BridgeEnabled
}

func (b *BridgeClient) Print(ctx context.Context, doc Document) error {
	var certificate *string
	if b.cfg.BridgeCertificate != "" {
		cert := b.cfg.BridgeCertificate
		certificate = &cert
	} else if !b.cfg.BridgeAllowUnsigned {
		return pkgerrors.New(pkgerrors.CodeDependency, "bridge certificate required when unsigned mode is disabled")
	}

	conn, _, err := b.dialer.DialContext(ctx, b.cfg.BridgeURL, nil)
	if err != nil {
		return fmt.Errorf("connecting to print bridge: %w", err)
	}
	defer conn.Close()

	if b.cfg.BridgePrintTimeout > 0 {
		deadline := time.Now().Add(b.cfg.BridgePrintTimeout)
		if err := conn.SetWriteDeadline(deadline); err != nil {
			return err
		}
		if err := conn.SetReadDeadline(deadline); err != nil {
			return err
		}
	}

	if err := b.call(conn, "certificate", certificateParams{Certificate: certificate}); err != nil {
		return fmt.Errorf("negotiating bridge trust: %w", err)
	}

	var printer *string
	if b.cfg.PrinterName != "" {
		name := b.cfg.PrinterName
		printer = &name
	}
	params := printParams{
		Printer: printer,
		Options: printOptions{Copies: 1, Duplex: false},
		Data: []printPayload{{
			Type:   "markup",
			Format: "plain",
			Data:   doc.Markup,
		}},
	}
	if err := b.call(conn, "print", params); err != nil {
		return fmt.Errorf("submitting print job: %w", err)
	}
	return nil
}

// call submits one message and waits for the matching acknowledgement.
func (b *BridgeClient) call(conn *websocket.Conn, name string, params any) error {
	uid := uuid.NewString()
	if err := conn.WriteJSON(bridgeMessage{Call: name, UID: uid, Params: params}); err != nil {
		return err
	}

	var ack bridgeAck
	if err := conn.ReadJSON(&ack); err != nil {
		return err
	}
	if ack.UID != uid {
		return fmt.Errorf("bridge replied to call %q, expected %q", ack.UID, uid)
	}
	if ack.Error != "" {
		return fmt.Errorf("bridge rejected %s call: %s", name, ack.Error)
	}
	return nil
}
