// Package websocket streams finished setups to a dashboard server. It
// implements storage.Backend but keeps nothing locally.
package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/gt7setup/tuner/pkg/core"
	"github.com/gt7setup/tuner/pkg/streaming"
)

// Re-exported protocol names for tests and callers in this package.
type (
	Envelope   = streaming.Envelope
	AckMessage = streaming.AckMessage
)

const (
	TypeStartSession    = streaming.TypeStartSession
	TypeEndSession      = streaming.TypeEndSession
	TypeAddVehicle      = streaming.TypeAddVehicle
	TypeSpringSetup     = streaming.TypeSpringSetup
	TypeGearSetup       = streaming.TypeGearSetup
	TypeTireCalculation = streaming.TypeTireCalculation
)

// Config holds WebSocket backend configuration.
type Config struct {
	URL    string
	Secret string
	// Client names this instance in start_session.
	Client string
}

// Backend streams calculations over WebSocket.
type Backend struct {
	conn      *connection
	cfg       Config
	sessionID string
	nextID    atomic.Uint64
}

// New creates a new WebSocket storage backend. A nil logger uses slog.Default.
func New(cfg Config, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{
		conn:      newConnection(logger),
		cfg:       cfg,
		sessionID: uuid.NewString(),
	}
}

// SessionID returns the identifier sent in start_session.
func (b *Backend) SessionID() string {
	return b.sessionID
}

// Init connects to the WebSocket server and opens a session. The
// start_session message is replayed after every reconnect.
func (b *Backend) Init() error {
	if err := b.conn.dial(b.cfg.URL, b.cfg.Secret); err != nil {
		return err
	}

	data, err := marshalEnvelope(TypeStartSession, streaming.StartSessionPayload{
		SessionID: b.sessionID,
		Client:    b.cfg.Client,
		StartedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	b.conn.mu.Lock()
	b.conn.cachedStartMsg = data
	b.conn.mu.Unlock()

	return b.conn.sendAndWait(data, TypeStartSession, ackTimeout)
}

// Close ends the session and disconnects. The connection is closed even when
// the server does not acknowledge end_session.
func (b *Backend) Close() error {
	var ackErr error
	if b.conn.connected() {
		ackErr = b.sendEnvelopeAndWait(TypeEndSession, nil)
	}

	b.conn.mu.Lock()
	b.conn.cachedStartMsg = nil
	b.conn.mu.Unlock()

	if err := b.conn.close(); err != nil {
		return err
	}
	return ackErr
}

// marshalEnvelope builds a JSON-encoded Envelope from a message type and payload.
func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	env := streaming.Envelope{Type: msgType, Payload: raw}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}

// sendEnvelope marshals the payload into an Envelope and pushes it
// to the write loop (fire-and-forget).
func (b *Backend) sendEnvelope(msgType string, payload any) error {
	data, err := marshalEnvelope(msgType, payload)
	if err != nil {
		return err
	}
	b.conn.send(data)
	return nil
}

// sendEnvelopeAndWait marshals the payload and waits for a server ack.
func (b *Backend) sendEnvelopeAndWait(msgType string, payload any) error {
	data, err := marshalEnvelope(msgType, payload)
	if err != nil {
		return err
	}
	return b.conn.sendAndWait(data, msgType, ackTimeout)
}

func (b *Backend) SaveVehicle(v *core.VehicleProfile) error {
	return b.sendEnvelope(TypeAddVehicle, v)
}

// RecordSpringCalculation assigns a session-local ID and sends the setup.
func (b *Backend) RecordSpringCalculation(c *core.SpringCalculation) error {
	c.ID = uint(b.nextID.Add(1))
	return b.sendEnvelope(TypeSpringSetup, c)
}

func (b *Backend) RecordGearCalculation(c *core.GearCalculation) error {
	c.ID = uint(b.nextID.Add(1))
	return b.sendEnvelope(TypeGearSetup, c)
}

func (b *Backend) RecordTireCalculation(c *core.TireCalculation) error {
	c.ID = uint(b.nextID.Add(1))
	return b.sendEnvelope(TypeTireCalculation, c)
}
