// Package streaming defines the JSON messages the websocket backend sends to
// a live setup dashboard.
package streaming

import (
	"encoding/json"
	"time"

	"github.com/gt7setup/tuner/pkg/core"
)

// Message type constants matching the streaming protocol.
const (
	TypeStartSession    = "start_session"
	TypeEndSession      = "end_session"
	TypeAddVehicle      = "add_vehicle"
	TypeSpringSetup     = "spring_setup"
	TypeGearSetup       = "gear_setup"
	TypeTireCalculation = "tire_calculation"
	TypeAck             = "ack"
)

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// AckMessage is the server's acknowledgement response.
type AckMessage struct {
	Type string `json:"type"` // always "ack"
	For  string `json:"for"`  // the message type being acknowledged
}

// StartSessionPayload identifies the client opening a session. SessionID is
// stable across reconnects so the server can join replayed sessions.
type StartSessionPayload struct {
	SessionID string    `json:"sessionId"`
	Client    string    `json:"client"`
	StartedAt time.Time `json:"startedAt"`
}

// VehiclePayload is sent when a vehicle profile is created or updated.
type VehiclePayload = core.VehicleProfile

// SpringSetupPayload is sent for every finished spring setup.
type SpringSetupPayload = core.SpringCalculation

// GearSetupPayload is sent for every finished gear setup.
type GearSetupPayload = core.GearCalculation

// TireCalculationPayload is sent for every tire diameter estimate.
type TireCalculationPayload = core.TireCalculation
