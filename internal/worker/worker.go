// Package worker binds setup and vehicle commands to the dispatcher.
package worker

import (
	"errors"

	"github.com/gt7setup/tuner/internal/handlers"
	"github.com/gt7setup/tuner/internal/logging"
	"github.com/gt7setup/tuner/internal/storage"
)

// ErrUnsupported is returned when the storage backend cannot serve a query.
var ErrUnsupported = errors.New("not supported by storage backend")

// Dependencies holds all dependencies for the worker manager
type Dependencies struct {
	Service    *handlers.Service
	LogManager *logging.SlogManager
}

// Manager routes dispatcher events to the handler service and the backend
type Manager struct {
	deps    Dependencies
	backend storage.Backend
}

// NewManager creates a new worker manager
func NewManager(deps Dependencies, backend storage.Backend) *Manager {
	if deps.LogManager == nil {
		deps.LogManager = logging.NewSlogManager()
	}
	return &Manager{
		deps:    deps,
		backend: backend,
	}
}

func (m *Manager) vehicleSource() (storage.VehicleSource, error) {
	if src, ok := m.backend.(storage.VehicleSource); ok {
		return src, nil
	}
	return nil, ErrUnsupported
}

// flusher is implemented by backends that queue writes.
type flusher interface {
	Flush()
}

// history returns the backend's history view with queued writes applied.
func (m *Manager) history() (storage.History, error) {
	h, ok := m.backend.(storage.History)
	if !ok {
		return nil, ErrUnsupported
	}
	if f, ok := m.backend.(flusher); ok {
		f.Flush()
	}
	return h, nil
}

// vehicleStore joins the backend's write and lookup sides for the importer.
type vehicleStore struct {
	storage.Backend
	storage.VehicleSource
}
