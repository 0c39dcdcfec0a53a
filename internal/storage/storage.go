// Package storage defines where finished setups and vehicle profiles go.
package storage

import (
	"errors"

	"github.com/gt7setup/tuner/pkg/core"
)

// ErrNotFound is returned by lookups that match nothing.
var ErrNotFound = errors.New("not found")

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// SaveVehicle creates or updates the profile keyed by name.
	SaveVehicle(v *core.VehicleProfile) error

	// Calculation recording (assigns ID to the passed pointer where the
	// backend can do so synchronously)
	RecordSpringCalculation(c *core.SpringCalculation) error
	RecordGearCalculation(c *core.GearCalculation) error
	RecordTireCalculation(c *core.TireCalculation) error
}

// VehicleSource is implemented by backends that can serve vehicle profiles
// back to the calculators.
type VehicleSource interface {
	// Vehicle returns the profile stored under name, or ErrNotFound.
	Vehicle(name string) (core.VehicleProfile, error)
	// Vehicles returns every stored profile sorted by name.
	Vehicles() ([]core.VehicleProfile, error)
}

// VehicleRemover is implemented by backends that can delete a stored
// profile. Names match case-insensitively; a missing name is ErrNotFound.
type VehicleRemover interface {
	DeleteVehicle(name string) error
}

// History is implemented by backends that keep past calculations queryable.
// Results are newest first; limit <= 0 returns everything.
type History interface {
	SpringHistory(vehicle string, limit int) ([]core.SpringCalculation, error)
	GearHistory(vehicle string, limit int) ([]core.GearCalculation, error)
	TireHistory(limit int) ([]core.TireCalculation, error)
}

// Exportable is an optional interface for storage backends that write a file
// when closed.
type Exportable interface {
	ExportedFilePath() string
}
