// Package tire infers the driven tire diameter from a speed reading.
package tire

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/gt7setup/tuner/pkg/core"
)

// Accepted diameter range in inches and the substitute for anything else.
const (
	MinDiameter     = 15.0
	MaxDiameter     = 35.0
	DefaultDiameter = 26.0

	inchesPerMetre = 39.37
)

var (
	ErrMissingInput = errors.New("gear ratio, rpm, speed and final drive are all required")
	ErrOutOfRange   = errors.New("diameter outside plausible range")
)

// Estimator infers tire diameters.
type Estimator struct {
	logger *slog.Logger
}

// New returns an Estimator that logs rejected readings to logger.
func New(logger *slog.Logger) *Estimator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Estimator{logger: logger}
}

// Diameter returns the tire diameter in inches, rounded to 0.01, implied by
// obs. Readings that are incomplete or imply a diameter outside
// [MinDiameter, MaxDiameter] yield DefaultDiameter.
func (e *Estimator) Diameter(obs core.TireObservation) float64 {
	d, err := Diameter(obs)
	switch {
	case errors.Is(err, ErrMissingInput):
		return DefaultDiameter
	case err != nil:
		e.logger.Warn("Calculated tire diameter is outside reasonable range, using default", "error", err)
		return DefaultDiameter
	}
	return d
}

// Diameter is the error-reporting form of Estimator.Diameter.
func Diameter(obs core.TireObservation) (float64, error) {
	if obs.GearRatio == 0 || obs.RPM == 0 || obs.SpeedKPH == 0 || obs.FinalDrive == 0 {
		return 0, ErrMissingInput
	}

	wheelRPM := obs.RPM / (obs.GearRatio * obs.FinalDrive)
	d := (obs.SpeedKPH * 1000 / (wheelRPM * 60 * math.Pi)) * inchesPerMetre

	// NaN fails both comparisons
	if !(d >= MinDiameter && d <= MaxDiameter) {
		return 0, fmt.Errorf("tire diameter %.2f: %w", d, ErrOutOfRange)
	}
	return math.Round(d*100) / 100, nil
}
