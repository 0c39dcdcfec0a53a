// Package suspension derives spring, damper, roll bar and alignment settings
// from vehicle telemetry. Every stage is total: bad input is logged and the
// stage's default setting is returned instead of an error.
package suspension

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/gt7setup/tuner/pkg/core"
)

// Stage defaults returned when a calculation cannot complete.
var (
	DefaultSpringRates = core.AxlePair{Front: 7.0, Rear: 7.0}
	DefaultFrequencies = core.AxlePair{Front: 2.50, Rear: 2.50}
	DefaultDampers     = core.DamperSettings{
		FrontCompression: 30,
		FrontExtension:   40,
		RearCompression:  30,
		RearExtension:    40,
	}
	DefaultRollBars  = core.AxlePair{Front: 5.0, Rear: 5.0}
	DefaultAlignment = core.AlignmentSettings{
		FrontCamber: -3.0,
		RearCamber:  -2.0,
		FrontToe:    0.05,
		RearToe:     0.20,
	}
)

var (
	ErrRideHeight  = errors.New("ride height must be positive")
	ErrLeverRatio  = errors.New("lever ratio must be positive")
	ErrMass        = errors.New("axle mass must be positive")
	ErrSpringRate  = errors.New("spring rate must not be negative")
	ErrStability   = errors.New("high speed stability must be non-zero")
	ErrNonFinite   = errors.New("result is not a finite number")
	ErrDampingRoot = errors.New("damping term is negative")
)

// Calculator runs the suspension stages. It holds no state besides its
// logger and is safe for concurrent use.
type Calculator struct {
	logger *slog.Logger
}

// New returns a Calculator that reports stage failures to logger.
func New(logger *slog.Logger) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Calculator{logger: logger}
}

// Calculate runs all five stages for one vehicle. Each stage feeds on the
// rounded output of the previous one, as a driver would read them off the
// setup sheet.
func (c *Calculator) Calculate(in core.SuspensionInput, v core.VehicleProfile) core.SuspensionOutput {
	rates := c.SpringRates(NewSpringParams(in, v))
	return core.SuspensionOutput{
		SpringRate: rates,
		SpringFrequency: c.SpringFrequencies(FrequencyParams{
			Rates:             rates,
			Weight:            in.VehicleWeight,
			FrontDistribution: in.FrontWeightDistribution,
			CarType:           v.CarType,
			Offset:            in.SpringFrequencyOffset,
		}),
		Dampers: c.Dampers(DamperParams{
			Rates:             rates,
			Weight:            in.VehicleWeight,
			FrontDistribution: in.FrontWeightDistribution,
			CornerEntry:       in.CornerEntryAdjustment,
			CornerExit:        in.CornerExitAdjustment,
			FrontTires:        in.FrontTires,
			RearTires:         in.RearTires,
		}),
		RollBar: c.RollBars(RollBarParams{
			RotationalG:        in.RotationalG(),
			LowSpeedStability:  in.LowSpeedStability,
			HighSpeedStability: in.HighSpeedStability,
			ARBMultiplier:      in.ARBStiffnessMultiplier,
			OUAdjustment:       in.OUAdjustment,
		}),
		Alignment: c.Alignment(NewAlignmentParams(in, v)),
	}
}

// axleMasses splits the total weight by the front percentage.
func axleMasses(weight, frontDistribution float64) (front, rear float64) {
	ratio := frontDistribution / 100.0
	return weight * ratio, weight * (1 - ratio)
}

func checkFinite(stage string, values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s: %w", stage, ErrNonFinite)
		}
	}
	return nil
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
