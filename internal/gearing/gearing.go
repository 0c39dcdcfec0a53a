// Package gearing synthesizes transmission ratios and the figures derived
// from them: road speed per gear, 0-60 estimate and a modelled torque curve.
package gearing

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/gt7setup/tuner/pkg/core"
)

// Unit conversions.
const (
	MPHToMPS      = 0.44704
	InchToMetre   = 0.0254
	KPHPerMPS     = 3.6
	KPHPerMPH     = 1.60934
	secondsPerMin = 60
)

// Fallback values returned when a calculation cannot complete.
const (
	DefaultFinalDrive          = 3.700
	DefaultOptimizedFinalDrive = 4.100
	DefaultAcceleration        = 9.9
	DefaultTorquePoints        = 20
	MaxFirstGearRatio          = 5.0

	// Gear counts accepted by ratio synthesis.
	MinGears = 2
	MaxGears = 9
)

// DefaultRatios is the stock six-speed set returned when synthesis fails.
var DefaultRatios = []float64{3.545, 2.053, 1.395, 1.052, 0.851, 0.709}

var (
	ErrGearCount     = errors.New("gear count must be between 2 and 9")
	ErrSpeed         = errors.New("speed must be positive")
	ErrRatioOrder    = errors.New("first gear must be shorter than top gear")
	ErrZeroDivisor   = errors.New("divisor is zero")
	ErrTorqueSamples = errors.New("torque curve needs at least two samples")
	ErrNonFinite     = errors.New("result is not a finite number")
)

// Calculator runs the gearing computations. It is stateless apart from its
// logger.
type Calculator struct {
	logger *slog.Logger
}

// New returns a Calculator that reports failures to logger.
func New(logger *slog.Logger) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Calculator{logger: logger}
}

// Ordinal labels a 1-based gear number: 1st, 2nd, 3rd, 4th ... 11th, 21st.
func Ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}

// Label turns a ratio list into labelled gears.
func Label(ratios []float64) []core.Gear {
	gears := make([]core.Gear, len(ratios))
	for i, r := range ratios {
		gears[i] = core.Gear{Label: Ordinal(i + 1), Ratio: r}
	}
	return gears
}

func defaultGears() []core.Gear {
	return Label(DefaultRatios)
}

func tireMetres(diameterInches float64) float64 {
	return diameterInches * InchToMetre
}

func checkFinite(op string, values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s: %w", op, ErrNonFinite)
		}
	}
	return nil
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
