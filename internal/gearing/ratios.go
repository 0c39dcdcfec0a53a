package gearing

import (
	"fmt"
	"math"

	"github.com/gt7setup/tuner/pkg/core"
)

// RatioParams are the inputs of ratio synthesis.
type RatioParams struct {
	NumGears          int
	TopSpeedMPH       float64
	MinCornerSpeedMPH float64
	MinRPM            float64
	MaxRPM            float64
	MaxPowerRPM       float64
	PowerHP           float64
	TireDiameter      float64 // inches
}

// NewRatioParams picks the ratio inputs out of a gear request.
func NewRatioParams(in core.GearingInput) RatioParams {
	return RatioParams{
		NumGears:          in.NumGears,
		TopSpeedMPH:       in.TopSpeedMPH,
		MinCornerSpeedMPH: in.MinCornerSpeedMPH,
		MinRPM:            in.MinRPM,
		MaxRPM:            in.MaxRPM,
		MaxPowerRPM:       in.MaxPowerRPM,
		PowerHP:           in.PowerHP,
		TireDiameter:      in.TireDiameter,
	}
}

// OptimalFinalDrive lowers the final drive as power rises, within [3, 5].
func OptimalFinalDrive(powerHP float64) float64 {
	return math.Max(3.0, math.Min(5.0, 4.5-0.0015*powerHP))
}

// Ratios returns labelled gear ratios, shortest first, and the final drive.
// On failure it returns DefaultRatios with DefaultFinalDrive.
func (c *Calculator) Ratios(p RatioParams) ([]core.Gear, float64) {
	c.logger.Debug("Calculating gear ratios",
		"gears", p.NumGears,
		"topSpeedMph", p.TopSpeedMPH,
		"minCornerSpeedMph", p.MinCornerSpeedMPH)

	ratios, fd, err := gearRatios(p)
	if err != nil {
		c.logger.Error("Error calculating gear ratios", "error", err)
		return defaultGears(), DefaultFinalDrive
	}
	gears := Label(ratios)
	c.logger.Debug("Calculated gear ratios", "ratios", ratios, "finalDrive", fd)
	return gears, fd
}

func gearRatios(p RatioParams) ([]float64, float64, error) {
	if p.NumGears < MinGears || p.NumGears > MaxGears {
		return nil, 0, fmt.Errorf("gear ratios: %d gears: %w", p.NumGears, ErrGearCount)
	}
	if p.TopSpeedMPH <= 0 || p.MinCornerSpeedMPH <= 0 {
		return nil, 0, fmt.Errorf("gear ratios: top %.1f corner %.1f: %w",
			p.TopSpeedMPH, p.MinCornerSpeedMPH, ErrSpeed)
	}

	fd := OptimalFinalDrive(p.PowerHP)
	d := tireMetres(p.TireDiameter)

	top := (p.MaxRPM * math.Pi * d) / (secondsPerMin * p.TopSpeedMPH * MPHToMPS * fd)

	cornerRPM := p.MinRPM + (p.MaxPowerRPM-p.MinRPM)*0.4
	first := (cornerRPM * math.Pi * d) / (secondsPerMin * (p.MinCornerSpeedMPH * MPHToMPS / 2) * fd)
	first = math.Min(first, MaxFirstGearRatio)

	if err := checkFinite("gear ratios", top, first); err != nil {
		return nil, 0, err
	}
	if top <= 0 || first <= top {
		return nil, 0, fmt.Errorf("gear ratios: first %.3f top %.3f: %w", first, top, ErrRatioOrder)
	}

	ratios, err := progression(first, top, p.NumGears)
	if err != nil {
		return nil, 0, err
	}
	return ratios, roundTo(fd, 3), nil
}

// progression spreads n ratios geometrically from first down to top,
// rounded to 3 decimals. Ratios that collapse onto each other after
// rounding are rejected.
func progression(first, top float64, n int) ([]float64, error) {
	step := math.Pow(first/top, 1/float64(n-1))

	ratios := make([]float64, n)
	for i := range ratios {
		var r float64
		switch i {
		case 0:
			r = first
		case n - 1:
			r = top
		default:
			r = first / math.Pow(step, float64(i))
		}
		ratios[i] = roundTo(r, 3)
		if i > 0 && ratios[i] >= ratios[i-1] {
			return nil, fmt.Errorf("gear ratios: %s %.3f not below %s %.3f: %w",
				Ordinal(i+1), ratios[i], Ordinal(i), ratios[i-1], ErrRatioOrder)
		}
	}
	return ratios, nil
}
