package gearing

import (
	"fmt"
	"math"

	"github.com/gt7setup/tuner/pkg/core"
)

// SpeedAtRPM returns road speed in mph and km/h for an engine speed in a
// gear. A zero divisor yields (0, 0).
func (c *Calculator) SpeedAtRPM(rpm, gearRatio, finalDrive, tireDiameter float64) (mph, kph float64) {
	mph, kph, err := speedAtRPM(rpm, gearRatio, finalDrive, tireDiameter)
	if err != nil {
		c.logger.Error("Error calculating speed at RPM", "error", err)
		return 0, 0
	}
	return mph, kph
}

func speedAtRPM(rpm, gearRatio, finalDrive, tireDiameter float64) (float64, float64, error) {
	if gearRatio == 0 || finalDrive == 0 {
		return 0, 0, fmt.Errorf("speed at rpm: ratio %.3f final drive %.3f: %w", gearRatio, finalDrive, ErrZeroDivisor)
	}
	mps := rpm * math.Pi * tireMetres(tireDiameter) / (gearRatio * finalDrive * secondsPerMin)
	kph := mps * KPHPerMPS
	mph := kph / KPHPerMPH
	if err := checkFinite("speed at rpm", mph, kph); err != nil {
		return 0, 0, err
	}
	return mph, kph, nil
}

// GearSpeeds returns the speed reached in each gear at rpm, rounded to
// 0.1 mph. Gears whose speed cannot be computed are reported at 0.
func (c *Calculator) GearSpeeds(gears []core.Gear, finalDrive, rpm, tireDiameter float64) []core.GearSpeed {
	speeds := make([]core.GearSpeed, 0, len(gears))
	for _, g := range gears {
		mph, _ := c.SpeedAtRPM(rpm, g.Ratio, finalDrive, tireDiameter)
		speeds = append(speeds, core.GearSpeed{Label: g.Label, SpeedMPH: roundTo(mph, 1)})
	}
	c.logger.Debug("Generated gear speeds", "count", len(speeds))
	return speeds
}

// TopSpeed returns the mph reached at rpm in the last gear, rounded to 0.1.
func (c *Calculator) TopSpeed(gears []core.Gear, finalDrive, rpm, tireDiameter float64) float64 {
	if len(gears) == 0 {
		return 0
	}
	mph, _ := c.SpeedAtRPM(rpm, gears[len(gears)-1].Ratio, finalDrive, tireDiameter)
	return roundTo(mph, 1)
}

// OptimizeFinalDrive solves the speed formula for the final drive that
// reaches targetMPH at redline in the given last gear. Failures yield
// DefaultOptimizedFinalDrive.
func (c *Calculator) OptimizeFinalDrive(targetMPH, redlineRPM, lastGearRatio, tireDiameter float64) float64 {
	fd, err := optimizeFinalDrive(targetMPH, redlineRPM, lastGearRatio, tireDiameter)
	if err != nil {
		c.logger.Error("Error optimizing final drive", "error", err)
		return DefaultOptimizedFinalDrive
	}
	c.logger.Debug("Optimized final drive ratio", "finalDrive", fd)
	return fd
}

func optimizeFinalDrive(targetMPH, redlineRPM, lastGearRatio, tireDiameter float64) (float64, error) {
	mps := targetMPH * KPHPerMPH / KPHPerMPS
	if mps == 0 || lastGearRatio == 0 {
		return 0, fmt.Errorf("final drive: speed %.1f ratio %.3f: %w", targetMPH, lastGearRatio, ErrZeroDivisor)
	}
	fd := (redlineRPM * math.Pi * tireMetres(tireDiameter)) / (mps * lastGearRatio * secondsPerMin)
	if err := checkFinite("final drive", fd); err != nil {
		return 0, err
	}
	return roundTo(fd, 3), nil
}
