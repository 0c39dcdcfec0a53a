// Package setup combines the suspension, gearing and tire calculators into
// the two operations a driver asks for: a spring setup and a gear setup.
package setup

import (
	"log/slog"
	"math"

	"github.com/gt7setup/tuner/internal/gearing"
	"github.com/gt7setup/tuner/internal/suspension"
	"github.com/gt7setup/tuner/internal/tire"
	"github.com/gt7setup/tuner/pkg/core"
)

// Options tune the facade. Zero values select the built-in defaults.
type Options struct {
	// DefaultWeight is used for the acceleration estimate when the vehicle
	// has no base weight.
	DefaultWeight float64
	// TorqueCurvePoints is the number of torque curve samples.
	TorqueCurvePoints int
}

const fallbackWeight = 1400.0

// Calculator produces complete setups. Safe for concurrent use.
type Calculator struct {
	logger     *slog.Logger
	suspension *suspension.Calculator
	gearing    *gearing.Calculator
	tire       *tire.Estimator
	opts       Options
}

// New wires the calculators around a shared logger.
func New(logger *slog.Logger, opts Options) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.DefaultWeight <= 0 {
		opts.DefaultWeight = fallbackWeight
	}
	if opts.TorqueCurvePoints <= 0 {
		opts.TorqueCurvePoints = gearing.DefaultTorquePoints
	}
	return &Calculator{
		logger:     logger,
		suspension: suspension.New(logger),
		gearing:    gearing.New(logger),
		tire:       tire.New(logger),
		opts:       opts,
	}
}

// SpringSetup runs the suspension pipeline and snaps roll bars to the whole
// steps the game accepts.
func (c *Calculator) SpringSetup(v core.VehicleProfile, in core.SuspensionInput) core.SuspensionOutput {
	out := c.suspension.Calculate(in, v)
	out.RollBar = core.AxlePair{
		Front: math.Round(out.RollBar.Front),
		Rear:  math.Round(out.RollBar.Rear),
	}
	c.logger.Info("spring setup calculated",
		"vehicle", v.Name,
		"springFront", out.SpringRate.Front,
		"springRear", out.SpringRate.Rear)
	return out
}

// GearSetup synthesizes a gearbox for in. A tire observation, when present,
// overrides the supplied tire diameter.
func (c *Calculator) GearSetup(v core.VehicleProfile, in core.GearingInput) core.GearingOutput {
	diameter := in.TireDiameter
	if in.TireObservation != nil {
		diameter = c.tire.Diameter(*in.TireObservation)
	}

	p := gearing.NewRatioParams(in)
	p.TireDiameter = diameter
	gears, fd := c.gearing.Ratios(p)
	if in.OptimizeFinalDrive && len(gears) > 0 {
		fd = c.gearing.OptimizeFinalDrive(in.TopSpeedMPH, in.MaxRPM, gears[len(gears)-1].Ratio, diameter)
	}

	ratios := make([]float64, len(gears))
	for i, g := range gears {
		ratios[i] = g.Ratio
	}

	weight := v.BaseWeight
	if weight <= 0 {
		weight = c.opts.DefaultWeight
	}

	curve := c.gearing.TorqueCurve(gearing.TorqueParams{
		MinRPM:      in.MinRPM,
		MaxRPM:      in.MaxRPM,
		MaxPowerRPM: in.MaxPowerRPM,
		TorqueKgfm:  in.TorqueKgfm,
		Points:      c.opts.TorqueCurvePoints,
	})

	out := core.GearingOutput{
		Gears:                gears,
		FinalDrive:           fd,
		GearSpeeds:           c.gearing.GearSpeeds(gears, fd, in.MaxPowerRPM, diameter),
		TorqueCurve:          curve,
		AccelerationEstimate: c.gearing.AccelerationEstimate(in.PowerHP, weight, ratios),
		TopSpeedCalculated:   c.gearing.TopSpeed(gears, fd, in.MaxRPM, diameter),
		TireDiameter:         diameter,
	}
	c.logger.Info("gear setup calculated",
		"vehicle", v.Name,
		"gears", len(gears),
		"finalDrive", fd,
		"topSpeedMph", out.TopSpeedCalculated)
	return out
}

// TireDiameter exposes the tire estimator for callers that only need a
// diameter.
func (c *Calculator) TireDiameter(obs core.TireObservation) float64 {
	return c.tire.Diameter(obs)
}
