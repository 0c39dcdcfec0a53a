package gearing

import (
	"fmt"
	"math"

	"github.com/gt7setup/tuner/pkg/core"
)

// TorqueParams are the inputs of torque curve synthesis.
type TorqueParams struct {
	MinRPM      float64
	MaxRPM      float64
	MaxPowerRPM float64
	TorqueKgfm  float64
	Points      int // DefaultTorquePoints when <= 0
}

// TorqueCurve samples a modelled torque curve evenly over [MinRPM, MaxRPM].
// Torque peaks at 60% of the way to MaxPowerRPM and is shaped past it so the
// power peak lands at MaxPowerRPM. When the model fails a triangular curve
// centred on MaxPowerRPM is returned, so the result is never empty.
func (c *Calculator) TorqueCurve(p TorqueParams) []core.TorquePoint {
	if p.Points <= 0 {
		p.Points = DefaultTorquePoints
	}
	curve, err := torqueCurve(p)
	if err != nil {
		c.logger.Error("Error generating torque curve", "error", err)
		return fallbackTorqueCurve(p)
	}
	c.logger.Debug("Generated torque curve", "points", len(curve))
	return curve
}

func sampleRPM(p TorqueParams, i int) float64 {
	return p.MinRPM + float64(i)*(p.MaxRPM-p.MinRPM)/float64(p.Points-1)
}

func torqueCurve(p TorqueParams) ([]core.TorquePoint, error) {
	if p.Points < 2 {
		return nil, fmt.Errorf("torque curve: %d points: %w", p.Points, ErrTorqueSamples)
	}
	span := p.MaxRPM - p.MinRPM
	peakTorqueRPM := p.MinRPM + (p.MaxPowerRPM-p.MinRPM)*0.6
	if span == 0 || peakTorqueRPM == p.MinRPM {
		return nil, fmt.Errorf("torque curve: rpm %.0f..%.0f peak %.0f: %w",
			p.MinRPM, p.MaxRPM, peakTorqueRPM, ErrZeroDivisor)
	}

	curve := make([]core.TorquePoint, p.Points)
	for i := range curve {
		rpm := sampleRPM(p, i)

		var torque float64
		if rpm <= peakTorqueRPM {
			x := (rpm - p.MinRPM) / (peakTorqueRPM - p.MinRPM)
			torque = p.TorqueKgfm * (1 - math.Pow(1-x, 1.5))
		} else {
			x := (rpm - peakTorqueRPM) / (p.MaxRPM - peakTorqueRPM)
			torque = p.TorqueKgfm * (1 - math.Pow(x, 1.2))
			shape := 1 - math.Pow((rpm-p.MaxPowerRPM)/span, 2)
			torque *= math.Max(0.5, shape*1.5)
		}

		// a negative base under a fractional power is NaN
		if err := checkFinite("torque curve", torque); err != nil {
			return nil, err
		}
		curve[i] = core.TorquePoint{RPM: rpm, Torque: torque}
	}
	return curve, nil
}

func fallbackTorqueCurve(p TorqueParams) []core.TorquePoint {
	if p.Points < 2 {
		p.Points = 2
	}
	span := p.MaxRPM - p.MinRPM

	curve := make([]core.TorquePoint, p.Points)
	for i := range curve {
		rpm := sampleRPM(p, i)
		torque := p.TorqueKgfm
		if span != 0 {
			torque = p.TorqueKgfm * (1 - math.Abs((rpm-p.MaxPowerRPM)/span))
		}
		curve[i] = core.TorquePoint{RPM: rpm, Torque: torque}
	}
	return curve
}
