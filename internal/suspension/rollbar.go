package suspension

import (
	"github.com/gt7setup/tuner/internal/tables"
	"github.com/gt7setup/tuner/pkg/core"
)

// Roll bar hardware limits.
const (
	MinRollBar = 1.0
	MaxRollBar = 10.0
)

// RollBarParams are the inputs of the roll bar stage.
type RollBarParams struct {
	RotationalG        [3]float64
	LowSpeedStability  float64
	HighSpeedStability float64
	ARBMultiplier      float64
	OUAdjustment       int
}

// RollBars returns unrounded roll bar stiffness within [MinRollBar, MaxRollBar].
func (c *Calculator) RollBars(p RollBarParams) core.AxlePair {
	bars, err := rollBars(p)
	if err != nil {
		c.logger.Error("Error calculating roll bar stiffness", "error", err)
		return DefaultRollBars
	}
	c.logger.Debug("Calculated roll bar stiffness", "front", bars.Front, "rear", bars.Rear)
	return bars
}

func rollBars(p RollBarParams) (core.AxlePair, error) {
	var sumG float64
	for _, g := range p.RotationalG {
		sumG += g
	}
	ouFront, ouRear := tables.OUMultipliers(p.OUAdjustment)

	front := sumG * -p.HighSpeedStability * p.ARBMultiplier * ouFront
	rear := sumG * -(p.LowSpeedStability + p.HighSpeedStability) * p.ARBMultiplier * ouRear
	if err := checkFinite("roll bars", front, rear); err != nil {
		return core.AxlePair{}, err
	}

	return core.AxlePair{
		Front: clamp(front, MinRollBar, MaxRollBar),
		Rear:  clamp(rear, MinRollBar, MaxRollBar),
	}, nil
}
