package suspension

import (
	"fmt"
	"math"

	"github.com/gt7setup/tuner/internal/tables"
	"github.com/gt7setup/tuner/pkg/core"
)

// FrequencyParams are the inputs of the spring frequency stage.
type FrequencyParams struct {
	Rates             core.AxlePair // N/mm
	Weight            float64
	FrontDistribution float64
	CarType           core.CarType
	Offset            int
}

// SpringFrequencies returns the natural frequency of each axle in Hz.
func (c *Calculator) SpringFrequencies(p FrequencyParams) core.AxlePair {
	freq, err := springFrequencies(p)
	if err != nil {
		c.logger.Error("Error calculating spring frequencies", "error", err)
		return DefaultFrequencies
	}
	c.logger.Debug("Calculated spring frequencies", "front", freq.Front, "rear", freq.Rear)
	return freq
}

func springFrequencies(p FrequencyParams) (core.AxlePair, error) {
	massF, massR := axleMasses(p.Weight, p.FrontDistribution)
	if massF <= 0 || massR <= 0 {
		return core.AxlePair{}, fmt.Errorf("spring frequencies: front %.1f rear %.1f: %w", massF, massR, ErrMass)
	}
	if p.Rates.Front < 0 || p.Rates.Rear < 0 {
		return core.AxlePair{}, fmt.Errorf("spring frequencies: front %.1f rear %.1f: %w",
			p.Rates.Front, p.Rates.Rear, ErrSpringRate)
	}

	scale := tables.CarTypeMultiplier(p.CarType) * tables.FrequencyOffsetMultiplier(p.Offset)
	front := math.Sqrt(p.Rates.Front*1000/massF) / (2 * math.Pi) * scale
	rear := math.Sqrt(p.Rates.Rear*1000/massR) / (2 * math.Pi) * scale
	if err := checkFinite("spring frequencies", front, rear); err != nil {
		return core.AxlePair{}, err
	}

	return core.AxlePair{Front: roundTo(front, 2), Rear: roundTo(rear, 2)}, nil
}
