package suspension

import (
	"fmt"
	"math"

	"github.com/gt7setup/tuner/internal/tables"
	"github.com/gt7setup/tuner/pkg/core"
)

const gravity = 9.81

// SpringParams are the inputs of the spring rate stage.
type SpringParams struct {
	Weight              float64 // kg
	FrontDistribution   float64 // percent
	FrontRideHeight     float64 // mm
	RearRideHeight      float64 // mm
	FrontDownforce      float64
	RearDownforce       float64
	FrontLeverRatio     float64
	RearLeverRatio      float64
	StiffnessMultiplier float64
	Drivetrain          core.Drivetrain
	FrontTires          core.TireCompound
	RearTires           core.TireCompound
}

// NewSpringParams picks the spring stage inputs out of a setup request.
func NewSpringParams(in core.SuspensionInput, v core.VehicleProfile) SpringParams {
	return SpringParams{
		Weight:              in.VehicleWeight,
		FrontDistribution:   in.FrontWeightDistribution,
		FrontRideHeight:     in.FrontRideHeight,
		RearRideHeight:      in.RearRideHeight,
		FrontDownforce:      in.FrontDownforce,
		RearDownforce:       in.RearDownforce,
		FrontLeverRatio:     v.LeverRatioFront,
		RearLeverRatio:      v.LeverRatioRear,
		StiffnessMultiplier: in.StiffnessMultiplier,
		Drivetrain:          v.Drivetrain,
		FrontTires:          in.FrontTires,
		RearTires:           in.RearTires,
	}
}

// SpringRates returns front and rear spring rates in N/mm, rounded to the
// increments the game accepts. Failures yield DefaultSpringRates.
func (c *Calculator) SpringRates(p SpringParams) core.AxlePair {
	rates, err := springRates(p)
	if err != nil {
		c.logger.Error("Error calculating spring rates", "error", err)
		return DefaultSpringRates
	}
	c.logger.Debug("Calculated spring rates", "front", rates.Front, "rear", rates.Rear)
	return rates
}

func springRates(p SpringParams) (core.AxlePair, error) {
	if p.FrontRideHeight <= 0 || p.RearRideHeight <= 0 {
		return core.AxlePair{}, fmt.Errorf("spring rates: front %.1f rear %.1f: %w",
			p.FrontRideHeight, p.RearRideHeight, ErrRideHeight)
	}
	if p.FrontLeverRatio <= 0 || p.RearLeverRatio <= 0 {
		return core.AxlePair{}, fmt.Errorf("spring rates: front %.2f rear %.2f: %w",
			p.FrontLeverRatio, p.RearLeverRatio, ErrLeverRatio)
	}

	unsprung := tables.UnsprungWeight(p.Drivetrain)
	massF, massR := axleMasses(p.Weight, p.FrontDistribution)

	loadF := (massF + p.FrontDownforce/2 - unsprung) / p.FrontLeverRatio * gravity
	loadR := (massR + p.RearDownforce/2 - unsprung) / p.RearLeverRatio * gravity

	front := axleSpringRate(loadF, p.FrontRideHeight, p.StiffnessMultiplier, p.FrontTires)
	rear := axleSpringRate(loadR, p.RearRideHeight, p.StiffnessMultiplier, p.RearTires)
	if err := checkFinite("spring rates", front, rear); err != nil {
		return core.AxlePair{}, err
	}

	return core.AxlePair{Front: RoundSpringRate(front), Rear: RoundSpringRate(rear)}, nil
}

// axleSpringRate converts a load in newtons to a rate in N/mm.
func axleSpringRate(loadN, rideHeightMM, stiffness float64, tire core.TireCompound) float64 {
	rateNm := loadN / (math.Max(1, rideHeightMM) / 1000)
	rateNm *= stiffness * tables.TireSpringMultiplier(tire)
	return rateNm / 1000
}

// RoundSpringRate snaps a rate to 0.1 below 10 N/mm, 0.5 below 30 N/mm and a
// whole number above.
func RoundSpringRate(rate float64) float64 {
	switch {
	case rate < 10:
		return math.Round(rate*10) / 10
	case rate < 30:
		return math.Round(rate*2) / 2
	default:
		return math.Round(rate)
	}
}
