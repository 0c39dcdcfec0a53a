package suspension

import (
	"fmt"

	"github.com/gt7setup/tuner/internal/tables"
	"github.com/gt7setup/tuner/pkg/core"
)

// AlignmentParams are the inputs of the camber and toe stage.
type AlignmentParams struct {
	RotationalG75      float64
	Drivetrain         core.Drivetrain
	TireWear           int
	TrackType          core.TrackType
	FrontDistribution  float64
	LowSpeedStability  float64
	HighSpeedStability float64
	FrontTires         core.TireCompound
	RearTires          core.TireCompound
}

// NewAlignmentParams picks the alignment stage inputs out of a setup request.
func NewAlignmentParams(in core.SuspensionInput, v core.VehicleProfile) AlignmentParams {
	return AlignmentParams{
		RotationalG75:      in.RotationalG75,
		Drivetrain:         v.Drivetrain,
		TireWear:           in.TireWearMultiplier,
		TrackType:          in.TrackType,
		FrontDistribution:  in.FrontWeightDistribution,
		LowSpeedStability:  in.LowSpeedStability,
		HighSpeedStability: in.HighSpeedStability,
		FrontTires:         in.FrontTires,
		RearTires:          in.RearTires,
	}
}

// Alignment returns camber to one decimal and toe to two decimals.
func (c *Calculator) Alignment(p AlignmentParams) core.AlignmentSettings {
	a, err := alignment(p)
	if err != nil {
		c.logger.Error("Error calculating alignment settings", "error", err)
		return DefaultAlignment
	}
	c.logger.Debug("Calculated alignment settings",
		"frontCamber", a.FrontCamber,
		"rearCamber", a.RearCamber,
		"frontToe", a.FrontToe,
		"rearToe", a.RearToe)
	return a
}

func alignment(p AlignmentParams) (core.AlignmentSettings, error) {
	// front toe divides by high speed stability
	if p.HighSpeedStability == 0 {
		return core.AlignmentSettings{}, fmt.Errorf("alignment: %w", ErrStability)
	}

	frontDT := tables.FrontCamberMultiplier(p.Drivetrain)
	rearDT := tables.RearCamberMultiplier(p.Drivetrain)
	track := tables.TrackMultiplier(p.TrackType)
	wear := tables.TireWearFactor(p.TireWear)
	ratio := p.FrontDistribution / 100.0
	halfG := p.RotationalG75 / 2

	frontCamber := (halfG*frontDT*track*wear + ratio) * 1.2 * tables.TireDamperMultiplier(p.FrontTires)
	rearCamber := (halfG*rearDT*track*wear - ratio + 1) * 1.2 * tables.TireDamperMultiplier(p.RearTires)

	frontToe := (p.LowSpeedStability / -(p.HighSpeedStability * 40)) * frontDT * wear * (track * 3)
	frontToe *= tables.TireToeMultiplier(p.FrontTires)

	rearToe := -(p.HighSpeedStability*p.LowSpeedStability*0.05)*rearDT*wear*(track*3) + 0.2
	rearToe *= tables.TireToeMultiplier(p.RearTires)

	if err := checkFinite("alignment", frontCamber, rearCamber, frontToe, rearToe); err != nil {
		return core.AlignmentSettings{}, err
	}

	return core.AlignmentSettings{
		FrontCamber: roundTo(frontCamber, 1),
		RearCamber:  roundTo(rearCamber, 1),
		FrontToe:    roundTo(frontToe, 2),
		RearToe:     roundTo(rearToe, 2),
	}, nil
}
