package convert

import (
	"encoding/json"
	"fmt"

	"github.com/gt7setup/tuner/internal/model"
	"github.com/gt7setup/tuner/pkg/core"
	"gorm.io/datatypes"
)

func fromJSON(data datatypes.JSON, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// VehicleToCore converts a GORM Vehicle to a core.VehicleProfile. Unknown
// drivetrain or car type codes are carried through unchanged so the lookup
// tables can apply their neutral defaults.
func VehicleToCore(v model.Vehicle) core.VehicleProfile {
	return core.VehicleProfile{
		Name:            v.Name,
		Drivetrain:      core.Drivetrain(v.Drivetrain),
		CarType:         core.CarType(v.CarType),
		BaseWeight:      v.BaseWeight,
		BasePower:       v.BasePower,
		BasePP:          v.BasePP,
		LeverRatioFront: v.LeverRatioFront,
		LeverRatioRear:  v.LeverRatioRear,
	}
}

// SpringCalculationToCore converts a stored spring setup. The Vehicle
// association must be preloaded for the name to be filled.
func SpringCalculationToCore(m model.SpringCalculation) (core.SpringCalculation, error) {
	c := core.SpringCalculation{
		ID:      m.ID,
		Vehicle: m.Vehicle.Name,
		Time:    m.Time,
		Output: core.SuspensionOutput{
			SpringRate:      core.AxlePair{Front: m.FrontSpringRate, Rear: m.RearSpringRate},
			SpringFrequency: core.AxlePair{Front: m.FrontSpringFrequency, Rear: m.RearSpringFrequency},
			Dampers: core.DamperSettings{
				FrontCompression: m.FrontCompression,
				FrontExtension:   m.FrontExtension,
				RearCompression:  m.RearCompression,
				RearExtension:    m.RearExtension,
			},
			RollBar: core.AxlePair{Front: m.FrontRollBar, Rear: m.RearRollBar},
			Alignment: core.AlignmentSettings{
				FrontCamber: m.FrontCamber,
				RearCamber:  m.RearCamber,
				FrontToe:    m.FrontToe,
				RearToe:     m.RearToe,
			},
		},
	}
	if err := fromJSON(m.Input, &c.Input); err != nil {
		return core.SpringCalculation{}, fmt.Errorf("unmarshal spring input %d: %w", m.ID, err)
	}
	return c, nil
}

// GearCalculationToCore converts a stored gear setup.
func GearCalculationToCore(m model.GearCalculation) (core.GearCalculation, error) {
	c := core.GearCalculation{
		ID:      m.ID,
		Vehicle: m.Vehicle.Name,
		Time:    m.Time,
		Output: core.GearingOutput{
			FinalDrive:           m.FinalDrive,
			TopSpeedCalculated:   m.TopSpeedCalculated,
			AccelerationEstimate: m.AccelerationEstimate,
			TireDiameter:         m.TireDiameter,
		},
	}

	fields := []struct {
		name string
		data datatypes.JSON
		dst  any
	}{
		{"input", m.Input, &c.Input},
		{"gear ratios", m.GearRatios, &c.Output.Gears},
		{"gear speeds", m.GearSpeeds, &c.Output.GearSpeeds},
		{"torque curve", m.TorqueCurve, &c.Output.TorqueCurve},
	}
	for _, f := range fields {
		if err := fromJSON(f.data, f.dst); err != nil {
			return core.GearCalculation{}, fmt.Errorf("unmarshal %s %d: %w", f.name, m.ID, err)
		}
	}
	return c, nil
}

// TireCalculationToCore converts a stored tire estimate.
func TireCalculationToCore(m model.TireCalculation) core.TireCalculation {
	return core.TireCalculation{
		ID:   m.ID,
		Time: m.Time,
		Observation: core.TireObservation{
			GearRatio:  m.GearRatio,
			RPM:        m.RPM,
			SpeedKPH:   m.SpeedKPH,
			FinalDrive: m.FinalDrive,
		},
		Diameter: m.Diameter,
	}
}
