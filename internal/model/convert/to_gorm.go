// Package convert provides functions to convert between GORM models and core models
package convert

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gt7setup/tuner/internal/model"
	"github.com/gt7setup/tuner/pkg/core"
	"gorm.io/datatypes"
)

// toJSON marshals v for a JSON column; nil slices become "[]".
func toJSON(v any) (datatypes.JSON, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(data) == "null" {
		return datatypes.JSON("[]"), nil
	}
	return datatypes.JSON(data), nil
}

// CoreToVehicle converts a core.VehicleProfile to a GORM model.Vehicle.
// Name is trimmed since it is the lookup key.
func CoreToVehicle(v core.VehicleProfile) model.Vehicle {
	return model.Vehicle{
		Name:            strings.TrimSpace(v.Name),
		Drivetrain:      string(v.Drivetrain),
		CarType:         string(v.CarType),
		BaseWeight:      v.BaseWeight,
		BasePower:       v.BasePower,
		BasePP:          v.BasePP,
		LeverRatioFront: v.LeverRatioFront,
		LeverRatioRear:  v.LeverRatioRear,
	}
}

// CoreToSpringCalculation converts a spring setup for the given vehicle row.
func CoreToSpringCalculation(c core.SpringCalculation, vehicleID uint) (model.SpringCalculation, error) {
	input, err := toJSON(c.Input)
	if err != nil {
		return model.SpringCalculation{}, fmt.Errorf("marshal spring input: %w", err)
	}
	out := c.Output
	return model.SpringCalculation{
		Time:                 c.Time,
		VehicleID:            vehicleID,
		Input:                input,
		FrontSpringRate:      out.SpringRate.Front,
		RearSpringRate:       out.SpringRate.Rear,
		FrontSpringFrequency: out.SpringFrequency.Front,
		RearSpringFrequency:  out.SpringFrequency.Rear,
		FrontCompression:     out.Dampers.FrontCompression,
		FrontExtension:       out.Dampers.FrontExtension,
		RearCompression:      out.Dampers.RearCompression,
		RearExtension:        out.Dampers.RearExtension,
		FrontRollBar:         out.RollBar.Front,
		RearRollBar:          out.RollBar.Rear,
		FrontCamber:          out.Alignment.FrontCamber,
		RearCamber:           out.Alignment.RearCamber,
		FrontToe:             out.Alignment.FrontToe,
		RearToe:              out.Alignment.RearToe,
		PerformancePoints:    c.Input.PerformancePoints,
	}, nil
}

// CoreToGearCalculation converts a gear setup for the given vehicle row.
func CoreToGearCalculation(c core.GearCalculation, vehicleID uint) (model.GearCalculation, error) {
	input, err := toJSON(c.Input)
	if err != nil {
		return model.GearCalculation{}, fmt.Errorf("marshal gear input: %w", err)
	}
	gears, err := toJSON(c.Output.Gears)
	if err != nil {
		return model.GearCalculation{}, fmt.Errorf("marshal gear ratios: %w", err)
	}
	speeds, err := toJSON(c.Output.GearSpeeds)
	if err != nil {
		return model.GearCalculation{}, fmt.Errorf("marshal gear speeds: %w", err)
	}
	curve, err := toJSON(c.Output.TorqueCurve)
	if err != nil {
		return model.GearCalculation{}, fmt.Errorf("marshal torque curve: %w", err)
	}

	return model.GearCalculation{
		Time:                 c.Time,
		VehicleID:            vehicleID,
		Input:                input,
		NumGears:             len(c.Output.Gears),
		FinalDrive:           c.Output.FinalDrive,
		GearRatios:           gears,
		GearSpeeds:           speeds,
		TorqueCurve:          curve,
		TopSpeedCalculated:   c.Output.TopSpeedCalculated,
		AccelerationEstimate: c.Output.AccelerationEstimate,
		TireDiameter:         c.Output.TireDiameter,
	}, nil
}

// CoreToTireCalculation converts a tire estimate.
func CoreToTireCalculation(c core.TireCalculation) model.TireCalculation {
	return model.TireCalculation{
		Time:       c.Time,
		SpeedKPH:   c.Observation.SpeedKPH,
		RPM:        c.Observation.RPM,
		GearRatio:  c.Observation.GearRatio,
		FinalDrive: c.Observation.FinalDrive,
		Diameter:   c.Diameter,
	}
}
