package core

import (
	"errors"
	"fmt"
)

// Drivetrain is the engine/driven-wheel layout of a vehicle.
type Drivetrain string

const (
	Drivetrain4WD Drivetrain = "4WD"
	DrivetrainFF  Drivetrain = "FF"
	DrivetrainFR  Drivetrain = "FR"
	DrivetrainMR  Drivetrain = "MR"
	DrivetrainRR  Drivetrain = "RR"
)

// Drivetrains lists every known drivetrain in display order.
var Drivetrains = []Drivetrain{Drivetrain4WD, DrivetrainFF, DrivetrainFR, DrivetrainMR, DrivetrainRR}

// CarType is the in-game vehicle class.
type CarType string

const (
	CarTypeRoad CarType = "ROAD"
	CarTypeGR4  CarType = "GR4"
	CarTypeGR3  CarType = "GR3"
	CarTypeRace CarType = "RACE"
	CarTypeVGT  CarType = "VGT"
	CarTypeFan  CarType = "FAN"
)

// CarTypes lists every known car type in display order.
var CarTypes = []CarType{CarTypeRoad, CarTypeGR4, CarTypeGR3, CarTypeRace, CarTypeVGT, CarTypeFan}

// Limits accepted for a stored vehicle profile.
const (
	MinLeverRatio = 0.1
	MaxLeverRatio = 2.0
	MinBaseWeight = 500
	MaxBaseWeight = 5000
)

// VehicleProfile is the read-only per-vehicle record supplied by the vehicle
// data source. The calculators never modify it.
type VehicleProfile struct {
	Name            string     `json:"name"`
	Drivetrain      Drivetrain `json:"drivetrain"`
	CarType         CarType    `json:"carType"`
	BaseWeight      float64    `json:"baseWeight"` // kg
	BasePower       float64    `json:"basePower"`  // HP, 0 when unknown
	BasePP          float64    `json:"basePP"`     // performance points, pass-through
	LeverRatioFront float64    `json:"leverRatioFront"`
	LeverRatioRear  float64    `json:"leverRatioRear"`
}

// DefaultVehicleProfile returns the profile used when no vehicle was selected.
func DefaultVehicleProfile() VehicleProfile {
	return VehicleProfile{
		Name:            "Unknown Vehicle",
		Drivetrain:      DrivetrainFR,
		CarType:         CarTypeRoad,
		BaseWeight:      1400,
		BasePower:       300,
		LeverRatioFront: 1.0,
		LeverRatioRear:  1.0,
	}
}

// Validate reports every field outside the accepted ranges.
func (v VehicleProfile) Validate() error {
	var errs []error
	if v.Name == "" {
		errs = append(errs, errors.New("name is empty"))
	}
	if v.LeverRatioFront < MinLeverRatio || v.LeverRatioFront > MaxLeverRatio {
		errs = append(errs, fmt.Errorf("front lever ratio %.3f outside [%.1f, %.1f]", v.LeverRatioFront, MinLeverRatio, MaxLeverRatio))
	}
	if v.LeverRatioRear < MinLeverRatio || v.LeverRatioRear > MaxLeverRatio {
		errs = append(errs, fmt.Errorf("rear lever ratio %.3f outside [%.1f, %.1f]", v.LeverRatioRear, MinLeverRatio, MaxLeverRatio))
	}
	if v.BaseWeight < MinBaseWeight || v.BaseWeight > MaxBaseWeight {
		errs = append(errs, fmt.Errorf("base weight %.0f outside [%d, %d]", v.BaseWeight, MinBaseWeight, MaxBaseWeight))
	}
	return errors.Join(errs...)
}

// ParseDrivetrain matches a drivetrain code case-insensitively.
func ParseDrivetrain(s string) (Drivetrain, bool) {
	for _, d := range Drivetrains {
		if equalFold(string(d), s) {
			return d, true
		}
	}
	return "", false
}

// ParseCarType matches a car type code case-insensitively.
func ParseCarType(s string) (CarType, bool) {
	for _, c := range CarTypes {
		if equalFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}
