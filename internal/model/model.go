package model

import (
	"time"

	"gorm.io/datatypes"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []any{
	&Vehicle{},
	&SpringCalculation{},
	&GearCalculation{},
	&TireCalculation{},
}

// Vehicle holds the per-car data the suspension and gearing calculators read.
// Name is unique; imports update existing rows by name.
type Vehicle struct {
	ID              uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	Name            string    `json:"name" gorm:"size:100;uniqueIndex:idx_vehicle_name;NOT NULL"`
	Drivetrain      string    `json:"drivetrain" gorm:"size:3;index:idx_vehicle_drivetrain;default:FR"`
	CarType         string    `json:"carType" gorm:"size:4;index:idx_vehicle_car_type;default:ROAD"`
	BaseWeight      float64   `json:"baseWeight" gorm:"default:1400"` // kg
	BasePower       float64   `json:"basePower"`                      // HP
	BasePP          float64   `json:"basePP"`
	LeverRatioFront float64   `json:"leverRatioFront" gorm:"default:1"`
	LeverRatioRear  float64   `json:"leverRatioRear" gorm:"default:1"`
}

func (*Vehicle) TableName() string {
	return "vehicles"
}

// SpringCalculation is one spring setup result. The raw input is kept as
// JSON so older rows stay readable when the form grows.
type SpringCalculation struct {
	ID                   uint           `json:"id" gorm:"primarykey;autoIncrement;"`
	Time                 time.Time      `json:"time" gorm:"index:idx_springcalc_time"`
	VehicleID            uint           `json:"vehicleId" gorm:"index:idx_springcalc_vehicle_id"`
	Vehicle              Vehicle        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:VehicleID;"`
	Input                datatypes.JSON `json:"input"`
	FrontSpringRate      float64        `json:"frontSpringRate"`
	RearSpringRate       float64        `json:"rearSpringRate"`
	FrontSpringFrequency float64        `json:"frontSpringFrequency"`
	RearSpringFrequency  float64        `json:"rearSpringFrequency"`
	FrontCompression     int            `json:"frontCompression"`
	FrontExtension       int            `json:"frontExtension"`
	RearCompression      int            `json:"rearCompression"`
	RearExtension        int            `json:"rearExtension"`
	FrontRollBar         float64        `json:"frontRollBar"`
	RearRollBar          float64        `json:"rearRollBar"`
	FrontCamber          float64        `json:"frontCamber"`
	RearCamber           float64        `json:"rearCamber"`
	FrontToe             float64        `json:"frontToe"`
	RearToe              float64        `json:"rearToe"`
	PerformancePoints    float64        `json:"performancePoints"`
}

func (*SpringCalculation) TableName() string {
	return "spring_calculations"
}

// GearCalculation is one gear setup result.
type GearCalculation struct {
	ID                   uint           `json:"id" gorm:"primarykey;autoIncrement;"`
	Time                 time.Time      `json:"time" gorm:"index:idx_gearcalc_time"`
	VehicleID            uint           `json:"vehicleId" gorm:"index:idx_gearcalc_vehicle_id"`
	Vehicle              Vehicle        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:VehicleID;"`
	Input                datatypes.JSON `json:"input"`
	NumGears             int            `json:"numGears"`
	FinalDrive           float64        `json:"finalDrive"`
	GearRatios           datatypes.JSON `json:"gearRatios"`
	GearSpeeds           datatypes.JSON `json:"gearSpeeds"`
	TorqueCurve          datatypes.JSON `json:"torqueCurve"`
	TopSpeedCalculated   float64        `json:"topSpeedCalculated"`
	AccelerationEstimate float64        `json:"accelerationEstimate"`
	TireDiameter         float64        `json:"tireDiameter"`
}

func (*GearCalculation) TableName() string {
	return "gear_calculations"
}

// TireCalculation is one tire diameter estimate. It is not tied to a vehicle.
type TireCalculation struct {
	ID         uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	Time       time.Time `json:"time" gorm:"index:idx_tirecalc_time"`
	SpeedKPH   float64   `json:"speedKph"`
	RPM        float64   `json:"rpm"`
	GearRatio  float64   `json:"gearRatio"`
	FinalDrive float64   `json:"finalDrive"`
	Diameter   float64   `json:"diameter"`
}

func (*TireCalculation) TableName() string {
	return "tire_calculations"
}
