package core

import "time"

// SpringCalculation is a stored spring setup together with the inputs that
// produced it.
type SpringCalculation struct {
	ID      uint             `json:"id"`
	Vehicle string           `json:"vehicle"`
	Time    time.Time        `json:"time"`
	Input   SuspensionInput  `json:"input"`
	Output  SuspensionOutput `json:"output"`
}

// GearCalculation is a stored gear setup together with its inputs.
type GearCalculation struct {
	ID      uint          `json:"id"`
	Vehicle string        `json:"vehicle"`
	Time    time.Time     `json:"time"`
	Input   GearingInput  `json:"input"`
	Output  GearingOutput `json:"output"`
}

// TireCalculation is a stored tire diameter estimate.
type TireCalculation struct {
	ID          uint            `json:"id"`
	Time        time.Time       `json:"time"`
	Observation TireObservation `json:"observation"`
	Diameter    float64         `json:"diameter"` // inches
}
