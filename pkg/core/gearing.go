package core

// TireObservation is a speed/RPM reading taken in a known gear, used to infer
// the driven tire diameter.
type TireObservation struct {
	GearRatio  float64 `json:"gearRatio"`
	RPM        float64 `json:"rpm"`
	SpeedKPH   float64 `json:"speedKph"`
	FinalDrive float64 `json:"finalDrive"`
}

// GearingInput holds the engine and target figures for a gear setup.
type GearingInput struct {
	NumGears          int     `json:"numGears"`
	TopSpeedMPH       float64 `json:"topSpeedMph"`
	MinCornerSpeedMPH float64 `json:"minCornerSpeedMph"`
	MinRPM            float64 `json:"minRpm"`
	MaxRPM            float64 `json:"maxRpm"`
	MaxPowerRPM       float64 `json:"maxPowerRpm"`
	PowerHP           float64 `json:"powerHp"`
	TorqueKgfm        float64 `json:"torqueKgfm"`
	TireDiameter      float64 `json:"tireDiameter"` // inches
	// MinCornerGear is carried for persistence; ratio synthesis does not use it.
	MinCornerGear int `json:"minCornerGear"`
	// TireObservation, when set, replaces TireDiameter with an inferred value.
	TireObservation *TireObservation `json:"tireObservation,omitempty"`
	// OptimizeFinalDrive re-solves the final drive so the top gear reaches
	// TopSpeedMPH at MaxRPM.
	OptimizeFinalDrive bool `json:"optimizeFinalDrive,omitempty"`
}

// DefaultGearingInput returns the form defaults of the gear sheet.
func DefaultGearingInput() GearingInput {
	return GearingInput{
		NumGears:          6,
		TopSpeedMPH:       180,
		MinCornerSpeedMPH: 60,
		MinRPM:            1000,
		MaxRPM:            8000,
		MaxPowerRPM:       6500,
		PowerHP:           500,
		TorqueKgfm:        50,
		TireDiameter:      26,
		MinCornerGear:     1,
	}
}

// Gear is a single labelled ratio ("1st", "2nd", ...).
type Gear struct {
	Label string  `json:"label"`
	Ratio float64 `json:"ratio"`
}

// GearSpeed is the road speed reached in a gear at a reference RPM.
type GearSpeed struct {
	Label    string  `json:"label"`
	SpeedMPH float64 `json:"speedMph"`
}

// TorquePoint is one sample of a synthesized torque curve.
type TorquePoint struct {
	RPM    float64 `json:"rpm"`
	Torque float64 `json:"torque"` // kgf·m
}

// GearingOutput is a complete gear setup.
type GearingOutput struct {
	Gears                []Gear        `json:"gears"`
	FinalDrive           float64       `json:"finalDrive"`
	GearSpeeds           []GearSpeed   `json:"gearSpeeds"`
	TorqueCurve          []TorquePoint `json:"torqueCurve"`
	AccelerationEstimate float64       `json:"accelerationEstimate"` // 0-60 mph seconds
	TopSpeedCalculated   float64       `json:"topSpeedCalculated"`   // mph at max RPM in top gear
	TireDiameter         float64       `json:"tireDiameter"`         // inches actually used
}

// Ratios returns the gear ratios in order.
func (o GearingOutput) Ratios() []float64 {
	out := make([]float64, len(o.Gears))
	for i, g := range o.Gears {
		out[i] = g.Ratio
	}
	return out
}
