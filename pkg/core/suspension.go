package core

// SuspensionInput holds the telemetry and tuning dials for a spring setup.
// Values come from OCR or a form and are not guaranteed to be sane.
type SuspensionInput struct {
	VehicleWeight           float64      `json:"vehicleWeight"`           // kg
	FrontWeightDistribution float64      `json:"frontWeightDistribution"` // percent on the front axle
	FrontRideHeight         float64      `json:"frontRideHeight"`         // mm
	RearRideHeight          float64      `json:"rearRideHeight"`          // mm
	FrontDownforce          float64      `json:"frontDownforce"`
	RearDownforce           float64      `json:"rearDownforce"`
	FrontTires              TireCompound `json:"frontTires"`
	RearTires               TireCompound `json:"rearTires"`
	StiffnessMultiplier     float64      `json:"stiffnessMultiplier"`
	SpringFrequencyOffset   int          `json:"springFrequencyOffset"` // -5..6
	ARBStiffnessMultiplier  float64      `json:"arbStiffnessMultiplier"`
	OUAdjustment            int          `json:"ouAdjustment"`          // -5..5, negative is understeer-biased
	CornerEntryAdjustment   int          `json:"cornerEntryAdjustment"` // -5..5
	CornerExitAdjustment    int          `json:"cornerExitAdjustment"`  // -5..5
	TrackType               TrackType    `json:"trackType"`
	TireWearMultiplier      int          `json:"tireWearMultiplier"` // 0..50
	LowSpeedStability       float64      `json:"lowSpeedStability"`
	HighSpeedStability      float64      `json:"highSpeedStability"`
	RotationalG40           float64      `json:"rotationalG40"`
	RotationalG75           float64      `json:"rotationalG75"`
	RotationalG150          float64      `json:"rotationalG150"`
	PerformancePoints       float64      `json:"performancePoints"` // pass-through
}

// DefaultSuspensionInput returns the form defaults of the setup sheet.
func DefaultSuspensionInput() SuspensionInput {
	return SuspensionInput{
		VehicleWeight:           1400,
		FrontWeightDistribution: 50,
		FrontRideHeight:         100,
		RearRideHeight:          100,
		FrontTires:              TireRacingMedium,
		RearTires:               TireRacingMedium,
		StiffnessMultiplier:     1.0,
		ARBStiffnessMultiplier:  1.0,
		TrackType:               TrackFast,
		TireWearMultiplier:      25,
		HighSpeedStability:      1.0,
	}
}

// RotationalG returns the three rotational G readings in ascending speed order.
func (in SuspensionInput) RotationalG() [3]float64 {
	return [3]float64{in.RotationalG40, in.RotationalG75, in.RotationalG150}
}

// AxlePair is a front/rear pair of values.
type AxlePair struct {
	Front float64 `json:"front"`
	Rear  float64 `json:"rear"`
}

// DamperSettings are the discrete damper steps for both axles.
type DamperSettings struct {
	FrontCompression int `json:"frontCompression"`
	FrontExtension   int `json:"frontExtension"`
	RearCompression  int `json:"rearCompression"`
	RearExtension    int `json:"rearExtension"`
}

// AlignmentSettings are camber and toe angles in degrees.
type AlignmentSettings struct {
	FrontCamber float64 `json:"frontCamber"`
	RearCamber  float64 `json:"rearCamber"`
	FrontToe    float64 `json:"frontToe"`
	RearToe     float64 `json:"rearToe"`
}

// SuspensionOutput is a complete spring setup. A new calculation replaces it
// wholesale.
type SuspensionOutput struct {
	SpringRate      AxlePair          `json:"springRate"`      // N/mm
	SpringFrequency AxlePair          `json:"springFrequency"` // Hz
	Dampers         DamperSettings    `json:"dampers"`
	RollBar         AxlePair          `json:"rollBar"`
	Alignment       AlignmentSettings `json:"alignment"`
}
