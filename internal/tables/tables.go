// Package tables holds every categorical-to-numeric mapping used by the
// calculators. Lookups never fail: keys outside a table resolve to that
// table's neutral default so that garbled OCR input degrades gracefully.
package tables

import "github.com/gt7setup/tuner/pkg/core"

// Neutral defaults returned for unknown keys.
const (
	NeutralMultiplier        = 1.0
	DefaultUnsprungWeight    = 45.0
	DefaultCarTypeMultiplier = 1.333
)

// tireSpringMultiplier steps 1% per compound around Sport: Medium.
var tireSpringMultiplier = map[core.TireCompound]float64{
	core.TireSportMedium: 1.0,
	core.TireSportHard:   0.99,
	core.TireSportSoft:   1.01,

	core.TireComfortSoft:   0.98,
	core.TireComfortMedium: 0.97,
	core.TireComfortHard:   0.96,

	core.TireRacingMedium:       1.02,
	core.TireRacingHard:         1.01,
	core.TireRacingSoft:         1.03,
	core.TireRacingIntermediate: 1.0,
	core.TireRacingHeavyWet:     0.98,
}

// tireDamperMultiplier applies to dampers, roll bars and camber (0.5% steps).
var tireDamperMultiplier = map[core.TireCompound]float64{
	core.TireComfortHard:        0.98,
	core.TireComfortMedium:      0.985,
	core.TireComfortSoft:        0.99,
	core.TireSportHard:          0.995,
	core.TireSportMedium:        1.0,
	core.TireSportSoft:          1.005,
	core.TireRacingHard:         1.005,
	core.TireRacingMedium:       1.01,
	core.TireRacingSoft:         1.015,
	core.TireRacingIntermediate: 1.0,
	core.TireRacingHeavyWet:     0.99,
}

// tireToeMultiplier steps 0.1% per compound.
var tireToeMultiplier = map[core.TireCompound]float64{
	core.TireComfortHard:        0.996,
	core.TireComfortMedium:      0.997,
	core.TireComfortSoft:        0.998,
	core.TireSportHard:          0.999,
	core.TireSportMedium:        1.0,
	core.TireSportSoft:          1.001,
	core.TireRacingHard:         1.001,
	core.TireRacingMedium:       1.002,
	core.TireRacingSoft:         1.003,
	core.TireRacingIntermediate: 1.0,
	core.TireRacingHeavyWet:     0.998,
}

var unsprungWeight = map[core.Drivetrain]float64{
	core.Drivetrain4WD: 55,
	core.DrivetrainFF:  55,
	core.DrivetrainFR:  45,
	core.DrivetrainMR:  45,
	core.DrivetrainRR:  45,
}

// carTypeMultiplier has no GR3 row; GR3 resolves to the default like any
// unknown class.
var carTypeMultiplier = map[core.CarType]float64{
	core.CarTypeRoad: 1.3,
	core.CarTypeGR4:  1.333,
	core.CarTypeRace: 1.333,
	core.CarTypeVGT:  1.666,
	core.CarTypeFan:  2.0,
}

var springFrequencyOffset = map[int]float64{
	-5: 0.5, -4: 0.6, -3: 0.7, -2: 0.8, -1: 0.9,
	0: 1.0, 1: 1.1, 2: 1.2, 3: 1.3, 4: 1.4,
	5: 1.5, 6: 1.6,
}

// ouMultiplier is {front, rear}; negative keys stiffen the front.
var ouMultiplier = map[int][2]float64{
	-5: {1.5, 0.5},
	-4: {1.4, 0.6},
	-3: {1.3, 0.7},
	-2: {1.2, 0.8},
	-1: {1.1, 0.9},
	0:  {1.0, 1.0},
	1:  {0.9, 1.1},
	2:  {0.8, 1.2},
	3:  {0.7, 1.3},
	4:  {0.6, 1.4},
	5:  {0.5, 1.5},
}

var frontCamberDrivetrain = map[core.Drivetrain]float64{
	core.Drivetrain4WD: 2.5,
	core.DrivetrainFF:  1.5,
	core.DrivetrainFR:  3.0,
	core.DrivetrainMR:  2.0,
	core.DrivetrainRR:  2.0,
}

var rearCamberDrivetrain = map[core.Drivetrain]float64{
	core.Drivetrain4WD: 2.5,
	core.DrivetrainFF:  3.0,
	core.DrivetrainFR:  1.5,
	core.DrivetrainMR:  2.5,
	core.DrivetrainRR:  2.5,
}

var trackMultiplier = map[core.TrackType]float64{
	core.TrackFast:      0.9,
	core.TrackTechnical: 1.1,
}

// TireSpringMultiplier returns the spring-rate correction for a compound.
func TireSpringMultiplier(t core.TireCompound) float64 {
	return lookup(tireSpringMultiplier, t, NeutralMultiplier)
}

// TireDamperMultiplier returns the damper/roll bar/camber correction for a compound.
func TireDamperMultiplier(t core.TireCompound) float64 {
	return lookup(tireDamperMultiplier, t, NeutralMultiplier)
}

// TireToeMultiplier returns the toe correction for a compound.
func TireToeMultiplier(t core.TireCompound) float64 {
	return lookup(tireToeMultiplier, t, NeutralMultiplier)
}

// UnsprungWeight returns the per-axle unsprung mass in kg.
func UnsprungWeight(d core.Drivetrain) float64 {
	return lookup(unsprungWeight, d, DefaultUnsprungWeight)
}

// CarTypeMultiplier returns the spring-frequency scaling for a car class.
func CarTypeMultiplier(c core.CarType) float64 {
	return lookup(carTypeMultiplier, c, DefaultCarTypeMultiplier)
}

// FrequencyOffsetMultiplier maps the -5..6 frequency dial to a multiplier.
func FrequencyOffsetMultiplier(offset int) float64 {
	return lookup(springFrequencyOffset, offset, NeutralMultiplier)
}

// OUMultipliers returns the front and rear roll bar multipliers for the
// oversteer/understeer dial.
func OUMultipliers(adjustment int) (front, rear float64) {
	pair, ok := ouMultiplier[adjustment]
	if !ok {
		return NeutralMultiplier, NeutralMultiplier
	}
	return pair[0], pair[1]
}

// FrontCamberMultiplier returns the drivetrain base for front camber and toe.
func FrontCamberMultiplier(d core.Drivetrain) float64 {
	return lookup(frontCamberDrivetrain, d, NeutralMultiplier)
}

// RearCamberMultiplier returns the drivetrain base for rear camber and toe.
func RearCamberMultiplier(d core.Drivetrain) float64 {
	return lookup(rearCamberDrivetrain, d, NeutralMultiplier)
}

// TrackMultiplier returns the alignment scaling for a track type.
func TrackMultiplier(t core.TrackType) float64 {
	return lookup(trackMultiplier, t, NeutralMultiplier)
}

// TireWearFactor decays linearly by 0.006 per wear step, reaching 0.7 at 50.
// Wear outside 1..50 leaves alignment unscaled.
func TireWearFactor(wear int) float64 {
	if wear < 1 || wear > 50 {
		return NeutralMultiplier
	}
	return 1.0 - 0.3*float64(wear)/50
}

func lookup[K comparable](table map[K]float64, key K, fallback float64) float64 {
	if v, ok := table[key]; ok {
		return v
	}
	return fallback
}
