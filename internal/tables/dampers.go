package tables

// DamperAdjustment scales the four damper channels for a corner phase.
type DamperAdjustment struct {
	FrontCompression float64
	FrontRebound     float64
	RearCompression  float64
	RearRebound      float64
}

// NeutralDamperAdjustment leaves every channel unchanged.
var NeutralDamperAdjustment = DamperAdjustment{1.0, 1.0, 1.0, 1.0}

// Negative entry values fight entry understeer with more front grip,
// positive values fight entry oversteer with more rear grip.
var cornerEntryAdjustment = map[int]DamperAdjustment{
	-5: {FrontCompression: 0.80, FrontRebound: 1.20, RearCompression: 1.20, RearRebound: 0.80},
	-4: {FrontCompression: 0.85, FrontRebound: 1.15, RearCompression: 1.15, RearRebound: 0.85},
	-3: {FrontCompression: 0.90, FrontRebound: 1.10, RearCompression: 1.10, RearRebound: 0.90},
	-2: {FrontCompression: 0.95, FrontRebound: 1.05, RearCompression: 1.05, RearRebound: 0.95},
	-1: {FrontCompression: 0.98, FrontRebound: 1.02, RearCompression: 1.02, RearRebound: 0.98},
	0:  NeutralDamperAdjustment,
	1:  {FrontCompression: 1.02, FrontRebound: 0.98, RearCompression: 0.98, RearRebound: 1.02},
	2:  {FrontCompression: 1.05, FrontRebound: 0.95, RearCompression: 0.95, RearRebound: 1.05},
	3:  {FrontCompression: 1.10, FrontRebound: 0.90, RearCompression: 0.90, RearRebound: 1.10},
	4:  {FrontCompression: 1.15, FrontRebound: 0.85, RearCompression: 0.85, RearRebound: 1.15},
	5:  {FrontCompression: 1.20, FrontRebound: 0.80, RearCompression: 0.80, RearRebound: 1.20},
}

// Negative exit values slow weight transfer off the front, positive values
// soften the rear spring effect.
var cornerExitAdjustment = map[int]DamperAdjustment{
	-5: {FrontCompression: 1.05, FrontRebound: 1.20, RearCompression: 0.80, RearRebound: 0.95},
	-4: {FrontCompression: 1.04, FrontRebound: 1.15, RearCompression: 0.85, RearRebound: 0.96},
	-3: {FrontCompression: 1.03, FrontRebound: 1.10, RearCompression: 0.90, RearRebound: 0.97},
	-2: {FrontCompression: 1.02, FrontRebound: 1.05, RearCompression: 0.95, RearRebound: 0.98},
	-1: {FrontCompression: 1.01, FrontRebound: 1.02, RearCompression: 0.98, RearRebound: 0.99},
	0:  NeutralDamperAdjustment,
	1:  {FrontCompression: 0.99, FrontRebound: 0.98, RearCompression: 0.95, RearRebound: 1.01},
	2:  {FrontCompression: 0.98, FrontRebound: 0.95, RearCompression: 0.90, RearRebound: 1.02},
	3:  {FrontCompression: 0.97, FrontRebound: 0.90, RearCompression: 0.85, RearRebound: 1.03},
	4:  {FrontCompression: 0.96, FrontRebound: 0.85, RearCompression: 0.80, RearRebound: 1.04},
	5:  {FrontCompression: 0.95, FrontRebound: 0.80, RearCompression: 0.75, RearRebound: 1.05},
}

// CornerEntry returns the damper scaling for the corner-entry dial.
func CornerEntry(adjustment int) DamperAdjustment {
	if a, ok := cornerEntryAdjustment[adjustment]; ok {
		return a
	}
	return NeutralDamperAdjustment
}

// CornerExit returns the damper scaling for the corner-exit dial.
func CornerExit(adjustment int) DamperAdjustment {
	if a, ok := cornerExitAdjustment[adjustment]; ok {
		return a
	}
	return NeutralDamperAdjustment
}
