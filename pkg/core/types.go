package core

import "strings"

// TireCompound is the two-letter tire code shown in the game's tuning menu.
type TireCompound string

const (
	TireComfortHard        TireCompound = "CH"
	TireComfortMedium      TireCompound = "CM"
	TireComfortSoft        TireCompound = "CS"
	TireSportHard          TireCompound = "SH"
	TireSportMedium        TireCompound = "SM"
	TireSportSoft          TireCompound = "SS"
	TireRacingHard         TireCompound = "RH"
	TireRacingMedium       TireCompound = "RM"
	TireRacingSoft         TireCompound = "RS"
	TireRacingIntermediate TireCompound = "RI"
	TireRacingHeavyWet     TireCompound = "RW"
)

// TireCompounds lists the compounds in menu order.
var TireCompounds = []TireCompound{
	TireComfortHard, TireComfortMedium, TireComfortSoft,
	TireSportHard, TireSportMedium, TireSportSoft,
	TireRacingHard, TireRacingMedium, TireRacingSoft,
	TireRacingIntermediate, TireRacingHeavyWet,
}

var tireCompoundNames = map[TireCompound]string{
	TireComfortHard:        "Comfort: Hard",
	TireComfortMedium:      "Comfort: Medium",
	TireComfortSoft:        "Comfort: Soft",
	TireSportHard:          "Sport: Hard",
	TireSportMedium:        "Sport: Medium",
	TireSportSoft:          "Sport: Soft",
	TireRacingHard:         "Racing: Hard",
	TireRacingMedium:       "Racing: Medium",
	TireRacingSoft:         "Racing: Soft",
	TireRacingIntermediate: "Racing: Intermediate",
	TireRacingHeavyWet:     "Racing: Heavy Wet",
}

// DisplayName returns the menu label, or the raw code for unknown compounds.
func (t TireCompound) DisplayName() string {
	if name, ok := tireCompoundNames[t]; ok {
		return name
	}
	return string(t)
}

// TrackType selects the alignment bias for the circuit.
type TrackType string

const (
	TrackFast      TrackType = "Fast"
	TrackTechnical TrackType = "Technical"
)

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
