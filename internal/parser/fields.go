package parser

import (
	"regexp"
	"strings"

	"github.com/gt7setup/tuner/internal/util"
	"github.com/gt7setup/tuner/pkg/core"
)

const (
	minGears     = 4
	maxGears     = 9
	defaultGears = 6
)

var (
	ratioPattern    = regexp.MustCompile(`(\d+)\s*:\s*\d+`)
	ppPattern       = regexp.MustCompile(`(?i)PP\s*(\d+(?:\.\d+)?)`)
	powerPattern    = regexp.MustCompile(`(?i)(\d+)\s*(?:BHP|HP|PS)`)
	atRPMPattern    = regexp.MustCompile(`(?i)@\s*(\d+)\s*RPM`)
	atPattern       = regexp.MustCompile(`(?:at|@)\s*(\d+)`)
	ordinalPattern  = regexp.MustCompile(`(\d+)(?:st|nd|rd|th)`)
	gearLineMarkers = []string{"gear", "1st", "2nd", "3rd", "4th", "5th", "6th", "7th", "8th", "9th"}
)

// Weight reads a weight such as "1,350 kg".
func Weight(s string) (int, bool) {
	return util.FirstInt(util.StripThousands(s))
}

// Distribution reads the front share from "52:48" or a bare number,
// returning def when neither is present.
func Distribution(s string, def int) int {
	if m := ratioPattern.FindStringSubmatch(s); m != nil {
		if n, ok := util.FirstInt(m[1]); ok {
			return n
		}
	}
	if n, ok := util.FirstInt(s); ok {
		return n
	}
	return def
}

// Integer reads the first unsigned integer.
func Integer(s string) (int, bool) {
	return util.FirstInt(s)
}

// SignedInteger reads the first integer, keeping a leading minus.
func SignedInteger(s string) (int, bool) {
	return util.FirstSignedInt(s)
}

// Decimal reads the first number with an optional fraction.
func Decimal(s string) (float64, bool) {
	return util.FirstDecimal(s)
}

// SignedDecimal reads a signed number with an optional fraction.
func SignedDecimal(s string) (float64, bool) {
	return util.FirstSignedDecimal(s)
}

// Stability reads a stability or rotational G value; unreadable text is 0.
func Stability(s string) float64 {
	v, _ := util.FirstSignedDecimal(s)
	return v
}

// PerformancePoints reads "PP 612.5", then any decimal, then any integer;
// unreadable text is 0.
func PerformancePoints(s string) float64 {
	if m := ppPattern.FindStringSubmatch(s); m != nil {
		if v, ok := util.FirstDecimal(m[1]); ok {
			return v
		}
	}
	if v, ok := util.FirstStrictDecimal(s); ok {
		return v
	}
	n, _ := util.FirstInt(s)
	return float64(n)
}

// Power reads "612 HP" (or BHP/PS), falling back to the first integer.
func Power(s string) (int, bool) {
	if m := powerPattern.FindStringSubmatch(s); m != nil {
		return util.FirstInt(m[1])
	}
	return util.FirstInt(s)
}

// RPM reads an engine speed such as "8,500".
func RPM(s string) (int, bool) {
	return util.FirstInt(util.StripThousands(s))
}

// PowerRPM reads the rpm from "612 HP @ 6,800 rpm" or "at 6800".
func PowerRPM(s string) (int, bool) {
	s = util.StripThousands(s)
	if m := atRPMPattern.FindStringSubmatch(s); m != nil {
		return util.FirstInt(m[1])
	}
	if m := atPattern.FindStringSubmatch(s); m != nil {
		return util.FirstInt(m[1])
	}
	return 0, false
}

// GearCount reads the number of gears from a transmission panel: the
// highest ordinal, else the number of gear lines, else 6. Counts outside
// 4..9 are ignored.
func GearCount(s string) int {
	lower := strings.ToLower(s)

	highest := 0
	for _, m := range ordinalPattern.FindAllStringSubmatch(lower, -1) {
		if n, ok := util.FirstInt(m[1]); ok && n > highest {
			highest = n
		}
	}
	if highest >= minGears && highest <= maxGears {
		return highest
	}

	lines := 0
	for _, line := range strings.Split(lower, "\n") {
		for _, marker := range gearLineMarkers {
			if strings.Contains(line, marker) {
				lines++
				break
			}
		}
	}
	if lines >= minGears && lines <= maxGears {
		return lines
	}
	return defaultGears
}

// Flag reads a checkbox-style answer: yes/no, true/false, on/off or 1/0.
func Flag(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "on", "1", "x":
		return true, true
	case "no", "n", "false", "off", "0":
		return false, true
	}
	return false, false
}

// TrackType matches "fast" or "technical" case-insensitively, defaulting to Fast.
func TrackType(s string) core.TrackType {
	if strings.Contains(strings.ToLower(s), "tech") {
		return core.TrackTechnical
	}
	return core.TrackFast
}
