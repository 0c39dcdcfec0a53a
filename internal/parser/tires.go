package parser

import (
	"strings"

	"github.com/gt7setup/tuner/pkg/core"
)

type tireKeywords struct {
	code     core.TireCompound
	keywords []string
}

// tireAliases is scanned in order; earlier entries win ties.
var tireAliases = []tireKeywords{
	{core.TireComfortHard, []string{"comfort: hard", "comfort hard", "ch", "comfort h", "hard comfort"}},
	{core.TireComfortMedium, []string{"comfort: medium", "comfort medium", "cm", "comfort m", "medium comfort"}},
	{core.TireComfortSoft, []string{"comfort: soft", "comfort soft", "cs", "comfort s", "soft comfort"}},
	{core.TireSportHard, []string{"sports: hard", "sports hard", "sport: hard", "sport hard", "sh", "sports h", "sport h", "hard sport"}},
	{core.TireSportMedium, []string{"sports: medium", "sports medium", "sport: medium", "sport medium", "sm", "sports m", "sport m", "medium sport"}},
	{core.TireSportSoft, []string{"sports: soft", "sports soft", "sport: soft", "sport soft", "ss", "sports s", "sport s", "soft sport"}},
	{core.TireRacingHard, []string{"racing: hard", "racing hard", "rh", "racing h", "hard racing"}},
	{core.TireRacingMedium, []string{"racing: medium", "racing medium", "rm", "racing m", "medium racing"}},
	{core.TireRacingSoft, []string{"racing: soft", "racing soft", "rs", "racing s", "soft racing"}},
	{core.TireRacingIntermediate, []string{"racing: intermediate", "racing intermediate", "ri", "intermediate", "inter", "int racing"}},
	{core.TireRacingHeavyWet, []string{"racing: heavy wet", "racing heavy wet", "racing wet", "rw", "wet", "heavy wet", "rain"}},
}

// TireCompound fuzzy-matches recognised tire text against known labels and
// codes. Each contained keyword scores 1, plus 0.5 when longer than two
// characters; an exact match scores 3 more. No match yields Racing: Medium.
func TireCompound(s string) core.TireCompound {
	text := strings.ToLower(strings.TrimSpace(s))

	best := core.TireRacingMedium
	bestScore := 0.0
	for _, t := range tireAliases {
		score := 0.0
		for _, kw := range t.keywords {
			if strings.Contains(text, kw) {
				score++
				if len(kw) > 2 {
					score += 0.5
				}
			}
			if kw == text {
				score += 3
			}
		}
		if score > bestScore {
			best, bestScore = t.code, score
		}
	}
	return best
}
