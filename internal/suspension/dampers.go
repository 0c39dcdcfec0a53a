package suspension

import (
	"fmt"
	"math"

	"github.com/gt7setup/tuner/internal/tables"
	"github.com/gt7setup/tuner/pkg/core"
)

// Damper hardware limits.
const (
	MinCompression = 20
	MaxCompression = 40
	MinExtension   = 30
	MaxExtension   = 50
)

// DamperParams are the inputs of the damper stage.
type DamperParams struct {
	Rates             core.AxlePair // N/mm
	Weight            float64
	FrontDistribution float64
	CornerEntry       int
	CornerExit        int
	FrontTires        core.TireCompound
	RearTires         core.TireCompound
}

// Dampers returns compression and extension steps for both axles.
func (c *Calculator) Dampers(p DamperParams) core.DamperSettings {
	d, err := dampers(p)
	if err != nil {
		c.logger.Error("Error calculating damper settings", "error", err)
		return DefaultDampers
	}
	c.logger.Debug("Calculated damper settings",
		"frontCompression", d.FrontCompression,
		"frontExtension", d.FrontExtension,
		"rearCompression", d.RearCompression,
		"rearExtension", d.RearExtension)
	return d
}

// axleDamping is half the critical damping coefficient of one axle.
func axleDamping(rateNmm, mass float64) (float64, error) {
	term := rateNmm * 1000 * mass
	if term < 0 {
		return 0, fmt.Errorf("dampers: rate %.1f mass %.1f: %w", rateNmm, mass, ErrDampingRoot)
	}
	return 2 * math.Sqrt(term) * 0.5, nil
}

func dampers(p DamperParams) (core.DamperSettings, error) {
	massF, massR := axleMasses(p.Weight, p.FrontDistribution)

	halfF, err := axleDamping(p.Rates.Front, massF)
	if err != nil {
		return core.DamperSettings{}, err
	}
	halfR, err := axleDamping(p.Rates.Rear, massR)
	if err != nil {
		return core.DamperSettings{}, err
	}

	baseFC := (20 + halfF/1000) * tables.TireDamperMultiplier(p.FrontTires)
	baseFE := (30 + halfF/800) * tables.TireDamperMultiplier(p.FrontTires)
	baseRC := (20 + halfR/1000) * tables.TireDamperMultiplier(p.RearTires)
	baseRE := (30 + halfR/800) * tables.TireDamperMultiplier(p.RearTires)
	if err := checkFinite("dampers", baseFC, baseFE, baseRC, baseRE); err != nil {
		return core.DamperSettings{}, err
	}

	entry := phaseDampers(baseFC, baseFE, baseRC, baseRE, tables.CornerEntry(p.CornerEntry))
	exit := phaseDampers(baseFC, baseFE, baseRC, baseRE, tables.CornerExit(p.CornerExit))

	return core.DamperSettings{
		FrontCompression: clampInt(average(entry.FrontCompression, exit.FrontCompression), MinCompression, MaxCompression),
		FrontExtension:   clampInt(average(entry.FrontExtension, exit.FrontExtension), MinExtension, MaxExtension),
		RearCompression:  clampInt(average(entry.RearCompression, exit.RearCompression), MinCompression, MaxCompression),
		RearExtension:    clampInt(average(entry.RearExtension, exit.RearExtension), MinExtension, MaxExtension),
	}, nil
}

// phaseDampers truncates each scaled channel toward zero.
func phaseDampers(fc, fe, rc, re float64, adj tables.DamperAdjustment) core.DamperSettings {
	return core.DamperSettings{
		FrontCompression: int(fc * adj.FrontCompression),
		FrontExtension:   int(fe * adj.FrontRebound),
		RearCompression:  int(rc * adj.RearCompression),
		RearExtension:    int(re * adj.RearRebound),
	}
}

func average(a, b int) int {
	return int(float64(a+b) / 2)
}
