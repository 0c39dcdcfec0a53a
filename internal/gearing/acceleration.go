package gearing

import "fmt"

// AccelerationEstimate returns a 0-60 mph time in seconds from
// power-to-weight, first/second gear spacing and first gear length.
// Spacing outside 1.5..2.0 and first gear outside 2.5..3.5 are penalized.
func (c *Calculator) AccelerationEstimate(powerHP, weightKg float64, ratios []float64) float64 {
	est, err := accelerationEstimate(powerHP, weightKg, ratios)
	if err != nil {
		c.logger.Error("Error estimating acceleration", "error", err)
		return DefaultAcceleration
	}
	c.logger.Debug("Estimated 0-60 mph acceleration", "seconds", est)
	return est
}

func accelerationEstimate(powerHP, weightKg float64, ratios []float64) (float64, error) {
	if weightKg == 0 {
		return 0, fmt.Errorf("acceleration: weight: %w", ErrZeroDivisor)
	}
	ptw := powerHP / weightKg

	first := DefaultRatios[0]
	if len(ratios) > 0 {
		first = ratios[0]
	}
	second := first * 0.6
	if len(ratios) > 1 {
		second = ratios[1]
	}

	gearFactor := 1.0
	if first > 0 && second > 0 {
		spacing := first / second
		switch {
		case spacing < 1.5:
			gearFactor = 0.9 + (spacing-1.0)*0.1
		case spacing > 2.0:
			gearFactor = 0.9 + (2.5-spacing)*0.1
		}
	}
	if ptw*gearFactor == 0 {
		return 0, fmt.Errorf("acceleration: power %.0f gear factor %.3f: %w", powerHP, gearFactor, ErrZeroDivisor)
	}
	est := 5.0 / (ptw * gearFactor) * 2.5

	launch := 1.0
	switch {
	case first > 3.5:
		launch = 1.0 + (first-3.5)*0.03
	case first < 2.5:
		launch = 1.0 + (2.5-first)*0.05
	}

	est *= launch
	if err := checkFinite("acceleration", est); err != nil {
		return 0, err
	}
	return roundTo(est, 1), nil
}
