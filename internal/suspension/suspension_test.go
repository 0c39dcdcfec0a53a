package suspension

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/gt7setup/tuner/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCalculator(t *testing.T) (*Calculator, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(logger), &buf
}

// goldenSpringParams is a 1400 kg FR car, 50/50, 100 mm ride height, no
// downforce, racing medium tires.
func goldenSpringParams() SpringParams {
	return SpringParams{
		Weight:              1400,
		FrontDistribution:   50,
		FrontRideHeight:     100,
		RearRideHeight:      100,
		FrontLeverRatio:     1.0,
		RearLeverRatio:      1.0,
		StiffnessMultiplier: 1.0,
		Drivetrain:          core.DrivetrainFR,
		FrontTires:          core.TireRacingMedium,
		RearTires:           core.TireRacingMedium,
	}
}

func TestSpringRates_Golden(t *testing.T) {
	c, _ := newTestCalculator(t)

	// (700 - 45) * 9.81 / 0.1 m * 1.02 = 65540.61 N/m -> 65.54 N/mm -> 66
	rates := c.SpringRates(goldenSpringParams())
	assert.Equal(t, core.AxlePair{Front: 66, Rear: 66}, rates)
}

func TestSpringRates_RideHeightZeroReturnsDefault(t *testing.T) {
	c, buf := newTestCalculator(t)

	p := goldenSpringParams()
	p.FrontRideHeight = 0
	assert.Equal(t, core.AxlePair{Front: 7.0, Rear: 7.0}, c.SpringRates(p))
	assert.Contains(t, buf.String(), "Error calculating spring rates")

	p = goldenSpringParams()
	p.RearRideHeight = -5
	assert.Equal(t, DefaultSpringRates, c.SpringRates(p))
}

func TestSpringRates_SubMillimetreRideHeightClamped(t *testing.T) {
	p := goldenSpringParams()
	p.FrontRideHeight = 0.25
	atQuarter, err := springRates(p)
	require.NoError(t, err)

	p.FrontRideHeight = 1
	atOne, err := springRates(p)
	require.NoError(t, err)

	assert.Equal(t, atOne.Front, atQuarter.Front)
}

func TestSpringRates_InvalidLeverRatio(t *testing.T) {
	p := goldenSpringParams()
	p.RearLeverRatio = 0
	_, err := springRates(p)
	assert.ErrorIs(t, err, ErrLeverRatio)
}

func TestSpringRates_NonFinite(t *testing.T) {
	p := goldenSpringParams()
	p.Weight = math.Inf(1)
	_, err := springRates(p)
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestSpringRates_StiffnessMonotonic(t *testing.T) {
	p := goldenSpringParams()
	p.FrontRideHeight = 60
	p.RearRideHeight = 70

	prev := core.AxlePair{}
	for _, s := range []float64{0.5, 0.75, 1.0, 1.25, 1.5, 2.0} {
		p.StiffnessMultiplier = s
		rates, err := springRates(p)
		require.NoError(t, err)
		assert.Greater(t, rates.Front, prev.Front, "stiffness %.2f", s)
		assert.Greater(t, rates.Rear, prev.Rear, "stiffness %.2f", s)
		prev = rates
	}
}

func TestSpringRates_Idempotent(t *testing.T) {
	c, _ := newTestCalculator(t)
	p := goldenSpringParams()
	p.FrontDownforce = 120
	p.RearDownforce = 300
	assert.Equal(t, c.SpringRates(p), c.SpringRates(p))
}

func TestRoundSpringRate(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{4.04, 4.0},
		{9.96, 10.0},
		{12.2, 12.0},
		{12.3, 12.5},
		{29.7, 29.5},
		{30.4, 30},
		{65.54, 66},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, RoundSpringRate(tt.in), 1e-9, "rate %.2f", tt.in)
	}
}

// Ties round away from zero, never to even.
func TestRounding_HalfAwayFromZero(t *testing.T) {
	springs := []struct {
		in   float64
		want float64
	}{
		{2.25, 2.3},
		{2.35, 2.4},
		{24.25, 24.5},
		{24.75, 25},
		{30.5, 31},
		{32.5, 33},
	}
	for _, tt := range springs {
		assert.InDelta(t, tt.want, RoundSpringRate(tt.in), 1e-9, "rate %.2f", tt.in)
	}

	places := []struct {
		in     float64
		places int
		want   float64
	}{
		{0.125, 2, 0.13},
		{-0.125, 2, -0.13},
		{-2.25, 1, -2.3},
		{2.5, 0, 3},
		{-2.5, 0, -3},
	}
	for _, tt := range places {
		assert.InDelta(t, tt.want, roundTo(tt.in, tt.places), 1e-9, "%.3f to %d places", tt.in, tt.places)
	}
}

func TestSpringFrequencies(t *testing.T) {
	c, _ := newTestCalculator(t)

	// sqrt(66000/700)/(2π) = 1.5454 Hz, * 1.3 ROAD = 2.009
	freq := c.SpringFrequencies(FrequencyParams{
		Rates:             core.AxlePair{Front: 66, Rear: 66},
		Weight:            1400,
		FrontDistribution: 50,
		CarType:           core.CarTypeRoad,
	})
	assert.Equal(t, core.AxlePair{Front: 2.01, Rear: 2.01}, freq)
}

func TestSpringFrequencies_Defaults(t *testing.T) {
	c, buf := newTestCalculator(t)

	tests := []struct {
		name string
		p    FrequencyParams
	}{
		{"zero weight", FrequencyParams{Rates: core.AxlePair{Front: 50, Rear: 50}, FrontDistribution: 50}},
		{"all weight on front", FrequencyParams{Rates: core.AxlePair{Front: 50, Rear: 50}, Weight: 1400, FrontDistribution: 100}},
		{"negative rate", FrequencyParams{Rates: core.AxlePair{Front: -3, Rear: 50}, Weight: 1400, FrontDistribution: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, DefaultFrequencies, c.SpringFrequencies(tt.p))
		})
	}
	assert.Contains(t, buf.String(), "Error calculating spring frequencies")
}

func TestDampers_Golden(t *testing.T) {
	c, _ := newTestCalculator(t)

	// half critical damping sqrt(66000*700) = 6797.06
	// compression (20 + 6.797) * 1.01 = 27.06, extension (30 + 8.496) * 1.01 = 38.88
	d := c.Dampers(DamperParams{
		Rates:             core.AxlePair{Front: 66, Rear: 66},
		Weight:            1400,
		FrontDistribution: 50,
		FrontTires:        core.TireRacingMedium,
		RearTires:         core.TireRacingMedium,
	})
	assert.Equal(t, core.DamperSettings{
		FrontCompression: 27,
		FrontExtension:   38,
		RearCompression:  27,
		RearExtension:    38,
	}, d)
}

func TestDampers_RangeInvariant(t *testing.T) {
	c, _ := newTestCalculator(t)

	for _, rate := range []float64{0, 1, 20, 80, 200, 900} {
		for adj := -5; adj <= 5; adj++ {
			d := c.Dampers(DamperParams{
				Rates:             core.AxlePair{Front: rate, Rear: rate},
				Weight:            1400,
				FrontDistribution: 55,
				CornerEntry:       adj,
				CornerExit:        -adj,
				FrontTires:        core.TireRacingSoft,
				RearTires:         core.TireComfortHard,
			})
			for _, comp := range []int{d.FrontCompression, d.RearCompression} {
				assert.GreaterOrEqual(t, comp, MinCompression)
				assert.LessOrEqual(t, comp, MaxCompression)
			}
			for _, ext := range []int{d.FrontExtension, d.RearExtension} {
				assert.GreaterOrEqual(t, ext, MinExtension)
				assert.LessOrEqual(t, ext, MaxExtension)
			}
		}
	}
}

func TestDampers_NegativeRateReturnsDefault(t *testing.T) {
	c, buf := newTestCalculator(t)
	d := c.Dampers(DamperParams{
		Rates:             core.AxlePair{Front: -10, Rear: 40},
		Weight:            1400,
		FrontDistribution: 50,
	})
	assert.Equal(t, DefaultDampers, d)
	assert.Contains(t, buf.String(), "Error calculating damper settings")
}

func TestRollBars(t *testing.T) {
	c, _ := newTestCalculator(t)

	tests := []struct {
		name string
		p    RollBarParams
		want core.AxlePair
	}{
		{
			name: "neutral",
			p: RollBarParams{
				RotationalG:        [3]float64{-1.0, -1.2, -1.5},
				HighSpeedStability: 1.0,
				ARBMultiplier:      1.0,
			},
			want: core.AxlePair{Front: 3.7, Rear: 3.7},
		},
		{
			name: "understeer dial stiffens front",
			p: RollBarParams{
				RotationalG:        [3]float64{-1.0, -1.0, -2.0},
				HighSpeedStability: 1.0,
				ARBMultiplier:      1.0,
				OUAdjustment:       -5,
			},
			want: core.AxlePair{Front: 6.0, Rear: 2.0},
		},
		{
			name: "clamped high",
			p: RollBarParams{
				RotationalG:        [3]float64{-5, -5, -5},
				HighSpeedStability: 1.0,
				ARBMultiplier:      2.0,
			},
			want: core.AxlePair{Front: 10, Rear: 10},
		},
		{
			name: "clamped low",
			p: RollBarParams{
				RotationalG:        [3]float64{1, 1, 1},
				HighSpeedStability: 1.0,
				ARBMultiplier:      1.0,
			},
			want: core.AxlePair{Front: 1, Rear: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.RollBars(tt.p)
			assert.InDelta(t, tt.want.Front, got.Front, 1e-9)
			assert.InDelta(t, tt.want.Rear, got.Rear, 1e-9)
		})
	}
}

func TestRollBars_NonFiniteReturnsDefault(t *testing.T) {
	c, _ := newTestCalculator(t)
	got := c.RollBars(RollBarParams{
		RotationalG:        [3]float64{math.NaN(), 0, 0},
		HighSpeedStability: 1.0,
		ARBMultiplier:      1.0,
	})
	assert.Equal(t, DefaultRollBars, got)
}

func TestAlignment(t *testing.T) {
	c, _ := newTestCalculator(t)

	// wear 25 -> 0.85, Fast -> 0.9, FR -> 3.0 front / 1.5 rear
	got := c.Alignment(AlignmentParams{
		RotationalG75:      2.0,
		Drivetrain:         core.DrivetrainFR,
		TireWear:           25,
		TrackType:          core.TrackFast,
		FrontDistribution:  50,
		LowSpeedStability:  -0.2,
		HighSpeedStability: 0.5,
		FrontTires:         core.TireRacingMedium,
		RearTires:          core.TireRacingMedium,
	})

	assert.InDelta(t, 3.4, got.FrontCamber, 1e-9)
	assert.InDelta(t, 2.0, got.RearCamber, 1e-9)
	assert.InDelta(t, 0.07, got.FrontToe, 1e-9)
	assert.InDelta(t, 0.22, got.RearToe, 1e-9)
}

func TestAlignment_ZeroHighSpeedStability(t *testing.T) {
	c, buf := newTestCalculator(t)
	got := c.Alignment(AlignmentParams{
		RotationalG75:     1.0,
		Drivetrain:        core.DrivetrainMR,
		FrontDistribution: 45,
	})
	assert.Equal(t, DefaultAlignment, got)
	assert.Contains(t, buf.String(), "Error calculating alignment settings")
}

func TestCalculate_Pipeline(t *testing.T) {
	c, _ := newTestCalculator(t)

	in := core.DefaultSuspensionInput()
	in.RotationalG40 = -1.0
	in.RotationalG75 = -1.2
	in.RotationalG150 = -1.5

	out := c.Calculate(in, core.DefaultVehicleProfile())

	assert.Equal(t, core.AxlePair{Front: 66, Rear: 66}, out.SpringRate)
	assert.Equal(t, core.AxlePair{Front: 2.01, Rear: 2.01}, out.SpringFrequency)
	assert.Equal(t, 27, out.Dampers.FrontCompression)
	assert.InDelta(t, 3.7, out.RollBar.Front, 1e-9)

	again := c.Calculate(in, core.DefaultVehicleProfile())
	assert.Equal(t, out, again)
}

func TestNew_NilLogger(t *testing.T) {
	c := New(nil)
	p := goldenSpringParams()
	p.FrontRideHeight = 0
	assert.Equal(t, DefaultSpringRates, c.SpringRates(p))
}
