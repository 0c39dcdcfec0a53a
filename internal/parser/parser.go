package parser

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gt7setup/tuner/pkg/core"
)

// Field names of an OCR result or setup form.
const (
	FieldVehicleWeight           = "vehicle_weight"
	FieldFrontWeightDistribution = "front_weight_distribution"
	FieldFrontRideHeight         = "front_ride_height"
	FieldRearRideHeight          = "rear_ride_height"
	FieldFrontDownforce          = "front_downforce"
	FieldRearDownforce           = "rear_downforce"
	FieldFrontTires              = "front_tires"
	FieldRearTires               = "rear_tires"
	FieldLowSpeedStability       = "low_speed_stability"
	FieldHighSpeedStability      = "high_speed_stability"
	FieldRotationalG40           = "rotational_g_40mph"
	FieldRotationalG75           = "rotational_g_75mph"
	FieldRotationalG150          = "rotational_g_150mph"
	FieldPerformancePoints       = "performance_points"

	FieldStiffnessMultiplier   = "stiffness_multiplier"
	FieldSpringFrequencyOffset = "spring_frequency_offset"
	FieldARBStiffness          = "arb_stiffness_multiplier"
	FieldOUAdjustment          = "ou_adjustment"
	FieldCornerEntry           = "corner_entry_adjustment"
	FieldCornerExit            = "corner_exit_adjustment"
	FieldTrackType             = "track_type"
	FieldTireWear              = "tire_wear_multiplier"

	FieldPowerHP     = "power_hp"
	FieldTorqueKgfm  = "torque_kgfm"
	FieldMinRPM      = "min_rpm"
	FieldMaxRPM      = "max_rpm"
	FieldMaxPowerRPM = "max_power_rpm_region"

	FieldGearRatio    = "gear_ratio"
	FieldRPM          = "rpm"
	FieldSpeed        = "speed"
	FieldFinalDrive   = "final_drive"
	FieldGearSection  = "gear_section"
	FieldNumGears     = "num_gears"
	FieldTopSpeed     = "top_speed_mph"
	FieldCornerSpeed  = "min_corner_speed_mph"
	FieldCornerGear   = "min_corner_gear"
	FieldTireDiameter = "tire_diameter_inches"

	FieldOptimizeFinalDrive = "optimize_final_drive"
)

var (
	// ErrMissingField is returned when a required field is absent.
	ErrMissingField = errors.New("missing field")
	// ErrUnreadable is returned when a field holds no usable number.
	ErrUnreadable = errors.New("unreadable field")
)

// Fields maps field names to raw recognised text.
type Fields map[string]string

func (f Fields) lookup(name string) (string, bool) {
	v, ok := f[name]
	return v, ok && v != ""
}

// Parser converts recognised text fields into calculator inputs.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a parser. A nil logger falls back to slog.Default().
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// fieldReader accumulates per-field failures so one call reports all of them.
type fieldReader struct {
	fields Fields
	errs   []error
}

func (r *fieldReader) fail(name string, err error) {
	r.errs = append(r.errs, fmt.Errorf("%s: %w", name, err))
}

// int reads an integer field through fn; absent fields keep *dst.
func (r *fieldReader) int(name string, dst *int, fn func(string) (int, bool)) {
	raw, ok := r.fields.lookup(name)
	if !ok {
		return
	}
	v, ok := fn(raw)
	if !ok {
		r.fail(name, fmt.Errorf("%w: %q", ErrUnreadable, raw))
		return
	}
	*dst = v
}

// float reads a float field through fn; absent fields keep *dst.
func (r *fieldReader) float(name string, dst *float64, fn func(string) (float64, bool)) {
	raw, ok := r.fields.lookup(name)
	if !ok {
		return
	}
	v, ok := fn(raw)
	if !ok {
		r.fail(name, fmt.Errorf("%w: %q", ErrUnreadable, raw))
		return
	}
	*dst = v
}

// bool reads a yes/no field; absent fields keep *dst.
func (r *fieldReader) bool(name string, dst *bool) {
	raw, ok := r.fields.lookup(name)
	if !ok {
		return
	}
	v, ok := Flag(raw)
	if !ok {
		r.fail(name, fmt.Errorf("%w: %q", ErrUnreadable, raw))
		return
	}
	*dst = v
}

func (r *fieldReader) require(names ...string) {
	for _, name := range names {
		if _, ok := r.fields.lookup(name); !ok {
			r.fail(name, ErrMissingField)
		}
	}
}

func (r *fieldReader) err() error {
	return errors.Join(r.errs...)
}

// Suspension builds a SuspensionInput from the form defaults overlaid with
// the given fields. The vehicle weight is required.
func (p *Parser) Suspension(fields Fields) (core.SuspensionInput, error) {
	in := core.DefaultSuspensionInput()
	r := &fieldReader{fields: fields}

	r.require(FieldVehicleWeight)

	r.float(FieldVehicleWeight, &in.VehicleWeight, intAsFloat(Weight))
	in.FrontWeightDistribution = float64(Distribution(fields[FieldFrontWeightDistribution], int(in.FrontWeightDistribution)))
	r.float(FieldFrontRideHeight, &in.FrontRideHeight, intAsFloat(Integer))
	r.float(FieldRearRideHeight, &in.RearRideHeight, intAsFloat(Integer))
	r.float(FieldFrontDownforce, &in.FrontDownforce, intAsFloat(Integer))
	r.float(FieldRearDownforce, &in.RearDownforce, intAsFloat(Integer))

	if raw, ok := fields.lookup(FieldFrontTires); ok {
		in.FrontTires = TireCompound(raw)
	}
	if raw, ok := fields.lookup(FieldRearTires); ok {
		in.RearTires = TireCompound(raw)
	}

	in.LowSpeedStability = signedOr(fields, FieldLowSpeedStability, in.LowSpeedStability)
	in.HighSpeedStability = signedOr(fields, FieldHighSpeedStability, in.HighSpeedStability)
	in.RotationalG40 = signedOr(fields, FieldRotationalG40, in.RotationalG40)
	in.RotationalG75 = signedOr(fields, FieldRotationalG75, in.RotationalG75)
	in.RotationalG150 = signedOr(fields, FieldRotationalG150, in.RotationalG150)
	if raw, ok := fields.lookup(FieldPerformancePoints); ok {
		in.PerformancePoints = PerformancePoints(raw)
	}

	r.float(FieldStiffnessMultiplier, &in.StiffnessMultiplier, SignedDecimal)
	r.float(FieldARBStiffness, &in.ARBStiffnessMultiplier, SignedDecimal)
	r.int(FieldSpringFrequencyOffset, &in.SpringFrequencyOffset, SignedInteger)
	r.int(FieldOUAdjustment, &in.OUAdjustment, SignedInteger)
	r.int(FieldCornerEntry, &in.CornerEntryAdjustment, SignedInteger)
	r.int(FieldCornerExit, &in.CornerExitAdjustment, SignedInteger)
	r.int(FieldTireWear, &in.TireWearMultiplier, Integer)

	if raw, ok := fields.lookup(FieldTrackType); ok {
		in.TrackType = TrackType(raw)
	}

	if err := r.err(); err != nil {
		p.logger.Warn("Suspension fields rejected", "error", err)
		return core.SuspensionInput{}, err
	}
	return in, nil
}

// Gearing builds a GearingInput from the form defaults overlaid with the
// given fields. A complete gear ratio/rpm/speed/final drive reading becomes a
// tire observation.
func (p *Parser) Gearing(fields Fields) (core.GearingInput, error) {
	in := core.DefaultGearingInput()
	r := &fieldReader{fields: fields}

	r.float(FieldPowerHP, &in.PowerHP, intAsFloat(Power))
	r.float(FieldTorqueKgfm, &in.TorqueKgfm, Decimal)
	r.float(FieldMinRPM, &in.MinRPM, intAsFloat(RPM))
	r.float(FieldMaxRPM, &in.MaxRPM, intAsFloat(RPM))
	r.float(FieldMaxPowerRPM, &in.MaxPowerRPM, intAsFloat(PowerRPM))
	r.float(FieldTopSpeed, &in.TopSpeedMPH, Decimal)
	r.float(FieldCornerSpeed, &in.MinCornerSpeedMPH, Decimal)
	r.float(FieldTireDiameter, &in.TireDiameter, Decimal)
	r.int(FieldCornerGear, &in.MinCornerGear, Integer)
	r.bool(FieldOptimizeFinalDrive, &in.OptimizeFinalDrive)

	if raw, ok := fields.lookup(FieldGearSection); ok {
		in.NumGears = GearCount(raw)
	}
	r.int(FieldNumGears, &in.NumGears, Integer)
	if in.NumGears < minGears || in.NumGears > maxGears {
		p.logger.Warn("Gear count out of range, using default",
			"gears", in.NumGears,
			"default", defaultGears)
		in.NumGears = defaultGears
	}

	if hasAll(fields, FieldGearRatio, FieldRPM, FieldSpeed, FieldFinalDrive) {
		obs := &core.TireObservation{}
		r.float(FieldGearRatio, &obs.GearRatio, Decimal)
		r.float(FieldRPM, &obs.RPM, intAsFloat(RPM))
		r.float(FieldSpeed, &obs.SpeedKPH, Decimal)
		r.float(FieldFinalDrive, &obs.FinalDrive, Decimal)
		in.TireObservation = obs
	}

	if err := r.err(); err != nil {
		p.logger.Warn("Gearing fields rejected", "error", err)
		return core.GearingInput{}, err
	}
	return in, nil
}

// Observation reads a standalone tire observation; all four fields are required.
func (p *Parser) Observation(fields Fields) (core.TireObservation, error) {
	var obs core.TireObservation
	r := &fieldReader{fields: fields}
	r.require(FieldGearRatio, FieldRPM, FieldSpeed, FieldFinalDrive)
	r.float(FieldGearRatio, &obs.GearRatio, Decimal)
	r.float(FieldRPM, &obs.RPM, intAsFloat(RPM))
	r.float(FieldSpeed, &obs.SpeedKPH, Decimal)
	r.float(FieldFinalDrive, &obs.FinalDrive, Decimal)
	if err := r.err(); err != nil {
		return core.TireObservation{}, err
	}
	return obs, nil
}

func hasAll(fields Fields, names ...string) bool {
	for _, name := range names {
		if _, ok := fields.lookup(name); !ok {
			return false
		}
	}
	return true
}

func signedOr(fields Fields, name string, def float64) float64 {
	raw, ok := fields.lookup(name)
	if !ok {
		return def
	}
	return Stability(raw)
}

func intAsFloat(fn func(string) (int, bool)) func(string) (float64, bool) {
	return func(s string) (float64, bool) {
		n, ok := fn(s)
		return float64(n), ok
	}
}
