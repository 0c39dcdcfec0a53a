// Package handlers turns dispatcher commands into setups: it cleans the
// arguments, resolves the vehicle, runs the calculators and records results.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/gt7setup/tuner/internal/influx"
	"github.com/gt7setup/tuner/internal/logging"
	"github.com/gt7setup/tuner/internal/parser"
	"github.com/gt7setup/tuner/internal/setup"
	"github.com/gt7setup/tuner/internal/storage"
	"github.com/gt7setup/tuner/internal/util"
	"github.com/gt7setup/tuner/pkg/core"
)

// ErrArgs is returned when a command gets the wrong number of arguments.
var ErrArgs = errors.New("wrong number of arguments")

// PointWriter receives one metrics point per calculation.
type PointWriter interface {
	WritePoint(point *influxdb2_write.Point) error
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Calculator *setup.Calculator
	Parser     *parser.Parser
	Backend    storage.Backend
	LogManager *logging.SlogManager
	// Metrics is optional.
	Metrics PointWriter
	// Active is updated with the vehicle of every setup request when set.
	Active *logging.ActiveVehicle
}

// Service provides handler methods for setup commands
type Service struct {
	deps Dependencies
	now          func() time.Time
	writeLogFunc func(functionName, data, level string)
}

// NewService creates a new handler service
func NewService(deps Dependencies) *Service {
	if deps.LogManager == nil {
		deps.LogManager = logging.NewSlogManager()
	}
	if deps.Calculator == nil {
		deps.Calculator = setup.New(deps.LogManager.Logger(), setup.Options{})
	}
	if deps.Parser == nil {
		deps.Parser = parser.NewParser(deps.LogManager.Logger())
	}
	return &Service{
		deps:         deps,
		now:          time.Now,
		writeLogFunc: deps.LogManager.WriteLog,
	}
}

func (s *Service) writeLog(functionName, data, level string) {
	s.writeLogFunc(functionName, data, level)
}

func (s *Service) vehicleSource() (storage.VehicleSource, bool) {
	src, ok := s.deps.Backend.(storage.VehicleSource)
	return src, ok
}

// ResolveVehicle returns the stored profile for name. Unknown or unreadable
// vehicles get the default profile under the requested name so a setup can
// still be produced.
func (s *Service) ResolveVehicle(name string) core.VehicleProfile {
	functionName := ":VEHICLE:RESOLVE:"
	name = strings.TrimSpace(name)

	profile := core.DefaultVehicleProfile()
	if name == "" {
		s.setActive(profile.Name)
		return profile
	}

	src, ok := s.vehicleSource()
	if ok {
		found, err := src.Vehicle(name)
		switch {
		case err == nil:
			s.setActive(found.Name)
			return found
		case errors.Is(err, storage.ErrNotFound):
			s.writeLog(functionName, fmt.Sprintf("Vehicle %q not found, using default profile", name), "WARN")
		default:
			s.writeLog(functionName, fmt.Sprintf("Error loading vehicle %q: %v", name, err), "ERROR")
		}
	}

	profile.Name = name
	s.setActive(name)
	return profile
}

func (s *Service) setActive(name string) {
	if s.deps.Active != nil {
		s.deps.Active.Set(name)
	}
}

// SpringSetup handles [vehicle name, fields JSON] and returns the recorded
// spring setup.
func (s *Service) SpringSetup(data []string) (core.SpringCalculation, error) {
	functionName := ":SPRING:SETUP:"

	if len(data) != 2 {
		return core.SpringCalculation{}, fmt.Errorf("%s expects 2 arguments, got %d: %w", functionName, len(data), ErrArgs)
	}
	fields, err := DecodeFields(data[1])
	if err != nil {
		return core.SpringCalculation{}, err
	}
	in, err := s.deps.Parser.Suspension(fields)
	if err != nil {
		return core.SpringCalculation{}, fmt.Errorf("parse spring fields: %w", err)
	}

	vehicle := s.ResolveVehicle(util.CleanArg(data[0]))
	calc := core.SpringCalculation{
		Vehicle: vehicle.Name,
		Time:    s.now(),
		Input:   in,
		Output:  s.deps.Calculator.SpringSetup(vehicle, in),
	}

	s.record(functionName, func() error {
		return s.deps.Backend.RecordSpringCalculation(&calc)
	}, func() *influxdb2_write.Point {
		return influx.SpringPoint(calc)
	})
	return calc, nil
}

// GearSetup handles [vehicle name, fields JSON] and returns the recorded
// gear setup.
func (s *Service) GearSetup(data []string) (core.GearCalculation, error) {
	functionName := ":GEAR:SETUP:"

	if len(data) != 2 {
		return core.GearCalculation{}, fmt.Errorf("%s expects 2 arguments, got %d: %w", functionName, len(data), ErrArgs)
	}
	fields, err := DecodeFields(data[1])
	if err != nil {
		return core.GearCalculation{}, err
	}
	in, err := s.deps.Parser.Gearing(fields)
	if err != nil {
		return core.GearCalculation{}, fmt.Errorf("parse gear fields: %w", err)
	}

	vehicle := s.ResolveVehicle(util.CleanArg(data[0]))
	calc := core.GearCalculation{
		Vehicle: vehicle.Name,
		Time:    s.now(),
		Input:   in,
		Output:  s.deps.Calculator.GearSetup(vehicle, in),
	}

	s.record(functionName, func() error {
		return s.deps.Backend.RecordGearCalculation(&calc)
	}, func() *influxdb2_write.Point {
		return influx.GearPoint(calc)
	})
	return calc, nil
}

// TireDiameter handles [gear ratio, rpm, speed km/h, final drive].
func (s *Service) TireDiameter(data []string) (core.TireCalculation, error) {
	functionName := ":TIRE:DIAMETER:"

	if len(data) != 4 {
		return core.TireCalculation{}, fmt.Errorf("%s expects 4 arguments, got %d: %w", functionName, len(data), ErrArgs)
	}
	for i, v := range data {
		data[i] = util.CleanArg(v)
	}

	obs, err := s.deps.Parser.Observation(parser.Fields{
		parser.FieldGearRatio:  data[0],
		parser.FieldRPM:        data[1],
		parser.FieldSpeed:      data[2],
		parser.FieldFinalDrive: data[3],
	})
	if err != nil {
		return core.TireCalculation{}, fmt.Errorf("parse tire observation: %w", err)
	}

	calc := core.TireCalculation{
		Time:        s.now(),
		Observation: obs,
		Diameter:    s.deps.Calculator.TireDiameter(obs),
	}

	s.record(functionName, func() error {
		return s.deps.Backend.RecordTireCalculation(&calc)
	}, func() *influxdb2_write.Point {
		return influx.TirePoint(calc)
	})
	return calc, nil
}

// record persists a calculation and emits its metrics point. Failures are
// logged; the caller still gets its setup.
func (s *Service) record(functionName string, save func() error, point func() *influxdb2_write.Point) {
	if s.deps.Backend != nil {
		if err := save(); err != nil {
			s.writeLog(functionName, fmt.Sprintf("Failed to record calculation: %v", err), "ERROR")
		}
	}
	if s.deps.Metrics != nil {
		if err := s.deps.Metrics.WritePoint(point()); err != nil {
			s.writeLog(functionName, fmt.Sprintf("Failed to write metrics point: %v", err), "WARN")
		}
	}
}

// DecodeFields reads a JSON object of recognised text fields. Numbers and
// booleans are accepted and converted to their text form; nulls are skipped.
// A value wrapped in quotes with doubled inner quotes is unescaped first.
func DecodeFields(raw string) (parser.Fields, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, `"`) {
		raw = util.CleanArg(raw)
	}

	var values map[string]any
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("decode fields: %w", err)
	}

	fields := make(parser.Fields, len(values))
	for k, v := range values {
		switch t := v.(type) {
		case nil:
		case string:
			fields[k] = t
		case float64:
			fields[k] = strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			fields[k] = strconv.FormatBool(t)
		default:
			return nil, fmt.Errorf("decode fields: %q has unsupported type %T", k, v)
		}
	}
	return fields, nil
}
