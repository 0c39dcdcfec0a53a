package worker

import (
	"fmt"
	"os"
	"strconv"

	"github.com/gt7setup/tuner/internal/dispatcher"
	"github.com/gt7setup/tuner/internal/handlers"
	"github.com/gt7setup/tuner/internal/parser"
	"github.com/gt7setup/tuner/internal/storage"
	"github.com/gt7setup/tuner/internal/util"
	"github.com/gt7setup/tuner/internal/vehicles"
	"github.com/gt7setup/tuner/pkg/core"
)

// DefaultHistoryLimit applies when a history command gives no limit.
const DefaultHistoryLimit = 20

// RegisterHandlers registers all command handlers with the dispatcher.
func (m *Manager) RegisterHandlers(d *dispatcher.Dispatcher) {
	// Setups - sync, the caller waits for the result
	d.Register(":SPRING:SETUP:", m.handleSpringSetup, dispatcher.Logged())
	d.Register(":GEAR:SETUP:", m.handleGearSetup, dispatcher.Logged())
	d.Register(":TIRE:DIAMETER:", m.handleTireDiameter, dispatcher.Logged())

	// Vehicle data
	d.Register(":VEHICLE:LIST:", m.handleVehicleList, dispatcher.Logged())
	d.Register(":VEHICLE:GET:", m.handleVehicleGet, dispatcher.Logged())
	d.Register(":VEHICLE:SAVE:", m.handleVehicleSave, dispatcher.Logged())
	d.Register(":VEHICLE:IMPORT:", m.handleVehicleImport, dispatcher.Logged())
	d.Register(":VEHICLE:DELETE:", m.handleVehicleDelete, dispatcher.Logged())

	// Storage - async; one flush waiting behind a running one is enough
	if _, ok := m.backend.(flusher); ok {
		d.Register(":STORAGE:FLUSH:", m.handleStorageFlush, dispatcher.Buffered(1), dispatcher.Logged())
	} else {
		d.Register(":STORAGE:FLUSH:", unsupported, dispatcher.Logged())
	}

	// History
	d.Register(":HISTORY:SPRING:", m.handleSpringHistory, dispatcher.Logged())
	d.Register(":HISTORY:GEAR:", m.handleGearHistory, dispatcher.Logged())
	d.Register(":HISTORY:TIRE:", m.handleTireHistory, dispatcher.Logged())
}

func (m *Manager) handleSpringSetup(e dispatcher.Event) (any, error) {
	calc, err := m.deps.Service.SpringSetup(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate spring setup: %w", err)
	}
	return calc, nil
}

func (m *Manager) handleGearSetup(e dispatcher.Event) (any, error) {
	calc, err := m.deps.Service.GearSetup(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate gear setup: %w", err)
	}
	return calc, nil
}

func (m *Manager) handleTireDiameter(e dispatcher.Event) (any, error) {
	calc, err := m.deps.Service.TireDiameter(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to estimate tire diameter: %w", err)
	}
	return calc, nil
}

// handleVehicleList returns stored vehicle names in name order.
func (m *Manager) handleVehicleList(e dispatcher.Event) (any, error) {
	src, err := m.vehicleSource()
	if err != nil {
		return nil, err
	}
	profiles, err := src.Vehicles()
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	names := make([]string, len(profiles))
	for i, p := range profiles {
		names[i] = p.Name
	}
	return names, nil
}

func (m *Manager) handleVehicleGet(e dispatcher.Event) (any, error) {
	if len(e.Args) != 1 {
		return nil, fmt.Errorf("vehicle get expects 1 argument, got %d: %w", len(e.Args), handlers.ErrArgs)
	}
	src, err := m.vehicleSource()
	if err != nil {
		return nil, err
	}
	v, err := src.Vehicle(util.CleanArg(e.Args[0]))
	if err != nil {
		return nil, err
	}
	return v, nil
}

// handleVehicleSave stores [name, drivetrain, car type, front lever ratio,
// rear lever ratio, base weight?]. Missing base weight keeps the default.
func (m *Manager) handleVehicleSave(e dispatcher.Event) (any, error) {
	if len(e.Args) != 5 && len(e.Args) != 6 {
		return nil, fmt.Errorf("vehicle save expects 5 or 6 arguments, got %d: %w", len(e.Args), handlers.ErrArgs)
	}
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = util.CleanArg(a)
	}

	v := core.DefaultVehicleProfile()
	v.Name = args[0]

	var ok bool
	if v.Drivetrain, ok = core.ParseDrivetrain(args[1]); !ok {
		return nil, fmt.Errorf("unknown drivetrain %q", args[1])
	}
	if v.CarType, ok = core.ParseCarType(args[2]); !ok {
		return nil, fmt.Errorf("unknown car type %q", args[2])
	}
	if v.LeverRatioFront, ok = parser.Decimal(args[3]); !ok {
		return nil, fmt.Errorf("front lever ratio %q: %w", args[3], parser.ErrUnreadable)
	}
	if v.LeverRatioRear, ok = parser.Decimal(args[4]); !ok {
		return nil, fmt.Errorf("rear lever ratio %q: %w", args[4], parser.ErrUnreadable)
	}
	if len(args) == 6 && args[5] != "" {
		w, ok := parser.Weight(args[5])
		if !ok {
			return nil, fmt.Errorf("base weight %q: %w", args[5], parser.ErrUnreadable)
		}
		v.BaseWeight = float64(w)
	}

	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("invalid vehicle %q: %w", v.Name, err)
	}
	if err := m.backend.SaveVehicle(&v); err != nil {
		return nil, fmt.Errorf("failed to save vehicle %q: %w", v.Name, err)
	}
	return v, nil
}

// handleVehicleImport reads a lever-ratio CSV from the given path.
func (m *Manager) handleVehicleImport(e dispatcher.Event) (any, error) {
	if len(e.Args) != 1 {
		return nil, fmt.Errorf("vehicle import expects 1 argument, got %d: %w", len(e.Args), handlers.ErrArgs)
	}
	src, err := m.vehicleSource()
	if err != nil {
		return nil, err
	}

	path := util.CleanArg(e.Args[0])
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open vehicle sheet: %w", err)
	}
	defer f.Close()

	importer := vehicles.NewImporter(vehicleStore{m.backend, src}, m.deps.LogManager.Logger())
	res, err := importer.Import(f)
	if err != nil {
		return nil, fmt.Errorf("failed to import %s: %w", path, err)
	}
	return res, nil
}

func (m *Manager) handleVehicleDelete(e dispatcher.Event) (any, error) {
	if len(e.Args) != 1 {
		return nil, fmt.Errorf("vehicle delete expects 1 argument, got %d: %w", len(e.Args), handlers.ErrArgs)
	}
	r, ok := m.backend.(storage.VehicleRemover)
	if !ok {
		return nil, ErrUnsupported
	}
	name := util.CleanArg(e.Args[0])
	if err := r.DeleteVehicle(name); err != nil {
		return nil, err
	}
	return name, nil
}

// handleStorageFlush writes queued calculations. It runs on the buffered
// worker, so the caller only sees "queued".
func (m *Manager) handleStorageFlush(e dispatcher.Event) (any, error) {
	m.backend.(flusher).Flush()
	return "flushed", nil
}

func unsupported(dispatcher.Event) (any, error) {
	return nil, ErrUnsupported
}

// historyArgs reads [vehicle?, limit?] with the vehicle omitted when
// withVehicle is false.
func historyArgs(args []string, withVehicle bool) (string, int, error) {
	var vehicle string
	if withVehicle {
		if len(args) == 0 {
			return "", 0, fmt.Errorf("history expects a vehicle name: %w", handlers.ErrArgs)
		}
		vehicle = util.CleanArg(args[0])
		args = args[1:]
	}

	limit := DefaultHistoryLimit
	if len(args) > 0 && util.CleanArg(args[0]) != "" {
		n, err := strconv.Atoi(util.CleanArg(args[0]))
		if err != nil {
			return "", 0, fmt.Errorf("history limit %q: %w", args[0], err)
		}
		limit = n
	}
	return vehicle, limit, nil
}

func (m *Manager) handleSpringHistory(e dispatcher.Event) (any, error) {
	h, err := m.history()
	if err != nil {
		return nil, err
	}
	vehicle, limit, err := historyArgs(e.Args, true)
	if err != nil {
		return nil, err
	}
	return h.SpringHistory(vehicle, limit)
}

func (m *Manager) handleGearHistory(e dispatcher.Event) (any, error) {
	h, err := m.history()
	if err != nil {
		return nil, err
	}
	vehicle, limit, err := historyArgs(e.Args, true)
	if err != nil {
		return nil, err
	}
	return h.GearHistory(vehicle, limit)
}

func (m *Manager) handleTireHistory(e dispatcher.Event) (any, error) {
	h, err := m.history()
	if err != nil {
		return nil, err
	}
	_, limit, err := historyArgs(e.Args, false)
	if err != nil {
		return nil, err
	}
	return h.TireHistory(limit)
}
