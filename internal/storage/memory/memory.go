// Package memory keeps calculations in memory and exports them as JSON on close.
package memory

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gt7setup/tuner/internal/config"
	"github.com/gt7setup/tuner/internal/storage"
	"github.com/gt7setup/tuner/pkg/core"
)

// Backend stores vehicles and calculations in memory and exports to JSON
type Backend struct {
	cfg          config.MemoryConfig
	sessionStart time.Time
	now          func() time.Time

	vehicles map[string]core.VehicleProfile // keyed by lower-cased name

	springs []core.SpringCalculation
	gears   []core.GearCalculation
	tires   []core.TireCalculation

	idCounter      uint
	lastExportPath string
	mu             sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{
		cfg:      cfg,
		now:      time.Now,
		vehicles: make(map[string]core.VehicleProfile),
	}
}

func vehicleKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Init marks the start of the session used to name the export file.
func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sessionStart = b.now()
	return nil
}

// Close exports the session. Nothing is written when no output directory is
// configured or nothing was recorded.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cfg.OutputDir == "" || b.recordCount() == 0 {
		return nil
	}
	return b.exportJSON()
}

func (b *Backend) recordCount() int {
	return len(b.springs) + len(b.gears) + len(b.tires)
}

// ExportedFilePath returns the path of the last export, empty before Close.
func (b *Backend) ExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}

// SaveVehicle registers or replaces a vehicle profile
func (b *Backend) SaveVehicle(v *core.VehicleProfile) error {
	key := vehicleKey(v.Name)
	if key == "" {
		return fmt.Errorf("vehicle name is empty")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	stored := *v
	stored.Name = strings.TrimSpace(v.Name)
	b.vehicles[key] = stored
	return nil
}

// Vehicle looks up a profile by name
func (b *Backend) Vehicle(name string) (core.VehicleProfile, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	v, ok := b.vehicles[vehicleKey(name)]
	if !ok {
		return core.VehicleProfile{}, fmt.Errorf("vehicle %q: %w", name, storage.ErrNotFound)
	}
	return v, nil
}

// DeleteVehicle drops a profile together with its spring and gear setups.
func (b *Backend) DeleteVehicle(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := vehicleKey(name)
	if _, ok := b.vehicles[key]; !ok {
		return fmt.Errorf("vehicle %q: %w", name, storage.ErrNotFound)
	}
	delete(b.vehicles, key)
	b.springs = without(b.springs, func(c core.SpringCalculation) bool { return vehicleKey(c.Vehicle) == key })
	b.gears = without(b.gears, func(c core.GearCalculation) bool { return vehicleKey(c.Vehicle) == key })
	return nil
}

func without[T any](records []T, drop func(T) bool) []T {
	out := records[:0]
	for _, r := range records {
		if !drop(r) {
			out = append(out, r)
		}
	}
	return out
}

// Vehicles returns all profiles sorted by name
func (b *Backend) Vehicles() ([]core.VehicleProfile, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]core.VehicleProfile, 0, len(b.vehicles))
	for _, v := range b.vehicles {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// RecordSpringCalculation stores a spring setup
func (b *Backend) RecordSpringCalculation(c *core.SpringCalculation) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.idCounter++
	c.ID = b.idCounter
	b.springs = append(b.springs, *c)
	return nil
}

// RecordGearCalculation stores a gear setup
func (b *Backend) RecordGearCalculation(c *core.GearCalculation) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.idCounter++
	c.ID = b.idCounter
	b.gears = append(b.gears, *c)
	return nil
}

// RecordTireCalculation stores a tire estimate
func (b *Backend) RecordTireCalculation(c *core.TireCalculation) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.idCounter++
	c.ID = b.idCounter
	b.tires = append(b.tires, *c)
	return nil
}

// newestFirst returns up to limit items of records in reverse order, keeping
// only those accepted by keep.
func newestFirst[T any](records []T, limit int, keep func(T) bool) []T {
	out := make([]T, 0)
	for i := len(records) - 1; i >= 0; i-- {
		if keep != nil && !keep(records[i]) {
			continue
		}
		out = append(out, records[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// SpringHistory returns past spring setups for vehicle, newest first.
func (b *Backend) SpringHistory(vehicle string, limit int) ([]core.SpringCalculation, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	key := vehicleKey(vehicle)
	return newestFirst(b.springs, limit, func(c core.SpringCalculation) bool {
		return vehicleKey(c.Vehicle) == key
	}), nil
}

// GearHistory returns past gear setups for vehicle, newest first.
func (b *Backend) GearHistory(vehicle string, limit int) ([]core.GearCalculation, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	key := vehicleKey(vehicle)
	return newestFirst(b.gears, limit, func(c core.GearCalculation) bool {
		return vehicleKey(c.Vehicle) == key
	}), nil
}

// TireHistory returns past tire estimates, newest first.
func (b *Backend) TireHistory(limit int) ([]core.TireCalculation, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return newestFirst(b.tires, limit, nil), nil
}
