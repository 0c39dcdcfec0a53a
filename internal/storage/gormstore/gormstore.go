// Package gormstore implements the storage.Backend interface using GORM
// (PostgreSQL or SQLite) with internal queues and a background DB writer
// goroutine.
package gormstore

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/gt7setup/tuner/internal/cache"
	"github.com/gt7setup/tuner/internal/logging"
	"github.com/gt7setup/tuner/internal/model"
	"github.com/gt7setup/tuner/internal/model/convert"
	"github.com/gt7setup/tuner/internal/queue"
	"github.com/gt7setup/tuner/internal/storage"
	"github.com/gt7setup/tuner/pkg/core"
)

const (
	defaultFlushInterval = 2 * time.Second
	maxBatch             = 500
)

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB         *gorm.DB
	Cache      *cache.VehicleCache
	LogManager *logging.SlogManager
	// FlushInterval is how often queued calculations are written.
	FlushInterval time.Duration
}

// queues holds the write queues for batch DB insertion.
type queues struct {
	Springs *queue.Queue[model.SpringCalculation]
	Gears   *queue.Queue[model.GearCalculation]
	Tires   *queue.Queue[model.TireCalculation]
}

func newQueues() *queues {
	return &queues{
		Springs: queue.New[model.SpringCalculation](),
		Gears:   queue.New[model.GearCalculation](),
		Tires:   queue.New[model.TireCalculation](),
	}
}

// Backend implements storage.Backend using GORM with queue-based batch writes.
type Backend struct {
	deps   Dependencies
	queues *queues
	stopChan chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	if deps.Cache == nil {
		deps.Cache = cache.NewVehicleCache()
	}
	if deps.LogManager == nil {
		deps.LogManager = logging.NewSlogManager()
	}
	if deps.FlushInterval <= 0 {
		deps.FlushInterval = defaultFlushInterval
	}
	return &Backend{
		deps:   deps,
		queues: newQueues(),
	}
}

// Init runs schema migration and starts the DB writer goroutine.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		return fmt.Errorf("gormstore: no database")
	}

	log := b.deps.LogManager
	log.WriteLog("setupDB", "Migrating schema", "INFO")
	if err := b.deps.DB.AutoMigrate(model.DatabaseModels...); err != nil {
		log.WriteLog("setupDB", fmt.Sprintf("Failed to migrate schema: %s", err), "ERROR")
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	log.WriteLog("setupDB", "Database setup complete", "INFO")

	b.stopChan = make(chan struct{})
	b.startDBWriter()
	return nil
}

// Close stops the DB writer goroutine after a final flush. Calculations the
// final flush could not write are discarded and reported.
func (b *Backend) Close() error {
	var lost int
	b.once.Do(func() {
		if b.stopChan != nil {
			close(b.stopChan)
			b.wg.Wait()
		}
		lost = b.Pending()
		b.queues.Springs.Clear()
		b.queues.Gears.Clear()
		b.queues.Tires.Clear()
	})
	if lost > 0 {
		b.deps.LogManager.WriteLog("Close", fmt.Sprintf("Discarded %d unwritten calculations", lost), "WARN")
		return fmt.Errorf("gormstore: %d calculations not written", lost)
	}
	return nil
}

// Flush writes every queued calculation now.
func (b *Backend) Flush() {
	log := b.deps.LogManager.WriteLog
	writeQueue(b.deps.DB, b.queues.Springs, "spring calculations", log)
	writeQueue(b.deps.DB, b.queues.Gears, "gear calculations", log)
	writeQueue(b.deps.DB, b.queues.Tires, "tire calculations", log)
}

// Pending returns the number of queued calculations.
func (b *Backend) Pending() int {
	return b.queues.Springs.Len() + b.queues.Gears.Len() + b.queues.Tires.Len()
}

// SaveVehicle inserts or updates the vehicle synchronously since calculations
// need its ID.
func (b *Backend) SaveVehicle(v *core.VehicleProfile) error {
	_, err := b.saveVehicle(convert.CoreToVehicle(*v))
	return err
}

func (b *Backend) saveVehicle(row model.Vehicle) (model.Vehicle, error) {
	if row.Name == "" {
		return row, fmt.Errorf("vehicle name is empty")
	}

	err := b.deps.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.Vehicle
		err := byName(tx, row.Name).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&row).Error
		}
		if err != nil {
			return err
		}
		row.ID = existing.ID
		row.Name = existing.Name
		row.CreatedAt = existing.CreatedAt
		return tx.Model(&existing).Select(
			"Drivetrain", "CarType", "BaseWeight", "BasePower", "BasePP", "LeverRatioFront", "LeverRatioRear",
		).Updates(&row).Error
	})
	if err != nil {
		b.deps.LogManager.WriteLog("SaveVehicle", fmt.Sprintf("Failed to save vehicle %q: %v", row.Name, err), "ERROR")
		return row, fmt.Errorf("save vehicle %q: %w", row.Name, err)
	}

	b.deps.Cache.Add(row)
	return row, nil
}

// byName matches a vehicle row by name ignoring case and surrounding space.
func byName(tx *gorm.DB, name string) *gorm.DB {
	return tx.Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
}

// vehicleRow resolves a vehicle by name, creating a default profile row for
// names seen for the first time.
func (b *Backend) vehicleRow(name string) (model.Vehicle, error) {
	name = strings.TrimSpace(name)
	if row, ok := b.deps.Cache.Get(name); ok {
		return row, nil
	}

	var row model.Vehicle
	err := byName(b.deps.DB, name).First(&row).Error
	if err == nil {
		b.deps.Cache.Add(row)
		return row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return row, fmt.Errorf("find vehicle %q: %w", name, err)
	}

	profile := core.DefaultVehicleProfile()
	profile.Name = name
	return b.saveVehicle(convert.CoreToVehicle(profile))
}

// Vehicle returns the stored profile for name.
func (b *Backend) Vehicle(name string) (core.VehicleProfile, error) {
	if row, ok := b.deps.Cache.Get(name); ok {
		return convert.VehicleToCore(row), nil
	}

	var row model.Vehicle
	err := byName(b.deps.DB, name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return core.VehicleProfile{}, fmt.Errorf("vehicle %q: %w", name, storage.ErrNotFound)
	}
	if err != nil {
		return core.VehicleProfile{}, fmt.Errorf("find vehicle %q: %w", name, err)
	}
	b.deps.Cache.Add(row)
	return convert.VehicleToCore(row), nil
}

// Vehicles returns every stored profile sorted by name and reloads the
// vehicle cache from the same rows.
func (b *Backend) Vehicles() ([]core.VehicleProfile, error) {
	var rows []model.Vehicle
	if err := b.deps.DB.Order("name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}

	b.deps.Cache.Reset()
	out := make([]core.VehicleProfile, len(rows))
	for i, row := range rows {
		b.deps.Cache.Add(row)
		out[i] = convert.VehicleToCore(row)
	}
	b.deps.LogManager.WriteLog("Vehicles", fmt.Sprintf("Vehicle cache reloaded with %d vehicles", b.deps.Cache.Len()), "DEBUG")
	return out, nil
}

// DeleteVehicle removes the vehicle together with its spring and gear
// calculations. Queued calculations are written first.
func (b *Backend) DeleteVehicle(name string) error {
	b.Flush()

	err := b.deps.DB.Transaction(func(tx *gorm.DB) error {
		var row model.Vehicle
		if err := byName(tx, name).First(&row).Error; err != nil {
			return err
		}
		if err := tx.Where("vehicle_id = ?", row.ID).Delete(&model.SpringCalculation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("vehicle_id = ?", row.ID).Delete(&model.GearCalculation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&row).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("vehicle %q: %w", name, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete vehicle %q: %w", name, err)
	}

	b.deps.Cache.Remove(name)
	b.deps.LogManager.WriteLog("DeleteVehicle", fmt.Sprintf("Deleted vehicle %q", name), "INFO")
	return nil
}

// RecordSpringCalculation converts and queues a spring setup.
func (b *Backend) RecordSpringCalculation(c *core.SpringCalculation) error {
	vehicle, err := b.vehicleRow(c.Vehicle)
	if err != nil {
		return err
	}
	gormObj, err := convert.CoreToSpringCalculation(*c, vehicle.ID)
	if err != nil {
		return err
	}
	b.queues.Springs.Push(gormObj)
	return nil
}

// RecordGearCalculation converts and queues a gear setup.
func (b *Backend) RecordGearCalculation(c *core.GearCalculation) error {
	vehicle, err := b.vehicleRow(c.Vehicle)
	if err != nil {
		return err
	}
	gormObj, err := convert.CoreToGearCalculation(*c, vehicle.ID)
	if err != nil {
		return err
	}
	b.queues.Gears.Push(gormObj)
	return nil
}

// RecordTireCalculation converts and queues a tire estimate.
func (b *Backend) RecordTireCalculation(c *core.TireCalculation) error {
	b.queues.Tires.Push(convert.CoreToTireCalculation(*c))
	return nil
}

// writeQueue writes queued items to the database in batches, each in a
// transaction. A failed batch goes back to the head of the queue.
func writeQueue[T any](db *gorm.DB, q *queue.Queue[T], name string, log func(string, string, string)) {
	for !q.Empty() {
		items := q.Drain(maxBatch)
		if len(items) == 0 {
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&items).Error
		})
		if err != nil {
			log(":DB:WRITER:", fmt.Sprintf("Error creating %s: %v", name, err), "ERROR")
			q.Requeue(items...)
			return
		}
		log(":DB:WRITER:", fmt.Sprintf("Saved %d %s", len(items), name), "DEBUG")
	}
}

// startDBWriter starts the background goroutine that periodically drains
// queues into the DB. It flushes once more on stop.
func (b *Backend) startDBWriter() {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ticker := time.NewTicker(b.deps.FlushInterval)
		defer ticker.Stop()

		for {
			select {
			case <-b.stopChan:
				b.Flush()
				return
			case <-ticker.C:
				b.Flush()
			}
		}
	}()
}
