package cache

import (
	"strings"
	"sync"

	"github.com/gt7setup/tuner/internal/model"
)

// VehicleCache caches vehicle rows by name so repeated setups for the same car
// skip the database lookup. Lookups are case-insensitive.
type VehicleCache struct {
	m        sync.RWMutex
	Vehicles map[string]model.Vehicle
}

func NewVehicleCache() *VehicleCache {
	return &VehicleCache{
		Vehicles: make(map[string]model.Vehicle),
	}
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (c *VehicleCache) Reset() {
	c.m.Lock()
	defer c.m.Unlock()
	c.Vehicles = make(map[string]model.Vehicle)
}

func (c *VehicleCache) Get(name string) (model.Vehicle, bool) {
	c.m.RLock()
	defer c.m.RUnlock()
	v, ok := c.Vehicles[key(name)]
	return v, ok
}

// Add stores v, replacing any entry with the same name.
func (c *VehicleCache) Add(v model.Vehicle) {
	c.m.Lock()
	defer c.m.Unlock()
	c.Vehicles[key(v.Name)] = v
}

func (c *VehicleCache) Remove(name string) {
	c.m.Lock()
	defer c.m.Unlock()
	delete(c.Vehicles, key(name))
}

func (c *VehicleCache) Len() int {
	c.m.RLock()
	defer c.m.RUnlock()
	return len(c.Vehicles)
}
