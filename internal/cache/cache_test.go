package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gt7setup/tuner/internal/model"
)

func TestVehicleCache_NewVehicleCache(t *testing.T) {
	cache := NewVehicleCache()

	require.NotNil(t, cache)
	assert.NotNil(t, cache.Vehicles)
	assert.Equal(t, 0, cache.Len())
}

func TestVehicleCache_AddAndGet(t *testing.T) {
	cache := NewVehicleCache()

	cache.Add(model.Vehicle{ID: 7, Name: "Skyline GT-R V-spec II", Drivetrain: "4WD"})

	got, ok := cache.Get("Skyline GT-R V-spec II")
	require.True(t, ok, "expected to find vehicle by exact name")
	assert.Equal(t, uint(7), got.ID)
	assert.Equal(t, "4WD", got.Drivetrain)
}

func TestVehicleCache_GetIgnoresCaseAndSpace(t *testing.T) {
	cache := NewVehicleCache()
	cache.Add(model.Vehicle{ID: 1, Name: "Supra RZ"})

	got, ok := cache.Get("  supra rz ")
	require.True(t, ok)
	assert.Equal(t, "Supra RZ", got.Name)
}

func TestVehicleCache_Get_NotFound(t *testing.T) {
	cache := NewVehicleCache()

	_, ok := cache.Get("Unknown")
	assert.False(t, ok, "expected not to find vehicle")
}

func TestVehicleCache_AddReplaces(t *testing.T) {
	cache := NewVehicleCache()
	cache.Add(model.Vehicle{ID: 1, Name: "NSX", LeverRatioFront: 1.0})
	cache.Add(model.Vehicle{ID: 1, Name: "NSX", LeverRatioFront: 0.8})

	got, ok := cache.Get("NSX")
	require.True(t, ok)
	assert.Equal(t, 0.8, got.LeverRatioFront)
	assert.Equal(t, 1, cache.Len())
}

func TestVehicleCache_RemoveAndReset(t *testing.T) {
	cache := NewVehicleCache()
	cache.Add(model.Vehicle{Name: "A"})
	cache.Add(model.Vehicle{Name: "B"})

	cache.Remove("a")
	_, ok := cache.Get("A")
	assert.False(t, ok)
	assert.Equal(t, 1, cache.Len())

	cache.Reset()
	assert.Equal(t, 0, cache.Len())
}

func TestVehicleCache_Names(t *testing.T) {
	cache := NewVehicleCache()
	cache.Add(model.Vehicle{Name: "Supra"})
	cache.Add(model.Vehicle{Name: "GT-R"})
	cache.Add(model.Vehicle{Name: "NSX"})

	cache.Remove(" gt-r")
	_, ok := cache.Get("GT-R")
	assert.False(t, ok)
	assert.Equal(t, 2, cache.Len())

	cache.Remove("Unknown")
	assert.Equal(t, 2, cache.Len())

	cache.Reset()
	assert.Equal(t, 0, cache.Len())
	_, ok = cache.Get("Supra")
	assert.False(t, ok)
}

func TestVehicleCache_ConcurrentAccess(t *testing.T) {
	cache := NewVehicleCache()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			cache.Add(model.Vehicle{ID: uint(i), Name: fmt.Sprintf("car-%d", i)})
		}(i)
		go func(i int) {
			defer wg.Done()
			cache.Get(fmt.Sprintf("car-%d", i))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, cache.Len())
}
