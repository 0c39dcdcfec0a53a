package memory

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gt7setup/tuner/internal/config"
	"github.com/gt7setup/tuner/internal/storage"
	"github.com/gt7setup/tuner/pkg/core"
)

// Compile-time interface checks.
var (
	_ storage.Backend        = (*Backend)(nil)
	_ storage.VehicleSource  = (*Backend)(nil)
	_ storage.History        = (*Backend)(nil)
	_ storage.Exportable     = (*Backend)(nil)
	_ storage.VehicleRemover = (*Backend)(nil)
)

func fixedClock(b *Backend) {
	b.now = func() time.Time { return time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC) }
}

func TestSaveVehicle_UpsertByName(t *testing.T) {
	b := New(config.MemoryConfig{})
	require.NoError(t, b.Init())

	require.NoError(t, b.SaveVehicle(&core.VehicleProfile{Name: " GT-R ", LeverRatioFront: 1.0}))
	require.NoError(t, b.SaveVehicle(&core.VehicleProfile{Name: "gt-r", LeverRatioFront: 0.8}))

	vehicles, err := b.Vehicles()
	require.NoError(t, err)
	require.Len(t, vehicles, 1)
	assert.Equal(t, "gt-r", vehicles[0].Name)
	assert.Equal(t, 0.8, vehicles[0].LeverRatioFront)
}

func TestSaveVehicle_EmptyName(t *testing.T) {
	b := New(config.MemoryConfig{})
	assert.Error(t, b.SaveVehicle(&core.VehicleProfile{Name: "  "}))
}

func TestVehicle_NotFound(t *testing.T) {
	b := New(config.MemoryConfig{})

	_, err := b.Vehicle("Missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestVehicles_Sorted(t *testing.T) {
	b := New(config.MemoryConfig{})
	for _, name := range []string{"Supra", "GT-R", "NSX"} {
		require.NoError(t, b.SaveVehicle(&core.VehicleProfile{Name: name}))
	}

	vehicles, err := b.Vehicles()
	require.NoError(t, err)
	names := make([]string, len(vehicles))
	for i, v := range vehicles {
		names[i] = v.Name
	}
	assert.Equal(t, []string{"GT-R", "NSX", "Supra"}, names)
}

func TestDeleteVehicle(t *testing.T) {
	b := New(config.MemoryConfig{})
	require.NoError(t, b.SaveVehicle(&core.VehicleProfile{Name: "GT-R"}))
	require.NoError(t, b.SaveVehicle(&core.VehicleProfile{Name: "NSX"}))
	for _, v := range []string{"GT-R", "NSX", "gt-r"} {
		require.NoError(t, b.RecordSpringCalculation(&core.SpringCalculation{Vehicle: v}))
		require.NoError(t, b.RecordGearCalculation(&core.GearCalculation{Vehicle: v}))
	}

	require.NoError(t, b.DeleteVehicle(" gt-R "))

	_, err := b.Vehicle("GT-R")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	springs, err := b.SpringHistory("GT-R", 0)
	require.NoError(t, err)
	assert.Empty(t, springs)
	gears, err := b.GearHistory("NSX", 0)
	require.NoError(t, err)
	assert.Len(t, gears, 1)

	assert.ErrorIs(t, b.DeleteVehicle("GT-R"), storage.ErrNotFound)
}

func TestRecord_AssignsIncreasingIDs(t *testing.T) {
	b := New(config.MemoryConfig{})

	spring := &core.SpringCalculation{Vehicle: "GT-R"}
	gear := &core.GearCalculation{Vehicle: "GT-R"}
	tire := &core.TireCalculation{Diameter: 27.85}
	require.NoError(t, b.RecordSpringCalculation(spring))
	require.NoError(t, b.RecordGearCalculation(gear))
	require.NoError(t, b.RecordTireCalculation(tire))

	assert.Equal(t, uint(1), spring.ID)
	assert.Equal(t, uint(2), gear.ID)
	assert.Equal(t, uint(3), tire.ID)
}

func TestHistory_NewestFirstAndFiltered(t *testing.T) {
	b := New(config.MemoryConfig{})
	for _, v := range []string{"GT-R", "Supra", "GT-R", "gt-r"} {
		require.NoError(t, b.RecordSpringCalculation(&core.SpringCalculation{Vehicle: v}))
		require.NoError(t, b.RecordGearCalculation(&core.GearCalculation{Vehicle: v}))
	}

	springs, err := b.SpringHistory("GT-R", 0)
	require.NoError(t, err)
	require.Len(t, springs, 3)
	assert.Greater(t, springs[0].ID, springs[1].ID)

	limited, err := b.GearHistory("gt-r", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	none, err := b.SpringHistory("NSX", 5)
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.NotNil(t, none)
}

func TestTireHistory(t *testing.T) {
	b := New(config.MemoryConfig{})
	for _, d := range []float64{26, 27, 28} {
		require.NoError(t, b.RecordTireCalculation(&core.TireCalculation{Diameter: d}))
	}

	tires, err := b.TireHistory(2)
	require.NoError(t, err)
	require.Len(t, tires, 2)
	assert.Equal(t, 28.0, tires[0].Diameter)
	assert.Equal(t, 27.0, tires[1].Diameter)
}

func TestClose_NoOutputDir(t *testing.T) {
	b := New(config.MemoryConfig{})
	require.NoError(t, b.Init())
	require.NoError(t, b.RecordTireCalculation(&core.TireCalculation{Diameter: 26}))

	require.NoError(t, b.Close())
	assert.Empty(t, b.ExportedFilePath())
}

func TestClose_NothingRecorded(t *testing.T) {
	dir := t.TempDir()
	b := New(config.MemoryConfig{OutputDir: dir})
	require.NoError(t, b.Init())
	require.NoError(t, b.SaveVehicle(&core.VehicleProfile{Name: "GT-R"}))

	require.NoError(t, b.Close())
	assert.Empty(t, b.ExportedFilePath())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestClose_ExportsSession(t *testing.T) {
	tests := []struct {
		name     string
		compress bool
		wantFile string
	}{
		{"plain", false, "calculations_20260314_183000.json"},
		{"gzip", true, "calculations_20260314_183000.json.gz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "out")
			b := New(config.MemoryConfig{OutputDir: dir, CompressOutput: tt.compress})
			fixedClock(b)
			require.NoError(t, b.Init())

			require.NoError(t, b.SaveVehicle(&core.VehicleProfile{Name: "Supra", Drivetrain: core.DrivetrainFR}))
			require.NoError(t, b.SaveVehicle(&core.VehicleProfile{Name: "GT-R", Drivetrain: core.Drivetrain4WD}))
			spring := core.SpringCalculation{
				Vehicle: "GT-R",
				Input:   core.DefaultSuspensionInput(),
				Output:  core.SuspensionOutput{SpringRate: core.AxlePair{Front: 66, Rear: 64}},
			}
			require.NoError(t, b.RecordSpringCalculation(&spring))
			require.NoError(t, b.RecordGearCalculation(&core.GearCalculation{
				Vehicle: "Supra",
				Output:  core.GearingOutput{Gears: []core.Gear{{Label: "1st", Ratio: 3.2}}, FinalDrive: 3.9},
			}))

			require.NoError(t, b.Close())
			path := b.ExportedFilePath()
			assert.Equal(t, filepath.Join(dir, tt.wantFile), path)

			export, err := ReadExport(path)
			require.NoError(t, err)
			assert.Equal(t, ExportFormatVersion, export.Version)
			assert.Equal(t, "2026-03-14T18:30:00Z", export.SessionStart)
			require.Len(t, export.Vehicles, 2)
			assert.Equal(t, "GT-R", export.Vehicles[0].Name)
			require.Len(t, export.SpringSetups, 1)
			assert.Equal(t, spring.Output, export.SpringSetups[0].Output)
			assert.Equal(t, core.TireRacingMedium, export.SpringSetups[0].Input.FrontTires)
			require.Len(t, export.GearSetups, 1)
			assert.Equal(t, 3.9, export.GearSetups[0].Output.FinalDrive)
			assert.Empty(t, export.TireCalculations)
		})
	}
}

func TestReadExport_Errors(t *testing.T) {
	_, err := ReadExport(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json.gz")
	require.NoError(t, os.WriteFile(bad, []byte("not gzip"), 0o644))
	_, err = ReadExport(bad)
	assert.Error(t, err)
}
