package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gt7setup/tuner/internal/config"
	"github.com/gt7setup/tuner/internal/database"
	"github.com/gt7setup/tuner/internal/dispatcher"
	"github.com/gt7setup/tuner/internal/handlers"
	"github.com/gt7setup/tuner/internal/logging"
	"github.com/gt7setup/tuner/internal/storage/memory"
	"github.com/gt7setup/tuner/internal/worker"
	"github.com/gt7setup/tuner/pkg/core"
)

// setupTestGlobals wires the package globals around a memory backend.
func setupTestGlobals(t *testing.T) *memory.Backend {
	t.Helper()
	t.Cleanup(viper.Reset)
	config.SetDefaults()

	SlogManager = logging.NewSlogManager()
	Logger = SlogManager.Logger()

	backend := memory.New(config.MemoryConfig{})
	require.NoError(t, backend.Init())
	storageBackend = backend

	d, err := dispatcher.New(logging.NewDispatcherLogger(componentLogger("dispatcher")))
	require.NoError(t, err)
	eventDispatcher = d
	registerLifecycleHandlers(d)

	handlerService = handlers.NewService(handlers.Dependencies{Backend: backend, LogManager: SlogManager, Active: ActiveVehicle})
	workerManager = worker.NewManager(worker.Dependencies{Service: handlerService, LogManager: SlogManager}, backend)
	workerManager.RegisterHandlers(d)

	t.Cleanup(func() {
		eventDispatcher = nil
		storageBackend = nil
		handlerService = nil
		workerManager = nil
	})
	return backend
}

func TestCommandFor(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCmd  string
		wantArgs []string
		wantErr  bool
	}{
		{"springs inline", []string{"springs", "GT-R", `{"vehicle_weight":"1750"}`}, ":SPRING:SETUP:", []string{"GT-R", `{"vehicle_weight":"1750"}`}, false},
		{"gears inline", []string{"GEARS", "GT-R", `{"power_hp":"565"}`}, ":GEAR:SETUP:", []string{"GT-R", `{"power_hp":"565"}`}, false},
		{"springs missing fields", []string{"springs", "GT-R"}, "", nil, true},
		{"tire", []string{"tire", "1.0", "6000", "200", "4.0"}, ":TIRE:DIAMETER:", []string{"1.0", "6000", "200", "4.0"}, false},
		{"vehicles", []string{"vehicles"}, ":VEHICLE:LIST:", []string{}, false},
		{"vehicle", []string{"vehicle", "NSX"}, ":VEHICLE:GET:", []string{"NSX"}, false},
		{"import", []string{"import", "levers.csv"}, ":VEHICLE:IMPORT:", []string{"levers.csv"}, false},
		{"delete-vehicle", []string{"delete-vehicle", "NSX"}, ":VEHICLE:DELETE:", []string{"NSX"}, false},
		{"history springs", []string{"history", "springs", "GT-R", "5"}, ":HISTORY:SPRING:", []string{"GT-R", "5"}, false},
		{"history tires", []string{"history", "tires"}, ":HISTORY:TIRE:", []string{}, false},
		{"history unknown", []string{"history", "brakes"}, "", nil, true},
		{"history empty", []string{"history"}, "", nil, true},
		{"setupdb", []string{"setupdb"}, ":DB:SETUP:", []string{}, false},
		{"dumpdb path", []string{"dumpdb", "snap.db"}, ":DB:DUMP:", []string{"snap.db"}, false},
		{"backups", []string{"backups"}, ":DB:BACKUPS:", []string{}, false},
		{"flush", []string{"flush"}, ":STORAGE:FLUSH:", []string{}, false},
		{"dispatch", []string{"dispatch", ":VERSION:"}, ":VERSION:", []string{}, false},
		{"dispatch empty", []string{"dispatch"}, "", nil, true},
		{"unknown", []string{"brakes"}, "", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args, err := commandFor(tt.args, strings.NewReader(""))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCmd, cmd)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestReadFields(t *testing.T) {
	got, err := readFields("-", strings.NewReader(`{"vehicle_weight":"1250"}`))
	require.NoError(t, err)
	assert.Equal(t, `{"vehicle_weight":"1250"}`, got)

	path := filepath.Join(t.TempDir(), "fields.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"power_hp":"450"}`), 0o644))
	got, err = readFields(path, nil)
	require.NoError(t, err)
	assert.Equal(t, `{"power_hp":"450"}`, got)

	_, err = readFields(filepath.Join(t.TempDir(), "missing.json"), nil)
	assert.Error(t, err)
}

func TestRunCommand_SpringsPrintsJSON(t *testing.T) {
	backend := setupTestGlobals(t)

	var out bytes.Buffer
	err := runCommand([]string{"springs", "GT-R", "-"}, strings.NewReader(`{"vehicle_weight":"1,750"}`), &out)
	require.NoError(t, err)

	var calc core.SpringCalculation
	require.NoError(t, json.Unmarshal(out.Bytes(), &calc))
	assert.Equal(t, "GT-R", calc.Vehicle)
	assert.Equal(t, 1750.0, calc.Input.VehicleWeight)
	assert.NotZero(t, calc.Output.SpringRate.Front)
	assert.Equal(t, "GT-R", ActiveVehicle.Name())

	history, err := backend.SpringHistory("GT-R", 0)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestRunCommand_VehiclesAndVersion(t *testing.T) {
	setupTestGlobals(t)

	var out bytes.Buffer
	require.NoError(t, runCommand([]string{"save-vehicle", "Beetle", "RR", "ROAD", "0.9", "1.1"}, nil, &out))

	out.Reset()
	require.NoError(t, runCommand([]string{"vehicles"}, nil, &out))
	assert.JSONEq(t, `["Beetle"]`, out.String())

	out.Reset()
	require.NoError(t, runCommand([]string{"delete-vehicle", "beetle"}, nil, &out))
	assert.JSONEq(t, `"beetle"`, out.String())

	out.Reset()
	require.NoError(t, runCommand([]string{"vehicles"}, nil, &out))
	assert.JSONEq(t, `[]`, out.String())

	out.Reset()
	require.NoError(t, runCommand([]string{"version"}, nil, &out))
	assert.JSONEq(t, `["`+CurrentVersion+`","`+BuildDate+`"]`, out.String())

	err := runCommand([]string{"dispatch", ":NOPE:"}, nil, &out)
	assert.ErrorIs(t, err, dispatcher.ErrUnknownCommand)
}

func TestRun_Usage(t *testing.T) {
	var out bytes.Buffer
	assert.Equal(t, 2, run(nil, nil, &out))
	assert.Contains(t, out.String(), "usage: gt7setup")
}

func TestDatabaseCommands_NoDatabase(t *testing.T) {
	setupTestGlobals(t)

	var out bytes.Buffer
	assert.ErrorIs(t, runCommand([]string{"setupdb"}, nil, &out), errNoDatabase)
	assert.ErrorIs(t, runCommand([]string{"dumpdb"}, nil, &out), errNoDatabase)

	viper.Set("storage.sqlite.backupDir", filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, runCommand([]string{"backups"}, nil, &out))
	assert.JSONEq(t, `[]`, out.String())
}

func TestDatabaseCommands_DumpAndList(t *testing.T) {
	setupTestGlobals(t)

	dbManager = database.NewManager(componentLogger("database"), "")
	require.NoError(t, dbManager.ConnectSqlite())
	t.Cleanup(func() {
		assert.NoError(t, dbManager.Close())
		dbManager = nil
	})

	var out bytes.Buffer
	require.NoError(t, runCommand([]string{"setupdb"}, nil, &out))
	assert.JSONEq(t, `"ok"`, out.String())

	dir := t.TempDir()
	viper.Set("storage.sqlite.backupDir", dir)

	out.Reset()
	require.NoError(t, runCommand([]string{"dumpdb"}, nil, &out))
	var dumped string
	require.NoError(t, json.Unmarshal(out.Bytes(), &dumped))
	assert.Equal(t, snapshotPath(dir, SessionStartTime), dumped)
	assert.FileExists(t, dumped)

	out.Reset()
	require.NoError(t, runCommand([]string{"backups"}, nil, &out))
	var paths []string
	require.NoError(t, json.Unmarshal(out.Bytes(), &paths))
	assert.Equal(t, []string{dumped}, paths)
}
