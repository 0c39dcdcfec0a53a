package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gt7setup/tuner/internal/config"
	"github.com/gt7setup/tuner/internal/storage"
	"github.com/gt7setup/tuner/internal/storage/gormstore"
	"github.com/gt7setup/tuner/internal/storage/memory"
	wsstorage "github.com/gt7setup/tuner/internal/storage/websocket"
)

func TestCreateStorageBackend(t *testing.T) {
	setupTestGlobals(t)

	tests := []struct {
		name string
		cfg  config.StorageConfig
		check func(t *testing.T, b storage.Backend)
	}{
		{"memory", config.StorageConfig{Type: "memory"}, func(t *testing.T, b storage.Backend) {
			assert.IsType(t, &memory.Backend{}, b)
		}},
		{"empty defaults to memory", config.StorageConfig{}, func(t *testing.T, b storage.Backend) {
			assert.IsType(t, &memory.Backend{}, b)
		}},
		{"websocket", config.StorageConfig{Type: "websocket", WebSocket: config.WebSocketConfig{URL: "ws://127.0.0.1:1/ingest"}}, func(t *testing.T, b storage.Backend) {
			assert.IsType(t, &wsstorage.Backend{}, b)
		}},
		{"sqlite", config.StorageConfig{Type: "sqlite", SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "setups.db")}}, func(t *testing.T, b storage.Backend) {
			assert.IsType(t, &gormstore.Backend{}, b)
			require.NotNil(t, dbManager)
			assert.True(t, dbManager.IsLocal)
			assert.NoError(t, dbManager.Close())
			dbManager = nil
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := createStorageBackend(tt.cfg)
			require.NoError(t, err)
			tt.check(t, b)
		})
	}
}

func TestCreateStorageBackend_Unknown(t *testing.T) {
	setupTestGlobals(t)
	_, err := createStorageBackend(config.StorageConfig{Type: "redis"})
	assert.Error(t, err)
}
