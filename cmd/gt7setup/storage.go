package main

import (
	"fmt"

	"github.com/gt7setup/tuner/internal/cache"
	"github.com/gt7setup/tuner/internal/config"
	"github.com/gt7setup/tuner/internal/database"
	"github.com/gt7setup/tuner/internal/storage"
	"github.com/gt7setup/tuner/internal/storage/gormstore"
	"github.com/gt7setup/tuner/internal/storage/memory"
	wsstorage "github.com/gt7setup/tuner/internal/storage/websocket"
)

func initStorage() error {
	storageCfg := config.GetStorageConfig()

	backend, err := createStorageBackend(storageCfg)
	if err != nil {
		Logger.Error("Failed to create storage backend", "error", err)
		return err
	}
	storageBackend = backend
	if err := storageBackend.Init(); err != nil {
		Logger.Error("Failed to initialize storage backend", "error", err)
		return err
	}
	Logger.Debug("Storage ready", "type", storageCfg.Type)
	return nil
}

func createStorageBackend(storageCfg config.StorageConfig) (storage.Backend, error) {
	switch storageCfg.Type {
	case "postgres", "sqlite":
		dbManager = database.NewManager(componentLogger("database"), storageCfg.SQLite.Path)
		var err error
		if storageCfg.Type == "postgres" {
			err = dbManager.Connect()
		} else {
			err = dbManager.ConnectSqlite()
		}
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		Logger.Info("Database storage backend initialized", "local", dbManager.IsLocal)
		return gormstore.New(gormstore.Dependencies{
			DB:            dbManager.DB,
			Cache:         cache.NewVehicleCache(),
			LogManager:    SlogManager,
			FlushInterval: storageCfg.FlushInterval,
		}), nil

	case "websocket":
		Logger.Info("WebSocket storage backend initialized", "url", storageCfg.WebSocket.URL)
		return wsstorage.New(wsstorage.Config{
			URL:    storageCfg.WebSocket.URL,
			Secret: storageCfg.WebSocket.Secret,
			Client: storageCfg.WebSocket.Client,
		}, Logger), nil

	case "memory", "":
		Logger.Info("Memory storage backend initialized")
		return memory.New(storageCfg.Memory), nil

	default:
		return nil, fmt.Errorf("unknown storage type %q", storageCfg.Type)
	}
}
