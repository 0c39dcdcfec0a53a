package main

import (
	"fmt"
	"os"

	"github.com/gt7setup/tuner/internal/api"
	"github.com/gt7setup/tuner/internal/config"
	"github.com/gt7setup/tuner/internal/storage/memory"
)

// uploadExport sends a session export to the dashboard when api.enabled is set.
func uploadExport(path string) error {
	apiCfg := config.GetAPIConfig()
	if !apiCfg.Enabled || path == "" {
		return nil
	}

	export, err := memory.ReadExport(path)
	if err != nil {
		return fmt.Errorf("read export: %w", err)
	}

	client := api.New(apiCfg.ServerURL, apiCfg.APIKey)
	if err := client.Healthcheck(); err != nil {
		return fmt.Errorf("dashboard unreachable: %w", err)
	}

	host, _ := os.Hostname()
	meta := api.UploadMetadata{
		Client:       host,
		SessionStart: SessionStartTime,
		Vehicle:      ActiveVehicle.Name(),
		Records:      len(export.SpringSetups) + len(export.GearSetups) + len(export.TireCalculations),
	}
	if err := client.Upload(path, meta); err != nil {
		return err
	}
	Logger.Info("Session uploaded", "path", path, "records", meta.Records)
	return nil
}
