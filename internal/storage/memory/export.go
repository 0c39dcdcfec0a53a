package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gt7setup/tuner/pkg/core"
)

// ExportFormatVersion is bumped whenever SessionExport changes shape.
const ExportFormatVersion = 1

// SessionExport is the root JSON structure written on close
type SessionExport struct {
	Version          int                      `json:"version"`
	SessionStart     string                   `json:"sessionStart"`
	Vehicles         []core.VehicleProfile    `json:"vehicles"`
	SpringSetups     []core.SpringCalculation `json:"springSetups"`
	GearSetups       []core.GearCalculation   `json:"gearSetups"`
	TireCalculations []core.TireCalculation   `json:"tireCalculations"`
}

// exportJSON writes the session to a JSON file, gzipped when configured.
// Caller holds the lock.
func (b *Backend) exportJSON() error {
	export := b.buildExport()

	timestamp := b.sessionStart.Format("20060102_150405")
	filename := fmt.Sprintf("calculations_%s.json", timestamp)
	if b.cfg.CompressOutput {
		filename += ".gz"
	}

	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	// Ensure output directory exists
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if b.cfg.CompressOutput {
		if err := writeGzipJSON(outputPath, export); err != nil {
			return err
		}
	} else {
		if err := writeJSON(outputPath, export); err != nil {
			return err
		}
	}

	b.lastExportPath = outputPath
	return nil
}

func (b *Backend) buildExport() SessionExport {
	export := SessionExport{
		Version:          ExportFormatVersion,
		SessionStart:     b.sessionStart.UTC().Format("2006-01-02T15:04:05Z"),
		Vehicles:         make([]core.VehicleProfile, 0, len(b.vehicles)),
		SpringSetups:     append([]core.SpringCalculation{}, b.springs...),
		GearSetups:       append([]core.GearCalculation{}, b.gears...),
		TireCalculations: append([]core.TireCalculation{}, b.tires...),
	}
	for _, v := range b.vehicles {
		export.Vehicles = append(export.Vehicles, v)
	}
	sort.Slice(export.Vehicles, func(i, j int) bool {
		return export.Vehicles[i].Name < export.Vehicles[j].Name
	})
	return export
}

func writeJSON(path string, data SessionExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func writeGzipJSON(path string, data SessionExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	if err := json.NewEncoder(gzWriter).Encode(data); err != nil {
		_ = gzWriter.Close()
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return gzWriter.Close()
}

// ReadExport loads a file written by Close, gzipped or plain.
func ReadExport(path string) (SessionExport, error) {
	var export SessionExport

	f, err := os.Open(path)
	if err != nil {
		return export, err
	}
	defer f.Close()

	var dec *json.Decoder
	if filepath.Ext(path) == ".gz" {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return export, fmt.Errorf("open gzip: %w", err)
		}
		defer gz.Close()
		dec = json.NewDecoder(gz)
	} else {
		dec = json.NewDecoder(f)
	}

	if err := dec.Decode(&export); err != nil {
		return export, fmt.Errorf("decode export: %w", err)
	}
	return export, nil
}
