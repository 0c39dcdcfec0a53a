// Package vehicles imports the vehicle lever-ratio sheet.
//
// The sheet is a CSV export with a header row. Recognised columns (matched
// case-insensitively): "Vehicle name", "Drivetrain", "Car Type",
// "Front Lever Ratio", "Rear Lever Ratio", and optionally "Base Weight",
// "Base Power" and "Base PP". Rows are keyed by name: existing vehicles are
// updated, new ones created.
package vehicles

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gt7setup/tuner/internal/storage"
	"github.com/gt7setup/tuner/internal/util"
	"github.com/gt7setup/tuner/pkg/core"
)

// Column headers, lower-cased.
const (
	ColName            = "vehicle name"
	ColDrivetrain      = "drivetrain"
	ColCarType         = "car type"
	ColLeverRatioFront = "front lever ratio"
	ColLeverRatioRear  = "rear lever ratio"
	ColBaseWeight      = "base weight"
	ColBasePower       = "base power"
	ColBasePP          = "base pp"
)

// ErrNoNameColumn is returned when the header has no vehicle name column.
var ErrNoNameColumn = errors.New("missing \"Vehicle name\" column")

// Store is what the importer needs from a storage backend.
type Store interface {
	SaveVehicle(v *core.VehicleProfile) error
	Vehicle(name string) (core.VehicleProfile, error)
}

// RowError reports a rejected row. Row is the 1-based line number in the
// file, counting the header.
type RowError struct {
	Row  int
	Name string
	Err  error
}

func (e RowError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("row %d (%s): %v", e.Row, e.Name, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

// Result summarises an import.
type Result struct {
	Created []string
	Updated []string
	Errors  []RowError
}

// Importer reads lever-ratio sheets into a Store.
type Importer struct {
	store  Store
	logger *slog.Logger
}

// NewImporter returns an importer writing to store. A nil logger uses
// slog.Default.
func NewImporter(store Store, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{store: store, logger: logger}
}

// Import reads every row of r. Bad rows are collected in Result.Errors and do
// not stop the import; only an unreadable file or header returns an error.
func (im *Importer) Import(r io.Reader) (Result, error) {
	var res Result

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return res, fmt.Errorf("read header: %w", err)
	}
	cols := indexColumns(header)
	if _, ok := cols[ColName]; !ok {
		return res, ErrNoNameColumn
	}

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("read sheet: %w", err)
		}
		if blank(record) {
			continue
		}
		line, _ := cr.FieldPos(0)

		profile, err := parseRow(cols, record)
		if err != nil {
			im.reject(&res, RowError{Row: line, Name: profile.Name, Err: err})
			continue
		}

		_, lookupErr := im.store.Vehicle(profile.Name)
		existed := lookupErr == nil
		if lookupErr != nil && !errors.Is(lookupErr, storage.ErrNotFound) {
			im.reject(&res, RowError{Row: line, Name: profile.Name, Err: lookupErr})
			continue
		}

		if err := im.store.SaveVehicle(&profile); err != nil {
			im.reject(&res, RowError{Row: line, Name: profile.Name, Err: err})
			continue
		}

		if existed {
			res.Updated = append(res.Updated, profile.Name)
			im.logger.Debug("vehicle updated", "name", profile.Name)
		} else {
			res.Created = append(res.Created, profile.Name)
			im.logger.Debug("vehicle created", "name", profile.Name)
		}
	}

	im.logger.Info("vehicle import completed",
		"created", len(res.Created),
		"updated", len(res.Updated),
		"errors", len(res.Errors))
	return res, nil
}

func (im *Importer) reject(res *Result, e RowError) {
	im.logger.Warn("vehicle row skipped", "row", e.Row, "name", e.Name, "error", e.Err)
	res.Errors = append(res.Errors, e)
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	return cols
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// parseRow builds a profile from one record, starting from the default
// profile for anything the sheet leaves empty.
func parseRow(cols map[string]int, record []string) (core.VehicleProfile, error) {
	cell := func(col string) string {
		i, ok := cols[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	v := core.DefaultVehicleProfile()
	v.Name = cell(ColName)
	if v.Name == "" {
		return v, errors.New("missing vehicle name")
	}

	var errs []error
	if s := cell(ColDrivetrain); s != "" {
		d, ok := core.ParseDrivetrain(s)
		if !ok {
			errs = append(errs, fmt.Errorf("unknown drivetrain %q", s))
		}
		v.Drivetrain = d
	}
	if s := cell(ColCarType); s != "" {
		c, ok := core.ParseCarType(s)
		if !ok {
			errs = append(errs, fmt.Errorf("unknown car type %q", s))
		}
		v.CarType = c
	}

	numbers := []struct {
		col string
		dst *float64
	}{
		{ColLeverRatioFront, &v.LeverRatioFront},
		{ColLeverRatioRear, &v.LeverRatioRear},
		{ColBaseWeight, &v.BaseWeight},
		{ColBasePower, &v.BasePower},
		{ColBasePP, &v.BasePP},
	}
	for _, n := range numbers {
		s := cell(n.col)
		if s == "" {
			continue
		}
		f, err := strconv.ParseFloat(util.StripThousands(s), 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %q is not a number", n.col, s))
			continue
		}
		*n.dst = f
	}

	if len(errs) > 0 {
		return v, errors.Join(errs...)
	}
	return v, v.Validate()
}
