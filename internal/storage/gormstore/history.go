package gormstore

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/gt7setup/tuner/internal/model"
	"github.com/gt7setup/tuner/internal/model/convert"
	"github.com/gt7setup/tuner/pkg/core"
)

func newest(db *gorm.DB, table string, limit int) *gorm.DB {
	q := db.Order(table + ".time DESC").Order(table + ".id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return q
}

// forVehicle joins the owning vehicle so its name is filled and filterable.
func forVehicle(db *gorm.DB, vehicle string) *gorm.DB {
	return db.Joins("Vehicle").
		Where(`LOWER("Vehicle"."name") = ?`, strings.ToLower(strings.TrimSpace(vehicle)))
}

// SpringHistory returns stored spring setups for vehicle, newest first.
func (b *Backend) SpringHistory(vehicle string, limit int) ([]core.SpringCalculation, error) {
	var rows []model.SpringCalculation
	q := forVehicle(b.deps.DB.Model(&model.SpringCalculation{}), vehicle)
	if err := newest(q, "spring_calculations", limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("spring history for %q: %w", vehicle, err)
	}

	out := make([]core.SpringCalculation, 0, len(rows))
	for _, row := range rows {
		c, err := convert.SpringCalculationToCore(row)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// GearHistory returns stored gear setups for vehicle, newest first.
func (b *Backend) GearHistory(vehicle string, limit int) ([]core.GearCalculation, error) {
	var rows []model.GearCalculation
	q := forVehicle(b.deps.DB.Model(&model.GearCalculation{}), vehicle)
	if err := newest(q, "gear_calculations", limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("gear history for %q: %w", vehicle, err)
	}

	out := make([]core.GearCalculation, 0, len(rows))
	for _, row := range rows {
		c, err := convert.GearCalculationToCore(row)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// TireHistory returns stored tire estimates, newest first.
func (b *Backend) TireHistory(limit int) ([]core.TireCalculation, error) {
	var rows []model.TireCalculation
	if err := newest(b.deps.DB, "tire_calculations", limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("tire history: %w", err)
	}

	out := make([]core.TireCalculation, len(rows))
	for i, row := range rows {
		out[i] = convert.TireCalculationToCore(row)
	}
	return out, nil
}
