package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/green_corridor_dispatch/internal/facility"
	"github.com/shenikar/green_corridor_dispatch/internal/models"
)

type FacilityRepository struct {
	db *pgxpool.Pool
}

// NewFacilityRepository создает справочник учреждений поверх таблицы facilities
func NewFacilityRepository(db *pgxpool.Pool) facility.Catalog {
	return &FacilityRepository{db: db}
}

// Facilities возвращает начальные мощности всех учреждений
func (r *FacilityRepository) Facilities(ctx context.Context) ([]models.Facility, error) {
	query := `
		SELECT
			id,
			name,
			latitude,
			longitude,
			trauma_level,
			specialties,
			general_beds,
			critical_beds,
			load
		FROM facilities
		ORDER BY id;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list facilities: %w", err)
	}
	defer rows.Close()

	facilities := make([]models.Facility, 0)
	for rows.Next() {
		var f models.Facility
		err := rows.Scan(
			&f.ID,
			&f.Name,
			&f.Location.Latitude,
			&f.Location.Longitude,
			&f.TraumaLevel,
			&f.Specialties,
			&f.GeneralBeds,
			&f.CriticalBeds,
			&f.Load,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan facility row: %w", err)
		}
		facilities = append(facilities, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return facilities, nil
}
