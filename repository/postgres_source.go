package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"kawasaki_site/models"
)

// PostgresSource loads the dataset from a relational mirror, for
// deployments that import the static data into postgres instead of the
// document store. Hours and facility lists are stored as JSON columns.
type PostgresSource struct {
	db *sql.DB
}

// NewPostgresSource wraps an open connection pool.
func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) LoadWard(ctx context.Context, ward string) ([]models.RawRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, ward,
		       COALESCE(address, ''),
		       COALESCE(install_location, ''),
		       COALESCE(description, ''),
		       COALESCE(access, ''),
		       COALESCE(notes, ''),
		       COALESCE(updated, ''),
		       latitude, longitude,
		       COALESCE(hours::text, ''),
		       COALESCE(facilities::text, '')
		FROM facilities
		WHERE ward = $1
		ORDER BY id`, ward)
	if err != nil {
		return nil, &models.UpstreamError{Op: "postgres: load facilities for " + ward, Err: err}
	}
	defer rows.Close()

	var records []models.RawRecord
	for rows.Next() {
		var rec models.RawRecord
		var lat, lon sql.NullFloat64
		var hoursJSON, facilitiesJSON string

		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Category, &rec.Ward,
			&rec.Address, &rec.InstallLocation, &rec.Description,
			&rec.Access, &rec.Notes, &rec.Updated,
			&lat, &lon, &hoursJSON, &facilitiesJSON); err != nil {
			return nil, &models.UpstreamError{Op: "postgres: scan facility row", Err: err}
		}

		if lat.Valid && lon.Valid {
			rec.Location = &models.Coordinates{Latitude: lat.Float64, Longitude: lon.Float64}
		}
		if hoursJSON != "" {
			if err := json.Unmarshal([]byte(hoursJSON), &rec.Hours); err != nil {
				return nil, &models.UpstreamError{Op: "postgres: corrupt hours for " + rec.ID, Err: err}
			}
		}
		if facilitiesJSON != "" {
			if err := json.Unmarshal([]byte(facilitiesJSON), &rec.Facilities); err != nil {
				return nil, &models.UpstreamError{Op: "postgres: corrupt facilities for " + rec.ID, Err: err}
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &models.UpstreamError{Op: "postgres: iterate facilities for " + ward, Err: err}
	}
	return records, nil
}

func (s *PostgresSource) LoadMonth(ctx context.Context, month string) ([]models.RawMenu, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, month, date,
		       COALESCE(items::text, '[]'),
		       COALESCE(energy_kcal, 0),
		       COALESCE(protein_grams, 0),
		       COALESCE(notes, '')
		FROM lunch_menus
		WHERE month = $1
		ORDER BY date`, month)
	if err != nil {
		return nil, &models.UpstreamError{Op: "postgres: load menus for " + month, Err: err}
	}
	defer rows.Close()

	var menus []models.RawMenu
	for rows.Next() {
		var menu models.RawMenu
		var itemsJSON string

		if err := rows.Scan(&menu.ID, &menu.Month, &menu.Date,
			&itemsJSON, &menu.EnergyKcal, &menu.ProteinGrams, &menu.Notes); err != nil {
			return nil, &models.UpstreamError{Op: "postgres: scan menu row", Err: err}
		}
		if err := json.Unmarshal([]byte(itemsJSON), &menu.Items); err != nil {
			return nil, &models.UpstreamError{Op: "postgres: corrupt items for " + menu.ID, Err: err}
		}
		menus = append(menus, menu)
	}
	if err := rows.Err(); err != nil {
		return nil, &models.UpstreamError{Op: "postgres: iterate menus for " + month, Err: err}
	}
	return menus, nil
}
