package repository

import (
	"context"
	"database/sql"
	"errors"

	"parkezy/internal/models"
)

// ErrSpotNotFound indicates an unknown spot id.
var ErrSpotNotFound = errors.New("spot not found")

// SpotRepository supplies read-only spot descriptors. Spot records are owned
// by the spots service; this repository never writes them.
type SpotRepository struct {
	db *sql.DB
}

// NewSpotRepository returns repository.
func NewSpotRepository(db *sql.DB) *SpotRepository {
	return &SpotRepository{db: db}
}

// SpotByID loads the descriptor for a spot.
func (r *SpotRepository) SpotByID(ctx context.Context, spotID string) (*models.Spot, error) {
	const query = `
		SELECT id, latitude, longitude, hourly_rate_paise, access_pin
		FROM parking_spots
		WHERE id = $1
	`
	var (
		spot models.Spot
		rate int64
		pin  sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, spotID).Scan(
		&spot.ID,
		&spot.Latitude,
		&spot.Longitude,
		&rate,
		&pin,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSpotNotFound
	}
	if err != nil {
		return nil, err
	}
	spot.HourlyRate = models.Amount(rate)
	if pin.Valid {
		spot.AccessPIN = pin.String
	}
	return &spot, nil
}
