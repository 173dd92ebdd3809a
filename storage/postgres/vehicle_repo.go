package postgres

import (
	"context"

	"carrental/pkg/logger"
	"carrental/pkg/models"
	"carrental/storage"

	"github.com/jackc/pgx/v5/pgxpool"
)

type vehicleRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewVehicleRepo(db *pgxpool.Pool, log logger.ILogger) storage.IVehicleStorage {
	return &vehicleRepo{db: db, log: log}
}

const vehicleColumns = `id, make, model, year, category, vehicle_type, transmission, fuel_type,
	seats, doors, air_conditioning, price_per_day, images, average_rating`

func scanVehicle(row interface{ Scan(...any) error }) (*models.Vehicle, error) {
	var v models.Vehicle
	err := row.Scan(
		&v.ID, &v.Make, &v.Model, &v.Year, &v.Category, &v.VehicleType, &v.Transmission, &v.FuelType,
		&v.Seats, &v.Doors, &v.AirConditioning, &v.PricePerDay, &v.Images, &v.AverageRating,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *vehicleRepo) GetByID(ctx context.Context, id string) (*models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`
	v, err := scanVehicle(r.db.QueryRow(ctx, query, id))
	if err != nil {
		r.log.Error("failed to get vehicle by id", logger.String("id", id), logger.Error(err))
		return nil, notFound(err, "vehicle", id)
	}
	return v, nil
}

func (r *vehicleRepo) GetAll(ctx context.Context) ([]*models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles ORDER BY make, model`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []*models.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (r *vehicleRepo) RefreshRating(ctx context.Context, id string) (float64, error) {
	query := `
		UPDATE vehicles
		SET average_rating = COALESCE(
			(SELECT ROUND(AVG(score), 2) FROM reviews WHERE vehicle_id = $1), 0
		)::DOUBLE PRECISION
		WHERE id = $1
		RETURNING average_rating
	`
	var avg float64
	if err := r.db.QueryRow(ctx, query, id).Scan(&avg); err != nil {
		r.log.Error("failed to refresh vehicle rating", logger.String("id", id), logger.Error(err))
		return 0, notFound(err, "vehicle", id)
	}
	return avg, nil
}
