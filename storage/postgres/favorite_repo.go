package postgres

import (
	"context"

	"carrental/pkg/logger"
	"carrental/storage"

	"github.com/jackc/pgx/v5/pgxpool"
)

type favoriteRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewFavoriteRepo(db *pgxpool.Pool, log logger.ILogger) storage.IFavoriteStorage {
	return &favoriteRepo{db: db, log: log}
}

func (r *favoriteRepo) GetClientFavorites(ctx context.Context, clientID string) ([]string, error) {
	query := `SELECT vehicle_id FROM favorite_vehicles WHERE client_id = $1`
	rows, err := r.db.Query(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *favoriteRepo) Add(ctx context.Context, clientID, vehicleID string) error {
	query := `INSERT INTO favorite_vehicles (client_id, vehicle_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	_, err := r.db.Exec(ctx, query, clientID, vehicleID)
	if err != nil {
		r.log.Error("failed to add favorite", logger.String("vehicle_id", vehicleID), logger.Error(err))
	}
	return err
}

func (r *favoriteRepo) Remove(ctx context.Context, clientID, vehicleID string) error {
	query := `DELETE FROM favorite_vehicles WHERE client_id = $1 AND vehicle_id = $2`
	_, err := r.db.Exec(ctx, query, clientID, vehicleID)
	if err != nil {
		r.log.Error("failed to remove favorite", logger.String("vehicle_id", vehicleID), logger.Error(err))
	}
	return err
}
