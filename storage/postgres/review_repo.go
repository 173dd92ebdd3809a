package postgres

import (
	"context"

	"carrental/pkg/logger"
	"carrental/pkg/models"
	"carrental/pkg/rental"
	"carrental/storage"

	"github.com/jackc/pgx/v5/pgxpool"
)

type reviewRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewReviewRepo(db *pgxpool.Pool, log logger.ILogger) storage.IReviewStorage {
	return &reviewRepo{db: db, log: log}
}

func (r *reviewRepo) GetByVehicle(ctx context.Context, vehicleID string) ([]*models.Review, error) {
	query := `SELECT id, client_id, vehicle_id, score, comment, created_at FROM reviews WHERE vehicle_id = $1 ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*models.Review
	for rows.Next() {
		var n models.Review
		if err := rows.Scan(&n.ID, &n.ClientID, &n.VehicleID, &n.Score, &n.Comment, &n.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, &n)
	}
	return reviews, rows.Err()
}

// Create relies on the (client_id, vehicle_id) unique key as the final word on
// one review per client.
func (r *reviewRepo) Create(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (id, client_id, vehicle_id, score, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query, review.ID, review.ClientID, review.VehicleID, review.Score, review.Comment, review.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return &rental.DuplicateReviewError{ClientID: review.ClientID, VehicleID: review.VehicleID}
		}
		r.log.Error("failed to create review", logger.Error(err))
		return err
	}
	return nil
}

func (r *reviewRepo) Update(ctx context.Context, review *models.Review) error {
	res, err := r.db.Exec(ctx, "UPDATE reviews SET score = $1, comment = $2 WHERE id = $3", review.Score, review.Comment, review.ID)
	if err != nil {
		r.log.Error("failed to update review", logger.String("id", review.ID), logger.Error(err))
		return err
	}
	if res.RowsAffected() == 0 {
		return &rental.NotFoundError{Kind: "review", ID: review.ID}
	}
	return nil
}

func (r *reviewRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.Exec(ctx, "DELETE FROM reviews WHERE id = $1", id)
	if err != nil {
		r.log.Error("failed to delete review", logger.String("id", id), logger.Error(err))
		return err
	}
	if res.RowsAffected() == 0 {
		return &rental.NotFoundError{Kind: "review", ID: id}
	}
	return nil
}
