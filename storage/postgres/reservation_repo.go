package postgres

import (
	"context"

	"carrental/pkg/logger"
	"carrental/pkg/models"
	"carrental/pkg/rental"
	"carrental/storage"

	"github.com/jackc/pgx/v5/pgxpool"
)

type reservationRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewReservationRepo(db *pgxpool.Pool, log logger.ILogger) storage.IReservationStorage {
	return &reservationRepo{db: db, log: log}
}

const reservationColumns = `id, client_id, vehicle_id, start_date, end_date, driver_requested, comment,
	pickup_location, destination, total_price, status, payment_status, payment_method, created_at`

func scanReservation(row interface{ Scan(...any) error }) (*models.Reservation, error) {
	var o models.Reservation
	err := row.Scan(
		&o.ID, &o.ClientID, &o.VehicleID, &o.StartDate, &o.EndDate, &o.DriverRequested, &o.Comment,
		&o.PickupLocation, &o.Destination, &o.TotalPrice, &o.Status, &o.PaymentStatus, &o.PaymentMethod, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create is idempotent on the reservation ID: a retried insert returns the stored row.
func (r *reservationRepo) Create(ctx context.Context, res *models.Reservation) (*models.Reservation, error) {
	query := `
		INSERT INTO reservations (id, client_id, vehicle_id, start_date, end_date, driver_requested, comment,
			pickup_location, destination, total_price, status, payment_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query,
		res.ID,
		res.ClientID,
		res.VehicleID,
		res.StartDate,
		res.EndDate,
		res.DriverRequested,
		res.Comment,
		res.PickupLocation,
		res.Destination,
		res.TotalPrice,
		res.Status,
		res.PaymentStatus,
		res.CreatedAt,
	)
	if err != nil {
		r.log.Error("failed to create reservation", logger.Error(err))
		return nil, err
	}

	return r.GetByID(ctx, res.ID)
}

func (r *reservationRepo) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	res, err := scanReservation(r.db.QueryRow(ctx, query, id))
	if err != nil {
		r.log.Error("failed to get reservation by id", logger.String("id", id), logger.Error(err))
		return nil, notFound(err, "reservation", id)
	}
	return res, nil
}

func (r *reservationRepo) GetClientReservations(ctx context.Context, clientID string) ([]*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE client_id = $1 ORDER BY start_date DESC`
	rows, err := r.db.Query(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []*models.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}

func (r *reservationRepo) UpdateStatus(ctx context.Context, res *models.Reservation, expected models.Reservation) error {
	query := `
		UPDATE reservations
		SET status = $1, payment_status = $2, payment_method = $3
		WHERE id = $4 AND status = $5 AND payment_status = $6
	`
	tag, err := r.db.Exec(ctx, query,
		res.Status,
		res.PaymentStatus,
		res.PaymentMethod,
		res.ID,
		expected.Status,
		expected.PaymentStatus,
	)
	if err != nil {
		r.log.Error("failed to update reservation status", logger.String("id", res.ID), logger.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return &rental.InvalidTransitionError{
			Action:        "update",
			Status:        expected.Status,
			PaymentStatus: expected.PaymentStatus,
		}
	}
	return nil
}
