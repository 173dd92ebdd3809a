package postgres

import (
	"context"
	"fmt"
	"time"

	"carrental/pkg/logger"
	"carrental/pkg/models"
	"carrental/pkg/rental"
	"carrental/storage"

	"github.com/jackc/pgx/v5/pgxpool"
)

type clientRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewClientRepo(db *pgxpool.Pool, log logger.ILogger) storage.IClientStorage {
	return &clientRepo{db: db, log: log}
}

const clientColumns = `id, first_name, last_name, email, national_id, passport, address, phone,
	birth_date, license_number, license_expiry, image_url, telegram_id, created_at`

func (r *clientRepo) scan(row interface{ Scan(...any) error }) (*models.Client, error) {
	var (
		c              models.Client
		birth, expires *time.Time
	)
	err := row.Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.NationalID, &c.Passport, &c.Address, &c.Phone,
		&birth, &c.LicenseNumber, &expires, &c.ImageURL, &c.TelegramID, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	// a missing expiry stays zero and fails the license rule
	if birth != nil {
		c.BirthDate = *birth
	}
	if expires != nil {
		c.LicenseExpiry = *expires
	}
	return &c, nil
}

func (r *clientRepo) GetByID(ctx context.Context, id string) (*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	c, err := r.scan(r.db.QueryRow(ctx, query, id))
	if err != nil {
		r.log.Error("failed to get client by id", logger.String("id", id), logger.Error(err))
		return nil, notFound(err, "client", id)
	}
	return c, nil
}

func (r *clientRepo) GetByTelegramID(ctx context.Context, teleID int64) (*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE telegram_id = $1`
	c, err := r.scan(r.db.QueryRow(ctx, query, teleID))
	if err != nil {
		return nil, notFound(err, "client", fmt.Sprintf("telegram:%d", teleID))
	}
	return c, nil
}

func (r *clientRepo) LinkTelegram(ctx context.Context, id string, teleID int64) error {
	res, err := r.db.Exec(ctx, "UPDATE clients SET telegram_id = $1 WHERE id = $2", teleID, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return &rental.NotFoundError{Kind: "client", ID: id}
	}
	return nil
}
