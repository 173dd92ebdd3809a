package storage

import (
	"context"

	"carrental/pkg/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type IStorage interface {
	Client() IClientStorage
	Vehicle() IVehicleStorage
	Reservation() IReservationStorage
	Review() IReviewStorage
	Favorite() IFavoriteStorage
	Close()
	GetPool() *pgxpool.Pool
}

type IClientStorage interface {
	GetByID(ctx context.Context, id string) (*models.Client, error)
	GetByTelegramID(ctx context.Context, teleID int64) (*models.Client, error)
	LinkTelegram(ctx context.Context, id string, teleID int64) error
}

type IVehicleStorage interface {
	GetByID(ctx context.Context, id string) (*models.Vehicle, error)
	GetAll(ctx context.Context) ([]*models.Vehicle, error)
	// RefreshRating recomputes the stored average from the vehicle's current
	// reviews and returns it.
	RefreshRating(ctx context.Context, id string) (float64, error)
}

type IReservationStorage interface {
	Create(ctx context.Context, r *models.Reservation) (*models.Reservation, error)
	GetByID(ctx context.Context, id string) (*models.Reservation, error)
	GetClientReservations(ctx context.Context, clientID string) ([]*models.Reservation, error)
	// UpdateStatus writes the new state only if the stored state still equals
	// the expected one, so two writers cannot both win a transition.
	UpdateStatus(ctx context.Context, r *models.Reservation, expected models.Reservation) error
}

type IReviewStorage interface {
	GetByVehicle(ctx context.Context, vehicleID string) ([]*models.Review, error)
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id string) error
}

type IFavoriteStorage interface {
	GetClientFavorites(ctx context.Context, clientID string) ([]string, error)
	Add(ctx context.Context, clientID, vehicleID string) error
	Remove(ctx context.Context, clientID, vehicleID string) error
}
