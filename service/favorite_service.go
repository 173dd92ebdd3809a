package service

import (
	"context"

	"carrental/pkg/logger"
	"carrental/pkg/rental"
	"carrental/storage"
)

type FavoriteService interface {
	Load(ctx context.Context, clientID string) (rental.Favorites, error)
	// Toggle flips membership locally and asks the backend to do the same.
	// When the backend does not acknowledge, current is returned with a
	// *rental.SyncError.
	Toggle(ctx context.Context, clientID string, current rental.Favorites, vehicleID string) (rental.Favorites, rental.FavoriteOp, error)
}

type favoriteService struct {
	stg storage.IStorage
	*base
}

func NewFavoriteService(stg storage.IStorage, b *base) FavoriteService {
	return &favoriteService{stg: stg, base: b}
}

func (s *favoriteService) Load(ctx context.Context, clientID string) (rental.Favorites, error) {
	ids, err := s.stg.Favorite().GetClientFavorites(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return rental.NewFavorites(ids...), nil
}

func (s *favoriteService) Toggle(ctx context.Context, clientID string, current rental.Favorites, vehicleID string) (rental.Favorites, rental.FavoriteOp, error) {
	next, op := current.Toggle(vehicleID)

	release, err := s.acquire("favorite:" + clientID + ":" + vehicleID)
	if err != nil {
		return current, op, err
	}
	defer release()

	err = s.remote(ctx, func(ctx context.Context) error {
		if op == rental.FavoriteAdd {
			return s.stg.Favorite().Add(ctx, clientID, vehicleID)
		}
		return s.stg.Favorite().Remove(ctx, clientID, vehicleID)
	})
	if err != nil {
		return current, op, s.syncError("favorite "+string(op), err)
	}

	s.log.Debug("favorite toggled",
		logger.String("client_id", clientID),
		logger.String("vehicle_id", vehicleID),
		logger.String("op", string(op)),
	)
	return next, op, nil
}
