package service

import (
	"context"

	"carrental/pkg/logger"
	"carrental/pkg/models"
	"carrental/pkg/rental"
	"carrental/storage"
)

type CatalogService interface {
	Search(ctx context.Context, filter rental.VehicleFilter) ([]models.Vehicle, int, error)
	Vehicle(ctx context.Context, id string) (*VehicleDetails, error)
}

type VehicleDetails struct {
	Vehicle models.Vehicle `json:"vehicle"`
	Stars   rental.Stars   `json:"stars"`
	Reviews int            `json:"reviews"`
}

type catalogService struct {
	stg storage.IStorage
	*base
}

func NewCatalogService(stg storage.IStorage, b *base) CatalogService {
	return &catalogService{stg: stg, base: b}
}

func (s *catalogService) Search(ctx context.Context, filter rental.VehicleFilter) ([]models.Vehicle, int, error) {
	all, err := s.stg.Vehicle().GetAll(ctx)
	if err != nil {
		s.log.Error("failed to load vehicles", logger.Error(err))
		return nil, 0, err
	}
	vehicles := make([]models.Vehicle, 0, len(all))
	for _, v := range all {
		vehicles = append(vehicles, *v)
	}
	page, total := rental.FilterVehicles(vehicles, filter)
	return page, total, nil
}

func (s *catalogService) Vehicle(ctx context.Context, id string) (*VehicleDetails, error) {
	v, err := s.stg.Vehicle().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	reviews, err := s.stg.Review().GetByVehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	return &VehicleDetails{
		Vehicle: *v,
		Stars:   rental.StarBreakdown(v.AverageRating),
		Reviews: len(reviews),
	}, nil
}
