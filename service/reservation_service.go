package service

import (
	"context"
	"errors"
	"time"

	"carrental/pkg/logger"
	"carrental/pkg/models"
	"carrental/pkg/rental"
	"carrental/storage"
)

// ErrNotOwner is returned when a client acts on someone else's reservation or review.
var ErrNotOwner = errors.New("not the owner")

type ReservationService interface {
	Quote(ctx context.Context, vehicleID string, start, end time.Time) (float64, error)
	Create(ctx context.Context, req models.ReservationRequest) (*models.Reservation, error)
	ClientOrders(ctx context.Context, clientID string) (rental.OrderTabs, error)
	Cancel(ctx context.Context, clientID, id string) (*models.Reservation, error)
	SubmitPayment(ctx context.Context, clientID, id string, method models.PaymentMethod) (*models.Reservation, error)

	// Operator actions.
	Confirm(ctx context.Context, id string) (*models.Reservation, error)
	ConfirmPayment(ctx context.Context, id string) (*models.Reservation, error)
}

type reservationService struct {
	stg storage.IStorage
	*base
}

func NewReservationService(stg storage.IStorage, b *base) ReservationService {
	return &reservationService{stg: stg, base: b}
}

func (s *reservationService) Quote(ctx context.Context, vehicleID string, start, end time.Time) (float64, error) {
	v, err := s.stg.Vehicle().GetByID(ctx, vehicleID)
	if err != nil {
		return 0, err
	}
	return rental.ComputePrice(start, end, v.PricePerDay)
}

func (s *reservationService) Create(ctx context.Context, req models.ReservationRequest) (*models.Reservation, error) {
	client, err := s.stg.Client().GetByID(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}
	vehicle, err := s.stg.Vehicle().GetByID(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}

	res, err := rental.NewReservation(req, *client, *vehicle, s.now())
	if err != nil {
		s.log.Info("reservation rejected", logger.String("client_id", req.ClientID), logger.Error(err))
		return nil, err
	}

	var stored *models.Reservation
	err = s.remote(ctx, func(ctx context.Context) error {
		var err error
		stored, err = s.stg.Reservation().Create(ctx, &res)
		return err
	})
	if err != nil {
		return nil, s.syncError("create reservation", err)
	}

	s.log.Info("reservation created",
		logger.String("id", stored.ID),
		logger.String("vehicle_id", stored.VehicleID),
		logger.Float64("total_price", stored.TotalPrice),
	)
	return stored, nil
}

func (s *reservationService) ClientOrders(ctx context.Context, clientID string) (rental.OrderTabs, error) {
	list, err := s.stg.Reservation().GetClientReservations(ctx, clientID)
	if err != nil {
		return rental.OrderTabs{}, err
	}
	reservations := make([]models.Reservation, 0, len(list))
	for _, r := range list {
		reservations = append(reservations, *r)
	}
	return rental.GroupReservations(reservations, s.now()), nil
}

func (s *reservationService) Confirm(ctx context.Context, id string) (*models.Reservation, error) {
	return s.transition(ctx, "confirm", "", id, rental.Confirm)
}

func (s *reservationService) Cancel(ctx context.Context, clientID, id string) (*models.Reservation, error) {
	return s.transition(ctx, "cancel", clientID, id, rental.Cancel)
}

func (s *reservationService) SubmitPayment(ctx context.Context, clientID, id string, method models.PaymentMethod) (*models.Reservation, error) {
	return s.transition(ctx, "submit payment", clientID, id, func(r models.Reservation) (models.Reservation, error) {
		return rental.RecordPaymentSubmitted(r, method)
	})
}

func (s *reservationService) ConfirmPayment(ctx context.Context, id string) (*models.Reservation, error) {
	return s.transition(ctx, "confirm payment", "", id, rental.ConfirmPayment)
}

// transition loads the reservation, applies fn and persists the result only
// if the stored state has not moved in between. An empty clientID skips the
// ownership check for operator actions.
func (s *reservationService) transition(ctx context.Context, op, clientID, id string, fn func(models.Reservation) (models.Reservation, error)) (*models.Reservation, error) {
	release, err := s.acquire("reservation:" + id)
	if err != nil {
		return nil, err
	}
	defer release()

	current, err := s.stg.Reservation().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if clientID != "" && current.ClientID != clientID {
		return nil, ErrNotOwner
	}

	next, err := fn(*current)
	if err != nil {
		s.log.Info("reservation transition refused",
			logger.String("op", op), logger.String("id", id), logger.Error(err))
		return nil, err
	}

	err = s.remote(ctx, func(ctx context.Context) error {
		return s.stg.Reservation().UpdateStatus(ctx, &next, *current)
	})
	var lost *rental.InvalidTransitionError
	if errors.As(err, &lost) {
		s.log.Info("reservation changed concurrently", logger.String("op", op), logger.String("id", id))
		return nil, err
	}
	if err != nil {
		return nil, s.syncError(op, err)
	}

	s.log.Info("reservation updated",
		logger.String("op", op),
		logger.String("id", id),
		logger.String("status", string(next.Status)),
		logger.String("payment_status", string(next.PaymentStatus)),
	)
	return &next, nil
}
