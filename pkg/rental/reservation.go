package rental

import (
	"time"

	"carrental/pkg/models"

	"github.com/google/uuid"
)

// NewReservation validates the request and builds a scheduled, unpaid
// reservation. The ID is minted here so that retried backend writes stay
// idempotent.
func NewReservation(req models.ReservationRequest, client models.Client, vehicle models.Vehicle, now time.Time) (models.Reservation, error) {
	if violations := CheckEligibility(client, req.StartDate, req.EndDate, now); len(violations) > 0 {
		return models.Reservation{}, &EligibilityError{Violations: violations}
	}

	total, err := ComputePrice(req.StartDate, req.EndDate, vehicle.PricePerDay)
	if err != nil {
		return models.Reservation{}, err
	}

	return models.Reservation{
		ID:              uuid.NewString(),
		ClientID:        client.ID,
		VehicleID:       vehicle.ID,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		DriverRequested: req.DriverRequested,
		Comment:         req.Comment,
		PickupLocation:  req.PickupLocation,
		Destination:     req.Destination,
		TotalPrice:      total,
		Status:          models.StatusScheduled,
		PaymentStatus:   models.PaymentUnpaid,
		CreatedAt:       now,
	}, nil
}

func Confirm(r models.Reservation) (models.Reservation, error) {
	if r.Status != models.StatusScheduled {
		return r, transitionError("confirm", r)
	}
	r.Status = models.StatusConfirmed
	return r, nil
}

// Cancel is allowed from scheduled or confirmed as long as nothing has been paid.
func Cancel(r models.Reservation) (models.Reservation, error) {
	if r.Status == models.StatusCancelled || r.PaymentStatus == models.PaymentPaid {
		return r, transitionError("cancel", r)
	}
	r.Status = models.StatusCancelled
	return r, nil
}

func RecordPaymentSubmitted(r models.Reservation, method models.PaymentMethod) (models.Reservation, error) {
	switch method {
	case models.PaymentMethodCash:
	case models.PaymentMethodCard:
		return r, ErrCardPaymentUnsupported
	default:
		return r, ErrUnknownPaymentMethod
	}
	if r.Status != models.StatusConfirmed || r.PaymentStatus != models.PaymentUnpaid {
		return r, transitionError("record payment for", r)
	}
	r.PaymentStatus = models.PaymentPendingConfirmation
	r.PaymentMethod = &method
	return r, nil
}

// ConfirmPayment is the operator's acknowledgement of a submitted payment.
func ConfirmPayment(r models.Reservation) (models.Reservation, error) {
	if r.Status != models.StatusConfirmed || r.PaymentStatus != models.PaymentPendingConfirmation {
		return r, transitionError("confirm payment for", r)
	}
	r.PaymentStatus = models.PaymentPaid
	return r, nil
}

func transitionError(action string, r models.Reservation) *InvalidTransitionError {
	return &InvalidTransitionError{
		Action:        action,
		Status:        r.Status,
		PaymentStatus: r.PaymentStatus,
	}
}
