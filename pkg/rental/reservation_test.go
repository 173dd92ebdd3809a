package rental

import (
	"errors"
	"testing"

	"carrental/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingRequest() models.ReservationRequest {
	return models.ReservationRequest{
		ClientID:       "client-1",
		VehicleID:      "vehicle-1",
		StartDate:      base.Add(day),
		EndDate:        base.Add(4 * day),
		PickupLocation: "Airport",
		Destination:    "Downtown",
	}
}

var clio = models.Vehicle{ID: "vehicle-1", Make: "Renault", Model: "Clio", PricePerDay: 50}

func scheduled(t *testing.T) models.Reservation {
	t.Helper()
	r, err := NewReservation(bookingRequest(), completeClient(base), clio, base)
	require.NoError(t, err)
	return r
}

func TestNewReservation_InitialState(t *testing.T) {
	r := scheduled(t)

	assert.NotEmpty(t, r.ID)
	assert.Equal(t, models.StatusScheduled, r.Status)
	assert.Equal(t, models.PaymentUnpaid, r.PaymentStatus)
	assert.Equal(t, 150.0, r.TotalPrice)
	assert.Equal(t, "client-1", r.ClientID)
	assert.Equal(t, "vehicle-1", r.VehicleID)
	assert.Equal(t, "Airport", r.PickupLocation)
}

func TestNewReservation_Ineligible(t *testing.T) {
	client := completeClient(base)
	client.LicenseExpiry = base.AddDate(-1, 0, 0)

	r, err := NewReservation(bookingRequest(), client, clio, base)

	var eligibility *EligibilityError
	require.True(t, errors.As(err, &eligibility))
	require.Len(t, eligibility.Violations, 1)
	assert.Equal(t, RuleLicenseExpiry, eligibility.Violations[0].Rule)
	assert.Equal(t, models.Reservation{}, r)
}

func TestEligibilityError_UnwrapsViolations(t *testing.T) {
	err := error(&EligibilityError{Violations: []ValidationError{
		{Rule: RuleDateOrder, Message: "a"},
		{Rule: RuleFutureDates, Message: "b"},
	}})

	var v ValidationError
	require.True(t, errors.As(err, &v))
	assert.Equal(t, RuleDateOrder, v.Rule)
	assert.Contains(t, err.Error(), "a; b")
}

func TestConfirmThenCancel(t *testing.T) {
	r, err := Confirm(scheduled(t))
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, r.Status)

	r, err = Cancel(r)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, r.Status)
}

func TestCancelScheduled(t *testing.T) {
	r, err := Cancel(scheduled(t))
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, r.Status)
}

func TestCancelAfterPaymentFails(t *testing.T) {
	r, err := Confirm(scheduled(t))
	require.NoError(t, err)
	r, err = RecordPaymentSubmitted(r, models.PaymentMethodCash)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPendingConfirmation, r.PaymentStatus)
	require.NotNil(t, r.PaymentMethod)
	assert.Equal(t, models.PaymentMethodCash, *r.PaymentMethod)

	r, err = ConfirmPayment(r)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, r.PaymentStatus)

	after, err := Cancel(r)
	var transition *InvalidTransitionError
	require.True(t, errors.As(err, &transition))
	assert.Equal(t, "cancel", transition.Action)
	assert.Equal(t, models.PaymentPaid, transition.PaymentStatus)
	assert.Equal(t, r, after)
}

func TestCancelWhilePaymentPending(t *testing.T) {
	r, _ := Confirm(scheduled(t))
	r, _ = RecordPaymentSubmitted(r, models.PaymentMethodCash)

	r, err := Cancel(r)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, r.Status)

	_, err = ConfirmPayment(r)
	assert.IsType(t, &InvalidTransitionError{}, err)
}

func TestIllegalTransitions(t *testing.T) {
	cancelled, err := Cancel(scheduled(t))
	require.NoError(t, err)
	confirmed, err := Confirm(scheduled(t))
	require.NoError(t, err)

	tests := []struct {
		name string
		run  func() error
	}{
		{"confirm cancelled", func() error { _, err := Confirm(cancelled); return err }},
		{"confirm twice", func() error { _, err := Confirm(confirmed); return err }},
		{"cancel twice", func() error { _, err := Cancel(cancelled); return err }},
		{"pay scheduled", func() error { _, err := RecordPaymentSubmitted(scheduled(t), models.PaymentMethodCash); return err }},
		{"confirm unpaid", func() error { _, err := ConfirmPayment(confirmed); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.IsType(t, &InvalidTransitionError{}, tt.run())
		})
	}
}

func TestRecordPaymentSubmitted_Twice(t *testing.T) {
	r, _ := Confirm(scheduled(t))
	r, err := RecordPaymentSubmitted(r, models.PaymentMethodCash)
	require.NoError(t, err)

	_, err = RecordPaymentSubmitted(r, models.PaymentMethodCash)
	assert.IsType(t, &InvalidTransitionError{}, err)
}

func TestRecordPaymentSubmitted_Methods(t *testing.T) {
	r, _ := Confirm(scheduled(t))

	_, err := RecordPaymentSubmitted(r, models.PaymentMethodCard)
	assert.ErrorIs(t, err, ErrCardPaymentUnsupported)

	_, err = RecordPaymentSubmitted(r, "cheque")
	assert.ErrorIs(t, err, ErrUnknownPaymentMethod)
}
