package rental

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"carrental/pkg/models"
)

var (
	// ErrCardPaymentUnsupported is returned when a client tries to pay by card.
	ErrCardPaymentUnsupported = errors.New("card payments are not supported yet")
	ErrUnknownPaymentMethod   = errors.New("unknown payment method")
)

type InvalidRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("end date %s must be after start date %s",
		e.End.Format(time.RFC3339), e.Start.Format(time.RFC3339))
}

type Rule string

const (
	RuleDateOrder     Rule = "date_order"
	RuleFutureDates   Rule = "future_dates"
	RuleRequiredField Rule = "required_field"
	RuleLicenseExpiry Rule = "license_expiry"
)

// ValidationError is one violated eligibility rule. Field is set only for
// RuleRequiredField.
type ValidationError struct {
	Rule    Rule   `json:"rule"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Message
}

type EligibilityError struct {
	Violations []ValidationError
}

func (e *EligibilityError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return "reservation not eligible: " + strings.Join(msgs, "; ")
}

func (e *EligibilityError) Unwrap() []error {
	errs := make([]error, 0, len(e.Violations))
	for _, v := range e.Violations {
		errs = append(errs, v)
	}
	return errs
}

type InvalidTransitionError struct {
	Action        string
	Status        models.ReservationStatus
	PaymentStatus models.PaymentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s reservation in state %s/%s", e.Action, e.Status, e.PaymentStatus)
}

type InvalidScoreError struct {
	Score float64
}

func (e *InvalidScoreError) Error() string {
	return fmt.Sprintf("score %v must be between 0 and 5 with at most two decimals", e.Score)
}

type DuplicateReviewError struct {
	ClientID  string
	VehicleID string
}

func (e *DuplicateReviewError) Error() string {
	return fmt.Sprintf("client %s already reviewed vehicle %s", e.ClientID, e.VehicleID)
}

type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// SyncError reports that the backend did not acknowledge an optimistic
// mutation. The local state has already been rolled back when it is returned.
type SyncError struct {
	Op  string
	Err error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("%s: backend did not confirm: %v", e.Op, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}
