package bot

import (
	"errors"
	"net/http"
	"strings"

	"carrental/pkg/rental"
	"carrental/service"
)

// describe turns domain errors into the text shown to a client.
func describe(err error) string {
	var (
		eligibility *rental.EligibilityError
		transition  *rental.InvalidTransitionError
		rangeErr    *rental.InvalidRangeError
		scoreErr    *rental.InvalidScoreError
		dup         *rental.DuplicateReviewError
		notFound    *rental.NotFoundError
		syncErr     *rental.SyncError
	)
	switch {
	case errors.As(err, &eligibility):
		lines := make([]string, 0, len(eligibility.Violations)+1)
		lines = append(lines, "❌ Booking not possible:")
		for _, v := range eligibility.Violations {
			lines = append(lines, "• "+v.Message)
		}
		return strings.Join(lines, "\n")
	case errors.As(err, &transition):
		return "❌ This reservation can no longer be changed that way."
	case errors.As(err, &rangeErr):
		return "❌ The end date must be after the start date."
	case errors.As(err, &scoreErr):
		return "❌ Scores go from 0 to 5 with at most two decimals."
	case errors.As(err, &dup):
		return "❌ You already reviewed this car. Use /rate again to change your score."
	case errors.As(err, &notFound):
		return "❌ Not found: " + notFound.Kind + " " + notFound.ID
	case errors.As(err, &syncErr):
		return "⚠️ Could not reach the server, nothing was changed. Please try again."
	case errors.Is(err, service.ErrMutationInFlight):
		return "⏳ Still working on your previous request."
	case errors.Is(err, service.ErrNotOwner):
		return "🚫 That is not yours."
	case errors.Is(err, rental.ErrCardPaymentUnsupported):
		return "💳 Card payments are not available yet, please pay cash."
	case errors.Is(err, rental.ErrUnknownPaymentMethod):
		return "💵 Unknown payment method. Use: /pay <id> cash"
	default:
		return "❌ Something went wrong."
	}
}

func httpStatus(err error) int {
	var (
		eligibility *rental.EligibilityError
		transition  *rental.InvalidTransitionError
		rangeErr    *rental.InvalidRangeError
		scoreErr    *rental.InvalidScoreError
		dup         *rental.DuplicateReviewError
		notFound    *rental.NotFoundError
		syncErr     *rental.SyncError
	)
	switch {
	case errors.As(err, &eligibility), errors.As(err, &rangeErr), errors.As(err, &scoreErr),
		errors.Is(err, rental.ErrCardPaymentUnsupported), errors.Is(err, rental.ErrUnknownPaymentMethod):
		return http.StatusUnprocessableEntity
	case errors.As(err, &transition), errors.As(err, &dup), errors.Is(err, service.ErrMutationInFlight):
		return http.StatusConflict
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNotOwner):
		return http.StatusForbidden
	case errors.As(err, &syncErr):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// renderStars draws a breakdown as text: ★ full, ⯪ half, ◔ quarter, ☆ empty.
func renderStars(s rental.Stars) string {
	return strings.Repeat("★", s.Full) +
		strings.Repeat("⯪", s.Half) +
		strings.Repeat("◔", s.Quarter) +
		strings.Repeat("☆", s.Empty)
}
