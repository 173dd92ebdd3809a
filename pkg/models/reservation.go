package models

import "time"

type ReservationStatus string

const (
	StatusScheduled ReservationStatus = "scheduled"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentUnpaid              PaymentStatus = "unpaid"
	PaymentPendingConfirmation PaymentStatus = "pending_confirmation"
	PaymentPaid                PaymentStatus = "paid"
)

type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
)

type Reservation struct {
	ID              string            `json:"id"`
	ClientID        string            `json:"client_id"`
	VehicleID       string            `json:"vehicle_id"`
	StartDate       time.Time         `json:"start_date"`
	EndDate         time.Time         `json:"end_date"`
	DriverRequested bool              `json:"driver_requested"`
	Comment         string            `json:"comment"`
	PickupLocation  string            `json:"pickup_location"`
	Destination     string            `json:"destination"`
	TotalPrice      float64           `json:"total_price"`
	Status          ReservationStatus `json:"status"`
	PaymentStatus   PaymentStatus     `json:"payment_status"`
	PaymentMethod   *PaymentMethod    `json:"payment_method"`
	CreatedAt       time.Time         `json:"created_at"`
}

// ReservationRequest is what a client submits when booking.
type ReservationRequest struct {
	ClientID        string    `json:"client_id"`
	VehicleID       string    `json:"vehicle_id"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	DriverRequested bool      `json:"driver_requested"`
	Comment         string    `json:"comment"`
	PickupLocation  string    `json:"pickup_location"`
	Destination     string    `json:"destination"`
}
