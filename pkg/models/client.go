package models

import "time"

type Client struct {
	ID            string    `json:"id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Email         string    `json:"email"`
	NationalID    string    `json:"national_id"`
	Passport      string    `json:"passport"`
	Address       string    `json:"address"`
	Phone         string    `json:"phone"`
	BirthDate     time.Time `json:"birth_date"`
	LicenseNumber string    `json:"license_number"`
	LicenseExpiry time.Time `json:"license_expiry"`
	ImageURL      *string   `json:"image_url"`
	TelegramID    *int64    `json:"telegram_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
