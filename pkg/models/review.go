package models

import "time"

type Review struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id"`
	VehicleID string    `json:"vehicle_id"`
	Score     float64   `json:"score"`
	Comment   *string   `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}
