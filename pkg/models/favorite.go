package models

type FavoriteEntry struct {
	ClientID  string `json:"client_id"`
	VehicleID string `json:"vehicle_id"`
}
