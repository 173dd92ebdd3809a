package rental

import (
	"strings"
	"time"

	"carrental/pkg/models"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 50
)

// VehicleFilter mirrors the search drawer: zero values match everything.
type VehicleFilter struct {
	Make        string  `form:"marque"`
	VehicleType string  `form:"vehicleType"`
	Category    string  `form:"bodyType"`
	Seats       int     `form:"seats"`
	MinPrice    float64 `form:"minPrice"`
	MaxPrice    float64 `form:"maxPrice"`
	Page        int     `form:"page"`
	Limit       int     `form:"limit"`
}

func (f VehicleFilter) normalized() VehicleFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageLimit
	}
	if f.Limit > MaxPageLimit {
		f.Limit = MaxPageLimit
	}
	return f
}

func (f VehicleFilter) Match(v models.Vehicle) bool {
	if f.Make != "" && !strings.EqualFold(strings.TrimSpace(f.Make), v.Make) {
		return false
	}
	if f.VehicleType != "" && !strings.EqualFold(f.VehicleType, v.VehicleType) {
		return false
	}
	if f.Category != "" && !strings.EqualFold(f.Category, v.Category) {
		return false
	}
	if f.Seats > 0 && v.Seats != f.Seats {
		return false
	}
	if f.MinPrice > 0 && v.PricePerDay < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && v.PricePerDay > f.MaxPrice {
		return false
	}
	return true
}

// FilterVehicles returns the requested page of matches and the total match count.
func FilterVehicles(vehicles []models.Vehicle, f VehicleFilter) ([]models.Vehicle, int) {
	f = f.normalized()

	var matched []models.Vehicle
	for _, v := range vehicles {
		if f.Match(v) {
			matched = append(matched, v)
		}
	}

	pages := (len(matched) + f.Limit - 1) / f.Limit
	if f.Page > pages {
		return []models.Vehicle{}, len(matched)
	}
	from := (f.Page - 1) * f.Limit
	to := from + f.Limit
	if to > len(matched) {
		to = len(matched)
	}
	return matched[from:to], len(matched)
}

// OrderTabs groups a client's reservations the way the orders screen shows them.
type OrderTabs struct {
	Scheduled []models.Reservation `json:"scheduled"`
	Confirmed []models.Reservation `json:"confirmed"`
	Cancelled []models.Reservation `json:"cancelled"`
	Past      []models.Reservation `json:"past"`
}

func GroupReservations(reservations []models.Reservation, now time.Time) OrderTabs {
	var tabs OrderTabs
	for _, r := range reservations {
		if r.StartDate.Before(now) {
			tabs.Past = append(tabs.Past, r)
			continue
		}
		switch r.Status {
		case models.StatusScheduled:
			tabs.Scheduled = append(tabs.Scheduled, r)
		case models.StatusConfirmed:
			tabs.Confirmed = append(tabs.Confirmed, r)
		case models.StatusCancelled:
			tabs.Cancelled = append(tabs.Cancelled, r)
		}
	}
	return tabs
}
