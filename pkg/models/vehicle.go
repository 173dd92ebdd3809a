package models

// MaxVehicleImages is the number of image slots a vehicle listing carries.
const MaxVehicleImages = 4

type Vehicle struct {
	ID              string   `json:"id"`
	Make            string   `json:"make"`
	Model           string   `json:"model"`
	Year            int      `json:"year"`
	Category        string   `json:"category"`     // body type: sedan, suv, ...
	VehicleType     string   `json:"vehicle_type"` // car, van, ...
	Transmission    string   `json:"transmission"`
	FuelType        string   `json:"fuel_type"`
	Seats           int      `json:"seats"`
	Doors           int      `json:"doors"`
	AirConditioning bool     `json:"air_conditioning"`
	PricePerDay     float64  `json:"price_per_day"`
	Images          []string `json:"images"`
	AverageRating   float64  `json:"average_rating"`
}

func (v Vehicle) Title() string {
	return v.Make + " " + v.Model
}
