package models

// BusLocation represents where a bus currently is
type BusLocation string

const (
	LocationNorthGarage BusLocation = "North Garage"
	LocationSouthGarage BusLocation = "South Garage"
	LocationOnService   BusLocation = "On Service"
)

// GarageLocation maps a garage to the bus location it corresponds to.
func GarageLocation(g Garage) BusLocation {
	if g == GarageSouth {
		return LocationSouthGarage
	}
	return LocationNorthGarage
}

// BusStatus is the operational status supplied by the server. The client
// displays it and layers PM badges on top; it never computes it.
type BusStatus string

const (
	StatusReady            BusStatus = "Ready"
	StatusCritical         BusStatus = "Critical"
	StatusNeedsMaintenance BusStatus = "Needs Maintenance"
)

// Bus represents a fleet bus as returned by the API
type Bus struct {
	ID                 string      `json:"id"`
	Model              string      `json:"model"`
	Location           BusLocation `json:"location"`
	Mileage            int         `json:"mileage"`
	LastServiceMileage int         `json:"last_service_mileage"`
	DueForPM           bool        `json:"due_for_pm"`
	Status             BusStatus   `json:"status"`
}

// MileageSinceService returns the wear proxy used across the UI. The value
// can be negative if the server reports inconsistent mileages; callers must
// render it plainly rather than special-case it.
func (b *Bus) MileageSinceService() int {
	return b.Mileage - b.LastServiceMileage
}
