package views

import (
	"context"
	"strings"

	"github.com/ukydev/transitland-client/internal/classify"
	"github.com/ukydev/transitland-client/internal/models"
	"github.com/ukydev/transitland-client/internal/query"
)

// Fleet sort keys
const (
	SortByID       = "id"
	SortByStatus   = "status"
	SortByLocation = "location"
	SortByMileage  = "mileage"
)

// Fleet filter fields and the PM filter's values
const (
	FilterLocation = "location"
	FilterStatus   = "status"
	FilterPM       = "pm"

	PMFilterDue     = "due"
	PMFilterOverdue = "overdue"
)

// fleetPipeline is shared by every fleet instance; it carries no state.
var fleetPipeline = query.New[models.Bus]().
	Field(FilterLocation, func(b models.Bus) string { return string(b.Location) }).
	Field(FilterStatus, func(b models.Bus) string { return string(b.Status) }).
	Field(FilterPM, func(b models.Bus) string {
		switch classify.ClassifyPM(b) {
		case classify.PMDue:
			return PMFilterDue
		case classify.PMOverdue:
			return PMFilterOverdue
		default:
			return ""
		}
	}).
	SearchKey(func(b models.Bus) string { return b.ID }).
	SortKey(SortByID, func(a, b models.Bus) int { return strings.Compare(a.ID, b.ID) }).
	SortKey(SortByStatus, func(a, b models.Bus) int {
		return classify.BusStatusRank(a.Status) - classify.BusStatusRank(b.Status)
	}).
	SortKey(SortByLocation, func(a, b models.Bus) int {
		return strings.Compare(string(a.Location), string(b.Location))
	}).
	SortKey(SortByMileage, func(a, b models.Bus) int { return a.Mileage - b.Mileage })

// Fleet is the full fleet listing with its filter, search and sort state.
type Fleet struct {
	Criteria query.Criteria
	buses    []models.Bus
	Loaded   bool
}

// NewFleet creates a fleet view with the default criteria: no filters,
// sorted by bus ID ascending.
func NewFleet() *Fleet {
	return &Fleet{
		Criteria: query.Criteria{
			Filters: map[string]string{
				FilterLocation: query.All,
				FilterStatus:   query.All,
				FilterPM:       query.All,
			},
			SortBy:    SortByID,
			Direction: query.Ascending,
		},
	}
}

// Reload fetches the fleet. A failure keeps the previous list.
func (f *Fleet) Reload(ctx context.Context, da DataAccess) error {
	buses, err := da.Buses(ctx, "")
	if err != nil {
		return err
	}
	f.buses = buses
	f.Loaded = true
	return nil
}

// Rows evaluates the current criteria over the fetched fleet.
func (f *Fleet) Rows() []models.Bus {
	return fleetPipeline.Apply(f.buses, f.Criteria)
}

// ToggleSort flips direction when the field is already active, otherwise
// switches to the field ascending.
func (f *Fleet) ToggleSort(field string) {
	if f.Criteria.SortBy == field {
		if f.Criteria.Direction == query.Ascending {
			f.Criteria.Direction = query.Descending
		} else {
			f.Criteria.Direction = query.Ascending
		}
		return
	}
	f.Criteria.SortBy = field
	f.Criteria.Direction = query.Ascending
}

// Summary counts over the unfiltered fleet for the header line.
func (f *Fleet) Summary() (total, ready, critical int) {
	total = len(f.buses)
	for _, b := range f.buses {
		switch b.Status {
		case models.StatusReady:
			ready++
		case models.StatusCritical:
			critical++
		}
	}
	return total, ready, critical
}
