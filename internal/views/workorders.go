package views

import (
	"context"

	"github.com/ukydev/transitland-client/internal/classify"
	"github.com/ukydev/transitland-client/internal/models"
	"github.com/ukydev/transitland-client/internal/query"
)

// WorkOrdersBoard is the work-orders screen: the buses needing attention,
// garage-scoped for maintenance technicians. ShowAllGarages is view-local
// state; a freshly entered board always starts at the role default.
type WorkOrdersBoard struct {
	user models.User

	ShowAllGarages bool
	OnlyCritical   bool
	Search         string
	Descending     bool

	buses  []models.Bus
	Loaded bool
}

var workOrdersPipeline = query.New[models.Bus]().
	Field(FilterStatus, func(b models.Bus) string { return string(b.Status) }).
	SearchKey(func(b models.Bus) string { return b.ID }).
	SortKey(SortByStatus, func(a, b models.Bus) int {
		return classify.BusStatusRank(a.Status) - classify.BusStatusRank(b.Status)
	})

// NewWorkOrdersBoard creates a board for the given identity with the role
// defaults applied.
func NewWorkOrdersBoard(user models.User) *WorkOrdersBoard {
	return &WorkOrdersBoard{user: user}
}

// Reload fetches the fleet. A failure keeps the previous list.
func (b *WorkOrdersBoard) Reload(ctx context.Context, da DataAccess) error {
	buses, err := da.Buses(ctx, "")
	if err != nil {
		return err
	}
	b.buses = buses
	b.Loaded = true
	return nil
}

// Maintenance reports whether the board belongs to a maintenance
// technician, which scopes it to their garage and hides Ready buses.
func (b *WorkOrdersBoard) Maintenance() bool {
	return b.user.Role == models.RoleMaintenance
}

// Rows evaluates the role defaults and the user-chosen criteria.
func (b *WorkOrdersBoard) Rows() []models.Bus {
	buses := b.buses

	if b.Maintenance() {
		if !b.ShowAllGarages && b.user.AssignedGarage != nil {
			home := models.GarageLocation(*b.user.AssignedGarage)
			buses = query.Filter(buses, func(bus models.Bus) bool { return bus.Location == home })
		}
		buses = query.Filter(buses, func(bus models.Bus) bool { return bus.Status != models.StatusReady })
	}

	statusFilter := query.All
	if b.OnlyCritical {
		statusFilter = string(models.StatusCritical)
	}
	direction := query.Ascending
	if b.Descending {
		direction = query.Descending
	}

	return workOrdersPipeline.Apply(buses, query.Criteria{
		Filters:   map[string]string{FilterStatus: statusFilter},
		Search:    b.Search,
		SortBy:    SortByStatus,
		Direction: direction,
	})
}
