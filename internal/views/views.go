// Package views contains the per-screen view models. Each one composes the
// classifier and the query pipeline over data obtained from the DataAccess
// collaborator, owns its fetched copies, and exposes pure row/aggregate
// methods for rendering. Mutations are fire-and-confirm: the action runs,
// then the owning view reloads its dependent collections in full.
package views

import (
	"context"

	"github.com/ukydev/transitland-client/internal/models"
)

// Display caps. Presentation policy for large result sets; the query
// pipeline itself is unbounded.
const (
	FleetDisplayCap   = 100
	BacklogDisplayCap = 10
)

// DataAccess is the remote collaborator the view models consume. The HTTP
// client in internal/api satisfies it; tests substitute fakes.
type DataAccess interface {
	Buses(ctx context.Context, garage string) ([]models.Bus, error)
	Bus(ctx context.Context, id string) (models.Bus, error)
	WorkOrders(ctx context.Context) ([]models.WorkOrder, error)
	CreateWorkOrder(ctx context.Context, req models.CreateWorkOrderRequest) (models.WorkOrder, error)
	FixWorkOrder(ctx context.Context, id int) error
	UsedParts(ctx context.Context, workOrderID int) ([]models.UsedPart, error)
	AddUsedPart(ctx context.Context, workOrderID int, req models.AddUsedPartRequest) (models.UsedPart, error)
	Inventory(ctx context.Context, garage string) ([]models.InventoryItem, error)
}
