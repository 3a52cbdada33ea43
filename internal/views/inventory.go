package views

import (
	"context"

	"github.com/ukydev/transitland-client/internal/classify"
	"github.com/ukydev/transitland-client/internal/models"
	"github.com/ukydev/transitland-client/internal/query"
)

// InventoryView is the spare-parts screen. GarageFilter holds the explicit
// user choice; while it is query.All the role default applies. The field
// is view-local and resets to the default on every fresh entry.
type InventoryView struct {
	defaultGarage string

	GarageFilter string
	items        []models.InventoryItem
	Loaded       bool
}

// NewInventoryView creates an inventory view with the role's default
// garage scope (query.All for operation managers).
func NewInventoryView(defaultGarage string) *InventoryView {
	return &InventoryView{defaultGarage: defaultGarage, GarageFilter: query.All}
}

// Reload fetches all stock lines; scoping happens client-side so toggling
// garages never refetches. A failure keeps the previous list.
func (v *InventoryView) Reload(ctx context.Context, da DataAccess) error {
	items, err := da.Inventory(ctx, query.All)
	if err != nil {
		return err
	}
	v.items = items
	v.Loaded = true
	return nil
}

// Rows returns the visible stock lines: garage-scoped, critical lines
// first, ties in fetch order.
func (v *InventoryView) Rows() []models.InventoryItem {
	garage := v.GarageFilter
	if garage == query.All {
		garage = v.defaultGarage
	}

	items := v.items
	if garage != query.All {
		items = query.Filter(items, func(item models.InventoryItem) bool {
			return string(item.Garage) == garage
		})
	}

	return query.SortStable(items, func(a, b models.InventoryItem) int {
		return int(classify.ClassifyStock(a)) - int(classify.ClassifyStock(b))
	})
}

// Counts tallies critical and low lines among the visible rows for the
// header line.
func (v *InventoryView) Counts() (critical, low int) {
	for _, item := range v.Rows() {
		switch classify.ClassifyStock(item) {
		case classify.StockCritical:
			critical++
		case classify.StockLow:
			low++
		}
	}
	return critical, low
}
