package views

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ukydev/transitland-client/internal/classify"
	"github.com/ukydev/transitland-client/internal/models"
	"github.com/ukydev/transitland-client/internal/query"
)

var (
	ErrQuantityNotPositive = errors.New("quantity must be positive")
	ErrInsufficientStock   = errors.New("not enough stock for that quantity")
	ErrUnknownInventoryID  = errors.New("unknown inventory item")
)

// BusDetail is the single-bus screen: header stats, open and historical
// work orders with their used parts, and the maintenance actions.
type BusDetail struct {
	BusID string

	Bus       models.Bus
	Orders    []models.WorkOrder // this bus only, newest first
	Inventory []models.InventoryItem
	Parts     map[int][]models.UsedPart // work order ID -> parts drawn
	Loaded    bool
}

// NewBusDetail creates a detail view for one bus.
func NewBusDetail(busID string) *BusDetail {
	return &BusDetail{BusID: busID}
}

// Reload fans out the bus, work-order and inventory fetches, joins them,
// then fetches used parts for this bus's orders. The view renders loaded
// only when everything has arrived; any failure keeps the prior state.
func (d *BusDetail) Reload(ctx context.Context, da DataAccess) error {
	var (
		bus    models.Bus
		orders []models.WorkOrder
		items  []models.InventoryItem
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bus, err = da.Bus(gctx, d.BusID)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = da.WorkOrders(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = da.Inventory(gctx, "")
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	mine := query.Filter(orders, func(w models.WorkOrder) bool { return w.BusID == d.BusID })
	mine = query.SortStable(mine, func(a, b models.WorkOrder) int {
		switch {
		case a.Date.After(b.Date):
			return -1
		case a.Date.Before(b.Date):
			return 1
		default:
			return 0
		}
	})

	// One slot per order so the goroutines never share a map.
	drawn := make([][]models.UsedPart, len(mine))
	pg, pctx := errgroup.WithContext(ctx)
	for i, wo := range mine {
		pg.Go(func() error {
			var err error
			drawn[i], err = da.UsedParts(pctx, wo.ID)
			return err
		})
	}
	if err := pg.Wait(); err != nil {
		return err
	}
	parts := make(map[int][]models.UsedPart, len(mine))
	for i, wo := range mine {
		parts[wo.ID] = drawn[i]
	}

	d.Bus = bus
	d.Orders = mine
	d.Inventory = items
	d.Parts = parts
	d.Loaded = true
	return nil
}

// OpenOrders returns this bus's open work orders, newest first.
func (d *BusDetail) OpenOrders() []models.WorkOrder {
	return query.Filter(d.Orders, func(w models.WorkOrder) bool { return w.Status == models.WorkOrderOpen })
}

// History returns this bus's fixed work orders, newest first.
func (d *BusDetail) History() []models.WorkOrder {
	return query.Filter(d.Orders, func(w models.WorkOrder) bool { return w.Status == models.WorkOrderFixed })
}

// PartLabel resolves a used part against the inventory snapshot, falling
// back to the raw ID when the item is no longer listed.
func (d *BusDetail) PartLabel(p models.UsedPart) string {
	for _, item := range d.Inventory {
		if item.ID == p.InventoryID {
			return item.ItemName
		}
	}
	return fmt.Sprintf("Item #%d", p.InventoryID)
}

// SinceServiceTier colors the since-last-service stat: critical past the
// PM overdue mark, warning past half of it, ok otherwise.
func (d *BusDetail) SinceServiceTier() classify.Tier {
	diff := d.Bus.MileageSinceService()
	switch {
	case diff > classify.PMOverdueMiles:
		return classify.TierCritical
	case diff > classify.PMOverdueMiles/2:
		return classify.TierWarning
	default:
		return classify.TierOK
	}
}

// CreateWorkOrder files a work order against this bus and reloads. A
// failed create leaves the view untouched.
func (d *BusDetail) CreateWorkOrder(ctx context.Context, da DataAccess, description string, severity models.Severity, reportedBy string) error {
	_, err := da.CreateWorkOrder(ctx, models.CreateWorkOrderRequest{
		BusID:       d.BusID,
		Description: description,
		Severity:    &severity,
		ReportedBy:  reportedBy,
	})
	if err != nil {
		return err
	}
	return d.Reload(ctx, da)
}

// MarkFixed closes a work order and reloads.
func (d *BusDetail) MarkFixed(ctx context.Context, da DataAccess, workOrderID int) error {
	if err := da.FixWorkOrder(ctx, workOrderID); err != nil {
		return err
	}
	return d.Reload(ctx, da)
}

// AddPart records a parts draw against a work order after checking the
// request against the local inventory snapshot, then reloads so the
// decremented quantities come back from the server.
func (d *BusDetail) AddPart(ctx context.Context, da DataAccess, workOrderID, inventoryID, quantity int) error {
	if quantity <= 0 {
		return ErrQuantityNotPositive
	}
	item, ok := d.inventoryItem(inventoryID)
	if !ok {
		return ErrUnknownInventoryID
	}
	if item.Quantity < quantity {
		return ErrInsufficientStock
	}

	_, err := da.AddUsedPart(ctx, workOrderID, models.AddUsedPartRequest{
		InventoryID:  inventoryID,
		QuantityUsed: quantity,
	})
	if err != nil {
		return err
	}
	return d.Reload(ctx, da)
}

func (d *BusDetail) inventoryItem(id int) (models.InventoryItem, bool) {
	for _, item := range d.Inventory {
		if item.ID == id {
			return item, true
		}
	}
	return models.InventoryItem{}, false
}
