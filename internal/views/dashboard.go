package views

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ukydev/transitland-client/internal/classify"
	"github.com/ukydev/transitland-client/internal/models"
	"github.com/ukydev/transitland-client/internal/query"
)

// Dashboard is the operations-manager landing screen: KPI cards, per-garage
// breakdowns, the prioritized backlog and the inventory control table.
type Dashboard struct {
	Buses     []models.Bus
	Orders    []models.WorkOrder
	Inventory []models.InventoryItem
	Loaded    bool
}

// Reload fetches buses, work orders and inventory concurrently and applies
// them only once all three succeed. On any failure the previous snapshot
// stays intact.
func (d *Dashboard) Reload(ctx context.Context, da DataAccess) error {
	var (
		buses  []models.Bus
		orders []models.WorkOrder
		items  []models.InventoryItem
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		buses, err = da.Buses(gctx, "")
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

	d.Buses = buses
	d.Orders = orders
	d.Inventory = items
	d.Loaded = true
	return nil
}

// GarageBreakdown counts buses by status within one garage
type GarageBreakdown struct {
	Total            int
	Ready            int
	Critical         int
	NeedsMaintenance int
}

// Aggregate is the pure reduction the dashboard renders
type Aggregate struct {
	TotalBuses         int
	ActiveBuses        int // location = On Service
	InMaintenance      int // total - active
	ActivePercent      float64
	MaintenancePercent float64
	OverduePM          int
	OverduePMPercent   float64
	CriticalInventory  int
	North              GarageBreakdown
	South              GarageBreakdown
	Backlog            []models.WorkOrder     // open, severity then date, capped
	InventoryRows      []models.InventoryItem // critical lines first
}

// Aggregate reduces the current snapshot. All percentages guard the empty
// fleet: zero buses yields 0%, never a division error.
func (d *Dashboard) Aggregate() Aggregate {
	agg := Aggregate{TotalBuses: len(d.Buses)}

	for _, b := range d.Buses {
		if b.Location == models.LocationOnService {
			agg.ActiveBuses++
		}
		if classify.ClassifyPM(b) == classify.PMOverdue {
			agg.OverduePM++
		}
		switch b.Location {
		case models.LocationNorthGarage:
			countStatus(&agg.North, b)
		case models.LocationSouthGarage:
			countStatus(&agg.South, b)
		}
	}
	agg.InMaintenance = agg.TotalBuses - agg.ActiveBuses

	if agg.TotalBuses > 0 {
		agg.ActivePercent = float64(agg.ActiveBuses) / float64(agg.TotalBuses) * 100
		agg.MaintenancePercent = float64(agg.InMaintenance) / float64(agg.TotalBuses) * 100
		agg.OverduePMPercent = float64(agg.OverduePM) / float64(agg.TotalBuses) * 100
	}

	for _, item := range d.Inventory {
		if classify.ClassifyStock(item) == classify.StockCritical {
			agg.CriticalInventory++
		}
	}

	agg.Backlog = query.Truncate(backlog(d.Orders), BacklogDisplayCap)
	agg.InventoryRows = query.SortStable(d.Inventory, func(a, b models.InventoryItem) int {
		return int(classify.ClassifyStock(a)) - int(classify.ClassifyStock(b))
	})
	return agg
}

func countStatus(g *GarageBreakdown, b models.Bus) {
	g.Total++
	switch b.Status {
	case models.StatusReady:
		g.Ready++
	case models.StatusCritical:
		g.Critical++
	case models.StatusNeedsMaintenance:
		g.NeedsMaintenance++
	}
}

// backlog orders the open work orders by severity rank ascending, breaking
// ties by date ascending. Severity dominates date.
func backlog(orders []models.WorkOrder) []models.WorkOrder {
	open := query.Filter(orders, func(w models.WorkOrder) bool {
		return w.Status == models.WorkOrderOpen
	})
	return query.SortStable(open, func(a, b models.WorkOrder) int {
		if r := classify.SeverityRank(a) - classify.SeverityRank(b); r != 0 {
			return r
		}
		switch {
		case a.Date.Before(b.Date):
			return -1
		case a.Date.After(b.Date):
			return 1
		default:
			return 0
		}
	})
}
