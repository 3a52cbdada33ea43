package views

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukydev/transitland-client/internal/classify"
	"github.com/ukydev/transitland-client/internal/models"
	"github.com/ukydev/transitland-client/internal/query"
)

// fakeAPI is an in-memory DataAccess double. Err poisons every call.
type fakeAPI struct {
	buses     []models.Bus
	orders    []models.WorkOrder
	inventory []models.InventoryItem
	parts     map[int][]models.UsedPart

	err         error
	createCalls []models.CreateWorkOrderRequest
	fixCalls    []int
	partCalls   []models.AddUsedPartRequest
}

func (f *fakeAPI) Buses(ctx context.Context, garage string) ([]models.Bus, error) {
	return f.buses, f.err
}

func (f *fakeAPI) Bus(ctx context.Context, id string) (models.Bus, error) {
	if f.err != nil {
		return models.Bus{}, f.err
	}
	for _, b := range f.buses {
		if b.ID == id {
			return b, nil
		}
	}
	return models.Bus{}, errors.New("bus not found")
}

func (f *fakeAPI) WorkOrders(ctx context.Context) ([]models.WorkOrder, error) {
	return f.orders, f.err
}

func (f *fakeAPI) CreateWorkOrder(ctx context.Context, req models.CreateWorkOrderRequest) (models.WorkOrder, error) {
	if f.err != nil {
		return models.WorkOrder{}, f.err
	}
	f.createCalls = append(f.createCalls, req)
	wo := models.WorkOrder{
		ID: 1000 + len(f.createCalls), BusID: req.BusID, Description: req.Description,
		Severity: req.Severity, ReportedBy: req.ReportedBy, Status: models.WorkOrderOpen,
		Date: time.Now().UTC(),
	}
	f.orders = append(f.orders, wo)
	return wo, nil
}

func (f *fakeAPI) FixWorkOrder(ctx context.Context, id int) error {
	if f.err != nil {
		return f.err
	}
	f.fixCalls = append(f.fixCalls, id)
	for i := range f.orders {
		if f.orders[i].ID == id {
			f.orders[i].Status = models.WorkOrderFixed
		}
	}
	return nil
}

func (f *fakeAPI) UsedParts(ctx context.Context, workOrderID int) ([]models.UsedPart, error) {
	return f.parts[workOrderID], f.err
}

func (f *fakeAPI) AddUsedPart(ctx context.Context, workOrderID int, req models.AddUsedPartRequest) (models.UsedPart, error) {
	if f.err != nil {
		return models.UsedPart{}, f.err
	}
	req.WorkOrderID = workOrderID
	f.partCalls = append(f.partCalls, req)
	return models.UsedPart{ID: 1, InventoryID: req.InventoryID, WorkOrderID: workOrderID, QuantityUsed: req.QuantityUsed}, nil
}

func (f *fakeAPI) Inventory(ctx context.Context, garage string) ([]models.InventoryItem, error) {
	return f.inventory, f.err
}

func sev(s models.Severity) *models.Severity { return &s }

func date(day int) time.Time {
	return time.Date(2025, 3, day, 12, 0, 0, 0, time.UTC)
}

func fleetFixture() []models.Bus {
	return []models.Bus{
		{ID: "B1", Location: models.LocationOnService, Status: models.StatusReady, Mileage: 52000, LastServiceMileage: 40000, DueForPM: true},
		{ID: "B2", Location: models.LocationNorthGarage, Status: models.StatusCritical, Mileage: 44000, LastServiceMileage: 40000, DueForPM: true},
		{ID: "B3", Location: models.LocationNorthGarage, Status: models.StatusNeedsMaintenance, Mileage: 30000, LastServiceMileage: 28000},
		{ID: "B4", Location: models.LocationSouthGarage, Status: models.StatusReady, Mileage: 15000, LastServiceMileage: 14000},
		{ID: "B5", Location: models.LocationOnService, Status: models.StatusReady, Mileage: 61000, LastServiceMileage: 60000},
	}
}

func TestDashboard_Aggregate(t *testing.T) {
	api := &fakeAPI{
		buses: fleetFixture(),
		orders: []models.WorkOrder{
			{ID: 1, BusID: "B2", Severity: sev(models.SeveritySEV2), Status: models.WorkOrderOpen, Date: date(1)},
			{ID: 2, BusID: "B3", Severity: sev(models.SeveritySEV1), Status: models.WorkOrderOpen, Date: date(2)},
			{ID: 3, BusID: "B1", Severity: nil, IsPM: true, Status: models.WorkOrderOpen, Date: date(3)},
			{ID: 4, BusID: "B4", Severity: sev(models.SeveritySEV1), Status: models.WorkOrderFixed, Date: date(4)},
		},
		inventory: []models.InventoryItem{
			{ID: 1, ItemName: "Brake Pads", Quantity: 5, Threshold: 10, Garage: models.GarageNorth},
			{ID: 2, ItemName: "Oil Filter", Quantity: 15, Threshold: 10, Garage: models.GarageSouth},
			{ID: 3, ItemName: "Coolant", Quantity: 25, Threshold: 10, Garage: models.GarageNorth},
		},
	}

	var d Dashboard
	require.NoError(t, d.Reload(context.Background(), api))
	require.True(t, d.Loaded)

	agg := d.Aggregate()
	assert.Equal(t, 5, agg.TotalBuses)
	assert.Equal(t, 2, agg.ActiveBuses)
	assert.Equal(t, 3, agg.InMaintenance)
	assert.InDelta(t, 40.0, agg.ActivePercent, 0.001)
	assert.InDelta(t, 60.0, agg.MaintenancePercent, 0.001)

	// B1 is overdue (diff 12000), B2 merely due (diff 4000).
	assert.Equal(t, 1, agg.OverduePM)
	assert.Equal(t, 1, agg.CriticalInventory)

	assert.Equal(t, GarageBreakdown{Total: 2, Critical: 1, NeedsMaintenance: 1}, agg.North)
	assert.Equal(t, GarageBreakdown{Total: 1, Ready: 1}, agg.South)

	// Backlog: open only, severity rank dominates date.
	require.Len(t, agg.Backlog, 3)
	assert.Equal(t, 2, agg.Backlog[0].ID) // SEV1
	assert.Equal(t, 1, agg.Backlog[1].ID) // SEV2
	assert.Equal(t, 3, agg.Backlog[2].ID) // PM (nil severity)

	// Inventory rows come back critical-first.
	assert.Equal(t, "Brake Pads", agg.InventoryRows[0].ItemName)
}

func TestDashboard_BacklogSeverityDominatesDate(t *testing.T) {
	var d Dashboard
	d.Orders = []models.WorkOrder{
		{ID: 1, Severity: sev(models.SeveritySEV2), Status: models.WorkOrderOpen, Date: date(1)},
		{ID: 2, Severity: sev(models.SeveritySEV1), Status: models.WorkOrderOpen, Date: date(2)},
		{ID: 3, Severity: nil, IsPM: true, Status: models.WorkOrderOpen, Date: date(3)},
	}

	backlog := d.Aggregate().Backlog
	require.Len(t, backlog, 3)
	assert.Equal(t, models.SeveritySEV1, *backlog[0].Severity)
	assert.Equal(t, models.SeveritySEV2, *backlog[1].Severity)
	assert.Nil(t, backlog[2].Severity)
}

func TestDashboard_EmptyFleetPercentages(t *testing.T) {
	var d Dashboard
	agg := d.Aggregate()

	assert.Equal(t, 0, agg.TotalBuses)
	assert.Equal(t, 0.0, agg.ActivePercent)
	assert.Equal(t, 0.0, agg.MaintenancePercent)
	assert.Equal(t, 0.0, agg.OverduePMPercent)
}

func TestDashboard_FailedReloadKeepsSnapshot(t *testing.T) {
	api := &fakeAPI{buses: fleetFixture()}
	var d Dashboard
	require.NoError(t, d.Reload(context.Background(), api))

	api.err = errors.New("network down")
	err := d.Reload(context.Background(), api)
	require.Error(t, err)
	assert.Len(t, d.Buses, 5)
	assert.True(t, d.Loaded)
}

func TestFleet_FilterSearchSort(t *testing.T) {
	api := &fakeAPI{buses: fleetFixture()}
	f := NewFleet()
	require.NoError(t, f.Reload(context.Background(), api))

	// Default: everything, by ID ascending.
	rows := f.Rows()
	require.Len(t, rows, 5)
	assert.Equal(t, "B1", rows[0].ID)

	// Location filter composes with PM filter by AND.
	f.Criteria.Filters[FilterLocation] = string(models.LocationNorthGarage)
	f.Criteria.Filters[FilterPM] = PMFilterDue
	rows = f.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "B2", rows[0].ID)

	// Reset filters, sort by status: Critical, Needs Maintenance, Ready.
	f.Criteria.Filters[FilterLocation] = query.All
	f.Criteria.Filters[FilterPM] = query.All
	f.Criteria.SortBy = SortByStatus
	rows = f.Rows()
	assert.Equal(t, "B2", rows[0].ID)
	assert.Equal(t, "B3", rows[1].ID)

	// Search is a case-insensitive substring on the bus ID.
	f.Criteria.Search = "b4"
	rows = f.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "B4", rows[0].ID)

	total, ready, critical := f.Summary()
	assert.Equal(t, 5, total)
	assert.Equal(t, 3, ready)
	assert.Equal(t, 1, critical)
}

func TestFleet_ToggleSort(t *testing.T) {
	f := NewFleet()

	f.ToggleSort(SortByMileage)
	assert.Equal(t, SortByMileage, f.Criteria.SortBy)
	assert.Equal(t, query.Ascending, f.Criteria.Direction)

	f.ToggleSort(SortByMileage)
	assert.Equal(t, query.Descending, f.Criteria.Direction)

	f.ToggleSort(SortByID)
	assert.Equal(t, SortByID, f.Criteria.SortBy)
	assert.Equal(t, query.Ascending, f.Criteria.Direction)
}

func TestWorkOrdersBoard_MaintenanceDefaults(t *testing.T) {
	north := models.GarageNorth
	tech := models.User{Role: models.RoleMaintenance, AssignedGarage: &north}

	api := &fakeAPI{buses: fleetFixture()}
	b := NewWorkOrdersBoard(tech)
	require.NoError(t, b.Reload(context.Background(), api))

	// Scoped to North Garage, Ready hidden: B2 and B3 remain, critical first.
	rows := b.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "B2", rows[0].ID)
	assert.Equal(t, "B3", rows[1].ID)

	// Opting into all garages widens the scope but still hides Ready.
	b.ShowAllGarages = true
	rows = b.Rows()
	require.Len(t, rows, 2)

	// A freshly entered board resets to the role default.
	b = NewWorkOrdersBoard(tech)
	require.NoError(t, b.Reload(context.Background(), api))
	assert.False(t, b.ShowAllGarages)

	b.OnlyCritical = true
	rows = b.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "B2", rows[0].ID)
}

func TestWorkOrdersBoard_ManagerSeesEverything(t *testing.T) {
	mgr := models.User{Role: models.RoleOperationManager}
	api := &fakeAPI{buses: fleetFixture()}

	b := NewWorkOrdersBoard(mgr)
	require.NoError(t, b.Reload(context.Background(), api))

	rows := b.Rows()
	require.Len(t, rows, 5)
	// Status sort: critical first, Ready buses keep their input order last.
	assert.Equal(t, "B2", rows[0].ID)
	assert.Equal(t, "B3", rows[1].ID)
	assert.Equal(t, "B1", rows[2].ID)
}

func TestInventoryView_RoleDefaultAndOverride(t *testing.T) {
	api := &fakeAPI{inventory: []models.InventoryItem{
		{ID: 1, ItemName: "Brake Pads", Quantity: 5, Threshold: 10, Garage: models.GarageNorth},
		{ID: 2, ItemName: "Oil Filter", Quantity: 15, Threshold: 10, Garage: models.GarageSouth},
		{ID: 3, ItemName: "Coolant", Quantity: 25, Threshold: 10, Garage: models.GarageNorth},
	}}

	// Technician defaults to their garage.
	v := NewInventoryView("North")
	require.NoError(t, v.Reload(context.Background(), api))
	rows := v.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "Brake Pads", rows[0].ItemName) // critical first
	critical, low := v.Counts()
	assert.Equal(t, 1, critical)
	assert.Equal(t, 0, low)

	// Explicit garage choice overrides the default for this view session.
	v.GarageFilter = "South"
	rows = v.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "Oil Filter", rows[0].ItemName)

	// Manager default is unscoped.
	v = NewInventoryView(query.All)
	require.NoError(t, v.Reload(context.Background(), api))
	assert.Len(t, v.Rows(), 3)
}

func TestBusDetail_LoadAndSplit(t *testing.T) {
	api := &fakeAPI{
		buses: fleetFixture(),
		orders: []models.WorkOrder{
			{ID: 1, BusID: "B2", Severity: sev(models.SeveritySEV1), Status: models.WorkOrderOpen, Date: date(2)},
			{ID: 2, BusID: "B2", Severity: sev(models.SeveritySEV3), Status: models.WorkOrderFixed, Date: date(1)},
			{ID: 3, BusID: "B4", Severity: sev(models.SeveritySEV2), Status: models.WorkOrderOpen, Date: date(3)},
		},
		inventory: []models.InventoryItem{
			{ID: 4, ItemName: "Brake Pads", Quantity: 8, Threshold: 5, Garage: models.GarageNorth},
		},
		parts: map[int][]models.UsedPart{
			2: {{ID: 1, InventoryID: 4, WorkOrderID: 2, QuantityUsed: 2}},
		},
	}

	d := NewBusDetail("B2")
	require.NoError(t, d.Reload(context.Background(), api))
	require.True(t, d.Loaded)

	assert.Equal(t, "B2", d.Bus.ID)
	require.Len(t, d.Orders, 2) // other buses' orders excluded
	assert.Equal(t, 1, d.Orders[0].ID)

	open := d.OpenOrders()
	require.Len(t, open, 1)
	assert.Equal(t, 1, open[0].ID)
	history := d.History()
	require.Len(t, history, 1)
	assert.Equal(t, 2, history[0].ID)

	assert.Equal(t, "Brake Pads", d.PartLabel(models.UsedPart{InventoryID: 4}))
	assert.Equal(t, "Item #99", d.PartLabel(models.UsedPart{InventoryID: 99}))
}

func TestBusDetail_SinceServiceTier(t *testing.T) {
	d := NewBusDetail("B1")

	d.Bus = models.Bus{Mileage: 52000, LastServiceMileage: 40000}
	assert.Equal(t, classify.TierCritical, d.SinceServiceTier())

	d.Bus = models.Bus{Mileage: 46000, LastServiceMileage: 40000}
	assert.Equal(t, classify.TierWarning, d.SinceServiceTier())

	d.Bus = models.Bus{Mileage: 44000, LastServiceMileage: 40000}
	assert.Equal(t, classify.TierOK, d.SinceServiceTier())

	// Negative diff renders plainly as ok; no special casing.
	d.Bus = models.Bus{Mileage: 30000, LastServiceMileage: 40000}
	assert.Equal(t, classify.TierOK, d.SinceServiceTier())
}

func TestBusDetail_Actions(t *testing.T) {
	api := &fakeAPI{
		buses: fleetFixture(),
		orders: []models.WorkOrder{
			{ID: 1, BusID: "B2", Severity: sev(models.SeveritySEV2), Status: models.WorkOrderOpen, Date: date(1)},
		},
		inventory: []models.InventoryItem{
			{ID: 4, ItemName: "Brake Pads", Quantity: 3, Threshold: 5, Garage: models.GarageNorth},
		},
	}

	d := NewBusDetail("B2")
	require.NoError(t, d.Reload(context.Background(), api))

	// Create then reload picks up the new order.
	err := d.CreateWorkOrder(context.Background(), api, "Door actuator sticking", models.SeveritySEV3, "jeff@transitland.com")
	require.NoError(t, err)
	require.Len(t, api.createCalls, 1)
	assert.Equal(t, "B2", api.createCalls[0].BusID)
	assert.Len(t, d.OpenOrders(), 2)

	// Part draws are validated against the local snapshot first.
	assert.ErrorIs(t, d.AddPart(context.Background(), api, 1, 4, 0), ErrQuantityNotPositive)
	assert.ErrorIs(t, d.AddPart(context.Background(), api, 1, 4, 10), ErrInsufficientStock)
	assert.ErrorIs(t, d.AddPart(context.Background(), api, 1, 123, 1), ErrUnknownInventoryID)
	assert.Empty(t, api.partCalls)

	require.NoError(t, d.AddPart(context.Background(), api, 1, 4, 2))
	require.Len(t, api.partCalls, 1)
	assert.Equal(t, 1, api.partCalls[0].WorkOrderID)

	// Mark fixed moves the order into history after the reload.
	require.NoError(t, d.MarkFixed(context.Background(), api, 1))
	assert.Len(t, api.fixCalls, 1)
	assert.Len(t, d.History(), 1)
}

func TestBusDetail_FailedActionLeavesStateUntouched(t *testing.T) {
	api := &fakeAPI{
		buses: fleetFixture(),
		orders: []models.WorkOrder{
			{ID: 1, BusID: "B2", Severity: sev(models.SeveritySEV2), Status: models.WorkOrderOpen, Date: date(1)},
		},
		inventory: []models.InventoryItem{
			{ID: 4, ItemName: "Brake Pads", Quantity: 3, Threshold: 5, Garage: models.GarageNorth},
		},
	}

	d := NewBusDetail("B2")
	require.NoError(t, d.Reload(context.Background(), api))
	before := len(d.OpenOrders())

	api.err = errors.New("boom")
	err := d.CreateWorkOrder(context.Background(), api, "x", models.SeveritySEV3, "jeff")
	require.Error(t, err)
	assert.Equal(t, before, len(d.OpenOrders()))
}
