// Package mockapi is an in-memory implementation of the Transitland REST
// API for local development and demos. It mirrors the production server's
// observable behavior: computed bus status, PM triggers on mileage
// updates, inventory decrements on part draws.
package mockapi

import (
	"errors"
	"sync"
	"time"

	"github.com/ukydev/transitland-client/internal/models"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrBadCredentials      = errors.New("incorrect username or password")
	ErrForbidden           = errors.New("forbidden")
	ErrInsufficientStock   = errors.New("insufficient inventory quantity")
	ErrGarageMismatch      = errors.New("inventory item not in user's garage")
	ErrNoAssignedGarage    = errors.New("maintenance user missing assigned garage")
	ErrQuantityNotPositive = errors.New("quantity must be positive")
)

// pmTriggerMiles is the wear at which a mileage update flags a bus for PM
// and auto-files a PM work order.
const pmTriggerMiles = 5000

type account struct {
	user     models.User
	password string
}

// Store holds the mock dataset behind a single lock. Handlers are the only
// callers, so the coarse lock is plenty.
type Store struct {
	mu        sync.Mutex
	accounts  []account
	buses     []models.Bus
	orders    []models.WorkOrder
	inventory []models.InventoryItem
	parts     []models.UsedPart

	nextOrderID int
	nextPartID  int
}

// NewStore creates a store with the standard seed dataset.
func NewStore() *Store {
	s := &Store{nextOrderID: 1, nextPartID: 1}
	seed(s)
	return s
}

// Authenticate checks credentials and returns the bearer token. Tokens are
// the user's email, exactly like the development server this mimics.
func (s *Store) Authenticate(email, password string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.user.Email == email && a.password == password {
			return a.user.Email, nil
		}
	}
	return "", ErrBadCredentials
}

// UserByToken resolves a bearer token back to its identity.
func (s *Store) UserByToken(token string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.user.Email == token {
			return a.user, nil
		}
	}
	return models.User{}, ErrNotFound
}

// busStatus derives the operational status from the bus's open work
// orders: any open SEV1 makes it Critical, any other open severity-bearing
// order makes it Needs Maintenance, otherwise Ready. PM entries with nil
// severity never affect status.
func (s *Store) busStatus(busID string) models.BusStatus {
	status := models.StatusReady
	for _, wo := range s.orders {
		if wo.BusID != busID || wo.Status != models.WorkOrderOpen || wo.Severity == nil {
			continue
		}
		if *wo.Severity == models.SeveritySEV1 {
			return models.StatusCritical
		}
		status = models.StatusNeedsMaintenance
	}
	return status
}

// Buses lists the fleet with computed statuses, optionally garage-scoped.
func (s *Store) Buses(garage string) []models.Bus {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Bus, 0, len(s.buses))
	for _, b := range s.buses {
		switch garage {
		case string(models.GarageNorth):
			if b.Location != models.LocationNorthGarage {
				continue
			}
		case string(models.GarageSouth):
			if b.Location != models.LocationSouthGarage {
				continue
			}
		}
		b.Status = s.busStatus(b.ID)
		out = append(out, b)
	}
	return out
}

// Bus fetches one bus with its computed status.
func (s *Store) Bus(id string) (models.Bus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.buses {
		if b.ID == id {
			b.Status = s.busStatus(b.ID)
			return b, nil
		}
	}
	return models.Bus{}, ErrNotFound
}

// UpdateMileage records a new odometer reading and runs the PM trigger:
// once wear passes pmTriggerMiles the bus is flagged and a PM work order
// is filed on its behalf.
func (s *Store) UpdateMileage(busID string, mileage int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.buses {
		b := &s.buses[i]
		if b.ID != busID {
			continue
		}
		b.Mileage = mileage
		if b.Mileage-b.LastServiceMileage > pmTriggerMiles && !b.DueForPM {
			b.DueForPM = true
			// PM entries carry no severity, matching the seeded ones;
			// status derivation skips them either way.
			s.orders = append(s.orders, models.WorkOrder{
				ID:          s.nextOrderID,
				BusID:       b.ID,
				Date:        time.Now().UTC(),
				ReportedBy:  "System",
				Description: "Periodic Preventive Maintenance",
				Status:      models.WorkOrderOpen,
				IsPM:        true,
			})
			s.nextOrderID++
		}
		return nil
	}
	return ErrNotFound
}

// WorkOrders lists every work order.
func (s *Store) WorkOrders() []models.WorkOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.WorkOrder, len(s.orders))
	copy(out, s.orders)
	return out
}

// CreateWorkOrder files a new open work order.
func (s *Store) CreateWorkOrder(req models.CreateWorkOrderRequest) (models.WorkOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wo := models.WorkOrder{
		ID:          s.nextOrderID,
		BusID:       req.BusID,
		Date:        time.Now().UTC(),
		ReportedBy:  req.ReportedBy,
		Severity:    req.Severity,
		Description: req.Description,
		Status:      models.WorkOrderOpen,
		IsPM:        req.IsPM,
	}
	s.nextOrderID++
	s.orders = append(s.orders, wo)
	return wo, nil
}

// FixWorkOrder closes a work order. Fixing a PM entry resolves the bus's
// PM state: last service mileage catches up and the due flag clears.
func (s *Store) FixWorkOrder(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		wo := &s.orders[i]
		if wo.ID != id {
			continue
		}
		wo.Status = models.WorkOrderFixed
		if wo.IsPM {
			for j := range s.buses {
				if s.buses[j].ID == wo.BusID {
					s.buses[j].LastServiceMileage = s.buses[j].Mileage
					s.buses[j].DueForPM = false
				}
			}
		}
		return nil
	}
	return ErrNotFound
}

// UsedParts lists the draws recorded against a work order.
func (s *Store) UsedParts(workOrderID int) []models.UsedPart {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.UsedPart, 0)
	for _, p := range s.parts {
		if p.WorkOrderID == workOrderID {
			out = append(out, p)
		}
	}
	return out
}

// AddUsedPart validates and records a parts draw, decrementing stock. Only
// maintenance technicians may draw, and only from their own garage.
func (s *Store) AddUsedPart(user models.User, workOrderID int, req models.AddUsedPartRequest) (models.UsedPart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.Role != models.RoleMaintenance {
		return models.UsedPart{}, ErrForbidden
	}
	if user.AssignedGarage == nil {
		return models.UsedPart{}, ErrNoAssignedGarage
	}
	if !s.orderExists(workOrderID) {
		return models.UsedPart{}, ErrNotFound
	}
	if req.QuantityUsed <= 0 {
		return models.UsedPart{}, ErrQuantityNotPositive
	}

	for i := range s.inventory {
		item := &s.inventory[i]
		if item.ID != req.InventoryID {
			continue
		}
		if item.Garage != *user.AssignedGarage {
			return models.UsedPart{}, ErrGarageMismatch
		}
		if item.Quantity < req.QuantityUsed {
			return models.UsedPart{}, ErrInsufficientStock
		}
		item.Quantity -= req.QuantityUsed

		part := models.UsedPart{
			ID:           s.nextPartID,
			InventoryID:  req.InventoryID,
			WorkOrderID:  workOrderID,
			QuantityUsed: req.QuantityUsed,
		}
		s.nextPartID++
		s.parts = append(s.parts, part)
		return part, nil
	}
	return models.UsedPart{}, ErrNotFound
}

// Inventory lists stock lines. Maintenance users default to their own
// garage when no explicit garage is requested.
func (s *Store) Inventory(user models.User, garage string) ([]models.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.Role == models.RoleMaintenance && garage == "" {
		if user.AssignedGarage == nil {
			return nil, ErrNoAssignedGarage
		}
		garage = string(*user.AssignedGarage)
	}

	out := make([]models.InventoryItem, 0, len(s.inventory))
	for _, item := range s.inventory {
		if garage != "" && string(item.Garage) != garage {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *Store) orderExists(id int) bool {
	for _, wo := range s.orders {
		if wo.ID == id {
			return true
		}
	}
	return false
}
