package mockapi

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/ukydev/transitland-client/internal/models"
)

// Seed shape. Fixed RNG seed so every run serves the same fleet.
const (
	seedRandSource = 7

	totalBuses = 300
	maxNorth   = 24
	maxSouth   = 19

	seedSEV1Count      = 33
	seedSEV23Count     = 46
	seedPMDueCount     = 18
	seedPMOverdueCount = 22
	seedExtraSEV3Count = 10
)

var busModels = []string{"Volvo 7900", "New Flyer Xcelsior", "Gillig Low Floor"}

var issuePoolSEV1 = []string{
	"Engine overheating — immediate shutdown",
	"Brake hydraulic failure — unsafe to operate",
	"Steering loss — vehicle control compromised",
	"Transmission locked in gear — cannot shift",
	"Fuel leak detected — fire hazard",
	"Air brake compressor failure",
	"Major coolant system breach",
	"Loss of braking assist — urgent",
	"Severe electrical short causing stalls",
}

var issuePoolSEV2 = []string{
	"Door mechanism jammed intermittently",
	"AC cooling weak — needs service",
	"Suspension air leak — reduced ride quality",
	"Alternator output low — charging issues",
	"Wheelchair ramp sensor fault",
	"Exhaust clamp loose — excessive noise",
	"Intermittent engine misfire",
	"Fuel pressure regulator fault",
}

var issuePoolSEV3 = []string{
	"Broken passenger seat",
	"Wiper blades streaking",
	"Headlight bulb dim",
	"Minor body panel dent",
	"Seat fabric tear",
	"Interior light flicker",
	"Cabin heater low output",
	"Loose trim panel rattling",
}

type inventoryLine struct {
	name      string
	quantity  int
	threshold int
	garage    models.Garage
}

var inventoryLines = []inventoryLine{
	{"Brake Pads (Heavy Duty)", 8, 10, models.GarageNorth},
	{"Brake Pads (Heavy Duty)", 15, 10, models.GarageSouth},
	{"Engine Oil (Bulk Barrel)", 120, 50, models.GarageNorth},
	{"Engine Oil (Bulk Barrel)", 90, 50, models.GarageSouth},
	{"Air Filter (Engine)", 4, 5, models.GarageNorth},
	{"Air Filter (Engine)", 12, 5, models.GarageSouth},
	{"Front Tire (Standard)", 25, 10, models.GarageNorth},
	{"Front Tire (Standard)", 19, 10, models.GarageSouth},
	{"Wiper Blades (32-in)", 6, 5, models.GarageNorth},
	{"Wiper Blades (32-in)", 3, 5, models.GarageSouth},
	{"Alternator (Bosch)", 2, 5, models.GarageNorth},
	{"Alternator (Bosch)", 11, 5, models.GarageSouth},
	{"Headlight Bulb (LED)", 35, 10, models.GarageNorth},
	{"Headlight Bulb (LED)", 18, 10, models.GarageSouth},
	{"Starter Motor (Diesel)", 22, 10, models.GarageNorth},
	{"Starter Motor (Diesel)", 4, 10, models.GarageSouth},
	{"Coolant (Bulk)", 45, 15, models.GarageNorth},
	{"Coolant (Bulk)", 28, 15, models.GarageSouth},
	{"Fan Belt (Serpentine)", 3, 10, models.GarageNorth},
	{"Fan Belt (Serpentine)", 25, 10, models.GarageSouth},
	{"Fuel Injector (Common)", 7, 5, models.GarageNorth},
	{"Turbocharger (Model X)", 1, 5, models.GarageNorth},
	{"Seat Fabric Roll (Blue)", 15, 10, models.GarageNorth},
	{"North-Specific Lift Fluid", 60, 30, models.GarageNorth},
	{"Diagnostic Cable Set", 2, 5, models.GarageNorth},
	{"South-Specific Lift Fluid", 5, 30, models.GarageSouth},
	{"AC Compressor (Bus)", 3, 10, models.GarageSouth},
	{"Wheelchair Ramp Motor", 12, 5, models.GarageSouth},
	{"Body Panel (Side Door)", 8, 10, models.GarageSouth},
	{"Transmission Filter Kit", 7, 5, models.GarageSouth},
}

func garagePtr(g models.Garage) *models.Garage { return &g }

func severityPtr(sev models.Severity) *models.Severity { return &sev }

// seed populates the store with the demo dataset: three accounts, a
// 300-bus fleet split across the two garages and active service, a
// realistic spread of open work orders, and the full parts inventory.
func seed(s *Store) {
	rng := rand.New(rand.NewSource(seedRandSource))
	now := time.Now().UTC()

	s.accounts = []account{
		{
			user: models.User{
				ID: 1, Email: "jeff@transitland.com",
				Role:           models.RoleMaintenance,
				AssignedGarage: garagePtr(models.GarageNorth),
			},
			password: "jeff",
		},
		{
			user: models.User{
				ID: 2, Email: "tiff@transitland.com",
				Role:           models.RoleMaintenance,
				AssignedGarage: garagePtr(models.GarageSouth),
			},
			password: "tiff",
		},
		{
			user: models.User{
				ID: 3, Email: "mike@transitland.com",
				Role: models.RoleOperationManager,
			},
			password: "mike",
		},
	}

	northSet, southSet := garageAssignment(rng)
	garageBuses := make([]int, 0, maxNorth+maxSouth)

	for i := 1; i <= totalBuses; i++ {
		location := models.LocationOnService
		if northSet[i] {
			location = models.LocationNorthGarage
		} else if southSet[i] {
			location = models.LocationSouthGarage
		}

		mileage := 5000 + rng.Intn(145001)
		floor := mileage - 20000
		if floor < 0 {
			floor = 0
		}
		lastService := floor + rng.Intn(mileage-3560-floor+1)

		s.buses = append(s.buses, models.Bus{
			ID:                 fmt.Sprintf("TL-%d", i),
			Location:           location,
			Mileage:            mileage,
			LastServiceMileage: lastService,
			Model:              busModels[rng.Intn(len(busModels))],
		})
		if location != models.LocationOnService {
			garageBuses = append(garageBuses, len(s.buses)-1)
		}
	}

	// Buses already past the PM mark get flagged with an open PM order.
	for i := range s.buses {
		b := &s.buses[i]
		if b.Mileage-b.LastServiceMileage > pmTriggerMiles {
			b.DueForPM = true
			s.addSeedOrder(models.WorkOrder{
				BusID:       b.ID,
				Date:        now,
				ReportedBy:  "System",
				Description: "Periodic Preventive Maintenance",
				Status:      models.WorkOrderOpen,
				IsPM:        true,
			})
		}
	}

	issuePool := newSampler(rng, garageBuses)
	pmPool := newSampler(rng, garageBuses)

	for _, idx := range issuePool.take(seedSEV1Count) {
		s.addSeedOrder(models.WorkOrder{
			BusID:       s.buses[idx].ID,
			Date:        now,
			Severity:    severityPtr(models.SeveritySEV1),
			Description: issuePoolSEV1[rng.Intn(len(issuePoolSEV1))],
			Status:      models.WorkOrderOpen,
		})
	}

	for _, idx := range issuePool.take(seedSEV23Count) {
		sev := models.SeveritySEV2
		pool := issuePoolSEV2
		if rng.Intn(2) == 0 {
			sev = models.SeveritySEV3
			pool = issuePoolSEV3
		}
		s.addSeedOrder(models.WorkOrder{
			BusID:       s.buses[idx].ID,
			Date:        now,
			Severity:    severityPtr(sev),
			Description: pool[rng.Intn(len(pool))],
			Status:      models.WorkOrderOpen,
		})
	}

	// PM-due buses sit between the trigger and the overdue mark; PM-overdue
	// buses sit beyond it. Both draw from a pool that overlaps the issue
	// picks, so a bus can carry a breakdown and a PM entry at once.
	for _, idx := range pmPool.take(seedPMDueCount) {
		b := &s.buses[idx]
		b.LastServiceMileage = b.Mileage - (5001 + rng.Intn(4999))
		s.markPMDue(b, now)
	}
	for _, idx := range pmPool.take(seedPMOverdueCount) {
		b := &s.buses[idx]
		b.LastServiceMileage = b.Mileage - (10001 + rng.Intn(5000))
		s.markPMDue(b, now)
	}

	for _, idx := range issuePool.take(seedExtraSEV3Count) {
		s.addSeedOrder(models.WorkOrder{
			BusID:       s.buses[idx].ID,
			Date:        now,
			Severity:    severityPtr(models.SeveritySEV3),
			Description: issuePoolSEV3[rng.Intn(len(issuePoolSEV3))],
			Status:      models.WorkOrderOpen,
		})
	}

	for i, line := range inventoryLines {
		s.inventory = append(s.inventory, models.InventoryItem{
			ID:        i + 1,
			ItemName:  line.name,
			Quantity:  line.quantity,
			Threshold: line.threshold,
			Garage:    line.garage,
		})
	}
}

func (s *Store) addSeedOrder(wo models.WorkOrder) {
	wo.ID = s.nextOrderID
	s.nextOrderID++
	s.orders = append(s.orders, wo)
}

// markPMDue flags the bus and files a PM order unless one is already open.
func (s *Store) markPMDue(b *models.Bus, now time.Time) {
	b.DueForPM = true
	for _, wo := range s.orders {
		if wo.BusID == b.ID && wo.IsPM && wo.Status == models.WorkOrderOpen {
			return
		}
	}
	s.addSeedOrder(models.WorkOrder{
		BusID:       b.ID,
		Date:        now,
		ReportedBy:  "System",
		Description: "Periodic Preventive Maintenance",
		Status:      models.WorkOrderOpen,
		IsPM:        true,
	})
}

// garageAssignment picks which bus numbers park at each garage.
func garageAssignment(rng *rand.Rand) (north, south map[int]bool) {
	perm := rng.Perm(totalBuses)
	north = make(map[int]bool, maxNorth)
	south = make(map[int]bool, maxSouth)
	for _, p := range perm[:maxNorth] {
		north[p+1] = true
	}
	for _, p := range perm[maxNorth : maxNorth+maxSouth] {
		south[p+1] = true
	}
	return north, south
}

// sampler hands out random bus indices without repeats.
type sampler struct {
	rng  *rand.Rand
	pool []int
}

func newSampler(rng *rand.Rand, ids []int) *sampler {
	pool := make([]int, len(ids))
	copy(pool, ids)
	return &sampler{rng: rng, pool: pool}
}

func (sm *sampler) take(n int) []int {
	if n > len(sm.pool) {
		n = len(sm.pool)
	}
	out := make([]int, 0, n)
	for len(out) < n {
		i := sm.rng.Intn(len(sm.pool))
		out = append(out, sm.pool[i])
		sm.pool[i] = sm.pool[len(sm.pool)-1]
		sm.pool = sm.pool[:len(sm.pool)-1]
	}
	return out
}
