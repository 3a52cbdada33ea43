// Package classify holds the pure derivation rules shared by every screen:
// bus status badges, preventive-maintenance due/overdue classification,
// inventory stock levels and severity ranking. No I/O, no side effects.
package classify

import "github.com/ukydev/transitland-client/internal/models"

// PMOverdueMiles is the mileage since last service beyond which a bus that
// is due for PM counts as overdue. Fixed domain constant, not configurable.
const PMOverdueMiles = 10000

// Tier is the visual severity of a badge
type Tier int

const (
	TierOK Tier = iota
	TierWarning
	TierCritical
	TierInfo
)

// Badge pairs a display label with a visual tier
type Badge struct {
	Label string
	Tier  Tier
}

// BusStatusBadge maps the server-supplied bus status to a badge. Statuses
// outside the known set fall back to an info badge rather than failing.
func BusStatusBadge(b models.Bus) Badge {
	switch b.Status {
	case models.StatusReady:
		return Badge{Label: string(b.Status), Tier: TierOK}
	case models.StatusNeedsMaintenance:
		return Badge{Label: string(b.Status), Tier: TierWarning}
	case models.StatusCritical:
		return Badge{Label: string(b.Status), Tier: TierCritical}
	default:
		return Badge{Label: string(b.Status), Tier: TierInfo}
	}
}

// BusStatusRank orders statuses for the "status" sort key: Critical first,
// then Needs Maintenance, then Ready. Unknown statuses sort with Ready.
func BusStatusRank(s models.BusStatus) int {
	switch s {
	case models.StatusCritical:
		return 0
	case models.StatusNeedsMaintenance:
		return 1
	default:
		return 2
	}
}

// PMState classifies a bus against its preventive-maintenance schedule
type PMState int

const (
	PMNotDue PMState = iota
	PMDue
	PMOverdue
)

// ClassifyPM returns NotDue whenever the due flag is unset, regardless of
// mileage values. Otherwise the bus is Due within PMOverdueMiles of its last
// service and Overdue beyond it.
func ClassifyPM(b models.Bus) PMState {
	if !b.DueForPM {
		return PMNotDue
	}
	if b.MileageSinceService() <= PMOverdueMiles {
		return PMDue
	}
	return PMOverdue
}

// PMBadge returns the badge layered on top of the status badge for buses
// with PM pending, or nil when none applies.
func PMBadge(b models.Bus) *Badge {
	switch ClassifyPM(b) {
	case PMDue:
		return &Badge{Label: "Due for PM", Tier: TierWarning}
	case PMOverdue:
		return &Badge{Label: "PM Overdue", Tier: TierCritical}
	default:
		return nil
	}
}

// StockLevel classifies an inventory item against its reorder threshold
type StockLevel int

const (
	StockCritical StockLevel = iota
	StockLow
	StockOK
)

// ClassifyStock partitions items into exactly one of Critical, Low, OK.
// The Critical check runs first: below threshold is Critical, at or above
// threshold but below twice the threshold is Low, everything else is OK.
func ClassifyStock(item models.InventoryItem) StockLevel {
	if item.Quantity < item.Threshold {
		return StockCritical
	}
	if item.Quantity < 2*item.Threshold {
		return StockLow
	}
	return StockOK
}

// StockBadge maps a stock level to its badge.
func StockBadge(item models.InventoryItem) Badge {
	switch ClassifyStock(item) {
	case StockCritical:
		return Badge{Label: "Critical", Tier: TierCritical}
	case StockLow:
		return Badge{Label: "Low", Tier: TierWarning}
	default:
		return Badge{Label: "OK", Tier: TierOK}
	}
}

// SeverityRank returns the sort rank of a work order's severity: SEV1 is 0,
// SEV2 is 1, SEV3 is 2 and a nil severity ranks last at 3. The rank is a
// sort key only; nil severity still renders distinctly (see SeverityLabel).
func SeverityRank(w models.WorkOrder) int {
	if w.Severity == nil {
		return 3
	}
	switch *w.Severity {
	case models.SeveritySEV1:
		return 0
	case models.SeveritySEV2:
		return 1
	case models.SeveritySEV3:
		return 2
	default:
		return 3
	}
}

// SeverityBadge renders the severity column of a work order. PM entries
// display "PM" regardless of severity; otherwise the severity name shows
// with its tier (SEV1 critical, SEV2 warning, SEV3 info).
func SeverityBadge(w models.WorkOrder) Badge {
	label := "PM"
	if !w.IsPM && w.Severity != nil {
		label = string(*w.Severity)
	}
	if w.Severity == nil {
		return Badge{Label: label, Tier: TierInfo}
	}
	switch *w.Severity {
	case models.SeveritySEV1:
		return Badge{Label: label, Tier: TierCritical}
	case models.SeveritySEV2:
		return Badge{Label: label, Tier: TierWarning}
	default:
		return Badge{Label: label, Tier: TierInfo}
	}
}
