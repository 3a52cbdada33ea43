package models

import "time"

// Severity represents work order severity tiers, SEV1 most urgent
type Severity string

const (
	SeveritySEV1 Severity = "SEV1"
	SeveritySEV2 Severity = "SEV2"
	SeveritySEV3 Severity = "SEV3"
)

// WorkOrderStatus represents the lifecycle state of a work order
type WorkOrderStatus string

const (
	WorkOrderOpen  WorkOrderStatus = "Open"
	WorkOrderFixed WorkOrderStatus = "Fixed"
)

// WorkOrder represents a repair or maintenance request against a bus.
// Severity is nil for pure preventive-maintenance entries.
type WorkOrder struct {
	ID          int             `json:"id"`
	BusID       string          `json:"bus_id"`
	Date        time.Time       `json:"date"`
	ReportedBy  string          `json:"reported_by"`
	Severity    *Severity       `json:"severity"`
	Description string          `json:"description"`
	Status      WorkOrderStatus `json:"status"`
	IsPM        bool            `json:"is_pm"`
}

// Reporter returns who filed the work order, defaulting to "System"
// when the field is absent.
func (w *WorkOrder) Reporter() string {
	if w.ReportedBy == "" {
		return "System"
	}
	return w.ReportedBy
}

// CreateWorkOrderRequest is the payload for filing a new work order
type CreateWorkOrderRequest struct {
	BusID       string    `json:"bus_id"`
	Description string    `json:"description"`
	Severity    *Severity `json:"severity,omitempty"`
	ReportedBy  string    `json:"reported_by"`
	IsPM        bool      `json:"is_pm,omitempty"`
}
