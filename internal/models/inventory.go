package models

// InventoryItem represents a spare-part stock line at a garage
type InventoryItem struct {
	ID        int    `json:"id"`
	ItemName  string `json:"item_name"`
	Quantity  int    `json:"quantity"`
	Threshold int    `json:"threshold"` // reorder trigger
	Garage    Garage `json:"garage"`
}

// UsedPart records inventory consumed while resolving a work order.
// The server decrements the referenced item's quantity; the client only
// re-fetches inventory after creating one.
type UsedPart struct {
	ID           int `json:"id"`
	InventoryID  int `json:"inventory_id"`
	WorkOrderID  int `json:"work_order_id"`
	QuantityUsed int `json:"quantity_used"`
}

// AddUsedPartRequest is the payload for recording a parts draw
type AddUsedPartRequest struct {
	InventoryID  int `json:"inventory_id"`
	WorkOrderID  int `json:"work_order_id"`
	QuantityUsed int `json:"quantity_used"`
}
