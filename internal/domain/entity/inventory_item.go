package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Valores por defecto al crear ítems implícitamente (resolveOrCreateItem).
const (
	DefaultRestockThreshold = 3
	DefaultRestockQty       = 10
	DefaultUnit             = "pcs"
)

// InventoryItem existencia de un material en bodega.
// Quantity nunca es negativa: una deducción que la dejaría bajo cero se
// rechaza con ErrInsufficientStock en lugar de aplicarse.
type InventoryItem struct {
	ID               string
	Name             string
	Quantity         int64
	Unit             string
	RestockThreshold int64 // al cruzar por debajo se genera auto-requisición
	RestockQty       int64 // cantidad de la auto-requisición
	UnitPrice        decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// BelowThreshold indica si el stock actual quedó bajo el umbral de reposición.
func (i *InventoryItem) BelowThreshold() bool {
	return i.Quantity < i.RestockThreshold
}

// AutoRestockEntry registro de observabilidad: qué ítems dispararon una
// auto-requisición y cuándo. No afecta el estado del workflow.
type AutoRestockEntry struct {
	ID            string
	ItemID        string
	ItemName      string
	Quantity      int64
	RequisitionID string
	CreatedAt     time.Time
}
