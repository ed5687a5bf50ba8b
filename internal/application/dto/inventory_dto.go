package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mochkris/compras-api/internal/domain/entity"
)

// CreateItemRequest alta manual de un ítem de inventario.
type CreateItemRequest struct {
	Name             string  `json:"name" validate:"required"`
	Quantity         int64   `json:"quantity" validate:"gte=0"`
	Unit             string  `json:"unit"`
	RestockThreshold int64   `json:"restock_threshold" validate:"gte=0"`
	RestockQty       int64   `json:"restock_qty" validate:"gte=0"`
	UnitPrice        float64 `json:"unit_price" validate:"gte=0"`
}

// UpdateItemRequest edición de umbrales, unidad y precio (no de stock:
// el stock solo lo muta el workflow).
type UpdateItemRequest struct {
	Name             string  `json:"name"`
	Unit             string  `json:"unit"`
	RestockThreshold int64   `json:"restock_threshold" validate:"gte=0"`
	RestockQty       int64   `json:"restock_qty" validate:"gte=0"`
	UnitPrice        float64 `json:"unit_price" validate:"gte=0"`
}

// ItemResponse ítem de inventario.
type ItemResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Quantity         int64           `json:"quantity"`
	Unit             string          `json:"unit"`
	RestockThreshold int64           `json:"restock_threshold"`
	RestockQty       int64           `json:"restock_qty"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	BelowThreshold   bool            `json:"below_threshold"`
}

// AutoRestockResponse entrada del ledger de auto-reposición.
type AutoRestockResponse struct {
	ItemID        string    `json:"item_id"`
	ItemName      string    `json:"item_name"`
	Quantity      int64     `json:"quantity"`
	RequisitionID string    `json:"requisition_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToItemResponse arma el DTO desde la entidad.
func ToItemResponse(i *entity.InventoryItem) *ItemResponse {
	return &ItemResponse{
		ID:               i.ID,
		Name:             i.Name,
		Quantity:         i.Quantity,
		Unit:             i.Unit,
		RestockThreshold: i.RestockThreshold,
		RestockQty:       i.RestockQty,
		UnitPrice:        i.UnitPrice,
		BelowThreshold:   i.BelowThreshold(),
	}
}
