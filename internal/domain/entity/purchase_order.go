package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// POStatus estado canónico de una orden de compra.
//
// El sistema anterior manejaba dos vocabularios distintos (backend minúscula,
// frontend MAYÚSCULA). Mapeo de estados legados al canónico:
//
//	PENDING_PO_APPROVAL   → draft
//	SENT_TO_MANAGER       → approved
//	RETURNED_TO_PURCHASING → cancelled
//	RETURNED_TO_SUPPLIER  → cancelled
//	COMPLETED             → completed
//	rejected              → cancelled
type POStatus string

const (
	POStatusDraft             POStatus = "draft"
	POStatusApproved          POStatus = "approved"
	POStatusPurchased         POStatus = "purchased"
	POStatusPartiallyReceived POStatus = "partially_received"
	POStatusReceived          POStatus = "received"
	POStatusCompleted         POStatus = "completed" // terminal
	POStatusCancelled         POStatus = "cancelled" // terminal
)

// Terminal indica si la OC no acepta más transiciones.
func (s POStatus) Terminal() bool {
	return s == POStatusCompleted || s == POStatusCancelled
}

// TaxRate IVA fijo aplicado solo para presentación (no se persiste como
// asiento separado).
var TaxRate = decimal.NewFromFloat(0.12)

// POItem línea de una orden de compra. La OC es dueña exclusiva de sus
// líneas; ReceivedQty nunca supera Quantity (se recorta al recibir).
type POItem struct {
	ID              string
	POID            string
	ItemID          string
	ItemName        string // snapshot
	Description     string
	Quantity        int64
	UnitPrice       decimal.Decimal
	ReceivedQty     int64
	DiscrepancyNote string
}

// Total importe de la línea (cantidad × precio unitario).
func (it POItem) Total() decimal.Decimal {
	return decimal.NewFromInt(it.Quantity).Mul(it.UnitPrice)
}

// FullyReceived indica si la línea ya llegó completa.
func (it POItem) FullyReceived() bool { return it.ReceivedQty >= it.Quantity }

// PurchaseOrder compromiso de compra con un proveedor.
type PurchaseOrder struct {
	ID            string
	PONumber      string // identificador visible (PO-xxxx)
	SupplierID    string
	OwnerID       string // creador
	AssignedTo    string // manager asignado; obligatorio desde "approved"
	ApprovedBy    string
	RequisitionID string // vacío si no proviene de una RF
	Notes         string
	InvoiceNumber string // capturado al marcar como comprada
	Status        POStatus
	SupplierRated bool
	ExpectedDate  time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ApprovedAt    *time.Time
	PurchasedAt   *time.Time
	ReceivedAt    *time.Time

	Items   []POItem
	History []HistoryEntry
}

// Subtotal suma de los totales de línea.
func (po *PurchaseOrder) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range po.Items {
		sum = sum.Add(it.Total())
	}
	return sum
}

// AllItemsReceived indica si todas las líneas llegaron completas.
func (po *PurchaseOrder) AllItemsReceived() bool {
	if len(po.Items) == 0 {
		return false
	}
	for _, it := range po.Items {
		if !it.FullyReceived() {
			return false
		}
	}
	return true
}
