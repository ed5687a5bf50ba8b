package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mochkris/compras-api/internal/domain/entity"
)

// CreatePORequest alta de una OC en borrador con sus líneas.
type CreatePORequest struct {
	SupplierID           string                `json:"supplier_id" validate:"required"`
	ExpectedDeliveryDate string                `json:"expected_delivery_date" validate:"required,datetime=2006-01-02"`
	Notes                string                `json:"notes"`
	Items                []CreatePOItemRequest `json:"items" validate:"required,min=1,dive"`
}

// CreatePOItemRequest línea de la OC. Si el ítem no existe en inventario se
// crea implícitamente (resolveOrCreateItem).
type CreatePOItemRequest struct {
	ItemName    string  `json:"item_name" validate:"required"`
	Description string  `json:"description"`
	Quantity    int64   `json:"quantity" validate:"required,gt=0"`
	UnitPrice   float64 `json:"unit_price" validate:"required,gt=0"`
}

// UpdatePOStatusRequest transición de estado vía PATCH .../status.
// AssignedTo es obligatorio al pasar a approved; Items al recibir.
type UpdatePOStatusRequest struct {
	Status        string               `json:"status" validate:"required"`
	Notes         string               `json:"notes"`
	AssignedTo    string               `json:"assigned_to"`
	InvoiceNumber string               `json:"invoice_number"`
	Items         []ReceiveItemRequest `json:"items" validate:"omitempty,dive"`
}

// ReceiveItemRequest cantidad recibida de una línea en esta entrega.
type ReceiveItemRequest struct {
	ItemID           string `json:"item_id" validate:"required"`
	QuantityReceived int64  `json:"quantity_received" validate:"gte=0"`
	DiscrepancyNote  string `json:"discrepancy_note"`
}

// AddRatingRequest calificación del proveedor sobre una OC entregada.
type AddRatingRequest struct {
	DeliveryRating int    `json:"delivery_rating" validate:"required,min=1,max=5"`
	QualityRating  int    `json:"quality_rating" validate:"required,min=1,max=5"`
	PriceRating    int    `json:"price_rating" validate:"required,min=1,max=5"`
	Notes          string `json:"notes"`
}

// POItemResponse línea con total calculado (cantidad × precio unitario).
type POItemResponse struct {
	ID               string          `json:"id"`
	ItemID           string          `json:"item_id"`
	ItemName         string          `json:"item_name"`
	Description      string          `json:"description,omitempty"`
	Quantity         int64           `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	QuantityReceived int64           `json:"quantity_received"`
	DiscrepancyNote  string          `json:"discrepancy_note,omitempty"`
	Total            decimal.Decimal `json:"total"`
}

// HistoryEntryResponse entrada del historial de la entidad.
type HistoryEntryResponse struct {
	Timestamp time.Time `json:"timestamp"`
	ActorID   string    `json:"actor_id"`
	ActorName string    `json:"actor_name"`
	Status    string    `json:"status"`
	Note      string    `json:"note,omitempty"`
}

// POResponse detalle completo de una OC. Subtotal/Tax/Total son de
// presentación: IVA fijo 12%, no persistido.
type POResponse struct {
	ID            string                 `json:"id"`
	PONumber      string                 `json:"po_number"`
	SupplierID    string                 `json:"supplier_id"`
	SupplierName  string                 `json:"supplier_name,omitempty"`
	OwnerID       string                 `json:"owner_id"`
	AssignedTo    string                 `json:"assigned_to,omitempty"`
	ApprovedBy    string                 `json:"approved_by,omitempty"`
	RequisitionID string                 `json:"requisition_id,omitempty"`
	Status        string                 `json:"status"`
	Notes         string                 `json:"notes,omitempty"`
	InvoiceNumber string                 `json:"invoice_number,omitempty"`
	SupplierRated bool                   `json:"supplier_rated"`
	ExpectedDate  time.Time              `json:"expected_delivery_date"`
	CreatedAt     time.Time              `json:"created_at"`
	ApprovedAt    *time.Time             `json:"approved_at,omitempty"`
	PurchasedAt   *time.Time             `json:"purchased_at,omitempty"`
	ReceivedAt    *time.Time             `json:"received_at,omitempty"`
	Items         []POItemResponse       `json:"items"`
	History       []HistoryEntryResponse `json:"history,omitempty"`
	Subtotal      decimal.Decimal        `json:"subtotal"`
	Tax           decimal.Decimal        `json:"tax"`
	Total         decimal.Decimal        `json:"total"`
}

// RatingResponse calificación creada.
type RatingResponse struct {
	ID             string    `json:"id"`
	POID           string    `json:"po_id"`
	SupplierID     string    `json:"supplier_id"`
	DeliveryRating int       `json:"delivery_rating"`
	QualityRating  int       `json:"quality_rating"`
	PriceRating    int       `json:"price_rating"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// POStatsResponse conteos por estado + calificación promedio de proveedores.
type POStatsResponse struct {
	Total             int64           `json:"total_pos"`
	Draft             int64           `json:"draft_count"`
	Approved          int64           `json:"approved_count"`
	Purchased         int64           `json:"purchased_count"`
	PartiallyReceived int64           `json:"partially_received_count"`
	Received          int64           `json:"received_count"`
	Completed         int64           `json:"completed_count"`
	Cancelled         int64           `json:"cancelled_count"`
	AvgSupplierRating decimal.Decimal `json:"avg_supplier_rating"`
}

// ToPOResponse arma el DTO de detalle desde la entidad.
func ToPOResponse(po *entity.PurchaseOrder, supplierName string) *POResponse {
	items := make([]POItemResponse, 0, len(po.Items))
	for _, it := range po.Items {
		items = append(items, POItemResponse{
			ID:               it.ID,
			ItemID:           it.ItemID,
			ItemName:         it.ItemName,
			Description:      it.Description,
			Quantity:         it.Quantity,
			UnitPrice:        it.UnitPrice,
			QuantityReceived: it.ReceivedQty,
			DiscrepancyNote:  it.DiscrepancyNote,
			Total:            it.Total(),
		})
	}
	history := make([]HistoryEntryResponse, 0, len(po.History))
	for _, h := range po.History {
		history = append(history, HistoryEntryResponse{
			Timestamp: h.Timestamp,
			ActorID:   h.ActorID,
			ActorName: h.ActorName,
			Status:    h.Status,
			Note:      h.Note,
		})
	}
	subtotal := po.Subtotal()
	tax := subtotal.Mul(entity.TaxRate).Round(2)
	return &POResponse{
		ID:            po.ID,
		PONumber:      po.PONumber,
		SupplierID:    po.SupplierID,
		SupplierName:  supplierName,
		OwnerID:       po.OwnerID,
		AssignedTo:    po.AssignedTo,
		ApprovedBy:    po.ApprovedBy,
		RequisitionID: po.RequisitionID,
		Status:        string(po.Status),
		Notes:         po.Notes,
		InvoiceNumber: po.InvoiceNumber,
		SupplierRated: po.SupplierRated,
		ExpectedDate:  po.ExpectedDate,
		CreatedAt:     po.CreatedAt,
		ApprovedAt:    po.ApprovedAt,
		PurchasedAt:   po.PurchasedAt,
		ReceivedAt:    po.ReceivedAt,
		Items:         items,
		History:       history,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         subtotal.Add(tax),
	}
}
