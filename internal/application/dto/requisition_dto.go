package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mochkris/compras-api/internal/domain/entity"
)

// CreateRequisitionRequest RF manual de un departamento. ItemID vacío +
// ItemName desconocido crean el ítem de inventario implícitamente.
type CreateRequisitionRequest struct {
	ItemID       string  `json:"item_id"`
	ItemName     string  `json:"item_name" validate:"required"`
	Quantity     int64   `json:"quantity" validate:"required,gt=0"`
	UnitPrice    float64 `json:"unit_price" validate:"gte=0"`
	Department   string  `json:"department"`
	SupplierName string  `json:"preferred_supplier,omitempty"`
}

// SignRequisitionRequest firma binaria del aprobador.
type SignRequisitionRequest struct {
	Approve bool   `json:"approve"`
	Notes   string `json:"notes"`
}

// GeneratePORequest genera la OC desde una RF reenviada a compras.
type GeneratePORequest struct {
	SupplierName string `json:"supplier_name" validate:"required"`
}

// ReceiveDeliveryRequest recepción de la entrega de una OC ligada a RF.
type ReceiveDeliveryRequest struct {
	Damaged bool   `json:"damaged"`
	Notes   string `json:"notes"`
}

// RequisitionResponse detalle de una requisición con historial.
type RequisitionResponse struct {
	ID          string                 `json:"id"`
	ItemID      string                 `json:"item_id"`
	ItemName    string                 `json:"item_name"`
	Quantity    int64                  `json:"quantity"`
	UnitPrice   decimal.Decimal        `json:"unit_price"`
	RequestedBy string                 `json:"requested_by"`
	Department  string                 `json:"department,omitempty"`
	SupplierID  string                 `json:"preferred_supplier_id,omitempty"`
	POID        string                 `json:"po_id,omitempty"`
	Status      string                 `json:"status"`
	Auto        bool                   `json:"auto"`
	CreatedAt   time.Time              `json:"created_at"`
	History     []HistoryEntryResponse `json:"history,omitempty"`
}

// ToRequisitionResponse arma el DTO desde la entidad.
func ToRequisitionResponse(r *entity.Requisition) *RequisitionResponse {
	history := make([]HistoryEntryResponse, 0, len(r.History))
	for _, h := range r.History {
		history = append(history, HistoryEntryResponse{
			Timestamp: h.Timestamp,
			ActorID:   h.ActorID,
			ActorName: h.ActorName,
			Status:    h.Status,
			Note:      h.Note,
		})
	}
	return &RequisitionResponse{
		ID:          r.ID,
		ItemID:      r.ItemID,
		ItemName:    r.ItemName,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
		RequestedBy: r.RequestedBy,
		Department:  r.Department,
		SupplierID:  r.SupplierID,
		POID:        r.POID,
		Status:      string(r.Status),
		Auto:        r.Auto,
		CreatedAt:   r.CreatedAt,
		History:     history,
	}
}
