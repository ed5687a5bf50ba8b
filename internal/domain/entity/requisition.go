package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReqStatus estado canónico de una requisición (RF).
// Unifica los vocabularios divergentes del sistema anterior
// ("PENDING APPROVAL", "APPROVED_BY_VP", etc.) en snake_case minúscula.
type ReqStatus string

const (
	ReqStatusPendingApproval ReqStatus = "pending_approval"
	ReqStatusApproved        ReqStatus = "approved"
	ReqStatusRejected        ReqStatus = "rejected" // terminal
	ReqStatusDelivered       ReqStatus = "delivered_to_dept"
	ReqStatusForwarded       ReqStatus = "forwarded_to_purchasing"
	ReqStatusPOGenerated     ReqStatus = "po_generated"
	ReqStatusCompleted       ReqStatus = "completed" // terminal
)

// Requisition solicitud de material de un departamento.
type Requisition struct {
	ID          string
	ItemID      string
	ItemName    string // snapshot del nombre al momento de la solicitud
	Quantity    int64
	UnitPrice   decimal.Decimal // snapshot del precio unitario
	RequestedBy string          // user ID; "system" para auto-requisiciones
	Department  string
	SupplierID  string // proveedor preferido (opcional)
	POID        string // OC generada desde esta requisición (opcional)
	Status      ReqStatus
	Auto        bool // generada por el disparador de reposición
	CreatedAt   time.Time
	UpdatedAt   time.Time

	History []HistoryEntry
}

// Terminal indica si la requisición no acepta más transiciones.
func (s ReqStatus) Terminal() bool {
	switch s {
	case ReqStatusRejected, ReqStatusCompleted, ReqStatusDelivered:
		return true
	}
	return false
}
