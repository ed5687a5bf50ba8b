// Package workflow define las reglas del flujo de compras: qué transiciones
// de estado son legales para cada entidad y qué rol puede ejecutar cada
// acción. Es una tabla fija del dominio, no configurable en runtime.
package workflow

import (
	"github.com/mochkris/compras-api/internal/domain"
	"github.com/mochkris/compras-api/internal/domain/entity"
)

// poTransitions tabla de aristas legales para órdenes de compra.
// completed y cancelled son terminales (sin entrada en la tabla).
var poTransitions = map[entity.POStatus][]entity.POStatus{
	entity.POStatusDraft:    {entity.POStatusApproved, entity.POStatusCancelled},
	entity.POStatusApproved: {entity.POStatusPurchased, entity.POStatusCancelled},
	// cancelled desde purchased = entrega dañada devuelta al proveedor
	// (estado legado RETURNED_TO_SUPPLIER).
	entity.POStatusPurchased: {entity.POStatusReceived, entity.POStatusPartiallyReceived, entity.POStatusCancelled},
	// Recepciones parciales repetidas hasta completar todas las líneas.
	entity.POStatusPartiallyReceived: {entity.POStatusReceived, entity.POStatusPartiallyReceived},
	entity.POStatusReceived:          {entity.POStatusCompleted},
}

// reqTransitions tabla de aristas legales para requisiciones.
var reqTransitions = map[entity.ReqStatus][]entity.ReqStatus{
	entity.ReqStatusPendingApproval: {entity.ReqStatusApproved, entity.ReqStatusRejected},
	entity.ReqStatusApproved:        {entity.ReqStatusDelivered, entity.ReqStatusForwarded},
	entity.ReqStatusForwarded:       {entity.ReqStatusPOGenerated},
	entity.ReqStatusPOGenerated:     {entity.ReqStatusCompleted},
}

// CanTransitionPO indica si from → to es una arista legal para una OC.
func CanTransitionPO(from, to entity.POStatus) bool {
	for _, next := range poTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckPOTransition valida la arista y retorna un TransitionError con el par
// intentado cuando es ilegal.
func CheckPOTransition(from, to entity.POStatus) error {
	if !CanTransitionPO(from, to) {
		return &domain.TransitionError{Entity: "purchase_order", From: string(from), To: string(to)}
	}
	return nil
}

// CanTransitionRequisition indica si from → to es legal para una requisición.
func CanTransitionRequisition(from, to entity.ReqStatus) bool {
	for _, next := range reqTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckRequisitionTransition valida la arista para requisiciones.
func CheckRequisitionTransition(from, to entity.ReqStatus) error {
	if !CanTransitionRequisition(from, to) {
		return &domain.TransitionError{Entity: "requisition", From: string(from), To: string(to)}
	}
	return nil
}
