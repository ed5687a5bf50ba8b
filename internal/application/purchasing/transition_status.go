package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mochkris/compras-api/internal/domain"
	"github.com/mochkris/compras-api/internal/domain/entity"
	"github.com/mochkris/compras-api/internal/domain/repository"
	"github.com/mochkris/compras-api/internal/domain/workflow"
)

// ReceivedItem cantidad recibida de una línea en una entrega.
type ReceivedItem struct {
	ItemID          string
	Quantity        int64
	DiscrepancyNote string
}

// TransitionInput entrada del motor de transiciones de OC.
type TransitionInput struct {
	POID          string
	Target        entity.POStatus
	ActorID       string
	ActorName     string
	ActorRole     string
	Notes         string
	AssignedTo    string // obligatorio al aprobar
	InvoiceNumber string // opcional al marcar comprada
	Items         []ReceivedItem
}

// TransitionPOUseCase el motor central del workflow: valida existencia,
// legalidad de la arista, autorización por rol y precondiciones, y aplica
// la transición con sus efectos (historial, timestamps, inventario) dentro
// de una transacción con bloqueo de fila. Sin escrituras parciales: o se
// confirma la transición completa o nada.
type TransitionPOUseCase struct {
	txRunner TxRunner
	notifier Notifier // opcional
}

// NewTransitionPOUseCase construye el motor. notifier puede ser nil.
func NewTransitionPOUseCase(txRunner TxRunner, notifier Notifier) *TransitionPOUseCase {
	return &TransitionPOUseCase{txRunner: txRunner, notifier: notifier}
}

// Transition ejecuta la secuencia de validación del workflow en orden:
// existencia → legalidad de la transición → autorización por rol →
// precondiciones de efectos. Cualquier fallo aborta antes de mutar.
func (uc *TransitionPOUseCase) Transition(ctx context.Context, in TransitionInput) (*entity.PurchaseOrder, error) {
	var result *entity.PurchaseOrder

	err := uc.txRunner.Run(ctx, func(
		poRepo repository.PurchaseOrderRepository,
		_ repository.RequisitionRepository,
		invRepo repository.InventoryRepository,
		_ repository.SupplierRepository,
		_ repository.AutoRestockRepository,
	) error {
		// 1. Existencia (con bloqueo de fila)
		po, err := poRepo.GetForUpdate(in.POID)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.ErrNotFound
		}

		// 2. Legalidad de la arista
		if err := workflow.CheckPOTransition(po.Status, in.Target); err != nil {
			return err
		}

		// 3. Autorización por rol + pertenencia
		action := workflow.ActionForPOTransition(po.Status, in.Target)
		if err := workflow.Authorize(in.ActorRole, action, po.Status); err != nil {
			return err
		}
		if err := checkOwnership(po, in.ActorID, in.ActorRole); err != nil {
			return err
		}

		// 4. Precondiciones de efectos
		now := time.Now()
		note := in.Notes
		target := in.Target

		switch action {
		case workflow.ActionApprovePO:
			// Aprobación y asignación de manager son una sola transición atómica.
			if in.AssignedTo == "" {
				return domain.NewValidationError("assigned_to", "la aprobación requiere un manager asignado")
			}
			po.AssignedTo = in.AssignedTo
			po.ApprovedBy = in.ActorID
			po.ApprovedAt = &now
			if note == "" {
				note = fmt.Sprintf("Aprobada y asignada al manager %s", in.AssignedTo)
			}
		case workflow.ActionMarkPurchased:
			po.PurchasedAt = &now
			po.InvoiceNumber = in.InvoiceNumber
			if note == "" && in.InvoiceNumber != "" {
				note = fmt.Sprintf("Marcada como comprada (factura %s)", in.InvoiceNumber)
			}
		case workflow.ActionReceiveItems:
			resolved, err := applyReceipt(po, in.Items, poRepo, invRepo)
			if err != nil {
				return err
			}
			target = resolved
			po.ReceivedAt = &now
			if note == "" {
				note = "Ítems recibidos"
				if resolved == entity.POStatusPartiallyReceived {
					note = "Ítems recibidos parcialmente"
				}
			}
		}

		// 5. Aplicar estado + historial
		po.Status = target
		po.UpdatedAt = now
		if err := poRepo.Update(po); err != nil {
			return err
		}
		if err := poRepo.AppendHistory(&entity.HistoryEntry{
			ID:        uuid.New().String(),
			EntityID:  po.ID,
			Timestamp: now,
			ActorID:   in.ActorID,
			ActorName: in.ActorName,
			Status:    string(target),
			Note:      note,
		}); err != nil {
			return err
		}
		result = po
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.notifier != nil {
		// Mejor esfuerzo: el adaptador registra sus propios fallos.
		_ = uc.notifier.NotifyStatusChange(ctx, result, in.ActorName)
	}
	return result, nil
}

// checkOwnership los owners solo operan sus propias OCs; los managers solo
// las que tienen asignadas.
func checkOwnership(po *entity.PurchaseOrder, actorID, role string) error {
	switch role {
	case entity.RoleOwner:
		if po.OwnerID != actorID {
			return domain.ErrForbidden
		}
	case entity.RoleManager:
		if po.AssignedTo != "" && po.AssignedTo != actorID {
			return domain.ErrForbidden
		}
	}
	return nil
}

// applyReceipt fusiona las cantidades recibidas (recortadas a lo ordenado),
// incrementa inventario por lo efectivamente recibido y resuelve el estado
// final: received si todas las líneas están completas, partially_received
// si no.
func applyReceipt(
	po *entity.PurchaseOrder,
	received []ReceivedItem,
	poRepo repository.PurchaseOrderRepository,
	invRepo repository.InventoryRepository,
) (entity.POStatus, error) {
	hasQty := false
	for _, r := range received {
		if r.Quantity > 0 {
			hasQty = true
			break
		}
	}
	if !hasQty {
		return "", domain.NewValidationError("items", "la recepción requiere al menos una línea con cantidad > 0")
	}

	byItem := make(map[string]ReceivedItem, len(received))
	for _, r := range received {
		byItem[r.ItemID] = r
	}

	applied := false
	for i := range po.Items {
		line := &po.Items[i]
		r, ok := byItem[line.ItemID]
		if !ok || r.Quantity <= 0 {
			continue
		}
		// ReceivedQty nunca supera lo ordenado: se recorta, no se rechaza.
		merged := line.ReceivedQty + r.Quantity
		if merged > line.Quantity {
			merged = line.Quantity
		}
		delta := merged - line.ReceivedQty
		if delta <= 0 {
			continue
		}
		applied = true
		line.ReceivedQty = merged
		if r.DiscrepancyNote != "" {
			line.DiscrepancyNote = r.DiscrepancyNote
		}
		if err := poRepo.UpdateItemReceived(line.ID, line.ReceivedQty, line.DiscrepancyNote); err != nil {
			return "", err
		}

		// Inventario: se incrementa por lo recibido, no por lo ordenado.
		item, err := invRepo.GetForUpdate(line.ItemID)
		if err != nil {
			return "", err
		}
		if item == nil {
			return "", domain.ErrNotFound
		}
		if err := invRepo.UpdateQuantity(item.ID, item.Quantity+delta); err != nil {
			return "", err
		}
	}

	// Una recepción que no tocó ninguna línea (ítems desconocidos o líneas ya
	// completas) no es una recepción: no hay nada que registrar.
	if !applied {
		return "", domain.NewValidationError("items", "ninguna línea de la recepción corresponde a la orden")
	}

	if po.AllItemsReceived() {
		return entity.POStatusReceived, nil
	}
	return entity.POStatusPartiallyReceived, nil
}
