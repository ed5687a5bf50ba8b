package requisition

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mochkris/compras-api/internal/application/dto"
	"github.com/mochkris/compras-api/internal/domain"
	"github.com/mochkris/compras-api/internal/domain/entity"
	"github.com/mochkris/compras-api/internal/domain/repository"
	"github.com/mochkris/compras-api/internal/domain/workflow"
)

// ReceiveDeliveryUseCase recepción en bodega de la entrega de una OC
// comprada. Una entrega dañada cancela la OC (devolución al proveedor) sin
// tocar inventario; una entrega conforme recibe todas las líneas, ingresa
// el stock, completa la OC y cierra la requisición ligada si existe.
type ReceiveDeliveryUseCase struct {
	txRunner TxRunner
}

func NewReceiveDeliveryUseCase(txRunner TxRunner) *ReceiveDeliveryUseCase {
	return &ReceiveDeliveryUseCase{txRunner: txRunner}
}

func (uc *ReceiveDeliveryUseCase) Receive(ctx context.Context, poID string, in dto.ReceiveDeliveryRequest, actorID, actorName, actorRole string) (*entity.PurchaseOrder, error) {
	var result *entity.PurchaseOrder

	err := uc.txRunner.Run(ctx, func(
		poRepo repository.PurchaseOrderRepository,
		reqRepo repository.RequisitionRepository,
		invRepo repository.InventoryRepository,
		_ repository.SupplierRepository,
		_ repository.AutoRestockRepository,
	) error {
		po, err := poRepo.GetForUpdate(poID)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.ErrNotFound
		}
		if po.Status != entity.POStatusPurchased {
			return &domain.TransitionError{Entity: "purchase_order", From: string(po.Status), To: string(entity.POStatusReceived)}
		}
		if !workflow.RoleAllowed(actorRole, workflow.ActionReceiveDelivery) {
			return &domain.ForbiddenActionError{
				Role:     actorRole,
				Action:   string(workflow.ActionReceiveDelivery),
				Required: []string{entity.RoleCustodian},
			}
		}

		now := time.Now()
		if in.Damaged {
			return uc.returnToSupplier(poRepo, po, in.Notes, actorID, actorName, now, &result)
		}

		// Entrega conforme: todas las líneas llegan completas.
		for i := range po.Items {
			line := &po.Items[i]
			delta := line.Quantity - line.ReceivedQty
			line.ReceivedQty = line.Quantity
			if err := poRepo.UpdateItemReceived(line.ID, line.ReceivedQty, line.DiscrepancyNote); err != nil {
				return err
			}
			if delta <= 0 {
				continue
			}
			item, err := invRepo.GetForUpdate(line.ItemID)
			if err != nil {
				return err
			}
			if item == nil {
				return domain.ErrNotFound
			}
			if err := invRepo.UpdateQuantity(item.ID, item.Quantity+delta); err != nil {
				return err
			}
		}

		po.ReceivedAt = &now
		po.Status = entity.POStatusCompleted
		po.UpdatedAt = now
		if err := poRepo.Update(po); err != nil {
			return err
		}
		// Dos entradas de historial: la recepción y el cierre.
		note := in.Notes
		if note == "" {
			note = "Entrega recibida conforme en bodega"
		}
		for _, h := range []struct {
			status entity.POStatus
			note   string
		}{
			{entity.POStatusReceived, note},
			{entity.POStatusCompleted, "Orden completada"},
		} {
			if err := poRepo.AppendHistory(&entity.HistoryEntry{
				ID:        uuid.New().String(),
				EntityID:  po.ID,
				Timestamp: now,
				ActorID:   actorID,
				ActorName: actorName,
				Status:    string(h.status),
				Note:      h.note,
			}); err != nil {
				return err
			}
		}

		if po.RequisitionID != "" {
			if err := uc.closeRequisition(reqRepo, po, actorID, actorName, now); err != nil {
				return err
			}
		}
		result = po
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// returnToSupplier cancela la OC por entrega dañada. El inventario no se
// toca: nada entró a bodega.
func (uc *ReceiveDeliveryUseCase) returnToSupplier(
	poRepo repository.PurchaseOrderRepository,
	po *entity.PurchaseOrder,
	notes, actorID, actorName string,
	now time.Time,
	result **entity.PurchaseOrder,
) error {
	po.Status = entity.POStatusCancelled
	po.UpdatedAt = now
	if err := poRepo.Update(po); err != nil {
		return err
	}
	note := notes
	if note == "" {
		note = "Entrega dañada; devuelta al proveedor"
	}
	if err := poRepo.AppendHistory(&entity.HistoryEntry{
		ID:        uuid.New().String(),
		EntityID:  po.ID,
		Timestamp: now,
		ActorID:   actorID,
		ActorName: actorName,
		Status:    string(entity.POStatusCancelled),
		Note:      note,
	}); err != nil {
		return err
	}
	*result = po
	return nil
}

// closeRequisition cierra la requisición de origen una vez entregada la OC.
func (uc *ReceiveDeliveryUseCase) closeRequisition(
	reqRepo repository.RequisitionRepository,
	po *entity.PurchaseOrder,
	actorID, actorName string,
	now time.Time,
) error {
	r, err := reqRepo.GetForUpdate(po.RequisitionID)
	if err != nil {
		return err
	}
	if r == nil {
		return nil
	}
	if !workflow.CanTransitionRequisition(r.Status, entity.ReqStatusCompleted) {
		return nil
	}
	r.Status = entity.ReqStatusCompleted
	r.UpdatedAt = now
	if err := reqRepo.Update(r); err != nil {
		return err
	}
	return reqRepo.AppendHistory(&entity.HistoryEntry{
		ID:        uuid.New().String(),
		EntityID:  r.ID,
		Timestamp: now,
		ActorID:   actorID,
		ActorName: actorName,
		Status:    string(r.Status),
		Note:      "Material recibido; requisición completada",
	})
}
