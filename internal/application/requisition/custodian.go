package requisition

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

// CustodianCheckUseCase verificación de bodega sobre una requisición
// aprobada. Si hay stock suficiente se entrega al departamento (deduciendo
// inventario); si no, la requisición se reenvía a compras sin tocar stock.
// Toda la decisión y sus efectos corren en una transacción.
type CustodianCheckUseCase struct {
	txRunner TxRunner
}

func NewCustodianCheckUseCase(txRunner TxRunner) *CustodianCheckUseCase {
	return &CustodianCheckUseCase{txRunner: txRunner}
}

func (uc *CustodianCheckUseCase) Check(ctx context.Context, reqID, actorID, actorName, actorRole string) (*entity.Requisition, error) {
	var result *entity.Requisition

	err := uc.txRunner.Run(ctx, func(
		_ repository.PurchaseOrderRepository,
		reqRepo repository.RequisitionRepository,
		invRepo repository.InventoryRepository,
		_ repository.SupplierRepository,
		restockRepo repository.AutoRestockRepository,
	) error {
		r, err := reqRepo.GetForUpdate(reqID)
		if err != nil {
			return err
		}
		if r == nil {
			return domain.ErrNotFound
		}
		// Las dos salidas de la verificación (entrega o reenvío) parten del
		// mismo estado; la legalidad se valida antes que el rol, igual que en
		// el motor de transiciones de OC.
		if err := workflow.CheckRequisitionTransition(r.Status, entity.ReqStatusDelivered); err != nil {
			return err
		}
		if !workflow.RoleAllowed(actorRole, workflow.ActionCustodianCheck) {
			return &domain.ForbiddenActionError{
				Role:     actorRole,
				Action:   string(workflow.ActionCustodianCheck),
				Required: []string{entity.RoleCustodian},
			}
		}

		item, err := invRepo.GetForUpdate(r.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}

		now := time.Now()
		if item.Quantity >= r.Quantity {
			// Stock suficiente: entrega directa y deducción.
			newQty := item.Quantity - r.Quantity
			if err := invRepo.UpdateQuantity(item.ID, newQty); err != nil {
				return err
			}
			item.Quantity = newQty

			r.Status = entity.ReqStatusDelivered
			r.UpdatedAt = now
			if err := reqRepo.Update(r); err != nil {
				return err
			}
			if err := reqRepo.AppendHistory(&entity.HistoryEntry{
				ID:        uuid.New().String(),
				EntityID:  r.ID,
				Timestamp: now,
				ActorID:   actorID,
				ActorName: actorName,
				Status:    string(r.Status),
				Note:      fmt.Sprintf("Entregado de bodega (%d %s); stock restante %d", r.Quantity, item.Unit, newQty),
			}); err != nil {
				return err
			}

			if item.BelowThreshold() {
				if err := maybeAutoRestock(reqRepo, restockRepo, item, now); err != nil {
					return err
				}
			}
		} else {
			// Stock insuficiente: se reenvía a compras, sin mutar inventario.
			r.Status = entity.ReqStatusForwarded
			r.UpdatedAt = now
			if err := reqRepo.Update(r); err != nil {
				return err
			}
			if err := reqRepo.AppendHistory(&entity.HistoryEntry{
				ID:        uuid.New().String(),
				EntityID:  r.ID,
				Timestamp: now,
				ActorID:   actorID,
				ActorName: actorName,
				Status:    string(r.Status),
				Note:      fmt.Sprintf("Stock insuficiente (%d disponibles, %d requeridos); reenviada a compras", item.Quantity, r.Quantity),
			}); err != nil {
				return err
			}
		}

		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// maybeAutoRestock genera la auto-requisición de reposición cuando el stock
// cruzó el umbral, con guarda de duplicados: a lo sumo una auto-requisición
// abierta por ítem.
func maybeAutoRestock(
	reqRepo repository.RequisitionRepository,
	restockRepo repository.AutoRestockRepository,
	item *entity.InventoryItem,
	now time.Time,
) error {
	open, err := reqRepo.HasOpenAutoRequisition(item.ID)
	if err != nil {
		return err
	}
	if open {
		return nil
	}

	auto := &entity.Requisition{
		ID:          uuid.New().String(),
		ItemID:      item.ID,
		ItemName:    item.Name,
		Quantity:    item.RestockQty,
		UnitPrice:   item.UnitPrice,
		RequestedBy: "system",
		Department:  "Bodega",
		Status:      entity.ReqStatusPendingApproval,
		Auto:        true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := reqRepo.Create(auto); err != nil {
		return err
	}
	if err := reqRepo.AppendHistory(&entity.HistoryEntry{
		ID:        uuid.New().String(),
		EntityID:  auto.ID,
		Timestamp: now,
		ActorID:   "system",
		ActorName: "Sistema",
		Status:    string(auto.Status),
		Note:      fmt.Sprintf("Auto-generada: stock de %s (%d) bajo el umbral (%d)", item.Name, item.Quantity, item.RestockThreshold),
	}); err != nil {
		return err
	}
	return restockRepo.Create(&entity.AutoRestockEntry{
		ID:            uuid.New().String(),
		ItemID:        item.ID,
		ItemName:      item.Name,
		Quantity:      item.RestockQty,
		RequisitionID: auto.ID,
		CreatedAt:     now,
	})
}
