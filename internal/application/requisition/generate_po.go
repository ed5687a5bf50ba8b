package requisition

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mochkris/compras-api/internal/application/dto"
	"github.com/mochkris/compras-api/internal/domain"
	"github.com/mochkris/compras-api/internal/domain/entity"
	"github.com/mochkris/compras-api/internal/domain/repository"
	"github.com/mochkris/compras-api/internal/domain/workflow"
)

// GeneratePOUseCase convierte una requisición reenviada a compras en una
// orden de compra en borrador con una sola línea. La OC nace ligada a la
// requisición y ambos lados se actualizan en la misma transacción.
type GeneratePOUseCase struct {
	txRunner TxRunner
	poNum    PONumberGenerator
}

func NewGeneratePOUseCase(txRunner TxRunner, poNum PONumberGenerator) *GeneratePOUseCase {
	return &GeneratePOUseCase{txRunner: txRunner, poNum: poNum}
}

func (uc *GeneratePOUseCase) Generate(ctx context.Context, reqID string, in dto.GeneratePORequest, actorID, actorName, actorRole string) (*entity.PurchaseOrder, error) {
	var result *entity.PurchaseOrder

	err := uc.txRunner.Run(ctx, func(
		poRepo repository.PurchaseOrderRepository,
		reqRepo repository.RequisitionRepository,
		_ repository.InventoryRepository,
		supRepo repository.SupplierRepository,
		_ repository.AutoRestockRepository,
	) error {
		r, err := reqRepo.GetForUpdate(reqID)
		if err != nil {
			return err
		}
		if r == nil {
			return domain.ErrNotFound
		}
		if err := workflow.CheckRequisitionTransition(r.Status, entity.ReqStatusPOGenerated); err != nil {
			return err
		}
		if !workflow.RoleAllowed(actorRole, workflow.ActionGeneratePO) {
			return &domain.ForbiddenActionError{
				Role:     actorRole,
				Action:   string(workflow.ActionGeneratePO),
				Required: []string{entity.RolePurchasing},
			}
		}

		sup, err := resolveOrCreateSupplier(supRepo, in.SupplierName)
		if err != nil {
			return err
		}

		now := time.Now()
		po := &entity.PurchaseOrder{
			ID:            uuid.New().String(),
			PONumber:      uc.poNum.Next(),
			SupplierID:    sup.ID,
			OwnerID:       actorID,
			RequisitionID: r.ID,
			Status:        entity.POStatusDraft,
			ExpectedDate:  now.AddDate(0, 0, 7),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := poRepo.Create(po); err != nil {
			return err
		}
		line := &entity.POItem{
			ID:        uuid.New().String(),
			POID:      po.ID,
			ItemID:    r.ItemID,
			ItemName:  r.ItemName,
			Quantity:  r.Quantity,
			UnitPrice: r.UnitPrice,
		}
		if err := poRepo.CreateItem(line); err != nil {
			return err
		}
		po.Items = append(po.Items, *line)
		if err := poRepo.AppendHistory(&entity.HistoryEntry{
			ID:        uuid.New().String(),
			EntityID:  po.ID,
			Timestamp: now,
			ActorID:   actorID,
			ActorName: actorName,
			Status:    string(entity.POStatusDraft),
			Note:      fmt.Sprintf("Generada desde la requisición %s", r.ID),
		}); err != nil {
			return err
		}

		r.Status = entity.ReqStatusPOGenerated
		r.POID = po.ID
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
			Note:      fmt.Sprintf("Orden de compra %s generada con el proveedor %s", po.PONumber, sup.Name),
		}); err != nil {
			return err
		}
		result = po
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
