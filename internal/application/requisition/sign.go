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

// SignUseCase firma del aprobador sobre una requisición pendiente:
// la aprueba o la rechaza, nunca ambas cosas ni a medias.
type SignUseCase struct {
	txRunner TxRunner
}

func NewSignUseCase(txRunner TxRunner) *SignUseCase {
	return &SignUseCase{txRunner: txRunner}
}

func (uc *SignUseCase) Sign(ctx context.Context, reqID string, in dto.SignRequisitionRequest, actorID, actorName, actorRole string) (*entity.Requisition, error) {
	var result *entity.Requisition

	err := uc.txRunner.Run(ctx, func(
		_ repository.PurchaseOrderRepository,
		reqRepo repository.RequisitionRepository,
		_ repository.InventoryRepository,
		_ repository.SupplierRepository,
		_ repository.AutoRestockRepository,
	) error {
		r, err := reqRepo.GetForUpdate(reqID)
		if err != nil {
			return err
		}
		if r == nil {
			return domain.ErrNotFound
		}

		target := entity.ReqStatusApproved
		note := "Aprobada por " + actorName
		if !in.Approve {
			target = entity.ReqStatusRejected
			note = "Rechazada por " + actorName
		}
		if in.Notes != "" {
			note = in.Notes
		}

		if err := workflow.CheckRequisitionTransition(r.Status, target); err != nil {
			return err
		}
		if !workflow.RoleAllowed(actorRole, workflow.ActionSignRequisition) {
			return &domain.ForbiddenActionError{
				Role:     actorRole,
				Action:   string(workflow.ActionSignRequisition),
				Required: []string{entity.RoleApprover},
			}
		}

		now := time.Now()
		r.Status = target
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
			Status:    string(target),
			Note:      note,
		}); err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
