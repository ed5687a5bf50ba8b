package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mochkris/compras-api/internal/application/dto"
	"github.com/mochkris/compras-api/internal/domain"
	"github.com/mochkris/compras-api/internal/domain/entity"
	"github.com/mochkris/compras-api/internal/domain/repository"
	"github.com/mochkris/compras-api/internal/domain/workflow"
)

// RateSupplierUseCase calificación del proveedor de una OC recibida.
// Una calificación por OC; el agregado del proveedor se recalcula como
// el promedio de los promedios por OC, redondeado a un decimal.
type RateSupplierUseCase struct {
	txRunner TxRunner
}

func NewRateSupplierUseCase(txRunner TxRunner) *RateSupplierUseCase {
	return &RateSupplierUseCase{txRunner: txRunner}
}

// RateInput datos del actor y las tres dimensiones (1..5 cada una).
type RateInput struct {
	POID      string
	ActorID   string
	ActorName string
	ActorRole string
	Req       dto.AddRatingRequest
}

func (uc *RateSupplierUseCase) Rate(ctx context.Context, in RateInput) (*entity.SupplierRating, error) {
	var result *entity.SupplierRating

	err := uc.txRunner.Run(ctx, func(
		poRepo repository.PurchaseOrderRepository,
		_ repository.RequisitionRepository,
		_ repository.InventoryRepository,
		supRepo repository.SupplierRepository,
		_ repository.AutoRestockRepository,
	) error {
		po, err := poRepo.GetForUpdate(in.POID)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.ErrNotFound
		}

		// Rol primero: un rol sin permiso recibe 403 aunque el estado tampoco aplique.
		if !workflow.RoleAllowed(in.ActorRole, workflow.ActionRateSupplier) {
			return &domain.ForbiddenActionError{
				Role:     in.ActorRole,
				Action:   string(workflow.ActionRateSupplier),
				Required: []string{entity.RoleManager},
			}
		}
		if !workflow.StatusAllows(workflow.ActionRateSupplier, po.Status) {
			return fmt.Errorf("%w: solo se califica una OC recibida o completada (estado actual %s)",
				domain.ErrInvalidInput, po.Status)
		}
		if po.AssignedTo != "" && po.AssignedTo != in.ActorID {
			return domain.ErrForbidden
		}
		if po.SupplierRated {
			return domain.ErrAlreadyRated
		}
		if existing, err := supRepo.GetRatingByPO(po.ID); err != nil {
			return err
		} else if existing != nil {
			return domain.ErrAlreadyRated
		}

		now := time.Now()
		rating := &entity.SupplierRating{
			ID:             uuid.New().String(),
			SupplierID:     po.SupplierID,
			POID:           po.ID,
			DeliveryRating: in.Req.DeliveryRating,
			QualityRating:  in.Req.QualityRating,
			PriceRating:    in.Req.PriceRating,
			Notes:          in.Req.Notes,
			RatedBy:        in.ActorID,
			CreatedAt:      now,
		}
		if err := supRepo.CreateRating(rating); err != nil {
			return err
		}

		// Agregado: promedio de los promedios por OC.
		ratings, err := supRepo.ListRatingsBySupplier(po.SupplierID)
		if err != nil {
			return err
		}
		sum := decimal.Zero
		for _, r := range ratings {
			sum = sum.Add(r.Mean())
		}
		avg := sum.Div(decimal.NewFromInt(int64(len(ratings)))).Round(1)
		if err := supRepo.UpdateRating(po.SupplierID, avg); err != nil {
			return err
		}

		po.SupplierRated = true
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
			Status:    string(po.Status),
			Note:      fmt.Sprintf("Proveedor calificado (promedio %s)", rating.Mean().Round(1)),
		}); err != nil {
			return err
		}
		result = rating
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
