package requisition

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mochkris/compras-api/internal/application/dto"
	appinv "github.com/mochkris/compras-api/internal/application/inventory"
	"github.com/mochkris/compras-api/internal/domain"
	"github.com/mochkris/compras-api/internal/domain/entity"
	"github.com/mochkris/compras-api/internal/domain/repository"
)

// CreateUseCase alta de una requisición manual de departamento.
type CreateUseCase struct {
	txRunner TxRunner
}

func NewCreateUseCase(txRunner TxRunner) *CreateUseCase {
	return &CreateUseCase{txRunner: txRunner}
}

// Create resuelve (o crea) el ítem de inventario y el proveedor preferido,
// y registra la requisición en pending_approval con su entrada de historial.
func (uc *CreateUseCase) Create(ctx context.Context, req dto.CreateRequisitionRequest, actorID, actorName string) (*entity.Requisition, error) {
	var result *entity.Requisition

	err := uc.txRunner.Run(ctx, func(
		_ repository.PurchaseOrderRepository,
		reqRepo repository.RequisitionRepository,
		invRepo repository.InventoryRepository,
		supRepo repository.SupplierRepository,
		_ repository.AutoRestockRepository,
	) error {
		unitPrice := decimal.NewFromFloat(req.UnitPrice)

		var item *entity.InventoryItem
		var err error
		if req.ItemID != "" {
			item, err = invRepo.GetByID(req.ItemID)
			if err != nil {
				return err
			}
			if item == nil {
				return domain.ErrNotFound
			}
		} else {
			item, err = appinv.ResolveOrCreateItem(invRepo, req.ItemName, unitPrice)
			if err != nil {
				return err
			}
		}
		if unitPrice.IsZero() {
			unitPrice = item.UnitPrice
		}

		supplierID := ""
		if req.SupplierName != "" {
			sup, err := resolveOrCreateSupplier(supRepo, req.SupplierName)
			if err != nil {
				return err
			}
			supplierID = sup.ID
		}

		now := time.Now()
		r := &entity.Requisition{
			ID:          uuid.New().String(),
			ItemID:      item.ID,
			ItemName:    item.Name,
			Quantity:    req.Quantity,
			UnitPrice:   unitPrice,
			RequestedBy: actorID,
			Department:  req.Department,
			SupplierID:  supplierID,
			Status:      entity.ReqStatusPendingApproval,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := reqRepo.Create(r); err != nil {
			return err
		}
		if err := reqRepo.AppendHistory(&entity.HistoryEntry{
			ID:        uuid.New().String(),
			EntityID:  r.ID,
			Timestamp: now,
			ActorID:   actorID,
			ActorName: actorName,
			Status:    string(r.Status),
			Note:      "Creada por el departamento " + req.Department,
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

// resolveOrCreateSupplier busca un proveedor por nombre y lo crea si no
// existe. Mismo patrón que la resolución implícita de ítems.
func resolveOrCreateSupplier(supRepo repository.SupplierRepository, name string) (*entity.Supplier, error) {
	sup, err := supRepo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if sup != nil {
		return sup, nil
	}
	now := time.Now()
	sup = &entity.Supplier{
		ID:        uuid.New().String(),
		Name:      name,
		Rating:    decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := supRepo.Create(sup); err != nil {
		return nil, err
	}
	return sup, nil
}
