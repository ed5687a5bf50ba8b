package purchasing

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

// CreatePOUseCase alta transaccional de una OC en borrador con sus líneas.
type CreatePOUseCase struct {
	txRunner TxRunner
	supRepo  repository.SupplierRepository
	poNum    PONumberGenerator
}

// NewCreatePOUseCase construye el caso de uso.
func NewCreatePOUseCase(txRunner TxRunner, supRepo repository.SupplierRepository, poNum PONumberGenerator) *CreatePOUseCase {
	return &CreatePOUseCase{txRunner: txRunner, supRepo: supRepo, poNum: poNum}
}

// Create valida el proveedor, resuelve (o crea) cada ítem referenciado y
// persiste cabecera + líneas + entrada inicial de historial en una sola
// transacción (Commit o Rollback completo).
func (uc *CreatePOUseCase) Create(ctx context.Context, actorID, actorName, actorRole string, in dto.CreatePORequest) (*entity.PurchaseOrder, error) {
	expected, err := time.Parse("2006-01-02", in.ExpectedDeliveryDate)
	if err != nil {
		return nil, domain.NewValidationError("expected_delivery_date", "formato esperado YYYY-MM-DD")
	}
	if len(in.Items) == 0 {
		return nil, domain.NewValidationError("items", "se requiere al menos una línea")
	}

	supplier, err := uc.supRepo.GetByID(in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	po := &entity.PurchaseOrder{
		ID:           uuid.New().String(),
		PONumber:     uc.poNum.Next(),
		SupplierID:   supplier.ID,
		OwnerID:      actorID,
		Notes:        in.Notes,
		Status:       entity.POStatusDraft,
		ExpectedDate: expected,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	// El manager que crea su propia OC queda asignado de entrada.
	if actorRole == entity.RoleManager {
		po.AssignedTo = actorID
	}

	err = uc.txRunner.Run(ctx, func(
		poRepo repository.PurchaseOrderRepository,
		_ repository.RequisitionRepository,
		invRepo repository.InventoryRepository,
		_ repository.SupplierRepository,
		_ repository.AutoRestockRepository,
	) error {
		if err := poRepo.Create(po); err != nil {
			return err
		}
		for _, line := range in.Items {
			item, err := appinv.ResolveOrCreateItem(invRepo, line.ItemName, decimal.NewFromFloat(line.UnitPrice))
			if err != nil {
				return err
			}
			poItem := &entity.POItem{
				ID:          uuid.New().String(),
				POID:        po.ID,
				ItemID:      item.ID,
				ItemName:    line.ItemName,
				Description: line.Description,
				Quantity:    line.Quantity,
				UnitPrice:   decimal.NewFromFloat(line.UnitPrice),
			}
			if err := poRepo.CreateItem(poItem); err != nil {
				return err
			}
			po.Items = append(po.Items, *poItem)
		}
		return poRepo.AppendHistory(&entity.HistoryEntry{
			ID:        uuid.New().String(),
			EntityID:  po.ID,
			Timestamp: now,
			ActorID:   actorID,
			ActorName: actorName,
			Status:    string(entity.POStatusDraft),
			Note:      "Orden de compra creada",
		})
	})
	if err != nil {
		return nil, err
	}
	return po, nil
}
