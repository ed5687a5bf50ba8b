package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mochkris/compras-api/internal/application/dto"
	"github.com/mochkris/compras-api/internal/domain"
	"github.com/mochkris/compras-api/internal/domain/entity"
	"github.com/mochkris/compras-api/internal/domain/repository"
)

// UseCase operaciones de consulta y mantenimiento del inventario. El stock
// en sí solo lo mutan los casos de uso del workflow (recepción, entrega).
type UseCase struct {
	invRepo     repository.InventoryRepository
	restockRepo repository.AutoRestockRepository
}

// NewUseCase construye el caso de uso de inventario.
func NewUseCase(invRepo repository.InventoryRepository, restockRepo repository.AutoRestockRepository) *UseCase {
	return &UseCase{invRepo: invRepo, restockRepo: restockRepo}
}

// ListItems lista ítems de inventario paginados.
func (uc *UseCase) ListItems(_ context.Context, limit, offset int) ([]*dto.ItemResponse, error) {
	items, err := uc.invRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.ToItemResponse(it))
	}
	return out, nil
}

// CreateItem alta manual de un ítem.
func (uc *UseCase) CreateItem(_ context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	existing, err := uc.invRepo.GetByName(in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrConflict
	}
	now := time.Now()
	item := &entity.InventoryItem{
		ID:               uuid.New().String(),
		Name:             in.Name,
		Quantity:         in.Quantity,
		Unit:             defaultStr(in.Unit, entity.DefaultUnit),
		RestockThreshold: defaultInt(in.RestockThreshold, entity.DefaultRestockThreshold),
		RestockQty:       defaultInt(in.RestockQty, entity.DefaultRestockQty),
		UnitPrice:        decimal.NewFromFloat(in.UnitPrice),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.invRepo.Create(item); err != nil {
		return nil, err
	}
	return dto.ToItemResponse(item), nil
}

// UpdateItem edita umbral, unidad y precio. No toca el stock.
func (uc *UseCase) UpdateItem(_ context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.invRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != "" {
		item.Name = in.Name
	}
	if in.Unit != "" {
		item.Unit = in.Unit
	}
	if in.RestockThreshold > 0 {
		item.RestockThreshold = in.RestockThreshold
	}
	if in.RestockQty > 0 {
		item.RestockQty = in.RestockQty
	}
	if in.UnitPrice > 0 {
		item.UnitPrice = decimal.NewFromFloat(in.UnitPrice)
	}
	item.UpdatedAt = time.Now()
	if err := uc.invRepo.Update(item); err != nil {
		return nil, err
	}
	return dto.ToItemResponse(item), nil
}

// ListAutoRestocked devuelve el ledger de auto-reposición (dashboard).
func (uc *UseCase) ListAutoRestocked(_ context.Context, limit, offset int) ([]*dto.AutoRestockResponse, error) {
	entries, err := uc.restockRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.AutoRestockResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, &dto.AutoRestockResponse{
			ItemID:        e.ItemID,
			ItemName:      e.ItemName,
			Quantity:      e.Quantity,
			RequisitionID: e.RequisitionID,
			CreatedAt:     e.CreatedAt,
		})
	}
	return out, nil
}

func defaultStr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func defaultInt(v, def int64) int64 {
	if v <= 0 {
		return def
	}
	return v
}
