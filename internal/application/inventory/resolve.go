package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mochkris/compras-api/internal/domain/entity"
	"github.com/mochkris/compras-api/internal/domain/repository"
)

// ResolveOrCreateItem busca un ítem por nombre y, si no existe, lo crea con
// stock cero y umbrales por defecto. Es la versión explícita de la creación
// implícita que el sistema anterior hacía como efecto oculto al registrar
// requisiciones u órdenes con nombres desconocidos.
// Debe invocarse con un repositorio atado a la transacción del caller.
func ResolveOrCreateItem(invRepo repository.InventoryRepository, name string, unitPrice decimal.Decimal) (*entity.InventoryItem, error) {
	item, err := invRepo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if item != nil {
		return item, nil
	}
	now := time.Now()
	item = &entity.InventoryItem{
		ID:               uuid.New().String(),
		Name:             name,
		Quantity:         0,
		Unit:             entity.DefaultUnit,
		RestockThreshold: entity.DefaultRestockThreshold,
		RestockQty:       entity.DefaultRestockQty,
		UnitPrice:        unitPrice,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := invRepo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}
