package repository

import "github.com/mochkris/compras-api/internal/domain/entity"

// InventoryRepository puerto de persistencia del inventario (DIP).
// Usado dentro de transacciones para garantizar consistencia.
type InventoryRepository interface {
	Create(item *entity.InventoryItem) error
	GetByID(id string) (*entity.InventoryItem, error)
	// GetByName busca por nombre sin distinguir mayúsculas (resolveOrCreateItem).
	GetByName(name string) (*entity.InventoryItem, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(id string) (*entity.InventoryItem, error)
	UpdateQuantity(id string, qty int64) error
	Update(item *entity.InventoryItem) error
	List(limit, offset int) ([]*entity.InventoryItem, error)
}

// AutoRestockRepository puerto del ledger auxiliar de auto-reposición
// (solo observabilidad para el dashboard).
type AutoRestockRepository interface {
	Create(e *entity.AutoRestockEntry) error
	List(limit, offset int) ([]*entity.AutoRestockEntry, error)
}
