package repository

import (
	"github.com/shopspring/decimal"

	"github.com/mochkris/compras-api/internal/domain/entity"
)

// SupplierRepository puerto de persistencia de proveedores y sus
// calificaciones históricas.
type SupplierRepository interface {
	Create(s *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	// GetByName busca por nombre exacto (alta ad hoc desde las pantallas de orden).
	GetByName(name string) (*entity.Supplier, error)
	UpdateRating(id string, rating decimal.Decimal) error
	List(limit, offset int) ([]*entity.Supplier, error)

	CreateRating(r *entity.SupplierRating) error
	// GetRatingByPO devuelve nil si la OC no tiene calificación.
	GetRatingByPO(poID string) (*entity.SupplierRating, error)
	ListRatingsBySupplier(supplierID string) ([]*entity.SupplierRating, error)
}
