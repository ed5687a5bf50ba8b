package supplier

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

// UseCase operaciones CRUD de proveedores. Las calificaciones se gestionan
// desde el flujo de órdenes de compra; aquí solo se leen.
type UseCase struct {
	supRepo repository.SupplierRepository
}

func NewUseCase(supRepo repository.SupplierRepository) *UseCase {
	return &UseCase{supRepo: supRepo}
}

// Create alta de un proveedor. Nombre duplicado devuelve ErrConflict.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	existing, err := uc.supRepo.GetByName(in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrConflict
	}
	now := time.Now()
	sup := &entity.Supplier{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Contact:   in.Contact,
		Email:     in.Email,
		Rating:    decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.supRepo.Create(sup); err != nil {
		return nil, err
	}
	return dto.ToSupplierResponse(sup, nil), nil
}

func (uc *UseCase) List(ctx context.Context, page dto.PageRequest) ([]*dto.SupplierResponse, error) {
	sups, err := uc.supRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SupplierResponse, 0, len(sups))
	for _, s := range sups {
		out = append(out, dto.ToSupplierResponse(s, nil))
	}
	return out, nil
}

// Get detalle del proveedor con su historial de calificaciones.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	sup, err := uc.supRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sup == nil {
		return nil, domain.ErrNotFound
	}
	ratings, err := uc.supRepo.ListRatingsBySupplier(id)
	if err != nil {
		return nil, err
	}
	return dto.ToSupplierResponse(sup, ratings), nil
}
