package purchasing

import (
	"context"

	"github.com/mochkris/compras-api/internal/application/dto"
	"github.com/mochkris/compras-api/internal/domain"
	"github.com/mochkris/compras-api/internal/domain/entity"
	"github.com/mochkris/compras-api/internal/domain/repository"
)

// QueryPOUseCase lecturas de OCs: listado filtrado por rol, detalle con
// historial y estadísticas del owner.
type QueryPOUseCase struct {
	poRepo  repository.PurchaseOrderRepository
	supRepo repository.SupplierRepository
}

func NewQueryPOUseCase(poRepo repository.PurchaseOrderRepository, supRepo repository.SupplierRepository) *QueryPOUseCase {
	return &QueryPOUseCase{poRepo: poRepo, supRepo: supRepo}
}

// List los owners ven sus propias OCs, los managers las asignadas a ellos;
// el resto de roles ve todo (compras y custodia necesitan visibilidad global).
func (uc *QueryPOUseCase) List(ctx context.Context, actorID, role, status string, page dto.PageRequest) ([]*dto.POResponse, error) {
	filter := repository.POFilter{
		Status: entity.POStatus(status),
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	switch role {
	case entity.RoleOwner:
		filter.OwnerID = actorID
	case entity.RoleManager:
		filter.AssignedTo = actorID
	}

	pos, err := uc.poRepo.List(filter)
	if err != nil {
		return nil, err
	}

	names, err := uc.supplierNames(pos)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.POResponse, 0, len(pos))
	for _, po := range pos {
		out = append(out, dto.ToPOResponse(po, names[po.SupplierID]))
	}
	return out, nil
}

// Get detalle de una OC con historial. Aplica la misma visibilidad que List.
func (uc *QueryPOUseCase) Get(ctx context.Context, id, actorID, role string) (*dto.POResponse, error) {
	po, err := uc.poRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	switch role {
	case entity.RoleOwner:
		if po.OwnerID != actorID {
			return nil, domain.ErrForbidden
		}
	case entity.RoleManager:
		if po.AssignedTo != "" && po.AssignedTo != actorID {
			return nil, domain.ErrForbidden
		}
	}

	history, err := uc.poRepo.ListHistory(po.ID)
	if err != nil {
		return nil, err
	}
	po.History = history

	supplierName := ""
	if sup, err := uc.supRepo.GetByID(po.SupplierID); err != nil {
		return nil, err
	} else if sup != nil {
		supplierName = sup.Name
	}
	return dto.ToPOResponse(po, supplierName), nil
}

// Stats métricas agregadas de las OCs del owner autenticado.
func (uc *QueryPOUseCase) Stats(ctx context.Context, ownerID string) (*dto.POStatsResponse, error) {
	stats, err := uc.poRepo.Stats(ownerID)
	if err != nil {
		return nil, err
	}
	return &dto.POStatsResponse{
		Total:             stats.Total,
		Draft:             stats.Draft,
		Approved:          stats.Approved,
		Purchased:         stats.Purchased,
		PartiallyReceived: stats.PartiallyReceived,
		Received:          stats.Received,
		Completed:         stats.Completed,
		Cancelled:         stats.Cancelled,
		AvgSupplierRating: stats.AvgSupplierRating,
	}, nil
}

// Ratings calificaciones registradas para un proveedor.
func (uc *QueryPOUseCase) Ratings(ctx context.Context, supplierID string) ([]dto.RatingResponse, error) {
	sup, err := uc.supRepo.GetByID(supplierID)
	if err != nil {
		return nil, err
	}
	if sup == nil {
		return nil, domain.ErrNotFound
	}
	ratings, err := uc.supRepo.ListRatingsBySupplier(supplierID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RatingResponse, 0, len(ratings))
	for _, r := range ratings {
		out = append(out, dto.RatingResponse{
			ID:             r.ID,
			POID:           r.POID,
			SupplierID:     r.SupplierID,
			DeliveryRating: r.DeliveryRating,
			QualityRating:  r.QualityRating,
			PriceRating:    r.PriceRating,
			Notes:          r.Notes,
			CreatedAt:      r.CreatedAt,
		})
	}
	return out, nil
}

func (uc *QueryPOUseCase) supplierNames(pos []*entity.PurchaseOrder) (map[string]string, error) {
	names := make(map[string]string)
	for _, po := range pos {
		if _, ok := names[po.SupplierID]; ok {
			continue
		}
		sup, err := uc.supRepo.GetByID(po.SupplierID)
		if err != nil {
			return nil, err
		}
		if sup != nil {
			names[po.SupplierID] = sup.Name
		}
	}
	return names, nil
}
