package requisition

import (
	"context"

	"github.com/mochkris/compras-api/internal/application/dto"
	"github.com/mochkris/compras-api/internal/domain"
	"github.com/mochkris/compras-api/internal/domain/entity"
	"github.com/mochkris/compras-api/internal/domain/repository"
)

// QueryUseCase lecturas de requisiciones.
type QueryUseCase struct {
	reqRepo repository.RequisitionRepository
}

func NewQueryUseCase(reqRepo repository.RequisitionRepository) *QueryUseCase {
	return &QueryUseCase{reqRepo: reqRepo}
}

func (uc *QueryUseCase) List(ctx context.Context, status string, page dto.PageRequest) ([]*dto.RequisitionResponse, error) {
	reqs, err := uc.reqRepo.List(entity.ReqStatus(status), page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.RequisitionResponse, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, dto.ToRequisitionResponse(r))
	}
	return out, nil
}

func (uc *QueryUseCase) Get(ctx context.Context, id string) (*dto.RequisitionResponse, error) {
	r, err := uc.reqRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	history, err := uc.reqRepo.ListHistory(r.ID)
	if err != nil {
		return nil, err
	}
	r.History = history
	return dto.ToRequisitionResponse(r), nil
}
