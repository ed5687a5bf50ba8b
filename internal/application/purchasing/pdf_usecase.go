package purchasing

import (
	"context"

	"github.com/mochkris/compras-api/internal/domain"
	"github.com/mochkris/compras-api/internal/domain/repository"
)

// PDFUseCase genera el documento imprimible de una OC.
type PDFUseCase struct {
	poRepo  repository.PurchaseOrderRepository
	supRepo repository.SupplierRepository
	gen     POPDFGenerator
}

func NewPDFUseCase(poRepo repository.PurchaseOrderRepository, supRepo repository.SupplierRepository, gen POPDFGenerator) *PDFUseCase {
	return &PDFUseCase{poRepo: poRepo, supRepo: supRepo, gen: gen}
}

func (uc *PDFUseCase) Generate(ctx context.Context, poID string) ([]byte, string, error) {
	po, err := uc.poRepo.GetByID(poID)
	if err != nil {
		return nil, "", err
	}
	if po == nil {
		return nil, "", domain.ErrNotFound
	}
	sup, err := uc.supRepo.GetByID(po.SupplierID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.gen.GeneratePOPDF(ctx, po, sup)
	if err != nil {
		return nil, "", err
	}
	return pdf, "orden_" + po.PONumber + ".pdf", nil
}
