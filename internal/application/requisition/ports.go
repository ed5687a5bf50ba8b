package requisition

import (
	"context"

	"github.com/mochkris/compras-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con
// repositorios atados a esa tx. Estructuralmente idéntico al puerto del
// paquete purchasing: una sola implementación satisface ambos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		poRepo repository.PurchaseOrderRepository,
		reqRepo repository.RequisitionRepository,
		invRepo repository.InventoryRepository,
		supRepo repository.SupplierRepository,
		restockRepo repository.AutoRestockRepository,
	) error) error
}

// PONumberGenerator genera el identificador visible de la OC creada desde
// una requisición.
type PONumberGenerator interface {
	Next() string
}
