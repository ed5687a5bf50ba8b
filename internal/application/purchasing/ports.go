package purchasing

import (
	"context"

	"github.com/mochkris/compras-api/internal/domain/entity"
	"github.com/mochkris/compras-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que cada transición del workflow
// (estado + historial + efectos de inventario) se confirme completa o nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		poRepo repository.PurchaseOrderRepository,
		reqRepo repository.RequisitionRepository,
		invRepo repository.InventoryRepository,
		supRepo repository.SupplierRepository,
		restockRepo repository.AutoRestockRepository,
	) error) error
}

// PONumberGenerator genera el identificador visible de una OC (PO-xxxx).
type PONumberGenerator interface {
	Next() string
}

// Notifier puerto de notificación por correo. Los fallos se registran y no
// interrumpen la transición.
type Notifier interface {
	NotifyStatusChange(ctx context.Context, po *entity.PurchaseOrder, actorName string) error
}

// POPDFGenerator puerto de render del PDF de una OC.
type POPDFGenerator interface {
	GeneratePOPDF(ctx context.Context, po *entity.PurchaseOrder, supplier *entity.Supplier) ([]byte, error)
}
