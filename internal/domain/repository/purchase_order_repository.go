package repository

import (
	"github.com/shopspring/decimal"

	"github.com/mochkris/compras-api/internal/domain/entity"
)

// POFilter criterios de listado. OwnerID/AssignedTo vacíos = sin filtro.
type POFilter struct {
	Status     entity.POStatus
	OwnerID    string
	AssignedTo string
	Limit      int
	Offset     int
}

// POStats conteos por estado y calificación promedio de proveedores,
// calculados en la base (consulta de agregación).
type POStats struct {
	Total             int64
	Draft             int64
	Approved          int64
	Purchased         int64
	PartiallyReceived int64
	Received          int64
	Completed         int64
	Cancelled         int64
	AvgSupplierRating decimal.Decimal
}

// PurchaseOrderRepository puerto de persistencia de órdenes de compra.
// GetByID y GetForUpdate devuelven la OC con sus líneas cargadas.
type PurchaseOrderRepository interface {
	Create(po *entity.PurchaseOrder) error
	CreateItem(item *entity.POItem) error
	GetByID(id string) (*entity.PurchaseOrder, error)
	// GetForUpdate bloquea la fila de la OC (SELECT FOR UPDATE) para que la
	// secuencia leer-validar-escribir de una transición sea atómica.
	GetForUpdate(id string) (*entity.PurchaseOrder, error)
	Update(po *entity.PurchaseOrder) error
	UpdateItemReceived(itemID string, receivedQty int64, note string) error
	List(filter POFilter) ([]*entity.PurchaseOrder, error)
	Stats(ownerID string) (*POStats, error)
	AppendHistory(e *entity.HistoryEntry) error
	ListHistory(poID string) ([]entity.HistoryEntry, error)
}
