package repository

import "github.com/mochkris/compras-api/internal/domain/entity"

// RequisitionRepository puerto de persistencia de requisiciones.
type RequisitionRepository interface {
	Create(r *entity.Requisition) error
	GetByID(id string) (*entity.Requisition, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(id string) (*entity.Requisition, error)
	Update(r *entity.Requisition) error
	// List filtra por estado; status vacío devuelve todas.
	List(status entity.ReqStatus, limit, offset int) ([]*entity.Requisition, error)
	// HasOpenAutoRequisition indica si ya existe una auto-requisición no
	// terminal para el ítem (guarda de duplicados del disparador).
	HasOpenAutoRequisition(itemID string) (bool, error)
	AppendHistory(e *entity.HistoryEntry) error
	ListHistory(reqID string) ([]entity.HistoryEntry, error)
}
