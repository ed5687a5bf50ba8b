// Package apptest provee dobles en memoria de los puertos de persistencia
// para las pruebas de los casos de uso. Replican el contrato de los
// adaptadores de Postgres: nil,nil cuando no hay fila, errores centinela de
// dominio y copias defensivas para que una transacción fallida no deje
// mutaciones visibles en el store.
package apptest

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mochkris/compras-api/internal/domain"
	"github.com/mochkris/compras-api/internal/domain/entity"
	"github.com/mochkris/compras-api/internal/domain/repository"
)

// MemStore estado compartido de todos los repositorios falsos.
type MemStore struct {
	POs       map[string]*entity.PurchaseOrder
	Reqs      map[string]*entity.Requisition
	Items     map[string]*entity.InventoryItem
	Suppliers map[string]*entity.Supplier
	Ratings   map[string]*entity.SupplierRating
	Restocks  []*entity.AutoRestockEntry
	History   map[string][]entity.HistoryEntry
}

func NewMemStore() *MemStore {
	return &MemStore{
		POs:       make(map[string]*entity.PurchaseOrder),
		Reqs:      make(map[string]*entity.Requisition),
		Items:     make(map[string]*entity.InventoryItem),
		Suppliers: make(map[string]*entity.Supplier),
		Ratings:   make(map[string]*entity.SupplierRating),
		History:   make(map[string][]entity.HistoryEntry),
	}
}

// Tx retorna un runner que ejecuta fn directamente sobre el store. La firma
// es estructuralmente idéntica a los puertos TxRunner de purchasing y
// requisition, así que satisface ambos.
func (s *MemStore) Tx() *TxRunner { return &TxRunner{s} }

func (s *MemStore) PORepo() repository.PurchaseOrderRepository { return &memPORepo{s} }
func (s *MemStore) ReqRepo() repository.RequisitionRepository  { return &memReqRepo{s} }
func (s *MemStore) InvRepo() repository.InventoryRepository    { return &memInvRepo{s} }
func (s *MemStore) SupRepo() repository.SupplierRepository     { return &memSupRepo{s} }

// TxRunner pseudo-transaccional: sin rollback real, los casos de uso validan
// antes de mutar y las pruebas verifican justamente ese orden.
type TxRunner struct{ s *MemStore }

func (tx *TxRunner) Run(_ context.Context, fn func(
	repository.PurchaseOrderRepository,
	repository.RequisitionRepository,
	repository.InventoryRepository,
	repository.SupplierRepository,
	repository.AutoRestockRepository,
) error) error {
	return fn(
		&memPORepo{tx.s}, &memReqRepo{tx.s}, &memInvRepo{tx.s},
		&memSupRepo{tx.s}, &memRestockRepo{tx.s},
	)
}

// PONumberGen secuencia predecible PO-TEST-1, PO-TEST-2...
type PONumberGen struct{ n int }

func (g *PONumberGen) Next() string {
	g.n++
	return fmt.Sprintf("PO-TEST-%d", g.n)
}

// NotifierRecorder registra los estados notificados tras cada commit.
type NotifierRecorder struct {
	Calls []string
}

func (n *NotifierRecorder) NotifyStatusChange(_ context.Context, po *entity.PurchaseOrder, _ string) error {
	n.Calls = append(n.Calls, string(po.Status))
	return nil
}

func clonePO(po *entity.PurchaseOrder) *entity.PurchaseOrder {
	cp := *po
	cp.Items = append([]entity.POItem(nil), po.Items...)
	cp.History = nil
	return &cp
}

// ─── Órdenes de compra ────────────────────────────────────────────────────────

type memPORepo struct{ s *MemStore }

func (r *memPORepo) Create(po *entity.PurchaseOrder) error {
	r.s.POs[po.ID] = clonePO(po)
	return nil
}

func (r *memPORepo) CreateItem(item *entity.POItem) error {
	po, ok := r.s.POs[item.POID]
	if !ok {
		return domain.ErrNotFound
	}
	po.Items = append(po.Items, *item)
	return nil
}

func (r *memPORepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	po, ok := r.s.POs[id]
	if !ok {
		return nil, nil
	}
	return clonePO(po), nil
}

func (r *memPORepo) GetForUpdate(id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(id)
}

func (r *memPORepo) Update(po *entity.PurchaseOrder) error {
	if _, ok := r.s.POs[po.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.POs[po.ID] = clonePO(po)
	return nil
}

func (r *memPORepo) UpdateItemReceived(itemID string, receivedQty int64, note string) error {
	for _, po := range r.s.POs {
		for i := range po.Items {
			if po.Items[i].ID == itemID {
				po.Items[i].ReceivedQty = receivedQty
				po.Items[i].DiscrepancyNote = note
				return nil
			}
		}
	}
	return domain.ErrNotFound
}

func (r *memPORepo) List(filter repository.POFilter) ([]*entity.PurchaseOrder, error) {
	var out []*entity.PurchaseOrder
	for _, po := range r.s.POs {
		if filter.Status != "" && po.Status != filter.Status {
			continue
		}
		if filter.OwnerID != "" && po.OwnerID != filter.OwnerID {
			continue
		}
		if filter.AssignedTo != "" && po.AssignedTo != filter.AssignedTo {
			continue
		}
		out = append(out, clonePO(po))
	}
	return out, nil
}

func (r *memPORepo) Stats(ownerID string) (*repository.POStats, error) {
	stats := &repository.POStats{}
	for _, po := range r.s.POs {
		if ownerID != "" && po.OwnerID != ownerID {
			continue
		}
		stats.Total++
		switch po.Status {
		case entity.POStatusDraft:
			stats.Draft++
		case entity.POStatusApproved:
			stats.Approved++
		case entity.POStatusPurchased:
			stats.Purchased++
		case entity.POStatusPartiallyReceived:
			stats.PartiallyReceived++
		case entity.POStatusReceived:
			stats.Received++
		case entity.POStatusCompleted:
			stats.Completed++
		case entity.POStatusCancelled:
			stats.Cancelled++
		}
	}
	return stats, nil
}

func (r *memPORepo) AppendHistory(e *entity.HistoryEntry) error {
	r.s.History[e.EntityID] = append(r.s.History[e.EntityID], *e)
	return nil
}

func (r *memPORepo) ListHistory(poID string) ([]entity.HistoryEntry, error) {
	return r.s.History[poID], nil
}

// ─── Requisiciones ────────────────────────────────────────────────────────────

type memReqRepo struct{ s *MemStore }

func (r *memReqRepo) Create(req *entity.Requisition) error {
	cp := *req
	r.s.Reqs[req.ID] = &cp
	return nil
}

func (r *memReqRepo) GetByID(id string) (*entity.Requisition, error) {
	req, ok := r.s.Reqs[id]
	if !ok {
		return nil, nil
	}
	cp := *req
	cp.History = nil
	return &cp, nil
}

func (r *memReqRepo) GetForUpdate(id string) (*entity.Requisition, error) {
	return r.GetByID(id)
}

func (r *memReqRepo) Update(req *entity.Requisition) error {
	if _, ok := r.s.Reqs[req.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *req
	r.s.Reqs[req.ID] = &cp
	return nil
}

func (r *memReqRepo) List(status entity.ReqStatus, _, _ int) ([]*entity.Requisition, error) {
	var out []*entity.Requisition
	for _, req := range r.s.Reqs {
		if status != "" && req.Status != status {
			continue
		}
		cp := *req
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memReqRepo) HasOpenAutoRequisition(itemID string) (bool, error) {
	for _, req := range r.s.Reqs {
		if !req.Auto || req.ItemID != itemID {
			continue
		}
		switch req.Status {
		case entity.ReqStatusRejected, entity.ReqStatusCompleted, entity.ReqStatusDelivered:
		default:
			return true, nil
		}
	}
	return false, nil
}

func (r *memReqRepo) AppendHistory(e *entity.HistoryEntry) error {
	r.s.History[e.EntityID] = append(r.s.History[e.EntityID], *e)
	return nil
}

func (r *memReqRepo) ListHistory(reqID string) ([]entity.HistoryEntry, error) {
	return r.s.History[reqID], nil
}

// ─── Inventario ───────────────────────────────────────────────────────────────

type memInvRepo struct{ s *MemStore }

func (r *memInvRepo) Create(item *entity.InventoryItem) error {
	cp := *item
	r.s.Items[item.ID] = &cp
	return nil
}

func (r *memInvRepo) GetByID(id string) (*entity.InventoryItem, error) {
	item, ok := r.s.Items[id]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (r *memInvRepo) GetByName(name string) (*entity.InventoryItem, error) {
	for _, item := range r.s.Items {
		if strings.EqualFold(item.Name, name) {
			cp := *item
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memInvRepo) GetForUpdate(id string) (*entity.InventoryItem, error) {
	return r.GetByID(id)
}

func (r *memInvRepo) UpdateQuantity(id string, qty int64) error {
	item, ok := r.s.Items[id]
	if !ok {
		return domain.ErrNotFound
	}
	// Replica el CHECK quantity >= 0 de la tabla.
	if qty < 0 {
		return domain.ErrInsufficientStock
	}
	item.Quantity = qty
	return nil
}

func (r *memInvRepo) Update(item *entity.InventoryItem) error {
	stored, ok := r.s.Items[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	// Solo metadatos; la cantidad se toca únicamente vía UpdateQuantity.
	qty := stored.Quantity
	cp := *item
	cp.Quantity = qty
	r.s.Items[item.ID] = &cp
	return nil
}

func (r *memInvRepo) List(_, _ int) ([]*entity.InventoryItem, error) {
	var out []*entity.InventoryItem
	for _, item := range r.s.Items {
		cp := *item
		out = append(out, &cp)
	}
	return out, nil
}

// ─── Proveedores ──────────────────────────────────────────────────────────────

type memSupRepo struct{ s *MemStore }

func (r *memSupRepo) Create(sup *entity.Supplier) error {
	cp := *sup
	r.s.Suppliers[sup.ID] = &cp
	return nil
}

func (r *memSupRepo) GetByID(id string) (*entity.Supplier, error) {
	sup, ok := r.s.Suppliers[id]
	if !ok {
		return nil, nil
	}
	cp := *sup
	return &cp, nil
}

func (r *memSupRepo) GetByName(name string) (*entity.Supplier, error) {
	for _, sup := range r.s.Suppliers {
		if sup.Name == name {
			cp := *sup
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memSupRepo) UpdateRating(id string, rating decimal.Decimal) error {
	sup, ok := r.s.Suppliers[id]
	if !ok {
		return domain.ErrNotFound
	}
	sup.Rating = rating
	return nil
}

func (r *memSupRepo) List(_, _ int) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	for _, sup := range r.s.Suppliers {
		cp := *sup
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memSupRepo) CreateRating(rating *entity.SupplierRating) error {
	// UNIQUE (po_id)
	for _, existing := range r.s.Ratings {
		if existing.POID == rating.POID {
			return domain.ErrAlreadyRated
		}
	}
	cp := *rating
	r.s.Ratings[rating.ID] = &cp
	return nil
}

func (r *memSupRepo) GetRatingByPO(poID string) (*entity.SupplierRating, error) {
	for _, rating := range r.s.Ratings {
		if rating.POID == poID {
			cp := *rating
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memSupRepo) ListRatingsBySupplier(supplierID string) ([]*entity.SupplierRating, error) {
	var out []*entity.SupplierRating
	for _, rating := range r.s.Ratings {
		if rating.SupplierID == supplierID {
			cp := *rating
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ─── Auto-reposición ──────────────────────────────────────────────────────────

type memRestockRepo struct{ s *MemStore }

func (r *memRestockRepo) Create(e *entity.AutoRestockEntry) error {
	cp := *e
	r.s.Restocks = append(r.s.Restocks, &cp)
	return nil
}

func (r *memRestockRepo) List(_, _ int) ([]*entity.AutoRestockEntry, error) {
	return append([]*entity.AutoRestockEntry(nil), r.s.Restocks...), nil
}
