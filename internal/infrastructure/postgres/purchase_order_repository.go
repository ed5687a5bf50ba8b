package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/mochkris/compras-api/internal/domain"
	"github.com/mochkris/compras-api/internal/domain/entity"
	"github.com/mochkris/compras-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

const poColumns = `id, po_number, supplier_id, owner_id, assigned_to, approved_by, requisition_id,
	notes, invoice_number, status, supplier_rated, expected_date,
	created_at, updated_at, approved_at, purchased_at, received_at`

// PurchaseOrderRepo implementación del puerto PurchaseOrderRepository sobre
// PostgreSQL (usable con pool o tx). GetByID/GetForUpdate cargan las líneas.
type PurchaseOrderRepo struct {
	q Querier
}

func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

func (r *PurchaseOrderRepo) Create(po *entity.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (` + poColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(context.Background(), query,
		po.ID, po.PONumber, po.SupplierID, po.OwnerID,
		nullIfEmpty(po.AssignedTo), nullIfEmpty(po.ApprovedBy), nullIfEmpty(po.RequisitionID),
		po.Notes, po.InvoiceNumber, string(po.Status), po.SupplierRated, po.ExpectedDate,
		po.CreatedAt, po.UpdatedAt, po.ApprovedAt, po.PurchasedAt, po.ReceivedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}
	return nil
}

func (r *PurchaseOrderRepo) CreateItem(item *entity.POItem) error {
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO po_items (id, po_id, item_id, item_name, description, quantity, unit_price, received_qty, discrepancy_note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		item.ID, item.POID, item.ItemID, item.ItemName, item.Description,
		item.Quantity, item.UnitPrice, item.ReceivedQty, item.DiscrepancyNote,
	)
	if err != nil {
		return fmt.Errorf("insert po item: %w", err)
	}
	return nil
}

func (r *PurchaseOrderRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	return r.getOne(`SELECT ` + poColumns + ` FROM purchase_orders WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila de la OC para que la secuencia
// leer-validar-escribir de una transición sea atómica.
func (r *PurchaseOrderRepo) GetForUpdate(id string) (*entity.PurchaseOrder, error) {
	return r.getOne(`SELECT `+poColumns+` FROM purchase_orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *PurchaseOrderRepo) getOne(query, id string) (*entity.PurchaseOrder, error) {
	po, err := scanPO(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	items, err := r.loadItems(po.ID)
	if err != nil {
		return nil, err
	}
	po.Items = items
	return po, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPO(row rowScanner) (*entity.PurchaseOrder, error) {
	var (
		po         entity.PurchaseOrder
		assignedTo *string
		approvedBy *string
		reqID      *string
		status     string
	)
	err := row.Scan(
		&po.ID, &po.PONumber, &po.SupplierID, &po.OwnerID,
		&assignedTo, &approvedBy, &reqID,
		&po.Notes, &po.InvoiceNumber, &status, &po.SupplierRated, &po.ExpectedDate,
		&po.CreatedAt, &po.UpdatedAt, &po.ApprovedAt, &po.PurchasedAt, &po.ReceivedAt,
	)
	if err != nil {
		return nil, err
	}
	if assignedTo != nil {
		po.AssignedTo = *assignedTo
	}
	if approvedBy != nil {
		po.ApprovedBy = *approvedBy
	}
	if reqID != nil {
		po.RequisitionID = *reqID
	}
	po.Status = entity.POStatus(status)
	return &po, nil
}

func (r *PurchaseOrderRepo) loadItems(poID string) ([]entity.POItem, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, po_id, item_id, item_name, description, quantity, unit_price, received_qty, discrepancy_note
		FROM po_items WHERE po_id = $1 ORDER BY item_name`,
		poID,
	)
	if err != nil {
		return nil, fmt.Errorf("load po items: %w", err)
	}
	defer rows.Close()

	var items []entity.POItem
	for rows.Next() {
		var it entity.POItem
		if err := rows.Scan(
			&it.ID, &it.POID, &it.ItemID, &it.ItemName, &it.Description,
			&it.Quantity, &it.UnitPrice, &it.ReceivedQty, &it.DiscrepancyNote,
		); err != nil {
			return nil, fmt.Errorf("scan po item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *PurchaseOrderRepo) Update(po *entity.PurchaseOrder) error {
	cmd, err := r.q.Exec(context.Background(), `
		UPDATE purchase_orders
		SET assigned_to = $2, approved_by = $3, notes = $4, invoice_number = $5,
		    status = $6, supplier_rated = $7, expected_date = $8, updated_at = $9,
		    approved_at = $10, purchased_at = $11, received_at = $12
		WHERE id = $1`,
		po.ID, nullIfEmpty(po.AssignedTo), nullIfEmpty(po.ApprovedBy), po.Notes, po.InvoiceNumber,
		string(po.Status), po.SupplierRated, po.ExpectedDate, po.UpdatedAt,
		po.ApprovedAt, po.PurchasedAt, po.ReceivedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update purchase order: fila no encontrada: %s", po.ID)
	}
	return nil
}

func (r *PurchaseOrderRepo) UpdateItemReceived(itemID string, receivedQty int64, note string) error {
	cmd, err := r.q.Exec(context.Background(), `
		UPDATE po_items SET received_qty = $2, discrepancy_note = $3 WHERE id = $1`,
		itemID, receivedQty, note,
	)
	if err != nil {
		return fmt.Errorf("update po item received: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update po item received: fila no encontrada: %s", itemID)
	}
	return nil
}

func (r *PurchaseOrderRepo) List(filter repository.POFilter) ([]*entity.PurchaseOrder, error) {
	query := `SELECT ` + poColumns + ` FROM purchase_orders`
	var conds []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.Status != "" {
		add("status = $%d", string(filter.Status))
	}
	if filter.OwnerID != "" {
		add("owner_id = $%d", filter.OwnerID)
	}
	if filter.AssignedTo != "" {
		add("assigned_to = $%d", filter.AssignedTo)
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()

	var pos []*entity.PurchaseOrder
	for rows.Next() {
		po, err := scanPO(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		pos = append(pos, po)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, po := range pos {
		items, err := r.loadItems(po.ID)
		if err != nil {
			return nil, err
		}
		po.Items = items
	}
	return pos, nil
}

// Stats agrega conteos por estado y la calificación promedio de proveedores
// sobre las órdenes del owner, todo calculado en la base.
func (r *PurchaseOrderRepo) Stats(ownerID string) (*repository.POStats, error) {
	var s repository.POStats
	err := r.q.QueryRow(context.Background(), `
		SELECT
			count(*),
			count(*) FILTER (WHERE status = 'draft'),
			count(*) FILTER (WHERE status = 'approved'),
			count(*) FILTER (WHERE status = 'purchased'),
			count(*) FILTER (WHERE status = 'partially_received'),
			count(*) FILTER (WHERE status = 'received'),
			count(*) FILTER (WHERE status = 'completed'),
			count(*) FILTER (WHERE status = 'cancelled')
		FROM purchase_orders WHERE owner_id = $1`,
		ownerID,
	).Scan(&s.Total, &s.Draft, &s.Approved, &s.Purchased, &s.PartiallyReceived, &s.Received, &s.Completed, &s.Cancelled)
	if err != nil {
		return nil, fmt.Errorf("po stats: %w", err)
	}

	var avg *decimal.Decimal
	err = r.q.QueryRow(context.Background(), `
		SELECT AVG((sr.delivery_rating + sr.quality_rating + sr.price_rating) / 3.0)
		FROM supplier_ratings sr
		JOIN purchase_orders po ON po.id = sr.po_id
		WHERE po.owner_id = $1`,
		ownerID,
	).Scan(&avg)
	if err != nil {
		return nil, fmt.Errorf("po stats avg rating: %w", err)
	}
	if avg != nil {
		s.AvgSupplierRating = avg.Round(1)
	}
	return &s, nil
}

func (r *PurchaseOrderRepo) AppendHistory(e *entity.HistoryEntry) error {
	return appendHistory(r.q, e)
}

func (r *PurchaseOrderRepo) ListHistory(poID string) ([]entity.HistoryEntry, error) {
	return listHistory(r.q, poID)
}
