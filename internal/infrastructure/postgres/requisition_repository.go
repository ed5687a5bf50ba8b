package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mochkris/compras-api/internal/domain/entity"
	"github.com/mochkris/compras-api/internal/domain/repository"
)

var _ repository.RequisitionRepository = (*RequisitionRepo)(nil)

const reqColumns = `id, item_id, item_name, quantity, unit_price, requested_by, department, supplier_id, po_id, status, auto, created_at, updated_at`

// RequisitionRepo implementación del puerto RequisitionRepository sobre
// PostgreSQL (usable con pool o tx).
type RequisitionRepo struct {
	q Querier
}

func NewRequisitionRepository(q Querier) *RequisitionRepo {
	return &RequisitionRepo{q: q}
}

func (r *RequisitionRepo) Create(req *entity.Requisition) error {
	query := `
		INSERT INTO requisitions (` + reqColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		req.ID, req.ItemID, req.ItemName, req.Quantity, req.UnitPrice,
		req.RequestedBy, req.Department, nullIfEmpty(req.SupplierID), nullIfEmpty(req.POID),
		string(req.Status), req.Auto, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert requisition: %w", err)
	}
	return nil
}

func (r *RequisitionRepo) GetByID(id string) (*entity.Requisition, error) {
	return r.getOne(`SELECT ` + reqColumns + ` FROM requisitions WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila de la requisición dentro de la tx actual.
func (r *RequisitionRepo) GetForUpdate(id string) (*entity.Requisition, error) {
	return r.getOne(`SELECT `+reqColumns+` FROM requisitions WHERE id = $1 FOR UPDATE`, id)
}

func (r *RequisitionRepo) getOne(query, id string) (*entity.Requisition, error) {
	var (
		req        entity.Requisition
		supplierID *string
		poID       *string
		status     string
	)
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&req.ID, &req.ItemID, &req.ItemName, &req.Quantity, &req.UnitPrice,
		&req.RequestedBy, &req.Department, &supplierID, &poID,
		&status, &req.Auto, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get requisition: %w", err)
	}
	if supplierID != nil {
		req.SupplierID = *supplierID
	}
	if poID != nil {
		req.POID = *poID
	}
	req.Status = entity.ReqStatus(status)
	return &req, nil
}

func (r *RequisitionRepo) Update(req *entity.Requisition) error {
	cmd, err := r.q.Exec(context.Background(), `
		UPDATE requisitions
		SET supplier_id = $2, po_id = $3, status = $4, updated_at = $5
		WHERE id = $1`,
		req.ID, nullIfEmpty(req.SupplierID), nullIfEmpty(req.POID), string(req.Status), req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update requisition: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update requisition: fila no encontrada: %s", req.ID)
	}
	return nil
}

func (r *RequisitionRepo) List(status entity.ReqStatus, limit, offset int) ([]*entity.Requisition, error) {
	query := `SELECT ` + reqColumns + ` FROM requisitions`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(status))
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list requisitions: %w", err)
	}
	defer rows.Close()

	var reqs []*entity.Requisition
	for rows.Next() {
		var (
			req        entity.Requisition
			supplierID *string
			poID       *string
			st         string
		)
		if err := rows.Scan(
			&req.ID, &req.ItemID, &req.ItemName, &req.Quantity, &req.UnitPrice,
			&req.RequestedBy, &req.Department, &supplierID, &poID,
			&st, &req.Auto, &req.CreatedAt, &req.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan requisition: %w", err)
		}
		if supplierID != nil {
			req.SupplierID = *supplierID
		}
		if poID != nil {
			req.POID = *poID
		}
		req.Status = entity.ReqStatus(st)
		reqs = append(reqs, &req)
	}
	return reqs, rows.Err()
}

// HasOpenAutoRequisition indica si existe una auto-requisición no terminal
// para el ítem (guarda de duplicados del disparador de reposición).
func (r *RequisitionRepo) HasOpenAutoRequisition(itemID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(), `
		SELECT EXISTS (
			SELECT 1 FROM requisitions
			WHERE item_id = $1 AND auto = true
			  AND status NOT IN ('rejected', 'completed', 'delivered_to_dept')
		)`, itemID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check open auto requisition: %w", err)
	}
	return exists, nil
}

func (r *RequisitionRepo) AppendHistory(e *entity.HistoryEntry) error {
	return appendHistory(r.q, e)
}

func (r *RequisitionRepo) ListHistory(reqID string) ([]entity.HistoryEntry, error) {
	return listHistory(r.q, reqID)
}
