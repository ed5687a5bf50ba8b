package postgres

import (
	"context"
	"fmt"

	"github.com/mochkris/compras-api/internal/domain/entity"
	"github.com/mochkris/compras-api/internal/domain/repository"
)

var _ repository.AutoRestockRepository = (*AutoRestockRepo)(nil)

// AutoRestockRepo ledger de auto-reposiciones disparadas por el umbral de
// stock. Solo inserción y lectura.
type AutoRestockRepo struct {
	q Querier
}

func NewAutoRestockRepository(q Querier) *AutoRestockRepo {
	return &AutoRestockRepo{q: q}
}

func (r *AutoRestockRepo) Create(e *entity.AutoRestockEntry) error {
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO auto_restock_log (id, item_id, item_name, quantity, requisition_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.ItemID, e.ItemName, e.Quantity, e.RequisitionID, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert auto restock entry: %w", err)
	}
	return nil
}

func (r *AutoRestockRepo) List(limit, offset int) ([]*entity.AutoRestockEntry, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, item_id, item_name, quantity, requisition_id, created_at
		FROM auto_restock_log ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list auto restock entries: %w", err)
	}
	defer rows.Close()

	var entries []*entity.AutoRestockEntry
	for rows.Next() {
		var e entity.AutoRestockEntry
		if err := rows.Scan(&e.ID, &e.ItemID, &e.ItemName, &e.Quantity, &e.RequisitionID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan auto restock entry: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
