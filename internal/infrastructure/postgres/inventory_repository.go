package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mochkris/compras-api/internal/domain"
	"github.com/mochkris/compras-api/internal/domain/entity"
	"github.com/mochkris/compras-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

const itemColumns = `id, name, quantity, unit, restock_threshold, restock_qty, unit_price, created_at, updated_at`

// InventoryRepo implementación del puerto InventoryRepository sobre
// PostgreSQL (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

func (r *InventoryRepo) Create(item *entity.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Name, item.Quantity, item.Unit,
		item.RestockThreshold, item.RestockQty, item.UnitPrice,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert inventory item: %w", err)
	}
	return nil
}

func (r *InventoryRepo) GetByID(id string) (*entity.InventoryItem, error) {
	return r.getOne(`SELECT `+itemColumns+` FROM inventory_items WHERE id = $1`, id)
}

// GetByName busca por nombre sin distinguir mayúsculas.
func (r *InventoryRepo) GetByName(name string) (*entity.InventoryItem, error) {
	return r.getOne(`SELECT `+itemColumns+` FROM inventory_items WHERE lower(name) = lower($1)`, name)
}

// GetForUpdate bloquea la fila del ítem dentro de la transacción actual.
func (r *InventoryRepo) GetForUpdate(id string) (*entity.InventoryItem, error) {
	return r.getOne(`SELECT `+itemColumns+` FROM inventory_items WHERE id = $1 FOR UPDATE`, id)
}

func (r *InventoryRepo) getOne(query string, arg any) (*entity.InventoryItem, error) {
	var it entity.InventoryItem
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&it.ID, &it.Name, &it.Quantity, &it.Unit,
		&it.RestockThreshold, &it.RestockQty, &it.UnitPrice,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory item: %w", err)
	}
	return &it, nil
}

// UpdateQuantity fija la cantidad absoluta del ítem. La columna tiene
// CHECK (quantity >= 0) como última línea de defensa.
func (r *InventoryRepo) UpdateQuantity(id string, qty int64) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE inventory_items SET quantity = $2, updated_at = now() WHERE id = $1`,
		id, qty,
	)
	if err != nil {
		return fmt.Errorf("update inventory quantity: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Update actualiza los metadatos del ítem. La cantidad no se toca aquí:
// solo cambia vía UpdateQuantity dentro de los flujos de workflow.
func (r *InventoryRepo) Update(item *entity.InventoryItem) error {
	cmd, err := r.q.Exec(context.Background(), `
		UPDATE inventory_items
		SET name = $2, unit = $3, restock_threshold = $4, restock_qty = $5, unit_price = $6, updated_at = $7
		WHERE id = $1`,
		item.ID, item.Name, item.Unit, item.RestockThreshold, item.RestockQty, item.UnitPrice, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("update inventory item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InventoryRepo) List(limit, offset int) ([]*entity.InventoryItem, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+itemColumns+` FROM inventory_items ORDER BY name LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	defer rows.Close()

	var items []*entity.InventoryItem
	for rows.Next() {
		var it entity.InventoryItem
		if err := rows.Scan(
			&it.ID, &it.Name, &it.Quantity, &it.Unit,
			&it.RestockThreshold, &it.RestockQty, &it.UnitPrice,
			&it.CreatedAt, &it.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}
