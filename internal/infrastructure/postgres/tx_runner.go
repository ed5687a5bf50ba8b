package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mochkris/compras-api/internal/application/purchasing"
	"github.com/mochkris/compras-api/internal/application/requisition"
	"github.com/mochkris/compras-api/internal/domain/repository"
)

// Un solo runner satisface ambos puertos (son estructuralmente idénticos).
var _ purchasing.TxRunner = (*TxRunner)(nil)
var _ requisition.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	poRepo repository.PurchaseOrderRepository,
	reqRepo repository.RequisitionRepository,
	invRepo repository.InventoryRepository,
	supRepo repository.SupplierRepository,
	restockRepo repository.AutoRestockRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	poRepo := NewPurchaseOrderRepository(tx)
	reqRepo := NewRequisitionRepository(tx)
	invRepo := NewInventoryRepository(tx)
	supRepo := NewSupplierRepository(tx)
	restockRepo := NewAutoRestockRepository(tx)

	if err := fn(poRepo, reqRepo, invRepo, supRepo, restockRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
