package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Taller-api/internal/application/orders"
	"github.com/jhoicas/Taller-api/internal/application/production"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// TxRunner ejecuta funciones dentro de una transacción pgx, entregando
// repositorios atados a esa tx. Si fn devuelve error se hace rollback.
type TxRunner struct {
	pool *pgxpool.Pool
}

var _ production.TxRunner = (*TxRunner)(nil)
var _ orders.TxRunner = (*TxRunner)(nil)

func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run implementa production.TxRunner.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
	componentRepo repository.ProductComponentRepository,
	workRepo repository.AssemblyWorkRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = fn(
		NewInventoryMovementRepository(tx),
		NewProductRepository(tx),
		NewProductComponentRepository(tx),
		NewAssemblyWorkRepository(tx),
	)
	if err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// RunOrders implementa orders.TxRunner.
func (r *TxRunner) RunOrders(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
	componentRepo repository.ProductComponentRepository,
	workRepo repository.AssemblyWorkRepository,
	orderRepo repository.ExternalOrderRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = fn(
		NewInventoryMovementRepository(tx),
		NewProductRepository(tx),
		NewProductComponentRepository(tx),
		NewAssemblyWorkRepository(tx),
		NewExternalOrderRepository(tx),
	)
	if err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
