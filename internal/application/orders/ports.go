package orders

import (
	"context"

	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios que necesitan los flujos de órdenes externas.
type TxRunner interface {
	RunOrders(ctx context.Context, fn func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
		componentRepo repository.ProductComponentRepository,
		workRepo repository.AssemblyWorkRepository,
		orderRepo repository.ExternalOrderRepository,
	) error) error
}
