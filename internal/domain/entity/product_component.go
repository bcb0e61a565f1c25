package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductComponent es una arista del árbol de componentes (BOM): producto → componente,
// con la cantidad requerida por una unidad del producto. Sin auto-referencias y sin ciclos:
// la aciclicidad se valida al crear la arista, no durante la resolución.
type ProductComponent struct {
	ID          string
	ProductID   string
	ComponentID string
	Quantity    decimal.Decimal // siempre > 0
	CreatedAt   time.Time

	// Component precargado por el repositorio (JOIN con products).
	Component *Product
}
