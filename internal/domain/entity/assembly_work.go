package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssemblyWork es una definición de trabajo de armado con su precio unitario.
// Sirve para calcular el costo de mano de obra; no afecta stock.
type AssemblyWork struct {
	ID          string
	Name        string
	Description string
	UnitPrice   decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductWork asocia un producto con un trabajo de armado y la cantidad
// de ese trabajo necesaria por una unidad del producto.
type ProductWork struct {
	ID        string
	ProductID string
	WorkID    string
	Quantity  decimal.Decimal // siempre > 0
	CreatedAt time.Time

	// Work precargado por el repositorio (JOIN con assembly_works).
	Work *AssemblyWork
}
