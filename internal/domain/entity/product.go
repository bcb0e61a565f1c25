package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de producto.
const (
	ProductTypeRawMaterial  = "RAW_MATERIAL"  // materia prima, hoja del árbol de componentes
	ProductTypePreAssembled = "PRE_ASSEMBLED" // subensamble con receta propia
	ProductTypeFinished     = "FINISHED"      // producto terminado, vendible
)

// ValidProductType indica si el tipo pertenece al catálogo.
func ValidProductType(t string) bool {
	return t == ProductTypeRawMaterial || t == ProductTypePreAssembled || t == ProductTypeFinished
}

// Product representa un ítem del inventario: materia prima, subensamble o producto terminado.
// Stock es una caché denormalizada: solo lo mutan las operaciones que escriben movimientos,
// y debe coincidir con la suma con signo de los movimientos del producto.
type Product struct {
	ID          string
	SKU         string // código único
	Name        string
	Description string
	Type        string          // RAW_MATERIAL, PRE_ASSEMBLED, FINISHED
	Stock       decimal.Decimal // nunca negativo por operaciones del motor
	MinStock    decimal.Decimal // umbral de stock bajo
	Price       decimal.Decimal // precio de venta (terminados)
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
