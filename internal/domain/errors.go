package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrWrongProductType  = errors.New("tipo de producto no válido para la operación")
	ErrNoRecipe          = errors.New("subensamble sin receta definida")
	ErrNoComponents      = errors.New("el producto no tiene componentes definidos")
	ErrAlreadyReversed   = errors.New("el movimiento ya fue reversado")
	ErrIsReversal        = errors.New("no se puede reversar una reversa")
	ErrInvalidTransition = errors.New("transición de estado inválida")
	ErrCyclicComponent   = errors.New("la arista de componente crearía un ciclo")
)

// InsufficientStockError nombra el producto ofensor con requerido y disponible.
// Envuelve ErrInsufficientStock para que los handlers sigan usando errors.Is.
type InsufficientStockError struct {
	ProductID string
	SKU       string
	Name      string
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente de %s (%s): requerido %s, disponible %s",
		e.Name, e.SKU, e.Required.String(), e.Available.String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// NoRecipeError nombra el subensamble que requiere recursión pero no tiene receta.
type NoRecipeError struct {
	ProductID string
	SKU       string
	Name      string
}

func (e *NoRecipeError) Error() string {
	return fmt.Sprintf("el subensamble %s (%s) no tiene receta definida y no hay stock que cubra el requerimiento", e.Name, e.SKU)
}

func (e *NoRecipeError) Unwrap() error { return ErrNoRecipe }

// WrongProductTypeError nombra el producto y el tipo esperado por la operación.
type WrongProductTypeError struct {
	ProductID string
	SKU       string
	Got       string
	Want      string
}

func (e *WrongProductTypeError) Error() string {
	return fmt.Sprintf("el producto %s es de tipo %s; la operación requiere %s", e.SKU, e.Got, e.Want)
}

func (e *WrongProductTypeError) Unwrap() error { return ErrWrongProductType }

// InvalidTransitionError nombra el estado actual de la orden y los estados
// desde los que la transición sí es válida.
type InvalidTransitionError struct {
	OrderID    string
	Transition string
	Current    string
	Expected   []string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("la orden %s está en estado %s; %q requiere estado %s",
		e.OrderID, e.Current, e.Transition, strings.Join(e.Expected, " o "))
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }
