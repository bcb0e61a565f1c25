package production_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

const testActor = "00000000-0000-0000-0000-000000000001"

func qty(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// repisa terminada ← 10×tornillo + 1×barniz, ambos materia prima.
func buildFlatCatalog(s *memStore) {
	s.addProduct("trn", "TRN-DT01", entity.ProductTypeRawMaterial, 500)
	s.addProduct("brn", "BRN-DT01", entity.ProductTypeRawMaterial, 50)
	s.addProduct("rep", "AR-ZP401", entity.ProductTypeFinished, 0)
	s.addEdge("rep", "trn", 10)
	s.addEdge("rep", "brn", 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Producción interna
// ──────────────────────────────────────────────────────────────────────────────

func TestCommitInternalProduction_FlujoCompleto(t *testing.T) {
	s := newMemStore()
	buildFlatCatalog(s)
	uc := newTestUseCase(s)

	batch, err := uc.CommitInternalProduction(context.Background(), "rep", qty(1), testActor, "lote 7")
	require.NoError(t, err)
	require.NotNil(t, batch)
	require.NotEmpty(t, batch.EventID)

	// Un PRODUCTION_IN y un PRODUCTION_OUT por material agregado.
	require.Len(t, batch.Movements, 3)
	assert.Equal(t, entity.MovementTypeProductionIn, batch.Movements[0].Type)
	assert.Equal(t, "rep", batch.Movements[0].ProductID)
	assert.Equal(t, entity.MovementTypeProductionOut, batch.Movements[1].Type)
	assert.Equal(t, "trn", batch.Movements[1].ProductID)
	assert.True(t, batch.Movements[1].Quantity.Equal(qty(10)))
	assert.Equal(t, entity.MovementTypeProductionOut, batch.Movements[2].Type)
	assert.Equal(t, "brn", batch.Movements[2].ProductID)

	// Todos comparten el event id del lote.
	for _, m := range batch.Movements {
		assert.Equal(t, batch.EventID, m.EventID)
	}

	// Stocks actualizados de forma consistente con el libro.
	assert.True(t, s.stockOf("rep").Equal(qty(1)))
	assert.True(t, s.stockOf("trn").Equal(qty(490)))
	assert.True(t, s.stockOf("brn").Equal(qty(49)))
}

func TestCommitInternalProduction_FaltanteNombraAlOfensor(t *testing.T) {
	s := newMemStore()
	s.addProduct("trn", "TRN-DT01", entity.ProductTypeRawMaterial, 40)
	s.addProduct("rep", "AR-ZP401", entity.ProductTypeFinished, 0)
	s.addEdge("rep", "trn", 10)
	uc := newTestUseCase(s)

	_, err := uc.CommitInternalProduction(context.Background(), "rep", qty(10), testActor, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "TRN-DT01", insufficient.SKU)
	assert.True(t, insufficient.Required.Equal(qty(100)))
	assert.True(t, insufficient.Available.Equal(qty(40)))

	// Nada escrito: ni movimientos ni stock.
	assert.Empty(t, s.movements)
	assert.True(t, s.stockOf("trn").Equal(qty(40)))
	assert.True(t, s.stockOf("rep").Equal(qty(0)))
}

func TestCommitInternalProduction_SinComponentes(t *testing.T) {
	s := newMemStore()
	s.addProduct("rep", "AR-ZP401", entity.ProductTypeFinished, 0)
	uc := newTestUseCase(s)

	_, err := uc.CommitInternalProduction(context.Background(), "rep", qty(1), testActor, "")
	assert.ErrorIs(t, err, domain.ErrNoComponents)
	assert.Empty(t, s.movements)
}

func TestCommitInternalProduction_EntradasInvalidas(t *testing.T) {
	s := newMemStore()
	buildFlatCatalog(s)
	uc := newTestUseCase(s)

	_, err := uc.CommitInternalProduction(context.Background(), "", qty(1), testActor, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CommitInternalProduction(context.Background(), "rep", qty(0), testActor, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CommitInternalProduction(context.Background(), "rep", qty(1), "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Compra y venta
// ──────────────────────────────────────────────────────────────────────────────

func TestCommitPurchase_SoloMateriaPrima(t *testing.T) {
	s := newMemStore()
	buildFlatCatalog(s)
	uc := newTestUseCase(s)

	mov, err := uc.CommitPurchase(context.Background(), "trn", qty(100), testActor, "proveedor X")
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypePurchase, mov.Type)
	assert.Empty(t, mov.EventID, "una compra simple no forma grupo")
	assert.True(t, s.stockOf("trn").Equal(qty(600)))

	// Comprar un terminado es un error de tipo.
	_, err = uc.CommitPurchase(context.Background(), "rep", qty(1), testActor, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrWrongProductType)

	var wrongType *domain.WrongProductTypeError
	require.ErrorAs(t, err, &wrongType)
	assert.Equal(t, entity.ProductTypeRawMaterial, wrongType.Want)
}

func TestCommitSale_SoloTerminadosConStock(t *testing.T) {
	s := newMemStore()
	buildFlatCatalog(s)
	s.products["rep"].Stock = qty(5)
	uc := newTestUseCase(s)

	mov, err := uc.CommitSale(context.Background(), "rep", qty(2), testActor, "")
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeSale, mov.Type)
	assert.True(t, s.stockOf("rep").Equal(qty(3)))

	// Vender materia prima es un error de tipo.
	_, err = uc.CommitSale(context.Background(), "trn", qty(1), testActor, "")
	assert.ErrorIs(t, err, domain.ErrWrongProductType)

	// Vender más de lo disponible falla y no escribe.
	movementsBefore := len(s.movements)
	_, err = uc.CommitSale(context.Background(), "rep", qty(50), testActor, "")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Len(t, s.movements, movementsBefore)
	assert.True(t, s.stockOf("rep").Equal(qty(3)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Reversas
// ──────────────────────────────────────────────────────────────────────────────

func TestReverseMovement_GrupoCompleto(t *testing.T) {
	s := newMemStore()
	buildFlatCatalog(s)
	uc := newTestUseCase(s)

	batch, err := uc.CommitInternalProduction(context.Background(), "rep", qty(1), testActor, "")
	require.NoError(t, err)

	// Reversar cualquier movimiento del grupo reversa el grupo entero.
	reversal, err := uc.ReverseMovement(context.Background(), batch.Movements[1].ID, testActor)
	require.NoError(t, err)
	require.Len(t, reversal.Movements, 3)
	assert.NotEqual(t, batch.EventID, reversal.EventID, "la reversa forma su propio grupo")

	// Entrada reversada como salida de ajuste, salidas como entradas.
	assert.Equal(t, entity.MovementTypeAdjustmentOut, reversal.Movements[0].Type)
	assert.Equal(t, entity.MovementTypeAdjustmentIn, reversal.Movements[1].Type)
	assert.Equal(t, entity.MovementTypeAdjustmentIn, reversal.Movements[2].Type)
	for i, rm := range reversal.Movements {
		require.NotNil(t, rm.ReversalOfID)
		assert.Equal(t, batch.Movements[i].ID, *rm.ReversalOfID)
		assert.Equal(t, reversal.EventID, rm.EventID)
	}

	// El stock vuelve al estado previo.
	assert.True(t, s.stockOf("rep").Equal(qty(0)))
	assert.True(t, s.stockOf("trn").Equal(qty(500)))
	assert.True(t, s.stockOf("brn").Equal(qty(50)))

	// Los originales quedan marcados como reversados.
	for _, om := range batch.Movements {
		orig, err := (&memMovementRepo{s}).GetByID(om.ID)
		require.NoError(t, err)
		require.NotNil(t, orig.ReversedByID)
	}
}

func TestReverseMovement_NoReversaDosVeces(t *testing.T) {
	s := newMemStore()
	buildFlatCatalog(s)
	uc := newTestUseCase(s)

	batch, err := uc.CommitInternalProduction(context.Background(), "rep", qty(1), testActor, "")
	require.NoError(t, err)

	_, err = uc.ReverseMovement(context.Background(), batch.Movements[0].ID, testActor)
	require.NoError(t, err)

	movementsAfter := len(s.movements)
	_, err = uc.ReverseMovement(context.Background(), batch.Movements[0].ID, testActor)
	assert.ErrorIs(t, err, domain.ErrAlreadyReversed)
	assert.Len(t, s.movements, movementsAfter, "el intento fallido no escribe nada")
}

func TestReverseMovement_NoReversaUnaReversa(t *testing.T) {
	s := newMemStore()
	buildFlatCatalog(s)
	uc := newTestUseCase(s)

	batch, err := uc.CommitInternalProduction(context.Background(), "rep", qty(1), testActor, "")
	require.NoError(t, err)
	reversal, err := uc.ReverseMovement(context.Background(), batch.Movements[0].ID, testActor)
	require.NoError(t, err)

	_, err = uc.ReverseMovement(context.Background(), reversal.Movements[0].ID, testActor)
	assert.ErrorIs(t, err, domain.ErrIsReversal)
}

func TestReverseMovement_EntradaSinStockNoDejaNegativo(t *testing.T) {
	s := newMemStore()
	s.addProduct("trn", "TRN-DT01", entity.ProductTypeRawMaterial, 0)
	uc := newTestUseCase(s)

	// Compra de 100 y venta del stock por fuera del libro (ajuste manual del
	// fake) para provocar que la reversa de la entrada no tenga de dónde restar.
	mov, err := uc.CommitPurchase(context.Background(), "trn", qty(100), testActor, "")
	require.NoError(t, err)
	s.products["trn"].Stock = qty(20)

	_, err = uc.ReverseMovement(context.Background(), mov.ID, testActor)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, s.stockOf("trn").Equal(qty(20)), "el stock no cambia si la reversa falla")
}

// ──────────────────────────────────────────────────────────────────────────────
// Simulación
// ──────────────────────────────────────────────────────────────────────────────

func TestExplodeBOM_PreviewConFaltantes(t *testing.T) {
	s := newMemStore()
	s.addProduct("trn", "TRN-DT01", entity.ProductTypeRawMaterial, 40)
	s.addProduct("rep", "AR-ZP401", entity.ProductTypeFinished, 0)
	s.addEdge("rep", "trn", 10)
	uc := newTestUseCase(s)

	preview, err := uc.ExplodeBOM(context.Background(), "rep", qty(10))
	require.NoError(t, err)
	assert.False(t, preview.Feasible)
	require.Len(t, preview.Shortages, 1)
	assert.Equal(t, "TRN-DT01", preview.Shortages[0].SKU)
	assert.True(t, preview.Shortages[0].Required.Equal(qty(100)))
	assert.True(t, preview.Shortages[0].Available.Equal(qty(40)))

	// La simulación no escribe nada.
	assert.Empty(t, s.movements)

	// Con stock suficiente el plan es factible.
	s.products["trn"].Stock = qty(500)
	preview, err = uc.ExplodeBOM(context.Background(), "rep", qty(10))
	require.NoError(t, err)
	assert.True(t, preview.Feasible)
	assert.Empty(t, preview.Shortages)
}
