package orders_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/orders"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

const testActor = "00000000-0000-0000-0000-000000000001"

func qty(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// repisa terminada ← 10×tornillo + 1×barniz, con lijado como mano de obra.
func buildCatalog(s *memStore) {
	s.addProduct("trn", "TRN-DT01", entity.ProductTypeRawMaterial, 500)
	s.addProduct("brn", "BRN-DT01", entity.ProductTypeRawMaterial, 50)
	s.addProduct("rep", "AR-ZP401", entity.ProductTypeFinished, 0)
	s.addEdge("rep", "trn", 10)
	s.addEdge("rep", "brn", 1)
	s.addWork("rep", "lij", "Lijado y acabado", 2, 8000)
	s.armadores["arm1"] = &entity.Armador{ID: "arm1", Name: "Taller El Progreso", Active: true}
}

func createCommitted(t *testing.T, uc *orders.UseCase, quantity int64) *dto.OrderResponse {
	t.Helper()
	res, err := uc.Create(context.Background(), dto.CreateOrderRequest{
		ArmadorID: "arm1",
		ProductID: "rep",
		Quantity:  qty(quantity),
		Mode:      dto.OrderModeCommit,
	}, testActor)
	require.NoError(t, err)
	require.NotNil(t, res.Order)
	return res.Order
}

func transition(uc *orders.UseCase, orderID string, in dto.TransitionOrderRequest) (*dto.OrderResponse, error) {
	return uc.Transition(context.Background(), orderID, in, testActor)
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_CommitEnviaMateriales(t *testing.T) {
	s := newMemStore()
	buildCatalog(s)
	uc := newTestUseCase(s)

	order := createCommitted(t, uc, 3)
	assert.Equal(t, entity.OrderStatusPendingDelivery, order.Status)
	assert.Equal(t, "arm1", order.ArmadorID)

	// Materiales agregados del BOM, cada uno con su línea.
	require.Len(t, order.Items, 2)
	assert.Equal(t, "trn", order.Items[0].ProductID)
	assert.True(t, order.Items[0].Quantity.Equal(qty(30)))
	assert.Equal(t, "brn", order.Items[1].ProductID)
	assert.True(t, order.Items[1].Quantity.Equal(qty(3)))

	// Salida esperada: el producto a armar, sin recibir aún.
	require.Len(t, order.Outputs, 1)
	assert.Equal(t, "rep", order.Outputs[0].ProductID)
	assert.True(t, order.Outputs[0].ExpectedQty.Equal(qty(3)))
	assert.True(t, order.Outputs[0].ReceivedQty.IsZero())

	// Mano de obra como pasos informativos con snapshot de precio.
	require.Len(t, order.Steps, 1)
	assert.Equal(t, "Lijado y acabado", order.Steps[0].Name)
	assert.True(t, order.Steps[0].Quantity.Equal(qty(6)))
	assert.True(t, order.Steps[0].UnitPrice.Equal(qty(8000)))

	// Un SENT_TO_ASSEMBLER por material, todos con el event id del envío.
	sent := s.movementsOfType(entity.MovementTypeSentToAssembler)
	require.Len(t, sent, 2)
	assert.Equal(t, sent[0].EventID, sent[1].EventID)
	assert.NotEmpty(t, sent[0].EventID)
	assert.True(t, sent[0].Quantity.Equal(qty(30)))
	assert.True(t, sent[1].Quantity.Equal(qty(3)))

	assert.True(t, s.stockOf("trn").Equal(qty(470)))
	assert.True(t, s.stockOf("brn").Equal(qty(47)))

	// La orden quedó persistida.
	stored, err := uc.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPendingDelivery, stored.Status)
}

func TestCreate_DryRunNoEscribe(t *testing.T) {
	s := newMemStore()
	buildCatalog(s)
	uc := newTestUseCase(s)

	res, err := uc.Create(context.Background(), dto.CreateOrderRequest{
		ArmadorID: "arm1",
		ProductID: "rep",
		Quantity:  qty(3),
		Mode:      dto.OrderModeDryRun,
	}, testActor)
	require.NoError(t, err)
	require.Nil(t, res.Order)
	require.NotNil(t, res.Preview)

	assert.True(t, res.Preview.Feasible)
	require.Len(t, res.Preview.Materials, 2)
	assert.True(t, res.Preview.TotalLaborCost.Equal(qty(48000)))

	// Sin orden, sin movimientos, sin tocar stock.
	assert.Empty(t, s.orders)
	assert.Empty(t, s.movements)
	assert.True(t, s.stockOf("trn").Equal(qty(500)))
}

func TestCreate_FaltanteAbortaTodo(t *testing.T) {
	s := newMemStore()
	buildCatalog(s)
	s.products["trn"].Stock = qty(5)
	uc := newTestUseCase(s)

	_, err := uc.Create(context.Background(), dto.CreateOrderRequest{
		ArmadorID: "arm1",
		ProductID: "rep",
		Quantity:  qty(3),
	}, testActor)
	require.Error(t, err)

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "TRN-DT01", insufficient.SKU)
	assert.True(t, insufficient.Required.Equal(qty(30)))
	assert.True(t, insufficient.Available.Equal(qty(5)))

	assert.Empty(t, s.orders)
	assert.Empty(t, s.movements)
	assert.True(t, s.stockOf("trn").Equal(qty(5)))
	assert.True(t, s.stockOf("brn").Equal(qty(50)))
}

func TestCreate_ValidaEntradas(t *testing.T) {
	s := newMemStore()
	buildCatalog(s)
	uc := newTestUseCase(s)

	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateOrderRequest{ArmadorID: "arm1", ProductID: "rep"}, testActor)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateOrderRequest{ArmadorID: "", ProductID: "rep", Quantity: qty(1)}, testActor)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateOrderRequest{ArmadorID: "no-existe", ProductID: "rep", Quantity: qty(1)}, testActor)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Create(ctx, dto.CreateOrderRequest{ArmadorID: "arm1", ProductID: "no-existe", Quantity: qty(1)}, testActor)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// La materia prima no se manda a armar.
	_, err = uc.Create(ctx, dto.CreateOrderRequest{ArmadorID: "arm1", ProductID: "trn", Quantity: qty(1)}, testActor)
	var wrongType *domain.WrongProductTypeError
	require.ErrorAs(t, err, &wrongType)
	assert.Equal(t, entity.ProductTypeRawMaterial, wrongType.Got)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancelación
// ──────────────────────────────────────────────────────────────────────────────

func TestCancel_RestauraStock(t *testing.T) {
	s := newMemStore()
	buildCatalog(s)
	uc := newTestUseCase(s)

	order := createCommitted(t, uc, 3)

	cancelled, err := transition(uc, order.ID, dto.TransitionOrderRequest{Transition: orders.TransitionCancel})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, cancelled.Status)
	assert.Contains(t, cancelled.Notes, "Cancelación")

	// Un ADJUSTMENT_IN por material, con event id propio del retorno.
	adjustments := s.movementsOfType(entity.MovementTypeAdjustmentIn)
	require.Len(t, adjustments, 2)
	assert.Equal(t, adjustments[0].EventID, adjustments[1].EventID)
	sent := s.movementsOfType(entity.MovementTypeSentToAssembler)
	assert.NotEqual(t, sent[0].EventID, adjustments[0].EventID)

	assert.True(t, s.stockOf("trn").Equal(qty(500)))
	assert.True(t, s.stockOf("brn").Equal(qty(50)))

	// CANCELLED es terminal.
	_, err = transition(uc, order.ID, dto.TransitionOrderRequest{Transition: orders.TransitionAssignDelivery, PersonID: "p1"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCancel_SoloPendienteDeEntrega(t *testing.T) {
	s := newMemStore()
	buildCatalog(s)
	uc := newTestUseCase(s)

	order := createCommitted(t, uc, 1)
	_, err := transition(uc, order.ID, dto.TransitionOrderRequest{Transition: orders.TransitionAssignDelivery, PersonID: "p1"})
	require.NoError(t, err)

	_, err = transition(uc, order.ID, dto.TransitionOrderRequest{Transition: orders.TransitionCancel})
	require.Error(t, err)

	var invalid *domain.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, entity.OrderStatusOutForDelivery, invalid.Current)
	assert.Contains(t, invalid.Expected, entity.OrderStatusPendingDelivery)

	// Nada se deshizo: los materiales siguen fuera.
	assert.True(t, s.stockOf("trn").Equal(qty(490)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida completo
// ──────────────────────────────────────────────────────────────────────────────

func TestFlujoCompleto_SinDiscrepancia(t *testing.T) {
	s := newMemStore()
	buildCatalog(s)
	uc := newTestUseCase(s)

	order := createCommitted(t, uc, 3)

	steps := []struct {
		in   dto.TransitionOrderRequest
		want string
	}{
		{dto.TransitionOrderRequest{Transition: orders.TransitionAssignDelivery, PersonID: "p1"}, entity.OrderStatusOutForDelivery},
		{dto.TransitionOrderRequest{Transition: orders.TransitionConfirmDelivery}, entity.OrderStatusInAssembly},
		{dto.TransitionOrderRequest{Transition: orders.TransitionConfirmAssembled}, entity.OrderStatusPendingPickup},
		{dto.TransitionOrderRequest{Transition: orders.TransitionAssignPickup, PersonID: "p2"}, entity.OrderStatusReturnInTransit},
	}
	for _, step := range steps {
		resp, err := transition(uc, order.ID, step.in)
		require.NoError(t, err, "transición %s", step.in.Transition)
		assert.Equal(t, step.want, resp.Status)
	}

	final, err := transition(uc, order.ID, dto.TransitionOrderRequest{
		Transition: orders.TransitionReceiveGoods,
		Received:   map[string]decimal.Decimal{"rep": qty(3)},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCompleted, final.Status)
	assert.False(t, final.IsDiscrepancy)
	assert.True(t, final.Outputs[0].ReceivedQty.Equal(qty(3)))

	// La recepción entra a stock con un único movimiento.
	received := s.movementsOfType(entity.MovementTypeReceivedFromAssembler)
	require.Len(t, received, 1)
	assert.Equal(t, "rep", received[0].ProductID)
	assert.True(t, received[0].Quantity.Equal(qty(3)))
	assert.True(t, s.stockOf("rep").Equal(qty(3)))
}

func TestEntregaFallida_PermiteReasignar(t *testing.T) {
	s := newMemStore()
	buildCatalog(s)
	uc := newTestUseCase(s)

	order := createCommitted(t, uc, 1)
	_, err := transition(uc, order.ID, dto.TransitionOrderRequest{Transition: orders.TransitionAssignDelivery, PersonID: "p1"})
	require.NoError(t, err)

	failed, err := transition(uc, order.ID, dto.TransitionOrderRequest{
		Transition: orders.TransitionReportDeliveryFailure,
		Note:       "armador ausente",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusDeliveryFailed, failed.Status)
	assert.Contains(t, failed.Notes, "armador ausente")

	retried, err := transition(uc, order.ID, dto.TransitionOrderRequest{Transition: orders.TransitionAssignDelivery, PersonID: "p2"})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusOutForDelivery, retried.Status)
	assert.Equal(t, "p2", retried.DeliveryPersonID)
}

func TestAssignDelivery_SinPersonaVuelveAPendiente(t *testing.T) {
	s := newMemStore()
	buildCatalog(s)
	uc := newTestUseCase(s)

	order := createCommitted(t, uc, 1)
	_, err := transition(uc, order.ID, dto.TransitionOrderRequest{Transition: orders.TransitionAssignDelivery, PersonID: "p1"})
	require.NoError(t, err)

	resp, err := transition(uc, order.ID, dto.TransitionOrderRequest{Transition: orders.TransitionAssignDelivery})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPendingDelivery, resp.Status)
	assert.Empty(t, resp.DeliveryPersonID)
}

func TestAssignPickup_RequierePersona(t *testing.T) {
	s := newMemStore()
	buildCatalog(s)
	uc := newTestUseCase(s)

	order := createCommitted(t, uc, 1)
	_, err := transition(uc, order.ID, dto.TransitionOrderRequest{Transition: orders.TransitionAssignPickup})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransition_Desconocida(t *testing.T) {
	s := newMemStore()
	buildCatalog(s)
	uc := newTestUseCase(s)

	order := createCommitted(t, uc, 1)
	_, err := transition(uc, order.ID, dto.TransitionOrderRequest{Transition: "teleport"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransition_OrdenInexistente(t *testing.T) {
	s := newMemStore()
	buildCatalog(s)
	uc := newTestUseCase(s)

	_, err := transition(uc, "no-existe", dto.TransitionOrderRequest{Transition: orders.TransitionCancel})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Recepción con discrepancia
// ──────────────────────────────────────────────────────────────────────────────

func advanceToReturnInTransit(t *testing.T, uc *orders.UseCase, orderID string) {
	t.Helper()
	for _, tr := range []dto.TransitionOrderRequest{
		{Transition: orders.TransitionAssignDelivery, PersonID: "p1"},
		{Transition: orders.TransitionConfirmDelivery},
		{Transition: orders.TransitionConfirmAssembled},
		{Transition: orders.TransitionAssignPickup, PersonID: "p2"},
	} {
		_, err := transition(uc, orderID, tr)
		require.NoError(t, err, "transición %s", tr.Transition)
	}
}

func TestReceiveGoods_DiscrepanciaSinJustificar(t *testing.T) {
	s := newMemStore()
	buildCatalog(s)
	uc := newTestUseCase(s)

	order := createCommitted(t, uc, 3)
	advanceToReturnInTransit(t, uc, order.ID)

	// Devuelve 2 de 3 sin justificación.
	final, err := transition(uc, order.ID, dto.TransitionOrderRequest{
		Transition: orders.TransitionReceiveGoods,
		Received:   map[string]decimal.Decimal{"rep": qty(2)},
		Note:       "faltó una unidad",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCompletedWithDiscrepancy, final.Status)
	assert.True(t, final.IsDiscrepancy)
	assert.True(t, final.Outputs[0].ReceivedQty.Equal(qty(2)))
	assert.Contains(t, final.Notes, "faltó una unidad")

	// Lo recibido sí entra a stock aunque no coincida con lo esperado.
	received := s.movementsOfType(entity.MovementTypeReceivedFromAssembler)
	require.Len(t, received, 1)
	assert.True(t, received[0].Quantity.Equal(qty(2)))
	assert.True(t, s.stockOf("rep").Equal(qty(2)))
}

func TestReceiveGoods_DiscrepanciaJustificada(t *testing.T) {
	s := newMemStore()
	buildCatalog(s)
	uc := newTestUseCase(s)

	order := createCommitted(t, uc, 3)
	advanceToReturnInTransit(t, uc, order.ID)

	final, err := transition(uc, order.ID, dto.TransitionOrderRequest{
		Transition: orders.TransitionReceiveGoods,
		Received:   map[string]decimal.Decimal{"rep": qty(2)},
		Justified:  true,
		Note:       "una unidad quedó en reproceso",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCompletedWithNotes, final.Status)
	assert.True(t, final.IsDiscrepancy)
	assert.True(t, s.stockOf("rep").Equal(qty(2)))
}

func TestReceiveGoods_NadaRecibido(t *testing.T) {
	s := newMemStore()
	buildCatalog(s)
	uc := newTestUseCase(s)

	order := createCommitted(t, uc, 3)
	advanceToReturnInTransit(t, uc, order.ID)

	final, err := transition(uc, order.ID, dto.TransitionOrderRequest{
		Transition: orders.TransitionReceiveGoods,
		Received:   map[string]decimal.Decimal{},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCompletedWithDiscrepancy, final.Status)

	// Con cantidad cero no se escribe movimiento alguno.
	assert.Empty(t, s.movementsOfType(entity.MovementTypeReceivedFromAssembler))
	assert.True(t, s.stockOf("rep").IsZero())
}

func TestReceiveGoods_ProductoInesperado(t *testing.T) {
	s := newMemStore()
	buildCatalog(s)
	uc := newTestUseCase(s)

	order := createCommitted(t, uc, 3)
	advanceToReturnInTransit(t, uc, order.ID)

	_, err := transition(uc, order.ID, dto.TransitionOrderRequest{
		Transition: orders.TransitionReceiveGoods,
		Received:   map[string]decimal.Decimal{"trn": qty(1)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// La orden sigue esperando la recepción, sin escrituras.
	stored, err := uc.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusReturnInTransit, stored.Status)
	assert.Empty(t, s.movementsOfType(entity.MovementTypeReceivedFromAssembler))
	assert.True(t, s.stockOf("rep").IsZero())
}

func TestReceiveGoods_SoloEnRetorno(t *testing.T) {
	s := newMemStore()
	buildCatalog(s)
	uc := newTestUseCase(s)

	order := createCommitted(t, uc, 1)
	_, err := transition(uc, order.ID, dto.TransitionOrderRequest{
		Transition: orders.TransitionReceiveGoods,
		Received:   map[string]decimal.Decimal{"rep": qty(1)},
	})
	require.Error(t, err)

	var invalid *domain.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, orders.TransitionReceiveGoods, invalid.Transition)
	assert.Equal(t, entity.OrderStatusPendingDelivery, invalid.Current)
}
