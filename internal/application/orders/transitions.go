package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// Nombres de transición expuestos por el contrato TransitionExternalOrder.
const (
	TransitionAssignDelivery        = "assign_delivery"
	TransitionCancel                = "cancel"
	TransitionConfirmDelivery       = "confirm_delivery"
	TransitionReportDeliveryFailure = "report_delivery_failure"
	TransitionConfirmAssembled      = "confirm_assembled"
	TransitionAssignPickup          = "assign_pickup"
	TransitionReceiveGoods          = "receive_goods"
)

// Transition aplica la transición nombrada sobre la orden. Una transición
// desde un estado no permitido falla con InvalidTransitionError nombrando el
// estado actual y los esperados.
func (uc *UseCase) Transition(ctx context.Context, orderID string, in dto.TransitionOrderRequest, actorID string) (*dto.OrderResponse, error) {
	if orderID == "" || actorID == "" {
		return nil, domain.ErrInvalidInput
	}
	switch in.Transition {
	case TransitionAssignDelivery:
		return uc.AssignDelivery(ctx, orderID, in.PersonID, actorID)
	case TransitionCancel:
		return uc.Cancel(ctx, orderID, actorID)
	case TransitionConfirmDelivery:
		return uc.ConfirmDelivery(ctx, orderID, actorID)
	case TransitionReportDeliveryFailure:
		return uc.ReportDeliveryFailure(ctx, orderID, in.Note, actorID)
	case TransitionConfirmAssembled:
		return uc.ConfirmAssembled(ctx, orderID, actorID)
	case TransitionAssignPickup:
		return uc.AssignPickup(ctx, orderID, in.PersonID, actorID)
	case TransitionReceiveGoods:
		return uc.ReceiveGoods(ctx, orderID, in.Received, in.Justified, in.Note, actorID)
	}
	return nil, fmt.Errorf("transición %q desconocida: %w", in.Transition, domain.ErrInvalidInput)
}

// AssignDelivery asigna (o des-asigna) la persona que lleva los materiales.
// Con persona la orden pasa a OUT_FOR_DELIVERY; sin persona vuelve a
// PENDING_DELIVERY.
func (uc *UseCase) AssignDelivery(ctx context.Context, orderID, personID, actorID string) (*dto.OrderResponse, error) {
	return uc.mutate(ctx, orderID, func(order *entity.ExternalOrder, _ txRepos) error {
		if err := guardStatus(order, TransitionAssignDelivery,
			entity.OrderStatusPendingDelivery,
			entity.OrderStatusOutForDelivery,
			entity.OrderStatusDeliveryFailed,
		); err != nil {
			return err
		}
		order.DeliveryPersonID = personID
		if personID != "" {
			order.Status = entity.OrderStatusOutForDelivery
		} else {
			order.Status = entity.OrderStatusPendingDelivery
		}
		return nil
	})
}

// Cancel cancela una orden que aún no salió: por cada línea de material
// enviado escribe un ADJUSTMENT_IN que deshace el SENT_TO_ASSEMBLER (event
// id compartido) y restaura stock. CANCELLED es terminal.
func (uc *UseCase) Cancel(ctx context.Context, orderID, actorID string) (*dto.OrderResponse, error) {
	eventID := uuid.New().String()
	now := time.Now()
	return uc.mutate(ctx, orderID, func(order *entity.ExternalOrder, repos txRepos) error {
		if err := guardStatus(order, TransitionCancel, entity.OrderStatusPendingDelivery); err != nil {
			return err
		}
		note := fmt.Sprintf("Cancelación de la orden %s: retorno de materiales", order.ID)
		for _, item := range order.Items {
			locked, err := repos.products.GetForUpdate(item.ProductID)
			if err != nil {
				return err
			}
			if locked == nil {
				return fmt.Errorf("producto %s: %w", item.ProductID, domain.ErrNotFound)
			}
			mov := &entity.InventoryMovement{
				ID:        uuid.New().String(),
				ProductID: item.ProductID,
				Type:      entity.MovementTypeAdjustmentIn,
				Quantity:  item.Quantity,
				ActorID:   actorID,
				Note:      note,
				EventID:   eventID,
				CreatedAt: now,
			}
			if err := repos.movements.Create(mov); err != nil {
				return err
			}
			if err := repos.products.UpdateStock(item.ProductID, locked.Stock.Add(item.Quantity)); err != nil {
				return err
			}
		}
		order.Status = entity.OrderStatusCancelled
		order.AppendNote(note)
		return nil
	})
}

// ConfirmDelivery confirma la entrega de materiales al armador.
func (uc *UseCase) ConfirmDelivery(ctx context.Context, orderID, actorID string) (*dto.OrderResponse, error) {
	return uc.mutate(ctx, orderID, func(order *entity.ExternalOrder, _ txRepos) error {
		if err := guardStatus(order, TransitionConfirmDelivery, entity.OrderStatusOutForDelivery); err != nil {
			return err
		}
		order.Status = entity.OrderStatusInAssembly
		return nil
	})
}

// ReportDeliveryFailure registra una entrega fallida; la orden queda
// re-asignable (DELIVERY_FAILED admite assign_delivery).
func (uc *UseCase) ReportDeliveryFailure(ctx context.Context, orderID, note, actorID string) (*dto.OrderResponse, error) {
	return uc.mutate(ctx, orderID, func(order *entity.ExternalOrder, _ txRepos) error {
		if err := guardStatus(order, TransitionReportDeliveryFailure, entity.OrderStatusOutForDelivery); err != nil {
			return err
		}
		if note == "" {
			note = "Entrega fallida"
		}
		order.AppendNote(note)
		order.Status = entity.OrderStatusDeliveryFailed
		return nil
	})
}

// ConfirmAssembled confirma que el armador terminó; queda pendiente de recogida.
func (uc *UseCase) ConfirmAssembled(ctx context.Context, orderID, actorID string) (*dto.OrderResponse, error) {
	return uc.mutate(ctx, orderID, func(order *entity.ExternalOrder, _ txRepos) error {
		if err := guardStatus(order, TransitionConfirmAssembled, entity.OrderStatusInAssembly); err != nil {
			return err
		}
		order.Status = entity.OrderStatusPendingPickup
		return nil
	})
}

// AssignPickup asigna la persona que recoge el producto armado.
func (uc *UseCase) AssignPickup(ctx context.Context, orderID, personID, actorID string) (*dto.OrderResponse, error) {
	if personID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.mutate(ctx, orderID, func(order *entity.ExternalOrder, _ txRepos) error {
		if err := guardStatus(order, TransitionAssignPickup, entity.OrderStatusPendingPickup); err != nil {
			return err
		}
		order.PickupPersonID = personID
		order.Status = entity.OrderStatusReturnInTransit
		return nil
	})
}

// ReceiveGoods recibe el lote devuelto por el armador. received mapea
// producto → cantidad recibida para cada salida esperada; cualquier
// diferencia marca discrepancia. Toda línea con cantidad > 0 incrementa
// stock y escribe un RECEIVED_FROM_ASSEMBLER (event id compartido), coincida
// o no con lo esperado. Estado final: COMPLETED sin discrepancia,
// COMPLETED_WITH_NOTES si la discrepancia viene justificada,
// COMPLETED_WITH_DISCREPANCY en otro caso. Atómico: todo el lote o nada.
func (uc *UseCase) ReceiveGoods(ctx context.Context, orderID string, received map[string]decimal.Decimal, justified bool, note, actorID string) (*dto.OrderResponse, error) {
	eventID := uuid.New().String()
	now := time.Now()
	return uc.mutate(ctx, orderID, func(order *entity.ExternalOrder, repos txRepos) error {
		if err := guardStatus(order, TransitionReceiveGoods, entity.OrderStatusReturnInTransit); err != nil {
			return err
		}
		expected := make(map[string]bool, len(order.Outputs))
		for _, out := range order.Outputs {
			expected[out.ProductID] = true
		}
		for productID := range received {
			if !expected[productID] {
				return fmt.Errorf("producto %s no es una salida esperada de la orden %s: %w",
					productID, order.ID, domain.ErrInvalidInput)
			}
		}

		discrepancy := false
		receiveNote := fmt.Sprintf("Recepción de la orden %s", order.ID)
		for _, out := range order.Outputs {
			got := received[out.ProductID] // cero si no vino en el mapa
			if !got.Equal(out.ExpectedQty) {
				discrepancy = true
			}
			out.ReceivedQty = got
			if err := repos.orders.UpdateOutputReceived(out.ID, got); err != nil {
				return err
			}
			if !got.GreaterThan(decimal.Zero) {
				continue
			}
			locked, err := repos.products.GetForUpdate(out.ProductID)
			if err != nil {
				return err
			}
			if locked == nil {
				return fmt.Errorf("producto %s: %w", out.ProductID, domain.ErrNotFound)
			}
			mov := &entity.InventoryMovement{
				ID:        uuid.New().String(),
				ProductID: out.ProductID,
				Type:      entity.MovementTypeReceivedFromAssembler,
				Quantity:  got,
				ActorID:   actorID,
				Note:      receiveNote,
				EventID:   eventID,
				CreatedAt: now,
			}
			if err := repos.movements.Create(mov); err != nil {
				return err
			}
			if err := repos.products.UpdateStock(out.ProductID, locked.Stock.Add(got)); err != nil {
				return err
			}
		}

		order.IsDiscrepancy = discrepancy
		switch {
		case !discrepancy:
			order.Status = entity.OrderStatusCompleted
		case justified:
			order.Status = entity.OrderStatusCompletedWithNotes
		default:
			order.Status = entity.OrderStatusCompletedWithDiscrepancy
		}
		order.AppendNote(note)
		return nil
	})
}

// txRepos agrupa los repositorios transaccionales que usan las transiciones.
type txRepos struct {
	movements repository.InventoryMovementRepository
	products  repository.ProductRepository
	orders    repository.ExternalOrderRepository
}

// mutate abre la transacción, bloquea la cabecera de la orden, aplica fn y
// persiste la cabecera. La guarda de estado dentro de fn ve el estado
// re-leído bajo bloqueo: una llamada concurrente con estado viejo falla.
func (uc *UseCase) mutate(ctx context.Context, orderID string, fn func(order *entity.ExternalOrder, repos txRepos) error) (*dto.OrderResponse, error) {
	if orderID == "" {
		return nil, domain.ErrInvalidInput
	}
	var mutated *entity.ExternalOrder
	err := uc.txRunner.RunOrders(ctx, func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
		_ repository.ProductComponentRepository,
		_ repository.AssemblyWorkRepository,
		orderRepo repository.ExternalOrderRepository,
	) error {
		order, err := orderRepo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return fmt.Errorf("orden %s: %w", orderID, domain.ErrNotFound)
		}
		if err := fn(order, txRepos{movements: movRepo, products: productRepo, orders: orderRepo}); err != nil {
			return err
		}
		order.UpdatedAt = time.Now()
		if err := orderRepo.Update(order); err != nil {
			return err
		}
		mutated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(mutated), nil
}

func guardStatus(order *entity.ExternalOrder, transition string, allowed ...string) error {
	for _, s := range allowed {
		if order.Status == s {
			return nil
		}
	}
	return &domain.InvalidTransitionError{
		OrderID:    order.ID,
		Transition: transition,
		Current:    order.Status,
		Expected:   allowed,
	}
}
