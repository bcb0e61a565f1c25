package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/bom"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// UseCase implementa el ciclo de vida de las órdenes de producción externa:
// creación (con simulación opcional) y la máquina de estados desde el envío
// de materiales hasta la recepción del producto armado.
//
// Toda transición corre en una transacción con la cabecera de la orden
// bloqueada (SELECT FOR UPDATE); la guarda de estado re-validada dentro de
// la tx es la exclusión mutua entre llamadas concurrentes.
type UseCase struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	componentRepo repository.ProductComponentRepository
	workRepo      repository.AssemblyWorkRepository
	orderRepo     repository.ExternalOrderRepository
	armadorRepo   repository.ArmadorRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	componentRepo repository.ProductComponentRepository,
	workRepo repository.AssemblyWorkRepository,
	orderRepo repository.ExternalOrderRepository,
	armadorRepo repository.ArmadorRepository,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		productRepo:   productRepo,
		componentRepo: componentRepo,
		workRepo:      workRepo,
		orderRepo:     orderRepo,
		armadorRepo:   armadorRepo,
	}
}

// CreateResult resultado de Create: la orden creada, o la previsualización
// del BOM cuando el modo es dry_run.
type CreateResult struct {
	Order   *dto.OrderResponse
	Preview *dto.BOMPreviewResponse
}

// Create crea una orden de producción externa para que el armador produzca
// quantity unidades de productID. En modo dry_run devuelve la
// previsualización del BOM sin escribir nada. En modo commit: resuelve el
// BOM dentro de la transacción, aborta con el primer faltante si los hay, y
// si no, crea la orden en PENDING_DELIVERY, registra una línea por material
// enviado con su movimiento SENT_TO_ASSEMBLER (event id compartido) y
// decrementa stock. La mano de obra queda como pasos informativos.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateOrderRequest, actorID string) (*CreateResult, error) {
	if in.ArmadorID == "" || in.ProductID == "" || actorID == "" || !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	armador, err := uc.armadorRepo.GetByID(in.ArmadorID)
	if err != nil {
		return nil, err
	}
	if armador == nil {
		return nil, fmt.Errorf("armador %s: %w", in.ArmadorID, domain.ErrNotFound)
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("producto %s: %w", in.ProductID, domain.ErrNotFound)
	}
	if product.Type == entity.ProductTypeRawMaterial {
		return nil, &domain.WrongProductTypeError{
			ProductID: product.ID, SKU: product.SKU,
			Got: product.Type, Want: entity.ProductTypePreAssembled + " o " + entity.ProductTypeFinished,
		}
	}

	if in.Mode == dto.OrderModeDryRun {
		reader := bom.NewReader(uc.productRepo, uc.componentRepo, uc.workRepo)
		res, err := bom.Resolve(reader, in.ProductID, in.Quantity)
		if err != nil {
			return nil, err
		}
		return &CreateResult{Preview: toBOMPreview(in.ProductID, in.Quantity, res)}, nil
	}

	now := time.Now()
	eventID := uuid.New().String()
	var created *entity.ExternalOrder

	err = uc.txRunner.RunOrders(ctx, func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
		componentRepo repository.ProductComponentRepository,
		workRepo repository.AssemblyWorkRepository,
		orderRepo repository.ExternalOrderRepository,
	) error {
		reader := bom.NewReader(productRepo, componentRepo, workRepo)
		res, err := bom.Resolve(reader, in.ProductID, in.Quantity)
		if err != nil {
			return err
		}
		if s := res.FirstShortage(); s != nil {
			return &domain.InsufficientStockError{
				ProductID: s.Product.ID,
				SKU:       s.Product.SKU,
				Name:      s.Product.Name,
				Required:  s.Required,
				Available: s.Available,
			}
		}

		order := &entity.ExternalOrder{
			ID:         uuid.New().String(),
			ArmadorID:  in.ArmadorID,
			Status:     entity.OrderStatusPendingDelivery,
			CreatedAt:  now,
			UpdatedAt:  now,
			ExpectedAt: in.ExpectedAt,
		}
		order.AppendNote(in.Note)
		order.Outputs = []*entity.OrderOutput{{
			ID:          uuid.New().String(),
			OrderID:     order.ID,
			ProductID:   in.ProductID,
			ExpectedQty: in.Quantity,
			ReceivedQty: decimal.Zero,
			Product:     product,
		}}
		for _, m := range res.Materials {
			order.Items = append(order.Items, &entity.OrderItem{
				ID:        uuid.New().String(),
				OrderID:   order.ID,
				ProductID: m.Product.ID,
				Quantity:  m.Quantity,
				Product:   m.Product,
			})
		}
		for _, l := range res.Labor {
			order.Steps = append(order.Steps, &entity.AssemblyStep{
				ID:        uuid.New().String(),
				OrderID:   order.ID,
				WorkID:    l.Work.ID,
				WorkName:  l.Work.Name,
				Quantity:  l.Quantity,
				UnitPrice: l.Work.UnitPrice,
			})
		}
		if err := orderRepo.Create(order); err != nil {
			return err
		}

		// Salida física de los materiales hacia el armador, re-validando
		// suficiencia sobre la fila bloqueada de cada producto.
		note := fmt.Sprintf("Envío a armador, orden %s", order.ID)
		for _, item := range order.Items {
			if err := sendToAssembler(movRepo, productRepo, item, actorID, note, eventID, now); err != nil {
				return err
			}
		}
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &CreateResult{Order: toOrderResponse(created)}, nil
}

// GetByID devuelve la orden con su detalle.
func (uc *UseCase) GetByID(_ context.Context, orderID string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("orden %s: %w", orderID, domain.ErrNotFound)
	}
	return toOrderResponse(order), nil
}

// List lista órdenes, opcionalmente filtradas por estado.
func (uc *UseCase) List(_ context.Context, status string, limit, offset int) (*dto.OrderListResponse, error) {
	list, err := uc.orderRepo.List(status, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toOrderResponse(o))
	}
	return &dto.OrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func sendToAssembler(
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
	item *entity.OrderItem,
	actorID, note, eventID string,
	now time.Time,
) error {
	locked, err := productRepo.GetForUpdate(item.ProductID)
	if err != nil {
		return err
	}
	if locked == nil {
		return fmt.Errorf("producto %s: %w", item.ProductID, domain.ErrNotFound)
	}
	if locked.Stock.LessThan(item.Quantity) {
		return &domain.InsufficientStockError{
			ProductID: locked.ID,
			SKU:       locked.SKU,
			Name:      locked.Name,
			Required:  item.Quantity,
			Available: locked.Stock,
		}
	}
	mov := &entity.InventoryMovement{
		ID:        uuid.New().String(),
		ProductID: item.ProductID,
		Type:      entity.MovementTypeSentToAssembler,
		Quantity:  item.Quantity,
		ActorID:   actorID,
		Note:      note,
		EventID:   eventID,
		CreatedAt: now,
	}
	if err := movRepo.Create(mov); err != nil {
		return err
	}
	return productRepo.UpdateStock(item.ProductID, locked.Stock.Sub(item.Quantity))
}

func toOrderResponse(o *entity.ExternalOrder) *dto.OrderResponse {
	resp := &dto.OrderResponse{
		ID:               o.ID,
		ArmadorID:        o.ArmadorID,
		Status:           o.Status,
		DeliveryPersonID: o.DeliveryPersonID,
		PickupPersonID:   o.PickupPersonID,
		Notes:            o.Notes,
		IsDiscrepancy:    o.IsDiscrepancy,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
		ExpectedAt:       o.ExpectedAt,
		Items:            make([]dto.OrderItemDTO, 0, len(o.Items)),
		Outputs:          make([]dto.OrderOutputDTO, 0, len(o.Outputs)),
		Steps:            make([]dto.OrderStepDTO, 0, len(o.Steps)),
	}
	for _, it := range o.Items {
		d := dto.OrderItemDTO{ProductID: it.ProductID, Quantity: it.Quantity}
		if it.Product != nil {
			d.SKU = it.Product.SKU
			d.Name = it.Product.Name
		}
		resp.Items = append(resp.Items, d)
	}
	for _, out := range o.Outputs {
		d := dto.OrderOutputDTO{
			ProductID:   out.ProductID,
			ExpectedQty: out.ExpectedQty,
			ReceivedQty: out.ReceivedQty,
		}
		if out.Product != nil {
			d.SKU = out.Product.SKU
			d.Name = out.Product.Name
		}
		resp.Outputs = append(resp.Outputs, d)
	}
	for _, st := range o.Steps {
		resp.Steps = append(resp.Steps, dto.OrderStepDTO{
			WorkID:    st.WorkID,
			Name:      st.WorkName,
			Quantity:  st.Quantity,
			UnitPrice: st.UnitPrice,
		})
	}
	return resp
}

func toBOMPreview(productID string, quantity decimal.Decimal, res *bom.Result) *dto.BOMPreviewResponse {
	out := &dto.BOMPreviewResponse{
		ProductID:      productID,
		Quantity:       quantity,
		Materials:      make([]dto.BOMMaterialDTO, 0, len(res.Materials)),
		Labor:          make([]dto.BOMLaborDTO, 0, len(res.Labor)),
		Shortages:      make([]dto.BOMShortageDTO, 0, len(res.Shortages)),
		TotalLaborCost: res.TotalLaborCost(),
		Feasible:       len(res.Shortages) == 0,
	}
	for _, m := range res.Materials {
		out.Materials = append(out.Materials, dto.BOMMaterialDTO{
			ProductID: m.Product.ID,
			SKU:       m.Product.SKU,
			Name:      m.Product.Name,
			Type:      m.Product.Type,
			Quantity:  m.Quantity,
			Stock:     m.Product.Stock,
		})
	}
	for _, l := range res.Labor {
		out.Labor = append(out.Labor, dto.BOMLaborDTO{
			WorkID:    l.Work.ID,
			Name:      l.Work.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.Work.UnitPrice,
			Total:     l.Quantity.Mul(l.Work.UnitPrice),
		})
	}
	for _, s := range res.Shortages {
		out.Shortages = append(out.Shortages, dto.BOMShortageDTO{
			ProductID: s.Product.ID,
			SKU:       s.Product.SKU,
			Name:      s.Product.Name,
			Required:  s.Required,
			Available: s.Available,
		})
	}
	return out
}
