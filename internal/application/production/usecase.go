package production

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

// UseCase implementa los flujos de confirmación del motor de producción:
// producción interna, compra, venta y reversa de movimientos, más la
// explosión del BOM en modo simulación (solo lectura).
//
// Cada flujo de confirmación corre entero dentro de una transacción: las
// lecturas de stock, la evaluación de faltantes y las escrituras ocurren en
// la misma unidad aislada, con la fila del producto bloqueada
// (SELECT FOR UPDATE) y la suficiencia re-validada al momento de escribir.
type UseCase struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	componentRepo repository.ProductComponentRepository
	workRepo      repository.AssemblyWorkRepository
}

// NewUseCase construye el caso de uso con repositorios atados al pool
// (lecturas fuera de transacción) y el TxRunner para los commits.
func NewUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	componentRepo repository.ProductComponentRepository,
	workRepo repository.AssemblyWorkRepository,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		productRepo:   productRepo,
		componentRepo: componentRepo,
		workRepo:      workRepo,
	}
}

// ExplodeBOM resuelve el BOM en modo simulación, con lecturas del último
// estado confirmado. No escribe nada; el mismo algoritmo corre en el commit
// con lecturas transaccionales, así la simulación previsualiza fielmente.
func (uc *UseCase) ExplodeBOM(_ context.Context, productID string, quantity decimal.Decimal) (*dto.BOMPreviewResponse, error) {
	reader := bom.NewReader(uc.productRepo, uc.componentRepo, uc.workRepo)
	res, err := bom.Resolve(reader, productID, quantity)
	if err != nil {
		return nil, err
	}
	return toBOMPreview(productID, quantity, res), nil
}

// CommitInternalProduction produce quantity unidades de productID consumiendo
// su BOM. Atómico: escribe un PRODUCTION_IN por el producto y un
// PRODUCTION_OUT por cada material agregado, todos con el mismo event id.
// Los subensambles consumidos de stock existente no se registran como
// producción aparte: aparecen como consumo en el agregado de materiales.
func (uc *UseCase) CommitInternalProduction(ctx context.Context, productID string, quantity decimal.Decimal, actorID, note string) (*dto.MovementBatchResponse, error) {
	if productID == "" || actorID == "" || !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	// Sin aristas directas no hay forma de producirlo internamente.
	edges, err := uc.componentRepo.ListByProduct(productID)
	if err != nil {
		return nil, err
	}
	if len(edges) == 0 {
		return nil, fmt.Errorf("producto %s: %w", product.SKU, domain.ErrNoComponents)
	}

	eventID := uuid.New().String()
	now := time.Now()
	var batch *dto.MovementBatchResponse

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
		componentRepo repository.ProductComponentRepository,
		workRepo repository.AssemblyWorkRepository,
	) error {
		// Bloquea la fila del producto de salida antes de resolver.
		locked, err := productRepo.GetForUpdate(productID)
		if err != nil {
			return err
		}
		if locked == nil {
			return fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
		}

		reader := bom.NewReader(productRepo, componentRepo, workRepo)
		res, err := bom.Resolve(reader, productID, quantity)
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

		batch = &dto.MovementBatchResponse{EventID: eventID}

		// Entrada del producto terminado/subensamble producido.
		inMov := &entity.InventoryMovement{
			ID:        uuid.New().String(),
			ProductID: productID,
			Type:      entity.MovementTypeProductionIn,
			Quantity:  quantity,
			ActorID:   actorID,
			Note:      note,
			EventID:   eventID,
			CreatedAt: now,
		}
		if err := movRepo.Create(inMov); err != nil {
			return err
		}
		if err := productRepo.UpdateStock(productID, locked.Stock.Add(quantity)); err != nil {
			return err
		}
		batch.Movements = append(batch.Movements, toMovementResponse(inMov))

		// Consumo por material agregado (orden de inserción determinista),
		// re-validando suficiencia sobre la fila bloqueada.
		for _, m := range res.Materials {
			consumed, err := consumeStock(movRepo, productRepo, m.Product.ID, m.Quantity,
				entity.MovementTypeProductionOut, actorID, "", eventID, now)
			if err != nil {
				return err
			}
			batch.Movements = append(batch.Movements, toMovementResponse(consumed))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// CommitPurchase registra la compra de una materia prima: un movimiento
// PURCHASE e incremento de stock. Las compras solo suman: no hay chequeo de
// faltantes.
func (uc *UseCase) CommitPurchase(ctx context.Context, productID string, quantity decimal.Decimal, actorID, note string) (*dto.MovementResponse, error) {
	if productID == "" || actorID == "" || !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	if product.Type != entity.ProductTypeRawMaterial {
		return nil, &domain.WrongProductTypeError{
			ProductID: product.ID, SKU: product.SKU,
			Got: product.Type, Want: entity.ProductTypeRawMaterial,
		}
	}

	now := time.Now()
	var resp dto.MovementResponse
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
		_ repository.ProductComponentRepository,
		_ repository.AssemblyWorkRepository,
	) error {
		locked, err := productRepo.GetForUpdate(productID)
		if err != nil {
			return err
		}
		if locked == nil {
			return fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
		}
		mov := &entity.InventoryMovement{
			ID:        uuid.New().String(),
			ProductID: productID,
			Type:      entity.MovementTypePurchase,
			Quantity:  quantity,
			ActorID:   actorID,
			Note:      note,
			CreatedAt: now,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		if err := productRepo.UpdateStock(productID, locked.Stock.Add(quantity)); err != nil {
			return err
		}
		resp = toMovementResponse(mov)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// CommitSale registra la venta de un producto terminado: requiere stock
// suficiente, escribe un movimiento SALE y decrementa stock.
func (uc *UseCase) CommitSale(ctx context.Context, productID string, quantity decimal.Decimal, actorID, note string) (*dto.MovementResponse, error) {
	if productID == "" || actorID == "" || !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	if product.Type != entity.ProductTypeFinished {
		return nil, &domain.WrongProductTypeError{
			ProductID: product.ID, SKU: product.SKU,
			Got: product.Type, Want: entity.ProductTypeFinished,
		}
	}

	now := time.Now()
	var resp dto.MovementResponse
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
		_ repository.ProductComponentRepository,
		_ repository.AssemblyWorkRepository,
	) error {
		mov, err := consumeStock(movRepo, productRepo, productID, quantity,
			entity.MovementTypeSale, actorID, note, "", now)
		if err != nil {
			return err
		}
		resp = toMovementResponse(mov)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ReverseMovement crea los movimientos que deshacen económicamente el
// movimiento dado. Si pertenece a un grupo (event id), se reversa el grupo
// completo con un event id nuevo. Falla si el objetivo es una reversa o si
// algún movimiento del grupo ya fue reversado; la detección usa la
// referencia reversed_by_movement_id, fijada en la misma transacción.
func (uc *UseCase) ReverseMovement(ctx context.Context, movementID, actorID string) (*dto.MovementBatchResponse, error) {
	if movementID == "" || actorID == "" {
		return nil, domain.ErrInvalidInput
	}

	newEventID := uuid.New().String()
	now := time.Now()
	var batch *dto.MovementBatchResponse

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
		_ repository.ProductComponentRepository,
		_ repository.AssemblyWorkRepository,
	) error {
		target, err := movRepo.GetForUpdate(movementID)
		if err != nil {
			return err
		}
		if target == nil {
			return fmt.Errorf("movimiento %s: %w", movementID, domain.ErrNotFound)
		}
		if target.IsReversal() {
			return fmt.Errorf("movimiento %s: %w", movementID, domain.ErrIsReversal)
		}

		group := []*entity.InventoryMovement{target}
		if target.EventID != "" {
			group, err = movRepo.ListByEventForUpdate(target.EventID)
			if err != nil {
				return err
			}
		}
		for _, m := range group {
			if m.ReversedByID != nil {
				return fmt.Errorf("movimiento %s: %w", m.ID, domain.ErrAlreadyReversed)
			}
			if m.IsReversal() {
				return fmt.Errorf("movimiento %s: %w", m.ID, domain.ErrIsReversal)
			}
		}

		batch = &dto.MovementBatchResponse{EventID: newEventID}
		for _, m := range group {
			reversal, err := reverseOne(movRepo, productRepo, m, actorID, newEventID, now)
			if err != nil {
				return err
			}
			batch.Movements = append(batch.Movements, toMovementResponse(reversal))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// reverseOne crea la reversa de un movimiento y ajusta el stock en la
// dirección contraria. Reversar una entrada resta stock, así que también
// re-valida suficiencia: el motor nunca deja stock negativo.
func reverseOne(
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
	original *entity.InventoryMovement,
	actorID, eventID string,
	now time.Time,
) (*entity.InventoryMovement, error) {
	locked, err := productRepo.GetForUpdate(original.ProductID)
	if err != nil {
		return nil, err
	}
	if locked == nil {
		return nil, fmt.Errorf("producto %s: %w", original.ProductID, domain.ErrNotFound)
	}

	reverseType := entity.ReverseMovementType(original.Type)
	newStock := locked.Stock.Add(original.Quantity)
	if reverseType == entity.MovementTypeAdjustmentOut {
		if locked.Stock.LessThan(original.Quantity) {
			return nil, &domain.InsufficientStockError{
				ProductID: locked.ID,
				SKU:       locked.SKU,
				Name:      locked.Name,
				Required:  original.Quantity,
				Available: locked.Stock,
			}
		}
		newStock = locked.Stock.Sub(original.Quantity)
	}

	reversal := &entity.InventoryMovement{
		ID:           uuid.New().String(),
		ProductID:    original.ProductID,
		Type:         reverseType,
		Quantity:     original.Quantity,
		ActorID:      actorID,
		Note:         fmt.Sprintf("Reversa del movimiento %s (%s)", original.ID, original.Type),
		EventID:      eventID,
		ReversalOfID: &original.ID,
		CreatedAt:    now,
	}
	if err := movRepo.Create(reversal); err != nil {
		return nil, err
	}
	if err := movRepo.SetReversedBy(original.ID, reversal.ID); err != nil {
		return nil, err
	}
	if err := productRepo.UpdateStock(locked.ID, newStock); err != nil {
		return nil, err
	}
	return reversal, nil
}

// consumeStock bloquea la fila del producto, re-valida suficiencia, escribe
// el movimiento de salida y decrementa stock. Compartido por producción
// interna, venta y envío de materiales al armador.
func consumeStock(
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
	productID string,
	quantity decimal.Decimal,
	movementType, actorID, note, eventID string,
	now time.Time,
) (*entity.InventoryMovement, error) {
	locked, err := productRepo.GetForUpdate(productID)
	if err != nil {
		return nil, err
	}
	if locked == nil {
		return nil, fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	if locked.Stock.LessThan(quantity) {
		return nil, &domain.InsufficientStockError{
			ProductID: locked.ID,
			SKU:       locked.SKU,
			Name:      locked.Name,
			Required:  quantity,
			Available: locked.Stock,
		}
	}
	mov := &entity.InventoryMovement{
		ID:        uuid.New().String(),
		ProductID: productID,
		Type:      movementType,
		Quantity:  quantity,
		ActorID:   actorID,
		Note:      note,
		EventID:   eventID,
		CreatedAt: now,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	if err := productRepo.UpdateStock(productID, locked.Stock.Sub(quantity)); err != nil {
		return nil, err
	}
	return mov, nil
}

func toMovementResponse(m *entity.InventoryMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:           m.ID,
		ProductID:    m.ProductID,
		Type:         m.Type,
		Quantity:     m.Quantity,
		ActorID:      m.ActorID,
		Note:         m.Note,
		EventID:      m.EventID,
		ReversalOfID: m.ReversalOfID,
		ReversedByID: m.ReversedByID,
		CreatedAt:    m.CreatedAt,
	}
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
