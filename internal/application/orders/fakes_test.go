package orders_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/application/orders"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// memStore estado compartido de los repositorios en memoria.
type memStore struct {
	products  map[string]*entity.Product
	edges     map[string][]*entity.ProductComponent
	works     map[string][]*entity.ProductWork
	armadores map[string]*entity.Armador
	orders    map[string]*entity.ExternalOrder
	movements []*entity.InventoryMovement
}

func newMemStore() *memStore {
	return &memStore{
		products:  make(map[string]*entity.Product),
		edges:     make(map[string][]*entity.ProductComponent),
		works:     make(map[string][]*entity.ProductWork),
		armadores: make(map[string]*entity.Armador),
		orders:    make(map[string]*entity.ExternalOrder),
	}
}

func (s *memStore) addProduct(id, sku, ptype string, stock int64) *entity.Product {
	p := &entity.Product{
		ID:    id,
		SKU:   sku,
		Name:  sku,
		Type:  ptype,
		Stock: decimal.NewFromInt(stock),
	}
	s.products[id] = p
	return p
}

func (s *memStore) addEdge(parentID, componentID string, qty int64) {
	s.edges[parentID] = append(s.edges[parentID], &entity.ProductComponent{
		ID:          parentID + "->" + componentID,
		ProductID:   parentID,
		ComponentID: componentID,
		Quantity:    decimal.NewFromInt(qty),
	})
}

func (s *memStore) addWork(productID, workID, name string, qty, unitPrice int64) {
	s.works[productID] = append(s.works[productID], &entity.ProductWork{
		ID:        productID + "->" + workID,
		ProductID: productID,
		WorkID:    workID,
		Quantity:  decimal.NewFromInt(qty),
		Work: &entity.AssemblyWork{
			ID:        workID,
			Name:      name,
			UnitPrice: decimal.NewFromInt(unitPrice),
		},
	})
}

func (s *memStore) stockOf(id string) decimal.Decimal {
	return s.products[id].Stock
}

func (s *memStore) movementsOfType(movType string) []*entity.InventoryMovement {
	var out []*entity.InventoryMovement
	for _, m := range s.movements {
		if m.Type == movType {
			out = append(out, m)
		}
	}
	return out
}

// snapshot/restore emulan el rollback de la transacción.
func (s *memStore) snapshot() *memStore {
	cp := &memStore{
		products:  make(map[string]*entity.Product, len(s.products)),
		edges:     s.edges,
		works:     s.works,
		armadores: s.armadores,
		orders:    make(map[string]*entity.ExternalOrder, len(s.orders)),
	}
	for id, p := range s.products {
		c := *p
		cp.products[id] = &c
	}
	for id, o := range s.orders {
		cp.orders[id] = copyOrder(o)
	}
	cp.movements = make([]*entity.InventoryMovement, len(s.movements))
	for i, m := range s.movements {
		c := *m
		cp.movements[i] = &c
	}
	return cp
}

func (s *memStore) restore(snap *memStore) {
	s.products = snap.products
	s.orders = snap.orders
	s.movements = snap.movements
}

func copyOrder(o *entity.ExternalOrder) *entity.ExternalOrder {
	c := *o
	c.Items = append([]*entity.OrderItem(nil), o.Items...)
	c.Steps = append([]*entity.AssemblyStep(nil), o.Steps...)
	c.Outputs = make([]*entity.OrderOutput, len(o.Outputs))
	for i, out := range o.Outputs {
		oc := *out
		c.Outputs[i] = &oc
	}
	return &c
}

// ── Repositorios ──────────────────────────────────────────────────────────────

type memProductRepo struct{ s *memStore }

var _ repository.ProductRepository = (*memProductRepo)(nil)

func (r *memProductRepo) Create(p *entity.Product) error {
	if _, ok := r.s.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.products[p.ID] = p
	return nil
}

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.s.products[id], nil
}

func (r *memProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.s.products[id], nil
}

func (r *memProductRepo) Update(p *entity.Product) error {
	r.s.products[p.ID] = p
	return nil
}

func (r *memProductRepo) UpdateStock(productID string, stock decimal.Decimal) error {
	p, ok := r.s.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Stock = stock
	return nil
}

func (r *memProductRepo) List(string, int, int) ([]*entity.Product, error) { return nil, nil }
func (r *memProductRepo) ListLowStock() ([]*entity.Product, error)         { return nil, nil }
func (r *memProductRepo) Delete(string) error                              { return nil }

type memComponentRepo struct{ s *memStore }

var _ repository.ProductComponentRepository = (*memComponentRepo)(nil)

func (r *memComponentRepo) Create(edge *entity.ProductComponent) error {
	r.s.edges[edge.ProductID] = append(r.s.edges[edge.ProductID], edge)
	return nil
}

func (r *memComponentRepo) GetByID(string) (*entity.ProductComponent, error) { return nil, nil }

func (r *memComponentRepo) ListByProduct(productID string) ([]*entity.ProductComponent, error) {
	edges := r.s.edges[productID]
	out := make([]*entity.ProductComponent, len(edges))
	for i, e := range edges {
		c := *e
		c.Component = r.s.products[e.ComponentID]
		out[i] = &c
	}
	return out, nil
}

func (r *memComponentRepo) ListByComponent(componentID string) ([]*entity.ProductComponent, error) {
	var out []*entity.ProductComponent
	for _, edges := range r.s.edges {
		for _, e := range edges {
			if e.ComponentID == componentID {
				out = append(out, e)
			}
		}
	}
	return out, nil
}

func (r *memComponentRepo) Delete(string) error { return nil }

type memWorkRepo struct{ s *memStore }

var _ repository.AssemblyWorkRepository = (*memWorkRepo)(nil)

func (r *memWorkRepo) CreateWork(*entity.AssemblyWork) error            { return nil }
func (r *memWorkRepo) GetWorkByID(string) (*entity.AssemblyWork, error) { return nil, nil }
func (r *memWorkRepo) ListWorks(int, int) ([]*entity.AssemblyWork, error) {
	return nil, nil
}
func (r *memWorkRepo) AttachToProduct(pw *entity.ProductWork) error {
	r.s.works[pw.ProductID] = append(r.s.works[pw.ProductID], pw)
	return nil
}
func (r *memWorkRepo) ListByProduct(productID string) ([]*entity.ProductWork, error) {
	return r.s.works[productID], nil
}
func (r *memWorkRepo) DetachFromProduct(string) error { return nil }

type memMovementRepo struct{ s *memStore }

var _ repository.InventoryMovementRepository = (*memMovementRepo)(nil)

func (r *memMovementRepo) Create(m *entity.InventoryMovement) error {
	r.s.movements = append(r.s.movements, m)
	return nil
}

func (r *memMovementRepo) GetByID(id string) (*entity.InventoryMovement, error) {
	for _, m := range r.s.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (r *memMovementRepo) GetForUpdate(id string) (*entity.InventoryMovement, error) {
	return r.GetByID(id)
}

func (r *memMovementRepo) ListByEvent(eventID string) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	for _, m := range r.s.movements {
		if m.EventID == eventID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMovementRepo) ListByEventForUpdate(eventID string) ([]*entity.InventoryMovement, error) {
	return r.ListByEvent(eventID)
}

func (r *memMovementRepo) SetReversedBy(movementID, reversalID string) error {
	for _, m := range r.s.movements {
		if m.ID == movementID {
			if m.ReversedByID != nil {
				return domain.ErrAlreadyReversed
			}
			m.ReversedByID = &reversalID
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memMovementRepo) ListByProduct(productID string, _, _ *time.Time, _, _ int) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	for _, m := range r.s.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMovementRepo) List(int, int) ([]*entity.InventoryMovement, error) {
	return r.s.movements, nil
}

type memArmadorRepo struct{ s *memStore }

var _ repository.ArmadorRepository = (*memArmadorRepo)(nil)

func (r *memArmadorRepo) Create(a *entity.Armador) error {
	r.s.armadores[a.ID] = a
	return nil
}

func (r *memArmadorRepo) GetByID(id string) (*entity.Armador, error) {
	return r.s.armadores[id], nil
}

func (r *memArmadorRepo) List(int, int) ([]*entity.Armador, error) { return nil, nil }

func (r *memArmadorRepo) Update(a *entity.Armador) error {
	r.s.armadores[a.ID] = a
	return nil
}

type memOrderRepo struct{ s *memStore }

var _ repository.ExternalOrderRepository = (*memOrderRepo)(nil)

func (r *memOrderRepo) Create(o *entity.ExternalOrder) error {
	if _, ok := r.s.orders[o.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.orders[o.ID] = o
	return nil
}

func (r *memOrderRepo) GetByID(id string) (*entity.ExternalOrder, error) {
	return r.s.orders[id], nil
}

func (r *memOrderRepo) GetForUpdate(id string) (*entity.ExternalOrder, error) {
	return r.s.orders[id], nil
}

func (r *memOrderRepo) Update(o *entity.ExternalOrder) error {
	if _, ok := r.s.orders[o.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.orders[o.ID] = o
	return nil
}

func (r *memOrderRepo) UpdateOutputReceived(outputID string, received decimal.Decimal) error {
	for _, o := range r.s.orders {
		for _, out := range o.Outputs {
			if out.ID == outputID {
				out.ReceivedQty = received
				return nil
			}
		}
	}
	return domain.ErrNotFound
}

func (r *memOrderRepo) List(status string, _, _ int) ([]*entity.ExternalOrder, error) {
	var out []*entity.ExternalOrder
	for _, o := range r.s.orders {
		if status == "" || o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}

// memTxRunner pasa los repositorios en memoria a fn; si fn falla restaura el
// estado previo, emulando el rollback.
type memTxRunner struct{ s *memStore }

var _ orders.TxRunner = (*memTxRunner)(nil)

func (t *memTxRunner) RunOrders(_ context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
	componentRepo repository.ProductComponentRepository,
	workRepo repository.AssemblyWorkRepository,
	orderRepo repository.ExternalOrderRepository,
) error) error {
	snap := t.s.snapshot()
	err := fn(&memMovementRepo{t.s}, &memProductRepo{t.s}, &memComponentRepo{t.s},
		&memWorkRepo{t.s}, &memOrderRepo{t.s})
	if err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

// newTestUseCase arma el caso de uso completo sobre el store dado.
func newTestUseCase(s *memStore) *orders.UseCase {
	return orders.NewUseCase(
		&memTxRunner{s},
		&memProductRepo{s},
		&memComponentRepo{s},
		&memWorkRepo{s},
		&memOrderRepo{s},
		&memArmadorRepo{s},
	)
}
