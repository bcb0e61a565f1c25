// Package bom implementa la resolución recursiva del árbol de componentes
// (BOM): dado un producto y una cantidad, calcula los requerimientos
// agregados de materiales y mano de obra, anotados con faltantes de stock.
//
// La resolución es de solo lectura y se parametriza con un Reader, de modo
// que el mismo algoritmo corre con lecturas del pool (simulación) o con
// lecturas dentro de una transacción (confirmación), sin ramas por contexto.
package bom

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// Reader abstrae las lecturas que necesita la resolución.
type Reader interface {
	GetProduct(id string) (*entity.Product, error)
	ListComponents(productID string) ([]*entity.ProductComponent, error)
	ListWorks(productID string) ([]*entity.ProductWork, error)
}

// MaterialRequirement es un requerimiento agregado de consumo directo:
// materia prima, o subensamble cubierto por stock existente.
type MaterialRequirement struct {
	Product  *entity.Product
	Quantity decimal.Decimal
}

// LaborRequirement es un requerimiento agregado de trabajo de armado.
type LaborRequirement struct {
	Work     *entity.AssemblyWork
	Quantity decimal.Decimal
}

// Shortage es un faltante detectado: requerido contra disponible para una
// aparición de materia prima en el árbol. Se acumulan todos en lugar de
// abortar, para reportar el conjunto completo de una vez.
type Shortage struct {
	Product   *entity.Product
	Required  decimal.Decimal
	Available decimal.Decimal
}

// Result agrega materiales, mano de obra y faltantes de una resolución.
// Materials y Labor conservan el orden de inserción (determinista).
type Result struct {
	Materials []*MaterialRequirement
	Labor     []*LaborRequirement
	Shortages []Shortage

	matIndex map[string]*MaterialRequirement
	labIndex map[string]*LaborRequirement
}

func newResult() *Result {
	return &Result{
		matIndex: make(map[string]*MaterialRequirement),
		labIndex: make(map[string]*LaborRequirement),
	}
}

func (r *Result) addMaterial(p *entity.Product, qty decimal.Decimal) {
	if req, ok := r.matIndex[p.ID]; ok {
		req.Quantity = req.Quantity.Add(qty)
		return
	}
	req := &MaterialRequirement{Product: p, Quantity: qty}
	r.matIndex[p.ID] = req
	r.Materials = append(r.Materials, req)
}

func (r *Result) addLabor(w *entity.AssemblyWork, qty decimal.Decimal) {
	if req, ok := r.labIndex[w.ID]; ok {
		req.Quantity = req.Quantity.Add(qty)
		return
	}
	req := &LaborRequirement{Work: w, Quantity: qty}
	r.labIndex[w.ID] = req
	r.Labor = append(r.Labor, req)
}

// TotalLaborCost devuelve Σ cantidad × precio unitario sobre la mano de obra.
func (r *Result) TotalLaborCost() decimal.Decimal {
	total := decimal.Zero
	for _, l := range r.Labor {
		total = total.Add(l.Quantity.Mul(l.Work.UnitPrice))
	}
	return total
}

// FirstShortage devuelve el primer faltante detectado, o nil si no hay.
func (r *Result) FirstShortage() *Shortage {
	if len(r.Shortages) == 0 {
		return nil
	}
	return &r.Shortages[0]
}

// Resolve explota el BOM de productID para la cantidad pedida.
//
//   - Materia prima raíz: resultado vacío (las materias primas son hojas).
//   - Producto no materia prima sin aristas: NoRecipeError.
//   - Componente materia prima: se agrega al agregado; si el stock no cubre
//     el requerido de esa arista, se anota un faltante (sin abortar).
//   - Componente subensamble: si el stock actual cubre el requerido se
//     consume directo; si no, se consume el stock disponible y se recurre
//     sobre su propia receta por el déficit.
//   - La mano de obra del nivel actual se agrega una vez por llamada,
//     escalada por la cantidad pedida en ese nivel.
func Resolve(r Reader, productID string, quantity decimal.Decimal) (*Result, error) {
	if productID == "" || !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	product, err := r.GetProduct(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	res := newResult()
	if product.Type == entity.ProductTypeRawMaterial {
		return res, nil
	}
	if err := resolve(r, product, quantity, res); err != nil {
		return nil, err
	}
	return res, nil
}

func resolve(r Reader, product *entity.Product, quantity decimal.Decimal, res *Result) error {
	edges, err := r.ListComponents(product.ID)
	if err != nil {
		return err
	}
	if len(edges) == 0 {
		return &domain.NoRecipeError{ProductID: product.ID, SKU: product.SKU, Name: product.Name}
	}

	// Mano de obra del nivel actual: una vez por llamada, no por arista.
	works, err := r.ListWorks(product.ID)
	if err != nil {
		return err
	}
	for _, pw := range works {
		res.addLabor(pw.Work, pw.Quantity.Mul(quantity))
	}

	for _, edge := range edges {
		component := edge.Component
		if component == nil {
			component, err = r.GetProduct(edge.ComponentID)
			if err != nil {
				return err
			}
			if component == nil {
				return fmt.Errorf("componente %s: %w", edge.ComponentID, domain.ErrNotFound)
			}
		}
		required := edge.Quantity.Mul(quantity)

		if component.Type == entity.ProductTypeRawMaterial {
			res.addMaterial(component, required)
			if component.Stock.LessThan(required) {
				res.Shortages = append(res.Shortages, Shortage{
					Product:   component,
					Required:  required,
					Available: component.Stock,
				})
			}
			continue
		}

		// Subensamble: el stock existente se consume directo; solo el déficit
		// se resuelve contra su propia receta.
		if component.Stock.GreaterThanOrEqual(required) {
			res.addMaterial(component, required)
			continue
		}
		deficit := required
		if component.Stock.GreaterThan(decimal.Zero) {
			res.addMaterial(component, component.Stock)
			deficit = required.Sub(component.Stock)
		}
		if err := resolve(r, component, deficit, res); err != nil {
			return err
		}
	}
	return nil
}

// repositoryReader adapta los repositorios de persistencia al Reader de la
// resolución. Los repositorios pueden estar atados al pool o a una tx: el
// algoritmo no distingue.
type repositoryReader struct {
	products   repository.ProductRepository
	components repository.ProductComponentRepository
	works      repository.AssemblyWorkRepository
}

// NewReader construye un Reader sobre los repositorios dados.
func NewReader(
	products repository.ProductRepository,
	components repository.ProductComponentRepository,
	works repository.AssemblyWorkRepository,
) Reader {
	return &repositoryReader{products: products, components: components, works: works}
}

func (r *repositoryReader) GetProduct(id string) (*entity.Product, error) {
	return r.products.GetByID(id)
}

func (r *repositoryReader) ListComponents(productID string) ([]*entity.ProductComponent, error) {
	return r.components.ListByProduct(productID)
}

func (r *repositoryReader) ListWorks(productID string) ([]*entity.ProductWork, error) {
	return r.works.ListByProduct(productID)
}
