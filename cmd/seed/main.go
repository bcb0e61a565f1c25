// seed puebla la base con un catálogo de demostración: un usuario admin,
// un armador, materias primas, un subensamble y un producto terminado con
// su árbol de componentes y trabajos de armado.
//
// Uso: go run ./cmd/seed
// Idempotencia básica: si el SKU ya existe, la fila se salta.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Taller-api/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fail("cargar configuración: %v", err)
	}
	pool, err := postgres.NewPool(context.Background(), cfg.DB)
	if err != nil {
		fail("conexión a PostgreSQL: %v", err)
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	componentRepo := postgres.NewProductComponentRepository(pool)
	workRepo := postgres.NewAssemblyWorkRepository(pool)
	armadorRepo := postgres.NewArmadorRepository(pool)

	now := time.Now()

	// Usuario admin
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		fail("hash de password: %v", err)
	}
	err = userRepo.Create(&entity.User{
		ID:           uuid.New().String(),
		Email:        "admin@taller.local",
		PasswordHash: string(hash),
		Name:         "Admin",
		Role:         entity.RoleAdmin,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil && !errors.Is(err, domain.ErrDuplicate) {
		fail("crear admin: %v", err)
	}

	// Armador
	err = armadorRepo.Create(&entity.Armador{
		ID:        uuid.New().String(),
		Name:      "Taller El Progreso",
		Phone:     "300 000 0000",
		Address:   "Cra 10 # 20-30",
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		fail("crear armador: %v", err)
	}

	seedProduct := func(sku, name, ptype string, stock, minStock, price decimal.Decimal) *entity.Product {
		existing, err := productRepo.GetBySKU(sku)
		if err != nil {
			fail("buscar %s: %v", sku, err)
		}
		if existing != nil {
			fmt.Printf("ya existe %s, se salta\n", sku)
			return existing
		}
		p := &entity.Product{
			ID:        uuid.New().String(),
			SKU:       sku,
			Name:      name,
			Type:      ptype,
			Stock:     stock,
			MinStock:  minStock,
			Price:     price,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := productRepo.Create(p); err != nil {
			fail("crear %s: %v", sku, err)
		}
		return p
	}

	tornillo := seedProduct("TRN-DT01", "Tornillo drywall 1\"", entity.ProductTypeRawMaterial,
		decimal.NewFromInt(500), decimal.NewFromInt(100), decimal.Zero)
	barniz := seedProduct("BRN-DT01", "Barniz transparente 250ml", entity.ProductTypeRawMaterial,
		decimal.NewFromInt(50), decimal.NewFromInt(10), decimal.Zero)
	tabla := seedProduct("TBL-PN01", "Tabla de pino 40x60", entity.ProductTypeRawMaterial,
		decimal.NewFromInt(80), decimal.NewFromInt(20), decimal.Zero)
	marco := seedProduct("MRC-PN01", "Marco de pino armado", entity.ProductTypePreAssembled,
		decimal.NewFromInt(10), decimal.NewFromInt(5), decimal.Zero)
	repisa := seedProduct("AR-ZP401", "Repisa zapatera 4 niveles", entity.ProductTypeFinished,
		decimal.Zero, decimal.NewFromInt(2), decimal.NewFromInt(95000))

	seedEdge := func(parent, component *entity.Product, qty int64) {
		err := componentRepo.Create(&entity.ProductComponent{
			ID:          uuid.New().String(),
			ProductID:   parent.ID,
			ComponentID: component.ID,
			Quantity:    decimal.NewFromInt(qty),
			CreatedAt:   time.Now(),
		})
		if err != nil && !errors.Is(err, domain.ErrDuplicate) {
			fail("arista %s -> %s: %v", parent.SKU, component.SKU, err)
		}
	}
	seedEdge(marco, tabla, 4)
	seedEdge(marco, tornillo, 8)
	seedEdge(repisa, marco, 2)
	seedEdge(repisa, tornillo, 10)
	seedEdge(repisa, barniz, 1)

	lijado := &entity.AssemblyWork{
		ID:        uuid.New().String(),
		Name:      "Lijado y acabado",
		UnitPrice: decimal.NewFromInt(8000),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := workRepo.CreateWork(lijado); err != nil {
		fail("crear trabajo: %v", err)
	}
	err = workRepo.AttachToProduct(&entity.ProductWork{
		ID:        uuid.New().String(),
		ProductID: repisa.ID,
		WorkID:    lijado.ID,
		Quantity:  decimal.NewFromInt(1),
		CreatedAt: now,
	})
	if err != nil && !errors.Is(err, domain.ErrDuplicate) {
		fail("asociar trabajo: %v", err)
	}

	fmt.Println("catálogo de demostración cargado")
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
