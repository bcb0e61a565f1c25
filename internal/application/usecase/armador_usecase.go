package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// ArmadorUseCase casos de uso CRUD para armadores externos.
type ArmadorUseCase struct {
	repo repository.ArmadorRepository
}

// NewArmadorUseCase construye el caso de uso.
func NewArmadorUseCase(repo repository.ArmadorRepository) *ArmadorUseCase {
	return &ArmadorUseCase{repo: repo}
}

// Create crea un armador.
func (uc *ArmadorUseCase) Create(in dto.CreateArmadorRequest) (*dto.ArmadorResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	armador := &entity.Armador{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Phone:     in.Phone,
		Address:   in.Address,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(armador); err != nil {
		return nil, err
	}
	return toArmadorResponse(armador), nil
}

// GetByID obtiene un armador por ID.
func (uc *ArmadorUseCase) GetByID(id string) (*dto.ArmadorResponse, error) {
	armador, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if armador == nil {
		return nil, fmt.Errorf("armador %s: %w", id, domain.ErrNotFound)
	}
	return toArmadorResponse(armador), nil
}

// List lista armadores con paginación.
func (uc *ArmadorUseCase) List(limit, offset int) ([]dto.ArmadorResponse, error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ArmadorResponse, 0, len(list))
	for _, a := range list {
		items = append(items, *toArmadorResponse(a))
	}
	return items, nil
}

func toArmadorResponse(a *entity.Armador) *dto.ArmadorResponse {
	return &dto.ArmadorResponse{
		ID:      a.ID,
		Name:    a.Name,
		Phone:   a.Phone,
		Address: a.Address,
		Active:  a.Active,
	}
}
