package repository

import "github.com/jhoicas/Taller-api/internal/domain/entity"

// ArmadorRepository define el puerto de persistencia para armadores externos.
type ArmadorRepository interface {
	Create(armador *entity.Armador) error
	GetByID(id string) (*entity.Armador, error)
	List(limit, offset int) ([]*entity.Armador, error)
	Update(armador *entity.Armador) error
}
