package repository

import (
	"github.com/ikkim/shopmall-backend/internal/app/model"
	"github.com/ikkim/shopmall-backend/pkg/logger"
	"gorm.io/gorm"
)

type OwnerRepository interface {
	Create(owner *model.Owner) error
	Update(owner *model.Owner) error
	Delete(id uint) error
	FindAll(activeOnly bool) ([]model.Owner, error)
	FindByID(id uint) (*model.Owner, error)
	FindByName(name string) (*model.Owner, error)
}

type ownerRepository struct {
	db *gorm.DB
}

func NewOwnerRepository(db *gorm.DB) OwnerRepository {
	return &ownerRepository{db: db}
}

func (r *ownerRepository) Create(owner *model.Owner) error {
	logger.Debug("Creating owner in database", map[string]interface{}{
		"name": owner.Name,
	})

	if err := r.db.Create(owner).Error; err != nil {
		logger.Error("Failed to create owner in database", err, map[string]interface{}{
			"name": owner.Name,
		})
		return err
	}
	return nil
}

func (r *ownerRepository) Update(owner *model.Owner) error {
	if err := r.db.Save(owner).Error; err != nil {
		logger.Error("Failed to update owner in database", err, map[string]interface{}{
			"owner_id": owner.ID,
		})
		return err
	}
	return nil
}

func (r *ownerRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Owner{}, id).Error; err != nil {
		logger.Error("Failed to delete owner from database", err, map[string]interface{}{
			"owner_id": id,
		})
		return err
	}
	return nil
}

func (r *ownerRepository) FindAll(activeOnly bool) ([]model.Owner, error) {
	query := r.db.Model(&model.Owner{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var owners []model.Owner
	if err := query.Order("name ASC").Find(&owners).Error; err != nil {
		logger.Error("Failed to find owners", err, nil)
		return nil, err
	}
	return owners, nil
}

func (r *ownerRepository) FindByID(id uint) (*model.Owner, error) {
	var owner model.Owner
	if err := r.db.First(&owner, id).Error; err != nil {
		logger.Debug("Owner not found by ID", map[string]interface{}{
			"owner_id": id,
		})
		return nil, err
	}
	return &owner, nil
}

func (r *ownerRepository) FindByName(name string) (*model.Owner, error) {
	var owner model.Owner
	if err := r.db.Where("name = ?", name).First(&owner).Error; err != nil {
		return nil, err
	}
	return &owner, nil
}
