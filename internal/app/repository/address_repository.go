package repository

import (
	"github.com/ikkim/shopmall-backend/internal/app/model"
	"github.com/ikkim/shopmall-backend/pkg/logger"
	"gorm.io/gorm"
)

type AddressRepository interface {
	Create(address *model.Address) error
	Update(address *model.Address) error
	Delete(id uint) error
	FindByUser(userID uint) ([]model.Address, error)
	FindByIDForUser(id, userID uint) (*model.Address, error)
}

type addressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) AddressRepository {
	return &addressRepository{db: db}
}

func (r *addressRepository) Create(address *model.Address) error {
	logger.Debug("Creating address in database", map[string]interface{}{
		"user_id": address.UserID,
	})

	if err := r.db.Create(address).Error; err != nil {
		logger.Error("Failed to create address in database", err, map[string]interface{}{
			"user_id": address.UserID,
		})
		return err
	}
	return nil
}

func (r *addressRepository) Update(address *model.Address) error {
	if err := r.db.Save(address).Error; err != nil {
		logger.Error("Failed to update address in database", err, map[string]interface{}{
			"address_id": address.ID,
		})
		return err
	}
	return nil
}

func (r *addressRepository) Delete(id uint) error {
	logger.Debug("Deleting address from database", map[string]interface{}{
		"address_id": id,
	})

	if err := r.db.Delete(&model.Address{}, id).Error; err != nil {
		logger.Error("Failed to delete address from database", err, map[string]interface{}{
			"address_id": id,
		})
		return err
	}
	return nil
}

func (r *addressRepository) FindByUser(userID uint) ([]model.Address, error) {
	var addresses []model.Address
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&addresses).Error
	if err != nil {
		logger.Error("Failed to find addresses for user", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return addresses, nil
}

func (r *addressRepository) FindByIDForUser(id, userID uint) (*model.Address, error) {
	var address model.Address
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&address).Error
	if err != nil {
		logger.Debug("Address not found for user", map[string]interface{}{
			"address_id": id,
			"user_id":    userID,
		})
		return nil, err
	}
	return &address, nil
}
