package repository

import (
	"github.com/ikkim/shopmall-backend/internal/app/model"
	"github.com/ikkim/shopmall-backend/pkg/logger"
	"gorm.io/gorm"
)

type PaymentChannelRepository interface {
	Create(channel *model.PaymentChannel) error
	Update(channel *model.PaymentChannel) error
	Delete(id uint) error
	FindAll(activeOnly bool) ([]model.PaymentChannel, error)
	FindByID(id uint) (*model.PaymentChannel, error)
}

type paymentChannelRepository struct {
	db *gorm.DB
}

func NewPaymentChannelRepository(db *gorm.DB) PaymentChannelRepository {
	return &paymentChannelRepository{db: db}
}

func (r *paymentChannelRepository) Create(channel *model.PaymentChannel) error {
	logger.Debug("Creating payment channel", map[string]interface{}{
		"bank": channel.BankName,
	})

	if err := r.db.Create(channel).Error; err != nil {
		logger.Error("Failed to create payment channel", err, map[string]interface{}{
			"bank": channel.BankName,
		})
		return err
	}
	return nil
}

func (r *paymentChannelRepository) Update(channel *model.PaymentChannel) error {
	if err := r.db.Save(channel).Error; err != nil {
		logger.Error("Failed to update payment channel", err, map[string]interface{}{
			"channel_id": channel.ID,
		})
		return err
	}
	return nil
}

func (r *paymentChannelRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.PaymentChannel{}, id).Error; err != nil {
		logger.Error("Failed to delete payment channel", err, map[string]interface{}{
			"channel_id": id,
		})
		return err
	}
	return nil
}

func (r *paymentChannelRepository) FindAll(activeOnly bool) ([]model.PaymentChannel, error) {
	query := r.db.Model(&model.PaymentChannel{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var channels []model.PaymentChannel
	if err := query.Order("id ASC").Find(&channels).Error; err != nil {
		logger.Error("Failed to find payment channels", err, nil)
		return nil, err
	}
	return channels, nil
}

func (r *paymentChannelRepository) FindByID(id uint) (*model.PaymentChannel, error) {
	var channel model.PaymentChannel
	if err := r.db.First(&channel, id).Error; err != nil {
		logger.Debug("Payment channel not found by ID", map[string]interface{}{
			"channel_id": id,
		})
		return nil, err
	}
	return &channel, nil
}
