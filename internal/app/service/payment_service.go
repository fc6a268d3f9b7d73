package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"

	"github.com/ikkim/shopmall-backend/internal/app/model"
	"github.com/ikkim/shopmall-backend/internal/app/repository"
	apperrors "github.com/ikkim/shopmall-backend/internal/errors"
	"github.com/ikkim/shopmall-backend/internal/storage"
	"github.com/ikkim/shopmall-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrPaymentAlreadyClaimed  = errors.New("payment already recorded for this order")
	ErrPaymentOrderNotPending = errors.New("order is not awaiting payment")
	ErrInvalidTransferStamp   = errors.New("transfer date or time is malformed")
	ErrChannelNotFound        = errors.New("payment channel not found")
)

var (
	transferDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	transferTimeRe = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

type PaymentClaimInput struct {
	Amount       float64
	TransferDate string // YYYY-MM-DD
	TransferTime string // HH:MM

	// Optional slip evidence.
	Slip            io.Reader
	SlipName        string
	SlipContentType string
}

type PaymentChannelInput struct {
	BankName      string
	AccountName   string
	AccountNumber string
	QRImageURL    *string
	IsActive      *bool
}

type PaymentService interface {
	SubmitClaim(ctx context.Context, userID, orderID uint, input PaymentClaimInput) (*model.PaymentClaim, error)
	ListChannels(activeOnly bool) ([]model.PaymentChannel, error)
	CreateChannel(input PaymentChannelInput) (*model.PaymentChannel, error)
	UpdateChannel(id uint, input PaymentChannelInput) (*model.PaymentChannel, error)
	DeleteChannel(id uint) error
}

type paymentService struct {
	orderRepo   repository.OrderRepository
	channelRepo repository.PaymentChannelRepository
	notifier    NotificationService
	uploader    storage.Uploader
	db          *gorm.DB
}

func NewPaymentService(
	orderRepo repository.OrderRepository,
	channelRepo repository.PaymentChannelRepository,
	notifier NotificationService,
	uploader storage.Uploader,
	db *gorm.DB,
) PaymentService {
	return &paymentService{
		orderRepo:   orderRepo,
		channelRepo: channelRepo,
		notifier:    notifier,
		uploader:    uploader,
		db:          db,
	}
}

// SubmitClaim records a bank transfer report against a pending order and
// marks the order paid. The guarded update inside the transaction makes
// the claim at-most-once: a second submission loses the race and fails,
// whatever interleaving the requests arrive in.
func (s *paymentService) SubmitClaim(ctx context.Context, userID, orderID uint, input PaymentClaimInput) (*model.PaymentClaim, error) {
	logger.Info("Submitting payment claim", map[string]interface{}{
		"order_id": orderID,
		"user_id":  userID,
	})

	if !transferDateRe.MatchString(input.TransferDate) || !transferTimeRe.MatchString(input.TransferTime) {
		return nil, ErrInvalidTransferStamp
	}

	order, err := s.orderRepo.FindByIDForUser(orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.PaymentID != nil {
		logger.Warn("Payment claim rejected, already claimed", map[string]interface{}{
			"order_id": orderID,
		})
		return nil, ErrPaymentAlreadyClaimed
	}
	if order.Status != model.OrderStatusPending {
		logger.Warn("Payment claim rejected, order not pending", map[string]interface{}{
			"order_id": orderID,
			"status":   order.Status,
		})
		return nil, ErrPaymentOrderNotPending
	}

	amount := input.Amount
	if amount == 0 {
		amount = order.TotalPrice
	}

	// Upload the slip before opening the transaction; an orphaned
	// object on a failed claim is harmless.
	slipURL := ""
	if input.Slip != nil {
		slipURL, err = s.uploader.Upload(ctx, storage.SlipKey(orderID, input.SlipName), input.SlipContentType, input.Slip)
		if err != nil {
			logger.Error("Failed to upload payment slip", err, map[string]interface{}{
				"order_id": orderID,
			})
			return nil, err
		}
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during payment claim, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"order_id": orderID,
			})
		}
	}()

	claim := &model.PaymentClaim{
		OrderID:      orderID,
		UserID:       userID,
		Amount:       amount,
		TransferDate: input.TransferDate,
		TransferTime: input.TransferTime,
		SlipURL:      slipURL,
	}
	if err := s.orderRepo.CreatePaymentClaim(tx, claim); err != nil {
		tx.Rollback()
		if apperrors.IsDuplicateKey(err) {
			return nil, ErrPaymentAlreadyClaimed
		}
		logger.Error("Failed to record payment claim", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}

	if err := s.orderRepo.ClaimPayment(tx, orderID, claim.ID); err != nil {
		tx.Rollback()
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, ErrPaymentAlreadyClaimed
		}
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit payment claim", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}

	logger.Info("Payment claim recorded", map[string]interface{}{
		"order_id":   orderID,
		"payment_id": claim.ID,
		"amount":     amount,
	})

	s.notifier.Notify(userID, model.NotificationPayment,
		"Payment received",
		fmt.Sprintf("Your transfer for order #%d was recorded.", orderID))

	return claim, nil
}

func (s *paymentService) ListChannels(activeOnly bool) ([]model.PaymentChannel, error) {
	return s.channelRepo.FindAll(activeOnly)
}

func (s *paymentService) CreateChannel(input PaymentChannelInput) (*model.PaymentChannel, error) {
	logger.Info("Creating payment channel", map[string]interface{}{
		"bank": input.BankName,
	})

	channel := &model.PaymentChannel{
		BankName:      input.BankName,
		AccountName:   input.AccountName,
		AccountNumber: input.AccountNumber,
		IsActive:      true,
	}
	if input.QRImageURL != nil {
		channel.QRImageURL = *input.QRImageURL
	}
	if input.IsActive != nil {
		channel.IsActive = *input.IsActive
	}

	if err := s.channelRepo.Create(channel); err != nil {
		return nil, err
	}
	return channel, nil
}

func (s *paymentService) UpdateChannel(id uint, input PaymentChannelInput) (*model.PaymentChannel, error) {
	channel, err := s.channelRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChannelNotFound
		}
		return nil, err
	}

	if input.BankName != "" {
		channel.BankName = input.BankName
	}
	if input.AccountName != "" {
		channel.AccountName = input.AccountName
	}
	if input.AccountNumber != "" {
		channel.AccountNumber = input.AccountNumber
	}
	if input.QRImageURL != nil {
		channel.QRImageURL = *input.QRImageURL
	}
	if input.IsActive != nil {
		channel.IsActive = *input.IsActive
	}

	if err := s.channelRepo.Update(channel); err != nil {
		return nil, err
	}
	return channel, nil
}

func (s *paymentService) DeleteChannel(id uint) error {
	if _, err := s.channelRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrChannelNotFound
		}
		return err
	}
	return s.channelRepo.Delete(id)
}
