package service

import (
	"errors"

	"github.com/ikkim/shopmall-backend/internal/app/model"
	"github.com/ikkim/shopmall-backend/internal/app/repository"
	"github.com/ikkim/shopmall-backend/pkg/logger"
	"gorm.io/gorm"
)

// ErrAddressInUse is returned when deleting an address that an order
// still references. Order snapshots must keep resolving.
var ErrAddressInUse = errors.New("address is referenced by an order")

type AddressInput struct {
	Recipient string
	Phone     string
	Detail    string
	Province  string
	Postcode  string
}

type AddressService interface {
	Create(userID uint, input AddressInput) (*model.Address, error)
	Update(userID, addressID uint, input AddressInput) (*model.Address, error)
	Delete(userID, addressID uint) error
	List(userID uint) ([]model.Address, error)
	Get(userID, addressID uint) (*model.Address, error)
}

type addressService struct {
	addressRepo repository.AddressRepository
	orderRepo   repository.OrderRepository
}

func NewAddressService(addressRepo repository.AddressRepository, orderRepo repository.OrderRepository) AddressService {
	return &addressService{addressRepo: addressRepo, orderRepo: orderRepo}
}

func (s *addressService) Create(userID uint, input AddressInput) (*model.Address, error) {
	logger.Info("Creating address", map[string]interface{}{
		"user_id": userID,
	})

	address := &model.Address{
		UserID:    userID,
		Recipient: input.Recipient,
		Phone:     input.Phone,
		Detail:    input.Detail,
		Province:  input.Province,
		Postcode:  input.Postcode,
	}
	if err := s.addressRepo.Create(address); err != nil {
		return nil, err
	}
	return address, nil
}

func (s *addressService) Update(userID, addressID uint, input AddressInput) (*model.Address, error) {
	address, err := s.addressRepo.FindByIDForUser(addressID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}

	if input.Recipient != "" {
		address.Recipient = input.Recipient
	}
	if input.Phone != "" {
		address.Phone = input.Phone
	}
	if input.Detail != "" {
		address.Detail = input.Detail
	}
	if input.Province != "" {
		address.Province = input.Province
	}
	if input.Postcode != "" {
		address.Postcode = input.Postcode
	}

	if err := s.addressRepo.Update(address); err != nil {
		return nil, err
	}
	return address, nil
}

func (s *addressService) Delete(userID, addressID uint) error {
	if _, err := s.addressRepo.FindByIDForUser(addressID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAddressNotFound
		}
		return err
	}

	count, err := s.orderRepo.CountByAddress(addressID)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Warn("Address delete rejected, referenced by orders", map[string]interface{}{
			"address_id": addressID,
			"orders":     count,
		})
		return ErrAddressInUse
	}

	return s.addressRepo.Delete(addressID)
}

func (s *addressService) List(userID uint) ([]model.Address, error) {
	return s.addressRepo.FindByUser(userID)
}

func (s *addressService) Get(userID, addressID uint) (*model.Address, error) {
	address, err := s.addressRepo.FindByIDForUser(addressID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}
	return address, nil
}
