package service

import (
	"errors"

	"github.com/ikkim/shopmall-backend/internal/app/model"
	"github.com/ikkim/shopmall-backend/internal/app/repository"
	"github.com/ikkim/shopmall-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrOwnerNotFound = errors.New("owner not found")

type OwnerInput struct {
	Name     string
	Contact  string
	IsActive *bool
}

type OwnerService interface {
	Create(input OwnerInput) (*model.Owner, error)
	Update(id uint, input OwnerInput) (*model.Owner, error)
	Delete(id uint) error
	List(activeOnly bool) ([]model.Owner, error)
	Get(id uint) (*model.Owner, error)
}

type ownerService struct {
	ownerRepo repository.OwnerRepository
}

func NewOwnerService(ownerRepo repository.OwnerRepository) OwnerService {
	return &ownerService{ownerRepo: ownerRepo}
}

func (s *ownerService) Create(input OwnerInput) (*model.Owner, error) {
	logger.Info("Creating owner", map[string]interface{}{
		"name": input.Name,
	})

	owner := &model.Owner{Name: input.Name, Contact: input.Contact, IsActive: true}
	if input.IsActive != nil {
		owner.IsActive = *input.IsActive
	}

	if err := s.ownerRepo.Create(owner); err != nil {
		return nil, err
	}
	return owner, nil
}

func (s *ownerService) Update(id uint, input OwnerInput) (*model.Owner, error) {
	owner, err := s.ownerRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOwnerNotFound
		}
		return nil, err
	}

	if input.Name != "" {
		owner.Name = input.Name
	}
	if input.Contact != "" {
		owner.Contact = input.Contact
	}
	if input.IsActive != nil {
		owner.IsActive = *input.IsActive
	}

	if err := s.ownerRepo.Update(owner); err != nil {
		return nil, err
	}
	return owner, nil
}

func (s *ownerService) Delete(id uint) error {
	if _, err := s.ownerRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOwnerNotFound
		}
		return err
	}
	return s.ownerRepo.Delete(id)
}

func (s *ownerService) List(activeOnly bool) ([]model.Owner, error) {
	return s.ownerRepo.FindAll(activeOnly)
}

func (s *ownerService) Get(id uint) (*model.Owner, error) {
	owner, err := s.ownerRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOwnerNotFound
		}
		return nil, err
	}
	return owner, nil
}
