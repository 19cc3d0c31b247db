package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"

	"github.com/tuanvumaihuynh/brewery-api/internal/dto"
	"github.com/tuanvumaihuynh/brewery-api/internal/event"
	"github.com/tuanvumaihuynh/brewery-api/internal/mapper"
	"github.com/tuanvumaihuynh/brewery-api/internal/model"
	"github.com/tuanvumaihuynh/brewery-api/internal/repository"
	"github.com/tuanvumaihuynh/brewery-api/internal/storage/db"
)

type CustomerService interface {
	ListCustomers(ctx context.Context) ([]dto.CustomerDTO, error)
	GetCustomerByID(ctx context.Context, id int32) (mo.Option[dto.CustomerDTO], error)
	CreateCustomer(ctx context.Context, customer dto.CustomerDTO) (dto.CustomerDTO, error)
	// UpdateCustomer replaces every mutable field. It returns None when the customer does not exist.
	UpdateCustomer(ctx context.Context, id int32, customer dto.CustomerDTO) (mo.Option[dto.CustomerDTO], error)
	// PatchCustomer copies only non-blank fields. It returns None when the customer does not exist.
	PatchCustomer(ctx context.Context, id int32, customer dto.CustomerDTO) (mo.Option[dto.CustomerDTO], error)
	// DeleteCustomerByID does not check that the customer exists.
	DeleteCustomerByID(ctx context.Context, id int32) error
}

type customerService struct {
	db            db.DB
	customerRepo  repository.CustomerRepository
	outboxMsgRepo repository.OutboxMsgRepository
}

func NewCustomerService(
	db db.DB,
	customerRepo repository.CustomerRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
) CustomerService {
	return &customerService{
		db:            db,
		customerRepo:  customerRepo,
		outboxMsgRepo: outboxMsgRepo,
	}
}

func (s *customerService) ListCustomers(ctx context.Context) ([]dto.CustomerDTO, error) {
	customers, err := s.customerRepo.ListCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("customer repository list customers: %w", err)
	}

	return lo.Map(customers, func(c model.Customer, _ int) dto.CustomerDTO {
		return mapper.CustomerToDTO(c)
	}), nil
}

func (s *customerService) GetCustomerByID(ctx context.Context, id int32) (mo.Option[dto.CustomerDTO], error) {
	found, err := s.customerRepo.FindCustomerByID(ctx, id)
	if err != nil {
		return mo.None[dto.CustomerDTO](), fmt.Errorf("customer repository find customer by id: %w", err)
	}

	customer, ok := found.Get()
	if !ok {
		return mo.None[dto.CustomerDTO](), nil
	}

	return mo.Some(mapper.CustomerToDTO(customer)), nil
}

func (s *customerService) CreateCustomer(ctx context.Context, d dto.CustomerDTO) (dto.CustomerDTO, error) {
	// The store assigns the id and timestamps.
	customer := mapper.CustomerFromDTO(d)
	customer.ID = 0
	customer.CreatedDate = time.Time{}
	customer.LastModifiedDate = time.Time{}

	var saved model.Customer
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		var err error
		saved, err = s.customerRepo.
			WithDB(db).
			SaveCustomer(ctx, customer)
		if err != nil {
			return fmt.Errorf("customer repository save customer: %w", err)
		}

		return writeEvent(ctx, s.outboxMsgRepo.WithDB(db), event.TopicCustomerCreated, saved.ID, customerEvent(saved))
	}); err != nil {
		return dto.CustomerDTO{}, fmt.Errorf("db with tx: %w", err)
	}

	return mapper.CustomerToDTO(saved), nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, id int32, d dto.CustomerDTO) (mo.Option[dto.CustomerDTO], error) {
	return s.modifyCustomer(ctx, id, func(found *model.Customer) {
		found.CustomerName = d.CustomerName
	})
}

func (s *customerService) PatchCustomer(ctx context.Context, id int32, d dto.CustomerDTO) (mo.Option[dto.CustomerDTO], error) {
	return s.modifyCustomer(ctx, id, func(found *model.Customer) {
		if hasText(d.CustomerName) {
			found.CustomerName = d.CustomerName
		}
	})
}

// modifyCustomer loads the customer, applies merge and persists the result
// in one transaction.
func (s *customerService) modifyCustomer(ctx context.Context, id int32, merge func(*model.Customer)) (mo.Option[dto.CustomerDTO], error) {
	result := mo.None[dto.CustomerDTO]()

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		customerRepo := s.customerRepo.WithDB(db)

		found, err := customerRepo.FindCustomerByID(ctx, id)
		if err != nil {
			return fmt.Errorf("customer repository find customer by id: %w", err)
		}

		customer, ok := found.Get()
		if !ok {
			return nil
		}

		merge(&customer)

		saved, err := customerRepo.SaveCustomer(ctx, customer)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("customer repository save customer: %w", err)
		}

		if err := writeEvent(ctx, s.outboxMsgRepo.WithDB(db), event.TopicCustomerUpdated, saved.ID, customerEvent(saved)); err != nil {
			return err
		}

		result = mo.Some(mapper.CustomerToDTO(saved))
		return nil
	}); err != nil {
		return mo.None[dto.CustomerDTO](), fmt.Errorf("db with tx: %w", err)
	}

	return result, nil
}

func (s *customerService) DeleteCustomerByID(ctx context.Context, id int32) error {
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		deleted, err := s.customerRepo.
			WithDB(db).
			DeleteCustomerByID(ctx, id)
		if err != nil {
			return fmt.Errorf("customer repository delete customer by id: %w", err)
		}

		if !deleted {
			return nil
		}

		return writeEvent(ctx, s.outboxMsgRepo.WithDB(db), event.TopicCustomerDeleted, id, event.CustomerChangedEvent{
			CustomerID: id,
		})
	}); err != nil {
		return fmt.Errorf("db with tx: %w", err)
	}

	return nil
}

func customerEvent(c model.Customer) event.CustomerChangedEvent {
	return event.CustomerChangedEvent{
		CustomerID:   c.ID,
		CustomerName: c.CustomerName,
	}
}
