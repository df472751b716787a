package service

import (
	"context"

	"github.com/dukapos/register-api/internal/config"
	"github.com/dukapos/register-api/internal/domain/entity"
	"github.com/dukapos/register-api/internal/domain/repository"
	"github.com/dukapos/register-api/pkg/apperror"
	"github.com/dukapos/register-api/pkg/pagination"
	"github.com/google/uuid"
)

// CustomerService handles loyalty member lookups for the register
type CustomerService struct {
	customerRepo repository.CustomerRepository
	loyalty      config.LoyaltyConfig
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository, loyalty config.LoyaltyConfig) *CustomerService {
	return &CustomerService{customerRepo: customerRepo, loyalty: loyalty}
}

// CustomerView is a member plus the derived loyalty numbers the register
// shows at the point of sale.
type CustomerView struct {
	*entity.Customer
	RedeemablePoints int     `json:"redeemable_points"`
	RedeemableValue  float64 `json:"redeemable_value"`
}

func (s *CustomerService) view(customer *entity.Customer) *CustomerView {
	redeemable := customer.RedeemablePoints(s.loyalty.RedeemBlock)
	value := int64(redeemable/s.loyalty.RedeemBlock) * s.loyalty.RedeemValueCents
	return &CustomerView{
		Customer:         customer,
		RedeemablePoints: redeemable,
		RedeemableValue:  float64(value) / 100,
	}
}

// GetCustomer retrieves a member by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*CustomerView, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return s.view(customer), nil
}

// LookupByPhone finds a member by exact phone number, the lookup cashiers
// and customer displays use at the register.
func (s *CustomerService) LookupByPhone(ctx context.Context, phone string) (*CustomerView, error) {
	customer, err := s.customerRepo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return s.view(customer), nil
}

// ListCustomers retrieves a paginated member list
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	customers, total, err := s.customerRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}
	pg := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, pg), nil
}
