package service

import (
	"context"

	"github.com/dukapos/register-api/internal/domain/entity"
	"github.com/dukapos/register-api/internal/domain/repository"
	"github.com/dukapos/register-api/pkg/apperror"
	"github.com/dukapos/register-api/pkg/pagination"
	"github.com/google/uuid"
)

// SaleService exposes the append-only sales history
type SaleService struct {
	saleRepo   repository.SaleRepository
	receiptSvc *ReceiptService
}

// NewSaleService creates a new sale service
func NewSaleService(saleRepo repository.SaleRepository, receiptSvc *ReceiptService) *SaleService {
	return &SaleService{saleRepo: saleRepo, receiptSvc: receiptSvc}
}

// GetSale retrieves a sale with its items
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// LastBill returns the most recent sale on a register, for reprints.
func (s *SaleService) LastBill(ctx context.Context, registerID string) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetLastByRegister(ctx, registerID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// ReprintLast prints the receipt of the register's most recent sale again.
func (s *SaleService) ReprintLast(ctx context.Context, registerID string) (*entity.Sale, error) {
	sale, err := s.LastBill(ctx, registerID)
	if err != nil {
		return nil, err
	}
	if err := s.receiptSvc.PrintSale(ctx, sale); err != nil {
		return nil, apperror.NewAppError(500, "Receipt print failed")
	}
	return sale, nil
}

// ListSales retrieves paginated sales history
func (s *SaleService) ListSales(ctx context.Context, params *repository.SaleFilterParams) (*pagination.PaginatedResult[entity.Sale], error) {
	sales, total, err := s.saleRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	pg := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(sales, pg), nil
}
