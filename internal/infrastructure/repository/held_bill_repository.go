package repository

import (
	"context"
	"errors"

	"github.com/dukapos/register-api/internal/domain/entity"
	domainRepo "github.com/dukapos/register-api/internal/domain/repository"
	"github.com/dukapos/register-api/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type heldBillRepository struct {
	db *gorm.DB
}

// NewHeldBillRepository creates a new held bill repository
func NewHeldBillRepository(db *gorm.DB) domainRepo.HeldBillRepository {
	return &heldBillRepository{db: db}
}

func (r *heldBillRepository) Create(ctx context.Context, bill *entity.HeldBill) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(bill).Error
	})
}

func (r *heldBillRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.HeldBill, error) {
	var bill entity.HeldBill
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Customer").
		First(&bill, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bill, err
}

func (r *heldBillRepository) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.HeldBill, int64, error) {
	var bills []entity.HeldBill
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.HeldBill{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Items").
		Preload("Customer").
		Order("created_at DESC").
		Find(&bills).Error

	return bills, total, err
}

// Delete removes a held bill and its items.
func (r *heldBillRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("held_bill_id = ?", id).Delete(&entity.HeldBillItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.HeldBill{}, "id = ?", id).Error
	})
}
