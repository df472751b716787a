package service

import (
	"context"
	"sync"
	"time"

	"github.com/dukapos/register-api/internal/config"
	"github.com/dukapos/register-api/internal/domain/entity"
	"github.com/dukapos/register-api/internal/domain/repository"
	"github.com/dukapos/register-api/pkg/pagination"
	"github.com/google/uuid"
)

// In-memory repository fakes shared by the service tests.

type fakeProductRepo struct {
	products map[uuid.UUID]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[uuid.UUID]*entity.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	return r.products[id], nil
}

func (r *fakeProductRepo) GetByBarcode(_ context.Context, barcode string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.Barcode == barcode {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) List(_ context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	var out []entity.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

type fakePromotionRepo struct {
	active []entity.Promotion
}

func (r *fakePromotionRepo) ListActive(_ context.Context, _ time.Time) ([]entity.Promotion, error) {
	return r.active, nil
}

func (r *fakePromotionRepo) List(_ context.Context, _ *pagination.PaginationParams) ([]entity.Promotion, int64, error) {
	return r.active, int64(len(r.active)), nil
}

type redemption struct {
	couponID   uuid.UUID
	customerID *uuid.UUID
}

type fakeCouponRepo struct {
	coupons     map[string]*entity.Coupon
	redemptions []redemption
	// onGetByCode, when set, runs before each lookup; tests use it to
	// interleave cart mutations with coupon validation.
	onGetByCode func()
}

func newFakeCouponRepo(coupons ...*entity.Coupon) *fakeCouponRepo {
	r := &fakeCouponRepo{coupons: make(map[string]*entity.Coupon)}
	for _, c := range coupons {
		r.coupons[c.Code] = c
	}
	return r
}

func (r *fakeCouponRepo) GetByCode(_ context.Context, code string) (*entity.Coupon, error) {
	if r.onGetByCode != nil {
		r.onGetByCode()
	}
	return r.coupons[code], nil
}

func (r *fakeCouponRepo) HasRedemption(_ context.Context, couponID, customerID uuid.UUID) (bool, error) {
	for _, red := range r.redemptions {
		if red.couponID == couponID && red.customerID != nil && *red.customerID == customerID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCouponRepo) Redeem(_ context.Context, couponID uuid.UUID, customerID *uuid.UUID, _ uuid.UUID) error {
	r.redemptions = append(r.redemptions, redemption{couponID: couponID, customerID: customerID})
	for _, c := range r.coupons {
		if c.ID == couponID {
			c.UsedCount++
		}
	}
	return nil
}

type fakeCustomerRepo struct {
	mu        sync.Mutex
	customers map[uuid.UUID]*entity.Customer
}

func newFakeCustomerRepo(customers ...*entity.Customer) *fakeCustomerRepo {
	r := &fakeCustomerRepo{customers: make(map[uuid.UUID]*entity.Customer)}
	for _, c := range customers {
		r.customers[c.ID] = c
	}
	return r
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.customers[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeCustomerRepo) GetByPhone(_ context.Context, phone string) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.Phone == phone {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomerRepo) AdjustPoints(_ context.Context, id uuid.UUID, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.customers[id]; ok {
		c.Points += delta
		if c.Points < 0 {
			c.Points = 0
		}
	}
	return nil
}

func (r *fakeCustomerRepo) List(_ context.Context, _ *pagination.PaginationParams, _ string) ([]entity.Customer, int64, error) {
	var out []entity.Customer
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

type fakeSnapshotRepo struct {
	mu   sync.Mutex
	rows map[string]*entity.CartSnapshot
}

func newFakeSnapshotRepo() *fakeSnapshotRepo {
	return &fakeSnapshotRepo{rows: make(map[string]*entity.CartSnapshot)}
}

func (r *fakeSnapshotRepo) Upsert(_ context.Context, snapshot *entity.CartSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[snapshot.RegisterID] = snapshot
	return nil
}

func (r *fakeSnapshotRepo) GetByRegister(_ context.Context, registerID string) (*entity.CartSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[registerID], nil
}

func (r *fakeSnapshotRepo) DeleteByRegister(_ context.Context, registerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, registerID)
	return nil
}

type fakeSaleRepo struct {
	sales []*entity.Sale
}

func (r *fakeSaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	r.sales = append(r.sales, sale)
	return nil
}

func (r *fakeSaleRepo) GetWithItems(_ context.Context, id uuid.UUID) (*entity.Sale, error) {
	for _, s := range r.sales {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeSaleRepo) GetLastByRegister(_ context.Context, registerID string) (*entity.Sale, error) {
	for i := len(r.sales) - 1; i >= 0; i-- {
		if r.sales[i].RegisterID == registerID {
			return r.sales[i], nil
		}
	}
	return nil, nil
}

func (r *fakeSaleRepo) List(_ context.Context, _ *repository.SaleFilterParams) ([]entity.Sale, int64, error) {
	var out []entity.Sale
	for _, s := range r.sales {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

type fakeHeldBillRepo struct {
	bills map[uuid.UUID]*entity.HeldBill
}

func newFakeHeldBillRepo() *fakeHeldBillRepo {
	return &fakeHeldBillRepo{bills: make(map[uuid.UUID]*entity.HeldBill)}
}

func (r *fakeHeldBillRepo) Create(_ context.Context, bill *entity.HeldBill) error {
	if bill.ID == uuid.Nil {
		bill.ID = uuid.New()
	}
	r.bills[bill.ID] = bill
	return nil
}

func (r *fakeHeldBillRepo) GetWithItems(_ context.Context, id uuid.UUID) (*entity.HeldBill, error) {
	return r.bills[id], nil
}

func (r *fakeHeldBillRepo) List(_ context.Context, _ *pagination.PaginationParams) ([]entity.HeldBill, int64, error) {
	var out []entity.HeldBill
	for _, b := range r.bills {
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (r *fakeHeldBillRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.bills, id)
	return nil
}

type fakeSettingsRepo struct {
	settings entity.StoreSettings
}

func (r *fakeSettingsRepo) Get(_ context.Context) (*entity.StoreSettings, error) {
	cp := r.settings
	return &cp, nil
}

func (r *fakeSettingsRepo) Update(_ context.Context, settings *entity.StoreSettings) error {
	r.settings = *settings
	return nil
}

func testLoyaltyConfig() config.LoyaltyConfig {
	return config.LoyaltyConfig{
		RedeemBlock:      1000,
		RedeemValueCents: 1000,
		EarnDivisorCents: 10000,
	}
}
