package service

import (
	"context"
	"testing"
	"time"

	"github.com/dukapos/register-api/internal/domain/entity"
	"github.com/dukapos/register-api/internal/domain/enum"
	"github.com/dukapos/register-api/pkg/broadcast"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartFixture struct {
	svc       *CartService
	products  *fakeProductRepo
	promos    *fakePromotionRepo
	customers *fakeCustomerRepo
	snapshots *fakeSnapshotRepo
	coupons   *fakeCouponRepo
	hub       *broadcast.Hub
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()
	f := &cartFixture{
		products:  newFakeProductRepo(),
		promos:    &fakePromotionRepo{},
		customers: newFakeCustomerRepo(),
		snapshots: newFakeSnapshotRepo(),
		coupons:   newFakeCouponRepo(),
		hub:       broadcast.NewHub(16),
	}
	f.svc = NewCartService(
		f.snapshots, f.products, f.customers,
		NewPromotionService(f.promos), NewCouponService(f.coupons),
		f.hub, testLoyaltyConfig(),
	)
	return f
}

func (f *cartFixture) addProduct(name string, priceCents int64) *entity.Product {
	p := &entity.Product{ID: uuid.New(), Name: name, Price: priceCents, IsActive: true}
	f.products.products[p.ID] = p
	return p
}

func TestAddItemCreatesSingleLinePerProduct(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	soda := f.addProduct("Soda", 8000)

	view, err := f.svc.AddItem(ctx, "reg-1", soda.ID)
	require.NoError(t, err)
	require.Len(t, view.Cart.Lines, 1)
	assert.Equal(t, 1, view.Cart.Lines[0].Quantity)

	view, err = f.svc.AddItem(ctx, "reg-1", soda.ID)
	require.NoError(t, err)
	require.Len(t, view.Cart.Lines, 1)
	assert.Equal(t, 2, view.Cart.Lines[0].Quantity)
	assert.Equal(t, 160.0, view.SubTotal)
}

func TestAddItemUnknownProduct(t *testing.T) {
	f := newCartFixture(t)

	_, err := f.svc.AddItem(context.Background(), "reg-1", uuid.New())
	assert.Error(t, err)
}

func TestAddItemFreezesPromotionAtInsertion(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	soda := f.addProduct("Soda", 10000)

	f.promos.active = []entity.Promotion{promotionFor("Launch deal", 10, soda.ID)}

	view, err := f.svc.AddItem(ctx, "reg-1", soda.ID)
	require.NoError(t, err)
	require.NotNil(t, view.Cart.Lines[0].Promotion)
	assert.Equal(t, "Launch deal", view.Cart.Lines[0].Promotion.Title)

	// The promotion ends, but the line keeps the deal it was scanned under.
	f.promos.active = nil

	view, err = f.svc.AddItem(ctx, "reg-1", soda.ID)
	require.NoError(t, err)
	require.NotNil(t, view.Cart.Lines[0].Promotion)
	assert.Equal(t, "Launch deal", view.Cart.Lines[0].Promotion.Title)
	assert.Equal(t, 2, view.Cart.Lines[0].Quantity)
}

func TestUpdateQuantityFloorsAtOne(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	soda := f.addProduct("Soda", 8000)

	_, err := f.svc.AddItem(ctx, "reg-1", soda.ID)
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, "reg-1", soda.ID)
	require.NoError(t, err)

	// Delta far below the current quantity clamps to 1, never removes.
	view, err := f.svc.UpdateQuantity(ctx, "reg-1", soda.ID, -5)
	require.NoError(t, err)
	require.Len(t, view.Cart.Lines, 1)
	assert.Equal(t, 1, view.Cart.Lines[0].Quantity)

	view, err = f.svc.UpdateQuantity(ctx, "reg-1", soda.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, view.Cart.Lines[0].Quantity)
}

func TestUpdateQuantityMissingLine(t *testing.T) {
	f := newCartFixture(t)

	_, err := f.svc.UpdateQuantity(context.Background(), "reg-1", uuid.New(), 1)
	assert.Error(t, err)
}

func TestRemoveItemDeletesLine(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	soda := f.addProduct("Soda", 8000)
	soap := f.addProduct("Soap", 9000)

	_, err := f.svc.AddItem(ctx, "reg-1", soda.ID)
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, "reg-1", soap.ID)
	require.NoError(t, err)

	view, err := f.svc.RemoveItem(ctx, "reg-1", soda.ID)
	require.NoError(t, err)
	require.Len(t, view.Cart.Lines, 1)
	assert.Equal(t, soap.ID, view.Cart.Lines[0].ProductID)
}

func TestClearResetsEverything(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	soda := f.addProduct("Soda", 8000)
	member := &entity.Customer{ID: uuid.New(), Name: "Jane", Phone: "0700", Points: 3000}
	f.customers.customers[member.ID] = member

	_, err := f.svc.AddItem(ctx, "reg-1", soda.ID)
	require.NoError(t, err)
	_, err = f.svc.AttachCustomer(ctx, "reg-1", member.ID)
	require.NoError(t, err)
	_, err = f.svc.SetPointsRedeemed(ctx, "reg-1", 2000)
	require.NoError(t, err)

	view := f.svc.Clear(ctx, "reg-1")
	assert.True(t, view.Cart.IsEmpty())
	assert.Nil(t, view.Cart.Customer)
	assert.Zero(t, view.Cart.PointsRedeemed)
	assert.Nil(t, view.Cart.Coupon)
	assert.Zero(t, view.Total)
}

func TestSetPointsRedeemedValidation(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	member := &entity.Customer{ID: uuid.New(), Name: "Jane", Phone: "0700", Points: 2500}
	f.customers.customers[member.ID] = member

	// No customer attached yet
	_, err := f.svc.SetPointsRedeemed(ctx, "reg-1", 1000)
	assert.Error(t, err)

	_, err = f.svc.AttachCustomer(ctx, "reg-1", member.ID)
	require.NoError(t, err)

	// Not a whole block
	_, err = f.svc.SetPointsRedeemed(ctx, "reg-1", 1500)
	assert.Error(t, err)

	// 2500 points redeem at most 2000
	_, err = f.svc.SetPointsRedeemed(ctx, "reg-1", 3000)
	assert.Error(t, err)

	view, err := f.svc.SetPointsRedeemed(ctx, "reg-1", 2000)
	require.NoError(t, err)
	assert.Equal(t, 2000, view.Cart.PointsRedeemed)
	assert.Equal(t, 20.0, view.PointDiscount)
}

func TestAttachCustomerResetsRedeemedPoints(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	first := &entity.Customer{ID: uuid.New(), Name: "A", Phone: "0701", Points: 5000}
	second := &entity.Customer{ID: uuid.New(), Name: "B", Phone: "0702", Points: 0}
	f.customers.customers[first.ID] = first
	f.customers.customers[second.ID] = second

	_, err := f.svc.AttachCustomer(ctx, "reg-1", first.ID)
	require.NoError(t, err)
	_, err = f.svc.SetPointsRedeemed(ctx, "reg-1", 4000)
	require.NoError(t, err)

	view, err := f.svc.AttachCustomer(ctx, "reg-1", second.ID)
	require.NoError(t, err)
	assert.Zero(t, view.Cart.PointsRedeemed)
	assert.Equal(t, "B", view.Cart.Customer.Name)
}

func TestApplyCouponAttachesServerComputedDiscount(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	soda := f.addProduct("Soda", 48000)
	f.coupons.coupons["SAVE50"] = &entity.Coupon{
		ID:            uuid.New(),
		Code:          "SAVE50",
		DiscountType:  enum.DiscountTypeFixedAmount,
		DiscountValue: 5000,
		IsActive:      true,
	}

	_, err := f.svc.AddItem(ctx, "reg-1", soda.ID)
	require.NoError(t, err)

	view, err := f.svc.ApplyCoupon(ctx, "reg-1", "SAVE50")
	require.NoError(t, err)
	require.NotNil(t, view.Cart.Coupon)
	assert.Equal(t, 50.0, view.CouponDiscount)
	assert.Equal(t, 430.0, view.Total)
}

func TestMutationsBroadcastCartUpdates(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	soda := f.addProduct("Soda", 8000)

	events, cancel := f.hub.Subscribe("reg-1")
	defer cancel()

	_, err := f.svc.AddItem(ctx, "reg-1", soda.ID)
	require.NoError(t, err)

	select {
	case e := <-events:
		assert.Equal(t, broadcast.EventUpdateCart, e.Type)
		view, ok := e.Payload.(*CartView)
		require.True(t, ok)
		assert.Equal(t, 80.0, view.SubTotal)
	case <-time.After(time.Second):
		t.Fatal("expected an update_cart event")
	}
}

func TestViewsAreDetachedFromLiveCart(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	soda := f.addProduct("Soda", 8000)

	events, cancel := f.hub.Subscribe("reg-1")
	defer cancel()

	returned, err := f.svc.AddItem(ctx, "reg-1", soda.ID)
	require.NoError(t, err)

	var broadcasted *CartView
	select {
	case e := <-events:
		var ok bool
		broadcasted, ok = e.Payload.(*CartView)
		require.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("expected an update_cart event")
	}

	_, err = f.svc.UpdateQuantity(ctx, "reg-1", soda.ID, 4)
	require.NoError(t, err)

	// Views handed out earlier must not observe later mutations: the
	// broadcast payload is marshaled on subscriber goroutines and the
	// returned view is read by checkout outside the cart lock.
	require.Len(t, broadcasted.Cart.Lines, 1)
	assert.Equal(t, 1, broadcasted.Cart.Lines[0].Quantity)
	assert.Equal(t, 80.0, broadcasted.SubTotal)
	assert.Equal(t, 1, returned.Cart.Lines[0].Quantity)
}

func TestApplyCouponDiscountDerivesFromCartAtAttachTime(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	soda := f.addProduct("Soda", 48000)
	soap := f.addProduct("Soap", 48000)
	f.coupons.coupons["TEN"] = &entity.Coupon{
		ID:            uuid.New(),
		Code:          "TEN",
		DiscountType:  enum.DiscountTypePercentage,
		DiscountValue: 10,
		IsActive:      true,
	}

	_, err := f.svc.AddItem(ctx, "reg-1", soda.ID)
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, "reg-1", soap.ID)
	require.NoError(t, err)

	// Shrink the cart while the coupon is being validated. The attached
	// discount must come from the remaining 480.00, not the 960.00 the
	// validation observed.
	f.coupons.onGetByCode = func() {
		f.coupons.onGetByCode = nil
		_, err := f.svc.RemoveItem(ctx, "reg-1", soap.ID)
		require.NoError(t, err)
	}

	view, err := f.svc.ApplyCoupon(ctx, "reg-1", "TEN")
	require.NoError(t, err)
	require.NotNil(t, view.Cart.Coupon)
	assert.Equal(t, 48.0, view.CouponDiscount)
	assert.Equal(t, 432.0, view.Total)
}

func TestApplyCouponRejectsWhenCartDropsBelowMinimum(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	soda := f.addProduct("Soda", 48000)
	soap := f.addProduct("Soap", 48000)
	f.coupons.coupons["BIG"] = &entity.Coupon{
		ID:            uuid.New(),
		Code:          "BIG",
		DiscountType:  enum.DiscountTypeFixedAmount,
		DiscountValue: 5000,
		MinOrderValue: 90000,
		IsActive:      true,
	}

	_, err := f.svc.AddItem(ctx, "reg-1", soda.ID)
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, "reg-1", soap.ID)
	require.NoError(t, err)

	f.coupons.onGetByCode = func() {
		f.coupons.onGetByCode = nil
		_, err := f.svc.RemoveItem(ctx, "reg-1", soap.ID)
		require.NoError(t, err)
	}

	_, err = f.svc.ApplyCoupon(ctx, "reg-1", "BIG")
	assert.Error(t, err)

	view := f.svc.GetCart(ctx, "reg-1")
	assert.Nil(t, view.Cart.Coupon)
}

func TestCartRehydratesFromMirror(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	payload, err := entity.EncodeCart(&entity.Cart{
		RegisterID: "reg-9",
		Lines: []entity.CartLine{
			{ProductID: uuid.New(), Name: "Soda", UnitPrice: 8000, Quantity: 2},
		},
	})
	require.NoError(t, err)
	require.NoError(t, f.snapshots.Upsert(ctx, &entity.CartSnapshot{
		RegisterID: "reg-9",
		Payload:    payload,
	}))

	view := f.svc.GetCart(ctx, "reg-9")
	require.Len(t, view.Cart.Lines, 1)
	assert.Equal(t, "Soda", view.Cart.Lines[0].Name)
	assert.Equal(t, 2, view.Cart.Lines[0].Quantity)
	assert.Equal(t, 160.0, view.SubTotal)
}
