package service

import (
	"context"
	"testing"

	"github.com/dukapos/register-api/internal/domain/entity"
	"github.com/dukapos/register-api/internal/domain/enum"
	"github.com/dukapos/register-api/pkg/broadcast"
	"github.com/dukapos/register-api/pkg/printer"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutFixture struct {
	*cartFixture
	svc       *CheckoutService
	sales     *fakeSaleRepo
	heldBills *fakeHeldBillRepo
	settings  *fakeSettingsRepo
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	cf := newCartFixture(t)
	f := &checkoutFixture{
		cartFixture: cf,
		sales:       &fakeSaleRepo{},
		heldBills:   newFakeHeldBillRepo(),
		settings: &fakeSettingsRepo{settings: entity.StoreSettings{
			StoreName:     "Test Store",
			PointsEnabled: true,
		}},
	}
	receiptSvc := NewReceiptService(f.settings, f.customers, printer.NewNullPrinter(), 42)
	f.svc = NewCheckoutService(
		cf.svc, NewCouponService(f.coupons), receiptSvc,
		f.sales, f.heldBills, f.customers, f.settings,
		f.hub, testLoyaltyConfig(),
	)
	return f
}

// Builds the worked checkout from the register flow: a 300.00 item plus a
// 200.00 item carrying a 10% promotion, a member with 2,500 points redeeming
// 2,000, and a 50.00 coupon.
func (f *checkoutFixture) buildWorkedCart(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	plain := f.addProduct("Washing Powder", 30000)
	discounted := f.addProduct("Soda Crate", 20000)
	f.promos.active = []entity.Promotion{promotionFor("Crate deal", 10, discounted.ID)}

	member := &entity.Customer{ID: uuid.New(), Name: "Jane", Phone: "0700", Points: 2500}
	f.customers.customers[member.ID] = member

	f.coupons.coupons["SAVE50"] = &entity.Coupon{
		ID:            uuid.New(),
		Code:          "SAVE50",
		DiscountType:  enum.DiscountTypeFixedAmount,
		DiscountValue: 5000,
		IsActive:      true,
	}

	_, err := f.cartFixture.svc.AddItem(ctx, "reg-1", plain.ID)
	require.NoError(t, err)
	_, err = f.cartFixture.svc.AddItem(ctx, "reg-1", discounted.ID)
	require.NoError(t, err)
	_, err = f.cartFixture.svc.AttachCustomer(ctx, "reg-1", member.ID)
	require.NoError(t, err)
	_, err = f.cartFixture.svc.SetPointsRedeemed(ctx, "reg-1", 2000)
	require.NoError(t, err)
	_, err = f.cartFixture.svc.ApplyCoupon(ctx, "reg-1", "SAVE50")
	require.NoError(t, err)
}

func TestTotalsBreakdown(t *testing.T) {
	f := newCheckoutFixture(t)
	f.buildWorkedCart(t)

	view := f.cartFixture.svc.GetCart(context.Background(), "reg-1")
	assert.Equal(t, 500.0, view.SubTotal)
	assert.Equal(t, 20.0, view.PromotionDiscount)
	assert.Equal(t, 20.0, view.PointDiscount)
	assert.Equal(t, 50.0, view.CouponDiscount)
	assert.Equal(t, 410.0, view.Total)
}

func TestTotalNeverNegative(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	cheap := f.addProduct("Sweet", 500)
	f.coupons.coupons["BIG"] = &entity.Coupon{
		ID:            uuid.New(),
		Code:          "BIG",
		DiscountType:  enum.DiscountTypeFixedAmount,
		DiscountValue: 100000,
		IsActive:      true,
	}

	_, err := f.cartFixture.svc.AddItem(ctx, "reg-1", cheap.ID)
	require.NoError(t, err)
	view, err := f.cartFixture.svc.ApplyCoupon(ctx, "reg-1", "BIG")
	require.NoError(t, err)

	assert.Equal(t, 0.0, view.Total)
}

func TestConfirmPaymentCreatesSaleAndResets(t *testing.T) {
	f := newCheckoutFixture(t)
	f.buildWorkedCart(t)
	ctx := context.Background()

	events, cancel := f.hub.Subscribe("reg-1")
	defer cancel()

	sale, err := f.svc.ConfirmPayment(ctx, "reg-1", &ConfirmPaymentInput{
		PaymentMethod:  enum.PaymentMethodCash,
		AmountReceived: 500,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, sale.BillNo)
	assert.Equal(t, int64(50000), sale.SubTotal)
	assert.Equal(t, int64(2000), sale.PromotionDiscount)
	assert.Equal(t, int64(2000), sale.PointDiscount)
	assert.Equal(t, int64(5000), sale.CouponDiscount)
	assert.Equal(t, int64(41000), sale.Total)
	assert.Equal(t, int64(50000), sale.AmountReceived)
	assert.Equal(t, int64(9000), sale.Change)
	assert.Equal(t, 2000, sale.PointsRedeemed)
	// 410.00 paid earns 4 points at 1 per 100.00
	assert.Equal(t, 4, sale.PointsEarned)
	require.Len(t, sale.Items, 2)

	// Member balance settles: 2500 - 2000 + 4
	member, err := f.customers.GetByID(ctx, *sale.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, 504, member.Points)

	// Coupon usage recorded
	coupon := f.coupons.coupons["SAVE50"]
	assert.Equal(t, 1, coupon.UsedCount)

	// Cart resets after checkout
	view := f.cartFixture.svc.GetCart(ctx, "reg-1")
	assert.True(t, view.Cart.IsEmpty())
	assert.Nil(t, view.Cart.Customer)

	// payment_success followed by reset on the display stream
	var types []broadcast.EventType
	for len(types) < 2 {
		e := <-events
		// Cart mutations also stream; only the lifecycle events matter here.
		if e.Type == broadcast.EventPaymentSuccess || e.Type == broadcast.EventReset {
			types = append(types, e.Type)
		}
	}
	assert.Equal(t, []broadcast.EventType{broadcast.EventPaymentSuccess, broadcast.EventReset}, types)
}

func TestConfirmPaymentRejectsShortCash(t *testing.T) {
	f := newCheckoutFixture(t)
	f.buildWorkedCart(t)

	_, err := f.svc.ConfirmPayment(context.Background(), "reg-1", &ConfirmPaymentInput{
		PaymentMethod:  enum.PaymentMethodCash,
		AmountReceived: 400,
	})
	assert.Error(t, err)

	// The cart survives a failed confirmation untouched.
	view := f.cartFixture.svc.GetCart(context.Background(), "reg-1")
	assert.False(t, view.Cart.IsEmpty())
}

func TestConfirmPaymentEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.svc.ConfirmPayment(context.Background(), "reg-1", &ConfirmPaymentInput{
		PaymentMethod: enum.PaymentMethodCash,
	})
	assert.Error(t, err)
}

func TestCardPaymentSettlesExactTotal(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	soda := f.addProduct("Soda", 8000)
	_, err := f.cartFixture.svc.AddItem(ctx, "reg-1", soda.ID)
	require.NoError(t, err)

	sale, err := f.svc.ConfirmPayment(ctx, "reg-1", &ConfirmPaymentInput{
		PaymentMethod: enum.PaymentMethodCard,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(8000), sale.AmountReceived)
	assert.Zero(t, sale.Change)
}

func TestHoldAndRestoreRoundTrip(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	soda := f.addProduct("Soda", 10000)
	f.promos.active = []entity.Promotion{promotionFor("Deal", 10, soda.ID)}

	_, err := f.cartFixture.svc.AddItem(ctx, "reg-1", soda.ID)
	require.NoError(t, err)
	_, err = f.cartFixture.svc.AddItem(ctx, "reg-1", soda.ID)
	require.NoError(t, err)

	notes := "customer fetching wallet"
	bill, err := f.svc.HoldBill(ctx, "reg-1", &notes)
	require.NoError(t, err)
	require.Len(t, bill.Items, 1)

	// The register is free for the next customer.
	view := f.cartFixture.svc.GetCart(ctx, "reg-1")
	assert.True(t, view.Cart.IsEmpty())

	// Restoring brings the lines and the frozen promotion back, even though
	// the promotion has since ended.
	f.promos.active = nil
	view, err = f.svc.RestoreBill(ctx, "reg-1", bill.ID)
	require.NoError(t, err)
	require.Len(t, view.Cart.Lines, 1)
	assert.Equal(t, 2, view.Cart.Lines[0].Quantity)
	assert.Equal(t, int64(10000), view.Cart.Lines[0].UnitPrice)
	require.NotNil(t, view.Cart.Lines[0].Promotion)
	assert.Equal(t, "Deal", view.Cart.Lines[0].Promotion.Title)
	assert.Equal(t, 180.0, view.Total)

	// The held bill is gone once restored.
	_, err = f.svc.RestoreBill(ctx, "reg-1", bill.ID)
	assert.Error(t, err)
}

func TestDeleteHeldBill(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	soda := f.addProduct("Soda", 8000)
	_, err := f.cartFixture.svc.AddItem(ctx, "reg-1", soda.ID)
	require.NoError(t, err)

	bill, err := f.svc.HoldBill(ctx, "reg-1", nil)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteHeldBill(ctx, bill.ID))
	assert.Error(t, f.svc.DeleteHeldBill(ctx, bill.ID))
}

func TestStartPaymentBroadcasts(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	soda := f.addProduct("Soda", 8000)
	_, err := f.cartFixture.svc.AddItem(ctx, "reg-1", soda.ID)
	require.NoError(t, err)

	events, cancel := f.hub.Subscribe("reg-1")
	defer cancel()

	f.svc.StartPayment(ctx, "reg-1", enum.PaymentMethodCash)

	e := <-events
	require.Equal(t, broadcast.EventPaymentStart, e.Type)
	payload, ok := e.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 80.0, payload["total"])
	assert.Equal(t, "cash", payload["method"])
}
