package service

import (
	"context"
	"math"
	"time"

	"github.com/dukapos/register-api/internal/config"
	"github.com/dukapos/register-api/internal/domain/entity"
	"github.com/dukapos/register-api/internal/domain/enum"
	"github.com/dukapos/register-api/internal/domain/repository"
	"github.com/dukapos/register-api/pkg/apperror"
	"github.com/dukapos/register-api/pkg/broadcast"
	"github.com/dukapos/register-api/pkg/logger"
	"github.com/dukapos/register-api/pkg/pagination"
	"github.com/dukapos/register-api/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckoutService drives a cart through payment into an immutable sale, and
// handles parking carts as held bills.
type CheckoutService struct {
	cartSvc      *CartService
	couponSvc    *CouponService
	receiptSvc   *ReceiptService
	saleRepo     repository.SaleRepository
	heldBillRepo repository.HeldBillRepository
	customerRepo repository.CustomerRepository
	settingsRepo repository.SettingsRepository
	hub          *broadcast.Hub
	loyalty      config.LoyaltyConfig
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	cartSvc *CartService,
	couponSvc *CouponService,
	receiptSvc *ReceiptService,
	saleRepo repository.SaleRepository,
	heldBillRepo repository.HeldBillRepository,
	customerRepo repository.CustomerRepository,
	settingsRepo repository.SettingsRepository,
	hub *broadcast.Hub,
	loyalty config.LoyaltyConfig,
) *CheckoutService {
	return &CheckoutService{
		cartSvc:      cartSvc,
		couponSvc:    couponSvc,
		receiptSvc:   receiptSvc,
		saleRepo:     saleRepo,
		heldBillRepo: heldBillRepo,
		customerRepo: customerRepo,
		settingsRepo: settingsRepo,
		hub:          hub,
		loyalty:      loyalty,
	}
}

// ConfirmPaymentInput represents the confirm payment input
type ConfirmPaymentInput struct {
	PaymentMethod  enum.PaymentMethod
	AmountReceived float64
}

// StartPayment tells the register's display that payment is being taken.
func (s *CheckoutService) StartPayment(ctx context.Context, registerID string, method enum.PaymentMethod) *CartView {
	view := s.cartSvc.GetCart(ctx, registerID)
	s.hub.Publish(registerID, broadcast.Event{
		Type: broadcast.EventPaymentStart,
		Payload: map[string]interface{}{
			"total":  view.Total,
			"method": method.String(),
		},
	})
	return view
}

// ConfirmPayment finalizes the cart into a sale. The sale and its items are
// written in one transaction; if that write fails the cart is left exactly
// as it was. Everything after the write (loyalty bookkeeping, coupon
// redemption, printing, display events) is best-effort and never undoes a
// committed sale.
func (s *CheckoutService) ConfirmPayment(ctx context.Context, registerID string, input *ConfirmPaymentInput) (*entity.Sale, error) {
	view := s.cartSvc.GetCart(ctx, registerID)
	cart := view.Cart
	if cart.IsEmpty() {
		return nil, apperror.NewBadRequestError("Cart is empty")
	}

	// Re-validate redeemed points against the member's live balance; it may
	// have changed since the points were set on the cart.
	if cart.PointsRedeemed > 0 {
		if cart.Customer == nil {
			return nil, apperror.NewBadRequestError("Points redeemed without a customer")
		}
		customer, err := s.customerRepo.GetByID(ctx, cart.Customer.ID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
		if cart.PointsRedeemed > customer.RedeemablePoints(s.loyalty.RedeemBlock) {
			return nil, apperror.NewBadRequestError("Redeemed points exceed the member's balance")
		}
	}

	total := s.cartSvc.TotalCents(cart)
	received := int64(math.Round(input.AmountReceived * 100))
	if input.PaymentMethod != enum.PaymentMethodCash {
		// Card and mobile payments settle the exact amount.
		received = total
	}
	if received < total {
		return nil, apperror.NewBadRequestError("Amount received is less than the total")
	}
	change := received - total

	pointsEarned := s.pointsEarned(ctx, cart, total)

	sale := &entity.Sale{
		BillNo:            utils.GenerateBillNo(),
		RegisterID:        registerID,
		SaleDate:          time.Now(),
		SubTotal:          cart.SubtotalCents(),
		PromotionDiscount: cart.PromotionDiscountCents(),
		PointDiscount:     s.cartSvc.PointDiscountCents(cart.PointsRedeemed),
		Total:             total,
		PaymentMethod:     input.PaymentMethod,
		AmountReceived:    received,
		Change:            change,
		PointsRedeemed:    cart.PointsRedeemed,
		PointsEarned:      pointsEarned,
	}
	if cart.Customer != nil {
		id := cart.Customer.ID
		sale.CustomerID = &id
	}
	if cart.Coupon != nil {
		code := cart.Coupon.Code
		sale.CouponCode = &code
		sale.CouponDiscount = cart.Coupon.Discount
	}

	sale.Items = make([]entity.SaleItem, 0, len(cart.Lines))
	for i := range cart.Lines {
		line := &cart.Lines[i]
		item := entity.SaleItem{
			ProductID:         line.ProductID,
			Name:              line.Name,
			Quantity:          line.Quantity,
			UnitPrice:         line.UnitPrice,
			PromotionDiscount: line.PromotionDiscountCents(),
			Total:             line.SubtotalCents() - line.PromotionDiscountCents(),
		}
		if line.Promotion != nil {
			title := line.Promotion.Title
			item.PromotionTitle = &title
		}
		sale.Items = append(sale.Items, item)
	}

	if err := s.saleRepo.Create(ctx, sale); err != nil {
		return nil, err
	}

	// The sale is committed; everything below must not fail the checkout.
	s.settleLoyalty(ctx, sale)
	s.settleCoupon(ctx, cart, sale)

	if err := s.receiptSvc.PrintSale(ctx, sale); err != nil {
		logger.Log.Warn("receipt print failed",
			zap.String("bill_no", sale.BillNo), zap.Error(err))
	}

	s.hub.Publish(registerID, broadcast.Event{
		Type: broadcast.EventPaymentSuccess,
		Payload: map[string]interface{}{
			"bill_no":         sale.BillNo,
			"total":           float64(sale.Total) / 100,
			"received":        float64(sale.AmountReceived) / 100,
			"change":          float64(sale.Change) / 100,
			"points_redeemed": sale.PointsRedeemed,
			"points_earned":   sale.PointsEarned,
		},
	})

	s.cartSvc.Clear(ctx, registerID)
	return sale, nil
}

// pointsEarned computes the loyalty points a sale earns. Only attached
// members earn, and only while the points scheme is switched on.
func (s *CheckoutService) pointsEarned(ctx context.Context, cart *entity.Cart, totalCents int64) int {
	if cart.Customer == nil || s.loyalty.EarnDivisorCents <= 0 {
		return 0
	}
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		logger.Log.Warn("settings read failed, assuming points enabled", zap.Error(err))
	} else if !settings.PointsEnabled {
		return 0
	}
	return int(totalCents / s.loyalty.EarnDivisorCents)
}

// settleLoyalty applies the net points movement for a committed sale.
func (s *CheckoutService) settleLoyalty(ctx context.Context, sale *entity.Sale) {
	if sale.CustomerID == nil {
		return
	}
	delta := sale.PointsEarned - sale.PointsRedeemed
	if delta == 0 {
		return
	}
	if err := s.customerRepo.AdjustPoints(ctx, *sale.CustomerID, delta); err != nil {
		logger.Log.Error("loyalty points adjustment failed",
			zap.String("bill_no", sale.BillNo),
			zap.Int("delta", delta),
			zap.Error(err))
	}
}

// settleCoupon records the coupon redemption for a committed sale.
func (s *CheckoutService) settleCoupon(ctx context.Context, cart *entity.Cart, sale *entity.Sale) {
	if cart.Coupon == nil {
		return
	}
	coupon, err := s.couponSvc.GetByCode(ctx, cart.Coupon.Code)
	if err != nil || coupon == nil {
		logger.Log.Error("coupon lookup failed during settlement",
			zap.String("code", cart.Coupon.Code), zap.Error(err))
		return
	}
	if err := s.couponSvc.MarkRedeemed(ctx, coupon.ID, sale.CustomerID, sale.ID); err != nil {
		logger.Log.Error("coupon redemption record failed",
			zap.String("code", coupon.Code), zap.Error(err))
	}
}

// HoldBill parks the register's cart as a held bill and resets the register.
// Redeemed points and applied coupons do not park; they are re-applied when
// the bill comes back.
func (s *CheckoutService) HoldBill(ctx context.Context, registerID string, notes *string) (*entity.HeldBill, error) {
	view := s.cartSvc.GetCart(ctx, registerID)
	cart := view.Cart
	if cart.IsEmpty() {
		return nil, apperror.NewBadRequestError("Cart is empty")
	}

	subtotal := cart.SubtotalCents()
	promo := cart.PromotionDiscountCents()
	bill := &entity.HeldBill{
		RegisterID:        registerID,
		SubTotal:          subtotal,
		PromotionDiscount: promo,
		Total:             subtotal - promo,
		Notes:             notes,
	}
	if cart.Customer != nil {
		id := cart.Customer.ID
		bill.CustomerID = &id
	}

	bill.Items = make([]entity.HeldBillItem, 0, len(cart.Lines))
	for i := range cart.Lines {
		line := &cart.Lines[i]
		item := entity.HeldBillItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		}
		if line.Promotion != nil {
			id := line.Promotion.ID
			title := line.Promotion.Title
			ptype := int(line.Promotion.DiscountType)
			value := line.Promotion.DiscountValue
			item.PromotionID = &id
			item.PromotionTitle = &title
			item.PromotionType = &ptype
			item.PromotionValue = &value
		}
		bill.Items = append(bill.Items, item)
	}

	if err := s.heldBillRepo.Create(ctx, bill); err != nil {
		return nil, err
	}

	s.cartSvc.Clear(ctx, registerID)
	return bill, nil
}

// ListHeldBills retrieves parked bills, newest first.
func (s *CheckoutService) ListHeldBills(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.HeldBill], error) {
	bills, total, err := s.heldBillRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	pg := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(bills, pg), nil
}

// DeleteHeldBill discards a parked bill without restoring it.
func (s *CheckoutService) DeleteHeldBill(ctx context.Context, billID uuid.UUID) error {
	bill, err := s.heldBillRepo.GetWithItems(ctx, billID)
	if err != nil {
		return err
	}
	if bill == nil {
		return apperror.NewNotFoundError("Held bill")
	}
	return s.heldBillRepo.Delete(ctx, billID)
}

// RestoreBill reconstitutes a held bill as the register's cart, replacing
// whatever the cart held, and deletes the bill. Frozen promotions come back
// exactly as they were parked.
func (s *CheckoutService) RestoreBill(ctx context.Context, registerID string, billID uuid.UUID) (*CartView, error) {
	bill, err := s.heldBillRepo.GetWithItems(ctx, billID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Held bill")
	}

	cart := &entity.Cart{
		RegisterID: registerID,
		Lines:      make([]entity.CartLine, 0, len(bill.Items)),
	}
	for i := range bill.Items {
		item := &bill.Items[i]
		line := entity.CartLine{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		}
		if item.PromotionID != nil && item.PromotionTitle != nil &&
			item.PromotionType != nil && item.PromotionValue != nil {
			line.Promotion = &entity.PromotionSnapshot{
				ID:            *item.PromotionID,
				Title:         *item.PromotionTitle,
				DiscountType:  enum.DiscountType(*item.PromotionType),
				DiscountValue: *item.PromotionValue,
			}
		}
		cart.Lines = append(cart.Lines, line)
	}

	if bill.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *bill.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer != nil {
			cart.Customer = &entity.CustomerRef{
				ID:     customer.ID,
				Name:   customer.Name,
				Phone:  customer.Phone,
				Points: customer.Points,
			}
		}
	}

	view := s.cartSvc.Replace(ctx, cart)

	if err := s.heldBillRepo.Delete(ctx, billID); err != nil {
		logger.Log.Error("held bill delete after restore failed",
			zap.String("bill_id", billID.String()), zap.Error(err))
	}
	return view, nil
}
