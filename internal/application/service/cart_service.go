package service

import (
	"context"
	"sync"
	"time"

	"github.com/dukapos/register-api/internal/config"
	"github.com/dukapos/register-api/internal/domain/entity"
	"github.com/dukapos/register-api/internal/domain/repository"
	"github.com/dukapos/register-api/pkg/apperror"
	"github.com/dukapos/register-api/pkg/broadcast"
	"github.com/dukapos/register-api/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// mirrorDebounce is how long a cart has to stay quiet before its state is
// flushed to the database mirror. Rapid scanning collapses into one write.
const mirrorDebounce = 2 * time.Second

// CartService owns the authoritative in-memory cart of every register.
// The database row behind it is only a crash-recovery mirror: writes to it
// are debounced and best-effort, and reads happen once, on the first touch
// of a register after process start.
type CartService struct {
	mu     sync.Mutex
	carts  map[string]*entity.Cart
	timers map[string]*time.Timer
	// registers whose mirror row was already consulted this process lifetime
	hydrated map[string]bool

	snapshotRepo repository.CartSnapshotRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	promotionSvc *PromotionService
	couponSvc    *CouponService
	hub          *broadcast.Hub
	loyalty      config.LoyaltyConfig
}

// NewCartService creates a new cart service
func NewCartService(
	snapshotRepo repository.CartSnapshotRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	promotionSvc *PromotionService,
	couponSvc *CouponService,
	hub *broadcast.Hub,
	loyalty config.LoyaltyConfig,
) *CartService {
	return &CartService{
		carts:        make(map[string]*entity.Cart),
		timers:       make(map[string]*time.Timer),
		hydrated:     make(map[string]bool),
		snapshotRepo: snapshotRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		promotionSvc: promotionSvc,
		couponSvc:    couponSvc,
		hub:          hub,
		loyalty:      loyalty,
	}
}

// cart returns the register's cart, creating it on first use. On the first
// touch after process start it tries the mirror row; an unreadable mirror is
// discarded rather than surfaced. Callers must hold s.mu.
func (s *CartService) cart(ctx context.Context, registerID string) *entity.Cart {
	if c, ok := s.carts[registerID]; ok {
		return c
	}

	if !s.hydrated[registerID] {
		s.hydrated[registerID] = true
		if snapshot, err := s.snapshotRepo.GetByRegister(ctx, registerID); err != nil {
			logger.Log.Warn("cart mirror read failed",
				zap.String("register_id", registerID), zap.Error(err))
		} else if snapshot != nil {
			if c, err := snapshot.Decode(); err != nil {
				logger.Log.Warn("cart mirror decode failed, starting empty",
					zap.String("register_id", registerID), zap.Error(err))
			} else {
				s.carts[registerID] = c
				return c
			}
		}
	}

	c := &entity.Cart{RegisterID: registerID, Lines: []entity.CartLine{}}
	s.carts[registerID] = c
	return c
}

// touch stamps the cart, schedules the debounced mirror write and broadcasts
// the new state to the register's display. Callers must hold s.mu.
func (s *CartService) touch(cart *entity.Cart) {
	cart.UpdatedAt = time.Now()
	s.scheduleMirror(cart.RegisterID)
	s.hub.Publish(cart.RegisterID, broadcast.Event{
		Type:    broadcast.EventUpdateCart,
		Payload: s.view(cart),
	})
}

// scheduleMirror (re)arms the register's debounce timer. Callers must hold
// s.mu.
func (s *CartService) scheduleMirror(registerID string) {
	if t, ok := s.timers[registerID]; ok {
		t.Stop()
	}
	s.timers[registerID] = time.AfterFunc(mirrorDebounce, func() {
		s.flushMirror(registerID)
	})
}

// flushMirror writes the register's current cart to the database. Failures
// are logged and swallowed; the in-memory cart is the source of truth.
func (s *CartService) flushMirror(registerID string) {
	s.mu.Lock()
	cart, ok := s.carts[registerID]
	var payload string
	if ok {
		var err error
		payload, err = entity.EncodeCart(cart)
		if err != nil {
			s.mu.Unlock()
			logger.Log.Error("cart mirror encode failed",
				zap.String("register_id", registerID), zap.Error(err))
			return
		}
	}
	s.mu.Unlock()
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.snapshotRepo.Upsert(ctx, &entity.CartSnapshot{
		RegisterID: registerID,
		Payload:    payload,
	})
	if err != nil {
		logger.Log.Warn("cart mirror write failed",
			zap.String("register_id", registerID), zap.Error(err))
	}
}

// dropMirror cancels any pending flush and deletes the mirror row,
// best-effort.
func (s *CartService) dropMirror(ctx context.Context, registerID string) {
	s.mu.Lock()
	if t, ok := s.timers[registerID]; ok {
		t.Stop()
		delete(s.timers, registerID)
	}
	s.mu.Unlock()

	if err := s.snapshotRepo.DeleteByRegister(ctx, registerID); err != nil {
		logger.Log.Warn("cart mirror delete failed",
			zap.String("register_id", registerID), zap.Error(err))
	}
}

// CartView is the cart plus its computed totals, the shape every cart
// endpoint and display broadcast carries.
type CartView struct {
	Cart              *entity.Cart `json:"cart"`
	SubTotal          float64      `json:"sub_total"`
	PromotionDiscount float64      `json:"promotion_discount"`
	PointDiscount     float64      `json:"point_discount"`
	CouponDiscount    float64      `json:"coupon_discount"`
	Total             float64      `json:"total"`
}

// view computes the totals breakdown for a cart. Callers must hold s.mu.
// The returned view carries a deep copy of the cart: views escape the lock
// into broadcast payloads and handler responses, and must stay untouched by
// whatever the register does to the live cart next.
func (s *CartService) view(cart *entity.Cart) *CartView {
	subtotal := cart.SubtotalCents()
	promo := cart.PromotionDiscountCents()
	points := s.PointDiscountCents(cart.PointsRedeemed)
	var coupon int64
	if cart.Coupon != nil {
		coupon = cart.Coupon.Discount
	}
	total := subtotal - promo - points - coupon
	if total < 0 {
		total = 0
	}
	return &CartView{
		Cart:              cart.Clone(),
		SubTotal:          float64(subtotal) / 100,
		PromotionDiscount: float64(promo) / 100,
		PointDiscount:     float64(points) / 100,
		CouponDiscount:    float64(coupon) / 100,
		Total:             float64(total) / 100,
	}
}

// PointDiscountCents converts a redeemed point count to cents of discount.
func (s *CartService) PointDiscountCents(points int) int64 {
	if points <= 0 {
		return 0
	}
	return int64(points/s.loyalty.RedeemBlock) * s.loyalty.RedeemValueCents
}

// TotalCents returns the payable total for a cart in cents.
func (s *CartService) TotalCents(cart *entity.Cart) int64 {
	total := cart.SubtotalCents() - cart.PromotionDiscountCents() -
		s.PointDiscountCents(cart.PointsRedeemed)
	if cart.Coupon != nil {
		total -= cart.Coupon.Discount
	}
	if total < 0 {
		total = 0
	}
	return total
}

// GetCart returns the register's current cart with totals.
func (s *CartService) GetCart(ctx context.Context, registerID string) *CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(s.cart(ctx, registerID))
}

// AddItem adds one unit of a product to the cart. A product already in the
// cart gets its quantity bumped; a new product gets a fresh line with the
// best active promotion frozen onto it. Promotions resolved at that moment
// stick to the line for its whole life in the cart.
func (s *CartService) AddItem(ctx context.Context, registerID string, productID uuid.UUID) (*CartView, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, apperror.NewNotFoundError("Product")
	}

	// Resolve outside the lock; promotion lookup hits the database.
	var promo *entity.PromotionSnapshot
	active, err := s.promotionSvc.ActiveSet(ctx)
	if err != nil {
		logger.Log.Warn("promotion lookup failed, adding without promotion",
			zap.String("register_id", registerID), zap.Error(err))
	} else {
		promo = s.promotionSvc.ResolveBest(active, productID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cart(ctx, registerID)
	if line := cart.FindLine(productID); line != nil {
		line.Quantity++
	} else {
		cart.Lines = append(cart.Lines, entity.CartLine{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  1,
			Promotion: promo,
		})
	}

	s.touch(cart)
	return s.view(cart), nil
}

// AddItemByBarcode resolves a barcode to a product and adds it.
func (s *CartService) AddItemByBarcode(ctx context.Context, registerID, barcode string) (*CartView, error) {
	product, err := s.productRepo.GetByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return s.AddItem(ctx, registerID, product.ID)
}

// UpdateQuantity applies a signed delta to a line's quantity, flooring at 1.
// Dropping a line is only ever done explicitly through RemoveItem.
func (s *CartService) UpdateQuantity(ctx context.Context, registerID string, productID uuid.UUID, delta int) (*CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cart(ctx, registerID)
	line := cart.FindLine(productID)
	if line == nil {
		return nil, apperror.NewNotFoundError("Cart item")
	}

	line.Quantity += delta
	if line.Quantity < 1 {
		line.Quantity = 1
	}

	s.touch(cart)
	return s.view(cart), nil
}

// RemoveItem deletes a line from the cart.
func (s *CartService) RemoveItem(ctx context.Context, registerID string, productID uuid.UUID) (*CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cart(ctx, registerID)
	for i := range cart.Lines {
		if cart.Lines[i].ProductID == productID {
			cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
			s.touch(cart)
			return s.view(cart), nil
		}
	}
	return nil, apperror.NewNotFoundError("Cart item")
}

// Clear resets the register to an empty cart: lines, customer, points and
// coupon all go, the mirror row is deleted and the display is told to reset.
func (s *CartService) Clear(ctx context.Context, registerID string) *CartView {
	s.mu.Lock()
	cart := &entity.Cart{
		RegisterID: registerID,
		Lines:      []entity.CartLine{},
		UpdatedAt:  time.Now(),
	}
	s.carts[registerID] = cart
	view := s.view(cart)
	s.mu.Unlock()

	s.dropMirror(ctx, registerID)
	s.hub.Publish(registerID, broadcast.Event{Type: broadcast.EventReset})
	return view
}

// AttachCustomer links a loyalty member to the cart. Any previously redeemed
// points are reset since they belonged to the previous member.
func (s *CartService) AttachCustomer(ctx context.Context, registerID string, customerID uuid.UUID) (*CartView, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cart(ctx, registerID)
	cart.Customer = &entity.CustomerRef{
		ID:     customer.ID,
		Name:   customer.Name,
		Phone:  customer.Phone,
		Points: customer.Points,
	}
	cart.PointsRedeemed = 0

	s.touch(cart)
	return s.view(cart), nil
}

// DetachCustomer removes the loyalty member and any redeemed points.
func (s *CartService) DetachCustomer(ctx context.Context, registerID string) *CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cart(ctx, registerID)
	cart.Customer = nil
	cart.PointsRedeemed = 0

	s.touch(cart)
	return s.view(cart)
}

// SetPointsRedeemed sets how many loyalty points the cart will redeem.
// Points redeem in whole blocks only and never beyond the member's
// redeemable balance.
func (s *CartService) SetPointsRedeemed(ctx context.Context, registerID string, points int) (*CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cart(ctx, registerID)
	if cart.Customer == nil {
		return nil, apperror.NewBadRequestError("No customer attached to cart")
	}
	if points < 0 || points%s.loyalty.RedeemBlock != 0 {
		return nil, apperror.NewBadRequestError("Points must be a non-negative multiple of the redeem block")
	}
	redeemable := (cart.Customer.Points / s.loyalty.RedeemBlock) * s.loyalty.RedeemBlock
	if points > redeemable {
		return nil, apperror.NewBadRequestError("Points exceed the member's redeemable balance")
	}

	cart.PointsRedeemed = points

	s.touch(cart)
	return s.view(cart), nil
}

// ApplyCoupon validates a coupon against the cart's discounted subtotal and
// attaches it. A cart holds at most one coupon; applying a second replaces
// the first.
func (s *CartService) ApplyCoupon(ctx context.Context, registerID, code string) (*CartView, error) {
	s.mu.Lock()
	cart := s.cart(ctx, registerID)
	base := s.couponBase(cart)
	var customerID *uuid.UUID
	if cart.Customer != nil {
		id := cart.Customer.ID
		customerID = &id
	}
	s.mu.Unlock()

	// Validation hits the database, so it runs unlocked against the base
	// observed above.
	coupon, _, err := s.couponSvc.Validate(ctx, code, base, customerID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The cart may have moved while validating; the discount always derives
	// from the base the coupon is actually attached to.
	cart = s.cart(ctx, registerID)
	base = s.couponBase(cart)
	if base < coupon.MinOrderValue {
		return nil, apperror.NewBadRequestError("Order total below coupon minimum")
	}
	cart.Coupon = &entity.AppliedCoupon{
		Code:     coupon.Code,
		Discount: s.couponSvc.Discount(coupon, base),
	}

	s.touch(cart)
	return s.view(cart), nil
}

// couponBase is the amount a coupon discounts against: subtotal after
// promotion and point discounts. Callers must hold s.mu.
func (s *CartService) couponBase(cart *entity.Cart) int64 {
	base := cart.SubtotalCents() - cart.PromotionDiscountCents() -
		s.PointDiscountCents(cart.PointsRedeemed)
	if base < 0 {
		base = 0
	}
	return base
}

// RemoveCoupon detaches the applied coupon, if any.
func (s *CartService) RemoveCoupon(ctx context.Context, registerID string) *CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cart(ctx, registerID)
	cart.Coupon = nil

	s.touch(cart)
	return s.view(cart)
}

// Replace swaps in a complete cart, used when restoring a held bill. The
// caller provides fully-formed lines; frozen promotions travel through
// untouched.
func (s *CartService) Replace(ctx context.Context, cart *entity.Cart) *CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hydrated[cart.RegisterID] = true
	s.carts[cart.RegisterID] = cart

	s.touch(cart)
	return s.view(cart)
}

// Flush forces any pending mirror writes out, used on shutdown.
func (s *CartService) Flush() {
	s.mu.Lock()
	ids := make([]string, 0, len(s.timers))
	for id, t := range s.timers {
		t.Stop()
		ids = append(ids, id)
	}
	s.timers = make(map[string]*time.Timer)
	s.mu.Unlock()

	for _, id := range ids {
		s.flushMirror(id)
	}
}
