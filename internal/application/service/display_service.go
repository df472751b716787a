package service

import (
	"context"

	"github.com/dukapos/register-api/pkg/apperror"
	"github.com/dukapos/register-api/pkg/broadcast"
	"github.com/dukapos/register-api/pkg/utils"
	"github.com/google/uuid"
)

// DisplayService pairs customer-facing displays with registers and relays
// their messages. A display never touches the cart directly: it asks, the
// cart service applies.
type DisplayService struct {
	tokens  *utils.DisplayTokenManager
	hub     *broadcast.Hub
	cartSvc *CartService
}

// NewDisplayService creates a new display service
func NewDisplayService(tokens *utils.DisplayTokenManager, hub *broadcast.Hub, cartSvc *CartService) *DisplayService {
	return &DisplayService{tokens: tokens, hub: hub, cartSvc: cartSvc}
}

// Pair issues a short-lived token binding a display to a register.
func (s *DisplayService) Pair(registerID string) (string, error) {
	return s.tokens.GenerateToken(registerID)
}

// Authorize validates a pairing token and returns the register it binds to.
func (s *DisplayService) Authorize(token string) (string, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return "", apperror.ErrUnauthorized
	}
	return claims.RegisterID, nil
}

// Subscribe attaches a display to its register's event stream. The returned
// cancel function must be called when the display disconnects.
func (s *DisplayService) Subscribe(registerID string) (<-chan broadcast.Event, func()) {
	return s.hub.Subscribe(registerID)
}

// DisplayMessageInput represents a message sent from a display to its
// register.
type DisplayMessageInput struct {
	Type       broadcast.EventType
	CustomerID *uuid.UUID
	Points     *int
}

// HandleMessage applies a display-originated message to the register's cart
// and returns the resulting cart view.
func (s *DisplayService) HandleMessage(ctx context.Context, registerID string, input *DisplayMessageInput) (*CartView, error) {
	switch input.Type {
	case broadcast.EventCustomerFound:
		if input.CustomerID == nil {
			return nil, apperror.NewBadRequestError("customer_id is required")
		}
		return s.cartSvc.AttachCustomer(ctx, registerID, *input.CustomerID)
	case broadcast.EventCustomerClear:
		return s.cartSvc.DetachCustomer(ctx, registerID), nil
	case broadcast.EventSetPoints:
		if input.Points == nil {
			return nil, apperror.NewBadRequestError("points is required")
		}
		return s.cartSvc.SetPointsRedeemed(ctx, registerID, *input.Points)
	}
	return nil, apperror.NewBadRequestError("Unknown message type")
}
