package handler

import (
	"io"

	"github.com/dukapos/register-api/internal/application/service"
	"github.com/dukapos/register-api/internal/presentation/http/dto/request"
	"github.com/dukapos/register-api/internal/presentation/http/dto/response"
	"github.com/dukapos/register-api/pkg/broadcast"
	"github.com/dukapos/register-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

// DisplayHandler handles customer display pairing, streaming and messages
type DisplayHandler struct {
	displayService *service.DisplayService
}

// NewDisplayHandler creates a new display handler
func NewDisplayHandler(displayService *service.DisplayService) *DisplayHandler {
	return &DisplayHandler{displayService: displayService}
}

// Pair handles issuing a pairing token for the register's display
func (h *DisplayHandler) Pair(c *gin.Context) {
	token, err := h.displayService.Pair(GetRegisterID(c))
	if err != nil {
		response.InternalServerError(c, "Failed to issue pairing token")
		return
	}
	response.OK(c, "Display paired", gin.H{"token": token})
}

// registerFromToken authorizes the display request from its pairing token,
// taken from the query string (EventSource cannot set headers) or the
// Authorization header.
func (h *DisplayHandler) registerFromToken(c *gin.Context) (string, bool) {
	token := c.Query("token")
	if token == "" {
		auth := c.GetHeader("Authorization")
		if len(auth) > 7 && auth[:7] == "Bearer " {
			token = auth[7:]
		}
	}
	if token == "" {
		response.Unauthorized(c, "Pairing token required")
		return "", false
	}

	registerID, err := h.displayService.Authorize(token)
	if err != nil {
		response.Unauthorized(c, "Invalid pairing token")
		return "", false
	}
	return registerID, true
}

// Stream handles the SSE event stream a paired display listens on. Events
// are dropped, never queued, while the display is away.
func (h *DisplayHandler) Stream(c *gin.Context) {
	registerID, ok := h.registerFromToken(c)
	if !ok {
		return
	}

	events, cancel := h.displayService.Subscribe(registerID)
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	c.Stream(func(w io.Writer) bool {
		select {
		case event, open := <-events:
			if !open {
				return false
			}
			c.SSEvent(string(event.Type), event.Payload)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// Message handles a display-to-register message and applies it to the cart
func (h *DisplayHandler) Message(c *gin.Context) {
	registerID, ok := h.registerFromToken(c)
	if !ok {
		return
	}

	var req request.DisplayMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.DisplayMessageInput{
		Type:   broadcast.EventType(req.Type),
		Points: req.Points,
	}
	if req.CustomerID != nil {
		id, err := utils.ParseUUID(*req.CustomerID)
		if err != nil {
			response.BadRequest(c, "Invalid customer ID")
			return
		}
		input.CustomerID = &id
	}

	view, err := h.displayService.HandleMessage(c.Request.Context(), registerID, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Message applied", view)
}
