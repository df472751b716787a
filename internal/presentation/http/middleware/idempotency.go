package middleware

import (
	"bytes"
	"time"

	"github.com/dukapos/register-api/internal/domain/entity"
	"github.com/dukapos/register-api/internal/domain/repository"
	"github.com/gin-gonic/gin"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency middleware prevents duplicate requests using idempotency keys,
// scoped per register. The key is reserved with an insert before the handler
// runs, so of two truly concurrent duplicates exactly one executes: the loser
// of the insert race replays the stored response, or gets a 409 while the
// winner is still in flight. A retried confirm-payment on the same till can
// therefore never charge twice.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Only apply to POST, PUT, PATCH methods
		if c.Request.Method != "POST" && c.Request.Method != "PUT" && c.Request.Method != "PATCH" {
			c.Next()
			return
		}

		// Get idempotency key from header
		idempotencyKey := c.GetHeader(IdempotencyKeyHeader)
		if idempotencyKey == "" {
			// No idempotency key provided, proceed normally
			c.Next()
			return
		}

		registerID := GetRegisterID(c)
		if registerID == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		reservation := &entity.IdempotencyKey{
			Key:        idempotencyKey,
			RegisterID: registerID,
			Endpoint:   c.Request.Method + " " + c.FullPath(),
			ExpiresAt:  time.Now().Add(IdempotencyKeyTTL),
		}

		if err := config.Repo.Create(ctx, reservation); err != nil {
			// The key is already held. Replay a finished response, reject a
			// duplicate still in flight, and reclaim an expired reservation.
			existing, gerr := config.Repo.GetByKey(ctx, idempotencyKey, registerID)
			if gerr != nil || existing == nil {
				// Storage trouble must not block the register.
				c.Next()
				return
			}
			if existing.IsExpired() {
				_ = config.Repo.Delete(ctx, idempotencyKey, registerID)
				if err := config.Repo.Create(ctx, reservation); err != nil {
					c.Next()
					return
				}
			} else if existing.Completed() {
				c.Header("X-Idempotency-Replayed", "true")
				c.Data(existing.ResponseCode, "application/json", []byte(existing.ResponseBody))
				c.Abort()
				return
			} else {
				c.JSON(409, gin.H{
					"success": false,
					"message": "A request with this idempotency key is already in progress",
				})
				c.Abort()
				return
			}
		}

		// Capture the response
		blw := &responseWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		// Process the request
		c.Next()

		// Only keep successful responses (2xx status codes); anything else
		// releases the key so the client can retry.
		if c.Writer.Status() >= 200 && c.Writer.Status() < 300 {
			reservation.ResponseCode = c.Writer.Status()
			reservation.ResponseBody = blw.body.String()
			_ = config.Repo.SaveResponse(ctx, reservation)
		} else {
			_ = config.Repo.Delete(ctx, idempotencyKey, registerID)
		}
	}
}

// IdempotencyRequired is a stricter variant that refuses POSTs without a key.
// Checkout confirmation uses it; replaying a lost response must never create
// a second sale.
func IdempotencyRequired(config IdempotencyConfig) gin.HandlerFunc {
	inner := Idempotency(config)
	return func(c *gin.Context) {
		if c.Request.Method == "POST" && c.GetHeader(IdempotencyKeyHeader) == "" {
			c.JSON(400, gin.H{
				"success": false,
				"message": "Idempotency-Key header is required for this request",
			})
			c.Abort()
			return
		}
		inner(c)
	}
}
