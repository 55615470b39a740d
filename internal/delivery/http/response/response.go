package response

import (
	"jobboard-api/internal/domain"

	"github.com/gin-gonic/gin"
)

// Envelope documents the success shape. The payload is added under an
// entity-specific key such as "user" or "jobs".
type Envelope struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorEnvelope is the failure shape; Error carries field-level details when present.
type ErrorEnvelope struct {
	Status    int         `json:"status"`
	Message   string      `json:"message"`
	Error     interface{} `json:"error,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

func requestID(c *gin.Context) string {
	return c.GetString(string(domain.KeyRequestID))
}

// Success sends a success response with payload under key. An empty key sends no payload.
func Success(c *gin.Context, code int, message, key string, payload interface{}) {
	body := gin.H{"status": code, "message": message}
	if key != "" {
		body[key] = payload
	}
	if id := requestID(c); id != "" {
		body["request_id"] = id
	}
	c.JSON(code, body)
}

// SuccessFields sends a success response carrying several payload keys.
func SuccessFields(c *gin.Context, code int, message string, fields gin.H) {
	body := gin.H{"status": code, "message": message}
	for k, v := range fields {
		body[k] = v
	}
	if id := requestID(c); id != "" {
		body["request_id"] = id
	}
	c.JSON(code, body)
}

// Error sends an error response
func Error(c *gin.Context, code int, message string, details interface{}) {
	c.JSON(code, ErrorEnvelope{
		Status:    code,
		Message:   message,
		Error:     details,
		RequestID: requestID(c),
	})
}
