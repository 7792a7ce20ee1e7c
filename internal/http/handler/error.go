package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"crudapi/internal/errs"
	"crudapi/internal/http/middleware"
)

// errorPayload is the failure half of the response envelope.
type errorPayload struct {
	Message   string            `json:"message"`
	Status    string            `json:"status"`
	Data      []errs.FieldError `json:"data,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// writeError writes the error envelope. Only the exception message reaches the client.
func writeError(c *fiber.Ctx, status int, message string, fields []errs.FieldError) error {
	return c.Status(status).JSON(errorPayload{
		Message:   message,
		Status:    statusError,
		Data:      fields,
		RequestID: middleware.RequestIDFrom(c),
	})
}

// fail renders err as HTTPException.ErrorCode plus its message, 500 otherwise.
func fail(c *fiber.Ctx, log *zap.Logger, err error) error {
	he := errs.From(err)
	status := errs.StatusOf(he)
	if status >= fiber.StatusInternalServerError && log != nil {
		log.Error("request_failed",
			zap.String("request_id", middleware.RequestIDFrom(c)),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Error(he.Err),
		)
	}
	return writeError(c, status, errs.MessageOf(he), he.Fields)
}

// ErrorHandler returns a Fiber global error handler rendering *fiber.Error and
// HTTPException values with the same envelope.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return writeError(c, fe.Code, fe.Message, nil)
		}
		return fail(c, log, err)
	}
}
