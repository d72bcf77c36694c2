package handler

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"pdfshare/internal/http/middleware"
	"pdfshare/internal/service"
	"pdfshare/internal/storage"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: middleware.GetRequestID(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	})
}

func writeValidation(c *fiber.Ctx, verr *service.ValidationError) error {
	return c.Status(fiber.StatusBadRequest).JSON(errorPayload{
		RequestID: middleware.GetRequestID(c),
		Error: errorEnvelope{
			Code:    "VALIDATION_FAILED",
			Message: "request validation failed",
			Fields:  verr.Fields,
		},
	})
}

type mappedError struct {
	target  error
	status  int
	code    string
	message string
}

// serviceErrors is checked in order with errors.Is.
var serviceErrors = []mappedError{
	{service.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "resource not found"},
	{storage.ErrObjectNotFound, fiber.StatusNotFound, "FILE_NOT_FOUND", "file not found"},
	{service.ErrDocumentNotFound, fiber.StatusNotFound, "DOCUMENT_NOT_FOUND", "document not found"},
	{service.ErrIDRequired, fiber.StatusBadRequest, "INVALID_ID", "invalid id format"},
	{service.ErrParentNotFound, fiber.StatusBadRequest, "PARENT_NOT_FOUND", "parent comment not found"},
	{service.ErrCrossDocumentReply, fiber.StatusBadRequest, "CROSS_DOCUMENT_REPLY", "parent comment belongs to another document"},
	{service.ErrNestedReplyNotAllowed, fiber.StatusBadRequest, "NESTED_REPLY_NOT_ALLOWED", "replies to replies are not allowed"},
	{service.ErrUnsupportedType, fiber.StatusBadRequest, "INVALID_FILE_TYPE", "only PDF files are allowed"},
	{service.ErrEmptyFile, fiber.StatusBadRequest, "EMPTY_FILE", "file is empty"},
	{service.ErrFileTooLarge, fiber.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds the upload size limit"},
	{service.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password"},
	{service.ErrEmailTaken, fiber.StatusConflict, "EMAIL_TAKEN", "email already registered"},
}

var statusCodes = map[int]string{
	fiber.StatusBadRequest:            "BAD_REQUEST",
	fiber.StatusUnauthorized:          "UNAUTHORIZED",
	fiber.StatusForbidden:             "FORBIDDEN",
	fiber.StatusNotFound:              "NOT_FOUND",
	fiber.StatusMethodNotAllowed:      "METHOD_NOT_ALLOWED",
	fiber.StatusRequestEntityTooLarge: "FILE_TOO_LARGE",
	fiber.StatusUnprocessableEntity:   "BAD_REQUEST",
	fiber.StatusTooManyRequests:       "RATE_LIMITED",
	fiber.StatusServiceUnavailable:    "SERVICE_UNAVAILABLE",
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
// Handlers return service errors unchanged; they are mapped here. Anything unmapped is logged and answered with 500.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			return writeValidation(c, verr)
		}

		for _, m := range serviceErrors {
			if errors.Is(err, m.target) {
				if m.status == fiber.StatusNotFound {
					log.Debug("not_found", zap.String("request_id", middleware.GetRequestID(c)), zap.Error(err))
				}
				return writeError(c, m.status, m.code, m.message)
			}
		}

		var fe *fiber.Error
		if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
			code, ok := statusCodes[fe.Code]
			if !ok {
				code = "BAD_REQUEST"
			}
			msg := fe.Message
			if msg == "" {
				msg = http.StatusText(fe.Code)
			}
			return writeError(c, fe.Code, code, msg)
		}

		log.Error("request_failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
