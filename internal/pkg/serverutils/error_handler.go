package serverutils

import (
	"errors"

	"studybuddy-be/internal/pkg/apperror"
	"studybuddy-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// NewErrorHandler turns errors returned by handlers into the error envelope.
// Internal and upstream causes are logged and never sent to the client.
func NewErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		var appErr *apperror.Error
		if !errors.As(err, &appErr) {
			appErr = apperror.Internal(err)
		}

		status := StatusFor(appErr.Kind)
		switch appErr.Kind {
		case apperror.KindValidation:
			return ctx.Status(status).JSON(ValidationErrorResponse(status, appErr.Message, appErr.Fields))
		case apperror.KindUnauthorized:
			ctx.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		case apperror.KindInternal, apperror.KindUpstream:
			log.Error("HTTP", "Request failed", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"kind":   appErr.Kind.String(),
				"error":  err.Error(),
			})
		}

		return ctx.Status(status).JSON(ErrorResponse(status, appErr.Message))
	}
}

func StatusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return fiber.StatusUnprocessableEntity
	case apperror.KindConflict:
		return fiber.StatusBadRequest
	case apperror.KindUnauthorized:
		return fiber.StatusUnauthorized
	case apperror.KindForbidden:
		return fiber.StatusForbidden
	case apperror.KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}
