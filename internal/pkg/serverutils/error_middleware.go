package serverutils

import (
	"errors"

	"dhcp-admin-be/pkg/remotestore"
	"dhcp-admin-be/pkg/schema"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts every error escaping a handler into
// the standard envelope. Upstream failures and data-integrity problems
// become one user-visible message; nothing propagates as a bare 500
// unless it is genuinely unknown.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		if appErr, ok := AsAppError(err); ok {
			res := ErrorResponse(appErr.Code, appErr.Message)
			if len(appErr.Fields) > 0 {
				res.Data = appErr.Fields
			}
			return ctx.Status(appErr.Code).JSON(res)
		}

		if failure, ok := remotestore.AsFailure(err); ok {
			return ctx.Status(fiber.StatusBadGateway).
				JSON(ErrorResponse(fiber.StatusBadGateway, failure.Message()))
		}

		var dupErr *schema.DuplicateIDError
		if errors.As(err, &dupErr) {
			return ctx.Status(fiber.StatusConflict).
				JSON(ErrorResponse(fiber.StatusConflict, dupErr.Error()))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).
				JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		return ctx.Status(fiber.StatusInternalServerError).
			JSON(ErrorResponse(fiber.StatusInternalServerError, err.Error()))
	}
}
