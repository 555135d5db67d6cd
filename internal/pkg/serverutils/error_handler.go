package serverutils

import (
	"errors"

	"cadastro-prestador-be/pkg/llm"
	"cadastro-prestador-be/pkg/onboarding"
	"cadastro-prestador-be/pkg/onboarding/updater"

	"github.com/gofiber/fiber/v2"
)

// StatusCoder is implemented by errors that know their HTTP status.
type StatusCoder interface {
	HTTPStatus() int
}

// StatusFor maps domain errors to HTTP status codes.
func StatusFor(err error) int {
	var fiberErr *fiber.Error
	var coder StatusCoder
	var validationErr *ValidationError
	var uniqueErr *onboarding.UniqueViolationError

	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	case errors.As(err, &coder):
		return coder.HTTPStatus()
	case errors.As(err, &validationErr):
		return fiber.StatusBadRequest
	case errors.Is(err, llm.ErrNotConfigured):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, onboarding.ErrProviderNotFound):
		return fiber.StatusNotFound
	case errors.As(err, &uniqueErr):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandlerMiddleware renders any error returned down the chain with the
// standard envelope. Unknown errors are reported without their internals.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := StatusFor(err)
		message := err.Error()
		if code == fiber.StatusInternalServerError && !IsPublic(err) {
			message = "Erro interno do servidor"
		}
		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}

// IsPublic reports whether the error message is safe to show to clients.
func IsPublic(err error) bool {
	var fiberErr *fiber.Error
	var coder StatusCoder
	return errors.As(err, &fiberErr) || errors.As(err, &coder) || errors.Is(err, updater.ErrSaveFailed)
}
