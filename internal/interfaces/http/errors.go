package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-pos/internal/application/dto"
	"github.com/jhoicas/kardex-pos/internal/domain"
)

// statusForCode traduce un código de dominio a status HTTP.
func statusForCode(code string) int {
	switch code {
	case "", "OK":
		return fiber.StatusOK
	case "VALIDATION", "MISSING_CODE":
		return fiber.StatusBadRequest
	case "UNAUTHORIZED":
		return fiber.StatusUnauthorized
	case "FORBIDDEN":
		return fiber.StatusForbidden
	case "NOT_FOUND", "NOTHING_TO_REVERSE":
		return fiber.StatusNotFound
	case "DUPLICATE", "INSUFFICIENT_STOCK", "UNSAFE_REVERSAL":
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// writeError responde un error de dominio o de infraestructura con dto.ErrorResponse.
func writeError(c *fiber.Ctx, err error) error {
	code := domain.Code(err)
	msg := err.Error()
	if code == "INTERNAL" {
		msg = "error interno, intente más tarde"
	}
	return c.Status(statusForCode(code)).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// writeOutcome responde el resultado de una operación del kardex; el cuerpo siempre es el
// resultado completo y el status refleja el código del Outcome.
func writeOutcome(c *fiber.Ctx, out dto.Outcome, okStatus int, body any) error {
	if out.OK {
		return c.Status(okStatus).JSON(body)
	}
	return c.Status(statusForCode(out.Code)).JSON(body)
}
