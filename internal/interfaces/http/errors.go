package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-core/internal/application/dto"
	"github.com/jhoicas/wms-core/internal/domain"
)

var errorCodes = []struct {
	kind   error
	status int
	code   string
}{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrConcurrentModification, fiber.StatusConflict, "CONCURRENT_MODIFICATION"},
	{domain.ErrInvalidTransition, fiber.StatusUnprocessableEntity, "INVALID_TRANSITION"},
	{domain.ErrInvalidQuantity, fiber.StatusUnprocessableEntity, "INVALID_QUANTITY"},
	{domain.ErrCellRequired, fiber.StatusUnprocessableEntity, "CELL_REQUIRED"},
	{domain.ErrInvalidDestination, fiber.StatusUnprocessableEntity, "INVALID_DESTINATION"},
	{domain.ErrReasonRequired, fiber.StatusUnprocessableEntity, "REASON_REQUIRED"},
	{domain.ErrInvalidSelection, fiber.StatusUnprocessableEntity, "INVALID_SELECTION"},
}

// toErrorResponse traduce un error de dominio al status HTTP y cuerpo de error.
func toErrorResponse(err error) (int, dto.ErrorResponse) {
	for _, e := range errorCodes {
		if !errors.Is(err, e.kind) {
			continue
		}
		out := dto.ErrorResponse{Code: e.code, Message: err.Error()}
		var ae *domain.AllocationError
		if errors.As(err, &ae) {
			out.AllocationID = ae.AllocationID
			out.Field = ae.Field
			out.Requested = ae.Requested
			out.Available = ae.Available
		}
		return e.status, out
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()}
}

func respondError(c *fiber.Ctx, err error) error {
	status, body := toErrorResponse(err)
	return c.Status(status).JSON(body)
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
}
