package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
)

// ErrorResponse is the json body of a failed api call.
type ErrorResponse struct {
	Error string `json:"error"`
}

// JSONErrorHandler answers api errors with a json body, the status of
// a *fiber.Error is kept, anything else becomes a 500.
func JSONErrorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := fiber.ErrInternalServerError.Message

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}

	return c.Status(code).JSON(ErrorResponse{Error: msg})
}
