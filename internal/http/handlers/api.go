package handlers

import (
	"encoding/json"
	"errors"

	applog "storeadmin/internal/log"
	"storeadmin/internal/services"

	"github.com/gofiber/fiber/v2"
)

const (
	msgUnauthenticated = "Unauthenticated"
	msgUnauthorized    = "Unauthorized"
	msgInternal        = "Internal Server Error"
	msgInvalidBody     = "Invalid body"
)

// envelope is the request body shape the dashboard forms send: {"values": {...}}.
type envelope[T any] struct {
	Values T `json:"values"`
}

func decodeValues[T any](c *fiber.Ctx) (T, error) {
	var body envelope[T]
	err := json.Unmarshal(c.Body(), &body)
	return body.Values, err
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).SendString(msg)
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).SendString(msgUnauthenticated)
}

// internalError logs err under action and answers with a bare 500.
func internalError(c *fiber.Ctx, action string, err error, fields map[string]any) error {
	applog.Error(c, action, err, fields)
	return c.Status(fiber.StatusInternalServerError).SendString(msgInternal)
}

// authorizeStore runs the ownership check for :storeId. When it returns false the
// response has already been written and the handler must return the error as is.
func authorizeStore(c *fiber.Ctx, stores *services.StoreService, action string) (bool, error) {
	_, err := stores.Authorize(c.UserContext(), c.Params("storeId"), userID(c))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, services.ErrNotOwner):
		applog.Security(c, "access.denied.store", map[string]any{"store_id": c.Params("storeId"), "action": action})
		return false, c.Status(fiber.StatusForbidden).SendString(msgUnauthorized)
	default:
		return false, internalError(c, action, err, nil)
	}
}
