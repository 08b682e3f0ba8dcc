package handlers

import (
	"errors"

	"storeadmin/internal/domain"
	applog "storeadmin/internal/log"
	"storeadmin/internal/repos"
	"storeadmin/internal/services"
	"storeadmin/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ColorHandler struct {
	Colors *repos.ColorRepo
	Stores *services.StoreService
}

type colorValues struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// GET /api/:storeId/colors
func (h *ColorHandler) List(c *fiber.Ctx) error {
	storeID, ok := validate.ID(c.Params("storeId"))
	if !ok {
		return badRequest(c, "Store id is required")
	}
	colors, err := h.Colors.List(c.UserContext(), storeID)
	if err != nil {
		return internalError(c, "color.list", err, nil)
	}
	return c.JSON(colors)
}

// POST /api/:storeId/colors
func (h *ColorHandler) Create(c *fiber.Ctx) error {
	if userID(c) == "" {
		return unauthenticated(c)
	}
	v, err := decodeValues[colorValues](c)
	if err != nil {
		return badRequest(c, msgInvalidBody)
	}
	name, ok := validate.Required(v.Name)
	if !ok {
		return badRequest(c, "Name is required")
	}
	value, ok := validate.Required(v.Value)
	if !ok {
		return badRequest(c, "Value is required")
	}
	if value, ok = validate.HexColor(value); !ok {
		return badRequest(c, "Value must be a hex color")
	}
	storeID, ok := validate.ID(c.Params("storeId"))
	if !ok {
		return badRequest(c, "Store id is required")
	}
	if ok, resp := authorizeStore(c, h.Stores, "color.create"); !ok {
		return resp
	}

	color, err := h.Colors.Create(c.UserContext(), storeID, name, value)
	if err != nil {
		return internalError(c, "color.create", err, nil)
	}
	applog.Audit(c, "color.create", map[string]any{"store_id": storeID, "color_id": color.ID})
	return c.JSON(color)
}

// GET /api/:storeId/colors/:colorId
func (h *ColorHandler) Get(c *fiber.Ctx) error {
	colorID, ok := validate.ID(c.Params("colorId"))
	if !ok {
		return badRequest(c, "Color id is required")
	}
	color, err := h.Colors.Get(c.UserContext(), c.Params("storeId"), colorID)
	if errors.Is(err, repos.ErrNotFound) {
		return c.JSON(nil)
	}
	if err != nil {
		return internalError(c, "color.get", err, map[string]any{"color_id": colorID})
	}
	return c.JSON(color)
}

// PATCH /api/:storeId/colors/:colorId
func (h *ColorHandler) Update(c *fiber.Ctx) error {
	if userID(c) == "" {
		return unauthenticated(c)
	}
	v, err := decodeValues[colorValues](c)
	if err != nil {
		return badRequest(c, msgInvalidBody)
	}
	name, ok := validate.Required(v.Name)
	if !ok {
		return badRequest(c, "Name is required")
	}
	value, ok := validate.Required(v.Value)
	if !ok {
		return badRequest(c, "Value is required")
	}
	if value, ok = validate.HexColor(value); !ok {
		return badRequest(c, "Value must be a hex color")
	}
	colorID, ok := validate.ID(c.Params("colorId"))
	if !ok {
		return badRequest(c, "Color id is required")
	}
	if ok, resp := authorizeStore(c, h.Stores, "color.patch"); !ok {
		return resp
	}

	n, err := h.Colors.Update(c.UserContext(), c.Params("storeId"), colorID, name, value)
	if err != nil {
		return internalError(c, "color.patch", err, map[string]any{"color_id": colorID})
	}
	applog.Audit(c, "color.patch", map[string]any{"color_id": colorID, "count": n})
	return c.JSON(domain.Count{Count: n})
}

// DELETE /api/:storeId/colors/:colorId
func (h *ColorHandler) Delete(c *fiber.Ctx) error {
	if userID(c) == "" {
		return unauthenticated(c)
	}
	colorID, ok := validate.ID(c.Params("colorId"))
	if !ok {
		return badRequest(c, "Color id is required")
	}
	if ok, resp := authorizeStore(c, h.Stores, "color.delete"); !ok {
		return resp
	}

	n, err := h.Colors.Delete(c.UserContext(), c.Params("storeId"), colorID)
	if err != nil {
		return internalError(c, "color.delete", err, map[string]any{"color_id": colorID})
	}
	applog.Audit(c, "color.delete", map[string]any{"color_id": colorID, "count": n})
	return c.JSON(domain.Count{Count: n})
}
