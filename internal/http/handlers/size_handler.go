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

type SizeHandler struct {
	Sizes  *repos.SizeRepo
	Stores *services.StoreService
}

type sizeValues struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// GET /api/:storeId/sizes
func (h *SizeHandler) List(c *fiber.Ctx) error {
	storeID, ok := validate.ID(c.Params("storeId"))
	if !ok {
		return badRequest(c, "Store id is required")
	}
	sizes, err := h.Sizes.List(c.UserContext(), storeID)
	if err != nil {
		return internalError(c, "size.list", err, nil)
	}
	return c.JSON(sizes)
}

// POST /api/:storeId/sizes
func (h *SizeHandler) Create(c *fiber.Ctx) error {
	if userID(c) == "" {
		return unauthenticated(c)
	}
	v, err := decodeValues[sizeValues](c)
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
	storeID, ok := validate.ID(c.Params("storeId"))
	if !ok {
		return badRequest(c, "Store id is required")
	}
	if ok, resp := authorizeStore(c, h.Stores, "size.create"); !ok {
		return resp
	}

	size, err := h.Sizes.Create(c.UserContext(), storeID, name, value)
	if err != nil {
		return internalError(c, "size.create", err, nil)
	}
	applog.Audit(c, "size.create", map[string]any{"store_id": storeID, "size_id": size.ID})
	return c.JSON(size)
}

// GET /api/:storeId/sizes/:sizeId
func (h *SizeHandler) Get(c *fiber.Ctx) error {
	sizeID, ok := validate.ID(c.Params("sizeId"))
	if !ok {
		return badRequest(c, "Size id is required")
	}
	size, err := h.Sizes.Get(c.UserContext(), c.Params("storeId"), sizeID)
	if errors.Is(err, repos.ErrNotFound) {
		return c.JSON(nil)
	}
	if err != nil {
		return internalError(c, "size.get", err, map[string]any{"size_id": sizeID})
	}
	return c.JSON(size)
}

// PATCH /api/:storeId/sizes/:sizeId
func (h *SizeHandler) Update(c *fiber.Ctx) error {
	if userID(c) == "" {
		return unauthenticated(c)
	}
	v, err := decodeValues[sizeValues](c)
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
	sizeID, ok := validate.ID(c.Params("sizeId"))
	if !ok {
		return badRequest(c, "Size id is required")
	}
	if ok, resp := authorizeStore(c, h.Stores, "size.patch"); !ok {
		return resp
	}

	n, err := h.Sizes.Update(c.UserContext(), c.Params("storeId"), sizeID, name, value)
	if err != nil {
		return internalError(c, "size.patch", err, map[string]any{"size_id": sizeID})
	}
	applog.Audit(c, "size.patch", map[string]any{"size_id": sizeID, "count": n})
	return c.JSON(domain.Count{Count: n})
}

// DELETE /api/:storeId/sizes/:sizeId
func (h *SizeHandler) Delete(c *fiber.Ctx) error {
	if userID(c) == "" {
		return unauthenticated(c)
	}
	sizeID, ok := validate.ID(c.Params("sizeId"))
	if !ok {
		return badRequest(c, "Size id is required")
	}
	if ok, resp := authorizeStore(c, h.Stores, "size.delete"); !ok {
		return resp
	}

	n, err := h.Sizes.Delete(c.UserContext(), c.Params("storeId"), sizeID)
	if err != nil {
		return internalError(c, "size.delete", err, map[string]any{"size_id": sizeID})
	}
	applog.Audit(c, "size.delete", map[string]any{"size_id": sizeID, "count": n})
	return c.JSON(domain.Count{Count: n})
}
