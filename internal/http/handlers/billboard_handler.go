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

type BillboardHandler struct {
	Billboards *repos.BillboardRepo
	Stores     *services.StoreService
}

type billboardValues struct {
	Label    string `json:"label"`
	ImageURL string `json:"imageUrl"`
}

// check trims the values and returns the first problem as a 400 message.
func (v billboardValues) check() (label, imageURL, problem string) {
	label, ok := validate.Required(v.Label)
	if !ok {
		return "", "", "Label is required"
	}
	imageURL, ok = validate.Required(v.ImageURL)
	if !ok {
		return "", "", "Image URL is required"
	}
	if imageURL, ok = validate.ImageURL(imageURL); !ok {
		return "", "", "Image URL must be an http(s) URL"
	}
	return label, imageURL, ""
}

// GET /api/:storeId/billboards
func (h *BillboardHandler) List(c *fiber.Ctx) error {
	storeID, ok := validate.ID(c.Params("storeId"))
	if !ok {
		return badRequest(c, "Store id is required")
	}
	billboards, err := h.Billboards.List(c.UserContext(), storeID)
	if err != nil {
		return internalError(c, "billboard.list", err, nil)
	}
	return c.JSON(billboards)
}

// POST /api/:storeId/billboards
func (h *BillboardHandler) Create(c *fiber.Ctx) error {
	if userID(c) == "" {
		return unauthenticated(c)
	}
	v, err := decodeValues[billboardValues](c)
	if err != nil {
		return badRequest(c, msgInvalidBody)
	}
	label, imageURL, problem := v.check()
	if problem != "" {
		return badRequest(c, problem)
	}
	storeID, ok := validate.ID(c.Params("storeId"))
	if !ok {
		return badRequest(c, "Store id is required")
	}
	if ok, resp := authorizeStore(c, h.Stores, "billboard.create"); !ok {
		return resp
	}

	b, err := h.Billboards.Create(c.UserContext(), storeID, label, imageURL)
	if err != nil {
		return internalError(c, "billboard.create", err, nil)
	}
	applog.Audit(c, "billboard.create", map[string]any{"store_id": storeID, "billboard_id": b.ID})
	return c.JSON(b)
}

// GET /api/:storeId/billboards/:billboardId
func (h *BillboardHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("billboardId"))
	if !ok {
		return badRequest(c, "Billboard id is required")
	}
	b, err := h.Billboards.Get(c.UserContext(), c.Params("storeId"), id)
	if errors.Is(err, repos.ErrNotFound) {
		return c.JSON(nil)
	}
	if err != nil {
		return internalError(c, "billboard.get", err, map[string]any{"billboard_id": id})
	}
	return c.JSON(b)
}

// PATCH /api/:storeId/billboards/:billboardId
func (h *BillboardHandler) Update(c *fiber.Ctx) error {
	if userID(c) == "" {
		return unauthenticated(c)
	}
	v, err := decodeValues[billboardValues](c)
	if err != nil {
		return badRequest(c, msgInvalidBody)
	}
	label, imageURL, problem := v.check()
	if problem != "" {
		return badRequest(c, problem)
	}
	id, ok := validate.ID(c.Params("billboardId"))
	if !ok {
		return badRequest(c, "Billboard id is required")
	}
	if ok, resp := authorizeStore(c, h.Stores, "billboard.patch"); !ok {
		return resp
	}

	n, err := h.Billboards.Update(c.UserContext(), c.Params("storeId"), id, label, imageURL)
	if err != nil {
		return internalError(c, "billboard.patch", err, map[string]any{"billboard_id": id})
	}
	applog.Audit(c, "billboard.patch", map[string]any{"billboard_id": id, "count": n})
	return c.JSON(domain.Count{Count: n})
}

// DELETE /api/:storeId/billboards/:billboardId
func (h *BillboardHandler) Delete(c *fiber.Ctx) error {
	if userID(c) == "" {
		return unauthenticated(c)
	}
	id, ok := validate.ID(c.Params("billboardId"))
	if !ok {
		return badRequest(c, "Billboard id is required")
	}
	if ok, resp := authorizeStore(c, h.Stores, "billboard.delete"); !ok {
		return resp
	}

	n, err := h.Billboards.Delete(c.UserContext(), c.Params("storeId"), id)
	if err != nil {
		return internalError(c, "billboard.delete", err, map[string]any{"billboard_id": id})
	}
	applog.Audit(c, "billboard.delete", map[string]any{"billboard_id": id, "count": n})
	return c.JSON(domain.Count{Count: n})
}
