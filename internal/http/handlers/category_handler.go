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

type CategoryHandler struct {
	Categories *repos.CategoryRepo
	Stores     *services.StoreService
}

const msgBillboardNotInStore = "Billboard not found in this store"

type categoryValues struct {
	Name        string `json:"name"`
	BillboardID string `json:"billboardId"`
}

func (v categoryValues) check() (name, billboardID, problem string) {
	name, ok := validate.Required(v.Name)
	if !ok {
		return "", "", "Name is required"
	}
	billboardID, ok = validate.ID(v.BillboardID)
	if !ok {
		return "", "", "Billboard id is required"
	}
	return name, billboardID, ""
}

// GET /api/:storeId/categories
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	storeID, ok := validate.ID(c.Params("storeId"))
	if !ok {
		return badRequest(c, "Store id is required")
	}
	cats, err := h.Categories.List(c.UserContext(), storeID)
	if err != nil {
		return internalError(c, "category.list", err, nil)
	}
	return c.JSON(cats)
}

// POST /api/:storeId/categories
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	if userID(c) == "" {
		return unauthenticated(c)
	}
	v, err := decodeValues[categoryValues](c)
	if err != nil {
		return badRequest(c, msgInvalidBody)
	}
	name, billboardID, problem := v.check()
	if problem != "" {
		return badRequest(c, problem)
	}
	storeID, ok := validate.ID(c.Params("storeId"))
	if !ok {
		return badRequest(c, "Store id is required")
	}
	if ok, resp := authorizeStore(c, h.Stores, "category.create"); !ok {
		return resp
	}

	cat, err := h.Categories.Create(c.UserContext(), storeID, billboardID, name)
	if errors.Is(err, repos.ErrForeignRef) {
		return badRequest(c, msgBillboardNotInStore)
	}
	if err != nil {
		return internalError(c, "category.create", err, map[string]any{"billboard_id": billboardID})
	}
	applog.Audit(c, "category.create", map[string]any{"store_id": storeID, "category_id": cat.ID})
	return c.JSON(cat)
}

// GET /api/:storeId/categories/:categoryId
func (h *CategoryHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("categoryId"))
	if !ok {
		return badRequest(c, "Category id is required")
	}
	cat, err := h.Categories.Get(c.UserContext(), c.Params("storeId"), id)
	if errors.Is(err, repos.ErrNotFound) {
		return c.JSON(nil)
	}
	if err != nil {
		return internalError(c, "category.get", err, map[string]any{"category_id": id})
	}
	return c.JSON(cat)
}

// PATCH /api/:storeId/categories/:categoryId
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	if userID(c) == "" {
		return unauthenticated(c)
	}
	v, err := decodeValues[categoryValues](c)
	if err != nil {
		return badRequest(c, msgInvalidBody)
	}
	name, billboardID, problem := v.check()
	if problem != "" {
		return badRequest(c, problem)
	}
	id, ok := validate.ID(c.Params("categoryId"))
	if !ok {
		return badRequest(c, "Category id is required")
	}
	if ok, resp := authorizeStore(c, h.Stores, "category.patch"); !ok {
		return resp
	}

	n, err := h.Categories.Update(c.UserContext(), c.Params("storeId"), id, billboardID, name)
	if errors.Is(err, repos.ErrForeignRef) {
		return badRequest(c, msgBillboardNotInStore)
	}
	if err != nil {
		return internalError(c, "category.patch", err, map[string]any{"category_id": id})
	}
	applog.Audit(c, "category.patch", map[string]any{"category_id": id, "count": n})
	return c.JSON(domain.Count{Count: n})
}

// DELETE /api/:storeId/categories/:categoryId
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	if userID(c) == "" {
		return unauthenticated(c)
	}
	id, ok := validate.ID(c.Params("categoryId"))
	if !ok {
		return badRequest(c, "Category id is required")
	}
	if ok, resp := authorizeStore(c, h.Stores, "category.delete"); !ok {
		return resp
	}

	n, err := h.Categories.Delete(c.UserContext(), c.Params("storeId"), id)
	if err != nil {
		return internalError(c, "category.delete", err, map[string]any{"category_id": id})
	}
	applog.Audit(c, "category.delete", map[string]any{"category_id": id, "count": n})
	return c.JSON(domain.Count{Count: n})
}
