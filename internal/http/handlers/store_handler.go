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

type StoreHandler struct {
	Stores *services.StoreService
}

type storeValues struct {
	Name string `json:"name"`
}

// POST /api/stores
func (h *StoreHandler) Create(c *fiber.Ctx) error {
	uid := userID(c)
	if uid == "" {
		return unauthenticated(c)
	}
	v, err := decodeValues[storeValues](c)
	if err != nil {
		return badRequest(c, msgInvalidBody)
	}
	name, ok := validate.Required(v.Name)
	if !ok {
		return badRequest(c, "Name is required")
	}

	st, err := h.Stores.Create(c.UserContext(), uid, name)
	if err != nil {
		return internalError(c, "store.create", err, nil)
	}
	applog.Audit(c, "store.create", map[string]any{"store_id": st.ID})
	return c.JSON(st)
}

// GET /api/stores/:storeId
func (h *StoreHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("storeId"))
	if !ok {
		return badRequest(c, "Store id is required")
	}
	st, err := h.Stores.Stores.Get(c.UserContext(), id)
	if errors.Is(err, repos.ErrNotFound) {
		return c.JSON(nil)
	}
	if err != nil {
		return internalError(c, "store.get", err, map[string]any{"store_id": id})
	}
	return c.JSON(st)
}

// PATCH /api/stores/:storeId
func (h *StoreHandler) Update(c *fiber.Ctx) error {
	uid := userID(c)
	if uid == "" {
		return unauthenticated(c)
	}
	v, err := decodeValues[storeValues](c)
	if err != nil {
		return badRequest(c, msgInvalidBody)
	}
	name, ok := validate.Required(v.Name)
	if !ok {
		return badRequest(c, "Name is required")
	}
	id, ok := validate.ID(c.Params("storeId"))
	if !ok {
		return badRequest(c, "Store id is required")
	}
	if ok, resp := authorizeStore(c, h.Stores, "store.patch"); !ok {
		return resp
	}

	n, err := h.Stores.Stores.Rename(c.UserContext(), id, uid, name)
	if err != nil {
		return internalError(c, "store.patch", err, map[string]any{"store_id": id})
	}
	applog.Audit(c, "store.patch", map[string]any{"store_id": id, "count": n})
	return c.JSON(domain.Count{Count: n})
}

// DELETE /api/stores/:storeId
func (h *StoreHandler) Delete(c *fiber.Ctx) error {
	uid := userID(c)
	if uid == "" {
		return unauthenticated(c)
	}
	id, ok := validate.ID(c.Params("storeId"))
	if !ok {
		return badRequest(c, "Store id is required")
	}
	if ok, resp := authorizeStore(c, h.Stores, "store.delete"); !ok {
		return resp
	}

	n, err := h.Stores.Stores.Delete(c.UserContext(), id, uid)
	if err != nil {
		return internalError(c, "store.delete", err, map[string]any{"store_id": id})
	}
	applog.Audit(c, "store.delete", map[string]any{"store_id": id, "count": n})
	return c.JSON(domain.Count{Count: n})
}
