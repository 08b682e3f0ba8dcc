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

type ProductHandler struct {
	Products *repos.ProductRepo
	Stores   *services.StoreService
}

const msgRefsNotInStore = "Category, size or color not found in this store"

type productValues struct {
	Name       string   `json:"name"`
	Price      float64  `json:"price"`
	CategoryID string   `json:"categoryId"`
	ColorID    string   `json:"colorId"`
	SizeID     string   `json:"sizeId"`
	Images     []string `json:"images"`
	IsFeatured bool     `json:"isFeatured"`
	IsArchived bool     `json:"isArchived"`
}

// product validates v and builds the row to write. problem is the 400 message, if any.
func (v productValues) product(storeID string) (p domain.Product, problem string) {
	var ok bool
	if p.Name, ok = validate.Required(v.Name); !ok {
		return p, "Name is required"
	}
	if len(v.Images) == 0 {
		return p, "Images are required"
	}
	for _, img := range v.Images {
		u, ok := validate.ImageURL(img)
		if !ok {
			return p, "Images must be http(s) URLs"
		}
		p.Images = append(p.Images, u)
	}
	if v.Price == 0 {
		return p, "Price is required"
	}
	if v.Price < 0 {
		return p, "Price must be greater than zero"
	}
	if p.CategoryID, ok = validate.ID(v.CategoryID); !ok {
		return p, "Category id is required"
	}
	if p.SizeID, ok = validate.ID(v.SizeID); !ok {
		return p, "Size id is required"
	}
	if p.ColorID, ok = validate.ID(v.ColorID); !ok {
		return p, "Color id is required"
	}
	p.StoreID = storeID
	p.Price = v.Price
	p.IsFeatured = v.IsFeatured
	p.IsArchived = v.IsArchived
	return p, ""
}

// GET /api/:storeId/products?categoryId=&colorId=&sizeId=&isFeatured=true
func (h *ProductHandler) List(c *fiber.Ctx) error {
	storeID, ok := validate.ID(c.Params("storeId"))
	if !ok {
		return badRequest(c, "Store id is required")
	}
	f := domain.ProductFilter{
		CategoryID:   c.Query("categoryId"),
		ColorID:      c.Query("colorId"),
		SizeID:       c.Query("sizeId"),
		FeaturedOnly: c.Query("isFeatured") == "true",
	}
	products, err := h.Products.List(c.UserContext(), storeID, f)
	if err != nil {
		return internalError(c, "product.list", err, nil)
	}
	return c.JSON(products)
}

// POST /api/:storeId/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	if userID(c) == "" {
		return unauthenticated(c)
	}
	v, err := decodeValues[productValues](c)
	if err != nil {
		return badRequest(c, msgInvalidBody)
	}
	storeID := c.Params("storeId")
	p, problem := v.product(storeID)
	if problem != "" {
		return badRequest(c, problem)
	}
	if _, ok := validate.ID(storeID); !ok {
		return badRequest(c, "Store id is required")
	}
	if ok, resp := authorizeStore(c, h.Stores, "product.create"); !ok {
		return resp
	}

	err = h.Products.Create(c.UserContext(), &p)
	if errors.Is(err, repos.ErrForeignRef) {
		return badRequest(c, msgRefsNotInStore)
	}
	if err != nil {
		return internalError(c, "product.create", err, nil)
	}
	applog.Audit(c, "product.create", map[string]any{"store_id": storeID, "product_id": p.ID})
	return c.JSON(p)
}

// GET /api/:storeId/products/:productId
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("productId"))
	if !ok {
		return badRequest(c, "Product id is required")
	}
	p, err := h.Products.Get(c.UserContext(), c.Params("storeId"), id)
	if errors.Is(err, repos.ErrNotFound) {
		return c.JSON(nil)
	}
	if err != nil {
		return internalError(c, "product.get", err, map[string]any{"product_id": id})
	}
	return c.JSON(p)
}

// PATCH /api/:storeId/products/:productId
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	if userID(c) == "" {
		return unauthenticated(c)
	}
	v, err := decodeValues[productValues](c)
	if err != nil {
		return badRequest(c, msgInvalidBody)
	}
	p, problem := v.product(c.Params("storeId"))
	if problem != "" {
		return badRequest(c, problem)
	}
	id, ok := validate.ID(c.Params("productId"))
	if !ok {
		return badRequest(c, "Product id is required")
	}
	if ok, resp := authorizeStore(c, h.Stores, "product.patch"); !ok {
		return resp
	}

	p.ID = id
	n, err := h.Products.Update(c.UserContext(), &p)
	if errors.Is(err, repos.ErrForeignRef) {
		return badRequest(c, msgRefsNotInStore)
	}
	if err != nil {
		return internalError(c, "product.patch", err, map[string]any{"product_id": id})
	}
	applog.Audit(c, "product.patch", map[string]any{"product_id": id, "count": n})
	return c.JSON(domain.Count{Count: n})
}

// DELETE /api/:storeId/products/:productId
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if userID(c) == "" {
		return unauthenticated(c)
	}
	id, ok := validate.ID(c.Params("productId"))
	if !ok {
		return badRequest(c, "Product id is required")
	}
	if ok, resp := authorizeStore(c, h.Stores, "product.delete"); !ok {
		return resp
	}

	n, err := h.Products.Delete(c.UserContext(), c.Params("storeId"), id)
	if err != nil {
		return internalError(c, "product.delete", err, map[string]any{"product_id": id})
	}
	applog.Audit(c, "product.delete", map[string]any{"product_id": id, "count": n})
	return c.JSON(domain.Count{Count: n})
}
