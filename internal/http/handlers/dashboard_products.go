package handlers

import (
	"errors"
	"strconv"

	"storeadmin/internal/domain"
	"storeadmin/internal/forms"
	"storeadmin/internal/locale"
	applog "storeadmin/internal/log"
	"storeadmin/internal/repos"

	"github.com/gofiber/fiber/v2"
)

type productRow struct {
	ID         string
	Name       string
	IsFeatured bool
	IsArchived bool
	Price      string
	Category   string
	Size       string
	Color      string
	CreatedAt  string
}

// catalog holds the choices a product form offers, all scoped to one store.
type catalog struct {
	categories []domain.Category
	sizes      []domain.Size
	colors     []domain.Color
}

func (h *DashboardHandler) loadCatalog(c *fiber.Ctx, storeID string) (catalog, error) {
	var (
		cat catalog
		err error
	)
	ctx := c.UserContext()
	if cat.categories, err = h.CategoryRepo.List(ctx, storeID); err != nil {
		return cat, err
	}
	if cat.sizes, err = h.SizeRepo.List(ctx, storeID); err != nil {
		return cat, err
	}
	if cat.colors, err = h.ColorRepo.List(ctx, storeID); err != nil {
		return cat, err
	}
	return cat, nil
}

// GET /:storeId/products
func (h *DashboardHandler) Products(c *fiber.Ctx) error {
	st := currentStore(c)
	products, err := h.ProductRepo.ListAll(c.UserContext(), st.ID)
	if err != nil {
		return err
	}
	cat, err := h.loadCatalog(c, st.ID)
	if err != nil {
		return err
	}
	categories := make(map[string]string, len(cat.categories))
	for _, x := range cat.categories {
		categories[x.ID] = x.Name
	}
	sizes := make(map[string]string, len(cat.sizes))
	for _, x := range cat.sizes {
		sizes[x.ID] = x.Name
	}
	colors := make(map[string]string, len(cat.colors))
	for _, x := range cat.colors {
		colors[x.ID] = x.Value
	}

	rows := make([]productRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, productRow{
			ID:         p.ID,
			Name:       p.Name,
			IsFeatured: p.IsFeatured,
			IsArchived: p.IsArchived,
			Price:      locale.Price(p.Price),
			Category:   categories[p.CategoryID],
			Size:       sizes[p.SizeID],
			Color:      colors[p.ColorID],
			CreatedAt:  locale.DateString(p.CreatedAt),
		})
	}
	return render(c, "products", fiber.Map{"Rows": rows, "Title": "Produtos"})
}

// GET /:storeId/products/:productId
func (h *DashboardHandler) ProductForm(c *fiber.Ctx) error {
	st := currentStore(c)
	id, ok := itemID(c, "productId")
	if !ok {
		return pageNotFound(c)
	}
	var initial *domain.Product
	if id != newID {
		p, err := h.ProductRepo.Get(c.UserContext(), st.ID, id)
		if err != nil && !errors.Is(err, repos.ErrNotFound) {
			return err
		}
		initial = p
	}
	f := forms.ProductForm{}
	if initial != nil {
		f = forms.ProductForm{
			Name:       initial.Name,
			Price:      strconv.FormatFloat(initial.Price, 'f', -1, 64),
			CategoryID: initial.CategoryID,
			ColorID:    initial.ColorID,
			SizeID:     initial.SizeID,
			Images:     initial.Images,
			IsFeatured: initial.IsFeatured,
			IsArchived: initial.IsArchived,
		}
	}
	return h.renderProduct(c, fiber.StatusOK, initial, f, forms.Errors{}, "")
}

func (h *DashboardHandler) renderProduct(c *fiber.Ctx, status int, initial *domain.Product, f forms.ProductForm, errs forms.Errors, toast string) error {
	cat, err := h.loadCatalog(c, currentStore(c).ID)
	if err != nil {
		return err
	}
	m := fiber.Map{
		"Form":        f,
		"Errors":      errs,
		"Categories":  cat.categories,
		"Sizes":       cat.sizes,
		"Colors":      cat.colors,
		"Title":       "Criar Produto",
		"Description": "Adicionar um novo produto",
		"Action":      "Criar",
		"ID":          newID,
	}
	if initial != nil {
		m["Title"] = "Editar Produto"
		m["Description"] = "Editar um produto"
		m["Action"] = "Salvar alterações"
		m["ID"] = initial.ID
		m["Editing"] = true
	}
	if status == fiber.StatusOK {
		return render(c, "product_form", m)
	}
	if toast != "" {
		m["Toast"] = toast
	}
	return c.Status(status).Render("product_form", pageData(c, m))
}

func productFromForm(c *fiber.Ctx) forms.ProductForm {
	return forms.ProductForm{
		Name:       c.FormValue("name"),
		Price:      c.FormValue("price"),
		CategoryID: c.FormValue("categoryId"),
		ColorID:    c.FormValue("colorId"),
		SizeID:     c.FormValue("sizeId"),
		Images:     forms.SplitLines(c.FormValue("images")),
		IsFeatured: c.FormValue("isFeatured") == "true",
		IsArchived: c.FormValue("isArchived") == "true",
	}
}

// POST /:storeId/products/:productId
func (h *DashboardHandler) SaveProduct(c *fiber.Ctx) error {
	st := currentStore(c)
	id, ok := itemID(c, "productId")
	if !ok {
		return pageNotFound(c)
	}
	var initial *domain.Product
	if id != newID {
		initial = &domain.Product{ID: id, StoreID: st.ID}
	}

	f := productFromForm(c)
	if errs := forms.Check(&f); len(errs) > 0 {
		return h.renderProduct(c, fiber.StatusUnprocessableEntity, initial, f, errs, "")
	}
	price, _ := forms.ParsePrice(f.Price)
	p := domain.Product{
		StoreID:    st.ID,
		CategoryID: f.CategoryID,
		ColorID:    f.ColorID,
		SizeID:     f.SizeID,
		Name:       f.Name,
		Price:      price,
		Images:     f.Images,
		IsFeatured: f.IsFeatured,
		IsArchived: f.IsArchived,
	}

	var (
		n   int64
		err error
	)
	if initial == nil {
		if err = h.ProductRepo.Create(c.UserContext(), &p); err == nil {
			applog.Audit(c, "product.create", map[string]any{"store_id": st.ID, "product_id": p.ID})
		}
	} else {
		p.ID = id
		if n, err = h.ProductRepo.Update(c.UserContext(), &p); err == nil {
			applog.Audit(c, "product.patch", map[string]any{"product_id": id, "count": n})
		}
	}
	if errors.Is(err, repos.ErrForeignRef) {
		applog.Security(c, "product.foreign_ref", map[string]any{"product_id": id})
		errs := forms.Errors{"categoryId": "Selecione uma opção válida"}
		return h.renderProduct(c, fiber.StatusUnprocessableEntity, initial, f, errs, "")
	}
	if err != nil {
		applog.Error(c, "product.save", err, map[string]any{"product_id": id})
		return h.renderProduct(c, fiber.StatusInternalServerError, initial, f, forms.Errors{}, toasts["failed"])
	}
	return saved(c, "/"+st.ID+"/products", "product", initial == nil, n)
}

// POST /:storeId/products/:productId/delete
func (h *DashboardHandler) DeleteProduct(c *fiber.Ctx) error {
	st := currentStore(c)
	id, ok := itemID(c, "productId")
	if !ok || id == newID {
		return pageNotFound(c)
	}
	list := "/" + st.ID + "/products"
	back := list + "/" + id
	if c.FormValue("confirm") != "yes" {
		return c.Redirect(back)
	}
	n, err := h.ProductRepo.Delete(c.UserContext(), st.ID, id)
	if err != nil {
		applog.Error(c, "product.delete", err, map[string]any{"product_id": id})
		flash(c, "failed")
		return c.Redirect(back)
	}
	applog.Audit(c, "product.delete", map[string]any{"product_id": id, "count": n})
	return removed(c, list, "product", n)
}
