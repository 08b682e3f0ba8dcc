package handlers

import (
	"errors"

	"storeadmin/internal/domain"
	"storeadmin/internal/forms"
	"storeadmin/internal/locale"
	applog "storeadmin/internal/log"
	"storeadmin/internal/repos"

	"github.com/gofiber/fiber/v2"
)

type categoryRow struct {
	ID        string
	Name      string
	Billboard string
	CreatedAt string
}

// GET /:storeId/categories
func (h *DashboardHandler) Categories(c *fiber.Ctx) error {
	st := currentStore(c)
	cats, err := h.CategoryRepo.List(c.UserContext(), st.ID)
	if err != nil {
		return err
	}
	billboards, err := h.BillboardRepo.List(c.UserContext(), st.ID)
	if err != nil {
		return err
	}
	labels := make(map[string]string, len(billboards))
	for _, b := range billboards {
		labels[b.ID] = b.Label
	}
	rows := make([]categoryRow, 0, len(cats))
	for _, cat := range cats {
		rows = append(rows, categoryRow{
			ID:        cat.ID,
			Name:      cat.Name,
			Billboard: labels[cat.BillboardID],
			CreatedAt: locale.DateString(cat.CreatedAt),
		})
	}
	return render(c, "categories", fiber.Map{"Rows": rows, "Title": "Categorias"})
}

// GET /:storeId/categories/:categoryId
func (h *DashboardHandler) CategoryForm(c *fiber.Ctx) error {
	st := currentStore(c)
	id, ok := itemID(c, "categoryId")
	if !ok {
		return pageNotFound(c)
	}
	var initial *domain.Category
	if id != newID {
		cat, err := h.CategoryRepo.Get(c.UserContext(), st.ID, id)
		if err != nil && !errors.Is(err, repos.ErrNotFound) {
			return err
		}
		initial = cat
	}
	f := forms.CategoryForm{}
	if initial != nil {
		f = forms.CategoryForm{Name: initial.Name, BillboardID: initial.BillboardID}
	}
	data, err := h.categoryFormData(c, initial, f, forms.Errors{})
	if err != nil {
		return err
	}
	return render(c, "category_form", data)
}

func (h *DashboardHandler) categoryFormData(c *fiber.Ctx, initial *domain.Category, f forms.CategoryForm, errs forms.Errors) (fiber.Map, error) {
	billboards, err := h.BillboardRepo.List(c.UserContext(), currentStore(c).ID)
	if err != nil {
		return nil, err
	}
	m := fiber.Map{
		"Form":        f,
		"Errors":      errs,
		"Billboards":  billboards,
		"Title":       "Criar Categoria",
		"Description": "Adicionar uma nova categoria",
		"Action":      "Criar",
		"ID":          newID,
	}
	if initial != nil {
		m["Title"] = "Editar Categoria"
		m["Description"] = "Editar uma categoria"
		m["Action"] = "Salvar alterações"
		m["ID"] = initial.ID
		m["Editing"] = true
	}
	return m, nil
}

// POST /:storeId/categories/:categoryId
func (h *DashboardHandler) SaveCategory(c *fiber.Ctx) error {
	st := currentStore(c)
	id, ok := itemID(c, "categoryId")
	if !ok {
		return pageNotFound(c)
	}
	var initial *domain.Category
	if id != newID {
		initial = &domain.Category{ID: id, StoreID: st.ID}
	}

	f := forms.CategoryForm{Name: c.FormValue("name"), BillboardID: c.FormValue("billboardId")}
	if errs := forms.Check(&f); len(errs) > 0 {
		return h.rerenderCategory(c, fiber.StatusUnprocessableEntity, initial, f, errs, "")
	}

	var (
		n   int64
		err error
	)
	if initial == nil {
		var cat *domain.Category
		if cat, err = h.CategoryRepo.Create(c.UserContext(), st.ID, f.BillboardID, f.Name); err == nil {
			applog.Audit(c, "category.create", map[string]any{"store_id": st.ID, "category_id": cat.ID})
		}
	} else if n, err = h.CategoryRepo.Update(c.UserContext(), st.ID, id, f.BillboardID, f.Name); err == nil {
		applog.Audit(c, "category.patch", map[string]any{"category_id": id, "count": n})
	}
	if errors.Is(err, repos.ErrForeignRef) {
		applog.Security(c, "category.foreign_ref", map[string]any{"billboard_id": f.BillboardID})
		return h.rerenderCategory(c, fiber.StatusUnprocessableEntity, initial, f, forms.Errors{"billboardId": "Selecione uma opção válida"}, "")
	}
	if err != nil {
		applog.Error(c, "category.save", err, map[string]any{"category_id": id})
		return h.rerenderCategory(c, fiber.StatusInternalServerError, initial, f, forms.Errors{}, toasts["failed"])
	}
	return saved(c, "/"+st.ID+"/categories", "category", initial == nil, n)
}

func (h *DashboardHandler) rerenderCategory(c *fiber.Ctx, status int, initial *domain.Category, f forms.CategoryForm, errs forms.Errors, toast string) error {
	data, err := h.categoryFormData(c, initial, f, errs)
	if err != nil {
		return err
	}
	if toast != "" {
		data["Toast"] = toast
	}
	return c.Status(status).Render("category_form", pageData(c, data))
}

// POST /:storeId/categories/:categoryId/delete
func (h *DashboardHandler) DeleteCategory(c *fiber.Ctx) error {
	st := currentStore(c)
	id, ok := itemID(c, "categoryId")
	if !ok || id == newID {
		return pageNotFound(c)
	}
	list := "/" + st.ID + "/categories"
	back := list + "/" + id
	if c.FormValue("confirm") != "yes" {
		return c.Redirect(back)
	}
	n, err := h.CategoryRepo.Delete(c.UserContext(), st.ID, id)
	if err != nil {
		applog.Error(c, "category.delete", err, map[string]any{"category_id": id})
		flash(c, "category.in_use")
		return c.Redirect(back)
	}
	applog.Audit(c, "category.delete", map[string]any{"category_id": id, "count": n})
	return removed(c, list, "category", n)
}
