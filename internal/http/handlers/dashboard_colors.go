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

type colorRow struct {
	ID        string
	Name      string
	Value     string
	CreatedAt string
}

// GET /:storeId/colors
func (h *DashboardHandler) Colors(c *fiber.Ctx) error {
	st := currentStore(c)
	list, err := h.ColorRepo.List(c.UserContext(), st.ID)
	if err != nil {
		return err
	}
	rows := make([]colorRow, 0, len(list))
	for _, col := range list {
		rows = append(rows, colorRow{ID: col.ID, Name: col.Name, Value: col.Value, CreatedAt: locale.DateString(col.CreatedAt)})
	}
	return render(c, "colors", fiber.Map{"Rows": rows, "Title": "Cores"})
}

// GET /:storeId/colors/:colorId
func (h *DashboardHandler) ColorForm(c *fiber.Ctx) error {
	st := currentStore(c)
	id, ok := itemID(c, "colorId")
	if !ok {
		return pageNotFound(c)
	}
	var initial *domain.Color
	if id != newID {
		col, err := h.ColorRepo.Get(c.UserContext(), st.ID, id)
		if err != nil && !errors.Is(err, repos.ErrNotFound) {
			return err
		}
		initial = col
	}
	f := forms.ColorForm{}
	if initial != nil {
		f = forms.ColorForm{Name: initial.Name, Value: initial.Value}
	}
	return render(c, "color_form", colorFormData(initial, f, forms.Errors{}))
}

func colorFormData(initial *domain.Color, f forms.ColorForm, errs forms.Errors) fiber.Map {
	m := fiber.Map{
		"Form":        f,
		"Errors":      errs,
		"Title":       "Criar Cor",
		"Description": "Adicionar uma nova cor",
		"Action":      "Criar",
		"ID":          newID,
	}
	if initial != nil {
		m["Title"] = "Editar Cor"
		m["Description"] = "Editar uma cor"
		m["Action"] = "Salvar alterações"
		m["ID"] = initial.ID
		m["Editing"] = true
	}
	return m
}

// POST /:storeId/colors/:colorId
func (h *DashboardHandler) SaveColor(c *fiber.Ctx) error {
	st := currentStore(c)
	id, ok := itemID(c, "colorId")
	if !ok {
		return pageNotFound(c)
	}
	var initial *domain.Color
	if id != newID {
		initial = &domain.Color{ID: id, StoreID: st.ID}
	}

	f := forms.ColorForm{Name: c.FormValue("name"), Value: c.FormValue("value")}
	if errs := forms.Check(&f); len(errs) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).Render("color_form", pageData(c, colorFormData(initial, f, errs)))
	}

	var (
		n   int64
		err error
	)
	if initial == nil {
		var col *domain.Color
		if col, err = h.ColorRepo.Create(c.UserContext(), st.ID, f.Name, f.Value); err == nil {
			applog.Audit(c, "color.create", map[string]any{"store_id": st.ID, "color_id": col.ID})
		}
	} else if n, err = h.ColorRepo.Update(c.UserContext(), st.ID, id, f.Name, f.Value); err == nil {
		applog.Audit(c, "color.patch", map[string]any{"color_id": id, "count": n})
	}
	if err != nil {
		applog.Error(c, "color.save", err, map[string]any{"color_id": id})
		data := colorFormData(initial, f, forms.Errors{})
		data["Toast"] = toasts["failed"]
		return c.Status(fiber.StatusInternalServerError).Render("color_form", pageData(c, data))
	}
	return saved(c, "/"+st.ID+"/colors", "color", initial == nil, n)
}

// POST /:storeId/colors/:colorId/delete
func (h *DashboardHandler) DeleteColor(c *fiber.Ctx) error {
	st := currentStore(c)
	id, ok := itemID(c, "colorId")
	if !ok || id == newID {
		return pageNotFound(c)
	}
	list := "/" + st.ID + "/colors"
	back := list + "/" + id
	if c.FormValue("confirm") != "yes" {
		return c.Redirect(back)
	}
	n, err := h.ColorRepo.Delete(c.UserContext(), st.ID, id)
	if err != nil {
		applog.Error(c, "color.delete", err, map[string]any{"color_id": id})
		flash(c, "color.in_use")
		return c.Redirect(back)
	}
	applog.Audit(c, "color.delete", map[string]any{"color_id": id, "count": n})
	return removed(c, list, "color", n)
}
