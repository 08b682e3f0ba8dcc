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

type sizeRow struct {
	ID        string
	Name      string
	Value     string
	CreatedAt string
}

// GET /:storeId/sizes
func (h *DashboardHandler) Sizes(c *fiber.Ctx) error {
	st := currentStore(c)
	list, err := h.SizeRepo.List(c.UserContext(), st.ID)
	if err != nil {
		return err
	}
	rows := make([]sizeRow, 0, len(list))
	for _, sz := range list {
		rows = append(rows, sizeRow{ID: sz.ID, Name: sz.Name, Value: sz.Value, CreatedAt: locale.DateString(sz.CreatedAt)})
	}
	return render(c, "sizes", fiber.Map{"Rows": rows, "Title": "Tamanhos"})
}

// GET /:storeId/sizes/:sizeId
func (h *DashboardHandler) SizeForm(c *fiber.Ctx) error {
	st := currentStore(c)
	id, ok := itemID(c, "sizeId")
	if !ok {
		return pageNotFound(c)
	}
	var initial *domain.Size
	if id != newID {
		sz, err := h.SizeRepo.Get(c.UserContext(), st.ID, id)
		if err != nil && !errors.Is(err, repos.ErrNotFound) {
			return err
		}
		initial = sz
	}
	f := forms.SizeForm{}
	if initial != nil {
		f = forms.SizeForm{Name: initial.Name, Value: initial.Value}
	}
	return render(c, "size_form", sizeFormData(initial, f, forms.Errors{}))
}

func sizeFormData(initial *domain.Size, f forms.SizeForm, errs forms.Errors) fiber.Map {
	m := fiber.Map{
		"Form":        f,
		"Errors":      errs,
		"Title":       "Criar Tamanho",
		"Description": "Adicionar um novo tamanho",
		"Action":      "Criar",
		"ID":          newID,
	}
	if initial != nil {
		m["Title"] = "Editar Tamanho"
		m["Description"] = "Editar um tamanho"
		m["Action"] = "Salvar alterações"
		m["ID"] = initial.ID
		m["Editing"] = true
	}
	return m
}

// POST /:storeId/sizes/:sizeId
func (h *DashboardHandler) SaveSize(c *fiber.Ctx) error {
	st := currentStore(c)
	id, ok := itemID(c, "sizeId")
	if !ok {
		return pageNotFound(c)
	}
	var initial *domain.Size
	if id != newID {
		initial = &domain.Size{ID: id, StoreID: st.ID}
	}

	f := forms.SizeForm{Name: c.FormValue("name"), Value: c.FormValue("value")}
	if errs := forms.Check(&f); len(errs) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).Render("size_form", pageData(c, sizeFormData(initial, f, errs)))
	}

	var (
		n   int64
		err error
	)
	if initial == nil {
		var sz *domain.Size
		if sz, err = h.SizeRepo.Create(c.UserContext(), st.ID, f.Name, f.Value); err == nil {
			applog.Audit(c, "size.create", map[string]any{"store_id": st.ID, "size_id": sz.ID})
		}
	} else if n, err = h.SizeRepo.Update(c.UserContext(), st.ID, id, f.Name, f.Value); err == nil {
		applog.Audit(c, "size.patch", map[string]any{"size_id": id, "count": n})
	}
	if err != nil {
		applog.Error(c, "size.save", err, map[string]any{"size_id": id})
		data := sizeFormData(initial, f, forms.Errors{})
		data["Toast"] = toasts["failed"]
		return c.Status(fiber.StatusInternalServerError).Render("size_form", pageData(c, data))
	}
	return saved(c, "/"+st.ID+"/sizes", "size", initial == nil, n)
}

// POST /:storeId/sizes/:sizeId/delete
func (h *DashboardHandler) DeleteSize(c *fiber.Ctx) error {
	st := currentStore(c)
	id, ok := itemID(c, "sizeId")
	if !ok || id == newID {
		return pageNotFound(c)
	}
	list := "/" + st.ID + "/sizes"
	back := list + "/" + id
	if c.FormValue("confirm") != "yes" {
		return c.Redirect(back)
	}
	n, err := h.SizeRepo.Delete(c.UserContext(), st.ID, id)
	if err != nil {
		applog.Error(c, "size.delete", err, map[string]any{"size_id": id})
		flash(c, "size.in_use")
		return c.Redirect(back)
	}
	applog.Audit(c, "size.delete", map[string]any{"size_id": id, "count": n})
	return removed(c, list, "size", n)
}
