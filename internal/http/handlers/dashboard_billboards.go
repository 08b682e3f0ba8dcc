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

type billboardRow struct {
	ID        string
	Label     string
	CreatedAt string
}

// GET /:storeId/billboards
func (h *DashboardHandler) Billboards(c *fiber.Ctx) error {
	st := currentStore(c)
	list, err := h.BillboardRepo.List(c.UserContext(), st.ID)
	if err != nil {
		return err
	}
	rows := make([]billboardRow, 0, len(list))
	for _, b := range list {
		rows = append(rows, billboardRow{ID: b.ID, Label: b.Label, CreatedAt: locale.DateString(b.CreatedAt)})
	}
	return render(c, "billboards", fiber.Map{"Rows": rows, "Title": "Painéis"})
}

// GET /:storeId/billboards/:billboardId
func (h *DashboardHandler) BillboardForm(c *fiber.Ctx) error {
	st := currentStore(c)
	id, ok := itemID(c, "billboardId")
	if !ok {
		return pageNotFound(c)
	}
	var initial *domain.Billboard
	if id != newID {
		b, err := h.BillboardRepo.Get(c.UserContext(), st.ID, id)
		if err != nil && !errors.Is(err, repos.ErrNotFound) {
			return err
		}
		initial = b
	}
	f := forms.BillboardForm{}
	if initial != nil {
		f = forms.BillboardForm{Label: initial.Label, ImageURL: initial.ImageURL}
	}
	return render(c, "billboard_form", billboardFormData(initial, f, forms.Errors{}))
}

func billboardFormData(initial *domain.Billboard, f forms.BillboardForm, errs forms.Errors) fiber.Map {
	m := fiber.Map{
		"Form":        f,
		"Errors":      errs,
		"Title":       "Criar Painel",
		"Description": "Adicionar um novo painel",
		"Action":      "Criar",
		"ID":          newID,
	}
	if initial != nil {
		m["Title"] = "Editar Painel"
		m["Description"] = "Editar um painel"
		m["Action"] = "Salvar alterações"
		m["ID"] = initial.ID
		m["Editing"] = true
	}
	return m
}

// POST /:storeId/billboards/:billboardId
func (h *DashboardHandler) SaveBillboard(c *fiber.Ctx) error {
	st := currentStore(c)
	id, ok := itemID(c, "billboardId")
	if !ok {
		return pageNotFound(c)
	}
	var initial *domain.Billboard
	if id != newID {
		initial = &domain.Billboard{ID: id, StoreID: st.ID}
	}

	f := forms.BillboardForm{Label: c.FormValue("label"), ImageURL: c.FormValue("imageUrl")}
	if errs := forms.Check(&f); len(errs) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).Render("billboard_form", pageData(c, billboardFormData(initial, f, errs)))
	}

	var (
		n   int64
		err error
	)
	if initial == nil {
		var b *domain.Billboard
		if b, err = h.BillboardRepo.Create(c.UserContext(), st.ID, f.Label, f.ImageURL); err == nil {
			applog.Audit(c, "billboard.create", map[string]any{"store_id": st.ID, "billboard_id": b.ID})
		}
	} else if n, err = h.BillboardRepo.Update(c.UserContext(), st.ID, id, f.Label, f.ImageURL); err == nil {
		applog.Audit(c, "billboard.patch", map[string]any{"billboard_id": id, "count": n})
	}
	if err != nil {
		applog.Error(c, "billboard.save", err, map[string]any{"billboard_id": id})
		data := billboardFormData(initial, f, forms.Errors{})
		data["Toast"] = toasts["failed"]
		return c.Status(fiber.StatusInternalServerError).Render("billboard_form", pageData(c, data))
	}
	return saved(c, "/"+st.ID+"/billboards", "billboard", initial == nil, n)
}

// POST /:storeId/billboards/:billboardId/delete
func (h *DashboardHandler) DeleteBillboard(c *fiber.Ctx) error {
	st := currentStore(c)
	id, ok := itemID(c, "billboardId")
	if !ok || id == newID {
		return pageNotFound(c)
	}
	list := "/" + st.ID + "/billboards"
	back := list + "/" + id
	if c.FormValue("confirm") != "yes" {
		return c.Redirect(back)
	}
	n, err := h.BillboardRepo.Delete(c.UserContext(), st.ID, id)
	if err != nil {
		applog.Error(c, "billboard.delete", err, map[string]any{"billboard_id": id})
		flash(c, "billboard.in_use")
		return c.Redirect(back)
	}
	applog.Audit(c, "billboard.delete", map[string]any{"billboard_id": id, "count": n})
	return removed(c, list, "billboard", n)
}
