package handlers

import (
	"storeadmin/internal/forms"
	applog "storeadmin/internal/log"
	"storeadmin/internal/repos"
	"storeadmin/internal/services"
	"storeadmin/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// newID is the path segment that opens an empty create form.
const newID = "new"

// DashboardHandler serves the server-rendered admin pages. Every route except
// Setup and CreateStore runs behind RequireSession and RequireStore.
type DashboardHandler struct {
	Stores        *services.StoreService
	BillboardRepo *repos.BillboardRepo
	CategoryRepo  *repos.CategoryRepo
	ColorRepo     *repos.ColorRepo
	SizeRepo      *repos.SizeRepo
	ProductRepo   *repos.ProductRepo
}

// itemID reads the :param segment of a form route. ok is false for anything
// that is neither newID nor a well-formed id.
func itemID(c *fiber.Ctx, param string) (id string, ok bool) {
	id = c.Params(param)
	if id == newID {
		return id, true
	}
	return validate.ID(id)
}

func pageNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).Render("notfound", pageData(c, fiber.Map{"Message": "Página não encontrada"}))
}

// saved queues the toast for a finished create or update and sends the browser
// back to list. An update that matched no row gets the missing toast instead.
func saved(c *fiber.Ctx, list, kind string, creating bool, n int64) error {
	switch {
	case creating:
		flash(c, kind+".created")
	case n == 0:
		flash(c, "missing")
	default:
		flash(c, kind+".updated")
	}
	return c.Redirect(list)
}

// removed is the delete counterpart of saved.
func removed(c *fiber.Ctx, list, kind string, n int64) error {
	if n == 0 {
		flash(c, "missing")
	} else {
		flash(c, kind+".deleted")
	}
	return c.Redirect(list)
}

// GET /
func (h *DashboardHandler) Setup(c *fiber.Ctx) error {
	st, err := h.Stores.Landing(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	if st != nil {
		return c.Redirect("/" + st.ID)
	}
	return render(c, "setup", fiber.Map{"Form": forms.StoreForm{}, "Errors": forms.Errors{}})
}

// POST /
func (h *DashboardHandler) CreateStore(c *fiber.Ctx) error {
	f := forms.StoreForm{Name: c.FormValue("name")}
	if errs := forms.Check(&f); len(errs) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).Render("setup", pageData(c, fiber.Map{"Form": f, "Errors": errs}))
	}
	st, err := h.Stores.Create(c.UserContext(), userID(c), f.Name)
	if err != nil {
		applog.Error(c, "store.create", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("setup", pageData(c, fiber.Map{
			"Form": f, "Errors": forms.Errors{}, "Toast": toasts["failed"],
		}))
	}
	applog.Audit(c, "store.create", map[string]any{"store_id": st.ID})
	flash(c, "store.created")
	return c.Redirect("/" + st.ID)
}

// GET /:storeId
func (h *DashboardHandler) Overview(c *fiber.Ctx) error {
	st := currentStore(c)
	o, err := h.Stores.Stores.Overview(c.UserContext(), st.ID)
	if err != nil {
		return err
	}
	return render(c, "overview", fiber.Map{"Overview": o})
}

func settingsData(c *fiber.Ctx, f forms.StoreForm, errs forms.Errors) fiber.Map {
	return fiber.Map{
		"Form":    f,
		"Errors":  errs,
		"Title":   "Configurações",
		"APIBase": c.BaseURL() + "/api/" + currentStore(c).ID,
	}
}

// GET /:storeId/settings
func (h *DashboardHandler) Settings(c *fiber.Ctx) error {
	st := currentStore(c)
	return render(c, "settings", settingsData(c, forms.StoreForm{Name: st.Name}, forms.Errors{}))
}

// POST /:storeId/settings
func (h *DashboardHandler) SaveSettings(c *fiber.Ctx) error {
	st := currentStore(c)
	f := forms.StoreForm{Name: c.FormValue("name")}
	if errs := forms.Check(&f); len(errs) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).Render("settings", pageData(c, settingsData(c, f, errs)))
	}
	n, err := h.Stores.Stores.Rename(c.UserContext(), st.ID, userID(c), f.Name)
	if err != nil {
		applog.Error(c, "store.patch", err, map[string]any{"store_id": st.ID})
		data := settingsData(c, f, forms.Errors{})
		data["Toast"] = toasts["failed"]
		return c.Status(fiber.StatusInternalServerError).Render("settings", pageData(c, data))
	}
	applog.Audit(c, "store.patch", map[string]any{"store_id": st.ID, "count": n})
	return saved(c, "/"+st.ID+"/settings", "store", false, n)
}

// POST /:storeId/settings/delete
func (h *DashboardHandler) DeleteStore(c *fiber.Ctx) error {
	st := currentStore(c)
	back := "/" + st.ID + "/settings"
	if c.FormValue("confirm") != "yes" {
		return c.Redirect(back)
	}
	n, err := h.Stores.Stores.Delete(c.UserContext(), st.ID, userID(c))
	if err != nil {
		applog.Error(c, "store.delete", err, map[string]any{"store_id": st.ID})
		flash(c, "store.in_use")
		return c.Redirect(back)
	}
	applog.Audit(c, "store.delete", map[string]any{"store_id": st.ID, "count": n})
	flash(c, "store.deleted")
	return c.Redirect("/")
}
