// Package http assembles the fiber application: middleware, API routes and
// the server-rendered dashboard.
package http

import (
	"errors"
	"strings"
	"time"

	"storeadmin/internal/config"
	"storeadmin/internal/http/handlers"
	applog "storeadmin/internal/log"
	"storeadmin/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"
)

const (
	msgFriendly  = "Algo deu errado! Tente novamente!"
	maxBodyBytes = 1 << 20
)

// Limits tunes the rate limiters. Zero values fall back to DefaultLimits.
type Limits struct {
	Global    int
	Token     int
	SignIn    int
	Window    time.Duration
	SignInTTL time.Duration
}

var DefaultLimits = Limits{
	Global:    120,
	Token:     5,
	SignIn:    5,
	Window:    time.Minute,
	SignInTTL: 10 * time.Minute,
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits
	if l.Global > 0 {
		d.Global = l.Global
	}
	if l.Token > 0 {
		d.Token = l.Token
	}
	if l.SignIn > 0 {
		d.SignIn = l.SignIn
	}
	if l.Window > 0 {
		d.Window = l.Window
	}
	if l.SignInTTL > 0 {
		d.SignInTTL = l.SignInTTL
	}
	return d
}

func isAPI(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), "/api/")
}

// NewApp wires every route onto a fresh fiber app.
func NewApp(cfg config.Config, db *sqlx.DB, auth *services.AuthService, limits Limits) *fiber.App {
	limits = limits.withDefaults()
	engine := html.New(cfg.TemplatesDir, ".html")
	engine.Reload(!cfg.Production())

	app := fiber.New(fiber.Config{
		Views:     engine,
		BodyLimit: maxBodyBytes,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) && fe.Code < code {
				return c.Status(fe.Code).SendString(fe.Message)
			}
			applog.Error(c, "server.error", err, nil)
			if isAPI(c) {
				return c.Status(code).SendString("Internal Server Error")
			}
			if rerr := c.Status(code).Render("notfound", fiber.Map{"Message": msgFriendly}); rerr != nil {
				return c.Status(code).SendString(msgFriendly)
			}
			return nil
		},
	})

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(accessLog())
	app.Use(helmet.New())
	app.Use(handlers.Identify(auth))
	app.Use(limiter.New(limiter.Config{
		Max:        limits.Global,
		Expiration: limits.Window,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).SendString("Too Many Requests")
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   cfg.CookieSecure,
		ContextKey:     "csrf",
		Next:           isAPI,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Falha na verificação de segurança. Recarregue a página."})
		},
	}))

	deps := handlers.NewDeps(db, cfg, auth)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })

	// ---------- Identity ----------
	app.Get("/sign-in", deps.AuthHandler.SignInForm)
	app.Post("/sign-in", limiter.New(limiter.Config{
		Max:          limits.SignIn,
		Expiration:   limits.SignInTTL,
		KeyGenerator: func(c *fiber.Ctx) string { return c.IP() + "|sign-in" },
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("sign_in", fiber.Map{
				"Errors": map[string]string{"form": "Muitas tentativas. Tente novamente mais tarde."},
			})
		},
	}), deps.AuthHandler.SignIn)
	app.Post("/sign-out", deps.AuthHandler.SignOut)

	// ---------- API ----------
	api := app.Group("/api")
	api.Post("/auth/token", limiter.New(limiter.Config{
		Max:          limits.Token,
		Expiration:   limits.Window,
		KeyGenerator: func(c *fiber.Ctx) string { return c.IP() + "|token" },
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.token.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).SendString("Too Many Requests")
		},
	}), deps.AuthHandler.Token)

	api.Post("/stores", deps.StoreHandler.Create)
	api.Get("/stores/:storeId", deps.StoreHandler.Get)
	api.Patch("/stores/:storeId", deps.StoreHandler.Update)
	api.Delete("/stores/:storeId", deps.StoreHandler.Delete)

	resource(api, "billboards", "billboardId", deps.BillboardHandler)
	resource(api, "categories", "categoryId", deps.CategoryHandler)
	resource(api, "colors", "colorId", deps.ColorHandler)
	resource(api, "sizes", "sizeId", deps.SizeHandler)
	resource(api, "products", "productId", deps.ProductHandler)

	api.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).SendString("Not Found")
	})

	// ---------- Dashboard ----------
	session := handlers.RequireSession()
	owned := []fiber.Handler{session, handlers.RequireStore(deps.Stores)}
	page := func(h fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, owned...), h)
	}
	dash := deps.Dashboard

	app.Get("/", session, dash.Setup)
	app.Post("/", session, dash.CreateStore)
	app.Get("/:storeId", page(dash.Overview)...)
	app.Get("/:storeId/settings", page(dash.Settings)...)
	app.Post("/:storeId/settings", page(dash.SaveSettings)...)
	app.Post("/:storeId/settings/delete", page(dash.DeleteStore)...)

	pages := func(name, param string, list, form, save, del fiber.Handler) {
		base := "/:storeId/" + name
		item := base + "/:" + param
		app.Get(base, page(list)...)
		app.Get(item, page(form)...)
		app.Post(item, page(save)...)
		app.Post(item+"/delete", page(del)...)
	}
	pages("billboards", "billboardId", dash.Billboards, dash.BillboardForm, dash.SaveBillboard, dash.DeleteBillboard)
	pages("categories", "categoryId", dash.Categories, dash.CategoryForm, dash.SaveCategory, dash.DeleteCategory)
	pages("colors", "colorId", dash.Colors, dash.ColorForm, dash.SaveColor, dash.DeleteColor)
	pages("sizes", "sizeId", dash.Sizes, dash.SizeForm, dash.SaveSize, dash.DeleteSize)
	pages("products", "productId", dash.Products, dash.ProductForm, dash.SaveProduct, dash.DeleteProduct)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Página não encontrada"})
	})
	return app
}

// crud is the handler set every store-scoped API resource exposes.
type crud interface {
	List(*fiber.Ctx) error
	Create(*fiber.Ctx) error
	Get(*fiber.Ctx) error
	Update(*fiber.Ctx) error
	Delete(*fiber.Ctx) error
}

func resource(r fiber.Router, name, param string, h crud) {
	base := "/:storeId/" + name
	item := base + "/:" + param
	r.Get(base, h.List)
	r.Post(base, h.Create)
	r.Get(item, h.Get)
	r.Patch(item, h.Update)
	r.Delete(item, h.Delete)
}

func accessLog() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		applog.Info(c, "http.access", map[string]any{"latency_ms": time.Since(start).Milliseconds()})
		return err
	}
}
