package handlers

import (
	"errors"
	"strings"

	"storeadmin/internal/domain"
	applog "storeadmin/internal/log"
	"storeadmin/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie carries the identity token for browser requests.
const SessionCookie = "__session"

// Identify attaches the caller's user id to the request when a valid identity
// token is presented as a bearer token or in the session cookie. It never rejects;
// each handler decides whether an identity is required.
func Identify(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := bearer(c.Get(fiber.HeaderAuthorization))
		if tok == "" {
			tok = c.Cookies(SessionCookie)
		}
		if tok == "" {
			return c.Next()
		}
		uid, err := auth.Verify(tok)
		if err != nil {
			applog.Security(c, "auth.token.invalid", nil)
			return c.Next()
		}
		c.Locals("userId", uid)
		return c.Next()
	}
}

func bearer(h string) string {
	const prefix = "bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}

// userID returns the identity set by Identify, or "" for anonymous callers.
func userID(c *fiber.Ctx) string {
	uid, _ := c.Locals("userId").(string)
	return uid
}

// RequireSession redirects anonymous browser requests to the sign-in page.
func RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID(c) == "" {
			return c.Redirect("/sign-in")
		}
		return c.Next()
	}
}

// RequireStore lets a dashboard request through only when the caller owns :storeId.
func RequireStore(stores *services.StoreService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st, err := stores.Authorize(c.UserContext(), c.Params("storeId"), userID(c))
		if err != nil {
			if errors.Is(err, services.ErrNotOwner) {
				applog.Security(c, "access.denied.store", map[string]any{"store_id": c.Params("storeId")})
				return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Acesso negado"})
			}
			applog.Error(c, "store.authorize.fail", err, nil)
			return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Algo deu errado! Tente novamente!"})
		}
		c.Locals("store", st)
		return c.Next()
	}
}

func currentStore(c *fiber.Ctx) *domain.Store {
	st, _ := c.Locals("store").(*domain.Store)
	return st
}
