package handlers

import (
	"encoding/json"
	"errors"
	"time"

	"storeadmin/internal/forms"
	applog "storeadmin/internal/log"
	"storeadmin/internal/services"
	"storeadmin/internal/validate"

	"github.com/gofiber/fiber/v2"
)

const msgBadCreds = "E-mail ou senha inválidos"

type AuthHandler struct {
	Auth         *services.AuthService
	SecureCookie bool
}

// POST /api/auth/token
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return badRequest(c, msgInvalidBody)
	}
	email, ok := validate.Email(body.Email)
	if !ok || !validate.Password(body.Password) {
		applog.Security(c, "auth.login.fail", map[string]any{"reason": "bad_format", "via": "api"})
		return unauthenticated(c)
	}
	tok, u, err := h.Auth.Login(c.UserContext(), email, body.Password)
	if errors.Is(err, services.ErrBadCreds) {
		applog.Security(c, "auth.login.fail", map[string]any{"email": email, "via": "api"})
		return unauthenticated(c)
	}
	if err != nil {
		return internalError(c, "auth.token", err, nil)
	}
	applog.Audit(c, "auth.login.success", map[string]any{"user_id": u.ID, "via": "api"})
	return c.JSON(fiber.Map{"token": tok})
}

func (h *AuthHandler) SignInForm(c *fiber.Ctx) error {
	if userID(c) != "" {
		return c.Redirect("/")
	}
	return render(c, "sign_in", fiber.Map{"Errors": forms.Errors{}})
}

func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	f := forms.SignInForm{Email: c.FormValue("email"), Password: c.FormValue("password")}
	if errs := forms.Check(&f); len(errs) > 0 {
		applog.Security(c, "auth.login.fail", map[string]any{"reason": "bad_format"})
		return c.Status(fiber.StatusUnprocessableEntity).Render("sign_in", pageData(c, fiber.Map{"Email": f.Email, "Errors": errs}))
	}

	tok, u, err := h.Auth.Login(c.UserContext(), f.Email, f.Password)
	if err != nil {
		if !errors.Is(err, services.ErrBadCreds) {
			applog.Error(c, "auth.login.error", err, nil)
		}
		applog.Security(c, "auth.login.fail", map[string]any{"email": f.Email})
		return c.Status(fiber.StatusUnauthorized).Render("sign_in", pageData(c, fiber.Map{"Email": f.Email, "Errors": forms.Errors{"form": msgBadCreds}}))
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    tok,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   h.SecureCookie,
		Expires:  time.Now().Add(h.Auth.TTL),
	})
	applog.Audit(c, "auth.login.success", map[string]any{"user_id": u.ID})
	return c.Redirect("/")
}

func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   h.SecureCookie,
		Expires:  time.Now().Add(-time.Hour),
	})
	applog.Audit(c, "auth.logout", nil)
	return c.Redirect("/sign-in")
}
