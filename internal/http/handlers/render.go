package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const toastCookie = "toast"

// toasts maps the one-shot toast cookie value to the message shown on the next page.
var toasts = map[string]string{
	"billboard.created": "Painel criado!",
	"billboard.updated": "Painel atualizado!",
	"billboard.deleted": "Painel deletado!",
	"billboard.in_use":  "Primeiro remova todas as categorias e produtos.",
	"category.created":  "Categoria criada!",
	"category.updated":  "Categoria atualizada!",
	"category.deleted":  "Categoria deletada!",
	"category.in_use":   "Primeiro remova todos os produtos desta categoria.",
	"color.created":     "Cor criada!",
	"color.updated":     "Cor atualizada!",
	"color.deleted":     "Cor deletada!",
	"color.in_use":      "Primeiro remova todos os produtos que usam esta cor.",
	"size.created":      "Tamanho criado!",
	"size.updated":      "Tamanho atualizado!",
	"size.deleted":      "Tamanho deletado!",
	"size.in_use":       "Primeiro remova todos os produtos que usam este tamanho.",
	"product.created":   "Produto criado!",
	"product.updated":   "Produto atualizado!",
	"product.deleted":   "Produto deletado!",
	"store.created":     "Loja criada!",
	"store.updated":     "Loja atualizada!",
	"store.deleted":     "Loja deletada!",
	"store.in_use":      "Primeiro remova todos os produtos e categorias.",
	"missing":           "Registro não encontrado.",
	"failed":            "Algo deu errado! Tente novamente!",
}

// flash queues a toast for the next rendered page.
func flash(c *fiber.Ctx, key string) {
	c.Cookie(&fiber.Cookie{
		Name:     toastCookie,
		Value:    key,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// pageData fills in the layout fields every page needs.
func pageData(c *fiber.Ctx, data fiber.Map) fiber.Map {
	if data == nil {
		data = fiber.Map{}
	}
	if uid := userID(c); uid != "" {
		data["UserID"] = uid
	}
	if st := currentStore(c); st != nil {
		data["Store"] = st
	}
	// The csrf middleware stores the token under ContextKey; fall back to the cookie.
	tok, _ := c.Locals("csrf").(string)
	if tok == "" {
		tok = c.Cookies("csrf_")
	}
	data["CSRFToken"] = tok
	return data
}

// render draws tmpl with the layout fields and consumes any queued toast.
func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	data = pageData(c, data)
	if key := c.Cookies(toastCookie); key != "" {
		if msg, ok := toasts[key]; ok {
			data["Toast"] = msg
		}
		c.Cookie(&fiber.Cookie{
			Name:     toastCookie,
			Value:    "",
			Path:     "/",
			HTTPOnly: true,
			Expires:  time.Now().Add(-time.Hour),
		})
	}
	return c.Render(tmpl, data)
}
