// Package forms holds the typed values behind each dashboard form and the
// schema that must accept them before a handler is allowed to write.
package forms

import (
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"storeadmin/internal/validate"

	"github.com/go-playground/validator/v10"
)

// Errors maps a form field name to its localized message.
type Errors map[string]string

func (e Errors) Has(field string) bool { _, ok := e[field]; return ok }

var (
	once    sync.Once
	checker *validator.Validate
)

// rules are the custom tags shared with the API handlers, so both paths accept the same values.
var rules = map[string]validator.Func{
	"hexrgb": func(fl validator.FieldLevel) bool {
		_, ok := validate.HexColor(fl.Field().String())
		return ok
	},
	"httpurl": func(fl validator.FieldLevel) bool {
		_, ok := validate.ImageURL(fl.Field().String())
		return ok
	},
	"refid": func(fl validator.FieldLevel) bool {
		_, ok := validate.ID(fl.Field().String())
		return ok
	},
	"price": func(fl validator.FieldLevel) bool {
		_, ok := ParsePrice(fl.Field().String())
		return ok
	},
}

func schema() *validator.Validate {
	once.Do(func() {
		checker = validator.New()
		checker.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		for tag, fn := range rules {
			if err := checker.RegisterValidation(tag, fn); err != nil {
				panic(err)
			}
		}
	})
	return checker
}

// messages is looked up by "field.tag" first and then by tag.
var messages = map[string]string{
	"required":   "Campo obrigatório",
	"httpurl":    "Informe uma URL válida",
	"hexrgb":     "Informe uma cor hexadecimal válida (ex.: #FF0000)",
	"refid":      "Selecione uma opção válida",
	"price":      "Informe um preço maior que zero",
	"email":      "Informe um e-mail válido",
	"min":        "Valor muito curto",
	"max":        "Valor muito longo",
	"images.min": "Adicione ao menos uma imagem",
	"images.max": "No máximo 10 imagens",
}

// Check trims the form and validates it. A nil result means the form is valid.
func Check(f Form) Errors {
	f.Trim()
	err := schema().Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{"_": "Formulário inválido"}
	}
	out := Errors{}
	for _, fe := range verrs {
		field := fe.Field()
		// dive errors arrive as images[2]
		if i := strings.IndexByte(field, '['); i >= 0 {
			field = field[:i]
		}
		msg, ok := messages[field+"."+fe.Tag()]
		if !ok {
			if msg, ok = messages[fe.Tag()]; !ok {
				msg = "Valor inválido"
			}
		}
		if _, seen := out[field]; !seen {
			out[field] = msg
		}
	}
	return out
}

// Form is implemented by every dashboard form value.
type Form interface {
	Trim()
}

type StoreForm struct {
	Name string `form:"name" validate:"required,max=100"`
}

func (f *StoreForm) Trim() { f.Name = strings.TrimSpace(f.Name) }

type BillboardForm struct {
	Label    string `form:"label" validate:"required,max=100"`
	ImageURL string `form:"imageUrl" validate:"required,httpurl"`
}

func (f *BillboardForm) Trim() {
	f.Label = strings.TrimSpace(f.Label)
	f.ImageURL = strings.TrimSpace(f.ImageURL)
}

type CategoryForm struct {
	Name        string `form:"name" validate:"required,max=100"`
	BillboardID string `form:"billboardId" validate:"required,refid"`
}

func (f *CategoryForm) Trim() {
	f.Name = strings.TrimSpace(f.Name)
	f.BillboardID = strings.TrimSpace(f.BillboardID)
}

type ColorForm struct {
	Name  string `form:"name" validate:"required,max=50"`
	Value string `form:"value" validate:"required,hexrgb"`
}

func (f *ColorForm) Trim() {
	f.Name = strings.TrimSpace(f.Name)
	f.Value = strings.TrimSpace(f.Value)
}

type SizeForm struct {
	Name  string `form:"name" validate:"required,max=50"`
	Value string `form:"value" validate:"required,max=20"`
}

func (f *SizeForm) Trim() {
	f.Name = strings.TrimSpace(f.Name)
	f.Value = strings.TrimSpace(f.Value)
}

// ProductForm takes its images from a textarea with one URL per line.
type ProductForm struct {
	Name       string   `form:"name" validate:"required,max=100"`
	Price      string   `form:"price" validate:"required,price"`
	CategoryID string   `form:"categoryId" validate:"required,refid"`
	ColorID    string   `form:"colorId" validate:"required,refid"`
	SizeID     string   `form:"sizeId" validate:"required,refid"`
	Images     []string `form:"images" validate:"min=1,max=10,dive,httpurl"`
	IsFeatured bool     `form:"isFeatured"`
	IsArchived bool     `form:"isArchived"`
}

func (f *ProductForm) Trim() {
	f.Name = strings.TrimSpace(f.Name)
	f.Price = strings.TrimSpace(f.Price)
	f.CategoryID = strings.TrimSpace(f.CategoryID)
	f.ColorID = strings.TrimSpace(f.ColorID)
	f.SizeID = strings.TrimSpace(f.SizeID)
	images := f.Images[:0]
	for _, img := range f.Images {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}
	f.Images = images
}

// SplitLines turns the images textarea into one entry per line.
func SplitLines(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == '\n' || r == '\r' })
}

// ParsePrice accepts "59.90" and "59,90" and rejects anything not greater than zero.
func ParsePrice(s string) (float64, bool) {
	p, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(s), ",", ".", 1), 64)
	if err != nil || math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 {
		return 0, false
	}
	return p, true
}

type SignInForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=8,max=72"`
}

func (f *SignInForm) Trim() { f.Email = strings.TrimSpace(f.Email) }
