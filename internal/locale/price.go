package locale

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// Price renders v in reais, e.g. "R$ 1.234,50".
func Price(v float64) string {
	return ptBR.Sprintf("R$ %.2f", v)
}
