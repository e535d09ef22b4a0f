// Package brl formata valores monetários no padrão brasileiro (R$ 27,90).
package brl

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// Format converte um preço para o formato de moeda brasileira.
func Format(value float64) string {
	return printer.Sprintf("R$ %.2f", value)
}
