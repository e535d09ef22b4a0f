// Package access reúne os utilitários puros do fluxo de compra: geração do
// token opaco de acesso, cálculo do prazo de expiração e validação do email
// do comprador. É compartilhado pelo checkout e pelo validador de acesso.
package access

import (
	"math/rand/v2"
	"regexp"
	"time"
)

// Alfabeto de 62 símbolos do token de acesso.
const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// DefaultTokenLength é o tamanho padrão do token (espaço de chaves 62^32).
const DefaultTokenLength = 32

// DefaultExpiryMinutes é a janela padrão de validade do acesso.
const DefaultExpiryMinutes = 30

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// GenerateToken produz um token sorteando `length` caracteres do alfabeto
// alfanumérico. A fonte não é criptográfica; quem precisar de garantia de
// imprevisibilidade deve trocar por crypto/rand.
func GenerateToken(length int) string {
	if length <= 0 {
		length = DefaultTokenLength
	}
	b := make([]byte, length)
	for i := range b {
		b[i] = tokenAlphabet[rand.IntN(len(tokenAlphabet))]
	}
	return string(b)
}

// ComputeExpiry retorna o instante de expiração: agora (UTC) + minutos.
func ComputeExpiry(minutes int) time.Time {
	return ExpiryFrom(time.Now(), minutes)
}

// ExpiryFrom calcula a expiração a partir de um instante de referência.
// Separado de ComputeExpiry para permitir relógio injetado nos serviços.
func ExpiryFrom(now time.Time, minutes int) time.Time {
	if minutes <= 0 {
		minutes = DefaultExpiryMinutes
	}
	return now.UTC().Add(time.Duration(minutes) * time.Minute)
}

// IsValidEmail verifica o formato básico local@dominio.tld, sem espaços.
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}
