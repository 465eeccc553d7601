package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyScale é o número máximo de casas decimais aceito para valores em soles
const MoneyScale = 2

// RoundMoney arredonda um valor para duas casas decimais
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// ParseMoney converte uma string em valor monetário.
// Retorna false quando o texto não é numérico (ex: "abc", "").
func ParseMoney(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ValidateMoney verifica se o valor é não negativo e tem no máximo duas casas decimais
func ValidateMoney(op, field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return NewError(ErrValidation, op, field+" não pode ser negativo")
	}
	if !d.Equal(d.Truncate(MoneyScale)) {
		return NewError(ErrValidation, op, field+" deve ter no máximo duas casas decimais")
	}
	return nil
}
