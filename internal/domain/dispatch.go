// Package domain contém as estruturas de dados do domínio da aplicação
package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod é o método de pagamento de um despacho
type PaymentMethod int

const (
	PaymentUnknown PaymentMethod = iota
	PaymentCash
	PaymentWallet // Yape
)

// Valores gravados no banco e trafegados na API
const (
	paymentCashLabel   = "Efectivo"
	paymentWalletLabel = "Yape"
)

// ParsePaymentMethod interpreta o método de pagamento sem diferenciar maiúsculas.
// Valores desconhecidos viram PaymentUnknown em vez de erro.
func ParsePaymentMethod(s string) PaymentMethod {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "efectivo", "cash":
		return PaymentCash
	case "yape", "wallet", "electronic_wallet":
		return PaymentWallet
	default:
		return PaymentUnknown
	}
}

func (p PaymentMethod) String() string {
	switch p {
	case PaymentCash:
		return paymentCashLabel
	case PaymentWallet:
		return paymentWalletLabel
	default:
		return "Desconocido"
	}
}

func (p PaymentMethod) Valid() bool {
	return p == PaymentCash || p == PaymentWallet
}

func (p PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *PaymentMethod) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*p = PaymentUnknown
		return nil
	}
	*p = ParsePaymentMethod(s)
	return nil
}

// Dispatch é um despacho (entrega de gás e/ou água). Imutável depois de criado.
type Dispatch struct {
	ID            string          `json:"id"`
	Client        string          `json:"client"`
	Address       string          `json:"address"`
	Gas           int             `json:"gas"`
	Water         int             `json:"water"`
	Price         decimal.Decimal `json:"price"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Cylinders     *int            `json:"cylinders,omitempty"` // Cilindros emprestados
	Notes         string          `json:"notes"`
	BusinessDate  time.Time       `json:"business_date"`
	CreatedAt     time.Time       `json:"created_at"`
}
