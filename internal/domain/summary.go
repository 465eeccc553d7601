package domain

import "github.com/shopspring/decimal"

// Summary agrega os despachos por método de pagamento
type Summary struct {
	CashTotal    decimal.Decimal  `json:"cash_total"`
	WalletTotal  decimal.Decimal  `json:"wallet_total"`
	SalesTotal   decimal.Decimal  `json:"sales_total"`
	DrawerTotal  *decimal.Decimal `json:"drawer_total,omitempty"` // Apenas para caja
	Count        int              `json:"count"`
	UnknownCount int              `json:"unknown_count"`
}

// Tally soma os preços por método de pagamento. Registros com método
// desconhecido entram na contagem mas não em nenhum subtotal, e preços
// negativos gravados por engano são ignorados; um registro ruim não pode
// impedir o fechamento do dia.
func Tally(dispatches []Dispatch) Summary {
	cash := decimal.Zero
	wallet := decimal.Zero
	unknown := 0

	for _, d := range dispatches {
		price := d.Price
		if price.IsNegative() {
			price = decimal.Zero
		}

		switch d.PaymentMethod {
		case PaymentCash:
			cash = cash.Add(price)
		case PaymentWallet:
			wallet = wallet.Add(price)
		default:
			unknown++
		}
	}

	cash = RoundMoney(cash)
	wallet = RoundMoney(wallet)

	return Summary{
		CashTotal:    cash,
		WalletTotal:  wallet,
		SalesTotal:   cash.Add(wallet),
		Count:        len(dispatches),
		UnknownCount: unknown,
	}
}
