package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterStatus descreve o ciclo de vida da caja: open -> closed, sem volta
type RegisterStatus string

const (
	RegisterOpen   RegisterStatus = "aperturada"
	RegisterClosed RegisterStatus = "cerrada"
)

// ClosingSnapshot congela os totais no momento do fechamento
type ClosingSnapshot struct {
	CashTotal   decimal.Decimal `json:"cash_total"`
	WalletTotal decimal.Decimal `json:"wallet_total"`
	DrawerTotal decimal.Decimal `json:"drawer_total"` // monto inicial + efectivo
}

// RegisterSession é a caja de um dia de negócio
type RegisterSession struct {
	ID             string           `json:"id"`
	BusinessDate   time.Time        `json:"business_date"`
	OpeningBalance decimal.Decimal  `json:"opening_balance"`
	Status         RegisterStatus   `json:"status"`
	Snapshot       *ClosingSnapshot `json:"snapshot,omitempty"`
	OpenedAt       time.Time        `json:"opened_at"`
	ClosedAt       *time.Time       `json:"closed_at,omitempty"`
}

func (r *RegisterSession) IsOpen() bool {
	return r.Status == RegisterOpen
}

// RegisterUpdate são os campos gravados no fechamento da caja
type RegisterUpdate struct {
	Status   RegisterStatus
	Snapshot ClosingSnapshot
	ClosedAt time.Time
}
