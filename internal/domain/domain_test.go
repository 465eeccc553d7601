package domain

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestTally(t *testing.T) {
	tests := []struct {
		name            string
		dispatches      []Dispatch
		expectedCash    string
		expectedWallet  string
		expectedSales   string
		expectedUnknown int
	}{
		{
			name:           "Sem despachos",
			expectedCash:   "0",
			expectedWallet: "0",
			expectedSales:  "0",
		},
		{
			name: "Efectivo e Yape",
			dispatches: []Dispatch{
				{Price: money("50"), PaymentMethod: PaymentCash},
				{Price: money("30"), PaymentMethod: PaymentWallet},
				{Price: money("20"), PaymentMethod: PaymentCash},
			},
			expectedCash:   "70",
			expectedWallet: "30",
			expectedSales:  "100",
		},
		{
			name: "Método desconhecido conta mas não soma",
			dispatches: []Dispatch{
				{Price: money("10.10"), PaymentMethod: PaymentCash},
				{Price: money("99"), PaymentMethod: PaymentUnknown},
			},
			expectedCash:    "10.1",
			expectedWallet:  "0",
			expectedSales:   "10.1",
			expectedUnknown: 1,
		},
		{
			name: "Preço negativo é ignorado",
			dispatches: []Dispatch{
				{Price: money("-5"), PaymentMethod: PaymentWallet},
				{Price: money("0.1"), PaymentMethod: PaymentWallet},
				{Price: money("0.2"), PaymentMethod: PaymentWallet},
			},
			expectedCash:   "0",
			expectedWallet: "0.3",
			expectedSales:  "0.3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := Tally(tt.dispatches)

			assert.True(t, money(tt.expectedCash).Equal(summary.CashTotal), summary.CashTotal.String())
			assert.True(t, money(tt.expectedWallet).Equal(summary.WalletTotal), summary.WalletTotal.String())
			assert.True(t, money(tt.expectedSales).Equal(summary.SalesTotal), summary.SalesTotal.String())
			assert.Equal(t, len(tt.dispatches), summary.Count)
			assert.Equal(t, tt.expectedUnknown, summary.UnknownCount)
			assert.True(t, summary.SalesTotal.Equal(summary.CashTotal.Add(summary.WalletTotal)))
			assert.Nil(t, summary.DrawerTotal)
		})
	}
}

func TestParsePaymentMethod(t *testing.T) {
	tests := map[string]PaymentMethod{
		"Efectivo":          PaymentCash,
		" efectivo ":        PaymentCash,
		"cash":              PaymentCash,
		"Yape":              PaymentWallet,
		"YAPE":              PaymentWallet,
		"electronic_wallet": PaymentWallet,
		"Tarjeta":           PaymentUnknown,
		"":                  PaymentUnknown,
	}

	for input, expected := range tests {
		assert.Equal(t, expected, ParsePaymentMethod(input), input)
	}
}

func TestPaymentMethod_JSON(t *testing.T) {
	raw, err := json.Marshal(Dispatch{PaymentMethod: PaymentWallet})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"payment_method":"Yape"`)

	var d Dispatch
	require.NoError(t, json.Unmarshal([]byte(`{"payment_method":"Efectivo"}`), &d))
	assert.Equal(t, PaymentCash, d.PaymentMethod)

	require.NoError(t, json.Unmarshal([]byte(`{"payment_method":7}`), &d))
	assert.Equal(t, PaymentUnknown, d.PaymentMethod)
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		ok       bool
	}{
		{input: "100", expected: "100", ok: true},
		{input: " 12.50 ", expected: "12.5", ok: true},
		{input: "-3", expected: "-3", ok: true},
		{input: "abc"},
		{input: ""},
		{input: "1,5"},
	}

	for _, tt := range tests {
		d, ok := ParseMoney(tt.input)
		assert.Equal(t, tt.ok, ok, tt.input)
		if tt.ok {
			assert.True(t, money(tt.expected).Equal(d), tt.input)
		}
	}
}

func TestValidateMoney(t *testing.T) {
	assert.NoError(t, ValidateMoney("op", "valor", money("0")))
	assert.NoError(t, ValidateMoney("op", "valor", money("10.25")))
	assert.True(t, IsValidation(ValidateMoney("op", "valor", money("-0.01"))))
	assert.True(t, IsValidation(ValidateMoney("op", "valor", money("1.005"))))
}

func TestDateOf(t *testing.T) {
	lima, err := time.LoadLocation("America/Lima")
	require.NoError(t, err)

	// 02:30 UTC do dia 11 ainda é dia 10 em Lima (UTC-5)
	instant := time.Date(2025, 3, 11, 2, 30, 0, 0, time.UTC)

	assert.Equal(t, "2025-03-10", FormatDate(DateOf(instant, lima)))
	assert.Equal(t, "2025-03-11", FormatDate(DateOf(instant, nil)))
	assert.Equal(t, time.UTC, DateOf(instant, lima).Location())

	_, err = ParseBusinessDate("2025-13-01")
	assert.True(t, IsValidation(err))
}

func TestError(t *testing.T) {
	cause := errors.New("conexão recusada")
	err := WrapError(ErrStoreUnavailable, "abrir caja", cause)

	assert.True(t, IsStoreUnavailable(err))
	assert.ErrorIs(t, err, cause)
	assert.False(t, IsConflict(err))
	assert.Equal(t, "abrir caja: armazenamento indisponível: conexão recusada", err.Error())

	detailed := NewError(ErrState, "fechar caja", "caja X já está cerrada")
	assert.Equal(t, "fechar caja: operação inválida para o status atual: caja X já está cerrada", detailed.Error())
}

func TestAsStoreUnavailable(t *testing.T) {
	assert.Nil(t, AsStoreUnavailable("op", nil))

	timeout := AsStoreUnavailable("op", context.DeadlineExceeded)
	assert.True(t, IsStoreUnavailable(timeout))
	assert.ErrorIs(t, timeout, context.DeadlineExceeded)

	other := errors.New("outro")
	assert.Same(t, other, AsStoreUnavailable("op", other))
}
