package main

import (
	"testing"
	"time"

	"github.com/marlogas/caja-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDispatch(t *testing.T) {
	lima, err := time.LoadLocation("America/Lima")
	require.NoError(t, err)

	raw := []byte(`[
		{"cliente":" Ana ","direccion":"Jr. Lima 123","gas":1,"agua":0,"precio":"45.5","metodo_pago":"Yape","cilindro":1,"observaciones":"","creado_en":"2025-03-10T21:30:00"},
		{"cliente":"Beto","direccion":"Av. Sol 9","gas":0,"agua":2,"precio":12,"metodo_pago":"Efectivo","creado_en":"2025-03-11T02:10:00Z"},
		{"cliente":"Caio","direccion":"Calle 5","gas":1,"agua":0,"precio":"abc","metodo_pago":"Tarjeta","creado_en":"2025-03-10T10:00:00"}
	]`)

	var rows []legacyDispatch
	require.NoError(t, json.Unmarshal(raw, &rows))
	require.Len(t, rows, 3)

	t.Run("texto com horário local", func(t *testing.T) {
		d, err := toDispatch(rows[0], lima)
		require.NoError(t, err)
		assert.Equal(t, "Ana", d.Client)
		assert.True(t, decimal.RequireFromString("45.5").Equal(d.Price))
		assert.Equal(t, domain.PaymentWallet, d.PaymentMethod)
		assert.Equal(t, "2025-03-10", domain.FormatDate(d.BusinessDate))
	})

	t.Run("UTC depois da meia-noite ainda é o dia anterior em Lima", func(t *testing.T) {
		d, err := toDispatch(rows[1], lima)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(12).Equal(d.Price))
		assert.Equal(t, domain.PaymentCash, d.PaymentMethod)
		assert.Equal(t, "2025-03-10", domain.FormatDate(d.BusinessDate))
	})

	t.Run("preço ilegível e método desconhecido", func(t *testing.T) {
		d, err := toDispatch(rows[2], lima)
		require.NoError(t, err)
		assert.True(t, d.Price.IsZero())
		assert.Equal(t, domain.PaymentUnknown, d.PaymentMethod)
	})

	t.Run("data inválida", func(t *testing.T) {
		_, err := toDispatch(legacyDispatch{CreadoEn: "ontem"}, lima)
		assert.Error(t, err)
	})
}
