package repository

import (
	"strings"
	"testing"

	"github.com/marlogas/caja-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationPayload_ObservacoesLongas(t *testing.T) {
	dispatch := domain.Dispatch{
		ID:            "aB3dE5gH7jK9",
		Client:        "Ana",
		Address:       "Av. Grau 20",
		Price:         decimal.NewFromInt(48),
		PaymentMethod: domain.PaymentCash,
		Notes:         strings.Repeat("x", 10000),
	}

	payload := notificationPayload(dispatch)

	assert.Equal(t, "aB3dE5gH7jK9", payload)
	assert.Less(t, len(payload), 8000)
	assert.Equal(t, dispatch.ID, DispatchFromNotification(payload).ID)
}

func TestDispatchFromNotification(t *testing.T) {
	assert.Equal(t, "aB3dE5gH7jK9", DispatchFromNotification(" aB3dE5gH7jK9\n").ID)
	assert.Empty(t, DispatchFromNotification("").ID)
}

func TestSubscribers_PublishERemocao(t *testing.T) {
	subs := NewSubscribers()

	var got []string
	unsubscribe := subs.Add(func(d domain.Dispatch) { got = append(got, d.ID) })

	subs.Publish(domain.Dispatch{ID: "a"})
	unsubscribe()
	subs.Publish(domain.Dispatch{ID: "b"})

	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0])
}
