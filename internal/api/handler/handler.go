package handler

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/marlogas/caja-api/internal/domain"
	"github.com/marlogas/caja-api/pkg/apiErrors"
	"github.com/marlogas/caja-api/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Error("Erro ao enviar resposta")
	}
}

// parseAmount aceita o valor como número ou texto ("100.50").
// Ausente, vazio ou não numérico devolve false.
func parseAmount(raw jsoniter.RawMessage) (decimal.Decimal, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, false
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero, false
		}
		return domain.ParseMoney(s)
	}

	return domain.ParseMoney(string(raw))
}

// writeInvalidAmount responde VAL_004 para valores monetários ilegíveis
func writeInvalidAmount(w http.ResponseWriter, field string) {
	apiErrors.WriteError(w, apiErrors.ErrInvalidAmount, field+" deve ser um valor numérico", nil)
}

// dateQuery lê um parâmetro YYYY-MM-DD da query string
func dateQuery(r *http.Request, name string, fallback time.Time) (time.Time, bool) {
	date, err := utils.ParseDate(r.URL.Query().Get(name), fallback)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

// intQuery lê um inteiro da query string; vazio devolve fallback
func intQuery(r *http.Request, name string, fallback int) (int, bool) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return fallback, true
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return n, true
}
