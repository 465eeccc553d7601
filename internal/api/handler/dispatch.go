package handler

import (
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/marlogas/caja-api/internal/domain"
	"github.com/marlogas/caja-api/internal/usecases/dispatching"
	"github.com/marlogas/caja-api/pkg/apiErrors"
	"github.com/marlogas/caja-api/pkg/log"
)

type CreateDispatchRequest struct {
	Client        string              `json:"client"`
	Address       string              `json:"address"`
	Gas           int                 `json:"gas"`
	Water         int                 `json:"water"`
	Price         jsoniter.RawMessage `json:"price"`
	PaymentMethod string              `json:"payment_method"`
	Cylinders     *int                `json:"cylinders"`
	Notes         string              `json:"notes"`
}

func CreateDispatch(service dispatching.Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateDispatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		price, ok := parseAmount(req.Price)
		if !ok {
			writeInvalidAmount(w, "price")
			return
		}

		dispatch, err := service.Register(r.Context(), dispatching.NewDispatch{
			Client:        req.Client,
			Address:       req.Address,
			Gas:           req.Gas,
			Water:         req.Water,
			Price:         price,
			PaymentMethod: req.PaymentMethod,
			Cylinders:     req.Cylinders,
			Notes:         req.Notes,
		})
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Warn("Despacho recusado")
			apiErrors.WriteDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, dispatch)
	}
}

// ListDispatches lista os despachos de uma data (padrão: hoje)
func ListDispatches(service dispatching.Dispatcher, location *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, ok := dateQuery(r, "date", domain.DateOf(time.Now(), location))
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidDate, "date deve estar no formato YYYY-MM-DD", nil)
			return
		}

		dispatches, err := service.ListByDate(r.Context(), date)
		if err != nil {
			apiErrors.WriteDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"date":       domain.FormatDate(date),
			"dispatches": dispatches,
			"summary":    domain.Tally(dispatches),
		})
	}
}
