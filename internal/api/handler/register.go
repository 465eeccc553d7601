package handler

import (
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/julienschmidt/httprouter"
	"github.com/marlogas/caja-api/internal/domain"
	"github.com/marlogas/caja-api/internal/usecases/reconciling"
	"github.com/marlogas/caja-api/pkg/apiErrors"
	"github.com/marlogas/caja-api/pkg/log"
)

type OpenRegisterRequest struct {
	OpeningBalance jsoniter.RawMessage `json:"opening_balance"`
}

// GetRegisterToday devolve a tela do dia: caja aberta, despachos e totais
func GetRegisterToday(service reconciling.Reconciler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := service.Today(r.Context())
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Error("Erro ao carregar caja do dia")
			apiErrors.WriteDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, view)
	}
}

// GetOpenRegister busca a caja aberta de uma data (padrão: hoje no fuso do
// negócio). Responde {"session": null} quando não há caja aberta.
func GetOpenRegister(service reconciling.Reconciler, location *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, ok := dateQuery(r, "date", domain.DateOf(time.Now(), location))
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidDate, "date deve estar no formato YYYY-MM-DD", nil)
			return
		}

		session, err := service.GetOpenSession(r.Context(), date)
		if err != nil {
			apiErrors.WriteDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"date":    domain.FormatDate(date),
			"session": session,
		})
	}
}

func OpenRegister(service reconciling.Reconciler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var req OpenRegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		openingBalance, ok := parseAmount(req.OpeningBalance)
		if !ok {
			writeInvalidAmount(w, "opening_balance")
			return
		}

		session, err := service.Open(r.Context(), openingBalance)
		if err != nil {
			logger.WithError(err).Warn("Não foi possível abrir a caja")
			apiErrors.WriteDomainError(w, err)
			return
		}

		logger.WithFields(log.Fields{
			"register_id":   session.ID,
			"business_date": domain.FormatDate(session.BusinessDate),
		}).Info("Caja aberta via API")

		writeJSON(w, http.StatusCreated, session)
	}
}

// CloseRegister fecha a caja recalculando os totais a partir dos despachos
func CloseRegister(service reconciling.Reconciler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da caja não informado", nil)
			return
		}

		session, err := service.CloseDay(r.Context(), id)
		if err != nil {
			log.ForContext(r.Context()).WithError(err).WithField("register_id", id).Warn("Não foi possível fechar a caja")
			apiErrors.WriteDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, session)
	}
}
