package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/marlogas/caja-api/pkg/apiErrors"
	"github.com/marlogas/caja-api/pkg/log"
	"github.com/marlogas/caja-api/pkg/middleware"
)

// CronJobTypeOpenRegister verifica cajas esquecidas abertas
const CronJobTypeOpenRegister = "open-register"

// CronJob é satisfeito pelos serviços agendados do pacote scheduler
type CronJob interface {
	TriggerManualSync()
	GetStatus() map[string]any
}

// CronJobServices associa o tipo da URL ao serviço agendado
type CronJobServices map[string]CronJob

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de cron job não especificado", nil)
			return
		}

		job, ok := services[cronType]
		if !ok || job == nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: "+CronJobTypeOpenRegister, nil)
			return
		}

		if claims, ok := middleware.UserFromContext(r.Context()); ok {
			logger = logger.WithField("user_name", claims.Username)
		}
		logger.WithField("cron_type", cronType).Info("Execução manual de cron job")

		job.TriggerManualSync()

		writeJSON(w, http.StatusAccepted, map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		})
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := make(map[string]any, len(services))
		for name, job := range services {
			if job != nil {
				status[name] = job.GetStatus()
			}
		}

		writeJSON(w, http.StatusOK, status)
	}
}
