package handler

import (
	"net/http"
	"time"

	"github.com/marlogas/caja-api/internal/domain"
	"github.com/marlogas/caja-api/internal/usecases/reporting"
	"github.com/marlogas/caja-api/pkg/apiErrors"
	"github.com/marlogas/caja-api/pkg/log"
)

// GetSalesReport aceita start, end, product, q, sort, dir, page e page_size.
// Sem datas o relatório cobre o dia atual.
func GetSalesReport(service reporting.Reporter, location *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		today := domain.DateOf(time.Now(), location)

		start, ok := dateQuery(r, "start", today)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidDate, "start deve estar no formato YYYY-MM-DD", nil)
			return
		}

		end, ok := dateQuery(r, "end", today)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidDate, "end deve estar no formato YYYY-MM-DD", nil)
			return
		}

		page, ok := intQuery(r, "page", 1)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "page deve ser um número inteiro", nil)
			return
		}

		pageSize, ok := intQuery(r, "page_size", 0)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "page_size deve ser um número inteiro", nil)
			return
		}

		query := r.URL.Query()

		product, err := reporting.ParseProductType(query.Get("product"))
		if err != nil {
			apiErrors.WriteDomainError(w, err)
			return
		}

		sortField, err := reporting.ParseSortField(query.Get("sort"))
		if err != nil {
			apiErrors.WriteDomainError(w, err)
			return
		}

		direction, err := reporting.ParseSortDirection(query.Get("dir"))
		if err != nil {
			apiErrors.WriteDomainError(w, err)
			return
		}

		report, err := service.Report(r.Context(), reporting.ReportQuery{
			Start:     start,
			End:       end,
			Product:   product,
			Text:      query.Get("q"),
			SortField: sortField,
			Direction: direction,
			Page:      page,
			PageSize:  pageSize,
		})
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Error("Erro ao gerar relatório de vendas")
			apiErrors.WriteDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, report)
	}
}

func GetDashboard(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dashboard, err := service.Dashboard(r.Context())
		if err != nil {
			apiErrors.WriteDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, dashboard)
	}
}
