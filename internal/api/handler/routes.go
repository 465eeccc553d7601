package handler

import (
	"net/http"
	"time"

	"github.com/marlogas/caja-api/internal/api/handler/router"
	"github.com/marlogas/caja-api/internal/usecases/authenticating"
	"github.com/marlogas/caja-api/internal/usecases/dispatching"
	"github.com/marlogas/caja-api/internal/usecases/reconciling"
	"github.com/marlogas/caja-api/internal/usecases/reporting"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Healthcheck(pinger Pinger) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(pinger),
		},
	}
}

func Metrics(gatherer prometheus.Gatherer) []router.Route {
	return []router.Route{
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:    "/v1/me",
			Method:  http.MethodGet,
			Handler: GetMe(),
		},
	}
}

// Register agrupa as rotas da caja. O fechamento fica em /close/:id porque
// o httprouter não aceita wildcard e rota estática no mesmo nível.
func Register(service reconciling.Reconciler, location *time.Location) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/register/today",
			Method:  http.MethodGet,
			Handler: GetRegisterToday(service),
		},
		{
			Path:    "/v1/register/open",
			Method:  http.MethodGet,
			Handler: GetOpenRegister(service, location),
		},
		{
			Path:    "/v1/register/open",
			Method:  http.MethodPost,
			Handler: OpenRegister(service),
		},
		{
			Path:    "/v1/register/close/:id",
			Method:  http.MethodPost,
			Handler: CloseRegister(service),
		},
	}
}

func Dispatches(service dispatching.Dispatcher, location *time.Location) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/dispatches",
			Method:  http.MethodPost,
			Handler: CreateDispatch(service),
		},
		{
			Path:    "/v1/dispatches",
			Method:  http.MethodGet,
			Handler: ListDispatches(service, location),
		},
	}
}

func Reports(service reporting.Reporter, location *time.Location) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/reports/sales",
			Method:  http.MethodGet,
			Handler: GetSalesReport(service, location),
		},
		{
			Path:    "/v1/dashboard",
			Method:  http.MethodGet,
			Handler: GetDashboard(service),
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/cron/:type/run",
			Method:  http.MethodPost,
			Handler: RunCronJob(services),
		},
		{
			Path:    "/v1/cron/status",
			Method:  http.MethodGet,
			Handler: GetCronStatus(services),
		},
	}
}
