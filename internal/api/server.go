package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/marlogas/caja-api/internal/api/handler"
	"github.com/marlogas/caja-api/internal/api/handler/router"
	"github.com/marlogas/caja-api/internal/config"
	"github.com/marlogas/caja-api/internal/metrics"
	"github.com/marlogas/caja-api/internal/usecases/authenticating"
	"github.com/marlogas/caja-api/internal/usecases/dispatching"
	"github.com/marlogas/caja-api/internal/usecases/reconciling"
	"github.com/marlogas/caja-api/internal/usecases/reporting"
	"github.com/marlogas/caja-api/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

// Services reúne os casos de uso expostos pela API
type Services struct {
	Authenticator authenticating.Authenticator
	Reconciler    reconciling.Reconciler
	Dispatcher    dispatching.Dispatcher
	Reporter      reporting.Reporter
	CronJobs      handler.CronJobServices
	Metrics       *metrics.Metrics
	Gatherer      prometheus.Gatherer
	Pinger        handler.Pinger // nil com o driver em memória
}

func New(config *config.Config, services Services) (*Server, error) {
	if services.Gatherer == nil {
		services.Gatherer = prometheus.DefaultGatherer
	}

	location := config.App.Location

	rt := router.New(
		router.WithRouteMiddleware(func(route router.Route) func(http.Handler) http.Handler {
			return middleware.MetricsMiddleware(services.Metrics, route.Path)
		}),
		router.WithRoutes(handler.Healthcheck(services.Pinger)...),
		router.WithRoutes(handler.Metrics(services.Gatherer)...),
		router.WithRoutes(handler.Authentication(services.Authenticator)...),
		router.WithRoutes(handler.Register(services.Reconciler, location)...),
		router.WithRoutes(handler.Dispatches(services.Dispatcher, location)...),
		router.WithRoutes(handler.Reports(services.Reporter, location)...),
		router.WithRoutes(handler.CronJobs(services.CronJobs)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(config.Server.AllowedOrigins),
		middleware.AuthMiddleware(services.Authenticator),
	}

	handler := alice.New(middlewares...).Then(rt)

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           handler,
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

// Handler expõe a cadeia completa de middlewares e rotas
func (s Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"timeout": "15s",
	}).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	logrus.Info("Servidor HTTP desligado com sucesso")
	return nil
}
