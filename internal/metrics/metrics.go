// Package metrics expõe os contadores da caja e a latência HTTP para o Prometheus
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	registerOpened    prometheus.Counter
	registerClosed    prometheus.Counter
	registerConflicts prometheus.Counter
	storeUnavailable  *prometheus.CounterVec
	openRegisterAlert prometheus.Gauge
	dispatchesCreated prometheus.Counter

	httpDuration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	return NewMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegisterer permite registros isolados nos testes
func NewMetricsWithRegisterer(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &Metrics{
		registerOpened: register(registerer, "marlogas_register_opened_total", prometheus.NewCounter(prometheus.CounterOpts{
			Name: "marlogas_register_opened_total",
			Help: "Total de cajas abertas",
		})),
		registerClosed: register(registerer, "marlogas_register_closed_total", prometheus.NewCounter(prometheus.CounterOpts{
			Name: "marlogas_register_closed_total",
			Help: "Total de cajas fechadas",
		})),
		registerConflicts: register(registerer, "marlogas_register_conflicts_total", prometheus.NewCounter(prometheus.CounterOpts{
			Name: "marlogas_register_conflicts_total",
			Help: "Tentativas de abrir uma segunda caja na mesma data",
		})),
		storeUnavailable: register(registerer, "marlogas_store_unavailable_total", prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marlogas_store_unavailable_total",
			Help: "Falhas de armazenamento por operação",
		}, []string{"operation"})),
		openRegisterAlert: register(registerer, "marlogas_open_register_alert", prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "marlogas_open_register_alert",
			Help: "1 quando a última verificação encontrou caja aberta fora do horário",
		})),
		dispatchesCreated: register(registerer, "marlogas_dispatches_created_total", prometheus.NewCounter(prometheus.CounterOpts{
			Name: "marlogas_dispatches_created_total",
			Help: "Total de despachos registrados",
		})),
		httpDuration: register(registerer, "marlogas_http_request_duration_seconds", prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "marlogas_http_request_duration_seconds",
			Help:    "Duração das requisições HTTP em segundos",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"})),
	}
}

// register tolera coletores já registrados, devolvendo o existente
func register[T prometheus.Collector](registerer prometheus.Registerer, name string, collector T) T {
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(T)
			if !ok {
				panic(fmt.Sprintf("coletor %q já registrado com tipo inesperado", name))
			}
			return existing
		}
		panic(fmt.Sprintf("erro ao registrar coletor %q: %v", name, err))
	}
	return collector
}

func (m *Metrics) RecordRegisterOpened() {
	m.registerOpened.Inc()
}

func (m *Metrics) RecordRegisterClosed() {
	m.registerClosed.Inc()
}

func (m *Metrics) RecordRegisterConflict() {
	m.registerConflicts.Inc()
}

func (m *Metrics) RecordStoreUnavailable(operation string) {
	m.storeUnavailable.WithLabelValues(operation).Inc()
}

func (m *Metrics) RecordDispatchCreated() {
	m.dispatchesCreated.Inc()
}

func (m *Metrics) SetOpenRegisterAlert(open bool) {
	if open {
		m.openRegisterAlert.Set(1)
		return
	}
	m.openRegisterAlert.Set(0)
}

func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}
