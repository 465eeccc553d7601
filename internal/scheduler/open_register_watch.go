package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/marlogas/caja-api/internal/config"
	"github.com/marlogas/caja-api/internal/domain"
	"github.com/marlogas/caja-api/internal/metrics"
	"github.com/marlogas/caja-api/internal/usecases/reconciling"
	"github.com/sirupsen/logrus"
)

// Quantos dias para trás, além de hoje, procurar caja esquecida aberta
const openRegisterLookbackDays = 1

// OpenRegisterWatchService avisa quando a caja ficou aberta perto do fim do
// expediente ou foi esquecida aberta em dias anteriores
type OpenRegisterWatchService struct {
	scheduler    *gocron.Scheduler
	cronSchedule string
	enabled      bool
	location     *time.Location
	reconciler   reconciling.Reconciler
	metrics      *metrics.Metrics
	now          func() time.Time

	checkRunning         bool
	checkMutex           sync.Mutex
	lastCheckStartedAt   time.Time
	lastCheckCompletedAt time.Time
	lastOpenDates        []string
}

func NewOpenRegisterWatchService(
	reconciler reconciling.Reconciler,
	m *metrics.Metrics,
	appConfig *config.Config,
) *OpenRegisterWatchService {
	location := appConfig.App.Location
	if location == nil {
		location = time.Local
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": appConfig.OpenRegisterWatch.CronSchedule,
		"enabled":       appConfig.OpenRegisterWatch.Enabled,
	}).Info("Configuração da verificação de caja aberta carregada")

	return &OpenRegisterWatchService{
		scheduler:    gocron.NewScheduler(location),
		cronSchedule: appConfig.OpenRegisterWatch.CronSchedule,
		enabled:      appConfig.OpenRegisterWatch.Enabled,
		location:     location,
		reconciler:   reconciler,
		metrics:      m,
		now:          time.Now,
	}
}

func (s *OpenRegisterWatchService) Start(ctx context.Context) error {
	if !s.enabled {
		logrus.Info("Verificação de caja aberta desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.cronSchedule).Info("Iniciando agendador de verificação de caja aberta")

	_, err := s.scheduler.Cron(s.cronSchedule).Do(func() {
		s.checkOpenRegisters(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar verificação de caja aberta: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de verificação de caja aberta")
		s.scheduler.Stop()
	}()

	return nil
}

// checkOpenRegisters devolve as datas com caja ainda aberta
func (s *OpenRegisterWatchService) checkOpenRegisters(ctx context.Context) []string {
	s.checkMutex.Lock()
	if s.checkRunning {
		s.checkMutex.Unlock()
		logrus.Info("Verificação de caja aberta já em andamento, ignorando")
		return nil
	}
	s.checkRunning = true
	s.lastCheckStartedAt = s.now()
	s.checkMutex.Unlock()

	openDates := make([]string, 0)
	defer func() {
		s.checkMutex.Lock()
		s.checkRunning = false
		s.lastCheckCompletedAt = s.now()
		s.lastOpenDates = openDates
		s.checkMutex.Unlock()
	}()

	today := domain.DateOf(s.now(), s.location)
	for i := 0; i <= openRegisterLookbackDays; i++ {
		date := today.AddDate(0, 0, -i)

		session, err := s.reconciler.GetOpenSession(ctx, date)
		if err != nil {
			logrus.WithError(err).WithField("date", domain.FormatDate(date)).Error("Erro ao verificar caja aberta")
			continue
		}
		if session == nil {
			continue
		}

		openDates = append(openDates, domain.FormatDate(date))
		logrus.WithFields(logrus.Fields{
			"register_id":   session.ID,
			"business_date": domain.FormatDate(date),
			"opened_at":     session.OpenedAt,
		}).Warn("Caja continua aberta")
	}

	s.metrics.SetOpenRegisterAlert(len(openDates) > 0)
	if len(openDates) == 0 {
		logrus.Info("Nenhuma caja aberta pendente")
	}

	return openDates
}

// TriggerManualSync executa a verificação fora do agendamento
func (s *OpenRegisterWatchService) TriggerManualSync() {
	s.checkMutex.Lock()
	if s.checkRunning {
		s.checkMutex.Unlock()
		logrus.Info("Verificação de caja aberta já em andamento, ignorando solicitação manual")
		return
	}
	s.checkMutex.Unlock()

	logrus.Info("Iniciando verificação manual de caja aberta")
	go s.checkOpenRegisters(context.Background())
}

func (s *OpenRegisterWatchService) GetStatus() map[string]any {
	s.checkMutex.Lock()
	defer s.checkMutex.Unlock()

	return map[string]any{
		"enabled":                 s.enabled,
		"cron":                    s.cronSchedule,
		"running":                 s.checkRunning,
		"open_dates":              s.lastOpenDates,
		"last_check_started_at":   s.lastCheckStartedAt,
		"last_check_completed_at": s.lastCheckCompletedAt,
	}
}
