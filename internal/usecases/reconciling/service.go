package reconciling

import (
	"context"
	"time"

	"github.com/marlogas/caja-api/infrastructure/repository"
	"github.com/marlogas/caja-api/internal/config"
	"github.com/marlogas/caja-api/internal/domain"
	"github.com/marlogas/caja-api/internal/metrics"
	"github.com/marlogas/caja-api/pkg/utils"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Reconciler interface {
	// GetOpenSession retorna nil, nil quando não há caja aberta na data
	GetOpenSession(ctx context.Context, date time.Time) (*domain.RegisterSession, error)
	Open(ctx context.Context, openingBalance decimal.Decimal) (*domain.RegisterSession, error)
	ComputeSummary(session *domain.RegisterSession, dispatches []domain.Dispatch) domain.Summary
	Close(ctx context.Context, session *domain.RegisterSession, summary domain.Summary) (*domain.RegisterSession, error)
	Today(ctx context.Context) (*DayView, error)
	CloseDay(ctx context.Context, sessionID string) (*domain.RegisterSession, error)
}

// DayView é a tela "Caja del Día": caja (se houver), despachos e totais
type DayView struct {
	Date       string                  `json:"date"`
	Session    *domain.RegisterSession `json:"session"`
	Dispatches []domain.Dispatch       `json:"dispatches"`
	Summary    domain.Summary          `json:"summary"`
}

type Service struct {
	registerRepo repository.RegisterRepository
	dispatchRepo repository.DispatchRepository
	metrics      *metrics.Metrics
	locker       *dateLocker
	location     *time.Location
	storeTimeout time.Duration
	now          func() time.Time
}

func NewService(
	registerRepo repository.RegisterRepository,
	dispatchRepo repository.DispatchRepository,
	m *metrics.Metrics,
	cfg *config.Config,
) Reconciler {
	return &Service{
		registerRepo: registerRepo,
		dispatchRepo: dispatchRepo,
		metrics:      m,
		locker:       newDateLocker(),
		location:     cfg.App.Location,
		storeTimeout: cfg.Register.StoreTimeout,
		now:          time.Now,
	}
}

func (s *Service) GetOpenSession(ctx context.Context, date time.Time) (*domain.RegisterSession, error) {
	ctx, cancel := utils.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	session, err := s.registerRepo.FindOpenByDate(ctx, domain.DateOf(date, nil))
	if err != nil {
		return nil, s.storeFailure("buscar caja aberta", err)
	}

	return session, nil
}

func (s *Service) Open(ctx context.Context, openingBalance decimal.Decimal) (*domain.RegisterSession, error) {
	if err := domain.ValidateMoney("abrir caja", "monto inicial", openingBalance); err != nil {
		return nil, err
	}

	date := s.today()
	unlock := s.locker.Lock(domain.FormatDate(date))
	defer unlock()

	ctx, cancel := utils.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	existing, err := s.registerRepo.FindOpenByDate(ctx, date)
	if err != nil {
		return nil, s.storeFailure("abrir caja", err)
	}
	if existing != nil {
		s.metrics.RecordRegisterConflict()
		return nil, domain.NewError(domain.ErrConflict, "abrir caja",
			"já existe uma caja aberta para "+domain.FormatDate(date))
	}

	session, err := s.registerRepo.Insert(ctx, domain.RegisterSession{
		BusinessDate:   date,
		OpeningBalance: domain.RoundMoney(openingBalance),
		Status:         domain.RegisterOpen,
		OpenedAt:       s.now().UTC(),
	})
	if err != nil {
		if domain.IsConflict(err) {
			s.metrics.RecordRegisterConflict()
			return nil, err
		}
		return nil, s.storeFailure("abrir caja", err)
	}

	s.metrics.RecordRegisterOpened()
	logrus.WithFields(logrus.Fields{
		"register_id":     session.ID,
		"business_date":   domain.FormatDate(date),
		"opening_balance": session.OpeningBalance.StringFixed(domain.MoneyScale),
	}).Info("Caja aberta")

	return session, nil
}

// ComputeSummary não faz I/O; o gaveteiro é monto inicial + efectivo
func (s *Service) ComputeSummary(session *domain.RegisterSession, dispatches []domain.Dispatch) domain.Summary {
	summary := domain.Tally(dispatches)
	if session != nil {
		drawer := domain.RoundMoney(session.OpeningBalance.Add(summary.CashTotal))
		summary.DrawerTotal = &drawer
	}
	return summary
}

func (s *Service) Close(ctx context.Context, session *domain.RegisterSession, summary domain.Summary) (*domain.RegisterSession, error) {
	if session == nil || session.ID == "" {
		return nil, domain.NewError(domain.ErrValidation, "fechar caja", "caja não informada")
	}

	ctx, cancel := utils.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	// Status e data vêm do armazenamento, não do argumento
	stored, err := s.loadOpen(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	unlock := s.locker.Lock(domain.FormatDate(stored.BusinessDate))
	defer unlock()

	// Relê sob o lock: outro fechamento pode ter vencido a corrida
	current, err := s.loadOpen(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	if err := checkSummary(current, summary); err != nil {
		return nil, err
	}

	closed, err := s.registerRepo.Update(ctx, current.ID, domain.RegisterUpdate{
		Status: domain.RegisterClosed,
		Snapshot: domain.ClosingSnapshot{
			CashTotal:   domain.RoundMoney(summary.CashTotal),
			WalletTotal: domain.RoundMoney(summary.WalletTotal),
			DrawerTotal: domain.RoundMoney(*summary.DrawerTotal),
		},
		ClosedAt: s.now().UTC(),
	})
	if err != nil {
		if domain.IsState(err) || domain.IsNotFound(err) {
			return nil, err
		}
		return nil, s.storeFailure("fechar caja", err)
	}

	s.metrics.RecordRegisterClosed()
	logrus.WithFields(logrus.Fields{
		"register_id":   closed.ID,
		"business_date": domain.FormatDate(closed.BusinessDate),
		"cash_total":    summary.CashTotal.StringFixed(domain.MoneyScale),
		"wallet_total":  summary.WalletTotal.StringFixed(domain.MoneyScale),
		"drawer_total":  summary.DrawerTotal.StringFixed(domain.MoneyScale),
		"unknown_count": summary.UnknownCount,
	}).Info("Caja fechada")

	return closed, nil
}

func (s *Service) loadOpen(ctx context.Context, id string) (*domain.RegisterSession, error) {
	current, err := s.registerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, s.storeFailure("fechar caja", err)
	}
	if current == nil {
		return nil, domain.NewError(domain.ErrNotFound, "fechar caja", "caja "+id+" não existe")
	}
	if !current.IsOpen() {
		return nil, domain.NewError(domain.ErrState, "fechar caja", "caja "+id+" já está "+string(current.Status))
	}
	return current, nil
}

func (s *Service) Today(ctx context.Context) (*DayView, error) {
	date := s.today()

	ctx, cancel := utils.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	session, err := s.registerRepo.FindOpenByDate(ctx, date)
	if err != nil {
		return nil, s.storeFailure("carregar caja do dia", err)
	}

	dispatches, err := s.dispatchRepo.ListByDate(ctx, date)
	if err != nil {
		return nil, s.storeFailure("carregar despachos do dia", err)
	}

	return &DayView{
		Date:       domain.FormatDate(date),
		Session:    session,
		Dispatches: dispatches,
		Summary:    s.ComputeSummary(session, dispatches),
	}, nil
}

// CloseDay recalcula os totais a partir do livro antes de fechar
func (s *Service) CloseDay(ctx context.Context, sessionID string) (*domain.RegisterSession, error) {
	loadCtx, cancel := utils.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	session, err := s.registerRepo.FindByID(loadCtx, sessionID)
	if err != nil {
		return nil, s.storeFailure("fechar caja", err)
	}
	if session == nil {
		return nil, domain.NewError(domain.ErrNotFound, "fechar caja", "caja "+sessionID+" não existe")
	}
	if !session.IsOpen() {
		return nil, domain.NewError(domain.ErrState, "fechar caja", "caja "+sessionID+" já está "+string(session.Status))
	}

	dispatches, err := s.dispatchRepo.ListByDate(loadCtx, session.BusinessDate)
	if err != nil {
		return nil, s.storeFailure("carregar despachos da caja", err)
	}

	return s.Close(ctx, session, s.ComputeSummary(session, dispatches))
}

func (s *Service) today() time.Time {
	return domain.DateOf(s.now(), s.location)
}

// storeFailure garante que prazo estourado vire ErrStoreUnavailable
func (s *Service) storeFailure(op string, err error) error {
	err = domain.AsStoreUnavailable(op, err)
	if domain.IsStoreUnavailable(err) {
		s.metrics.RecordStoreUnavailable(op)
		logrus.WithError(err).WithField("operation", op).Warn("Armazenamento indisponível")
		return err
	}

	return errors.Wrap(err, op)
}

// checkSummary rejeita totais que não batem entre si ou com o monto inicial
func checkSummary(session *domain.RegisterSession, summary domain.Summary) error {
	if summary.DrawerTotal == nil {
		return domain.NewError(domain.ErrValidation, "fechar caja", "total do gaveteiro ausente")
	}

	expectedDrawer := domain.RoundMoney(session.OpeningBalance.Add(summary.CashTotal))
	if !domain.RoundMoney(*summary.DrawerTotal).Equal(expectedDrawer) {
		return domain.NewError(domain.ErrValidation, "fechar caja",
			"total do gaveteiro "+summary.DrawerTotal.StringFixed(domain.MoneyScale)+
				" difere de monto inicial + efectivo "+expectedDrawer.StringFixed(domain.MoneyScale))
	}

	expectedSales := domain.RoundMoney(summary.CashTotal.Add(summary.WalletTotal))
	if !domain.RoundMoney(summary.SalesTotal).Equal(expectedSales) {
		return domain.NewError(domain.ErrValidation, "fechar caja",
			"total vendido "+summary.SalesTotal.StringFixed(domain.MoneyScale)+
				" difere de efectivo + yape "+expectedSales.StringFixed(domain.MoneyScale))
	}

	return nil
}
