package dispatching

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/marlogas/caja-api/infrastructure/repository"
	"github.com/marlogas/caja-api/internal/config"
	"github.com/marlogas/caja-api/internal/domain"
	"github.com/marlogas/caja-api/internal/metrics"
	"github.com/marlogas/caja-api/pkg/utils"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Limites de tamanho das colunas de dispatches
const (
	maxClientLength  = 255
	maxAddressLength = 255
	maxNotesLength   = 2000
)

type Dispatcher interface {
	Register(ctx context.Context, input NewDispatch) (*domain.Dispatch, error)
	ListByDate(ctx context.Context, date time.Time) ([]domain.Dispatch, error)
}

// NewDispatch é o formulário de registro de despacho
type NewDispatch struct {
	Client        string          `json:"client"`
	Address       string          `json:"address"`
	Gas           int             `json:"gas"`
	Water         int             `json:"water"`
	Price         decimal.Decimal `json:"price"`
	PaymentMethod string          `json:"payment_method"`
	Cylinders     *int            `json:"cylinders"`
	Notes         string          `json:"notes"`
}

type Service struct {
	dispatchRepo repository.DispatchRepository
	metrics      *metrics.Metrics
	location     *time.Location
	storeTimeout time.Duration
	now          func() time.Time
}

func NewService(dispatchRepo repository.DispatchRepository, m *metrics.Metrics, cfg *config.Config) Dispatcher {
	return &Service{
		dispatchRepo: dispatchRepo,
		metrics:      m,
		location:     cfg.App.Location,
		storeTimeout: cfg.Register.StoreTimeout,
		now:          time.Now,
	}
}

func (s *Service) Register(ctx context.Context, input NewDispatch) (*domain.Dispatch, error) {
	dispatch, err := s.validate(input)
	if err != nil {
		return nil, err
	}

	ctx, cancel := utils.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	created, err := s.dispatchRepo.Insert(ctx, dispatch)
	if err != nil {
		err = domain.AsStoreUnavailable("registrar despacho", err)
		if domain.IsStoreUnavailable(err) {
			s.metrics.RecordStoreUnavailable("registrar despacho")
			return nil, err
		}
		return nil, errors.Wrap(err, "registrar despacho")
	}

	s.metrics.RecordDispatchCreated()
	logrus.WithFields(logrus.Fields{
		"dispatch_id":    created.ID,
		"payment_method": created.PaymentMethod.String(),
		"price":          created.Price.StringFixed(domain.MoneyScale),
	}).Info("Despacho registrado")

	return created, nil
}

// ListByDate devolve os despachos do dia, do mais recente ao mais antigo
func (s *Service) ListByDate(ctx context.Context, date time.Time) ([]domain.Dispatch, error) {
	ctx, cancel := utils.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	dispatches, err := s.dispatchRepo.ListByDate(ctx, domain.DateOf(date, nil))
	if err != nil {
		err = domain.AsStoreUnavailable("listar despachos", err)
		if domain.IsStoreUnavailable(err) {
			return nil, err
		}
		return nil, errors.Wrap(err, "listar despachos")
	}

	return dispatches, nil
}

func (s *Service) validate(input NewDispatch) (domain.Dispatch, error) {
	const op = "registrar despacho"

	client := strings.TrimSpace(input.Client)
	address := strings.TrimSpace(input.Address)
	notes := strings.TrimSpace(input.Notes)

	// Gás e água zerados são aceitos (ex.: visita só para empréstimo de cilindro)
	switch {
	case client == "":
		return domain.Dispatch{}, domain.NewError(domain.ErrValidation, op, "cliente é obrigatório")
	case address == "":
		return domain.Dispatch{}, domain.NewError(domain.ErrValidation, op, "endereço é obrigatório")
	case utf8.RuneCountInString(client) > maxClientLength:
		return domain.Dispatch{}, domain.NewError(domain.ErrValidation, op, fmt.Sprintf("cliente deve ter no máximo %d caracteres", maxClientLength))
	case utf8.RuneCountInString(address) > maxAddressLength:
		return domain.Dispatch{}, domain.NewError(domain.ErrValidation, op, fmt.Sprintf("endereço deve ter no máximo %d caracteres", maxAddressLength))
	case utf8.RuneCountInString(notes) > maxNotesLength:
		return domain.Dispatch{}, domain.NewError(domain.ErrValidation, op, fmt.Sprintf("observações devem ter no máximo %d caracteres", maxNotesLength))
	case input.Gas < 0 || input.Water < 0:
		return domain.Dispatch{}, domain.NewError(domain.ErrValidation, op, "quantidades não podem ser negativas")
	case input.Cylinders != nil && *input.Cylinders < 0:
		return domain.Dispatch{}, domain.NewError(domain.ErrValidation, op, "cilindros não podem ser negativos")
	}

	if err := domain.ValidateMoney(op, "preço", input.Price); err != nil {
		return domain.Dispatch{}, err
	}

	method := domain.ParsePaymentMethod(input.PaymentMethod)
	if !method.Valid() {
		return domain.Dispatch{}, domain.NewError(domain.ErrValidation, op, "método de pagamento inválido: "+input.PaymentMethod)
	}

	return domain.Dispatch{
		Client:        client,
		Address:       address,
		Gas:           input.Gas,
		Water:         input.Water,
		Price:         domain.RoundMoney(input.Price),
		PaymentMethod: method,
		Cylinders:     input.Cylinders,
		Notes:         notes,
		BusinessDate:  domain.DateOf(s.now(), s.location),
	}, nil
}
