package reporting

import (
	"context"
	"sync"
	"time"

	"github.com/marlogas/caja-api/infrastructure/repository"
	"github.com/marlogas/caja-api/internal/config"
	"github.com/marlogas/caja-api/internal/domain"
	"github.com/marlogas/caja-api/pkg/utils"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Reporter interface {
	Report(ctx context.Context, query ReportQuery) (*Report, error)
	Dashboard(ctx context.Context) (*Dashboard, error)
}

type ReportQuery struct {
	Start     time.Time
	End       time.Time
	Product   ProductType
	Text      string
	SortField SortField
	Direction SortDirection
	Page      int
	PageSize  int
}

type Report struct {
	Start      string            `json:"start"`
	End        string            `json:"end"`
	Items      []domain.Dispatch `json:"items"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
	TotalItems int               `json:"total_items"`
	Summary    domain.Summary    `json:"summary"`
}

// Dashboard são os totais do dia exibidos na tela inicial
type Dashboard struct {
	Date        string          `json:"date"`
	TotalSold   decimal.Decimal `json:"total_sold"`
	TotalWallet decimal.Decimal `json:"total_wallet"`
	TotalCash   decimal.Decimal `json:"total_cash"`
	Count       int             `json:"count"`
	GeneratedAt time.Time       `json:"generated_at"`
}

type Service struct {
	dispatchRepo    repository.DispatchRepository
	location        *time.Location
	storeTimeout    time.Duration
	defaultPageSize int
	maxPageSize     int
	now             func() time.Time

	mu          sync.Mutex
	cached      *Dashboard
	generation  uint64 // incrementado a cada invalidação
	unsubscribe func()
}

func NewService(dispatchRepo repository.DispatchRepository, cfg *config.Config) *Service {
	s := &Service{
		dispatchRepo:    dispatchRepo,
		location:        cfg.App.Location,
		storeTimeout:    cfg.Register.StoreTimeout,
		defaultPageSize: cfg.Report.DefaultPageSize,
		maxPageSize:     cfg.Report.MaxPageSize,
		now:             time.Now,
	}
	s.unsubscribe = dispatchRepo.Subscribe(s.invalidate)
	return s
}

func (s *Service) Report(ctx context.Context, query ReportQuery) (*Report, error) {
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = s.defaultPageSize
	}
	if s.maxPageSize > 0 && pageSize > s.maxPageSize {
		pageSize = s.maxPageSize
	}

	report := &Report{
		Start:    domain.FormatDate(query.Start),
		End:      domain.FormatDate(query.End),
		Page:     query.Page,
		PageSize: pageSize,
	}

	var dispatches []domain.Dispatch
	if !query.Start.After(query.End) {
		ctx, cancel := utils.WithTimeout(ctx, s.storeTimeout)
		defer cancel()

		var err error
		dispatches, err = s.dispatchRepo.ListByRange(ctx, query.Start, query.End)
		if err != nil {
			return nil, storeFailure("gerar relatório", err)
		}
	}

	filtered := FilterByRange(dispatches, query.Start, query.End)
	filtered = FilterByProductType(filtered, query.Product)
	filtered = FilterByText(filtered, query.Text)
	filtered = SortBy(filtered, query.SortField, query.Direction)

	report.Summary = Summarize(filtered)
	report.TotalItems = len(filtered)
	report.Items, report.TotalPages = Paginate(filtered, query.Page, pageSize)

	return report, nil
}

// Dashboard fica em cache até chegar um despacho novo ou o dia virar
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	date := domain.FormatDate(domain.DateOf(s.now(), s.location))

	s.mu.Lock()
	cached := s.cached
	generation := s.generation
	s.mu.Unlock()
	if cached != nil && cached.Date == date {
		return cached, nil
	}

	ctx, cancel := utils.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	dispatches, err := s.dispatchRepo.ListByDate(ctx, domain.DateOf(s.now(), s.location))
	if err != nil {
		return nil, storeFailure("carregar painel", err)
	}

	summary := Summarize(dispatches)
	dashboard := &Dashboard{
		Date:        date,
		TotalSold:   summary.SalesTotal,
		TotalWallet: summary.WalletTotal,
		TotalCash:   summary.CashTotal,
		Count:       summary.Count,
		GeneratedAt: s.now().UTC(),
	}

	s.mu.Lock()
	if s.generation == generation {
		s.cached = dashboard
	}
	s.mu.Unlock()

	return dashboard, nil
}

// Close deixa de ouvir o livro de despachos
func (s *Service) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

func (s *Service) invalidate(d domain.Dispatch) {
	s.mu.Lock()
	s.cached = nil
	s.generation++
	s.mu.Unlock()

	logrus.WithField("dispatch_id", d.ID).Debug("Cache do painel invalidado")
}

func storeFailure(op string, err error) error {
	err = domain.AsStoreUnavailable(op, err)
	if domain.IsStoreUnavailable(err) {
		return err
	}
	return errors.Wrap(err, op)
}
