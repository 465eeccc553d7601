package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/marlogas/caja-api/infrastructure/repository"
	"github.com/marlogas/caja-api/internal/domain"
	"github.com/marlogas/caja-api/pkg/utils"
)

type registerRepository struct {
	mu       sync.Mutex
	sessions map[string]domain.RegisterSession
}

// NewRegisterRepository garante as mesmas regras do banco: uma caja aberta por
// data e fechamento apenas de caja aberta.
func NewRegisterRepository() repository.RegisterRepository {
	return &registerRepository{
		sessions: make(map[string]domain.RegisterSession),
	}
}

func (r *registerRepository) FindOpenByDate(ctx context.Context, date time.Time) (*domain.RegisterSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrStoreUnavailable, "buscar caja aberta", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.openByDate(domain.DateOf(date, nil)); ok {
		return copySession(s), nil
	}
	return nil, nil
}

func (r *registerRepository) FindByID(ctx context.Context, id string) (*domain.RegisterSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrStoreUnavailable, "buscar caja", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	return copySession(s), nil
}

func (r *registerRepository) Insert(ctx context.Context, session domain.RegisterSession) (*domain.RegisterSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrStoreUnavailable, "abrir caja", err)
	}

	id, err := utils.GenerateID()
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar ID da caja: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	session.BusinessDate = domain.DateOf(session.BusinessDate, nil)
	if _, exists := r.openByDate(session.BusinessDate); exists {
		return nil, domain.NewError(domain.ErrConflict, "abrir caja",
			"já existe uma caja aberta para "+domain.FormatDate(session.BusinessDate))
	}

	session.ID = id
	session.Status = domain.RegisterOpen
	session.Snapshot = nil
	session.ClosedAt = nil
	if session.OpenedAt.IsZero() {
		session.OpenedAt = time.Now().UTC()
	}

	r.sessions[id] = session
	return copySession(session), nil
}

func (r *registerRepository) Update(ctx context.Context, id string, update domain.RegisterUpdate) (*domain.RegisterSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrStoreUnavailable, "fechar caja", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, domain.NewError(domain.ErrNotFound, "fechar caja", "caja "+id+" não existe")
	}
	if !session.IsOpen() {
		return nil, domain.NewError(domain.ErrState, "fechar caja", "caja "+id+" já está "+string(session.Status))
	}

	snapshot := update.Snapshot
	closedAt := update.ClosedAt
	session.Status = update.Status
	session.Snapshot = &snapshot
	session.ClosedAt = &closedAt

	r.sessions[id] = session
	return copySession(session), nil
}

func (r *registerRepository) openByDate(date time.Time) (domain.RegisterSession, bool) {
	for _, s := range r.sessions {
		if s.IsOpen() && s.BusinessDate.Equal(date) {
			return s, true
		}
	}
	return domain.RegisterSession{}, false
}

// copySession evita que o chamador altere o estado guardado pelos ponteiros
func copySession(s domain.RegisterSession) *domain.RegisterSession {
	if s.Snapshot != nil {
		snapshot := *s.Snapshot
		s.Snapshot = &snapshot
	}
	if s.ClosedAt != nil {
		closedAt := *s.ClosedAt
		s.ClosedAt = &closedAt
	}
	return &s
}
