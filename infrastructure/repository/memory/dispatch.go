// Package memory implementa os repositórios em memória, usados em
// desenvolvimento local (DATABASE_DRIVER=memory) e nos testes.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/marlogas/caja-api/infrastructure/repository"
	"github.com/marlogas/caja-api/internal/domain"
	"github.com/marlogas/caja-api/pkg/utils"
)

type dispatchRepository struct {
	mu          sync.RWMutex
	dispatches  []domain.Dispatch
	location    *time.Location
	subscribers *repository.Subscribers
	now         func() time.Time
}

func NewDispatchRepository(location *time.Location, seed ...domain.Dispatch) repository.DispatchRepository {
	r := &dispatchRepository{
		location:    location,
		subscribers: repository.NewSubscribers(),
		now:         time.Now,
	}
	r.dispatches = append(r.dispatches, seed...)
	return r
}

func (r *dispatchRepository) ListByDate(ctx context.Context, date time.Time) ([]domain.Dispatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrStoreUnavailable, "listar despachos do dia", err)
	}

	day := domain.DateOf(date, nil)

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Dispatch, 0)
	for _, d := range r.dispatches {
		if d.BusinessDate.Equal(day) {
			result = append(result, d)
		}
	}

	sortNewestFirst(result)
	return result, nil
}

func (r *dispatchRepository) ListByRange(ctx context.Context, start, end time.Time) ([]domain.Dispatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrStoreUnavailable, "listar despachos do período", err)
	}

	result := make([]domain.Dispatch, 0)
	if start.After(end) {
		return result, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.dispatches {
		if !d.BusinessDate.Before(start) && !d.BusinessDate.After(end) {
			result = append(result, d)
		}
	}

	sortNewestFirst(result)
	return result, nil
}

func (r *dispatchRepository) Insert(ctx context.Context, dispatch domain.Dispatch) (*domain.Dispatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrStoreUnavailable, "inserir despacho", err)
	}

	id, err := utils.GenerateID()
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar ID do despacho: %w", err)
	}

	dispatch.ID = id
	dispatch.CreatedAt = r.now().UTC()
	if dispatch.BusinessDate.IsZero() {
		dispatch.BusinessDate = domain.DateOf(dispatch.CreatedAt, r.location)
	}

	r.mu.Lock()
	r.dispatches = append(r.dispatches, dispatch)
	r.mu.Unlock()

	r.subscribers.Publish(dispatch)

	return &dispatch, nil
}

func (r *dispatchRepository) Subscribe(fn func(domain.Dispatch)) func() {
	return r.subscribers.Add(fn)
}

func (r *dispatchRepository) HandleNotification(payload string) {
	r.subscribers.Publish(repository.DispatchFromNotification(payload))
}

func sortNewestFirst(dispatches []domain.Dispatch) {
	sort.SliceStable(dispatches, func(i, j int) bool {
		if !dispatches[i].BusinessDate.Equal(dispatches[j].BusinessDate) {
			return dispatches[i].BusinessDate.After(dispatches[j].BusinessDate)
		}
		return dispatches[i].CreatedAt.After(dispatches[j].CreatedAt)
	})
}
