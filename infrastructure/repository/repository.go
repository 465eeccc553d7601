package repository

import (
	"fmt"
	"strings"
	"sync"

	"github.com/marlogas/caja-api/infrastructure/database/postgres"
	"github.com/marlogas/caja-api/internal/domain"
)

// storeError classifica uma falha do banco: indisponibilidade vira
// ErrStoreUnavailable (pode ser repetida pelo chamador), o resto é erro interno.
func storeError(op string, err error) error {
	if postgres.IsUnavailable(err) {
		return domain.WrapError(domain.ErrStoreUnavailable, op, err)
	}
	return fmt.Errorf("erro ao %s: %w", op, err)
}

// Subscribers guarda os callbacks registrados para mudanças no livro de despachos
type Subscribers struct {
	mu     sync.RWMutex
	nextID int
	fns    map[int]func(domain.Dispatch)
}

func NewSubscribers() *Subscribers {
	return &Subscribers{fns: make(map[int]func(domain.Dispatch))}
}

// Add registra um callback e devolve a função que o remove
func (s *Subscribers) Add(fn func(domain.Dispatch)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.fns[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.fns, id)
	}
}

// Publish chama cada callback registrado com o despacho
func (s *Subscribers) Publish(d domain.Dispatch) {
	s.mu.RLock()
	fns := make([]func(domain.Dispatch), 0, len(s.fns))
	for _, fn := range s.fns {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(d)
	}
}

// notificationPayload é o corpo do pg_notify de um despacho novo. Vai só o ID:
// o Postgres recusa payloads com 8000 bytes ou mais.
func notificationPayload(d domain.Dispatch) string {
	return d.ID
}

// DispatchFromNotification reconstrói o despacho avisado; só o ID é conhecido
func DispatchFromNotification(payload string) domain.Dispatch {
	return domain.Dispatch{ID: strings.TrimSpace(payload)}
}
