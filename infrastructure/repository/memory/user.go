package memory

import (
	"context"
	"sync"
	"time"

	"github.com/marlogas/caja-api/infrastructure/repository"
	"github.com/marlogas/caja-api/internal/domain"
)

type userRepository struct {
	mu     sync.RWMutex
	nextID int
	users  map[int]domain.User
}

func NewUserRepository() repository.UserRepository {
	return &userRepository{
		nextID: 1,
		users:  make(map[int]domain.User),
	}
}

func (r *userRepository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.NewError(domain.ErrConflict, "criar usuário", "usuário "+user.Username+" já existe")
		}
	}

	user.ID = r.nextID
	user.CreatedAt = time.Now().UTC()
	r.nextID++
	r.users[user.ID] = *user

	return user, nil
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, nil
}

func (r *userRepository) GetUserByID(ctx context.Context, userID int) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[userID]
	if !ok {
		return nil, nil
	}
	return &u, nil
}
