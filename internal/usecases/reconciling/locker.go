package reconciling

import "sync"

// dateLocker serializa abertura e fechamento por data de negócio.
// Datas diferentes não se bloqueiam.
type dateLocker struct {
	mu    sync.Mutex
	locks map[string]*dateLock
}

type dateLock struct {
	mu   sync.Mutex
	refs int
}

func newDateLocker() *dateLocker {
	return &dateLocker{locks: make(map[string]*dateLock)}
}

// Lock bloqueia a data e devolve a função que a libera
func (l *dateLocker) Lock(key string) func() {
	l.mu.Lock()
	lock, ok := l.locks[key]
	if !ok {
		lock = &dateLock{}
		l.locks[key] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()

		l.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}
