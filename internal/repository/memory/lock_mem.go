package memory

import (
	"context"
	"sync"
	"time"

	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/repository/ports"
)

var _ ports.GenerationLock = (*Lock)(nil)

// Lock is a per-key lock for a single API instance.
type Lock struct {
	mu     sync.Mutex
	held   map[string]lease
	nextID uint64
	now    func() time.Time
}

type lease struct {
	id      uint64
	expires time.Time
}

func NewLock() *Lock {
	return &Lock{held: make(map[string]lease), now: time.Now}
}

func (l *Lock) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if cur, ok := l.held[key]; ok && now.Before(cur.expires) {
		return nil, false, nil
	}
	l.nextID++
	id := l.nextID
	l.held[key] = lease{id: id, expires: now.Add(ttl)}

	var once sync.Once
	release := func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			if cur, ok := l.held[key]; ok && cur.id == id {
				delete(l.held, key)
			}
		})
	}
	return release, true, nil
}
