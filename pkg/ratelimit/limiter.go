// Package ratelimit ограничивает частоту запросов по ключу (обычно id пользователя).
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Config настройки ограничителя.
type Config struct {
	RequestsPerSecond float64
	Burst             int
	// IdleTTL время, после которого неиспользуемый ограничитель удаляется.
	IdleTTL time.Duration
}

type entry struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

// Limiter хранит отдельный token bucket для каждого ключа.
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*entry
	config   Config
	now      func() time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New создает ограничитель и запускает фоновую очистку.
func New(config Config) *Limiter {
	if config.Burst < 1 {
		config.Burst = 1
	}
	if config.IdleTTL <= 0 {
		config.IdleTTL = 10 * time.Minute
	}

	l := &Limiter{
		limiters: make(map[string]*entry),
		config:   config,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}

	l.wg.Add(1)
	go l.cleanupLoop()

	return l
}

// Allow расходует один токен ключа. Если токенов нет, возвращает false
// и время до появления следующего.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	now := l.now()
	reservation := l.get(key, now).ReserveN(now, 1)
	if !reservation.OK() {
		return false, time.Second
	}
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (l *Limiter) get(key string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(rate.Limit(l.config.RequestsPerSecond), l.config.Burst)}
		l.limiters[key] = e
	}
	e.lastUsed = now
	return e.limiter
}

// Cleanup удаляет ограничители, не использовавшиеся дольше IdleTTL.
func (l *Limiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.config.IdleTTL)
	for key, e := range l.limiters {
		if e.lastUsed.Before(cutoff) {
			delete(l.limiters, key)
		}
	}
}

func (l *Limiter) cleanupLoop() {
	defer l.wg.Done()

	ticker := time.NewTicker(l.config.IdleTTL)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.Cleanup()
		case <-l.stopCh:
			return
		}
	}
}

// Stop останавливает фоновую очистку. Повторный вызов безопасен.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
	l.wg.Wait()
}

// Len возвращает число активных ограничителей.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}
