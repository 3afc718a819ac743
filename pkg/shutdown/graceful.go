// Package shutdown предоставляет функциональность для корректного завершения приложения
// путем ожидания и обработки сигналов SIGINT и SIGTERM.
package shutdown

import (
	"context"
	"errors"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"notekeeper/pkg/logger"
)

// Константы для сообщений logger.
const (
	LogShutdownStarted = "shutdown signal received, running hooks"
	LogHookFailed      = "shutdown hook failed"
	LogHooksTimedOut   = "shutdown hooks did not finish in time"
)

// Wait блокирует выполнение до получения сигнала SIGINT или SIGTERM либо до отмены ctx,
// затем параллельно выполняет все хуки в рамках заданного timeout.
func Wait(ctx context.Context, timeout time.Duration, hooks ...func(context.Context) error) {
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	<-sigCtx.Done()
	stop()

	log := logger.Log(ctx)
	log.Info(ctx, LogShutdownStarted, zap.Int("hooks", len(hooks)), zap.Duration("timeout", timeout))

	// Родительский ctx уже может быть отменен, поэтому хуки получают собственный.
	hookCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	var wgp sync.WaitGroup
	for _, hook := range hooks {
		wgp.Add(1)
		go func(fn func(context.Context) error) {
			defer wgp.Done()
			if err := fn(hookCtx); err != nil {
				log.Error(hookCtx, LogHookFailed, zap.Error(err))
			}
		}(hook)
	}

	done := make(chan struct{})
	go func() {
		wgp.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-hookCtx.Done():
		log.Warn(hookCtx, LogHooksTimedOut)
	}
}

// Sequence объединяет хуки в один, который выполняет их строго по порядку.
// Ошибка шага не прерывает последующие шаги, все ошибки возвращаются вместе.
func Sequence(hooks ...func(context.Context) error) func(context.Context) error {
	return func(ctx context.Context) error {
		var errs []error
		for _, hook := range hooks {
			if err := hook(ctx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
}
