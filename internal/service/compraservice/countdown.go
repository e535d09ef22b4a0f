package compraservice

import (
	"context"
	"time"
)

// Countdown emite o tempo restante de um acesso a cada tick, forçando a
// transição de válido para inválido quando o prazo zera, mesmo sem
// recarregamento da página. Relógio e intervalo são injetáveis para testes.
type Countdown struct {
	interval time.Duration
	now      func() time.Time
}

// NewCountdown cria o contador com resolução de um segundo.
func NewCountdown() *Countdown {
	return NewCountdownWithClock(time.Second, time.Now)
}

// NewCountdownWithClock permite injetar intervalo e relógio (testes).
func NewCountdownWithClock(interval time.Duration, now func() time.Time) *Countdown {
	return &Countdown{interval: interval, now: now}
}

// Watch devolve um canal que recebe o tempo restante a cada tick, recalculado
// sempre a partir de "expira menos agora" (nunca decrementado às cegas). O
// canal é fechado após emitir zero ou quando o contexto é cancelado; o ticker
// é sempre liberado, sem timers pendurados.
func (c *Countdown) Watch(ctx context.Context, expiresAt time.Time) <-chan time.Duration {
	out := make(chan time.Duration)

	go func() {
		defer close(out)

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			remaining := expiresAt.Sub(c.now())
			if remaining < 0 {
				remaining = 0
			}

			select {
			case out <- remaining:
			case <-ctx.Done():
				return
			}

			if remaining == 0 {
				return
			}

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
