package compraservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lojapix/internal/service/compraservice"
)

// relogio é um relógio manual: cada leitura avança um passo fixo, simulando
// o tempo passando entre os ticks do contador.
type relogio struct {
	atual time.Time
	passo time.Duration
}

func (r *relogio) agora() time.Time {
	now := r.atual
	r.atual = r.atual.Add(r.passo)
	return now
}

func TestCountdown_EmiteDecrescenteAteZero(t *testing.T) {
	inicio := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := &relogio{atual: inicio, passo: 10 * time.Second}
	countdown := compraservice.NewCountdownWithClock(time.Millisecond, clock.agora)

	expiresAt := inicio.Add(30 * time.Second)
	var valores []time.Duration
	for restante := range countdown.Watch(context.Background(), expiresAt) {
		valores = append(valores, restante)
	}

	// 30s, 20s, 10s e o zero terminal. O canal fecha sozinho depois do zero.
	assert.Equal(t, []time.Duration{30 * time.Second, 20 * time.Second, 10 * time.Second, 0}, valores)
}

func TestCountdown_JaExpiradoEmiteZeroEFecha(t *testing.T) {
	inicio := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := &relogio{atual: inicio, passo: time.Second}
	countdown := compraservice.NewCountdownWithClock(time.Millisecond, clock.agora)

	// Prazo no passado: o tempo restante nunca é negativo.
	ch := countdown.Watch(context.Background(), inicio.Add(-time.Minute))

	var valores []time.Duration
	for restante := range ch {
		valores = append(valores, restante)
	}
	assert.Equal(t, []time.Duration{0}, valores)
}

func TestCountdown_CancelamentoFechaOCanal(t *testing.T) {
	inicio := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := &relogio{atual: inicio, passo: time.Millisecond}
	countdown := compraservice.NewCountdownWithClock(time.Millisecond, clock.agora)

	ctx, cancel := context.WithCancel(context.Background())
	ch := countdown.Watch(ctx, inicio.Add(time.Hour))

	// Consome o primeiro valor e abandona a observação.
	primeiro, ok := <-ch
	assert.True(t, ok)
	assert.Equal(t, time.Hour, primeiro)

	cancel()

	select {
	case _, aberto := <-ch:
		if aberto {
			// Um tick pode já estar em trânsito; o próximo recebimento fecha.
			_, aberto = <-ch
			assert.False(t, aberto)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("canal não fechou após o cancelamento do contexto")
	}
}
