// Package adminmode implementa a ativação "secreta" do modo administrador:
// uma sequência de cliques no logo dentro de uma janela curta de tempo.
package adminmode

import (
	"sync"
	"time"
)

// Sequência de ativação: 5 cliques dentro de 3 segundos.
const (
	DefaultThreshold = 5
	DefaultWindow    = 3 * time.Second
)

// ClickTracker é a máquina de estados da sequência de cliques. O estado
// (contagem + instante do último clique) é explícito e o relógio é injetável
// para permitir testes determinísticos. Seguro para uso concorrente.
type ClickTracker struct {
	mu        sync.Mutex
	threshold int
	window    time.Duration
	now       func() time.Time

	count     int
	lastClick time.Time
}

// NewClickTracker cria um rastreador com a sequência padrão.
func NewClickTracker() *ClickTracker {
	return NewClickTrackerWithClock(DefaultThreshold, DefaultWindow, time.Now)
}

// NewClickTrackerWithClock permite injetar limiar, janela e relógio (testes).
func NewClickTrackerWithClock(threshold int, window time.Duration, now func() time.Time) *ClickTracker {
	return &ClickTracker{
		threshold: threshold,
		window:    window,
		now:       now,
	}
}

// Click registra um clique e informa se a sequência completou o limiar.
// A contagem zera quando o intervalo desde o último clique excede a janela,
// e também ao atingir o limiar.
func (t *ClickTracker) Click() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if t.count > 0 && now.Sub(t.lastClick) > t.window {
		t.count = 0
	}

	t.count++
	t.lastClick = now

	if t.count >= t.threshold {
		t.count = 0
		return true
	}
	return false
}

// Reset descarta a sequência em andamento.
func (t *ClickTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.count = 0
}
