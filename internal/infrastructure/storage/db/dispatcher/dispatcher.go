// Package dispatcher fans out the events published by a wallet repository
// to the handlers registered for their type.
package dispatcher

import (
	"sync"
	"time"

	"github.com/vulpemventures/uniond/internal/core/domain"
	"github.com/vulpemventures/uniond/internal/core/ports"
)

// Dispatcher is safe for concurrent registration and dispatching. Every
// handler runs in its own goroutine.
type Dispatcher struct {
	handlers map[domain.WalletEventType][]ports.WalletEventHandler
	lock     *sync.RWMutex
	delay    time.Duration
}

// New returns a dispatcher waiting the given delay before dispatching every
// event, so that the repository completes the operation that produced it.
func New(delay time.Duration) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[domain.WalletEventType][]ports.WalletEventHandler),
		lock:     &sync.RWMutex{},
		delay:    delay,
	}
}

func (d *Dispatcher) Register(
	eventType domain.WalletEventType, handler ports.WalletEventHandler,
) {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.handlers[eventType] = append(d.handlers[eventType], handler)
}

// Listen dispatches the events of the given channel until it is closed.
func (d *Dispatcher) Listen(chEvents <-chan domain.WalletEvent) {
	for event := range chEvents {
		if d.delay > 0 {
			time.Sleep(d.delay)
		}
		for _, handler := range d.handlersOf(event.EventType) {
			go handler(event)
		}
	}
}

func (d *Dispatcher) handlersOf(
	eventType domain.WalletEventType,
) []ports.WalletEventHandler {
	d.lock.RLock()
	defer d.lock.RUnlock()

	return append([]ports.WalletEventHandler(nil), d.handlers[eventType]...)
}
