// Package permission re-emite los fallos de permiso (401/403) a quien esté
// suscrito, para diagnosticarlos durante el desarrollo.
package permission

import (
	"sync"
	"time"
)

const recentCapacity = 100

// Error describe un acceso denegado
type Error struct {
	UserID string    `json:"user_id,omitempty"`
	Role   string    `json:"role,omitempty"`
	Method string    `json:"method"`
	Path   string    `json:"path"`
	Status int       `json:"status"`
	Reason string    `json:"reason"`
	At     time.Time `json:"at"`
}

// Listener recibe cada Error publicado
type Listener func(Error)

// Bus entrega los errores de permiso de forma síncrona a los suscriptores
// y conserva los últimos eventos.
type Bus struct {
	mu        sync.RWMutex
	listeners map[int]Listener
	nextID    int
	recent    []Error
	start     int
	onPanic   func(recovered interface{})
}

func NewBus() *Bus {
	return &Bus{
		listeners: make(map[int]Listener),
		recent:    make([]Error, 0, recentCapacity),
	}
}

// OnListenerPanic registra quién se entera si un suscriptor entra en pánico
func (b *Bus) OnListenerPanic(fn func(recovered interface{})) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onPanic = fn
}

// Subscribe agrega un suscriptor y devuelve la función para quitarlo
func (b *Bus) Subscribe(fn Listener) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.listeners, id)
		b.mu.Unlock()
	}
}

// Publish guarda el evento y lo entrega a todos los suscriptores
func (b *Bus) Publish(e Error) {
	if e.At.IsZero() {
		e.At = time.Now()
	}

	b.mu.Lock()
	if len(b.recent) < recentCapacity {
		b.recent = append(b.recent, e)
	} else {
		b.recent[b.start] = e
		b.start = (b.start + 1) % recentCapacity
	}
	listeners := make([]Listener, 0, len(b.listeners))
	for _, l := range b.listeners {
		listeners = append(listeners, l)
	}
	onPanic := b.onPanic
	b.mu.Unlock()

	for _, l := range listeners {
		deliver(l, e, onPanic)
	}
}

func deliver(l Listener, e Error, onPanic func(interface{})) {
	defer func() {
		if r := recover(); r != nil && onPanic != nil {
			onPanic(r)
		}
	}()
	l(e)
}

// Recent devuelve hasta n eventos, del más reciente al más antiguo
func (b *Bus) Recent(n int) []Error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	size := len(b.recent)
	if n <= 0 || n > size {
		n = size
	}
	out := make([]Error, 0, n)
	for i := 0; i < n; i++ {
		idx := (b.start + size - 1 - i) % size
		out = append(out, b.recent[idx])
	}
	return out
}
