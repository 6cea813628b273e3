package notify

import (
	"encoding/json"
	"sync"
	"time"
)

const DefaultTimeout = 5 * time.Second

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
)

type Notification struct {
	Show    bool
	Type    Kind
	Message string
	Timeout time.Duration
}

// MarshalJSON reports the timeout in milliseconds, the unit API consumers
// drive their hide timers with.
func (n Notification) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Show    bool   `json:"show"`
		Type    Kind   `json:"type"`
		Message string `json:"message"`
		Timeout int64  `json:"timeout"`
	}{n.Show, n.Type, n.Message, n.Timeout.Milliseconds()})
}

// Bus holds the single process-wide notification record. Publishing replaces
// the current record and arms a timer that hides it again; a later publish
// supersedes the pending timer.
type Bus struct {
	mu      sync.Mutex
	current Notification
	seq     uint64
	timer   *time.Timer
}

func NewBus() *Bus {
	return &Bus{current: Notification{Type: KindInfo, Timeout: DefaultTimeout}}
}

func (b *Bus) Publish(kind Kind, message string, timeout time.Duration) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.timer != nil {
		b.timer.Stop()
	}

	b.seq++
	seq := b.seq
	b.current = Notification{Show: true, Type: kind, Message: message, Timeout: timeout}
	b.timer = time.AfterFunc(timeout, func() { b.hideIfCurrent(seq) })
}

func (b *Bus) hideIfCurrent(seq uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.seq == seq {
		b.current.Show = false
	}
}

func (b *Bus) Hide() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
	}
	b.current.Show = false
}

func (b *Bus) Current() Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

func (b *Bus) Success(message string) { b.Publish(KindSuccess, message, DefaultTimeout) }
func (b *Bus) Error(message string)   { b.Publish(KindError, message, DefaultTimeout) }
func (b *Bus) Info(message string)    { b.Publish(KindInfo, message, DefaultTimeout) }
func (b *Bus) Warning(message string) { b.Publish(KindWarning, message, DefaultTimeout) }
