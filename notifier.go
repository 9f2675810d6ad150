package identity

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-print"
)

// Template names the notification dispatcher is invoked with. The rendering
// and transport behind them live outside this package.
const (
	TemplateAccountActivation       = "account-activation"
	TemplateAccountRecovery         = "account-recovery"
	TemplateEmailChangeConfirmation = "email-change-confirmation"
)

// NotificationDispatcher is the fire-and-forget hand-off the lifecycle
// commands use. AsyncDispatcher is the production implementation.
type NotificationDispatcher interface {
	Dispatch(to, subject, template string, data map[string]any)
}

type noopDispatcher struct{}

func (noopDispatcher) Dispatch(string, string, string, map[string]any) {}

type notification struct {
	to       string
	subject  string
	template string
	data     map[string]any
}

// AsyncDispatcher hands notifications to a Notifier on its own goroutine so
// lifecycle commands never block on mail transport. Delivery is fire and
// forget: a failed or dropped send is logged and lost. Known limitation,
// there is no retry and no delivery confirmation.
type AsyncDispatcher struct {
	notifier Notifier
	logger   Logger
	queue    chan notification
	done     chan struct{}
	once     sync.Once

	mu     sync.RWMutex
	closed bool
}

// NewAsyncDispatcher starts the worker. Close releases it.
func NewAsyncDispatcher(notifier Notifier, opts ...DispatcherOption) *AsyncDispatcher {
	d := &AsyncDispatcher{
		notifier: notifier,
		logger:   defLogger{},
		queue:    make(chan notification, 64),
		done:     make(chan struct{}),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}

	go d.worker()

	return d
}

// DispatcherOption customizes dispatcher construction.
type DispatcherOption func(*AsyncDispatcher)

// WithDispatcherLogger overrides the logger used for delivery failures.
func WithDispatcherLogger(logger Logger) DispatcherOption {
	return func(d *AsyncDispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithDispatcherQueueSize sets the pending-notification buffer.
func WithDispatcherQueueSize(size int) DispatcherOption {
	return func(d *AsyncDispatcher) {
		if size > 0 {
			d.queue = make(chan notification, size)
		}
	}
}

// Dispatch enqueues a notification and returns immediately. When the buffer
// is full the message is dropped, not blocked on; after Close every message
// is dropped.
func (d *AsyncDispatcher) Dispatch(to, subject, template string, data map[string]any) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.Warn("dispatcher closed, dropping message", "template", template, "to", to)
		return
	}

	msg := notification{
		to:       to,
		subject:  subject,
		template: template,
		data:     data,
	}

	select {
	case d.queue <- msg:
	default:
		d.logger.Warn("notification queue full, dropping message", "template", template, "to", to)
	}
}

// Close stops accepting work and drains what is already queued.
func (d *AsyncDispatcher) Close() {
	d.once.Do(func() {
		d.mu.Lock()
		d.closed = true
		d.mu.Unlock()

		close(d.queue)
	})
	<-d.done
}

func (d *AsyncDispatcher) worker() {
	defer close(d.done)

	for msg := range d.queue {
		if d.notifier == nil {
			continue
		}
		if err := d.notifier.Send(context.Background(), msg.to, msg.subject, msg.template, msg.data); err != nil {
			d.logger.Warn("notification delivery failed", "template", msg.template, "to", msg.to, "error", err)
		}
	}
}

// DevNotifier prints notifications instead of delivering them. Handy while
// the real mail transport is wired up elsewhere.
type DevNotifier struct{}

func (DevNotifier) Send(_ context.Context, to, subject, template string, data map[string]any) error {
	fmt.Println("====== SENDING EMAIL NOTIFICATION =======")
	fmt.Printf("to: %s\nsubject: %s\ntemplate: %s\n", to, subject, template)
	fmt.Println(print.MaybePrettyJSON(data))
	fmt.Println("=========================================")
	return nil
}

var _ Notifier = DevNotifier{}
