package services

import (
	"context"
	"sync"
	"time"

	"github.com/vibelink-events/vibelink-api/middleware"
	"go.uber.org/zap"
)

// DefaultOutboxSize is the number of notifications the outbox buffers before dropping
const DefaultOutboxSize = 256

// Notification is one email request for an edge function
type Notification struct {
	Kind    string      // edge function name
	Payload interface{} // JSON body
}

// Notifier accepts notifications for delivery. Enqueue must not block.
type Notifier interface {
	Enqueue(n Notification)
}

// Sender delivers a single notification
type Sender interface {
	Invoke(ctx context.Context, name string, payload interface{}) error
}

// Outbox delivers notifications on a background worker, at most once each.
// Failures are logged and counted, never retried.
type Outbox struct {
	sender  Sender
	logger  *zap.Logger
	queue   chan Notification
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

var notifierInstance Notifier

// NewOutbox creates an outbox with room for size pending notifications
func NewOutbox(sender Sender, logger *zap.Logger, size int) *Outbox {
	if size <= 0 {
		size = DefaultOutboxSize
	}
	return &Outbox{
		sender:  sender,
		logger:  logger,
		queue:   make(chan Notification, size),
		timeout: 10 * time.Second,
	}
}

// InitNotifier starts an outbox worker and makes it the package notifier
func InitNotifier(ctx context.Context, sender Sender, logger *zap.Logger) *Outbox {
	outbox := NewOutbox(sender, logger, DefaultOutboxSize)
	outbox.Start(ctx)
	notifierInstance = outbox
	return outbox
}

// GetNotifier returns the package notifier. Without one, notifications are dropped.
func GetNotifier() Notifier {
	if notifierInstance == nil {
		return discardNotifier{}
	}
	return notifierInstance
}

// SetNotifier sets the notifier instance (primarily for testing)
func SetNotifier(n Notifier) {
	notifierInstance = n
}

// Start runs the delivery worker until ctx is cancelled or Close is called
func (o *Outbox) Start(ctx context.Context) {
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case n, ok := <-o.queue:
				if !ok {
					return
				}
				o.deliver(ctx, n)
			}
		}
	}()
}

func (o *Outbox) deliver(ctx context.Context, n Notification) {
	sendCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	if err := o.sender.Invoke(sendCtx, n.Kind, n.Payload); err != nil {
		o.logger.Error("Failed to send notification", zap.String("kind", n.Kind), zap.Error(err))
		middleware.RecordNotification(n.Kind, "failed")
		return
	}
	o.logger.Debug("Notification sent", zap.String("kind", n.Kind))
	middleware.RecordNotification(n.Kind, "sent")
}

// Enqueue queues n for delivery. A full or closed outbox drops it.
func (o *Outbox) Enqueue(n Notification) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.closed {
		o.logger.Warn("Outbox closed, dropping notification", zap.String("kind", n.Kind))
		middleware.RecordNotification(n.Kind, "dropped")
		return
	}

	select {
	case o.queue <- n:
	default:
		o.logger.Warn("Outbox full, dropping notification", zap.String("kind", n.Kind))
		middleware.RecordNotification(n.Kind, "dropped")
	}
}

// Close stops accepting notifications and waits for the queued ones to be delivered
func (o *Outbox) Close() {
	o.mu.Lock()
	if !o.closed {
		o.closed = true
		close(o.queue)
	}
	o.mu.Unlock()
	o.wg.Wait()
}

type discardNotifier struct{}

func (discardNotifier) Enqueue(n Notification) {}
