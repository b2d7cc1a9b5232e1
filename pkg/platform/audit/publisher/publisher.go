// Package publisher delivers audit events to an audit.Store, either inline or
// through a bounded buffer drained by a background goroutine.
package publisher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	audit "village/pkg/platform/audit"
	"village/pkg/requestcontext"
)

var (
	ErrBufferFull  = errors.New("audit buffer full")
	ErrBreakerOpen = errors.New("audit store unavailable")
	ErrClosed      = errors.New("audit publisher closed")
)

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily.
type Publisher struct {
	store   audit.Store
	logger  *slog.Logger
	metrics *Metrics
	breaker *Breaker

	mu     sync.RWMutex
	closed bool
	buffer chan audit.Event
	wg     sync.WaitGroup
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithAsyncBuffer makes Emit enqueue into a buffer of the given size.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.buffer = make(chan audit.Event, size)
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// WithBreaker skips the store while it keeps failing.
func WithBreaker(b *Breaker) Option {
	return func(p *Publisher) {
		p.breaker = b
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.buffer != nil {
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

// Emit fills in the event ID, timestamp and category, then persists the
// event inline or enqueues it. A full buffer returns ErrBufferFull.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	if p.buffer == nil {
		return p.persist(ctx, event)
	}

	select {
	case p.buffer <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		p.metrics.IncDropped("buffer_full")
		return ErrBufferFull
	}
}

// Close stops accepting events and waits for the buffer to drain.
func (p *Publisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	if p.buffer != nil {
		close(p.buffer)
	}
	p.mu.Unlock()

	p.wg.Wait()
	return nil
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for event := range p.buffer {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := p.persist(ctx, event); err != nil {
			p.logger.Warn("audit event not persisted",
				"action", event.Action,
				"identity_id", event.IdentityID.String(),
				"request_id", event.RequestID,
				"error", err,
			)
		}
		cancel()
	}
}

func (p *Publisher) persist(ctx context.Context, event audit.Event) error {
	if p.breaker != nil && !p.breaker.Allow() {
		p.metrics.IncDropped("breaker_open")
		return ErrBreakerOpen
	}

	if err := p.store.Append(ctx, event); err != nil {
		p.metrics.IncPersistFailures()
		if p.breaker != nil && p.breaker.RecordFailure() {
			p.metrics.SetBreakerOpen(true)
			p.logger.ErrorContext(ctx, "audit store breaker opened", "error", err)
		}
		return err
	}

	if p.breaker != nil {
		p.breaker.RecordSuccess()
		p.metrics.SetBreakerOpen(false)
	}
	p.metrics.IncEmitted(event.Action)
	return nil
}
