package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"truida/internal/passenger/models"
	"truida/pkg/requestcontext"
)

// Producer is the part of *kgo.Client the publisher needs.
type Producer interface {
	Produce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error))
	Flush(ctx context.Context) error
}

// Publisher mirrors access log entries to Kafka. Publishing never blocks the
// caller and never fails it: the access log store stays the record of truth.
type Publisher struct {
	producer Producer
	topic    string
	breaker  *CircuitBreaker
	metrics  *Metrics
	logger   *slog.Logger
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) { p.logger = logger }
}

func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) { p.metrics = m }
}

func WithCircuitBreaker(cb *CircuitBreaker) Option {
	return func(p *Publisher) { p.breaker = cb }
}

func NewPublisher(producer Producer, topic string, opts ...Option) *Publisher {
	p := &Publisher{
		producer: producer,
		topic:    topic,
		breaker:  NewCircuitBreaker(5, 30*time.Second),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PublishAccess enqueues entry keyed by passenger id, so one passenger's
// events stay ordered within a partition.
func (p *Publisher) PublishAccess(ctx context.Context, entry models.AccessLogEntry) {
	if !p.breaker.Allow() {
		if p.metrics != nil {
			p.metrics.CircuitBreakerDropped.Inc()
		}
		return
	}
	payload, err := json.Marshal(FromEntry(entry, requestcontext.RequestID(ctx)))
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to encode access event", "error", err)
		return
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(entry.PassengerID.String()),
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: "outcome", Value: []byte(entry.Outcome)},
		},
	}
	// the request may finish before the broker acks
	p.producer.Produce(context.WithoutCancel(ctx), record, func(_ *kgo.Record, err error) {
		p.onResult(ctx, entry, err)
	})
}

func (p *Publisher) onResult(ctx context.Context, entry models.AccessLogEntry, err error) {
	if err == nil {
		p.breaker.RecordSuccess()
		if p.metrics != nil {
			p.metrics.Published.Inc()
			p.metrics.SetCircuitBreakerState(false)
		}
		return
	}
	opened := p.breaker.RecordFailure()
	if p.metrics != nil {
		p.metrics.PublishFailures.Inc()
		if opened {
			p.metrics.SetCircuitBreakerState(true)
		}
	}
	p.logger.WarnContext(ctx, "failed to publish access event",
		"access_log_id", entry.ID.String(),
		"passenger_id", entry.PassengerID.String(),
		"error", err,
	)
	if opened {
		p.logger.ErrorContext(ctx, "access event stream circuit opened")
	}
}

// Close flushes buffered events.
func (p *Publisher) Close(ctx context.Context) error {
	return p.producer.Flush(ctx)
}
