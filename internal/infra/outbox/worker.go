package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	appoutbox "rentprice/internal/app/outbox"
	"rentprice/internal/infra/obs"
)

type Producer interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

// Worker relays outbox records to the broker as CloudEvents, one record per tick.
type Worker struct {
	Queue       appoutbox.Queue
	Producer    Producer
	Logger      *slog.Logger
	Interval    time.Duration
	TopicPrefix string
	Source      string
	ID          string
	Backoff     []time.Duration
}

func (w *Worker) Run(ctx context.Context) error {
	if w.Queue == nil || w.Producer == nil {
		return ErrWorkerNotConfigured
	}
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	ticker := time.NewTicker(w.interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.processOnce(ctx); err != nil && w.Logger != nil {
				w.Logger.Error("outbox queue error", "worker", w.ID, "error", err)
			}
		}
	}
}

// processOnce delivers at most one record and reports whether one was found.
// Delivery failures are rescheduled; only queue errors are returned.
func (w *Worker) processOnce(ctx context.Context) (bool, error) {
	d, err := w.Queue.Claim(ctx, w.ID)
	if err != nil || d == nil {
		return false, err
	}
	payload, headers, err := w.formatPayload(d)
	if err == nil {
		err = w.Producer.Publish(ctx, w.topicFor(d.Name), d.Aggregate, payload, headers)
	}
	obs.IncOutboxEvent(d.Name, err)
	if err != nil {
		if w.Logger != nil {
			w.Logger.Warn("outbox delivery failed", "event_id", d.ID, "event", d.Name, "attempts", d.Attempts+1, "error", err)
		}
		return true, w.Queue.MarkFailed(ctx, d.ID, w.nextRetry(d.Attempts), err.Error())
	}
	return true, w.Queue.MarkSent(ctx, d.ID)
}

func (w *Worker) formatPayload(d *appoutbox.Delivery) ([]byte, map[string]string, error) {
	data := map[string]any{}
	if err := json.Unmarshal(d.Payload, &data); err != nil {
		return nil, nil, err
	}
	evt := map[string]any{
		"specversion":     "1.0",
		"id":              d.ID,
		"type":            d.Name + ".v1",
		"source":          w.source(),
		"subject":         d.Aggregate,
		"time":            d.OccurredAt,
		"datacontenttype": "application/json",
		"data":            data,
	}
	if trace, ok := d.Headers["traceparent"]; ok {
		evt["traceparent"] = trace
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, nil, err
	}
	headers := map[string]string{}
	for k, v := range d.Headers {
		headers[k] = v
	}
	headers["content-type"] = "application/cloudevents+json"
	return payload, headers, nil
}

// topicFor maps "listing.created" to "<prefix>listing.events.v1".
func (w *Worker) topicFor(name string) string {
	base := name
	if idx := strings.IndexRune(name, '.'); idx > 0 {
		base = name[:idx]
	}
	return w.TopicPrefix + base + ".events.v1"
}

func (w *Worker) interval() time.Duration {
	if w.Interval <= 0 {
		return 500 * time.Millisecond
	}
	return w.Interval
}

func (w *Worker) nextRetry(attempts int) time.Time {
	if attempts < len(w.Backoff) {
		return time.Now().Add(w.Backoff[attempts])
	}
	if len(w.Backoff) > 0 {
		return time.Now().Add(w.Backoff[len(w.Backoff)-1])
	}
	return time.Now().Add(5 * time.Second)
}

func (w *Worker) source() string {
	if w.Source != "" {
		return w.Source
	}
	return "app://rentprice"
}

// LogProducer writes events to the logger instead of a broker. It is used when
// no brokers are configured.
type LogProducer struct {
	Logger *slog.Logger
}

func (p LogProducer) Publish(ctx context.Context, topic string, key string, payload []byte, _ map[string]string) error {
	if p.Logger != nil {
		p.Logger.InfoContext(ctx, "event published", "topic", topic, "key", key, "bytes", len(payload))
	}
	return nil
}

var ErrWorkerNotConfigured = errors.New("outbox: worker missing dependencies")
