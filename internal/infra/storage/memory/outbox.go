package memory

import (
	"context"
	"sync"
	"time"

	appoutbox "rentprice/internal/app/outbox"
)

type outboxEntry struct {
	record    appoutbox.EventRecord
	attempts  int
	nextAt    time.Time
	claimedBy string
	sent      bool
	lastError string
}

// Outbox keeps event records in memory until the relay worker delivers them.
// Flush drops records that were already sent.
type Outbox struct {
	mu      sync.Mutex
	entries []*outboxEntry
	now     func() time.Time
}

func NewOutbox() *Outbox {
	return &Outbox{now: func() time.Time { return time.Now().UTC() }}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.entries = append(o.entries, &outboxEntry{record: record, nextAt: o.now()})
	return nil
}

func (o *Outbox) Flush(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	kept := o.entries[:0]
	for _, e := range o.entries {
		if !e.sent {
			kept = append(kept, e)
		}
	}
	o.entries = kept
	return nil
}

// Claim hands out the oldest record that is due and not claimed yet.
func (o *Outbox) Claim(ctx context.Context, workerID string) (*appoutbox.Delivery, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := o.now()
	for _, e := range o.entries {
		if e.sent || e.claimedBy != "" || e.nextAt.After(now) {
			continue
		}
		e.claimedBy = workerID
		return &appoutbox.Delivery{EventRecord: e.record, Attempts: e.attempts}, nil
	}
	return nil, nil
}

func (o *Outbox) MarkSent(ctx context.Context, id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if e := o.find(id); e != nil {
		e.sent = true
		e.claimedBy = ""
	}
	return nil
}

func (o *Outbox) MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if e := o.find(id); e != nil {
		e.attempts++
		e.nextAt = next
		e.lastError = errMsg
		e.claimedBy = ""
	}
	return nil
}

// Pending returns records not yet delivered.
func (o *Outbox) Pending() []appoutbox.EventRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []appoutbox.EventRecord
	for _, e := range o.entries {
		if !e.sent {
			out = append(out, e.record)
		}
	}
	return out
}

func (o *Outbox) find(id string) *outboxEntry {
	for _, e := range o.entries {
		if e.record.ID == id {
			return e
		}
	}
	return nil
}

var (
	_ appoutbox.Outbox = (*Outbox)(nil)
	_ appoutbox.Queue  = (*Outbox)(nil)
)
