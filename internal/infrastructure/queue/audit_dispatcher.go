package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/bizsuite/identity-service/internal/api/metrics"
	"github.com/bizsuite/identity-service/internal/core/domain"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// AuditSink is the blocking writer the dispatcher drains into.
type AuditSink interface {
	Insert(ctx context.Context, rec domain.AuditRecord) error
}

// AuditDispatcher fans audit records out to a fixed set of workers using
// consistent hashing on the company id, keeping per-tenant trail ordering.
// Record never blocks the request path: when a worker's buffer is full the
// record is dropped and counted, never queued synchronously.
type AuditDispatcher struct {
	workers []chan domain.AuditRecord
	sink    AuditSink
	log     zerolog.Logger
}

// NewAuditDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, sink AuditSink, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan domain.AuditRecord, numWorkers),
		sink:    sink,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditRecord, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *AuditDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record implements ports.AuditRecorder. Fire-and-forget: a full buffer drops
// the record rather than stalling the response that produced it.
func (d *AuditDispatcher) Record(_ context.Context, rec domain.AuditRecord) {
	select {
	case d.workers[d.shardIndex(rec.CompanyID)] <- rec:
	default:
		metrics.AuditDroppedTotal.Inc()
		d.log.Warn().Str("action_type", rec.ActionType).Msg("audit buffer full, record dropped")
	}
}

// shardIndex maps a company id deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(companyID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(companyID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditRecord) {
	for {
		select {
		case <-ctx.Done():
			return
		case rec, ok := <-ch:
			if !ok {
				return
			}
			if err := d.sink.Insert(ctx, rec); err != nil {
				metrics.AuditErrorsTotal.Inc()
				d.log.Error().Err(err).
					Str("action_type", rec.ActionType).
					Int("worker_id", id).
					Msg("audit write failed")
			}
		}
	}
}
