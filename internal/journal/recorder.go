package journal

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/netkeeper/internal/logging"
	"github.com/jonboulle/clockwork"
)

const (
	recorderBuffer = 256
	recorderBatch  = 32
)

// Recorder is a Sink that copies entries into a Store in the background.
type Recorder struct {
	store    Store
	runID    string
	log      logging.Logger
	clock    clockwork.Clock
	interval time.Duration
	in       chan Entry
	dropped  atomic.Int64
}

// NewRecorder creates a recorder writing under runID. Entries are flushed
// every interval or when a batch fills up, whichever comes first.
func NewRecorder(store Store, runID string, clock clockwork.Clock, interval time.Duration, log logging.Logger) *Recorder {
	return &Recorder{
		store:    store,
		runID:    runID,
		log:      log.With("component", "recorder", "run_id", runID),
		clock:    clock,
		interval: interval,
		in:       make(chan Entry, recorderBuffer),
	}
}

// Record queues e. When the queue is full the entry is dropped and counted.
func (r *Recorder) Record(e Entry) {
	select {
	case r.in <- e:
	default:
		r.dropped.Add(1)
	}
}

// Dropped reports how many entries did not fit in the queue.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

// Run drains the queue until ctx is cancelled, then flushes what is left.
func (r *Recorder) Run(ctx context.Context) {
	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	batch := make([]Entry, 0, recorderBatch)

	for {
		select {
		case e := <-r.in:
			batch = append(batch, e)
			if len(batch) >= recorderBatch {
				batch = r.flush(ctx, batch)
			}

		case <-ticker.Chan():
			batch = r.flush(ctx, batch)

		case <-ctx.Done():
		drain:
			for {
				select {
				case e := <-r.in:
					batch = append(batch, e)
				default:
					break drain
				}
			}
			fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			r.flush(fctx, batch)
			cancel()
			return
		}
	}
}

func (r *Recorder) flush(ctx context.Context, batch []Entry) []Entry {
	if len(batch) == 0 {
		return batch
	}
	if err := r.store.Save(ctx, r.runID, batch); err != nil {
		r.log.Warn(ctx, "failed to save history", "error", err, "entries", len(batch))
	}
	return batch[:0]
}
