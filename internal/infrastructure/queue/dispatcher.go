package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/freelancehub/workboard/internal/core/domain"
	"github.com/freelancehub/workboard/internal/core/ports"
	"github.com/freelancehub/workboard/internal/infrastructure/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// Dispatcher routes journal entries to a fixed set of workers using
// consistent hashing on the project id, so entries for one project are
// written in the order they were recorded.
type Dispatcher struct {
	workers []chan domain.TransitionRecord
	journal ports.TransitionJournal
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, journal ports.TransitionJournal, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.TransitionRecord, numWorkers),
		journal: journal,
		log:     log.With().Str("component", "journal").Logger(),
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.TransitionRecord, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers drain their channel and exit
// after Stop.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Record counts the transition and queues it for the journal. It never
// blocks: when a worker's buffer is full the entry is dropped and logged.
func (d *Dispatcher) Record(rec domain.TransitionRecord) {
	result := "ok"
	if !rec.Succeeded() {
		result = "rejected"
	}
	metrics.TransitionsTotal.WithLabelValues(string(rec.Action), result).Inc()

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.Warn().Str("project_id", rec.ProjectID).Msg("journal closed, entry dropped")
		return
	}

	idx := d.shardIndex(rec.ProjectID)
	select {
	case d.workers[idx] <- rec:
		metrics.JournalQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		metrics.JournalErrorsTotal.Inc()
		d.log.Warn().Str("project_id", rec.ProjectID).Int("worker_id", idx).Msg("journal queue full, entry dropped")
	}
}

// Stop closes the queues and waits for pending entries to be written.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// shardIndex maps a project id deterministically to a worker index.
func (d *Dispatcher) shardIndex(projectID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(projectID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.TransitionRecord) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for rec := range ch {
		metrics.JournalQueueDepth.WithLabelValues(label).Dec()

		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
		err := d.journal.Insert(writeCtx, &rec)
		cancel()
		if err != nil {
			metrics.JournalErrorsTotal.Inc()
			d.log.Error().Err(err).
				Str("project_id", rec.ProjectID).
				Str("action", string(rec.Action)).
				Int("worker_id", id).
				Msg("journal write failed")
		}
	}
}
