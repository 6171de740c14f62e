package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/simmerkit/recipe-vault/internal/api/metrics"
	"github.com/simmerkit/recipe-vault/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// Dispatcher routes import jobs to a fixed set of workers using consistent
// hashing on the user id, guaranteeing per-user import ordering.
type Dispatcher struct {
	workers []chan ports.ImportJob
	service ports.ImportService
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.ImportService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.ImportJob, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ImportJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Stop closes the worker channels and waits for in-flight jobs to finish.
// Enqueue must not be called after Stop.
func (d *Dispatcher) Stop() {
	for _, ch := range d.workers {
		close(ch)
	}
	d.wg.Wait()
}

// Enqueue sends a job to the worker responsible for its user. The call is
// non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(job ports.ImportJob) {
	idx := d.shardIndex(job.UserID)
	d.workers[idx] <- job
	metrics.ImportQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// shardIndex maps a user id deterministically to a worker index.
func (d *Dispatcher) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.ImportJob) {
	defer d.wg.Done()
	workerID := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			metrics.ImportQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))

			start := time.Now()
			err := d.service.Process(ctx, job)
			metrics.ImportProcessingDuration.WithLabelValues(string(job.Source)).Observe(time.Since(start).Seconds())
			if err != nil {
				d.log.Error().Err(err).
					Str("import_id", job.ID).
					Int("worker_id", id).
					Msg("import processing failed")
			}
		}
	}
}
