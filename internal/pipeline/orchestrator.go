package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nmehta/coursegen/internal/config"
	"github.com/nmehta/coursegen/internal/llm"
	"github.com/nmehta/coursegen/internal/store"
)

// Orchestrator owns the job queue and the worker pool. One generation
// cache is shared across all workers so identical prompts are issued to
// the provider at most once.
type Orchestrator struct {
	jobs  *JobStore
	queue chan *Job
	gw    llm.Gateway
	cache *llm.Cache
	st    *store.Store
	log   *slog.Logger
	cfg   config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewOrchestrator(cfg config.Config, gw llm.Gateway, st *store.Store, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:  NewJobStore(cfg.JobTTL),
		queue: make(chan *Job, cfg.MaxQueueSize),
		gw:    gw,
		cache: llm.NewCache(),
		st:    st,
		log:   log,
		cfg:   cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.gw, o.cache, o.st, o.log)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a generation job for a course stage.
func (o *Orchestrator) Submit(courseID string, stage Stage, opts JobOptions) (*Job, error) {
	job := newJob(courseID, stage, opts)
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return job, nil
	default:
		job.SetStatus(StatusFailed)
		job.AddError("queue full")
		return nil, fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID, or nil.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// CacheSize reports the number of cached generations.
func (o *Orchestrator) CacheSize() int {
	return o.cache.Len()
}
