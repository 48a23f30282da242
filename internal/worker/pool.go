// Package worker runs inbound messages on a fixed set of goroutines.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"finance-bot/internal/config"
	"finance-bot/internal/domain"
)

var ErrPoolClosed = errors.New("worker pool is closed")

// Handler processes one message. It must not rely on ctx outliving the job
// timeout.
type Handler func(ctx context.Context, msg domain.InboundMessage)

// Pool is an in-process queue with a bounded buffer. Jobs are not persisted:
// whatever is still queued when the process dies is lost.
type Pool struct {
	jobs       chan domain.InboundMessage
	stopping   chan struct{} // wakes submitters blocked on a full queue
	closeChan  chan struct{} // closed once no submitter can still send
	stopOnce   sync.Once
	wg         sync.WaitGroup
	mu         sync.RWMutex
	closed     bool
	started    bool
	handler    Handler
	workers    int
	jobTimeout time.Duration
}

func NewPool(cfg config.Worker, handler Handler) *Pool {
	workers := cfg.Count
	if workers <= 0 {
		workers = 1
	}
	size := cfg.QueueSize
	if size < 0 {
		size = 0
	}
	timeout := cfg.JobTimeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}

	return &Pool{
		jobs:       make(chan domain.InboundMessage, size),
		stopping:   make(chan struct{}),
		closeChan:  make(chan struct{}),
		handler:    handler,
		workers:    workers,
		jobTimeout: timeout,
	}
}

// Submit enqueues msg, blocking while the buffer is full. The read lock is
// held across the send; Stop waits for it before the workers drain.
func (p *Pool) Submit(ctx context.Context, msg domain.InboundMessage) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.jobs <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.stopping:
		return ErrPoolClosed
	}
}

// Start launches the workers. Cancelling ctx does not abort running jobs;
// use Stop for shutdown.
func (p *Pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPoolClosed
	}
	if p.started {
		return nil
	}
	p.started = true

	base := context.WithoutCancel(ctx)
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(base, i)
	}

	slog.Info("👷 worker pool started", "workers", p.workers, "queue", cap(p.jobs), "job_timeout", p.jobTimeout)
	return nil
}

func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	for {
		select {
		case msg := <-p.jobs:
			p.run(ctx, id, msg)
		case <-p.closeChan:
			p.drain(ctx, id)
			return
		}
	}
}

// drain finishes what was queued before Stop.
func (p *Pool) drain(ctx context.Context, id int) {
	for {
		select {
		case msg := <-p.jobs:
			p.run(ctx, id, msg)
		default:
			return
		}
	}
}

func (p *Pool) run(ctx context.Context, id int, msg domain.InboundMessage) {
	ctx, cancel := context.WithTimeout(ctx, p.jobTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("💥 job panicked",
				"worker", id,
				"chat_id", msg.ChatID,
				"message_id", msg.MessageID,
				"panic", r,
				"stack", string(debug.Stack()),
			)
		}
	}()

	start := time.Now()
	p.handler(ctx, msg)
	slog.Debug("job done", "worker", id, "message_id", msg.MessageID, "elapsed", time.Since(start))
}

// Stop rejects new jobs, lets the workers finish the queue and waits for them
// until ctx expires.
func (p *Pool) Stop(ctx context.Context) error {
	p.stopOnce.Do(func() { close(p.stopping) })

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.closeChan)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("👷 worker pool stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
