package webhook

import (
	"context"
	"sync"
	"time"

	"github.com/Conversly/analytics-dashboard/internal/types"
	"github.com/Conversly/analytics-dashboard/internal/utils"
	"go.uber.org/zap"
)

const (
	DefaultProcessingDelay = 30 * time.Second
	statusWriteTimeout     = 30 * time.Second
)

// StatusUpdater is the part of the transaction repository the scheduler writes through.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, id string, status types.ProcessStatus) error
}

type phase int

const (
	phaseStart phase = iota
	phaseSettle
)

type statusJob struct {
	handle *Handle
	phase  phase
	// resumed jobs are already processing and skip the first transition.
	resumed bool
}

// Handle tracks one scheduled status progression.
type Handle struct {
	id        string
	mu        sync.Mutex
	timer     *time.Timer
	cancelled bool
	outcome   types.ProcessStatus
	done      chan struct{}
	once      sync.Once
	release   func()
}

func newHandle(id string, release func()) *Handle {
	return &Handle{id: id, done: make(chan struct{}), release: release}
}

// ID returns the transaction id the handle drives.
func (h *Handle) ID() string { return h.id }

// Done is closed once a terminal status is written or the handle is cancelled.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Outcome returns the terminal status written, or "" if none was.
func (h *Handle) Outcome() types.ProcessStatus {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.outcome
}

// Cancel stops the progression if it has not settled yet. The transaction
// keeps whatever status it has reached.
func (h *Handle) Cancel() {
	h.mu.Lock()
	if h.outcome != "" {
		h.mu.Unlock()
		return
	}
	h.cancelled = true
	if h.timer != nil {
		h.timer.Stop()
	}
	h.mu.Unlock()
	h.finish()
	if h.release != nil {
		h.release()
	}
}

func (h *Handle) isCancelled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cancelled
}

func (h *Handle) finish() {
	h.once.Do(func() { close(h.done) })
}

// SchedulerOptions configures a Scheduler.
type SchedulerOptions struct {
	Workers       int
	QueueCapacity int
	// Delay between processing and settlement. Zero means DefaultProcessingDelay.
	Delay         time.Duration
	Policy        SettlementPolicy
}

// Scheduler moves transactions pending -> processing -> completed|failed.
// Workers never sleep through the delay; a timer re-enqueues the settle step.
type Scheduler struct {
	jobs       chan statusJob
	quit       chan struct{}
	started    bool
	stopped    bool
	wg         sync.WaitGroup
	numWorkers int
	delay      time.Duration
	policy     SettlementPolicy
	store      StatusUpdater

	mu      sync.Mutex
	handles map[string]*Handle
}

func NewScheduler(store StatusUpdater, opts SchedulerOptions) *Scheduler {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.QueueCapacity <= 0 {
		opts.QueueCapacity = 100
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultProcessingDelay
	}
	if opts.Policy == nil {
		opts.Policy = NewRandomSettlement(DefaultSuccessRate)
	}
	return &Scheduler{
		jobs:       make(chan statusJob, opts.QueueCapacity),
		quit:       make(chan struct{}),
		numWorkers: opts.Workers,
		delay:      opts.Delay,
		policy:     opts.Policy,
		store:      store,
		handles:    make(map[string]*Handle),
	}
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	for i := 0; i < s.numWorkers; i++ {
		s.wg.Add(1)
		go func(workerID int) {
			defer s.wg.Done()
			utils.Zlog.Debug("Status worker started", zap.Int("workerId", workerID))
			for {
				select {
				case <-s.quit:
					utils.Zlog.Debug("Status worker stopping", zap.Int("workerId", workerID))
					return
				case job := <-s.jobs:
					s.run(workerID, job)
				}
			}
		}(i + 1)
	}
}

// Stop halts the workers and disarms every pending timer. Transactions that
// have not settled keep their current status; Processor.Resume picks them up
// on the next start.
func (s *Scheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	if !s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.quit)
	pending := 0
	for _, h := range s.handles {
		h.mu.Lock()
		if h.timer != nil {
			h.timer.Stop()
		}
		h.mu.Unlock()
		pending++
	}
	s.mu.Unlock()

	if pending > 0 {
		utils.Zlog.Warn("Stopping scheduler with unsettled transactions", zap.Int("pending", pending))
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-ctx.Done():
		utils.Zlog.Warn("Timeout waiting for status workers to stop")
	case <-done:
		utils.Zlog.Info("All status workers stopped")
	}
}

// Schedule starts the progression of a pending transaction. Scheduling an id
// that is already in flight returns the existing handle.
func (s *Scheduler) Schedule(transactionID string) *Handle {
	return s.schedule(transactionID, false)
}

func (s *Scheduler) schedule(transactionID string, resumed bool) *Handle {
	s.mu.Lock()
	if h, ok := s.handles[transactionID]; ok {
		s.mu.Unlock()
		return h
	}
	h := newHandle(transactionID, func() { s.forget(transactionID) })
	s.handles[transactionID] = h
	s.mu.Unlock()

	s.dispatch(statusJob{handle: h, phase: phaseStart, resumed: resumed})
	return h
}

// Pending returns the number of transactions still in flight.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handles)
}

// dispatch holds mu so that Stop cannot begin waiting between the stopped
// check and the WaitGroup Add of an overflow goroutine.
func (s *Scheduler) dispatch(job statusJob) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		utils.Zlog.Warn("Scheduler stopped, dropping status job",
			zap.String("transactionId", job.handle.id))
		return
	}

	select {
	case s.jobs <- job:
	default:
		utils.Zlog.Warn("Status queue is full; running job on a dedicated goroutine",
			zap.String("transactionId", job.handle.id))
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.run(0, job)
		}()
	}
}

func (s *Scheduler) run(workerID int, job statusJob) {
	h := job.handle
	if h.isCancelled() {
		s.forget(h.id)
		return
	}

	switch job.phase {
	case phaseStart:
		if !job.resumed {
			s.write(workerID, h.id, types.StatusProcessing)
		}

		h.mu.Lock()
		if h.cancelled {
			h.mu.Unlock()
			s.forget(h.id)
			return
		}
		h.timer = time.AfterFunc(s.delay, func() {
			s.dispatch(statusJob{handle: h, phase: phaseSettle})
		})
		h.mu.Unlock()

	case phaseSettle:
		outcome := s.policy.Settle()

		h.mu.Lock()
		if h.cancelled {
			h.mu.Unlock()
			s.forget(h.id)
			return
		}
		h.outcome = outcome
		h.mu.Unlock()

		s.write(workerID, h.id, outcome)
		s.forget(h.id)
		h.finish()

		utils.Zlog.Info("Transaction settled",
			zap.Int("workerId", workerID),
			zap.String("transactionId", h.id),
			zap.String("status", string(outcome)))
	}
}

// write never fails the job; nobody is waiting for it.
func (s *Scheduler) write(workerID int, id string, status types.ProcessStatus) {
	ctx, cancel := context.WithTimeout(context.Background(), statusWriteTimeout)
	defer cancel()
	if err := s.store.UpdateStatus(ctx, id, status); err != nil {
		utils.Zlog.Error("Failed to write transaction status",
			zap.Int("workerId", workerID),
			zap.String("transactionId", id),
			zap.String("status", string(status)),
			zap.Error(err))
	}
}

func (s *Scheduler) forget(id string) {
	s.mu.Lock()
	delete(s.handles, id)
	s.mu.Unlock()
}
