// Package jobs runs long operations off the caller's goroutine and reports
// their progress as events.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

var (
	ErrBusy         = errors.New("a job of this kind is already running")
	ErrLoadsPending = errors.New("loads are still pending")
	ErrClosed       = errors.New("runner is closed")
)

type Kind string

const (
	KindLoadBook     Kind = "load-book"
	KindLoadTemplate Kind = "load-template"
	KindGenerate     Kind = "generate"
)

func (k Kind) isLoad() bool {
	return k == KindLoadBook || k == KindLoadTemplate
}

// Event is a progress or lifecycle notification. The last event of a job has
// Done set, with Err holding the job's error if it failed.
type Event struct {
	Kind    Kind
	Message string
	Percent int
	Done    bool
	Err     error
}

// Reporter lets a running job publish progress.
type Reporter interface {
	Report(percent int, message string)
}

type Task func(ctx context.Context, report Reporter) error

// Runner executes at most one job per Kind at a time. Loads are tracked by
// the Gate; a generate job is refused while any load is pending.
//
// Jobs block on a full Events channel, so callers must drain Events until
// Close returns.
type Runner struct {
	mu     sync.Mutex
	active map[Kind]bool
	closed bool

	gate   *Gate
	events chan Event
	wg     sync.WaitGroup
	logger *zap.Logger
}

func NewRunner(gate *Gate, buffer int, logger *zap.Logger) *Runner {
	if gate == nil {
		gate = NewGate(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		active: make(map[Kind]bool),
		gate:   gate,
		events: make(chan Event, max(buffer, 0)),
		logger: logger,
	}
}

func (r *Runner) Events() <-chan Event {
	return r.events
}

// Submit starts task in the background.
func (r *Runner) Submit(ctx context.Context, kind Kind, task Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	if r.active[kind] {
		return fmt.Errorf("submit %s: %w", kind, ErrBusy)
	}
	if kind == KindGenerate && !r.gate.Ready() {
		return fmt.Errorf("submit %s: %w", kind, ErrLoadsPending)
	}

	r.active[kind] = true
	if kind.isLoad() {
		r.gate.Begin()
	}

	r.wg.Add(1)
	go r.run(ctx, kind, task)
	return nil
}

func (r *Runner) run(ctx context.Context, kind Kind, task Task) {
	defer r.wg.Done()

	r.logger.Debug("Job started", zap.String("kind", string(kind)))
	err := task(ctx, reporter{runner: r, kind: kind})
	if err != nil {
		r.logger.Warn("Job failed", zap.String("kind", string(kind)), zap.Error(err))
	}

	r.mu.Lock()
	delete(r.active, kind)
	r.mu.Unlock()
	if kind.isLoad() {
		r.gate.End()
	}

	message := "Done!"
	if err != nil {
		message = err.Error()
	}
	r.events <- Event{Kind: kind, Message: message, Percent: 100, Done: true, Err: err}
}

// Wait blocks until every submitted job has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Close refuses new jobs, waits for running ones and closes Events.
func (r *Runner) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.mu.Unlock()

	r.wg.Wait()
	close(r.events)
}

type reporter struct {
	runner *Runner
	kind   Kind
}

func (rp reporter) Report(percent int, message string) {
	rp.runner.events <- Event{Kind: rp.kind, Message: message, Percent: percent}
}
