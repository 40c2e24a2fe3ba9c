package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// drain collects events until the runner closes them.
func drain(r *Runner) <-chan []Event {
	out := make(chan []Event, 1)
	go func() {
		var events []Event
		for ev := range r.Events() {
			events = append(events, ev)
		}
		out <- events
	}()
	return out
}

func TestRunnerReportsProgress(t *testing.T) {
	r := NewRunner(nil, 0, nil)
	collected := drain(r)

	err := r.Submit(context.Background(), KindLoadBook, func(_ context.Context, report Reporter) error {
		report.Report(50, "Sheet 2012 loaded")
		report.Report(100, "Sheet 2013 loaded")
		return nil
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	r.Close()

	want := []Event{
		{Kind: KindLoadBook, Message: "Sheet 2012 loaded", Percent: 50},
		{Kind: KindLoadBook, Message: "Sheet 2013 loaded", Percent: 100},
		{Kind: KindLoadBook, Message: "Done!", Percent: 100, Done: true},
	}
	if diff := cmp.Diff(want, <-collected); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestRunnerReportsFailure(t *testing.T) {
	r := NewRunner(nil, 1, nil)
	collected := drain(r)

	boom := errors.New("boom")
	if err := r.Submit(context.Background(), KindGenerate, func(context.Context, Reporter) error { return boom }); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	r.Close()

	events := <-collected
	if len(events) != 1 || !events[0].Done || !errors.Is(events[0].Err, boom) {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestRunnerRefusesBusyKindAndPendingLoads(t *testing.T) {
	r := NewRunner(nil, 0, nil)
	collected := drain(r)

	release := make(chan struct{})
	started := make(chan struct{})
	err := r.Submit(context.Background(), KindLoadTemplate, func(context.Context, Reporter) error {
		close(started)
		<-release
		return nil
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	<-started

	noop := func(context.Context, Reporter) error { return nil }
	if err := r.Submit(context.Background(), KindLoadTemplate, noop); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	if err := r.Submit(context.Background(), KindGenerate, noop); !errors.Is(err, ErrLoadsPending) {
		t.Fatalf("expected ErrLoadsPending, got %v", err)
	}

	close(release)
	r.Wait()

	if err := r.Submit(context.Background(), KindGenerate, noop); err != nil {
		t.Fatalf("expected generate to be accepted after loads finished, got %v", err)
	}
	r.Close()
	<-collected

	if err := r.Submit(context.Background(), KindGenerate, noop); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestGate(t *testing.T) {
	var (
		mu     sync.Mutex
		states []bool
	)
	g := NewGate(func(ready bool) {
		mu.Lock()
		defer mu.Unlock()
		states = append(states, ready)
	})

	g.Begin()
	g.Begin()
	if g.Ready() || g.Pending() != 2 {
		t.Fatalf("expected two pending loads, got %d", g.Pending())
	}
	g.End()
	g.End()
	g.End()

	if !g.Ready() {
		t.Fatal("expected gate to be ready")
	}
	if diff := cmp.Diff([]bool{false, false, false, true}, states); diff != "" {
		t.Fatalf("state changes mismatch (-want +got):\n%s", diff)
	}
}
