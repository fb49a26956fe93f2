package workerpool

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestSubmitRunsTaskAndResolvesFuture(t *testing.T) {
	p := New(2)
	defer p.Shutdown()

	f := p.Submit(func() (any, error) { return 42, nil })

	result, err := f.Wait()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != 42 {
		t.Errorf("got %v, want 42", result)
	}
}

func TestSubmitPropagatesError(t *testing.T) {
	p := New(1)
	defer p.Shutdown()

	wantErr := errors.New("boom")
	f := p.Submit(func() (any, error) { return nil, wantErr })

	_, err := f.Wait()
	if err != wantErr {
		t.Errorf("got %v, want %v", err, wantErr)
	}
}

func TestSubmitRecoversPanic(t *testing.T) {
	p := New(1)
	defer p.Shutdown()

	f := p.Submit(func() (any, error) { panic("bad task") })

	_, err := f.Wait()
	if err == nil {
		t.Fatal("expected a panic to surface as an error")
	}
}

func TestPoolRunsManyTasksConcurrently(t *testing.T) {
	p := New(4)
	defer p.Shutdown()

	var counter atomic.Int64
	futures := make([]*Future, 0, 20)
	for i := 0; i < 20; i++ {
		futures = append(futures, p.Submit(func() (any, error) {
			counter.Add(1)
			return nil, nil
		}))
	}
	for _, f := range futures {
		f.Wait()
	}

	if counter.Load() != 20 {
		t.Errorf("got %d completed tasks, want 20", counter.Load())
	}
}

func TestShutdownWaitsForQueuedTasks(t *testing.T) {
	p := New(1)

	started := make(chan struct{})
	finished := make(chan struct{})
	p.Submit(func() (any, error) {
		close(started)
		time.Sleep(20 * time.Millisecond)
		close(finished)
		return nil, nil
	})

	<-started
	p.Shutdown()

	select {
	case <-finished:
	default:
		t.Error("expected Shutdown to wait for the in-flight task to finish")
	}
}

func TestNewClampsSizeToAtLeastOne(t *testing.T) {
	p := New(0)
	defer p.Shutdown()

	f := p.Submit(func() (any, error) { return "ok", nil })
	result, err := f.Wait()
	if err != nil || result != "ok" {
		t.Errorf("got (%v, %v), want (\"ok\", nil)", result, err)
	}
}
