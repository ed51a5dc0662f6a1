package debounce

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_OnlyLastRuns(t *testing.T) {
	d := New(20 * time.Millisecond)
	var last atomic.Int32
	var calls atomic.Int32
	done := make(chan struct{})

	for i := 1; i <= 5; i++ {
		n := int32(i)
		d.Trigger(func() {
			last.Store(n)
			calls.Add(1)
			close(done)
		})
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("debounced function never ran")
	}
	time.Sleep(40 * time.Millisecond)

	if calls.Load() != 1 {
		t.Errorf("expected 1 call, got %d", calls.Load())
	}
	if last.Load() != 5 {
		t.Errorf("expected last trigger to run, got %d", last.Load())
	}
}

func TestDebouncer_Flush(t *testing.T) {
	d := New(time.Hour)
	ran := false
	d.Trigger(func() { ran = true })

	if !d.Pending() {
		t.Fatal("expected pending function")
	}
	if !d.Flush() {
		t.Fatal("expected flush to run pending function")
	}
	if !ran {
		t.Error("expected function to run on flush")
	}
	if d.Flush() {
		t.Error("expected nothing pending after flush")
	}
}

func TestDebouncer_Stop(t *testing.T) {
	d := New(10 * time.Millisecond)
	var ran atomic.Bool
	d.Trigger(func() { ran.Store(true) })
	d.Stop()

	time.Sleep(30 * time.Millisecond)
	if ran.Load() {
		t.Error("expected stopped function not to run")
	}
}

func TestDebouncer_ZeroDelayRunsInline(t *testing.T) {
	d := New(0)
	ran := false
	d.Trigger(func() { ran = true })
	if !ran {
		t.Error("expected immediate run with zero delay")
	}
}
