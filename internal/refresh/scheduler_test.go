package refresh

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	for _, spec := range []string{"@every 30s", "*/5 * * * *", "@hourly"} {
		if err := Validate(spec); err != nil {
			t.Errorf("expected %q to be valid, got %v", spec, err)
		}
	}
	for _, spec := range []string{"", "soon", "* * *"} {
		if err := Validate(spec); err == nil {
			t.Errorf("expected %q to be rejected", spec)
		}
	}
}

func TestStart_InvalidSchedule(t *testing.T) {
	if _, err := Start("soon", func() {}, nil); err == nil {
		t.Error("expected error for invalid schedule")
	}
}

func TestStart_RunsRefresh(t *testing.T) {
	var calls atomic.Int32
	s, err := Start("@every 1s", func() { calls.Add(1) }, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for calls.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("expected a refresh within 5s")
		}
		time.Sleep(10 * time.Millisecond)
	}
	s.Stop()

	if s.Runs() < 1 {
		t.Errorf("expected at least one run, got %d", s.Runs())
	}
	after := calls.Load()
	time.Sleep(1500 * time.Millisecond)
	if calls.Load() != after {
		t.Errorf("expected no refresh after stop, got %d more", calls.Load()-after)
	}
}
