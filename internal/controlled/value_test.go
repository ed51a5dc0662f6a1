package controlled

import "testing"

func TestValue_Uncontrolled(t *testing.T) {
	var notified []int
	v := New(1, func(n int) { notified = append(notified, n) })

	v.Set(5)

	if got := v.Get(); got != 5 {
		t.Errorf("expected 5, got %d", got)
	}
	if len(notified) != 1 || notified[0] != 5 {
		t.Errorf("expected one notification with 5, got %v", notified)
	}
	if v.IsControlled() {
		t.Error("expected uncontrolled value")
	}
}

func TestValue_ControlledReadsCaller(t *testing.T) {
	owner := 10
	var notified int
	v := Controlled(func() int { return owner }, func(n int) { notified = n })

	v.Set(20)

	if got := v.Get(); got != 20 {
		t.Errorf("expected pending value 20, got %d", got)
	}
	v.Settle()

	// the caller has not accepted the change yet
	if got := v.Get(); got != 10 {
		t.Errorf("expected caller value 10, got %d", got)
	}
	if notified != 20 {
		t.Errorf("expected notification with 20, got %d", notified)
	}

	owner = notified
	if got := v.Get(); got != 20 {
		t.Errorf("expected 20 after caller update, got %d", got)
	}
}

func TestValue_NilCallback(t *testing.T) {
	v := New("a", nil)
	v.Set("b")
	if v.Get() != "b" {
		t.Errorf("expected b, got %s", v.Get())
	}
}
