package circuitbreaker

import (
	"errors"
	"testing"
	"time"
)

var errBoom = errors.New("boom")

func fail() (interface{}, error)    { return nil, errBoom }
func succeed() (interface{}, error) { return "ok", nil }

func TestTripsAfterThreshold(t *testing.T) {
	cb := New(3, 1, time.Minute)

	for i := 0; i < 3; i++ {
		if _, err := cb.Execute(fail); !errors.Is(err, errBoom) {
			t.Fatalf("call %d: err = %v, want %v", i+1, err, errBoom)
		}
	}
	if cb.State() != Open {
		t.Fatalf("state = %v after threshold failures, want Open", cb.State())
	}

	if _, err := cb.Execute(succeed); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("open circuit returned %v, want ErrCircuitOpen", err)
	}
}

func TestSuccessResetsFailureCount(t *testing.T) {
	cb := New(2, 1, time.Minute)

	cb.Execute(fail)
	cb.Execute(succeed)
	cb.Execute(fail)
	if cb.State() != Closed {
		t.Errorf("state = %v, want Closed: success should reset the failure streak", cb.State())
	}
}

func TestHalfOpenRecovery(t *testing.T) {
	cb := New(1, 2, time.Minute).(*breaker)
	current := time.Unix(0, 0)
	cb.now = func() time.Time { return current }

	cb.Execute(fail)
	if cb.State() != Open {
		t.Fatalf("state = %v, want Open", cb.State())
	}

	// After the timeout the breaker probes with real requests again.
	current = current.Add(2 * time.Minute)
	if cb.State() != HalfOpen {
		t.Fatalf("state = %v after timeout, want HalfOpen", cb.State())
	}

	if _, err := cb.Execute(succeed); err != nil {
		t.Fatalf("half-open probe failed: %v", err)
	}
	if cb.State() != HalfOpen {
		t.Fatalf("state = %v after one success, want HalfOpen until threshold", cb.State())
	}
	cb.Execute(succeed)
	if cb.State() != Closed {
		t.Errorf("state = %v after success threshold, want Closed", cb.State())
	}
}

func TestHalfOpenFailureReopens(t *testing.T) {
	cb := New(1, 1, time.Minute).(*breaker)
	current := time.Unix(0, 0)
	cb.now = func() time.Time { return current }

	cb.Execute(fail)
	current = current.Add(2 * time.Minute)
	cb.Execute(fail)
	if cb.State() != Open {
		t.Errorf("state = %v after half-open failure, want Open", cb.State())
	}
}
