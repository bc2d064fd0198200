package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"StartupCopilot/backend/go/internal/advisory_service/store"
	"StartupCopilot/backend/go/pkg/logger"
)

// fakeTransport scripts EnableNetwork outcomes and counts calls.
type fakeTransport struct {
	enableErrs   []error
	enableCalls  int
	disableCalls int
	disableErr   error
}

func (t *fakeTransport) EnableNetwork(_ context.Context) error {
	idx := t.enableCalls
	t.enableCalls++
	if idx < len(t.enableErrs) {
		return t.enableErrs[idx]
	}
	return nil
}

func (t *fakeTransport) DisableNetwork(_ context.Context) error {
	t.disableCalls++
	return t.disableErr
}

type harness struct {
	cm        *ConnectionManager
	transport *fakeTransport
	slept     []time.Duration
	reloads   int
}

func newHarness(transport *fakeTransport, policy RetryPolicy) *harness {
	h := &harness{transport: transport}
	h.cm = NewConnectionManager(transport, policy, func() { h.reloads++ }, logger.New("test", "", ""))
	h.cm.sleep = func(d time.Duration) { h.slept = append(h.slept, d) }
	return h
}

func TestRetryConnectionBackoff(t *testing.T) {
	down := errors.New("dial tcp: connection refused")
	h := newHarness(&fakeTransport{enableErrs: []error{down, down, down}}, DefaultRetryPolicy())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if h.cm.RetryConnection(ctx) {
			t.Fatalf("retry %d succeeded against a dead transport", i+1)
		}
	}

	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}
	if len(h.slept) != len(want) {
		t.Fatalf("slept %d times, want %d", len(h.slept), len(want))
	}
	for i, d := range want {
		if h.slept[i] != d {
			t.Errorf("backoff %d = %v, want %v", i+1, h.slept[i], d)
		}
	}

	// Budget is spent. The next call must bail out before reaching the
	// network and without sleeping.
	calls := h.transport.enableCalls
	if h.cm.RetryConnection(ctx) {
		t.Error("retry succeeded after budget exhausted")
	}
	if h.transport.enableCalls != calls {
		t.Error("exhausted retry still touched the network")
	}
	if len(h.slept) != len(want) {
		t.Error("exhausted retry still slept")
	}
	if got := h.cm.RetryAttempts(); got != 3 {
		t.Errorf("retryAttempts = %d, want 3", got)
	}
}

func TestRetryConnectionSuccessResetsCounter(t *testing.T) {
	h := newHarness(&fakeTransport{enableErrs: []error{errors.New("unavailable")}}, DefaultRetryPolicy())
	ctx := context.Background()

	if h.cm.RetryConnection(ctx) {
		t.Fatal("first retry succeeded, want failure")
	}
	if !h.cm.RetryConnection(ctx) {
		t.Fatal("second retry failed, want success")
	}
	if !h.cm.IsOnline() {
		t.Error("manager offline after successful retry")
	}
	if got := h.cm.RetryAttempts(); got != 0 {
		t.Errorf("retryAttempts = %d after success, want 0", got)
	}
}

func TestSessionRecoveryCycle(t *testing.T) {
	h := newHarness(&fakeTransport{}, DefaultRetryPolicy())
	ctx := context.Background()

	if !h.cm.HandleSessionRecovery(ctx) {
		t.Fatal("recovery failed against a healthy transport")
	}
	if h.transport.disableCalls != 1 || h.transport.enableCalls != 1 {
		t.Errorf("disable/enable = %d/%d, want 1/1", h.transport.disableCalls, h.transport.enableCalls)
	}
	if len(h.slept) != 1 || h.slept[0] != DefaultRetryPolicy().SessionRecoveryDelay {
		t.Errorf("slept %v, want one SessionRecoveryDelay", h.slept)
	}
	if h.reloads != 0 {
		t.Errorf("reloads = %d, want 0", h.reloads)
	}
	// Counter reset means the budget is fully available again.
	if h.cm.sessionRecoveryAttempts != 0 {
		t.Errorf("sessionRecoveryAttempts = %d after success, want 0", h.cm.sessionRecoveryAttempts)
	}
}

func TestSessionRecoveryExhaustionReloads(t *testing.T) {
	bad := errors.New("Unknown SID")
	h := newHarness(&fakeTransport{enableErrs: []error{bad, bad, bad, bad}}, DefaultRetryPolicy())
	ctx := context.Background()

	// Two permitted attempts fail; the second one already schedules the
	// reload after the grace delay.
	if h.cm.HandleSessionRecovery(ctx) {
		t.Fatal("recovery 1 succeeded, want failure")
	}
	if h.reloads != 0 {
		t.Fatalf("reloaded after first failed attempt")
	}
	if h.cm.HandleSessionRecovery(ctx) {
		t.Fatal("recovery 2 succeeded, want failure")
	}
	if h.reloads != 1 {
		t.Fatalf("reloads = %d after final failed attempt, want 1", h.reloads)
	}
	last := h.slept[len(h.slept)-1]
	if last != reloadDelay {
		t.Errorf("final sleep = %v, want reload grace %v", last, reloadDelay)
	}

	// Budget spent: no further network activity, straight to reload.
	calls := h.transport.enableCalls
	if h.cm.HandleSessionRecovery(ctx) {
		t.Fatal("recovery succeeded after budget exhausted")
	}
	if h.transport.enableCalls != calls {
		t.Error("exhausted recovery still touched the network")
	}
	if h.reloads != 2 {
		t.Errorf("reloads = %d, want 2", h.reloads)
	}
}

func TestHandleConnectionErrorDispatch(t *testing.T) {
	t.Run("session markers win over network markers", func(t *testing.T) {
		h := newHarness(&fakeTransport{}, DefaultRetryPolicy())
		err := errors.New("Unknown SID: network transport reset")

		kind := h.cm.HandleConnectionError(context.Background(), err)
		if kind != store.KindSessionInvalid {
			t.Fatalf("kind = %v, want %v", kind, store.KindSessionInvalid)
		}
		if h.transport.disableCalls != 1 {
			t.Error("session recovery was not attempted")
		}
	})

	t.Run("unavailable triggers retry", func(t *testing.T) {
		h := newHarness(&fakeTransport{}, DefaultRetryPolicy())
		err := errors.New("service unavailable")

		kind := h.cm.HandleConnectionError(context.Background(), err)
		if kind != store.KindUnavailable {
			t.Fatalf("kind = %v, want %v", kind, store.KindUnavailable)
		}
		if h.transport.enableCalls != 1 {
			t.Error("retry was not attempted")
		}
	})

	t.Run("non recoverable kinds are left alone", func(t *testing.T) {
		h := newHarness(&fakeTransport{}, DefaultRetryPolicy())
		err := &store.Error{Kind: store.KindPermissionDenied, Op: "get projects", Err: errors.New("denied")}

		kind := h.cm.HandleConnectionError(context.Background(), err)
		if kind != store.KindPermissionDenied {
			t.Fatalf("kind = %v, want %v", kind, store.KindPermissionDenied)
		}
		if h.transport.enableCalls != 0 || h.transport.disableCalls != 0 {
			t.Error("recovery ran for a non recoverable error")
		}
	})
}
