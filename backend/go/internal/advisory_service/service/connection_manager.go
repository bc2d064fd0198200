package service

import (
	"StartupCopilot/backend/go/internal/advisory_service/store"
	"StartupCopilot/backend/go/internal/models"
	"StartupCopilot/backend/go/pkg/logger"
	"context"
	"fmt"
	"sync"
	"time"
)

// Transport is the network toggle of the backing document store. Both
// operations are idempotent.
type Transport interface {
	EnableNetwork(ctx context.Context) error
	DisableNetwork(ctx context.Context) error
}

// RetryPolicy bounds the connection manager's recovery behavior. Injected so
// backoff is testable without real timers.
type RetryPolicy struct {
	MaxRetries                 int
	RetryDelay                 time.Duration
	MaxSessionRecoveryAttempts int
	SessionRecoveryDelay       time.Duration
}

// DefaultRetryPolicy mirrors the production defaults.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:                 3,
		RetryDelay:                 time.Second,
		MaxSessionRecoveryAttempts: 2,
		SessionRecoveryDelay:       time.Second,
	}
}

// reloadDelay is slept before the last-resort reload so an in-flight
// response can still reach the client.
const reloadDelay = 2 * time.Second

// ConnectionManager holds the process-wide belief about connectivity to the
// document store and mediates recovery from transient failures, network
// loss and corrupted transport sessions. It is constructed once at startup and
// passed by reference to every consumer; never a hidden singleton.
type ConnectionManager struct {
	transport Transport
	policy    RetryPolicy
	sleep     func(time.Duration)
	reload    func()
	log       *logger.Logger

	mu                      sync.Mutex
	online                  bool
	retrying                bool
	retryAttempts           int
	sessionRecoveryAttempts int
}

// NewConnectionManager creates a manager starting in the online state.
// reload is the last-resort "restart the world" hook invoked when session
// recovery is exhausted; session state cannot be repaired locally.
func NewConnectionManager(transport Transport, policy RetryPolicy, reload func(), log *logger.Logger) *ConnectionManager {
	if reload == nil {
		reload = func() {}
	}
	return &ConnectionManager{
		transport: transport,
		policy:    policy,
		sleep:     time.Sleep,
		reload:    reload,
		log:       log,
		online:    true,
	}
}

// IsOnline returns the current connectivity belief.
func (m *ConnectionManager) IsOnline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// RetryAttempts returns the current retry counter.
func (m *ConnectionManager) RetryAttempts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.retryAttempts
}

// EnableOfflineMode disables the transport. Idempotent; errors propagate.
func (m *ConnectionManager) EnableOfflineMode(ctx context.Context) error {
	if err := m.transport.DisableNetwork(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	m.online = false
	m.mu.Unlock()
	m.log.Info("document store offline mode enabled")
	return nil
}

// EnableOnlineMode enables the transport. On success the retry counter is
// reset; on failure the error propagates to the caller.
func (m *ConnectionManager) EnableOnlineMode(ctx context.Context) error {
	if err := m.transport.EnableNetwork(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	m.online = true
	m.retryAttempts = 0
	m.mu.Unlock()
	m.log.Info("document store online mode enabled")
	return nil
}

// RetryConnection attempts to bring the transport back online with
// exponential backoff. It returns false immediately, without touching the
// network or the counter, once MaxRetries attempts have been spent. At most
// one retry sequence runs at a time; concurrent callers are coalesced into
// an immediate failure rather than stacked.
func (m *ConnectionManager) RetryConnection(ctx context.Context) bool {
	m.mu.Lock()
	if m.retrying {
		m.mu.Unlock()
		return false
	}
	if m.retryAttempts >= m.policy.MaxRetries {
		m.mu.Unlock()
		m.log.Warn("connection retry attempts exhausted")
		return false
	}
	m.retrying = true
	m.retryAttempts++
	attempt := m.retryAttempts
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.retrying = false
		m.mu.Unlock()
	}()

	delay := m.policy.RetryDelay * time.Duration(1<<(attempt-1))
	m.log.WithPayload(map[string]interface{}{
		"attempt": attempt,
		"delay":   delay.String(),
	}).Info("retrying document store connection")
	m.sleep(delay)

	if err := m.EnableOnlineMode(ctx); err != nil {
		m.log.WithError(models.ErrorInfo{Message: err.Error(), Type: string(store.ClassifyError(err))}).
			Warn(fmt.Sprintf("connection retry %d failed", attempt))
		return false
	}
	return true
}

// HandleSessionRecovery re-establishes a corrupted transport session with a
// disable, short delay, enable cycle. When the attempt budget is exhausted
// it triggers the last-resort reload and returns false. A recovery failure
// on the final permitted attempt schedules the reload after a short delay.
func (m *ConnectionManager) HandleSessionRecovery(ctx context.Context) bool {
	m.mu.Lock()
	if m.sessionRecoveryAttempts >= m.policy.MaxSessionRecoveryAttempts {
		m.mu.Unlock()
		m.log.Error("session recovery attempts exhausted, reloading")
		m.reload()
		return false
	}
	m.sessionRecoveryAttempts++
	attempt := m.sessionRecoveryAttempts
	lastAttempt := attempt == m.policy.MaxSessionRecoveryAttempts
	m.mu.Unlock()

	m.log.WithPayload(map[string]interface{}{"attempt": attempt}).Warn("recovering document store session")

	if err := m.EnableOfflineMode(ctx); err != nil {
		m.log.WithError(models.ErrorInfo{Message: err.Error()}).Warn("session recovery: disable failed")
	}
	m.sleep(m.policy.SessionRecoveryDelay)

	if err := m.EnableOnlineMode(ctx); err != nil {
		m.log.WithError(models.ErrorInfo{Message: err.Error()}).Error("session recovery failed")
		if lastAttempt {
			m.sleep(reloadDelay)
			m.reload()
		}
		return false
	}

	m.mu.Lock()
	m.sessionRecoveryAttempts = 0
	m.mu.Unlock()
	m.log.Info("document store session recovered")
	return true
}

// HandleConnectionError classifies err and dispatches recovery. Session
// markers take precedence over network markers; anything outside the two
// recoverable classes is left for the caller to surface unchanged. The
// classified kind is returned for logging and response mapping.
func (m *ConnectionManager) HandleConnectionError(ctx context.Context, err error) store.Kind {
	kind := store.ClassifyError(err)
	switch kind {
	case store.KindSessionInvalid:
		m.HandleSessionRecovery(ctx)
	case store.KindUnavailable, store.KindNetwork:
		m.RetryConnection(ctx)
	}
	return kind
}
