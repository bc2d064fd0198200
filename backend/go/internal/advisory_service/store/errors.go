package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"google.golang.org/api/googleapi"
)

// Kind is the closed set of failure categories surfaced to callers. Every
// backend error is classified into exactly one kind before it leaves this
// package.
type Kind string

const (
	// KindNotConfigured means the backing store was never initialized
	// (missing or placeholder credentials). No network call was attempted.
	KindNotConfigured Kind = "not-configured"
	// KindUnavailable is a transient backend outage; retryable.
	KindUnavailable Kind = "unavailable"
	// KindPermissionDenied means the caller lacks rights; not retryable.
	KindPermissionDenied Kind = "permission-denied"
	// KindUnauthenticated means the caller's session or token is invalid.
	KindUnauthenticated Kind = "unauthenticated"
	// KindNetwork is a local connectivity problem; retryable.
	KindNetwork Kind = "network"
	// KindSessionInvalid means the transport session itself is corrupted
	// (protocol-level 400 / "Unknown SID") and must be re-established.
	KindSessionInvalid Kind = "session-invalid"
	// KindQuotaExceeded means a rate or usage limit was hit.
	KindQuotaExceeded Kind = "quota-exceeded"
	// KindNotFound is returned when updating a document that does not exist.
	// Absence on the read path is a nil result, never an error.
	KindNotFound Kind = "not-found"
	// KindUnknown is the catch-all.
	KindUnknown Kind = "unknown"
)

// Retryable reports whether an automatic retry is worth attempting for the
// given kind.
func Retryable(k Kind) bool {
	return k == KindUnavailable || k == KindNetwork
}

// Error is the typed error surfaced by every store operation.
type Error struct {
	Kind Kind
	Op   string // operation and collection, e.g. "create projects"
	Err  error  // wrapped cause, may be nil
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("store: %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("store: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the kind from an error chain; KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}

// Classify maps a backend error's code and message to a Kind. The rules are
// substring and code based, not exception-type based: that is part of the
// contract, and the precedence matters. Session-invalid markers are checked
// first because a corrupted transport session frequently mentions the network
// in the same message.
func Classify(code, message string) Kind {
	c := strings.ToLower(strings.TrimSpace(code))
	msg := strings.ToLower(message)

	if c == "400" ||
		strings.Contains(msg, "bad request") ||
		strings.Contains(msg, "unknown sid") ||
		strings.Contains(msg, "gsessionid") {
		return KindSessionInvalid
	}

	switch c {
	case "permission-denied", "403":
		return KindPermissionDenied
	case "unauthenticated", "401":
		return KindUnauthenticated
	case "resource-exhausted", "429":
		return KindQuotaExceeded
	case "unavailable", "502", "503":
		return KindUnavailable
	}

	if strings.Contains(msg, "unavailable") {
		return KindUnavailable
	}
	if strings.Contains(msg, "network") {
		return KindNetwork
	}
	if strings.Contains(msg, "quota") || strings.Contains(msg, "too many requests") {
		return KindQuotaExceeded
	}
	return KindUnknown
}

// ClassifyError normalizes any error raised by the backing drivers into a
// Kind. Already-typed store errors keep their kind.
func ClassifyError(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return Classify(fmt.Sprintf("%d", gerr.Code), gerr.Message)
	}

	if errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err) {
		return KindUnavailable
	}
	if mongo.IsNetworkError(err) {
		return KindNetwork
	}

	return Classify("", err.Error())
}

// wrap turns a raw backend error into a typed *Error for the given operation.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Kind: ClassifyError(err), Op: op, Err: err}
}

// errNotConfigured is returned before any network attempt when the store has
// no backing database.
func errNotConfigured(op string) error {
	return &Error{Kind: KindNotConfigured, Op: op}
}
