package ratelimiter

import (
	"testing"
	"time"
)

func TestTokenBucketBurstThenEmpty(t *testing.T) {
	current := time.Unix(0, 0)
	tb := NewTokenBucket(1, 3)
	tb.now = func() time.Time { return current }
	tb.lastFill = current

	for i := 0; i < 3; i++ {
		if !tb.Allow() {
			t.Fatalf("request %d denied within burst capacity", i+1)
		}
	}
	if tb.Allow() {
		t.Error("request allowed from an empty bucket")
	}
}

func TestTokenBucketRefills(t *testing.T) {
	current := time.Unix(0, 0)
	tb := NewTokenBucket(2, 2)
	tb.now = func() time.Time { return current }
	tb.lastFill = current

	tb.Allow()
	tb.Allow()
	if tb.Allow() {
		t.Fatal("bucket should be empty")
	}

	// One second at 2 tokens/s refills two tokens, capped at capacity.
	current = current.Add(time.Second)
	if !tb.Allow() || !tb.Allow() {
		t.Error("bucket did not refill at the configured rate")
	}
	if tb.Allow() {
		t.Error("bucket exceeded its capacity after refill")
	}
}
