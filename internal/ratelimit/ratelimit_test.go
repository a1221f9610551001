package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestAllowRespectsBurst(t *testing.T) {
	rl := New(1, 3)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.Allow("198.51.100.7") {
			t.Fatalf("request %d within burst was denied", i+1)
		}
	}
	if rl.Allow("198.51.100.7") {
		t.Error("request past burst was allowed")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	rl := New(1, 1)
	defer rl.Stop()

	rl.Allow("198.51.100.8")
	if rl.Allow("198.51.100.8") {
		t.Error("exhausted client was allowed")
	}
	if !rl.Allow("198.51.100.9") {
		t.Error("fresh client was denied")
	}
}

func TestWaitPacesRequests(t *testing.T) {
	rl := New(10, 1)
	defer rl.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	if err := rl.Wait(ctx, "198.51.100.7"); err != nil {
		t.Fatalf("first Wait: %v", err)
	}

	// Bucket is empty now; the second call has to wait out ~1/rps.
	start := time.Now()
	if err := rl.Wait(ctx, "198.51.100.7"); err != nil {
		t.Fatalf("second Wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Errorf("second Wait returned after %v, expected ~100ms of pacing", elapsed)
	}
}

func TestWaitHonorsContext(t *testing.T) {
	rl := New(0.1, 1)
	defer rl.Stop()

	rl.Allow("198.51.100.7")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := rl.Wait(ctx, "198.51.100.7"); err == nil {
		t.Error("Wait returned nil after context deadline")
	}
}

func TestIdleBucketsAreEvicted(t *testing.T) {
	rl := New(1, 1)
	defer rl.Stop()

	rl.Allow("198.51.100.7")
	rl.Allow("198.51.100.8")

	rl.mu.Lock()
	rl.buckets["198.51.100.7"].lastSeen = time.Now().Add(-idleTTL - time.Minute)
	rl.mu.Unlock()

	// Run one sweep pass directly rather than waiting out the ticker.
	rl.evictIdle(time.Now())

	rl.mu.Lock()
	remaining := len(rl.buckets)
	rl.mu.Unlock()

	if remaining != 1 {
		t.Errorf("after sweep %d buckets remain, want 1", remaining)
	}
}
