package lock

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

func TestNewRedisLocker_BadURL(t *testing.T) {
	if _, err := NewRedisLocker(context.Background(), "http://not-redis", time.Second); err == nil {
		t.Error("Expected error for non-redis URL")
	}
}

func TestNewLockToken(t *testing.T) {
	a, err := newLockToken()
	if err != nil {
		t.Fatalf("newLockToken failed: %v", err)
	}
	b, _ := newLockToken()
	if len(a) != 32 || a == b {
		t.Errorf("Expected distinct 32-char tokens, got %q and %q", a, b)
	}
}

func TestRenewInterval(t *testing.T) {
	tests := []struct {
		ttl  time.Duration
		want time.Duration
	}{
		{10 * time.Second, 10 * time.Second / 3},
		{300 * time.Millisecond, 100 * time.Millisecond},
		{time.Nanosecond, time.Millisecond},
	}
	for _, tt := range tests {
		if got := renewInterval(tt.ttl); got != tt.want {
			t.Errorf("renewInterval(%v) = %v, want %v", tt.ttl, got, tt.want)
		}
	}
}

// Runs against a real server when CHOPBILL_TEST_REDIS_URL is set.
func TestRedisLocker(t *testing.T) {
	url := os.Getenv("CHOPBILL_TEST_REDIS_URL")
	if url == "" {
		t.Skip("CHOPBILL_TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	locker, err := NewRedisLocker(ctx, url, 5*time.Second)
	if err != nil {
		t.Fatalf("NewRedisLocker failed: %v", err)
	}
	defer locker.Close()

	group := "test-" + time.Now().Format(time.RFC3339Nano)
	unlock, err := locker.Lock(ctx, group)
	if err != nil {
		t.Fatalf("Lock failed: %v", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	if _, err := locker.Lock(waitCtx, group); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected DeadlineExceeded while held, got %v", err)
	}

	unlock()

	unlock2, err := locker.Lock(ctx, group)
	if err != nil {
		t.Fatalf("Lock after release failed: %v", err)
	}
	unlock2()
}

// A holder that outlives the ttl keeps the lock. Needs CHOPBILL_TEST_REDIS_URL.
func TestRedisLocker_RenewsLease(t *testing.T) {
	url := os.Getenv("CHOPBILL_TEST_REDIS_URL")
	if url == "" {
		t.Skip("CHOPBILL_TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	locker, err := NewRedisLocker(ctx, url, 300*time.Millisecond)
	if err != nil {
		t.Fatalf("NewRedisLocker failed: %v", err)
	}
	defer locker.Close()

	group := "renew-" + time.Now().Format(time.RFC3339Nano)
	unlock, err := locker.Lock(ctx, group)
	if err != nil {
		t.Fatalf("Lock failed: %v", err)
	}

	// Three ttls later the first holder must still own the group
	waitCtx, cancel := context.WithTimeout(ctx, 900*time.Millisecond)
	defer cancel()
	if _, err := locker.Lock(waitCtx, group); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected lease to be renewed while held, got %v", err)
	}

	unlock()
	unlock() // second call is a no-op

	unlock2, err := locker.Lock(ctx, group)
	if err != nil {
		t.Fatalf("Lock after release failed: %v", err)
	}
	unlock2()
}
