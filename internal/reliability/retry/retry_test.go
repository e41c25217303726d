package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig() *Config {
	return &Config{MaxAttempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond, BackoffMultiplier: 2}
}

func TestDoSucceedsAfterRetries(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), fastConfig(), nil, "send mail", func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("smtp busy")
		}
		return "ok", nil
	})
	if err != nil || got != "ok" {
		t.Fatalf("expected ok, got %q %v", got, err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestDoGivesUp(t *testing.T) {
	sentinel := errors.New("down")
	_, err := Do(context.Background(), fastConfig(), nil, "send mail", func(context.Context) (int, error) {
		return 0, sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped sentinel, got %v", err)
	}
}

func TestPermanentStopsImmediately(t *testing.T) {
	sentinel := errors.New("bad address")
	calls := 0
	_, err := Do(context.Background(), fastConfig(), nil, "send mail", func(context.Context) (int, error) {
		calls++
		return 0, Permanent(sentinel)
	})
	if err != sentinel {
		t.Fatalf("expected bare sentinel, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one call, got %d", calls)
	}
}

func TestDoHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := &Config{MaxAttempts: 5, InitialBackoff: time.Hour, MaxBackoff: time.Hour, BackoffMultiplier: 1}
	calls := 0
	_, err := Do(ctx, cfg, nil, "send mail", func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, errors.New("fail")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one call, got %d", calls)
	}
}

func TestBackoffCaps(t *testing.T) {
	cfg := &Config{InitialBackoff: 100 * time.Millisecond, MaxBackoff: 300 * time.Millisecond, BackoffMultiplier: 2}
	if got := cfg.backoff(1); got != 200*time.Millisecond {
		t.Fatalf("expected 200ms, got %v", got)
	}
	if got := cfg.backoff(5); got != 300*time.Millisecond {
		t.Fatalf("expected cap at 300ms, got %v", got)
	}
}
