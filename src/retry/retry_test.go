package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errFlaky = errors.New("backend hiccup")

func fastPolicy(maxAttempts int, classify func(error) bool) Policy {
	return Policy{
		MaxAttempts: maxAttempts,
		BaseDelay:   time.Millisecond,
		MaxDelay:    2 * time.Millisecond,
		Classify:    classify,
	}
}

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := fastPolicy(5, nil).Do(context.Background(), "op", func() error {
		attempts++
		if attempts < 3 {
			return errFlaky
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestDoExhaustsBudgetAndSurfacesLastError(t *testing.T) {
	attempts := 0
	last := errors.New("attempt-specific failure")
	err := fastPolicy(4, nil).Do(context.Background(), "op", func() error {
		attempts++
		if attempts == 4 {
			return last
		}
		return errFlaky
	})
	if attempts != 4 {
		t.Fatalf("expected exactly 4 attempts, got %d", attempts)
	}
	if !errors.Is(err, last) {
		t.Fatalf("expected the last observed error, got %v", err)
	}
}

func TestDoFailsImmediatelyOnPermanentError(t *testing.T) {
	attempts := 0
	permanent := errors.New("invalid credentials")
	classify := func(err error) bool { return !errors.Is(err, permanent) }
	err := fastPolicy(5, classify).Do(context.Background(), "op", func() error {
		attempts++
		return permanent
	})
	if attempts != 1 {
		t.Fatalf("expected 1 attempt for a permanent error, got %d", attempts)
	}
	if !errors.Is(err, permanent) {
		t.Fatalf("expected the permanent error, got %v", err)
	}
}

func TestValueReturnsResult(t *testing.T) {
	calls := 0
	got, err := Value(context.Background(), fastPolicy(3, nil), "op", func() (string, error) {
		calls++
		if calls == 1 {
			return "", errFlaky
		}
		return "answer", nil
	})
	if err != nil {
		t.Fatalf("Value returned error: %v", err)
	}
	if got != "answer" {
		t.Fatalf("unexpected value: %q", got)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestSingleAttemptPolicyNeverRetries(t *testing.T) {
	attempts := 0
	err := fastPolicy(1, nil).Do(context.Background(), "op", func() error {
		attempts++
		return errFlaky
	})
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
	if !errors.Is(err, errFlaky) {
		t.Fatalf("unexpected error: %v", err)
	}
}
