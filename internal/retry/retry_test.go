package retry_test

import (
	"errors"
	"testing"
	"time"

	"github.com/unclebandit/xmarketing-bot/internal/retry"
)

// recordingSleep captures backoff durations instead of sleeping
type recordingSleep struct {
	slept []time.Duration
}

func (r *recordingSleep) sleep(d time.Duration) {
	r.slept = append(r.slept, d)
}

func policyWith(rec *recordingSleep) retry.Policy {
	return retry.Policy{
		MaxAttempts: 3,
		BaseDelay:   2 * time.Second,
		Sleep:       rec.sleep,
	}
}

func TestSuccessAfterTransientFailures(t *testing.T) {
	rec := &recordingSleep{}
	attempts := 0

	result, err := retry.Get(policyWith(rec), func() (string, error) {
		attempts++
		if attempts < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})

	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if result != "ok" {
		t.Errorf("expected ok, got %q", result)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}

	// two failures -> sleeps of d and 2d
	want := []time.Duration{2 * time.Second, 4 * time.Second}
	if len(rec.slept) != len(want) {
		t.Fatalf("expected %d sleeps, got %d", len(want), len(rec.slept))
	}
	for i := range want {
		if rec.slept[i] != want[i] {
			t.Errorf("sleep %d: expected %v, got %v", i, want[i], rec.slept[i])
		}
	}
}

func TestExhaustedRetriesReturnFinalError(t *testing.T) {
	rec := &recordingSleep{}
	attempts := 0
	finalErr := errors.New("still down")

	err := retry.Do(policyWith(rec), func() error {
		attempts++
		return finalErr
	})

	if !errors.Is(err, finalErr) {
		t.Fatalf("expected final error to propagate, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", attempts)
	}
	// no sleep after the final failure
	if len(rec.slept) != 2 {
		t.Errorf("expected 2 sleeps, got %d", len(rec.slept))
	}
}

func TestImmediateSuccessDoesNotSleep(t *testing.T) {
	rec := &recordingSleep{}
	attempts := 0

	err := retry.Do(policyWith(rec), func() error {
		attempts++
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
	if len(rec.slept) != 0 {
		t.Errorf("expected no sleeps, got %d", len(rec.slept))
	}
}

func TestZeroPolicyUsesDefaults(t *testing.T) {
	attempts := 0
	// zero-value policy, sleep injected so the test stays fast
	p := retry.Policy{Sleep: func(time.Duration) {}}

	_ = retry.Do(p, func() error {
		attempts++
		return errors.New("nope")
	})

	if attempts != 3 {
		t.Errorf("expected default of 3 attempts, got %d", attempts)
	}
}
