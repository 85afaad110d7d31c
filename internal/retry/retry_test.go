package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastPolicy(n uint64) Policy {
	return Policy{MaxRetries: n, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}
}

func TestDo_RetriesTransient(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastPolicy(3), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDo_StopsAfterMaxRetries(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastPolicy(2), func() error {
		calls++
		return errors.New("down")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3 (1 + 2 retries)", calls)
	}
}

func TestDo_PermanentNotRetried(t *testing.T) {
	calls := 0
	want := &StatusError{Provider: "openai", StatusCode: 401}
	err := Do(context.Background(), fastPolicy(5), func() error {
		calls++
		return Classify(want)
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != 401 {
		t.Errorf("expected StatusError 401, got %v", err)
	}
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Do(ctx, Policy{MaxRetries: 5, InitialInterval: time.Second}, func() error {
		return errors.New("down")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		permanent bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("x"), false},
		{"400", &StatusError{StatusCode: 400}, true},
		{"404", &StatusError{StatusCode: 404}, true},
		{"429", &StatusError{StatusCode: 429}, false},
		{"503", &StatusError{StatusCode: 503}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPermanent(Classify(tt.err)); got != tt.permanent {
				t.Errorf("IsPermanent(Classify(%v)) = %v, want %v", tt.err, got, tt.permanent)
			}
		})
	}
}
