package connection

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStateString(t *testing.T) {
	cases := map[State]string{
		StateDisconnected: "DISCONNECTED",
		StateConnecting:   "CONNECTING",
		StateConnected:    "CONNECTED",
		State(99):         "UNKNOWN",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
}

func TestEvaluate(t *testing.T) {
	t.Run("NotRequired", func(t *testing.T) {
		attempts := 0
		s := NewSupervisor(func(ctx context.Context) error {
			attempts++
			return nil
		})

		s.Evaluate(context.Background(), false)

		if attempts != 0 {
			t.Errorf("attempts = %d, want 0 when link not required", attempts)
		}
		if s.State() != StateDisconnected {
			t.Errorf("state = %v", s.State())
		}
	})

	t.Run("Success", func(t *testing.T) {
		s := NewSupervisor(func(ctx context.Context) error { return nil })

		var transitions []string
		s.OnStateChange(func(oldState, newState State) {
			transitions = append(transitions, oldState.String()+">"+newState.String())
		})
		connected := false
		s.OnConnected(func() { connected = true })

		s.Evaluate(context.Background(), true)

		if !s.IsConnected() {
			t.Fatal("not connected after successful attempt")
		}
		if !connected {
			t.Error("OnConnected not invoked")
		}
		want := []string{"DISCONNECTED>CONNECTING", "CONNECTING>CONNECTED"}
		if len(transitions) != 2 || transitions[0] != want[0] || transitions[1] != want[1] {
			t.Errorf("transitions = %v, want %v", transitions, want)
		}
	})

	t.Run("FailureArmsFixedCooldown", func(t *testing.T) {
		now := time.Unix(1000, 0)
		attempts := 0
		s := NewSupervisor(func(ctx context.Context) error {
			attempts++
			return errors.New("login refused")
		})
		s.now = func() time.Time { return now }

		s.Evaluate(context.Background(), true)
		if attempts != 1 {
			t.Fatalf("attempts = %d, want 1", attempts)
		}
		if s.State() != StateDisconnected {
			t.Fatalf("state = %v after failure", s.State())
		}

		// Within the 5 s cooldown nothing happens no matter how often the
		// link is required.
		now = now.Add(4999 * time.Millisecond)
		s.Evaluate(context.Background(), true)
		s.Evaluate(context.Background(), true)
		if attempts != 1 {
			t.Errorf("attempts = %d during cooldown, want 1", attempts)
		}

		// After the cooldown the next evaluation retries.
		now = now.Add(time.Millisecond)
		s.Evaluate(context.Background(), true)
		if attempts != 2 {
			t.Errorf("attempts = %d after cooldown, want 2", attempts)
		}
	})

	t.Run("RetriesForever", func(t *testing.T) {
		now := time.Unix(1000, 0)
		attempts := 0
		s := NewSupervisor(func(ctx context.Context) error {
			attempts++
			return errors.New("still down")
		})
		s.now = func() time.Time { return now }

		for i := 0; i < 50; i++ {
			s.Evaluate(context.Background(), true)
			now = now.Add(RetryDelay)
		}
		if attempts != 50 {
			t.Errorf("attempts = %d, want 50 (no attempt cap)", attempts)
		}
	})

	t.Run("NoSecondAttemptWhileConnecting", func(t *testing.T) {
		inFlight := make(chan struct{})
		release := make(chan struct{})
		var attempts atomic.Int32

		s := NewSupervisor(func(ctx context.Context) error {
			attempts.Add(1)
			close(inFlight)
			<-release
			return nil
		})

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Evaluate(context.Background(), true)
		}()

		<-inFlight
		if s.State() != StateConnecting {
			t.Errorf("state = %v during attempt", s.State())
		}

		// A repeated "link required" signal during the attempt is a no-op.
		s.Evaluate(context.Background(), true)
		s.Evaluate(context.Background(), true)

		close(release)
		wg.Wait()

		if got := attempts.Load(); got != 1 {
			t.Errorf("attempts = %d, want exactly 1", got)
		}
		if !s.IsConnected() {
			t.Error("not connected after attempt resolved")
		}
	})

	t.Run("NoAttemptWhileConnected", func(t *testing.T) {
		attempts := 0
		s := NewSupervisor(func(ctx context.Context) error {
			attempts++
			return nil
		})

		s.Evaluate(context.Background(), true)
		s.Evaluate(context.Background(), true)

		if attempts != 1 {
			t.Errorf("attempts = %d, want 1 (no reconnect while connected)", attempts)
		}
	})
}

func TestNotifyConnectionLost(t *testing.T) {
	t.Run("ConnectedToDisconnected", func(t *testing.T) {
		s := NewSupervisor(func(ctx context.Context) error { return nil })
		disconnected := false
		s.OnDisconnected(func() { disconnected = true })

		s.Evaluate(context.Background(), true)
		s.NotifyConnectionLost()

		if s.State() != StateDisconnected {
			t.Errorf("state = %v", s.State())
		}
		if !disconnected {
			t.Error("OnDisconnected not invoked")
		}
	})

	t.Run("ReconnectsWithoutCooldown", func(t *testing.T) {
		attempts := 0
		s := NewSupervisor(func(ctx context.Context) error {
			attempts++
			return nil
		})

		s.Evaluate(context.Background(), true)
		s.NotifyConnectionLost()
		s.Evaluate(context.Background(), true)

		if attempts != 2 {
			t.Errorf("attempts = %d, want 2 (transport loss has no cooldown)", attempts)
		}
	})

	t.Run("IgnoredWhenNotConnected", func(t *testing.T) {
		s := NewSupervisor(func(ctx context.Context) error { return nil })
		called := false
		s.OnDisconnected(func() { called = true })

		s.NotifyConnectionLost()

		if called {
			t.Error("OnDisconnected invoked while not connected")
		}
	})
}
