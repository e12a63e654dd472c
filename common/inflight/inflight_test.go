package inflight

import (
	"errors"
	"sync"
	"testing"
)

func TestDuplicateKeyFailsFast(t *testing.T) {
	g := NewGuard()
	started := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = g.Do("register:42", func() error {
			close(started)
			<-release
			return nil
		})
	}()

	<-started
	if err := g.Do("register:42", func() error { return nil }); !errors.Is(err, ErrInFlight) {
		t.Errorf("duplicate key: got %v, want ErrInFlight", err)
	}
	if !g.Busy("register:42") {
		t.Error("key should be busy")
	}

	// A different key is unaffected
	if err := g.Do("register:43", func() error { return nil }); err != nil {
		t.Errorf("independent key: %v", err)
	}

	close(release)
	wg.Wait()

	// Key is released after completion, even for the same action
	if err := g.Do("register:42", func() error { return nil }); err != nil {
		t.Errorf("after release: %v", err)
	}
}

func TestKeyReleasedOnError(t *testing.T) {
	g := NewGuard()
	boom := errors.New("boom")

	if err := g.Do("cancel:7", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("got %v, want boom", err)
	}
	if g.Busy("cancel:7") {
		t.Error("key should be released after a failed action")
	}
}
