package sender

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestDispatcherRunsJobs(t *testing.T) {
	d := NewDispatcher(Options{Workers: 2, QueueSize: 8})
	defer d.Close()

	var ran atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		err := d.Enqueue(context.Background(), "test", func() error {
			defer wg.Done()
			ran.Add(1)
			return nil
		})
		if err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}
	wg.Wait()
	if got := ran.Load(); got != 5 {
		t.Fatalf("ran = %d", got)
	}
}

func TestDispatcherQueueFull(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, QueueSize: 1})
	defer d.Close()

	release := make(chan struct{})
	started := make(chan struct{})
	_ = d.Enqueue(context.Background(), "block", func() error {
		close(started)
		<-release
		return nil
	})
	<-started

	// Fill the queue, then the next enqueue must be rejected.
	_ = d.Enqueue(context.Background(), "fill", func() error { return nil })
	err := d.Enqueue(context.Background(), "overflow", func() error { return nil })
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("err = %v, want ErrQueueFull", err)
	}
	close(release)
}

func TestDispatcherClosedQueueRejects(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, QueueSize: 1})
	d.Close()
	err := d.Enqueue(context.Background(), "late", func() error { return nil })
	if !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("err = %v, want ErrQueueClosed", err)
	}
}

func TestDispatcherCountsPermanentFailures(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, QueueSize: 4, RetryBackoff: time.Millisecond})

	var wg sync.WaitGroup
	wg.Add(1)
	_ = d.Enqueue(context.Background(), "fail", func() error {
		defer wg.Done()
		return errors.New("permanent")
	})
	wg.Wait()
	d.Close()

	if got := d.ErrorCount(); got != 1 {
		t.Fatalf("errors = %d", got)
	}
}

func TestSanitizeErrorMessage(t *testing.T) {
	err := errors.New(`telegram: Post "https://api.telegram.org/bot12345:AAHsecretsecret/sendMessage": timeout`)
	got := sanitizeErrorMessage(err)
	if got == err.Error() {
		t.Fatal("token not redacted")
	}
	if !strings.Contains(got, "bot<redacted>") {
		t.Fatalf("sanitized = %q", got)
	}
}
