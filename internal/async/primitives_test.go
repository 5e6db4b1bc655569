package async

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dshills/dapcore/internal/errs"
)

func TestWaitResolvesWithCallbackValue(t *testing.T) {
	root := NewRootScope(context.Background())
	got, err := Wait(root, func(cb func(error, int)) {
		go cb(nil, 42)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}

func TestWaitPropagatesCallbackError(t *testing.T) {
	root := NewRootScope(context.Background())
	wantErr := errors.New("boom")
	_, err := Wait(root, func(cb func(error, int)) {
		go cb(wantErr, 0)
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("got %v, want %v", err, wantErr)
	}
}

func TestWaitCancelledBeforeResumption(t *testing.T) {
	root := NewRootScope(context.Background())
	child := root.NewChild()

	done := make(chan struct{})
	go func() {
		_, err := Wait(child, func(cb func(error, int)) {
			<-done // never resumes on its own
		})
		if !errors.Is(err, errs.Cancelled) {
			t.Errorf("got %v, want Cancelled", err)
		}
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	child.Cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait did not observe cancellation")
	}
}

func TestWaitAllEmptyResolvesImmediately(t *testing.T) {
	root := NewRootScope(context.Background())
	if err := WaitAll(root, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWaitAllSucceedsWhenAllChildrenSucceed(t *testing.T) {
	root := NewRootScope(context.Background())
	calls := 0
	err := WaitAll(root, []func(ctx context.Context) error{
		func(ctx context.Context) error { calls++; return nil },
		func(ctx context.Context) error { calls++; return nil },
		func(ctx context.Context) error { calls++; return nil },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("got %d calls, want 3", calls)
	}
}

func TestWaitAllCancelsSiblingsOnFirstError(t *testing.T) {
	root := NewRootScope(context.Background())
	wantErr := errors.New("failed")
	cancelled := make(chan struct{})

	err := WaitAll(root, []func(ctx context.Context) error{
		func(ctx context.Context) error { return wantErr },
		func(ctx context.Context) error {
			<-ctx.Done()
			close(cancelled)
			return ctx.Err()
		},
	})

	if !errors.Is(err, wantErr) {
		t.Fatalf("got %v, want %v", err, wantErr)
	}
	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("sibling was not cancelled after first error")
	}
}

func TestEventFanOutToMultipleWaiters(t *testing.T) {
	root := NewRootScope(context.Background())
	ev := NewEvent[string]()

	results := make(chan string, 3)
	for i := 0; i < 3; i++ {
		go func() {
			v, _ := ev.Wait(root)
			results <- v
		}()
	}

	time.Sleep(10 * time.Millisecond)
	ev.Set("ready")
	ev.Set("ignored") // subsequent set is a no-op

	for i := 0; i < 3; i++ {
		select {
		case v := <-results:
			if v != "ready" {
				t.Fatalf("got %q, want %q", v, "ready")
			}
		case <-time.After(time.Second):
			t.Fatal("waiter did not receive the event")
		}
	}
}

func TestTimeoutRaisesOnElapsedDeadline(t *testing.T) {
	root := NewRootScope(context.Background())
	_, err := Timeout(root, 10*time.Millisecond, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})
	if !errors.Is(err, errs.Timeout) {
		t.Fatalf("got %v, want Timeout", err)
	}
}

func TestTimeoutReturnsValueWhenFnCompletesFirst(t *testing.T) {
	root := NewRootScope(context.Background())
	got, err := Timeout(root, time.Second, func(ctx context.Context) (int, error) {
		return 7, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 7 {
		t.Fatalf("got %d, want 7", got)
	}
}

func TestMutexSerializesAccess(t *testing.T) {
	root := NewRootScope(context.Background())
	m := NewMutex()

	var order []int
	done := make(chan struct{})

	if err := m.Lock(root); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	go func() {
		if err := m.Lock(root); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		order = append(order, 2)
		m.Unlock()
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	order = append(order, 1)
	m.Unlock()
	<-done

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("got %v, want [1 2]", order)
	}
}

func TestMemoizerCoalescesConcurrentCalls(t *testing.T) {
	m := NewMemoizer[string, int]()
	started := make(chan struct{})
	release := make(chan struct{})

	var calls int
	first := make(chan int)
	go func() {
		v, _, _ := m.Call("x", func() (int, error) {
			calls++
			close(started)
			<-release
			return 1, nil
		})
		first <- v
	}()

	<-started
	second := make(chan int)
	go func() {
		v, _, shared := m.Call("x", func() (int, error) {
			calls++
			return 2, nil
		})
		if !shared {
			t.Error("second caller should have shared the in-flight result")
		}
		second <- v
	}()

	time.Sleep(10 * time.Millisecond)
	close(release)

	v1 := <-first
	v2 := <-second
	if v1 != 1 || v2 != 1 {
		t.Fatalf("got v1=%d v2=%d, want both 1", v1, v2)
	}
	if calls != 1 {
		t.Fatalf("underlying fn ran %d times, want 1", calls)
	}
}

func TestMemoizerStartsFreshAfterCompletion(t *testing.T) {
	m := NewMemoizer[string, int]()
	v1, _, _ := m.Call("x", func() (int, error) { return 1, nil })
	v2, _, shared := m.Call("x", func() (int, error) { return 2, nil })
	if v1 != 1 || v2 != 2 {
		t.Fatalf("got v1=%d v2=%d, want 1 then 2", v1, v2)
	}
	if shared {
		t.Fatal("a call after completion should not be reported as shared")
	}
}
