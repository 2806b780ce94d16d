package notify

import (
	"bytes"
	"context"
	"errors"
	"os"
	"runtime"
	"strings"
	"testing"
	"time"
)

// TestNew tests that New() returns a usable notifier on every platform.
func TestNew(t *testing.T) {
	n := New()
	if n == nil {
		t.Fatal("New() returned nil")
	}
	t.Logf("%s notification support: %v", runtime.GOOS, n.IsSupported())
}

func TestNoop(t *testing.T) {
	n := Noop()
	if n.IsSupported() {
		t.Error("Noop().IsSupported() = true")
	}
	if err := n.Send(Notification{Title: "x"}); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Noop().Send() error = %v, want ErrUnsupported", err)
	}
}

// TestSend actually shows a notification, so it only runs on request.
func TestSend(t *testing.T) {
	if os.Getenv("RUN_NOTIFY_TESTS") != "1" {
		t.Skip("Skipping manual notification test (set RUN_NOTIFY_TESTS=1 to enable)")
	}
	n := New()
	if !n.IsSupported() {
		t.Skip("Notifications not supported on this platform")
	}
	if err := n.Send(Notification{Title: "luna test", Body: "Time for: test", Tag: "test"}); err != nil {
		t.Errorf("Send() error: %v", err)
	}
}

func TestPatternFromMillis(t *testing.T) {
	if got := PatternFromMillis(nil); len(got) != len(DefaultPattern) {
		t.Errorf("PatternFromMillis(nil) = %v, want default", got)
	}
	got := PatternFromMillis([]int{50, 25})
	if got[0] != 50*time.Millisecond || got[1] != 25*time.Millisecond {
		t.Errorf("PatternFromMillis = %v", got)
	}
	if DefaultPattern.Total() != 500*time.Millisecond {
		t.Errorf("DefaultPattern.Total() = %v, want 500ms", DefaultPattern.Total())
	}
}

func TestBellVibrator_NotATerminal(t *testing.T) {
	var buf bytes.Buffer
	v := NewBellVibrator(&buf)
	if v.IsSupported() {
		t.Error("a bytes.Buffer is not a terminal")
	}
	if err := v.Vibrate(context.Background(), DefaultPattern); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Vibrate() error = %v, want ErrUnsupported", err)
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %q to a non-terminal", buf.String())
	}
}

func TestBellVibrator_RingsOnEachPulse(t *testing.T) {
	var buf bytes.Buffer
	v := &BellVibrator{w: &buf, tt: true}

	p := Pattern{time.Millisecond, time.Millisecond, time.Millisecond, time.Millisecond, time.Millisecond}
	if err := v.Vibrate(context.Background(), p); err != nil {
		t.Fatalf("Vibrate() error = %v", err)
	}
	if got := strings.Count(buf.String(), "\a"); got != 3 {
		t.Errorf("rang %d bells, want 3", got)
	}
}

func TestBellVibrator_Cancel(t *testing.T) {
	var buf bytes.Buffer
	v := &BellVibrator{w: &buf, tt: true}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := v.Vibrate(ctx, Pattern{time.Hour})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Vibrate() error = %v, want context.Canceled", err)
	}
}
