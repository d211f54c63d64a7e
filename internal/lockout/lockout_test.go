package lockout

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/nerrad567/gv2mqtt/internal/cache"
)

func newTestController(t *testing.T) *Controller {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.db")
	store, err := cache.Open(path)
	if err != nil {
		t.Fatalf("cache.Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewController(store)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  string
		want Type
	}{
		{"Your account is abnormal, please contact support", TypeAbnormalActivity},
		{"too many requests from this device", TypeAbnormalActivity},
		{"HTTP 429: rate limit exceeded", TypeRateLimit},
		{"HTTP 401: unauthorized", TypeUnauthorized},
		{"DNS resolution failed", TypeNetworkError},
		{"dial tcp: connect: connection timeout", TypeNetworkError},
		{"some unexpected gibberish", TypeUnknown},
	}
	for _, tt := range tests {
		if got := Classify(errors.New(tt.err)); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestTypeDuration(t *testing.T) {
	if TypeAbnormalActivity.Duration() != 24*time.Hour {
		t.Errorf("AbnormalActivity duration = %v, want 24h", TypeAbnormalActivity.Duration())
	}
	if TypeNetworkError.Duration() != 5*time.Minute {
		t.Errorf("NetworkError duration = %v, want 5m", TypeNetworkError.Duration())
	}
	if TypeUnknown.Duration() != 15*time.Minute {
		t.Errorf("Unknown duration = %v, want 15m", TypeUnknown.Duration())
	}
}

func TestIsRecoverable(t *testing.T) {
	if !IsRecoverable(errors.New("connection timeout")) {
		t.Error("expected connection timeout to be recoverable")
	}
	if !IsRecoverable(errors.New("HTTP 429 rate limit")) {
		t.Error("expected rate limit to be recoverable")
	}
	if IsRecoverable(errors.New("unknown error xyz")) {
		t.Error("expected an unrecognized error to not be recoverable")
	}
}

func TestRecordCreatesAndPersists(t *testing.T) {
	c := newTestController(t)

	if _, ok := c.Current(); ok {
		t.Fatal("expected no lockout before any Record call")
	}

	l, err := c.Record(errors.New("HTTP 429 rate limit exceeded"))
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if l.Type != TypeRateLimit {
		t.Errorf("Type = %v, want RateLimit", l.Type)
	}
	if l.RetryCount != 1 {
		t.Errorf("RetryCount = %d, want 1", l.RetryCount)
	}

	got, ok := c.Current()
	if !ok {
		t.Fatal("expected lockout to be persisted")
	}
	if got.Type != TypeRateLimit || !got.Active() {
		t.Errorf("Current() = %+v, want active RateLimit lockout", got)
	}
}

func TestRecordIncrementsRetryCount(t *testing.T) {
	c := newTestController(t)

	for range 3 {
		if _, err := c.Record(errors.New("dns timeout")); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	l, ok := c.Current()
	if !ok {
		t.Fatal("expected lockout to be persisted")
	}
	if l.RetryCount != 3 {
		t.Errorf("RetryCount = %d, want 3", l.RetryCount)
	}
}

func TestRecordEscalatesAfterThreeRetries(t *testing.T) {
	c := newTestController(t)

	var until time.Time
	for i := range 4 {
		l, err := c.Record(errors.New("dns timeout"))
		if err != nil {
			t.Fatalf("Record() error = %v", err)
		}
		if i == 2 {
			until = l.Until
		}
		if i == 3 {
			if !l.Until.After(until) {
				t.Errorf("expected lockout to extend after retry_count > 3, Until=%v, prior=%v", l.Until, until)
			}
		}
	}
}

func TestClearRemovesLockout(t *testing.T) {
	c := newTestController(t)

	if _, err := c.Record(errors.New("HTTP 401 unauthorized")); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, ok := c.Current(); ok {
		t.Error("expected no lockout after Clear()")
	}
}

func TestShouldAttempt(t *testing.T) {
	c := newTestController(t)

	if !c.ShouldAttempt() {
		t.Error("expected ShouldAttempt() true with no lockout")
	}

	if _, err := c.Record(errors.New("HTTP 429 rate limit")); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if c.ShouldAttempt() {
		t.Error("expected ShouldAttempt() false with an active lockout")
	}
}

func TestShouldAttemptAfterExpiry(t *testing.T) {
	c := newTestController(t)

	data, err := json.Marshal(Lockout{
		Type:       TypeNetworkError,
		Until:      time.Now().Add(-time.Minute),
		RetryCount: 1,
		LastError:  "dns timeout",
		CreatedAt:  time.Now().Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("marshal error = %v", err)
	}
	if err := c.store.Put(cacheTopic, cacheKey, data, persistTTL); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	if !c.ShouldAttempt() {
		t.Error("expected ShouldAttempt() true once Until has passed")
	}
}
