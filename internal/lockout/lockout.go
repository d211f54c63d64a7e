package lockout

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nerrad567/gv2mqtt/internal/cache"
)

const (
	cacheTopic = "lockout"
	cacheKey   = "api-lockout-state"

	// persistTTL is long because a lockout record must survive well past
	// its own lockout_until — Current needs to see an expired lockout to
	// report recovery, not just silently stop finding one.
	persistTTL = 7 * 24 * time.Hour

	durationAbnormal  = 24 * time.Hour
	durationRateLimit = 24 * time.Hour
	durationUnauth    = 24 * time.Hour
	durationNetwork   = 5 * time.Minute
	durationUnknown   = 15 * time.Minute

	// retryEscalationThreshold is how many consecutive failures of the
	// same lockout trigger extending it by another full duration.
	retryEscalationThreshold = 3
)

// Type classifies why a cloud API call failed.
type Type string

const (
	TypeAbnormalActivity Type = "abnormal_activity"
	TypeRateLimit        Type = "rate_limit"
	TypeUnauthorized     Type = "unauthorized"
	TypeNetworkError     Type = "network_error"
	TypeUnknown          Type = "unknown"
)

// Duration is the lockout period associated with a Type.
func (t Type) Duration() time.Duration {
	switch t {
	case TypeAbnormalActivity:
		return durationAbnormal
	case TypeRateLimit:
		return durationRateLimit
	case TypeUnauthorized:
		return durationUnauth
	case TypeNetworkError:
		return durationNetwork
	default:
		return durationUnknown
	}
}

// Classify maps an error to a Type by case-insensitive substring match, in
// priority order: account/activity errors first, then rate limiting, then
// auth, then network problems, falling back to Unknown.
func Classify(err error) Type {
	s := strings.ToLower(err.Error())

	switch {
	case strings.Contains(s, "abnormal") || strings.Contains(s, "too many"):
		return TypeAbnormalActivity
	case strings.Contains(s, "429") || strings.Contains(s, "rate limit"):
		return TypeRateLimit
	case strings.Contains(s, "401") || strings.Contains(s, "unauthorized"):
		return TypeUnauthorized
	case strings.Contains(s, "dns") || strings.Contains(s, "timeout") ||
		strings.Contains(s, "connect") || strings.Contains(s, "network"):
		return TypeNetworkError
	default:
		return TypeUnknown
	}
}

// IsRecoverable reports whether an error should trigger degraded (LAN-only)
// operation rather than a fatal abort. It matches its own list of
// substrings, which differs from Classify's: it adds "no route" and
// "unreachable" but does not include "too many". An error matching none of
// them (a malformed request, a programmer error) is not recoverable.
func IsRecoverable(err error) bool {
	s := strings.ToLower(err.Error())
	patterns := []string{
		"abnormal", "rate limit", "429", "401", "unauthorized",
		"timeout", "dns", "connect", "network",
		"connection refused", "no route", "unreachable",
	}
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// Lockout is the persisted record of a cloud API failure streak.
type Lockout struct {
	Type       Type      `json:"lockout_type"`
	Until      time.Time `json:"lockout_until"`
	RetryCount uint32    `json:"retry_count"`
	LastError  string    `json:"last_error"`
	CreatedAt  time.Time `json:"created_at"`
}

// Active reports whether the lockout has not yet expired.
func (l Lockout) Active() bool {
	return time.Now().Before(l.Until)
}

// Remaining returns the time left until the lockout expires, or zero if it
// has already expired.
func (l Lockout) Remaining() time.Duration {
	d := time.Until(l.Until)
	if d < 0 {
		return 0
	}
	return d
}

// Controller tracks cloud API lockout state in the cache store.
type Controller struct {
	store *cache.Store
}

// NewController builds a Controller backed by store.
func NewController(store *cache.Store) *Controller {
	return &Controller{store: store}
}

// Current returns the persisted lockout record, if there is one. A
// persisted-but-expired record is still returned — callers use Active to
// tell the difference between "never locked out" and "lockout recovered".
func (c *Controller) Current() (Lockout, bool) {
	data, ok := c.store.Get(cacheTopic, cacheKey)
	if !ok {
		return Lockout{}, false
	}
	var l Lockout
	if err := json.Unmarshal(data, &l); err != nil {
		return Lockout{}, false
	}
	return l, true
}

// Record classifies err and persists a lockout: creating one if none
// exists, or incrementing the existing one's retry count. A retry count
// exceeding retryEscalationThreshold extends the lockout by another full
// duration for its type.
func (c *Controller) Record(err error) (Lockout, error) {
	now := time.Now()
	existing, ok := c.Current()

	var l Lockout
	if !ok {
		t := Classify(err)
		l = Lockout{
			Type:       t,
			Until:      now.Add(t.Duration()),
			RetryCount: 1,
			LastError:  err.Error(),
			CreatedAt:  now,
		}
	} else {
		l = existing
		l.RetryCount++
		l.LastError = err.Error()
		if l.RetryCount > retryEscalationThreshold {
			l.Until = now.Add(l.Type.Duration())
		}
	}

	data, merr := json.Marshal(l)
	if merr != nil {
		return l, fmt.Errorf("lockout: marshaling record: %w", merr)
	}
	if perr := c.store.Put(cacheTopic, cacheKey, data, persistTTL); perr != nil {
		return l, fmt.Errorf("lockout: persisting record: %w", perr)
	}
	return l, nil
}

// Clear removes any persisted lockout, called on the first successful
// cloud API call after a failure streak.
func (c *Controller) Clear() error {
	if err := c.store.Invalidate(cacheTopic, cacheKey); err != nil {
		return fmt.Errorf("lockout: clearing record: %w", err)
	}
	return nil
}

// ShouldAttempt reports whether a cloud API call should be attempted. It
// returns true when there is no lockout, or when a previous lockout's
// Until has passed — recovery in the latter case is the caller's to log.
func (c *Controller) ShouldAttempt() bool {
	l, ok := c.Current()
	if !ok {
		return true
	}
	return !l.Active()
}
