package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bluele/gcache"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"golang.org/x/sync/singleflight"
)

// Database configuration constants.
const (
	dirPermissions = 0750

	// defaultHardTTL is used when Options.HardTTL is the zero value.
	defaultHardTTL = 7 * 24 * time.Hour

	// l1Size bounds the in-memory LRU that fronts the sqlite table.
	l1Size = 1024
)

// Logger is the logging dependency for Store. Compatible with
// logging.Logger and slog.Logger.
type Logger interface {
	Warn(msg string, args ...any)
}

// Options configures a single GetOrCompute call.
type Options struct {
	// Topic and Key together identify the cached record.
	Topic, Key string

	// SoftTTL is how long a cached value is returned without recomputing.
	SoftTTL time.Duration

	// HardTTL bounds how long a stale value may still be served when
	// AllowStale is set and the producer fails. Defaults to 7 days.
	HardTTL time.Duration

	// AllowStale permits serving an expired-but-not-yet-hard-expired
	// value when the producer fails.
	AllowStale bool

	// NegativeTTL is how long a producer failure is remembered so
	// repeated calls short-circuit instead of retrying immediately.
	NegativeTTL time.Duration
}

// record is one cached entry, either a successful payload or a negative
// (failure) marker.
type record struct {
	Payload   []byte
	SoftUntil time.Time
	HardUntil time.Time
	Negative  bool
	NegUntil  time.Time
}

func (r *record) fresh(now time.Time) bool {
	if r.Negative {
		return now.Before(r.NegUntil)
	}
	return now.Before(r.SoftUntil)
}

func (r *record) stale(now time.Time) bool {
	return !r.Negative && now.Before(r.HardUntil)
}

// Store is a (topic,key)-indexed cache backed by an in-memory LRU (L1) over
// a single-file sqlite database (L2), with per-key single-flight
// coalescing of producer calls.
type Store struct {
	db     *sql.DB
	l1     gcache.Cache
	sf     singleflight.Group
	logger Logger
}

// Open opens (creating if necessary) the sqlite-backed cache database at
// path.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return nil, fmt.Errorf("cache: creating directory: %w", err)
	}

	connStr := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL", path)
	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("cache: opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: applying schema: %w", err)
	}

	return &Store{
		db: db,
		l1: gcache.New(l1Size).LRU().Build(),
	}, nil
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS cache_entries (
	topic      TEXT NOT NULL,
	key        TEXT NOT NULL,
	payload    BLOB,
	soft_until INTEGER NOT NULL,
	hard_until INTEGER NOT NULL,
	negative   INTEGER NOT NULL DEFAULT 0,
	neg_until  INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (topic, key)
);
`

// SetLogger installs a logger used to report stale-value fallback and
// negative-cache transitions.
func (s *Store) SetLogger(logger Logger) {
	s.logger = logger
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func cacheKey(topic, key string) string {
	return topic + "\x00" + key
}

// GetOrCompute returns the cached value for opts.Topic/opts.Key if it is
// fresh, otherwise calls producer — coalescing concurrent calls for the
// same (topic,key) into one producer invocation — and caches the result.
//
// On producer failure: if opts.AllowStale and a not-hard-expired record
// exists, the stale payload is returned and the failure is logged. Else a
// negative-cache marker is written for opts.NegativeTTL and the producer's
// error is returned unchanged.
func (s *Store) GetOrCompute(ctx context.Context, opts Options, producer func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	now := time.Now()

	if r, ok := s.lookup(opts.Topic, opts.Key); ok && r.fresh(now) {
		if r.Negative {
			return nil, ErrNegativeCached
		}
		return r.Payload, nil
	}

	ck := cacheKey(opts.Topic, opts.Key)
	v, err, _ := s.sf.Do(ck, func() (any, error) {
		now := time.Now()
		if r, ok := s.lookup(opts.Topic, opts.Key); ok && r.fresh(now) {
			if r.Negative {
				return nil, ErrNegativeCached
			}
			return r.Payload, nil
		}

		payload, perr := producer(ctx)
		if perr == nil {
			hardTTL := opts.HardTTL
			if hardTTL == 0 {
				hardTTL = defaultHardTTL
			}
			rec := &record{
				Payload:   payload,
				SoftUntil: now.Add(opts.SoftTTL),
				HardUntil: now.Add(hardTTL),
			}
			if err := s.store(opts.Topic, opts.Key, rec); err != nil {
				return nil, fmt.Errorf("cache: storing %s/%s: %w", opts.Topic, opts.Key, err)
			}
			return payload, nil
		}

		if opts.AllowStale {
			if r, ok := s.lookup(opts.Topic, opts.Key); ok && !r.Negative && r.stale(now) {
				if s.logger != nil {
					s.logger.Warn("cache: serving stale value after producer error",
						"topic", opts.Topic, "key", opts.Key, "error", perr)
				}
				return r.Payload, nil
			}
		}

		negTTL := opts.NegativeTTL
		rec := &record{
			Negative: true,
			NegUntil: now.Add(negTTL),
		}
		if err := s.store(opts.Topic, opts.Key, rec); err != nil && s.logger != nil {
			s.logger.Warn("cache: negative-cache write failed", "topic", opts.Topic, "key", opts.Key, "error", err)
		}
		return nil, perr
	})
	if err != nil {
		return nil, err
	}
	payload, _ := v.([]byte)
	return payload, nil
}

// Get returns the raw payload for (topic,key) if present and not
// negative-cached, regardless of soft/hard TTL — callers that manage their
// own freshness semantics (such as the lockout controller) use this instead
// of GetOrCompute.
func (s *Store) Get(topic, key string) ([]byte, bool) {
	r, ok := s.lookup(topic, key)
	if !ok || r.Negative {
		return nil, false
	}
	return r.Payload, true
}

// Put stores payload for (topic,key) with the given soft TTL and the
// default hard TTL.
func (s *Store) Put(topic, key string, payload []byte, ttl time.Duration) error {
	now := time.Now()
	return s.store(topic, key, &record{
		Payload:   payload,
		SoftUntil: now.Add(ttl),
		HardUntil: now.Add(defaultHardTTL),
	})
}

// Invalidate removes a cached entry, forcing the next GetOrCompute to run
// its producer.
func (s *Store) Invalidate(topic, key string) error {
	s.l1.Remove(cacheKey(topic, key))
	_, err := s.db.Exec(`DELETE FROM cache_entries WHERE topic = ? AND key = ?`, topic, key)
	if err != nil {
		return fmt.Errorf("cache: invalidating %s/%s: %w", topic, key, err)
	}
	return nil
}

// Purge drops every cached entry, forcing every future GetOrCompute call
// to run its producer.
func (s *Store) Purge() error {
	s.l1.Purge()
	if _, err := s.db.Exec(`DELETE FROM cache_entries`); err != nil {
		return fmt.Errorf("cache: purging: %w", err)
	}
	return nil
}

func (s *Store) lookup(topic, key string) (*record, bool) {
	ck := cacheKey(topic, key)
	if v, err := s.l1.Get(ck); err == nil {
		if r, ok := v.(*record); ok {
			return r, true
		}
	}

	row := s.db.QueryRow(`
		SELECT payload, soft_until, hard_until, negative, neg_until
		FROM cache_entries WHERE topic = ? AND key = ?`, topic, key)

	var (
		payload            []byte
		softUnix, hardUnix int64
		negative           bool
		negUnix            int64
	)
	if err := row.Scan(&payload, &softUnix, &hardUnix, &negative, &negUnix); err != nil {
		return nil, false
	}

	r := &record{
		Payload:   payload,
		SoftUntil: time.Unix(softUnix, 0),
		HardUntil: time.Unix(hardUnix, 0),
		Negative:  negative,
		NegUntil:  time.Unix(negUnix, 0),
	}
	s.l1.Set(ck, r)
	return r, true
}

func (s *Store) store(topic, key string, r *record) error {
	_, err := s.db.Exec(`
		INSERT INTO cache_entries (topic, key, payload, soft_until, hard_until, negative, neg_until)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(topic, key) DO UPDATE SET
			payload = excluded.payload,
			soft_until = excluded.soft_until,
			hard_until = excluded.hard_until,
			negative = excluded.negative,
			neg_until = excluded.neg_until`,
		topic, key, r.Payload, r.SoftUntil.Unix(), r.HardUntil.Unix(), r.Negative, r.NegUntil.Unix(),
	)
	if err != nil {
		return err
	}
	s.l1.Set(cacheKey(topic, key), r)
	return nil
}
