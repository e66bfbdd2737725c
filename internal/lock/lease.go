package lock

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/blogsmith/internal/errors"
	"git.home.luguber.info/inful/blogsmith/internal/logfields"
)

// leaseRecord is the on-disk form of a held lease.
type leaseRecord struct {
	Owner      string    `json:"owner"`
	PID        int       `json:"pid"`
	AcquiredAt time.Time `json:"acquiredAt"`
}

// Lease is a single-writer guard backed by a file. A run acquires the
// lease before publishing and releases it when done; a lease older than
// its TTL is considered abandoned and may be reclaimed by the next run.
type Lease struct {
	path  string
	ttl   time.Duration
	owner string
	now   func() time.Time
}

// Option configures a Lease.
type Option func(*Lease)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Lease) { l.now = now }
}

// New creates a lease guard for the given file path. Each Lease value
// gets its own owner token, so two guards in one process still contend.
func New(path string, ttl time.Duration, opts ...Option) *Lease {
	l := &Lease{
		path:  path,
		ttl:   ttl,
		owner: uuid.NewString(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Owner returns the token identifying this guard.
func (l *Lease) Owner() string {
	return l.owner
}

// Acquire takes the lease. A fresh lease held by someone else returns a
// lock-contended error; a stale lease is reclaimed with a warning.
func (l *Lease) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return errors.Wrap(err, errors.CategoryLock, errors.SeverityError, "create lease directory")
	}

	if err := l.tryCreate(); err == nil {
		return nil
	} else if !os.IsExist(err) {
		return errors.Wrap(err, errors.CategoryLock, errors.SeverityError, "write lease file")
	}

	existing, err := l.read()
	if err != nil {
		// Unreadable lease files count as stale.
		slog.Warn("replacing unreadable lease file", logfields.Path(l.path), logfields.Error(err))
		return l.steal()
	}

	age := l.now().Sub(existing.AcquiredAt)
	if age < l.ttl {
		return errors.LockContended(existing.Owner).
			WithContext("pid", existing.PID).
			WithContext("age", age.String())
	}

	slog.Warn("reclaiming stale lease",
		logfields.Path(l.path),
		slog.String("previous_owner", existing.Owner),
		slog.Duration("age", age))
	return l.steal()
}

// Release removes the lease file if this guard still owns it. Releasing
// a lease that was reclaimed by another run is a no-op.
func (l *Lease) Release() error {
	existing, err := l.read()
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, errors.CategoryLock, errors.SeverityWarning, "read lease file")
	}
	if existing.Owner != l.owner {
		slog.Warn("lease no longer owned, leaving in place",
			logfields.Path(l.path),
			slog.String("current_owner", existing.Owner))
		return nil
	}
	if err := os.Remove(l.path); err != nil {
		return errors.Wrap(err, errors.CategoryLock, errors.SeverityWarning, "remove lease file")
	}
	return nil
}

// tryCreate writes the lease file, failing if it already exists.
func (l *Lease) tryCreate() error {
	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	record := leaseRecord{
		Owner:      l.owner,
		PID:        os.Getpid(),
		AcquiredAt: l.now(),
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(record); err != nil {
		_ = f.Close()
		_ = os.Remove(l.path)
		return fmt.Errorf("encode lease record: %w", err)
	}
	return f.Close()
}

// steal removes the current lease file and takes the lease.
func (l *Lease) steal() error {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, errors.CategoryLock, errors.SeverityError, "remove stale lease")
	}
	if err := l.tryCreate(); err != nil {
		if os.IsExist(err) {
			// Another run won the race to recreate it.
			return errors.LockContended("unknown")
		}
		return errors.Wrap(err, errors.CategoryLock, errors.SeverityError, "write lease file")
	}
	return nil
}

func (l *Lease) read() (*leaseRecord, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, err
	}
	var record leaseRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode lease record: %w", err)
	}
	return &record, nil
}
