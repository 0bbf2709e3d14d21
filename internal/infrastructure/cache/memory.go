package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/meetmind/internal/domain/entities"
)

// MemoryLedger is an in-process fire-once ledger keyed by meeting id and trigger kind.
// Entries older than the retention are purged by a background sweep.
type MemoryLedger struct {
	mu        sync.Mutex
	items     map[string]time.Time
	retention time.Duration
	now       func() time.Time
	stop      chan struct{}
	stopOnce  sync.Once
}

// NewMemoryLedger creates a memory ledger. A zero retention keeps entries forever.
func NewMemoryLedger(retention time.Duration) *MemoryLedger {
	l := &MemoryLedger{
		items:     make(map[string]time.Time),
		retention: retention,
		now:       time.Now,
		stop:      make(chan struct{}),
	}

	if retention > 0 {
		go l.cleanupExpired(5 * time.Minute)
	}

	return l
}

// TryFire marks the key and reports true when it was not marked before
func (l *MemoryLedger) TryFire(_ context.Context, meetingID uuid.UUID, kind entities.TriggerKind) (bool, error) {
	key := entities.LedgerKey(meetingID, kind)

	l.mu.Lock()
	defer l.mu.Unlock()

	if markedAt, exists := l.items[key]; exists && !l.expired(markedAt) {
		return false, nil
	}
	l.items[key] = l.now()
	return true, nil
}

// Release un-marks the key so the trigger may fire again
func (l *MemoryLedger) Release(_ context.Context, meetingID uuid.UUID, kind entities.TriggerKind) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.items, entities.LedgerKey(meetingID, kind))
	return nil
}

// Len returns the number of marked keys
func (l *MemoryLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Close stops the background sweep
func (l *MemoryLedger) Close() error {
	l.stopOnce.Do(func() { close(l.stop) })
	return nil
}

func (l *MemoryLedger) expired(markedAt time.Time) bool {
	return l.retention > 0 && l.now().Sub(markedAt) > l.retention
}

// cleanupExpired periodically removes expired keys
func (l *MemoryLedger) cleanupExpired(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.purge()
		}
	}
}

func (l *MemoryLedger) purge() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, markedAt := range l.items {
		if l.expired(markedAt) {
			delete(l.items, key)
		}
	}
}
