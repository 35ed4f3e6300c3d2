package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrNotLocked is returned when a transaction writes a collection it did not lock.
var ErrNotLocked = errors.New("collection not locked by transaction")

var emptyCollection = []byte("[]")

// RollbackHook observes compensating writes. restoreErr is nil when every restore succeeded.
type RollbackHook func(written []Collection, cause, restoreErr error)

// Locker serialises read-modify-write cycles per collection. Multi-collection
// transactions always lock in Collection order, so two transactions can never deadlock.
type Locker struct {
	store      Store
	mus        [collectionCount]sync.Mutex
	onRollback RollbackHook
}

// NewLocker wraps st with per-collection critical sections.
func NewLocker(st Store) *Locker {
	return &Locker{store: st}
}

// OnRollback registers a hook invoked after every rollback.
func (l *Locker) OnRollback(hook RollbackHook) {
	l.onRollback = hook
}

// Store returns the underlying store for snapshot reads.
func (l *Locker) Store() Store {
	return l.store
}

// Update runs fn while holding the critical sections of the given collections.
// If fn fails after writing, every written collection is restored, newest first,
// before the locks are released.
func (l *Locker) Update(ctx context.Context, fn func(tx *Tx) error, collections ...Collection) (err error) {
	tx, err := l.begin(collections)
	if err != nil {
		return err
	}
	defer tx.release()

	defer func() {
		if r := recover(); r != nil {
			_ = l.rollback(ctx, tx, fmt.Errorf("panic: %v", r))
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := l.rollback(ctx, tx, err); rbErr != nil {
			return rbErr
		}
		return err
	}
	return nil
}

func (l *Locker) begin(collections []Collection) (*Tx, error) {
	ordered := make([]Collection, 0, len(collections))
	seen := make(map[Collection]bool, len(collections))
	for _, c := range collections {
		if err := checkCollection(c); err != nil {
			return nil, err
		}
		if !seen[c] {
			seen[c] = true
			ordered = append(ordered, c)
		}
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	for _, c := range ordered {
		l.mus[c].Lock()
	}

	return &Tx{
		store:     l.store,
		held:      seen,
		originals: make(map[Collection][]byte),
		release: func() {
			for i := len(ordered) - 1; i >= 0; i-- {
				l.mus[ordered[i]].Unlock()
			}
		},
	}, nil
}

func (l *Locker) rollback(ctx context.Context, tx *Tx, cause error) error {
	if len(tx.written) == 0 {
		return nil
	}

	var errs []error
	for i := len(tx.written) - 1; i >= 0; i-- {
		c := tx.written[i]
		previous := tx.originals[c]
		if previous == nil {
			previous = emptyCollection
		}
		if err := l.store.Write(context.WithoutCancel(ctx), c, previous); err != nil {
			errs = append(errs, fmt.Errorf("restore %s: %w", c, err))
		}
	}
	restoreErr := errors.Join(errs...)

	if l.onRollback != nil {
		l.onRollback(append([]Collection(nil), tx.written...), cause, restoreErr)
	}
	if restoreErr != nil {
		return storeError("rollback", tx.written[0], errors.Join(cause, restoreErr))
	}
	return nil
}

// Tx is the view of the store inside a critical section. Reads of collections the
// transaction did not lock are plain snapshot reads.
type Tx struct {
	store     Store
	held      map[Collection]bool
	originals map[Collection][]byte
	written   []Collection
	release   func()
}

func (tx *Tx) Read(ctx context.Context, c Collection) ([]byte, error) {
	return tx.store.Read(ctx, c)
}

func (tx *Tx) Write(ctx context.Context, c Collection, payload []byte) error {
	if !tx.held[c] {
		return fmt.Errorf("%w: %s", ErrNotLocked, c)
	}
	if _, captured := tx.originals[c]; !captured {
		previous, err := tx.store.Read(ctx, c)
		if err != nil {
			return err
		}
		if previous == nil {
			previous = emptyCollection
		}
		tx.originals[c] = previous
		tx.written = append(tx.written, c)
	}
	return tx.store.Write(ctx, c, payload)
}

// Holds reports whether the transaction locked c.
func (tx *Tx) Holds(c Collection) bool {
	return tx.held[c]
}
