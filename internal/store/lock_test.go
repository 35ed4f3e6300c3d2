package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-mentorship/internal/apperror"
)

type failingStore struct {
	*MemoryStore
	failOn   Collection
	failures int
}

func (f *failingStore) Write(ctx context.Context, c Collection, payload []byte) error {
	if c == f.failOn && f.failures > 0 {
		f.failures--
		return errors.New("write refused")
	}
	return f.MemoryStore.Write(ctx, c, payload)
}

func TestUpdateRollsBackEarlierWritesWhenLaterWriteFails(t *testing.T) {
	ctx := context.Background()
	st := &failingStore{MemoryStore: NewMemoryStore(), failOn: Applications}
	require.NoError(t, Put(ctx, st, Projects, []item{{ID: "p1", Name: "available"}}))
	require.NoError(t, Put(ctx, st, Applications, []item{{ID: "a1", Name: "pending"}}))
	st.failures = 1

	var hookWritten []Collection
	locker := NewLocker(st)
	locker.OnRollback(func(written []Collection, cause, restoreErr error) {
		hookWritten = written
		require.Error(t, cause)
		require.NoError(t, restoreErr)
	})

	err := locker.Update(ctx, func(tx *Tx) error {
		if err := Put(ctx, tx, Projects, []item{{ID: "p1", Name: "assigned"}}); err != nil {
			return err
		}
		return Put(ctx, tx, Applications, []item{{ID: "a1", Name: "approved"}})
	}, Projects, Applications)

	require.Error(t, err)
	require.Equal(t, apperror.KindStore, apperror.KindOf(err))
	require.Equal(t, []Collection{Projects, Applications}, hookWritten)

	projects, err := Get[item](ctx, st, Projects)
	require.NoError(t, err)
	require.Equal(t, "available", projects[0].Name)

	applications, err := Get[item](ctx, st, Applications)
	require.NoError(t, err)
	require.Equal(t, "pending", applications[0].Name)
}

func TestUpdateRestoresNeverWrittenCollectionToEmpty(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	locker := NewLocker(st)

	failure := apperror.ErrAlreadyDecided
	err := locker.Update(ctx, func(tx *Tx) error {
		if err := Put(ctx, tx, Submissions, []item{{ID: "s1"}}); err != nil {
			return err
		}
		return failure
	}, Submissions)
	require.ErrorIs(t, err, apperror.ErrAlreadyDecided)

	submissions, err := Get[item](ctx, st, Submissions)
	require.NoError(t, err)
	require.Empty(t, submissions)
}

func TestTxRejectsWritesToUnlockedCollections(t *testing.T) {
	ctx := context.Background()
	locker := NewLocker(NewMemoryStore())

	err := locker.Update(ctx, func(tx *Tx) error {
		require.True(t, tx.Holds(Students))
		require.False(t, tx.Holds(Projects))
		return Put(ctx, tx, Projects, []item{{ID: "p"}})
	}, Students)
	require.ErrorIs(t, err, ErrNotLocked)
}

func TestConcurrentUpdatesSerialisePerCollection(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	locker := NewLocker(st)

	const workers = 32
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		reversed := i%2 == 0
		go func() {
			defer wg.Done()
			collections := []Collection{Projects, Applications}
			if reversed {
				collections = []Collection{Applications, Projects}
			}
			err := locker.Update(ctx, func(tx *Tx) error {
				items, err := Get[item](ctx, tx, Applications)
				if err != nil {
					return err
				}
				items = append(items, item{ID: "x"})
				if err := Put(ctx, tx, Applications, items); err != nil {
					return err
				}
				return Put(ctx, tx, Projects, items)
			}, collections...)
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	applications, err := Get[item](ctx, st, Applications)
	require.NoError(t, err)
	require.Len(t, applications, workers)
}
