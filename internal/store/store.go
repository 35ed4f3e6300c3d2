// Package store persists the engine's entity collections.
//
// A collection is always read and written as a whole: Get returns the ordered items and Put
// replaces them atomically. The store performs no validation; invariants belong to the workflows.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/noah-isme/gema-mentorship/internal/apperror"
)

// Collection names one persisted entity collection. Its ordinal is the global lock order.
type Collection int

const (
	Projects Collection = iota
	Applications
	Submissions
	Students
	TestResults

	collectionCount
)

var collectionNames = [collectionCount]string{
	Projects:     "projects",
	Applications: "applications",
	Submissions:  "submissions",
	Students:     "students",
	TestResults:  "test_results",
}

// ErrUnknownCollection is returned by backends asked for a collection outside the known set.
var ErrUnknownCollection = errors.New("unknown collection")

func (c Collection) String() string {
	if !c.Valid() {
		return fmt.Sprintf("collection(%d)", int(c))
	}
	return collectionNames[c]
}

// Valid reports whether c is one of the known collections.
func (c Collection) Valid() bool {
	return c >= 0 && c < collectionCount
}

// Collections lists every known collection in lock order.
func Collections() []Collection {
	all := make([]Collection, 0, collectionCount)
	for c := Collection(0); c < collectionCount; c++ {
		all = append(all, c)
	}
	return all
}

// Reader loads the serialized payload of a collection. A collection that was never written
// yields a nil payload and no error.
type Reader interface {
	Read(ctx context.Context, c Collection) ([]byte, error)
}

// Writer replaces the serialized payload of a collection in a single atomic step.
type Writer interface {
	Write(ctx context.Context, c Collection, payload []byte) error
}

// Store is the persistence boundary of the engine.
type Store interface {
	Reader
	Writer
}

// Get decodes the full, ordered contents of a collection.
func Get[T any](ctx context.Context, r Reader, c Collection) ([]T, error) {
	payload, err := r.Read(ctx, c)
	if err != nil {
		return nil, storeError("read", c, err)
	}
	items := []T{}
	if len(payload) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, storeError("decode", c, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Put encodes items and replaces the collection with them.
func Put[T any](ctx context.Context, w Writer, c Collection, items []T) error {
	if items == nil {
		items = []T{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return storeError("encode", c, err)
	}
	if err := w.Write(ctx, c, payload); err != nil {
		return storeError("write", c, err)
	}
	return nil
}

func storeError(action string, c Collection, err error) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.Store(fmt.Sprintf("store.%s %s", action, c), err)
}

func checkCollection(c Collection) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownCollection, int(c))
	}
	return nil
}
