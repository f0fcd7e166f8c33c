// Package docstore is the thin client boundary to the remote document store.
//
// A store is a set of named collections holding flat field/value documents
// keyed by a string id. Queries support equality filters ANDed together, a
// single ordering field and a limit. There are no joins and no cross-document
// transactions; callers compose multi-step operations out of independent calls.
//
// Backends: MongoDB (NewMongoDB), Firestore (NewFirestore) and an in-process
// Memory store used by tests and local development.
package docstore

import (
	"context"
	"errors"
	"slices"
)

// ErrNotFound is returned by Get and Update when the document does not exist.
var ErrNotFound = errors.New("docstore: document not found")

// Fields is the field/value map of a single document.
type Fields map[string]any

// Document is a stored document together with its store-assigned id.
type Document struct {
	ID     string
	Fields Fields
}

type Store interface {
	Collection(name string) Collection
}

type Collection interface {
	// Add inserts a document under a new store-assigned id.
	Add(ctx context.Context, fields Fields) (string, error)
	// Set creates or fully replaces the document with the given id.
	Set(ctx context.Context, id string, fields Fields) error
	Get(ctx context.Context, id string) (*Document, error)
	// Update merges fields into an existing document.
	Update(ctx context.Context, id string, fields Fields) error
	// Delete removes the document; deleting a missing document is not an error.
	Delete(ctx context.Context, id string) error
	Find(ctx context.Context, q Query) ([]Document, error)
}

// Filter is an equality constraint on a single field.
type Filter struct {
	Field string
	Value any
}

// Order sorts query results by a single field.
type Order struct {
	Field string
	Desc  bool
}

// Query describes a collection scan. The zero Query matches every document
// in store-defined order.
type Query struct {
	Filters []Filter
	Order   *Order
	Limit   int
}

// Where starts a query with one equality filter.
func Where(field string, value any) Query {
	return Query{}.Where(field, value)
}

func (q Query) Where(field string, value any) Query {
	q.Filters = append(slices.Clip(q.Filters), Filter{Field: field, Value: value})
	return q
}

func (q Query) OrderBy(field string, desc bool) Query {
	q.Order = &Order{Field: field, Desc: desc}
	return q
}

func (q Query) Take(n int) Query {
	q.Limit = n
	return q
}
