package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// Entity is implemented by every persisted document type via the embedded
// models.BaseDocument. The store owns the ID and both timestamps.
type Entity interface {
	GetID() string
	SetID(id string)
	StampCreate(now time.Time)
	StampUpdate(now time.Time)
}

// Op is a filter comparison operator.
type Op string

const (
	OpEqual          Op = "=="
	OpNotEqual       Op = "!="
	OpLess           Op = "<"
	OpLessOrEqual    Op = "<="
	OpGreater        Op = ">"
	OpGreaterOrEqual Op = ">="
	OpIn             Op = "in"
)

// Filter is one declarative (field, operator, value) predicate.
type Filter struct {
	Field string
	Op    Op
	Value interface{}
}

// Where builds a Filter.
func Where(field string, op Op, value interface{}) Filter {
	return Filter{Field: field, Op: op, Value: value}
}

// Query combines filters with optional single-field ordering and a limit.
type Query struct {
	Filters    []Filter
	OrderBy    string
	Descending bool
	Limit      int64
}

// DocumentStore provides uniform CRUD over named collections.
//
// Contracts:
//   - Create assigns the ID and stamps createdAt == updatedAt; callers never
//     set either.
//   - Get returns a nil document for an absent ID; absence is not an error.
//   - Find returns an empty slice when nothing matches.
//   - Update merges fields and re-stamps updatedAt, never touching createdAt
//     or the ID; updating a missing ID fails with KindNotFound.
//   - Delete is idempotent: deleting an absent ID succeeds.
//   - Every operation fails with KindNotConfigured, before any network
//     attempt, when the store has no backing database.
type DocumentStore interface {
	Create(ctx context.Context, collection string, entity Entity) (string, error)
	Get(ctx context.Context, collection, id string) (bson.Raw, error)
	Find(ctx context.Context, collection string, q Query) ([]bson.Raw, error)
	Update(ctx context.Context, collection, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, collection, id string) error
}

// prepareCreate assigns a fresh ID when the entity has none and stamps both
// timestamps. Shared by all DocumentStore implementations.
func prepareCreate(entity Entity, now time.Time) {
	if entity.GetID() == "" {
		entity.SetID(uuid.New().String())
	}
	entity.StampCreate(now)
}

// protectedFields can never be changed through Update.
var protectedFields = map[string]struct{}{
	"_id":       {},
	"createdAt": {},
	"updatedAt": {}, // re-stamped by the store, not by the caller
}

// GetByID decodes a single document into T; (nil, nil) when absent.
func GetByID[T any](ctx context.Context, s DocumentStore, collection, id string) (*T, error) {
	raw, err := s.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var v T
	if err := bson.Unmarshal(raw, &v); err != nil {
		return nil, &Error{Kind: KindUnknown, Op: "decode " + collection, Err: err}
	}
	return &v, nil
}

// FindAll decodes every matching document into a []*T; empty slice when
// nothing matches.
func FindAll[T any](ctx context.Context, s DocumentStore, collection string, q Query) ([]*T, error) {
	raws, err := s.Find(ctx, collection, q)
	if err != nil {
		return nil, err
	}
	out := make([]*T, 0, len(raws))
	for _, raw := range raws {
		var v T
		if err := bson.Unmarshal(raw, &v); err != nil {
			return nil, &Error{Kind: KindUnknown, Op: "decode " + collection, Err: err}
		}
		out = append(out, &v)
	}
	return out, nil
}
