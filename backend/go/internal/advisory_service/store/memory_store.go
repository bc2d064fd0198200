package store

import (
	"context"
	"reflect"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// MemoryDocumentStore is a thread-safe, in-memory DocumentStore. It backs the
// disabled-persistence mode when the real store is not configured, and the
// store test suites. Documents are held in their wire encoding so both
// implementations share the same decode path.
type MemoryDocumentStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]bson.Raw
	now         func() time.Time
}

// NewMemoryDocumentStore creates an empty in-memory store.
func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{
		collections: make(map[string]map[string]bson.Raw),
		now:         time.Now,
	}
}

func (s *MemoryDocumentStore) docs(collection string) map[string]bson.Raw {
	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]bson.Raw)
	}
	return s.collections[collection]
}

// Create stamps both timestamps, assigns the ID and stores the document.
func (s *MemoryDocumentStore) Create(ctx context.Context, collection string, entity Entity) (string, error) {
	prepareCreate(entity, s.now().UTC())

	raw, err := bson.Marshal(entity)
	if err != nil {
		return "", &Error{Kind: KindUnknown, Op: "create " + collection, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs(collection)[entity.GetID()] = raw
	return entity.GetID(), nil
}

// Get returns the raw document, or nil when the ID is absent.
func (s *MemoryDocumentStore) Get(ctx context.Context, collection, id string) (bson.Raw, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.collections[collection][id]
	if !ok {
		return nil, nil
	}
	return raw, nil
}

// Find returns the ordered matching documents; an empty slice when nothing
// matches.
func (s *MemoryDocumentStore) Find(ctx context.Context, collection string, q Query) ([]bson.Raw, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]bson.Raw, 0)
	for _, raw := range s.collections[collection] {
		if matches(raw, q.Filters) {
			out = append(out, raw)
		}
	}

	if q.OrderBy != "" {
		sort.SliceStable(out, func(i, j int) bool {
			cmp, ok := rawCompare(out[i].Lookup(q.OrderBy), out[j].Lookup(q.OrderBy))
			if !ok {
				return false
			}
			if q.Descending {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	if q.Limit > 0 && int64(len(out)) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// Update merges fields into an existing document and re-stamps updatedAt.
// A missing ID fails with KindNotFound.
func (s *MemoryDocumentStore) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	op := "update " + collection

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.collections[collection][id]
	if !ok {
		return &Error{Kind: KindNotFound, Op: op}
	}

	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return &Error{Kind: KindUnknown, Op: op, Err: err}
	}
	for k, v := range fields {
		if _, protected := protectedFields[k]; protected {
			continue
		}
		doc[k] = v
	}
	doc["updatedAt"] = s.now().UTC()

	updated, err := bson.Marshal(doc)
	if err != nil {
		return &Error{Kind: KindUnknown, Op: op, Err: err}
	}
	s.docs(collection)[id] = updated
	return nil
}

// Delete removes a document. Deleting an absent ID succeeds.
func (s *MemoryDocumentStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections[collection], id)
	return nil
}

func matches(raw bson.Raw, filters []Filter) bool {
	for _, f := range filters {
		rv := raw.Lookup(f.Field)
		if rv.Validate() != nil {
			return false // absent field matches nothing
		}
		if !matchOne(rv, f) {
			return false
		}
	}
	return true
}

func matchOne(rv bson.RawValue, f Filter) bool {
	if f.Op == OpIn {
		candidates := reflect.ValueOf(f.Value)
		if candidates.Kind() != reflect.Slice && candidates.Kind() != reflect.Array {
			return false
		}
		for i := 0; i < candidates.Len(); i++ {
			if cmp, ok := compareValue(rv, candidates.Index(i).Interface()); ok && cmp == 0 {
				return true
			}
		}
		return false
	}

	cmp, ok := compareValue(rv, f.Value)
	if !ok {
		return false
	}
	switch f.Op {
	case OpEqual:
		return cmp == 0
	case OpNotEqual:
		return cmp != 0
	case OpLess:
		return cmp < 0
	case OpLessOrEqual:
		return cmp <= 0
	case OpGreater:
		return cmp > 0
	case OpGreaterOrEqual:
		return cmp >= 0
	default:
		return false
	}
}

// compareValue compares a stored BSON value against a native filter value.
func compareValue(rv bson.RawValue, want interface{}) (int, bool) {
	switch rv.Type {
	case bsontype.String:
		w, ok := toString(want)
		if !ok {
			return 0, false
		}
		s := rv.StringValue()
		switch {
		case s < w:
			return -1, true
		case s > w:
			return 1, true
		default:
			return 0, true
		}
	case bsontype.Int32, bsontype.Int64, bsontype.Double:
		w, ok := toFloat64(want)
		if !ok {
			return 0, false
		}
		n, _ := numeric(rv)
		switch {
		case n < w:
			return -1, true
		case n > w:
			return 1, true
		default:
			return 0, true
		}
	case bsontype.DateTime:
		w, ok := want.(time.Time)
		if !ok {
			return 0, false
		}
		t := rv.Time()
		switch {
		case t.Before(w):
			return -1, true
		case t.After(w):
			return 1, true
		default:
			return 0, true
		}
	case bsontype.Boolean:
		w, ok := want.(bool)
		if !ok {
			return 0, false
		}
		if rv.Boolean() == w {
			return 0, true
		}
		return 1, true
	default:
		return 0, false
	}
}

// rawCompare orders two stored BSON values of the same type; used for sorting.
func rawCompare(a, b bson.RawValue) (int, bool) {
	if a.Validate() != nil || b.Validate() != nil {
		return 0, false
	}
	switch a.Type {
	case bsontype.String:
		if b.Type != bsontype.String {
			return 0, false
		}
		return compareValue(a, b.StringValue())
	case bsontype.Int32, bsontype.Int64, bsontype.Double:
		n, ok := numeric(b)
		if !ok {
			return 0, false
		}
		return compareValue(a, n)
	case bsontype.DateTime:
		if b.Type != bsontype.DateTime {
			return 0, false
		}
		return compareValue(a, b.Time())
	default:
		return 0, false
	}
}

func numeric(rv bson.RawValue) (float64, bool) {
	switch rv.Type {
	case bsontype.Int32:
		return float64(rv.Int32()), true
	case bsontype.Int64:
		return float64(rv.Int64()), true
	case bsontype.Double:
		return rv.Double(), true
	default:
		return 0, false
	}
}

func toString(v interface{}) (string, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

func toFloat64(v interface{}) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

var _ DocumentStore = (*MemoryDocumentStore)(nil)
