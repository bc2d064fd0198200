package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DatabaseProvider returns the current database handle, or nil while the
// store is offline or unconfigured. A function rather than a handle so the
// connection manager can re-establish the underlying session without the
// store holding a stale reference.
type DatabaseProvider func() *mongo.Database

// MongoDocumentStore is the production DocumentStore over MongoDB.
type MongoDocumentStore struct {
	database DatabaseProvider
	timeout  time.Duration
	now      func() time.Time
}

// NewMongoDocumentStore creates a store. timeout bounds every operation;
// zero disables the per-call deadline.
func NewMongoDocumentStore(database DatabaseProvider, timeout time.Duration) *MongoDocumentStore {
	return &MongoDocumentStore{
		database: database,
		timeout:  timeout,
		now:      time.Now,
	}
}

func (s *MongoDocumentStore) collection(op, name string) (*mongo.Collection, error) {
	db := s.database()
	if db == nil {
		return nil, errNotConfigured(op)
	}
	return db.Collection(name), nil
}

func (s *MongoDocumentStore) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Create stamps both timestamps, assigns the ID and persists the document.
func (s *MongoDocumentStore) Create(ctx context.Context, collection string, entity Entity) (string, error) {
	op := "create " + collection
	coll, err := s.collection(op, collection)
	if err != nil {
		return "", err
	}
	prepareCreate(entity, s.now().UTC())

	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	if _, err := coll.InsertOne(ctx, entity); err != nil {
		return "", wrap(op, err)
	}
	return entity.GetID(), nil
}

// Get returns the raw document, or nil when the ID is absent.
func (s *MongoDocumentStore) Get(ctx context.Context, collection, id string) (bson.Raw, error) {
	op := "get " + collection
	coll, err := s.collection(op, collection)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	raw, err := coll.FindOne(ctx, bson.M{"_id": id}).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, wrap(op, err)
	}
	return raw, nil
}

var mongoOps = map[Op]string{
	OpEqual:          "$eq",
	OpNotEqual:       "$ne",
	OpLess:           "$lt",
	OpLessOrEqual:    "$lte",
	OpGreater:        "$gt",
	OpGreaterOrEqual: "$gte",
	OpIn:             "$in",
}

func buildFilter(filters []Filter) bson.M {
	out := bson.M{}
	for _, f := range filters {
		mop, ok := mongoOps[f.Op]
		if !ok {
			mop = "$eq"
		}
		if existing, ok := out[f.Field].(bson.M); ok {
			existing[mop] = f.Value
			continue
		}
		out[f.Field] = bson.M{mop: f.Value}
	}
	return out
}

// Find returns the ordered matching documents; an empty slice when nothing
// matches.
func (s *MongoDocumentStore) Find(ctx context.Context, collection string, q Query) ([]bson.Raw, error) {
	op := "find " + collection
	coll, err := s.collection(op, collection)
	if err != nil {
		return nil, err
	}

	opts := options.Find()
	if q.OrderBy != "" {
		dir := 1
		if q.Descending {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: q.OrderBy, Value: dir}})
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	cursor, err := coll.Find(ctx, buildFilter(q.Filters), opts)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer cursor.Close(ctx)

	out := make([]bson.Raw, 0)
	for cursor.Next(ctx) {
		// cursor.Current is reused between iterations; keep a copy.
		out = append(out, bson.Raw(append([]byte(nil), cursor.Current...)))
	}
	if err := cursor.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return out, nil
}

// Update merges fields into an existing document and re-stamps updatedAt.
// A missing ID fails with KindNotFound.
func (s *MongoDocumentStore) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	op := "update " + collection
	coll, err := s.collection(op, collection)
	if err != nil {
		return err
	}

	set := bson.M{}
	for k, v := range fields {
		if _, protected := protectedFields[k]; protected {
			continue
		}
		set[k] = v
	}
	set["updatedAt"] = s.now().UTC()

	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	res, err := coll.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return wrap(op, err)
	}
	if res.MatchedCount == 0 {
		return &Error{Kind: KindNotFound, Op: op}
	}
	return nil
}

// Delete removes a document. Deleting an absent ID succeeds.
func (s *MongoDocumentStore) Delete(ctx context.Context, collection, id string) error {
	op := "delete " + collection
	coll, err := s.collection(op, collection)
	if err != nil {
		return err
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	if _, err := coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return wrap(op, err)
	}
	return nil
}

var _ DocumentStore = (*MongoDocumentStore)(nil)
