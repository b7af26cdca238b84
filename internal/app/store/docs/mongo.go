// internal/app/store/docs/mongo.go
package docs

import (
	"context"
	"errors"
	"fmt"

	"github.com/sevakendra/regdesk/internal/app/system/txn"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore backs the Store interface with a Mongo database.
type MongoStore struct {
	db *mongo.Database
}

// NewMongoStore wraps an already-connected database.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) Collection(name string) Collection {
	return &mongoCollection{c: s.db.Collection(name)}
}

func (s *MongoStore) NewBatch() Batch {
	return &mongoBatch{store: s}
}

type mongoCollection struct {
	c *mongo.Collection
}

func (mc *mongoCollection) Name() string { return mc.c.Name() }

func (mc *mongoCollection) GetByID(ctx context.Context, id string) (Document, error) {
	var raw bson.M
	if err := mc.c.FindOne(ctx, bson.M{"_id": id}).Decode(&raw); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return Document(raw), nil
}

func (mc *mongoCollection) FindByField(ctx context.Context, field string, value any) ([]Document, error) {
	cur, err := mc.c.Find(ctx, bson.M{field: value})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	return decodeAll(ctx, cur)
}

func (mc *mongoCollection) ScanPage(ctx context.Context, afterID string, limit int) ([]Document, error) {
	filter := bson.M{}
	if afterID != "" {
		filter["_id"] = bson.M{"$gt": afterID}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(int64(limit))
	cur, err := mc.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	return decodeAll(ctx, cur)
}

func (mc *mongoCollection) Replace(ctx context.Context, id string, doc Document) error {
	body := doc.Clone()
	body["_id"] = id
	opts := options.Replace().SetUpsert(true)
	_, err := mc.c.ReplaceOne(ctx, bson.M{"_id": id}, bson.M(body), opts)
	return err
}

func (mc *mongoCollection) Apply(ctx context.Context, id string, p Patch) error {
	update := patchToUpdate(p)
	if len(update) == 0 {
		return nil
	}
	res, err := mc.c.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("apply %s/%s: %w", mc.c.Name(), id, ErrNotFound)
	}
	return nil
}

func (mc *mongoCollection) DeleteByID(ctx context.Context, id string) error {
	_, err := mc.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// patchToUpdate splits a patch into $set / $unset groups. A patch holding
// only delete sentinels produces only $unset; an empty patch produces an
// empty update the caller must not send.
func patchToUpdate(p Patch) bson.M {
	set := bson.M{}
	unset := bson.M{}
	for k, v := range p {
		if IsDelete(v) {
			unset[k] = ""
			continue
		}
		set[k] = v
	}
	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update
}

func decodeAll(ctx context.Context, cur *mongo.Cursor) ([]Document, error) {
	var out []Document
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, err
		}
		out = append(out, Document(raw))
	}
	return out, cur.Err()
}

type batchOp struct {
	collection string
	id         string
	doc        Document // nil means delete
}

type mongoBatch struct {
	store *MongoStore
	ops   []batchOp
}

func (b *mongoBatch) Set(collection, id string, doc Document) {
	b.ops = append(b.ops, batchOp{collection: collection, id: id, doc: doc})
}

func (b *mongoBatch) Delete(collection, id string) {
	b.ops = append(b.ops, batchOp{collection: collection, id: id})
}

func (b *mongoBatch) Len() int { return len(b.ops) }

// Commit applies every queued operation inside one transaction where the
// deployment supports it. On success the batch is reset for reuse.
func (b *mongoBatch) Commit(ctx context.Context) error {
	if len(b.ops) == 0 {
		return nil
	}
	ops := b.ops
	err := txn.WithTransaction(ctx, b.store.db.Client(), func(ctx context.Context) error {
		for _, op := range ops {
			col := b.store.Collection(op.collection)
			if op.doc == nil {
				if err := col.DeleteByID(ctx, op.id); err != nil {
					return err
				}
				continue
			}
			if err := col.Replace(ctx, op.id, op.doc); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	b.ops = nil
	return nil
}
