// internal/testutil/memstore.go
package testutil

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/sevakendra/regdesk/internal/app/store/docs"
)

// MemStore is an in-memory docs.Store for tests. It honors the same
// contracts as the Mongo implementation: create-or-replace semantics,
// ErrNotFound on missing applies, ascending-ID pagination, and all-or-
// nothing batch commits.
type MemStore struct {
	mu          sync.Mutex
	collections map[string]map[string]docs.Document

	// FailApply injects an error for Apply on "collection/id" keys, so
	// driver failure accounting can be exercised.
	FailApply map[string]error
}

// NewMemStore returns an empty store.
func NewMemStore() *MemStore {
	return &MemStore{
		collections: make(map[string]map[string]docs.Document),
		FailApply:   make(map[string]error),
	}
}

// Seed inserts a document directly, for fixture setup.
func (s *MemStore) Seed(collection, id string, doc docs.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(collection, id, doc)
}

// All returns every document in a collection, ascending by ID.
func (s *MemStore) All(collection string) []docs.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageLocked(collection, "", 0)
}

// Count returns the number of documents in a collection.
func (s *MemStore) Count(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.collections[collection])
}

func (s *MemStore) put(collection, id string, doc docs.Document) {
	col, ok := s.collections[collection]
	if !ok {
		col = make(map[string]docs.Document)
		s.collections[collection] = col
	}
	body := doc.Clone()
	body["_id"] = id
	col[id] = body
}

func (s *MemStore) pageLocked(collection, afterID string, limit int) []docs.Document {
	col := s.collections[collection]
	ids := make([]string, 0, len(col))
	for id := range col {
		if id > afterID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]docs.Document, 0, len(ids))
	for _, id := range ids {
		out = append(out, col[id].Clone())
	}
	return out
}

func (s *MemStore) Collection(name string) docs.Collection {
	return &memCollection{store: s, name: name}
}

func (s *MemStore) NewBatch() docs.Batch {
	return &memBatch{store: s}
}

type memCollection struct {
	store *MemStore
	name  string
}

func (c *memCollection) Name() string { return c.name }

func (c *memCollection) GetByID(_ context.Context, id string) (docs.Document, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	doc, ok := c.store.collections[c.name][id]
	if !ok {
		return nil, docs.ErrNotFound
	}
	return doc.Clone(), nil
}

func (c *memCollection) FindByField(_ context.Context, field string, value any) ([]docs.Document, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	var out []docs.Document
	for _, doc := range c.store.collections[c.name] {
		if reflect.DeepEqual(doc[field], value) {
			out = append(out, doc.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (c *memCollection) ScanPage(_ context.Context, afterID string, limit int) ([]docs.Document, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	return c.store.pageLocked(c.name, afterID, limit), nil
}

func (c *memCollection) Replace(_ context.Context, id string, doc docs.Document) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	c.store.put(c.name, id, doc)
	return nil
}

func (c *memCollection) Apply(_ context.Context, id string, p docs.Patch) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	if err := c.store.FailApply[c.name+"/"+id]; err != nil {
		return err
	}
	doc, ok := c.store.collections[c.name][id]
	if !ok {
		return fmt.Errorf("apply %s/%s: %w", c.name, id, docs.ErrNotFound)
	}
	for k, v := range p {
		if docs.IsDelete(v) {
			delete(doc, k)
			continue
		}
		doc[k] = v
	}
	return nil
}

func (c *memCollection) DeleteByID(_ context.Context, id string) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	delete(c.store.collections[c.name], id)
	return nil
}

type memOp struct {
	collection string
	id         string
	doc        docs.Document
}

type memBatch struct {
	store *MemStore
	ops   []memOp
}

func (b *memBatch) Set(collection, id string, doc docs.Document) {
	b.ops = append(b.ops, memOp{collection: collection, id: id, doc: doc.Clone()})
}

func (b *memBatch) Delete(collection, id string) {
	b.ops = append(b.ops, memOp{collection: collection, id: id})
}

func (b *memBatch) Len() int { return len(b.ops) }

func (b *memBatch) Commit(_ context.Context) error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	for _, op := range b.ops {
		if op.doc == nil {
			delete(b.store.collections[op.collection], op.id)
			continue
		}
		b.store.put(op.collection, op.id, op.doc)
	}
	b.ops = nil
	return nil
}
