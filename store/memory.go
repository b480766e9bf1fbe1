package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"invtrack/models"
)

// Memory is an in-memory Store with the same observable behavior as the
// Mongo implementation: equality filters, stable ordering with optional case
// folding, insertion-order ties, and the same unique indexes (violations
// return ErrDuplicate). It backs the engine and handler tests.
type Memory struct {
	assetTypes  *memoryCollection[models.AssetType]
	assets      *memoryCollection[models.Asset]
	users       *memoryCollection[models.User]
	assignments *memoryCollection[models.Assignment]
	auditLogs   *memoryCollection[models.AuditLog]
}

func NewMemory() *Memory {
	return &Memory{
		assetTypes:  newMemoryCollection[models.AssetType]("name"),
		assets:      newMemoryCollection[models.Asset]("serialNumber"),
		users:       newMemoryCollection[models.User]("username", "email"),
		assignments: newMemoryCollection[models.Assignment](),
		auditLogs:   newMemoryCollection[models.AuditLog](),
	}
}

func (m *Memory) AssetTypes() Collection[models.AssetType]   { return m.assetTypes }
func (m *Memory) Assets() Collection[models.Asset]           { return m.assets }
func (m *Memory) Users() Collection[models.User]             { return m.users }
func (m *Memory) Assignments() Collection[models.Assignment] { return m.assignments }
func (m *Memory) AuditLogs() Collection[models.AuditLog]     { return m.auditLogs }

func (m *Memory) Ping(ctx context.Context) error { return nil }

type memoryCollection[T Entity] struct {
	mu     sync.RWMutex
	docs   []T
	unique []string
}

func newMemoryCollection[T Entity](unique ...string) *memoryCollection[T] {
	return &memoryCollection[T]{unique: unique}
}

func (c *memoryCollection[T]) Insert(ctx context.Context, doc T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkUnique(doc, doc.GetID()); err != nil {
		return err
	}
	c.docs = append(c.docs, doc)
	return nil
}

func (c *memoryCollection[T]) FindOne(ctx context.Context, filter Filter) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, doc := range c.docs {
		if matches(doc, filter) {
			return doc, nil
		}
	}
	var zero T
	return zero, ErrNotFound
}

func (c *memoryCollection[T]) Count(ctx context.Context, filter Filter) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var n int64
	for _, doc := range c.docs {
		if matches(doc, filter) {
			n++
		}
	}
	return n, nil
}

func (c *memoryCollection[T]) FindPage(ctx context.Context, filter Filter, s Sort, page PageRequest) ([]T, int64, error) {
	c.mu.RLock()
	matched := make([]T, 0, len(c.docs))
	for _, doc := range c.docs {
		if matches(doc, filter) {
			matched = append(matched, doc)
		}
	}
	c.mu.RUnlock()

	// Stable sort over an insertion-ordered slice keeps ties in insertion order.
	sort.SliceStable(matched, func(i, j int) bool {
		a, _ := fieldValue(matched[i], s.Field)
		b, _ := fieldValue(matched[j], s.Field)
		cmp := compareValues(a, b, s.Fold)
		if s.Desc {
			return cmp > 0
		}
		return cmp < 0
	})

	total := int64(len(matched))
	if page.Skip >= total || page.Skip < 0 {
		return nil, total, nil
	}
	end := page.Skip + page.Limit
	if page.Limit <= 0 || end > total {
		end = total
	}
	return matched[page.Skip:end], total, nil
}

func (c *memoryCollection[T]) UpdateByID(ctx context.Context, id primitive.ObjectID, fields Fields) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, doc := range c.docs {
		if doc.GetID() != id {
			continue
		}
		updated := doc
		for field, value := range fields {
			// An unknown field name is a caller bug; failing loudly here
			// keeps the fake from hiding what Mongo would happily $set.
			if !setFieldValue(&updated, field, value) {
				return fmt.Errorf("store: no stored field %q on %T", field, updated)
			}
		}
		if err := c.checkUnique(updated, id); err != nil {
			return err
		}
		c.docs[i] = updated
		return nil
	}
	return ErrNotFound
}

func (c *memoryCollection[T]) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, doc := range c.docs {
		if doc.GetID() == id {
			c.docs = append(c.docs[:i], c.docs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// checkUnique enforces the collection's unique indexes against every record
// other than the one identified by selfID. Callers hold the write lock.
func (c *memoryCollection[T]) checkUnique(candidate T, selfID primitive.ObjectID) error {
	for _, field := range c.unique {
		val, ok := fieldValue(candidate, field)
		if !ok {
			continue
		}
		for _, doc := range c.docs {
			if doc.GetID() == selfID {
				continue
			}
			if existing, ok := fieldValue(doc, field); ok && valuesEqual(existing, val) {
				return ErrDuplicate
			}
		}
	}
	return nil
}

func matches[T Entity](doc T, filter Filter) bool {
	for field, want := range filter {
		got, ok := fieldValue(doc, field)
		if !ok || !valuesEqual(got, want) {
			return false
		}
	}
	return true
}
