// Package store is the record store behind all entities. It exposes one
// queryable collection per entity supporting equality filters, ordered
// page-slicing and partial updates, with a Mongo-backed implementation for
// production and an in-memory one for tests.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"invtrack/models"
)

var (
	// ErrNotFound is returned when no record matches a lookup.
	ErrNotFound = errors.New("store: record not found")
	// ErrDuplicate is returned when a write violates a unique index. It is
	// the storage-level backstop for the advisory uniqueness checks, since
	// check-then-write is not atomic across requests.
	ErrDuplicate = errors.New("store: duplicate value for unique field")
)

// Entity is any stored record carrying an object ID.
type Entity interface {
	GetID() primitive.ObjectID
}

// Filter matches records whose stored fields equal the given values.
// The key "_id" matches the record ID.
type Filter map[string]any

// Fields is a partial update: each key names a stored field to set.
type Fields map[string]any

// Sort orders records by a single stored field. Fold requests
// case-insensitive ordering and only makes sense for textual fields.
// Ties keep the collection's insertion order.
type Sort struct {
	Field string
	Desc  bool
	Fold  bool
}

// PageRequest slices an ordered result.
type PageRequest struct {
	Skip  int64
	Limit int64
}

type Collection[T Entity] interface {
	Insert(ctx context.Context, doc T) error
	FindOne(ctx context.Context, filter Filter) (T, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	// FindPage returns one ordered slice of the filtered records along with
	// the total number of records matching the filter.
	FindPage(ctx context.Context, filter Filter, sort Sort, page PageRequest) ([]T, int64, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, fields Fields) error
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}

type Store interface {
	AssetTypes() Collection[models.AssetType]
	Assets() Collection[models.Asset]
	Users() Collection[models.User]
	Assignments() Collection[models.Assignment]
	AuditLogs() Collection[models.AuditLog]
	Ping(ctx context.Context) error
}
