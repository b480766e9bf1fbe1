// Package rules holds the invariant checks that run before every mutation:
// uniqueness, referential integrity, dependent-blocked deletes and the
// self-targeting guards on user management. Checks are advisory reads; the
// store's unique indexes remain the authoritative backstop for the
// check-then-write window.
package rules

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"invtrack/store"
)

// Conflict reports a uniqueness violation.
type Conflict struct {
	Entity string
	Field  string
	Value  string
}

func (e *Conflict) Error() string {
	return fmt.Sprintf("%s with %s %q already exists", e.Entity, e.Field, e.Value)
}

// NotFound reports a referenced entity that does not exist.
type NotFound struct {
	Entity string
}

func (e *NotFound) Error() string {
	return e.Entity + " not found"
}

// Blocked reports a delete refused because dependent rows still reference
// the entity.
type Blocked struct {
	Entity    string
	Name      string
	Dependent string
	Count     int64
}

func (e *Blocked) Error() string {
	return fmt.Sprintf("cannot delete %s %q: linked to %d %s", e.Entity, e.Name, e.Count, e.Dependent)
}

// Refused reports a self-targeting mutation an admin may not perform on
// their own account.
type Refused struct {
	Reason string
}

func (e *Refused) Error() string {
	return e.Reason
}

// Unique verifies no record of the collection other than excludeID holds
// value in field. A zero excludeID checks against every record; a non-zero
// one supports update flows, where the record being edited must not conflict
// with itself.
func Unique[T store.Entity](ctx context.Context, c store.Collection[T], entity, field, value string, excludeID primitive.ObjectID) error {
	existing, err := c.FindOne(ctx, store.Filter{field: value})
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !excludeID.IsZero() && existing.GetID() == excludeID {
		return nil
	}
	return &Conflict{Entity: entity, Field: field, Value: value}
}

// ReferenceExists confirms the referenced record is present before a write
// that points at it, so no orphaned foreign key is ever persisted.
func ReferenceExists[T store.Entity](ctx context.Context, c store.Collection[T], entity string, id primitive.ObjectID) error {
	n, err := c.Count(ctx, store.Filter{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return &NotFound{Entity: entity}
	}
	return nil
}

// NoDependents counts rows of the dependent collection referencing id
// through field and blocks the delete while any remain.
func NoDependents[T store.Entity](ctx context.Context, dependents store.Collection[T], entity, name, dependent, field string, id primitive.ObjectID) error {
	n, err := dependents.Count(ctx, store.Filter{field: id})
	if err != nil {
		return err
	}
	if n > 0 {
		return &Blocked{Entity: entity, Name: name, Dependent: dependent, Count: n}
	}
	return nil
}

// NotSelf refuses a mutation when the acting user targets their own record
// and wouldStrip is true (role demotion, account deletion). The caller
// decides whether the refusal aborts the whole request or only the guarded
// field.
func NotSelf(actingID, targetID primitive.ObjectID, wouldStrip bool, reason string) error {
	if wouldStrip && actingID == targetID {
		return &Refused{Reason: reason}
	}
	return nil
}
