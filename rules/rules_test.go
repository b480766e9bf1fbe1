package rules

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"invtrack/models"
	"invtrack/store"
)

func seedAssetType(t *testing.T, m *store.Memory, name string) models.AssetType {
	t.Helper()
	at := models.AssetType{ID: primitive.NewObjectID(), Name: name, CreatedAt: time.Now().UTC()}
	require.NoError(t, m.AssetTypes().Insert(context.Background(), at))
	return at
}

func TestUnique(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	laptop := seedAssetType(t, m, "Laptop")

	// Free value passes.
	assert.NoError(t, Unique(ctx, m.AssetTypes(), "asset type", "name", "Monitor", primitive.NilObjectID))

	// Taken value conflicts.
	err := Unique(ctx, m.AssetTypes(), "asset type", "name", "Laptop", primitive.NilObjectID)
	var conflict *Conflict
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "asset type", conflict.Entity)
	assert.Equal(t, "Laptop", conflict.Value)

	// The record being edited may keep its own value.
	assert.NoError(t, Unique(ctx, m.AssetTypes(), "asset type", "name", "Laptop", laptop.ID))

	// But it may not take another record's value.
	monitor := seedAssetType(t, m, "Monitor")
	err = Unique(ctx, m.AssetTypes(), "asset type", "name", "Laptop", monitor.ID)
	assert.ErrorAs(t, err, &conflict)
}

func TestReferenceExists(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	laptop := seedAssetType(t, m, "Laptop")

	assert.NoError(t, ReferenceExists(ctx, m.AssetTypes(), "asset type", laptop.ID))

	err := ReferenceExists(ctx, m.AssetTypes(), "asset type", primitive.NewObjectID())
	var notFound *NotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "asset type not found", notFound.Error())
}

func TestNoDependents(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	laptop := seedAssetType(t, m, "Laptop")

	// No dependents: delete may proceed.
	assert.NoError(t, NoDependents(ctx, m.Assets(), "asset type", laptop.Name, "assets", "assetTypeId", laptop.ID))

	for i, serial := range []string{"SN-1", "SN-2", "SN-3"} {
		require.NoError(t, m.Assets().Insert(ctx, models.Asset{
			ID:           primitive.NewObjectID(),
			Name:         "Asset",
			SerialNumber: serial,
			AssetTypeID:  laptop.ID,
			CreatedAt:    time.Now().UTC().Add(time.Duration(i) * time.Second),
		}))
	}

	err := NoDependents(ctx, m.Assets(), "asset type", laptop.Name, "assets", "assetTypeId", laptop.ID)
	var blocked *Blocked
	require.ErrorAs(t, err, &blocked)
	assert.Equal(t, int64(3), blocked.Count)
	assert.Contains(t, blocked.Error(), "linked to 3 assets")

	// Dependents of a different parent do not block.
	monitor := seedAssetType(t, m, "Monitor")
	assert.NoError(t, NoDependents(ctx, m.Assets(), "asset type", monitor.Name, "assets", "assetTypeId", monitor.ID))
}

func TestNotSelf(t *testing.T) {
	self := primitive.NewObjectID()
	other := primitive.NewObjectID()

	// Targeting someone else never refuses.
	assert.NoError(t, NotSelf(self, other, true, "no"))

	// Targeting yourself is fine when nothing is stripped.
	assert.NoError(t, NotSelf(self, self, false, "no"))

	err := NotSelf(self, self, true, "you cannot delete your own account")
	var refused *Refused
	require.ErrorAs(t, err, &refused)
	assert.Equal(t, "you cannot delete your own account", refused.Error())
}
