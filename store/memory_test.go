package store

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"invtrack/models"
)

func newAssetType(name string) models.AssetType {
	return models.AssetType{
		ID:        primitive.NewObjectID(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

func TestMemoryInsertAndFindOne(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	laptop := newAssetType("Laptop")
	require.NoError(t, m.AssetTypes().Insert(ctx, laptop))

	got, err := m.AssetTypes().FindOne(ctx, Filter{"_id": laptop.ID})
	require.NoError(t, err)
	assert.Equal(t, "Laptop", got.Name)

	got, err = m.AssetTypes().FindOne(ctx, Filter{"name": "Laptop"})
	require.NoError(t, err)
	assert.Equal(t, laptop.ID, got.ID)

	_, err = m.AssetTypes().FindOne(ctx, Filter{"name": "Monitor"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUniqueIndexOnInsert(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.AssetTypes().Insert(ctx, newAssetType("Laptop")))
	err := m.AssetTypes().Insert(ctx, newAssetType("Laptop"))
	assert.ErrorIs(t, err, ErrDuplicate)

	n, err := m.AssetTypes().Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMemoryUniqueIndexOnUpdate(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	laptop := newAssetType("Laptop")
	monitor := newAssetType("Monitor")
	require.NoError(t, m.AssetTypes().Insert(ctx, laptop))
	require.NoError(t, m.AssetTypes().Insert(ctx, monitor))

	err := m.AssetTypes().UpdateByID(ctx, monitor.ID, Fields{"name": "Laptop"})
	assert.ErrorIs(t, err, ErrDuplicate)

	// Writing a record's own value back is not a conflict.
	require.NoError(t, m.AssetTypes().UpdateByID(ctx, monitor.ID, Fields{"name": "Monitor"}))
}

func TestMemoryUpdateByID(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	laptop := newAssetType("Laptop")
	require.NoError(t, m.AssetTypes().Insert(ctx, laptop))

	require.NoError(t, m.AssetTypes().UpdateByID(ctx, laptop.ID, Fields{"name": "Notebook"}))

	got, err := m.AssetTypes().FindOne(ctx, Filter{"_id": laptop.ID})
	require.NoError(t, err)
	assert.Equal(t, "Notebook", got.Name)

	err = m.AssetTypes().UpdateByID(ctx, primitive.NewObjectID(), Fields{"name": "Ghost"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUpdateUnknownFieldFails(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	laptop := newAssetType("Laptop")
	require.NoError(t, m.AssetTypes().Insert(ctx, laptop))

	err := m.AssetTypes().UpdateByID(ctx, laptop.ID, Fields{"nmae": "Notebook"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"nmae"`)

	// The record is untouched.
	got, err := m.AssetTypes().FindOne(ctx, Filter{"_id": laptop.ID})
	require.NoError(t, err)
	assert.Equal(t, "Laptop", got.Name)
}

func TestCompareValuesIntExtremes(t *testing.T) {
	assert.Positive(t, compareValues(math.MaxInt, -1, false))
	assert.Negative(t, compareValues(math.MinInt, 1, false))
	assert.Zero(t, compareValues(7, 7, false))
}

func TestMemoryDeleteByID(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	laptop := newAssetType("Laptop")
	require.NoError(t, m.AssetTypes().Insert(ctx, laptop))

	require.NoError(t, m.AssetTypes().DeleteByID(ctx, laptop.ID))
	_, err := m.AssetTypes().FindOne(ctx, Filter{"_id": laptop.ID})
	assert.ErrorIs(t, err, ErrNotFound)

	err = m.AssetTypes().DeleteByID(ctx, laptop.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryFindPageOrderingAndSlicing(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	for _, name := range []string{"Server", "laptop", "Desktop"} {
		require.NoError(t, m.AssetTypes().Insert(ctx, newAssetType(name)))
	}

	names := func(docs []models.AssetType) []string {
		out := make([]string, 0, len(docs))
		for _, d := range docs {
			out = append(out, d.Name)
		}
		return out
	}

	// Case-insensitive ascending: lowercase "laptop" sorts between the
	// capitalized names.
	docs, total, err := m.AssetTypes().FindPage(ctx, nil, Sort{Field: "name", Fold: true}, PageRequest{Skip: 0, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, []string{"Desktop", "laptop", "Server"}, names(docs))

	// Descending.
	docs, _, err = m.AssetTypes().FindPage(ctx, nil, Sort{Field: "name", Desc: true, Fold: true}, PageRequest{Skip: 0, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"Server", "laptop", "Desktop"}, names(docs))

	// Skip and limit slice the ordered result.
	docs, total, err = m.AssetTypes().FindPage(ctx, nil, Sort{Field: "name", Fold: true}, PageRequest{Skip: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, []string{"Server"}, names(docs))

	// Skip past the end yields nothing but the accurate total.
	docs, total, err = m.AssetTypes().FindPage(ctx, nil, Sort{Field: "name", Fold: true}, PageRequest{Skip: 10, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.Equal(t, int64(3), total)
}

func TestMemoryFindPageTiesKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	typeID := primitive.NewObjectID()
	first := models.Asset{ID: primitive.NewObjectID(), Name: "Printer", SerialNumber: "SN-1", AssetTypeID: typeID}
	second := models.Asset{ID: primitive.NewObjectID(), Name: "Printer", SerialNumber: "SN-2", AssetTypeID: typeID}
	require.NoError(t, m.Assets().Insert(ctx, first))
	require.NoError(t, m.Assets().Insert(ctx, second))

	docs, _, err := m.Assets().FindPage(ctx, nil, Sort{Field: "name", Fold: true}, PageRequest{Skip: 0, Limit: 10})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "SN-1", docs[0].SerialNumber)
	assert.Equal(t, "SN-2", docs[1].SerialNumber)
}

func TestMemoryFilterByObjectIDField(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	typeA := primitive.NewObjectID()
	typeB := primitive.NewObjectID()
	require.NoError(t, m.Assets().Insert(ctx, models.Asset{ID: primitive.NewObjectID(), Name: "A", SerialNumber: "SN-A", AssetTypeID: typeA}))
	require.NoError(t, m.Assets().Insert(ctx, models.Asset{ID: primitive.NewObjectID(), Name: "B", SerialNumber: "SN-B", AssetTypeID: typeB}))

	n, err := m.Assets().Count(ctx, Filter{"assetTypeId": typeA})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
