package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"invtrack/models"
)

// Collection names.
const (
	ColAssetTypes  = "asset_types"
	ColAssets      = "assets"
	ColUsers       = "users"
	ColAssignments = "assignments"
	ColAuditLogs   = "audit_logs"
)

// Mongo is the production Store backed by a Mongo database.
type Mongo struct {
	db *mongo.Database
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{db: db}
}

func (m *Mongo) AssetTypes() Collection[models.AssetType] {
	return mongoCollection[models.AssetType]{m.db.Collection(ColAssetTypes)}
}

func (m *Mongo) Assets() Collection[models.Asset] {
	return mongoCollection[models.Asset]{m.db.Collection(ColAssets)}
}

func (m *Mongo) Users() Collection[models.User] {
	return mongoCollection[models.User]{m.db.Collection(ColUsers)}
}

func (m *Mongo) Assignments() Collection[models.Assignment] {
	return mongoCollection[models.Assignment]{m.db.Collection(ColAssignments)}
}

func (m *Mongo) AuditLogs() Collection[models.AuditLog] {
	return mongoCollection[models.AuditLog]{m.db.Collection(ColAuditLogs)}
}

func (m *Mongo) Ping(ctx context.Context) error {
	return m.db.Client().Ping(ctx, nil)
}

type mongoCollection[T Entity] struct {
	col *mongo.Collection
}

func (c mongoCollection[T]) Insert(ctx context.Context, doc T) error {
	_, err := c.col.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (c mongoCollection[T]) FindOne(ctx context.Context, filter Filter) (T, error) {
	var doc T
	err := c.col.FindOne(ctx, toBSON(filter)).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return doc, ErrNotFound
	}
	return doc, err
}

func (c mongoCollection[T]) Count(ctx context.Context, filter Filter) (int64, error) {
	return c.col.CountDocuments(ctx, toBSON(filter))
}

func (c mongoCollection[T]) FindPage(ctx context.Context, filter Filter, sort Sort, page PageRequest) ([]T, int64, error) {
	match := toBSON(filter)

	total, err := c.col.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, err
	}

	order := 1
	if sort.Desc {
		order = -1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: sort.Field, Value: order}}).
		SetSkip(page.Skip).
		SetLimit(page.Limit)
	if sort.Fold {
		// Strength 2 compares base characters and accents but not case.
		opts.SetCollation(&options.Collation{Locale: "en", Strength: 2})
	}

	cursor, err := c.col.Find(ctx, match, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var items []T
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (c mongoCollection[T]) UpdateByID(ctx context.Context, id primitive.ObjectID, fields Fields) error {
	res, err := c.col.UpdateByID(ctx, id, bson.M{"$set": bson.M(fields)})
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c mongoCollection[T]) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	res, err := c.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func toBSON(f Filter) bson.M {
	m := bson.M{}
	for k, v := range f {
		m[k] = v
	}
	return m
}
