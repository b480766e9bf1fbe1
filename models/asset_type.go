// models/asset_type.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssetType is a category of assets (Laptop, Monitor, ...). Names are unique.
type AssetType struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

func (t AssetType) GetID() primitive.ObjectID { return t.ID }
