// models/asset.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Asset is an individual tracked item. Serial numbers are unique and every
// asset references an existing AssetType.
type Asset struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	SerialNumber string             `bson:"serialNumber" json:"serialNumber"`
	AssetTypeID  primitive.ObjectID `bson:"assetTypeId" json:"assetTypeId"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (a Asset) GetID() primitive.ObjectID { return a.ID }
