// models/assignment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Assignment links an Asset to the User holding it. Both references must
// exist when the assignment is written.
type Assignment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AssetID    primitive.ObjectID `bson:"assetId" json:"assetId"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	AssignedAt time.Time          `bson:"assignedAt" json:"assignedAt"`
}

func (a Assignment) GetID() primitive.ObjectID { return a.ID }
