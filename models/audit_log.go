// models/audit_log.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuditLog struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Action     string             `bson:"action" json:"action"` // e.g. "asset_create", "user_delete"
	EntityType string             `bson:"entityType" json:"entityType"`
	EntityID   primitive.ObjectID `bson:"entityId,omitempty" json:"entityId,omitempty"`
	Details    map[string]any     `bson:"details,omitempty" json:"details,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

func (l AuditLog) GetID() primitive.ObjectID { return l.ID }
