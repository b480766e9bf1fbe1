// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles. Admins manage users and asset types and may delete anything;
// regular users work with assets and assignments.
const (
	RoleAdmin   = "admin"
	RoleRegular = "regular"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Role         string             `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

func (u User) GetID() primitive.ObjectID { return u.ID }

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
