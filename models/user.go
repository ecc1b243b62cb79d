package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	Password     string             `bson:"password" json:"-"` // bcrypt hash
	ProfileImage string             `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	Email        string             `bson:"email,omitempty" json:"email,omitempty"`
	Bio          string             `bson:"bio,omitempty" json:"bio,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// SessionUser is the subset of a User bound to a browser session.
type SessionUser struct {
	ID           primitive.ObjectID `bson:"id" json:"id"`
	Username     string             `bson:"username" json:"username"`
	ProfileImage string             `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
}
