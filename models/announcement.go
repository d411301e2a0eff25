package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Announcement struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedBy primitive.ObjectID `bson:"created_by" json:"created_by"`
	Title     string             `bson:"title" json:"title"`
	Body      string             `bson:"body" json:"body"`
	Priority  string             `bson:"priority,omitempty" json:"priority,omitempty"` // low, normal, high
	Active    bool               `bson:"active" json:"active"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
