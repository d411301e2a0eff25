package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Feedback struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Subject   string             `bson:"subject,omitempty" json:"subject,omitempty"`
	Message   string             `bson:"message" json:"message"`
	Rating    int                `bson:"rating,omitempty" json:"rating,omitempty"` // 1-5
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
