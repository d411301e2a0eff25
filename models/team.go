package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TeamMember is embedded on the team document; members need not have an
// account, so the user reference is optional.
type TeamMember struct {
	UserID   primitive.ObjectID `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Name     string             `bson:"name" json:"name"`
	Position string             `bson:"position" json:"position"`
	PhotoURL string             `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
}

type Team struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Members     []TeamMember       `bson:"members" json:"members"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
