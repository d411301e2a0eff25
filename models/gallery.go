package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type GalleryItem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UploadedBy  primitive.ObjectID `bson:"uploaded_by" json:"uploaded_by"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	ImageURL    string             `bson:"image_url" json:"image_url"`
	EventID     primitive.ObjectID `bson:"event_id,omitempty" json:"event_id,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
