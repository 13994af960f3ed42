package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Like targets exactly one of video, comment or tweet. Uniqueness of
// (target, likedBy) is enforced by find-then-create in the handlers, not by
// a database index.
type Like struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"_id,omitempty"`
	Video     *primitive.ObjectID `bson:"video,omitempty" json:"video,omitempty"`
	Comment   *primitive.ObjectID `bson:"comment,omitempty" json:"comment,omitempty"`
	Tweet     *primitive.ObjectID `bson:"tweet,omitempty" json:"tweet,omitempty"`
	LikedBy   primitive.ObjectID  `bson:"likedBy" json:"likedBy"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updatedAt"`
}
