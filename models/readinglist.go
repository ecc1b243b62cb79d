package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReadingListEntry is a denormalized copy of a book's display fields owned
// by the saving user. BookID is nil for legacy entries keyed only by title;
// uniqueness is (user, bookId) when BookID is set, (user, title) otherwise.
type ReadingListEntry struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID  `bson:"userId" json:"userId"`
	BookID      *primitive.ObjectID `bson:"bookId,omitempty" json:"bookId,omitempty"`
	Title       string              `bson:"title" json:"title"`
	Author      string              `bson:"author,omitempty" json:"author,omitempty"`
	CoverImage  string              `bson:"coverImage,omitempty" json:"coverImage,omitempty"`
	PublishDate string              `bson:"publishDate,omitempty" json:"publishDate,omitempty"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	PDFLink     string              `bson:"pdfLink,omitempty" json:"pdfLink,omitempty"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
}
