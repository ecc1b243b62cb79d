package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Like is one user's like on a book. At most one per (book, user).
type Like struct {
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Username  string             `bson:"username" json:"username"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// Save is one user's save on a book. At most one per (book, user).
type Save struct {
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// Comment is append-only; there is no edit or delete.
type Comment struct {
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Username   string             `bson:"username" json:"username"`
	UserAvatar string             `bson:"userAvatar" json:"userAvatar"`
	Text       string             `bson:"text" json:"text"`
	Timestamp  time.Time          `bson:"timestamp" json:"timestamp"`
}

type Book struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title           string             `bson:"title" json:"title"`
	Author          string             `bson:"author" json:"author"`
	Description     string             `bson:"description" json:"description"`
	PublicationDate string             `bson:"publicationDate" json:"publicationDate"`
	CoverImage      string             `bson:"coverImage" json:"coverImage"` // public URL
	PDFFile         string             `bson:"pdfFile" json:"pdfFile"`       // public URL
	CoverKey        string             `bson:"coverKey" json:"-"`            // object key in storage
	PDFKey          string             `bson:"pdfKey" json:"-"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	Username        string             `bson:"username" json:"username"`
	IsPublic        bool               `bson:"isPublic" json:"isPublic"`
	Likes           []Like             `bson:"likes" json:"likes"`
	Saves           []Save             `bson:"saves" json:"saves"`
	Comments        []Comment          `bson:"comments" json:"comments"`
	Views           int64              `bson:"views" json:"views"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// LikedBy reports whether userID has a like entry on the book.
func (b *Book) LikedBy(userID primitive.ObjectID) bool {
	for _, l := range b.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}

// SavedBy reports whether userID has a save entry on the book.
func (b *Book) SavedBy(userID primitive.ObjectID) bool {
	for _, s := range b.Saves {
		if s.UserID == userID {
			return true
		}
	}
	return false
}
