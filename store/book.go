package store

import (
	"context"

	"github.com/shelfshare/shelfshare/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) InsertBook(ctx context.Context, book *models.Book) (primitive.ObjectID, error) {
	res, err := db.Books().InsertOne(ctx, book, options.InsertOne())
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// BookByID returns (nil, nil) when no book matches.
func (db *DB) BookByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	var book models.Book
	err := db.Books().FindOne(ctx, bson.M{"_id": id}).Decode(&book)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// PublicBooks returns publicly visible books, newest first.
func (db *DB) PublicBooks(ctx context.Context, limit int64) ([]models.Book, error) {
	opts := options.Find().SetSort(bson.M{"publicationDate": -1})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := db.Books().Find(ctx, bson.M{"isPublic": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var books []models.Book
	if err := cur.All(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (db *DB) BooksByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Book, error) {
	cur, err := db.Books().Find(ctx, bson.M{"userId": ownerID}, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var books []models.Book
	if err := cur.All(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (db *DB) BooksByOwnerCount(ctx context.Context, ownerID primitive.ObjectID) (int64, error) {
	return db.Books().CountDocuments(ctx, bson.M{"userId": ownerID})
}

// DeleteBookByID removes an owner's book by id and returns the deleted
// document so the caller can clean up its storage objects. Returns
// (nil, nil) when nothing matched.
func (db *DB) DeleteBookByID(ctx context.Context, ownerID, id primitive.ObjectID) (*models.Book, error) {
	var book models.Book
	err := db.Books().FindOneAndDelete(ctx, bson.M{"_id": id, "userId": ownerID}).Decode(&book)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// DeleteBookByTitle is the legacy removal path for rows addressed by title.
func (db *DB) DeleteBookByTitle(ctx context.Context, ownerID primitive.ObjectID, title string) (*models.Book, error) {
	var book models.Book
	err := db.Books().FindOneAndDelete(ctx, bson.M{"title": title, "userId": ownerID}).Decode(&book)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (db *DB) IncrementBookViews(ctx context.Context, id primitive.ObjectID) error {
	_, err := db.Books().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}})
	return err
}

// PushLikeIfAbsent appends a like entry unless the user already has one.
// The filter makes the duplicate guard part of a single atomic update, so
// concurrent toggles by different users cannot lose each other's writes.
// Returns false when the book either has the like already or does not
// exist; the caller disambiguates.
func (db *DB) PushLikeIfAbsent(ctx context.Context, bookID primitive.ObjectID, like models.Like) (bool, error) {
	res, err := db.Books().UpdateOne(ctx,
		bson.M{"_id": bookID, "likes.userId": bson.M{"$ne": like.UserID}},
		bson.M{"$push": bson.M{"likes": like}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// PullLike removes the user's like entry. The bool reports whether an
// entry was removed; mongo.ErrNoDocuments means the book does not exist.
func (db *DB) PullLike(ctx context.Context, bookID, userID primitive.ObjectID) (bool, error) {
	res, err := db.Books().UpdateOne(ctx,
		bson.M{"_id": bookID},
		bson.M{"$pull": bson.M{"likes": bson.M{"userId": userID}}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, mongo.ErrNoDocuments
	}
	return res.ModifiedCount == 1, nil
}

func (db *DB) PushSaveIfAbsent(ctx context.Context, bookID primitive.ObjectID, save models.Save) (bool, error) {
	res, err := db.Books().UpdateOne(ctx,
		bson.M{"_id": bookID, "saves.userId": bson.M{"$ne": save.UserID}},
		bson.M{"$push": bson.M{"saves": save}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (db *DB) PullSave(ctx context.Context, bookID, userID primitive.ObjectID) (bool, error) {
	res, err := db.Books().UpdateOne(ctx,
		bson.M{"_id": bookID},
		bson.M{"$pull": bson.M{"saves": bson.M{"userId": userID}}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, mongo.ErrNoDocuments
	}
	return res.ModifiedCount == 1, nil
}

// PushComment appends; comments have no uniqueness guard.
func (db *DB) PushComment(ctx context.Context, bookID primitive.ObjectID, comment models.Comment) error {
	res, err := db.Books().UpdateOne(ctx,
		bson.M{"_id": bookID},
		bson.M{"$push": bson.M{"comments": comment}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// LikesCount reads the current cardinality of the likes array.
func (db *DB) LikesCount(ctx context.Context, bookID primitive.ObjectID) (int, error) {
	var doc struct {
		Likes []models.Like `bson:"likes"`
	}
	err := db.Books().FindOne(ctx, bson.M{"_id": bookID},
		options.FindOne().SetProjection(bson.M{"likes": 1})).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return len(doc.Likes), nil
}
