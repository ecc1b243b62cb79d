package store

import (
	"context"

	"github.com/shelfshare/shelfshare/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) ReadingList(ctx context.Context, userID primitive.ObjectID) ([]models.ReadingListEntry, error) {
	cur, err := db.ReadList().Find(ctx, bson.M{"userId": userID}, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var entries []models.ReadingListEntry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// UpsertReadingListEntry inserts the entry unless one already exists for
// the same user and book (by bookId when set, by title for legacy entries
// without one). The upsert keeps the (user, book) uniqueness invariant at
// the access layer instead of by convention.
func (db *DB) UpsertReadingListEntry(ctx context.Context, entry *models.ReadingListEntry) error {
	filter := bson.M{"userId": entry.UserID}
	if entry.BookID != nil {
		filter["bookId"] = *entry.BookID
	} else {
		filter["title"] = entry.Title
	}
	update := bson.M{"$setOnInsert": entry}
	_, err := db.ReadList().UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// DeleteReadingListEntryByBook removes the user's entry for a book id.
// A missing row is not an error; the projection may lag the saves array.
func (db *DB) DeleteReadingListEntryByBook(ctx context.Context, userID, bookID primitive.ObjectID) error {
	_, err := db.ReadList().DeleteMany(ctx, bson.M{"userId": userID, "bookId": bookID})
	return err
}

// DeleteReadingListEntriesForBook removes every user's entry for a book.
// Used when the owner deletes the book itself.
func (db *DB) DeleteReadingListEntriesForBook(ctx context.Context, bookID primitive.ObjectID) error {
	_, err := db.ReadList().DeleteMany(ctx, bson.M{"bookId": bookID})
	return err
}

// DeleteReadingListEntryByTitle is the legacy removal path.
func (db *DB) DeleteReadingListEntryByTitle(ctx context.Context, userID primitive.ObjectID, title string) error {
	_, err := db.ReadList().DeleteMany(ctx, bson.M{"userId": userID, "title": title})
	return err
}
