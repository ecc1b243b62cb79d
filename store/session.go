package store

import (
	"context"
	"time"

	"github.com/shelfshare/shelfshare/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (db *DB) PutSession(ctx context.Context, session *models.Session) error {
	_, err := db.Sessions().InsertOne(ctx, session)
	return err
}

// SessionByID returns (nil, nil) when no session matches.
func (db *DB) SessionByID(ctx context.Context, id string) (*models.Session, error) {
	var s models.Session
	err := db.Sessions().FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (db *DB) DeleteSession(ctx context.Context, id string) error {
	_, err := db.Sessions().DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// DeleteExpiredSessions sweeps records past their absolute lifetime.
func (db *DB) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := db.Sessions().DeleteMany(ctx, bson.M{"expiresAt": bson.M{"$lt": now}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
