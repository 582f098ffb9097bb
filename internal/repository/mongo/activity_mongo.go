package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"docvault/internal/model"
	"docvault/internal/repository"
)

const defaultActivityLimit = 50

type activityRecord struct {
	ID         string       `bson:"_id"`
	SubjectID  string       `bson:"subject_id"`
	Action     model.Action `bson:"action"`
	Detail     string       `bson:"detail"`
	DocumentID string       `bson:"document_id,omitempty"`
	SessionID  string       `bson:"session_id,omitempty"`
	OriginAddr string       `bson:"origin_addr,omitempty"`
	Timestamp  time.Time    `bson:"ts"`
}

// ActivityMongo is a MongoDB implementation of
// repository.ActivityLogRepository. Append-only: no update or delete paths.
type ActivityMongo struct {
	col *mongo.Collection
}

func NewActivityMongo(db *mongo.Database) *ActivityMongo {
	return &ActivityMongo{col: db.Collection(activityCollection)}
}

var _ repository.ActivityLogRepository = (*ActivityMongo)(nil)

func (r *ActivityMongo) Append(ctx context.Context, e *model.ActivityLogEntry) error {
	_, err := r.col.InsertOne(ctx, activityRecord{
		ID:         e.ID,
		SubjectID:  e.SubjectID,
		Action:     e.Action,
		Detail:     e.Detail,
		DocumentID: e.DocumentID,
		SessionID:  e.SessionID,
		OriginAddr: e.OriginAddr,
		Timestamp:  e.Timestamp,
	})
	return err
}

func (r *ActivityMongo) ListBySubject(ctx context.Context, subjectID string, limit int) ([]model.ActivityLogEntry, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "ts", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.col.Find(ctx, bson.M{"subject_id": subjectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := make([]model.ActivityLogEntry, 0)
	for cursor.Next(ctx) {
		var rec activityRecord
		if err := cursor.Decode(&rec); err != nil {
			return nil, err
		}
		entries = append(entries, model.ActivityLogEntry{
			ID:         rec.ID,
			SubjectID:  rec.SubjectID,
			Action:     rec.Action,
			Detail:     rec.Detail,
			DocumentID: rec.DocumentID,
			SessionID:  rec.SessionID,
			OriginAddr: rec.OriginAddr,
			Timestamp:  rec.Timestamp,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
