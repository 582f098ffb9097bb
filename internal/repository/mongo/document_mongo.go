// Package mongo implements the repository interfaces on the official
// MongoDB driver. The hosted document database the system was designed
// against maps onto Mongo collections one-to-one: flat records keyed by id,
// queried by owner and subject fields.
package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"docvault/internal/model"
	"docvault/internal/repository"
)

const (
	documentsCollection = "documents"
	grantsCollection    = "shareGrants"
	activityCollection  = "activityLogs"
	usersCollection     = "users"
)

// documentRecord is the persisted shape of model.Document. Kept separate so
// bson tags never leak into the domain model.
type documentRecord struct {
	ID             string         `bson:"_id"`
	OwnerID        string         `bson:"owner_id"`
	FileName       string         `bson:"file_name"`
	ContentType    string         `bson:"content_type"`
	Size           int64          `bson:"size"`
	RetrievalURL   string         `bson:"retrieval_url"`
	StoragePath    string         `bson:"storage_path"`
	Category       model.Category `bson:"category"`
	Description    string         `bson:"description"`
	Status         model.Status   `bson:"status"`
	SharedWith     []string       `bson:"shared_with"`
	DownloadCount  int64          `bson:"download_count"`
	CreatedAt      time.Time      `bson:"created_at"`
	UpdatedAt      time.Time      `bson:"updated_at"`
	LastAccessedAt time.Time      `bson:"last_accessed_at"`
}

func toDocumentRecord(d *model.Document) *documentRecord {
	shared := d.SharedWith
	if shared == nil {
		shared = []string{}
	}
	return &documentRecord{
		ID:             d.ID,
		OwnerID:        d.OwnerID,
		FileName:       d.FileName,
		ContentType:    d.ContentType,
		Size:           d.Size,
		RetrievalURL:   d.RetrievalURL,
		StoragePath:    d.StoragePath,
		Category:       d.Category,
		Description:    d.Description,
		Status:         d.Status,
		SharedWith:     shared,
		DownloadCount:  d.DownloadCount,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
		LastAccessedAt: d.LastAccessedAt,
	}
}

func (r *documentRecord) toModel() *model.Document {
	return &model.Document{
		ID:             r.ID,
		OwnerID:        r.OwnerID,
		FileName:       r.FileName,
		ContentType:    r.ContentType,
		Size:           r.Size,
		RetrievalURL:   r.RetrievalURL,
		StoragePath:    r.StoragePath,
		Category:       r.Category,
		Description:    r.Description,
		Status:         r.Status,
		SharedWith:     r.SharedWith,
		DownloadCount:  r.DownloadCount,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		LastAccessedAt: r.LastAccessedAt,
	}
}

// DocumentMongo is a MongoDB implementation of
// repository.DocumentRepository.
type DocumentMongo struct {
	col *mongo.Collection
}

func NewDocumentMongo(db *mongo.Database) *DocumentMongo {
	return &DocumentMongo{col: db.Collection(documentsCollection)}
}

var _ repository.DocumentRepository = (*DocumentMongo)(nil)

func activeByID(id string) bson.M {
	return bson.M{"_id": id, "status": model.StatusActive}
}

func (r *DocumentMongo) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	rec := toDocumentRecord(doc)
	if _, err := r.col.InsertOne(ctx, rec); err != nil {
		return nil, err
	}
	return rec.toModel(), nil
}

func (r *DocumentMongo) FindByID(ctx context.Context, id string) (*model.Document, error) {
	var rec documentRecord
	err := r.col.FindOne(ctx, activeByID(id)).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return rec.toModel(), nil
}

func (r *DocumentMongo) ListByOwner(ctx context.Context, ownerID string, f repository.DocumentFilter) ([]model.Document, error) {
	filter := bson.M{"owner_id": ownerID, "status": model.StatusActive}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := make([]model.Document, 0)
	for cursor.Next(ctx) {
		var rec documentRecord
		if err := cursor.Decode(&rec); err != nil {
			return nil, err
		}
		docs = append(docs, *rec.toModel())
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *DocumentMongo) UpdateMeta(ctx context.Context, id string, category model.Category, description string, updatedAt time.Time) error {
	res, err := r.col.UpdateOne(ctx, activeByID(id), bson.M{"$set": bson.M{
		"category":    category,
		"description": description,
		"updated_at":  updatedAt,
	}})
	return matched(res, err)
}

func (r *DocumentMongo) MarkDeleted(ctx context.Context, id string, at time.Time) error {
	res, err := r.col.UpdateOne(ctx, activeByID(id), bson.M{"$set": bson.M{
		"status":     model.StatusDeleted,
		"updated_at": at,
	}})
	return matched(res, err)
}

func (r *DocumentMongo) AddSharedSubject(ctx context.Context, id, subject string) error {
	res, err := r.col.UpdateOne(ctx, activeByID(id), bson.M{"$addToSet": bson.M{"shared_with": subject}})
	return matched(res, err)
}

func (r *DocumentMongo) RemoveSharedSubject(ctx context.Context, id, subject string) error {
	res, err := r.col.UpdateOne(ctx, activeByID(id), bson.M{"$pull": bson.M{"shared_with": subject}})
	return matched(res, err)
}

func (r *DocumentMongo) IncrementDownload(ctx context.Context, id string, at time.Time) error {
	res, err := r.col.UpdateOne(ctx, activeByID(id), bson.M{
		"$inc": bson.M{"download_count": 1},
		"$set": bson.M{"last_accessed_at": at},
	})
	return matched(res, err)
}

func (r *DocumentMongo) TouchAccessed(ctx context.Context, id string, at time.Time) error {
	res, err := r.col.UpdateOne(ctx, activeByID(id), bson.M{"$set": bson.M{"last_accessed_at": at}})
	return matched(res, err)
}

func matched(res *mongo.UpdateResult, err error) error {
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
