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

type grantRecord struct {
	ID         string            `bson:"_id"`
	DocumentID string            `bson:"document_id"`
	OwnerID    string            `bson:"owner_id"`
	Subject    string            `bson:"subject"`
	Permission model.Permission  `bson:"permission"`
	Status     model.GrantStatus `bson:"status"`
	GrantedAt  time.Time         `bson:"granted_at"`
}

func toGrantRecord(g *model.ShareGrant) *grantRecord {
	return &grantRecord{
		ID:         g.ID,
		DocumentID: g.DocumentID,
		OwnerID:    g.OwnerID,
		Subject:    g.Subject,
		Permission: g.Permission,
		Status:     g.Status,
		GrantedAt:  g.GrantedAt,
	}
}

func (r *grantRecord) toModel() *model.ShareGrant {
	return &model.ShareGrant{
		ID:         r.ID,
		DocumentID: r.DocumentID,
		OwnerID:    r.OwnerID,
		Subject:    r.Subject,
		Permission: r.Permission,
		Status:     r.Status,
		GrantedAt:  r.GrantedAt,
	}
}

// ShareMongo is a MongoDB implementation of repository.ShareGrantRepository.
type ShareMongo struct {
	col *mongo.Collection
}

func NewShareMongo(db *mongo.Database) *ShareMongo {
	return &ShareMongo{col: db.Collection(grantsCollection)}
}

var _ repository.ShareGrantRepository = (*ShareMongo)(nil)

func (r *ShareMongo) Create(ctx context.Context, g *model.ShareGrant) (*model.ShareGrant, error) {
	rec := toGrantRecord(g)
	if _, err := r.col.InsertOne(ctx, rec); err != nil {
		return nil, err
	}
	return rec.toModel(), nil
}

func (r *ShareMongo) FindByID(ctx context.Context, id string) (*model.ShareGrant, error) {
	var rec grantRecord
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return rec.toModel(), nil
}

func (r *ShareMongo) ListBySubject(ctx context.Context, subjects []string) ([]model.ShareGrant, error) {
	cleaned := make([]string, 0, len(subjects))
	for _, s := range subjects {
		if s != "" {
			cleaned = append(cleaned, s)
		}
	}
	if len(cleaned) == 0 {
		return []model.ShareGrant{}, nil
	}
	return r.find(ctx, bson.M{
		"subject": bson.M{"$in": cleaned},
		"status":  model.GrantActive,
	})
}

func (r *ShareMongo) ListActiveForDocument(ctx context.Context, documentID, subject string) ([]model.ShareGrant, error) {
	return r.find(ctx, bson.M{
		"document_id": documentID,
		"subject":     subject,
		"status":      model.GrantActive,
	})
}

func (r *ShareMongo) MarkRevoked(ctx context.Context, id string) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": model.GrantActive},
		bson.M{"$set": bson.M{"status": model.GrantRevoked}},
	)
	return matched(res, err)
}

func (r *ShareMongo) find(ctx context.Context, filter bson.M) ([]model.ShareGrant, error) {
	opts := options.Find().SetSort(bson.D{{Key: "granted_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	grants := make([]model.ShareGrant, 0)
	for cursor.Next(ctx) {
		var rec grantRecord
		if err := cursor.Decode(&rec); err != nil {
			return nil, err
		}
		grants = append(grants, *rec.toModel())
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return grants, nil
}
