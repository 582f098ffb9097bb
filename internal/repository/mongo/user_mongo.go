package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"docvault/internal/model"
	"docvault/internal/repository"
)

type userRecord struct {
	ID             string    `bson:"_id"`
	Email          string    `bson:"email"`
	IdentityNumber string    `bson:"identity_number"`
	Phone          string    `bson:"phone"`
	FullName       string    `bson:"full_name"`
	CreatedAt      time.Time `bson:"created_at"`
}

// UserMongo is a MongoDB implementation of repository.UserRepository.
type UserMongo struct {
	col *mongo.Collection
}

func NewUserMongo(db *mongo.Database) *UserMongo {
	return &UserMongo{col: db.Collection(usersCollection)}
}

var _ repository.UserRepository = (*UserMongo)(nil)

func (r *UserMongo) FindByID(ctx context.Context, id string) (*model.User, error) {
	var rec userRecord
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &model.User{
		ID:             rec.ID,
		Email:          rec.Email,
		IdentityNumber: rec.IdentityNumber,
		Phone:          rec.Phone,
		FullName:       rec.FullName,
		CreatedAt:      rec.CreatedAt,
	}, nil
}
