package repository

import (
	"context"

	"docvault/internal/model"
)

// UserRepository reads the profile rows mirrored from the identity
// provider. The document subsystem never writes credentials.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}
