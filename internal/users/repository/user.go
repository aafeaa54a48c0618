package repository

import (
	"context"
	"errors"
	"fmt"

	userserrors "clinicbook/internal/users/errors"
	"clinicbook/pkg/config"
	mongodb "clinicbook/pkg/db/mongo"
	"clinicbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Directory resolves user ids to their role and booking permissions.
// User records are owned by the account service; this engine only reads them.
type Directory interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

type mongoDirectory struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoDirectory(cfg *config.Config) Directory {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoDirectory{
		cfg:        cfg,
		collection: db.Collection(mongodb.UsersCollection),
	}
}

func (d *mongoDirectory) FindByID(ctx context.Context, id string) (*model.User, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, d.cfg.ReadTimeout)
	defer cancel()

	var user model.User
	err := d.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, userserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}
