package template

import (
	"context"
	"errors"
	"time"

	"go-reports/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("template not found")

type Repository interface {
	Create(ctx context.Context, template *Template) error
	// GetVisible resolves a template only if it is global or owned by the
	// tenant; anything else is not found.
	GetVisible(ctx context.Context, tenantID, id primitive.ObjectID) (*Template, error)
	ListVisible(ctx context.Context, tenantID primitive.ObjectID) ([]Template, error)
}

type RepositoryImpl struct {
	Collection *mongo.Collection
}

func NewRepository(db *database.MongodbDB) Repository {
	return &RepositoryImpl{
		Collection: db.DB.Collection("templates"),
	}
}

func (r *RepositoryImpl) Create(ctx context.Context, template *Template) error {
	if template.ID.IsZero() {
		template.ID = primitive.NewObjectID()
	}
	template.CreatedAt = time.Now()

	_, err := r.Collection.InsertOne(ctx, template)
	return err
}

func (r *RepositoryImpl) GetVisible(ctx context.Context, tenantID, id primitive.ObjectID) (*Template, error) {
	filter := bson.M{
		"_id": id,
		"$or": []bson.M{
			{"tenant_id": nil},
			{"tenant_id": bson.M{"$exists": false}},
			{"tenant_id": tenantID},
		},
	}

	var template Template
	err := r.Collection.FindOne(ctx, filter).Decode(&template)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &template, nil
}

// ListVisible returns global templates first, then the tenant's own, each
// group ordered by name. Missing tenant_id sorts before any ObjectID, which
// gives the global-first ordering directly.
func (r *RepositoryImpl) ListVisible(ctx context.Context, tenantID primitive.ObjectID) ([]Template, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"tenant_id": nil},
			{"tenant_id": bson.M{"$exists": false}},
			{"tenant_id": tenantID},
		},
	}

	cursor, err := r.Collection.Find(ctx, filter,
		options.Find().SetSort(bson.D{
			{Key: "tenant_id", Value: 1},
			{Key: "name", Value: 1},
		}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var templates []Template
	if err := cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}
