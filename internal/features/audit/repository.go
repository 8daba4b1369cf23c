package audit

import (
	"context"
	"time"

	"go-reports/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, log *Log) error
	ListByEntity(ctx context.Context, tenantID primitive.ObjectID, entity, entityID string) ([]Log, error)
}

type RepositoryImpl struct {
	Collection *mongo.Collection
}

func NewRepository(db *database.MongodbDB) Repository {
	return &RepositoryImpl{
		Collection: db.DB.Collection("audit_logs"),
	}
}

func (r *RepositoryImpl) Create(ctx context.Context, log *Log) error {
	if log.ID.IsZero() {
		log.ID = primitive.NewObjectID()
	}
	log.At = time.Now()

	_, err := r.Collection.InsertOne(ctx, log)
	return err
}

func (r *RepositoryImpl) ListByEntity(ctx context.Context, tenantID primitive.ObjectID, entity, entityID string) ([]Log, error) {
	cursor, err := r.Collection.Find(ctx,
		bson.M{"tenant_id": tenantID, "entity": entity, "entity_id": entityID},
		options.Find().SetSort(bson.D{{Key: "at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []Log
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}
