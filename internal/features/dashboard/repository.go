package dashboard

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

// ErrNotFound covers both missing dashboards and dashboards owned by another
// tenant; lookups always filter on tenant_id so the two are indistinguishable.
var ErrNotFound = errors.New("dashboard not found")

type Repository interface {
	Create(ctx context.Context, dashboard *Dashboard) error
	Get(ctx context.Context, tenantID, id primitive.ObjectID) (*Dashboard, error)
	List(ctx context.Context, tenantID primitive.ObjectID) ([]Dashboard, error)
	Delete(ctx context.Context, tenantID, id primitive.ObjectID) error
	SetPublished(ctx context.Context, tenantID, id, versionID primitive.ObjectID) error
	SetPublishedVersion(ctx context.Context, tenantID, id, versionID primitive.ObjectID) error
	SetShareState(ctx context.Context, tenantID, id primitive.ObjectID, enabled bool, tokenHash string, sharedAt *time.Time) error
	// ListPublished returns published dashboards across all tenants; used only
	// by internal maintenance, never exposed through the HTTP surface.
	ListPublished(ctx context.Context) ([]Dashboard, error)
}

type RepositoryImpl struct {
	Collection *mongo.Collection
}

func NewRepository(db *database.MongodbDB) Repository {
	return &RepositoryImpl{
		Collection: db.DB.Collection("dashboards"),
	}
}

func (r *RepositoryImpl) Create(ctx context.Context, dashboard *Dashboard) error {
	if dashboard.ID.IsZero() {
		dashboard.ID = primitive.NewObjectID()
	}
	dashboard.CreatedAt = time.Now()
	dashboard.UpdatedAt = time.Now()

	_, err := r.Collection.InsertOne(ctx, dashboard)
	return err
}

func (r *RepositoryImpl) Get(ctx context.Context, tenantID, id primitive.ObjectID) (*Dashboard, error) {
	var dashboard Dashboard
	err := r.Collection.FindOne(ctx, bson.M{"_id": id, "tenant_id": tenantID}).Decode(&dashboard)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &dashboard, nil
}

func (r *RepositoryImpl) List(ctx context.Context, tenantID primitive.ObjectID) ([]Dashboard, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"tenant_id": tenantID},
		options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var dashboards []Dashboard
	if err := cursor.All(ctx, &dashboards); err != nil {
		return nil, err
	}
	return dashboards, nil
}

func (r *RepositoryImpl) ListPublished(ctx context.Context) ([]Dashboard, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"status": StatusPublished})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var dashboards []Dashboard
	if err := cursor.All(ctx, &dashboards); err != nil {
		return nil, err
	}
	return dashboards, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, tenantID, id primitive.ObjectID) error {
	result, err := r.Collection.DeleteOne(ctx, bson.M{"_id": id, "tenant_id": tenantID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RepositoryImpl) SetPublished(ctx context.Context, tenantID, id, versionID primitive.ObjectID) error {
	return r.updatePublication(ctx, tenantID, id, bson.M{
		"status":               StatusPublished,
		"published_version_id": versionID,
		"updated_at":           time.Now(),
	})
}

// SetPublishedVersion repoints the published version without touching status.
func (r *RepositoryImpl) SetPublishedVersion(ctx context.Context, tenantID, id, versionID primitive.ObjectID) error {
	return r.updatePublication(ctx, tenantID, id, bson.M{
		"published_version_id": versionID,
		"updated_at":           time.Now(),
	})
}

func (r *RepositoryImpl) updatePublication(ctx context.Context, tenantID, id primitive.ObjectID, set bson.M) error {
	result, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": id, "tenant_id": tenantID},
		bson.M{"$set": set},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetShareState mirrors the share manager's state onto the dashboard row.
func (r *RepositoryImpl) SetShareState(ctx context.Context, tenantID, id primitive.ObjectID, enabled bool, tokenHash string, sharedAt *time.Time) error {
	set := bson.M{
		"shared_enabled": enabled,
		"updated_at":     time.Now(),
	}
	unset := bson.M{}
	if enabled {
		set["shared_token_hash"] = tokenHash
		set["shared_at"] = sharedAt
	} else {
		unset["shared_token_hash"] = ""
		unset["shared_at"] = ""
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	result, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id, "tenant_id": tenantID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
