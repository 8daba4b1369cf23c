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

var ErrVersionNotFound = errors.New("version not found")

// ErrVersionConflict signals that another writer took the version number first.
var ErrVersionConflict = errors.New("version number already taken")

// VersionRepository is the append-only store of layout snapshots.
// Versions are never updated or deleted; corrections are new versions.
type VersionRepository interface {
	Create(ctx context.Context, version *Version) error
	Latest(ctx context.Context, dashboardID primitive.ObjectID) (*Version, error)
	GetByID(ctx context.Context, dashboardID, id primitive.ObjectID) (*Version, error)
	List(ctx context.Context, dashboardID primitive.ObjectID) ([]Version, error)
	EnsureIndexes(ctx context.Context) error
}

type VersionRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewVersionRepository(db *database.MongodbDB) VersionRepository {
	return &VersionRepositoryImpl{
		Collection: db.DB.Collection("dashboard_versions"),
	}
}

// EnsureIndexes creates the unique index that serializes version-number
// assignment: two concurrent writers computing the same next number cannot
// both insert.
func (r *VersionRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "dashboard_id", Value: 1},
			{Key: "version_number", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *VersionRepositoryImpl) Create(ctx context.Context, version *Version) error {
	if version.ID.IsZero() {
		version.ID = primitive.NewObjectID()
	}
	version.CreatedAt = time.Now()

	_, err := r.Collection.InsertOne(ctx, version)
	if mongo.IsDuplicateKeyError(err) {
		return ErrVersionConflict
	}
	return err
}

func (r *VersionRepositoryImpl) Latest(ctx context.Context, dashboardID primitive.ObjectID) (*Version, error) {
	var version Version
	err := r.Collection.FindOne(ctx,
		bson.M{"dashboard_id": dashboardID},
		options.FindOne().SetSort(bson.D{{Key: "version_number", Value: -1}}),
	).Decode(&version)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrVersionNotFound
		}
		return nil, err
	}
	return &version, nil
}

// GetByID only resolves versions belonging to the given dashboard;
// cross-dashboard lookups fail as not found.
func (r *VersionRepositoryImpl) GetByID(ctx context.Context, dashboardID, id primitive.ObjectID) (*Version, error) {
	var version Version
	err := r.Collection.FindOne(ctx, bson.M{"_id": id, "dashboard_id": dashboardID}).Decode(&version)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrVersionNotFound
		}
		return nil, err
	}
	return &version, nil
}

func (r *VersionRepositoryImpl) List(ctx context.Context, dashboardID primitive.ObjectID) ([]Version, error) {
	cursor, err := r.Collection.Find(ctx,
		bson.M{"dashboard_id": dashboardID},
		options.Find().SetSort(bson.D{{Key: "version_number", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var versions []Version
	if err := cursor.All(ctx, &versions); err != nil {
		return nil, err
	}
	return versions, nil
}
