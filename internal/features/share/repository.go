package share

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

var ErrNotFound = errors.New("share not found")

type Repository interface {
	// ReplaceActive revokes any ACTIVE share of the dashboard and inserts the
	// new one as a single atomic unit.
	ReplaceActive(ctx context.Context, newShare *PublicShare) error
	RevokeActive(ctx context.Context, tenantID, dashboardID primitive.ObjectID) (int64, error)
	FindActiveByDashboard(ctx context.Context, tenantID, dashboardID primitive.ObjectID) (*PublicShare, error)
	FindActiveByTokenHash(ctx context.Context, tokenHash string) (*PublicShare, error)
	ListByDashboard(ctx context.Context, tenantID, dashboardID primitive.ObjectID) ([]PublicShare, error)
	// PurgeRevokedBefore deletes REVOKED shares whose revocation predates the
	// cutoff; driven by the maintenance scheduler.
	PurgeRevokedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type RepositoryImpl struct {
	Client     *mongo.Client
	Collection *mongo.Collection
}

func NewRepository(db *database.MongodbDB) Repository {
	return &RepositoryImpl{
		Client:     db.Client,
		Collection: db.DB.Collection("public_shares"),
	}
}

// EnsureIndexes backs the "at most one ACTIVE share per dashboard" invariant
// with a partial unique index, so even outside the rotation transaction two
// ACTIVE rows cannot coexist.
func (r *RepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "dashboard_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": StatusActive}),
		},
		{
			Keys: bson.D{{Key: "token_hash", Value: 1}},
		},
	})
	return err
}

func (r *RepositoryImpl) ReplaceActive(ctx context.Context, newShare *PublicShare) error {
	if newShare.ID.IsZero() {
		newShare.ID = primitive.NewObjectID()
	}
	newShare.Status = StatusActive
	newShare.CreatedAt = time.Now()

	session, err := r.Client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		now := time.Now()
		_, err := r.Collection.UpdateMany(sc,
			bson.M{"dashboard_id": newShare.DashboardID, "status": StatusActive},
			bson.M{"$set": bson.M{"status": StatusRevoked, "revoked_at": now}},
		)
		if err != nil {
			return nil, err
		}
		return r.Collection.InsertOne(sc, newShare)
	})
	return err
}

func (r *RepositoryImpl) RevokeActive(ctx context.Context, tenantID, dashboardID primitive.ObjectID) (int64, error) {
	now := time.Now()
	result, err := r.Collection.UpdateMany(ctx,
		bson.M{"tenant_id": tenantID, "dashboard_id": dashboardID, "status": StatusActive},
		bson.M{"$set": bson.M{"status": StatusRevoked, "revoked_at": now}},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (r *RepositoryImpl) FindActiveByDashboard(ctx context.Context, tenantID, dashboardID primitive.ObjectID) (*PublicShare, error) {
	var share PublicShare
	err := r.Collection.FindOne(ctx,
		bson.M{"tenant_id": tenantID, "dashboard_id": dashboardID, "status": StatusActive},
	).Decode(&share)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &share, nil
}

// FindActiveByTokenHash is the public-reader lookup; it is token-scoped, not
// tenant-scoped, because the anonymous caller has no tenant.
func (r *RepositoryImpl) FindActiveByTokenHash(ctx context.Context, tokenHash string) (*PublicShare, error) {
	var share PublicShare
	err := r.Collection.FindOne(ctx,
		bson.M{"token_hash": tokenHash, "status": StatusActive},
	).Decode(&share)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &share, nil
}

func (r *RepositoryImpl) PurgeRevokedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.Collection.DeleteMany(ctx, bson.M{
		"status":     StatusRevoked,
		"revoked_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (r *RepositoryImpl) ListByDashboard(ctx context.Context, tenantID, dashboardID primitive.ObjectID) ([]PublicShare, error) {
	cursor, err := r.Collection.Find(ctx,
		bson.M{"tenant_id": tenantID, "dashboard_id": dashboardID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var shares []PublicShare
	if err := cursor.All(ctx, &shares); err != nil {
		return nil, err
	}
	return shares, nil
}
