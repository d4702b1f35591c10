package repository

import (
	"context"
	"time"

	"github.com/24SankeerthM/FUTURE-FS-02/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AnnouncementRepository 公告集合
type AnnouncementRepository struct {
	coll *mongo.Collection
}

func NewAnnouncementRepository(db *Database) *AnnouncementRepository {
	return &AnnouncementRepository{coll: db.Collection(AnnouncementsCollection)}
}

func (r *AnnouncementRepository) Insert(ctx context.Context, a *models.Announcement) error {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, a)
	return err
}

// ListActive 启用中的公告，新的在前
func (r *AnnouncementRepository) ListActive(ctx context.Context) ([]models.Announcement, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"active": true}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []models.Announcement{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// DeactivateExpired 停用已过期的公告，返回影响条数
func (r *AnnouncementRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.coll.UpdateMany(ctx,
		bson.M{"active": true, "expiresAt": bson.M{"$lte": now}},
		bson.M{"$set": bson.M{"active": false, "updatedAt": now}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
