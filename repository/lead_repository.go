package repository

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/24SankeerthM/FUTURE-FS-02/models"
	"github.com/24SankeerthM/FUTURE-FS-02/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LeadRepository 线索集合
type LeadRepository struct {
	coll *mongo.Collection
}

// NewLeadRepository 创建线索仓储
func NewLeadRepository(db *Database) *LeadRepository {
	return &LeadRepository{coll: db.Collection(LeadsCollection)}
}

// Insert 插入线索并回填ID
func (r *LeadRepository) Insert(ctx context.Context, lead *models.Lead) error {
	if lead.ID.IsZero() {
		lead.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, lead)
	return err
}

// InsertMany 批量插入，任一失败即返回错误
func (r *LeadRepository) InsertMany(ctx context.Context, leads []*models.Lead) error {
	docs := make([]interface{}, len(leads))
	for i, lead := range leads {
		if lead.ID.IsZero() {
			lead.ID = primitive.NewObjectID()
		}
		docs[i] = lead
	}
	_, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	return err
}

// FindByID 按ID查找，不存在时返回 mongo.ErrNoDocuments
func (r *LeadRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Lead, error) {
	var lead models.Lead
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

// List 查询线索，按创建时间倒序
func (r *LeadRepository) List(ctx context.Context, search string) ([]models.Lead, error) {
	filter := BuildLeadSearchFilter(search)
	utils.LogDbOperation("find", LeadsCollection, filter)

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	leads := []models.Lead{}
	if err := cursor.All(ctx, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

// Replace 整文档覆盖写（后写覆盖先写）
func (r *LeadRepository) Replace(ctx context.Context, lead *models.Lead) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": lead.ID}, lead)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete 删除线索
func (r *LeadRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// CountTotal 线索总数
func (r *LeadRepository) CountTotal(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

// CountByStatus 按状态分组计数
func (r *LeadRepository) CountByStatus(ctx context.Context) ([]models.GroupCount, error) {
	return r.groupCount(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	})
}

// CountBySource 按来源分组计数
func (r *LeadRepository) CountBySource(ctx context.Context) ([]models.GroupCount, error) {
	return r.groupCount(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$source", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	})
}

// CountByMonthSince 统计 since 之后每月新增，键为 YYYY-MM，升序
func (r *LeadRepository) CountByMonthSince(ctx context.Context, since time.Time) ([]models.GroupCount, error) {
	return r.groupCount(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$dateToString": bson.M{"format": "%Y-%m", "date": "$createdAt"}},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	})
}

// groupCount 执行分组聚合
func (r *LeadRepository) groupCount(ctx context.Context, pipeline mongo.Pipeline) ([]models.GroupCount, error) {
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := []models.GroupCount{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// BuildLeadSearchFilter 构造线索模糊搜索条件（姓名、邮箱、电话，忽略大小写）
func BuildLeadSearchFilter(search string) bson.M {
	search = strings.TrimSpace(search)
	if search == "" {
		return bson.M{}
	}

	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
	return bson.M{"$or": bson.A{
		bson.M{"name": pattern},
		bson.M{"email": pattern},
		bson.M{"phone": pattern},
		bson.M{"phoneE164": pattern},
	}}
}
