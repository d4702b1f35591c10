package repository

import (
	"context"

	"github.com/24SankeerthM/FUTURE-FS-02/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ChatRepository 聊天消息集合
type ChatRepository struct {
	coll *mongo.Collection
}

func NewChatRepository(db *Database) *ChatRepository {
	return &ChatRepository{coll: db.Collection(ChatsCollection)}
}

func (r *ChatRepository) Insert(ctx context.Context, msg *models.ChatMessage) error {
	if msg.ID.IsZero() {
		msg.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, msg)
	return err
}

// Recent 返回房间内最近 limit 条消息（新的在前），作者填充为 {_id, name}
func (r *ChatRepository) Recent(ctx context.Context, room string, limit int64) ([]models.ChatMessageView, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"room": room}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
	}
	return r.aggregateWithAuthor(ctx, pipeline)
}

// FindView 按ID读取单条带作者的消息
func (r *ChatRepository) FindView(ctx context.Context, id primitive.ObjectID) (*models.ChatMessageView, error) {
	views, err := r.aggregateWithAuthor(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": id}}},
	})
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return &views[0], nil
}

func (r *ChatRepository) aggregateWithAuthor(ctx context.Context, pipeline mongo.Pipeline) ([]models.ChatMessageView, error) {
	pipeline = append(pipeline, chatAuthorStages()...)

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	views := []models.ChatMessageView{}
	if err := cursor.All(ctx, &views); err != nil {
		return nil, err
	}
	return views, nil
}

// chatAuthorStages 关联作者，作者只输出 _id 和 name
func chatAuthorStages() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         UsersCollection,
			"localField":   "user",
			"foreignField": "_id",
			"as":           "user",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$user", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$project", Value: bson.M{
			"user._id":  1,
			"user.name": 1,
			"message":   1,
			"room":      1,
			"createdAt": 1,
			"updatedAt": 1,
		}}},
	}
}
