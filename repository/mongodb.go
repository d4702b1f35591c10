package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/24SankeerthM/FUTURE-FS-02/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	// 集合名
	UsersCollection            = "users"
	LeadsCollection            = "leads"
	TasksCollection            = "tasks"
	ChatsCollection            = "chats"
	AnnouncementsCollection    = "announcements"
	ApiOperationLogsCollection = "apiOperationLogs"
)

var allCollections = []string{
	UsersCollection,
	LeadsCollection,
	TasksCollection,
	ChatsCollection,
	AnnouncementsCollection,
	ApiOperationLogsCollection,
}

// Database MongoDB连接句柄，在进程启动时创建并注入各仓储
type Database struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect 初始化MongoDB连接
func Connect(ctx context.Context, uri, dbName string) (*Database, error) {
	// 设置连接超时
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("连接MongoDB失败: %w", err)
	}

	// 检查连接
	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping MongoDB失败: %w", err)
	}

	utils.Logger.Info().Str("database", dbName).Msg("已连接到MongoDB")
	return &Database{client: client, db: client.Database(dbName)}, nil
}

// Close 关闭MongoDB连接
func (d *Database) Close(ctx context.Context) {
	if d == nil || d.client == nil {
		return
	}
	if err := d.client.Disconnect(ctx); err != nil {
		utils.Logger.Error().Err(err).Msg("断开MongoDB连接失败")
		return
	}
	utils.Logger.Info().Msg("已断开MongoDB连接")
}

// Ping 检查主节点是否可达
func (d *Database) Ping(ctx context.Context) error {
	return d.client.Ping(ctx, readpref.Primary())
}

// Collection 返回指定名称的集合
func (d *Database) Collection(name string) *mongo.Collection {
	return d.db.Collection(name)
}

// InitializeCollections 初始化数据库集合与索引
func (d *Database) InitializeCollections(ctx context.Context) error {
	existing, err := d.db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("检查集合失败: %w", err)
	}
	exists := make(map[string]bool, len(existing))
	for _, name := range existing {
		exists[name] = true
	}

	for _, collName := range allCollections {
		if exists[collName] {
			utils.Logger.Debug().Str("collection", collName).Msg("集合已存在")
			continue
		}
		if err := d.db.CreateCollection(ctx, collName); err != nil {
			return fmt.Errorf("创建集合失败: %w", err)
		}
		utils.Logger.Info().Str("collection", collName).Msg("创建集合成功")
	}

	return d.ensureIndexes(ctx)
}

// ensureIndexes 创建查询所需索引，邮箱唯一
func (d *Database) ensureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		LeadsCollection: {
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		TasksCollection: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "date", Value: 1}}},
		},
		ChatsCollection: {
			{Keys: bson.D{{Key: "room", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		AnnouncementsCollection: {
			{Keys: bson.D{{Key: "active", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}

	for collName, models := range indexes {
		if _, err := d.db.Collection(collName).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("创建索引失败(%s): %w", collName, err)
		}
	}
	return nil
}

// GetDatabaseStatus 获取各集合文档数量
func (d *Database) GetDatabaseStatus(ctx context.Context) map[string]interface{} {
	result := make(map[string]interface{}, len(allCollections))

	for _, collName := range allCollections {
		count, err := d.db.Collection(collName).CountDocuments(ctx, bson.M{})
		if err != nil {
			utils.Logger.Error().Err(err).Str("collection", collName).Msg("获取集合计数失败")
			result[collName] = map[string]interface{}{
				"count": 0,
				"error": err.Error(),
			}
			continue
		}
		result[collName] = map[string]interface{}{"count": count}
	}

	return result
}
