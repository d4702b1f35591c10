package service

import (
	"context"
	"time"

	"github.com/24SankeerthM/FUTURE-FS-02/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 各服务依赖的持久化接口，由 repository 包中的 Mongo 仓储实现。
// 查找不存在的记录时返回 mongo.ErrNoDocuments。

type LeadStore interface {
	Insert(ctx context.Context, lead *models.Lead) error
	InsertMany(ctx context.Context, leads []*models.Lead) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Lead, error)
	List(ctx context.Context, search string) ([]models.Lead, error)
	Replace(ctx context.Context, lead *models.Lead) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountTotal(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) ([]models.GroupCount, error)
	CountBySource(ctx context.Context) ([]models.GroupCount, error)
	CountByMonthSince(ctx context.Context, since time.Time) ([]models.GroupCount, error)
}

type UserStore interface {
	Insert(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindFirstAdmin(ctx context.Context) (*models.User, error)
	FindFirst(ctx context.Context) (*models.User, error)
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context) ([]models.User, error)
	Replace(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type TaskStore interface {
	Insert(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
	ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Task, error)
	Replace(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ChatStore interface {
	Insert(ctx context.Context, msg *models.ChatMessage) error
	Recent(ctx context.Context, room string, limit int64) ([]models.ChatMessageView, error)
	FindView(ctx context.Context, id primitive.ObjectID) (*models.ChatMessageView, error)
}

type AnnouncementStore interface {
	Insert(ctx context.Context, a *models.Announcement) error
	ListActive(ctx context.Context) ([]models.Announcement, error)
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

// TokenRevoker 注销token（Redis黑名单），未配置Redis时为nil
type TokenRevoker interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
}
