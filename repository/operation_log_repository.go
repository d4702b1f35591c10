package repository

import (
	"context"

	"github.com/24SankeerthM/FUTURE-FS-02/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// OperationLogRepository API操作日志集合
type OperationLogRepository struct {
	coll *mongo.Collection
}

func NewOperationLogRepository(db *Database) *OperationLogRepository {
	return &OperationLogRepository{coll: db.Collection(ApiOperationLogsCollection)}
}

// Insert 写入一条操作日志
func (r *OperationLogRepository) Insert(ctx context.Context, log *models.OperationLog) error {
	_, err := r.coll.InsertOne(ctx, log)
	return err
}
