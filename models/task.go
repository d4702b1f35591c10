package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultTaskType 未指定类型时的默认值
const DefaultTaskType = "other"

// Task 日程任务，只属于创建者
type Task struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Owner     primitive.ObjectID `bson:"user" json:"user"`
	Title     string             `bson:"title" json:"title"`
	Date      time.Time          `bson:"date" json:"date"`
	Type      string             `bson:"type" json:"type"`
	Completed bool               `bson:"completed" json:"completed"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CreateTaskRequest 创建任务，日期支持 YYYY-MM-DD 或 RFC3339
type CreateTaskRequest struct {
	Title string `json:"title" validate:"required"`
	Date  string `json:"date" validate:"required"`
	Type  string `json:"type"`
}

// UpdateTaskRequest 更新任务，nil 字段表示不修改
type UpdateTaskRequest struct {
	Title     *string `json:"title"`
	Date      *string `json:"date"`
	Type      *string `json:"type"`
	Completed *bool   `json:"completed"`
}
