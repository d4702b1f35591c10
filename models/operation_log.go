package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OperationLog 写操作审计日志（POST/PUT/DELETE）
type OperationLog struct {
	ID           primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	RequestID    string             `json:"requestId" bson:"requestId"`
	Method       string             `json:"method" bson:"method"`
	Path         string             `json:"path" bson:"path"`
	Route        string             `json:"route" bson:"route"`
	OperatorID   string             `json:"operatorId" bson:"operatorId"`
	OperatorName string             `json:"operatorName" bson:"operatorName"`
	OperatorRole string             `json:"operatorRole" bson:"operatorRole"`
	RequestBody  interface{}        `json:"requestBody,omitempty" bson:"requestBody,omitempty"`
	StatusCode   int                `json:"statusCode" bson:"statusCode"`
	Success      bool               `json:"success" bson:"success"`
	ErrorMessage string             `json:"errorMessage,omitempty" bson:"errorMessage,omitempty"`
	OperatedAt   time.Time          `json:"operatedAt" bson:"operatedAt"`
	ResponseTime int64              `json:"responseTime" bson:"responseTime"` // 毫秒
	IPAddress    string             `json:"ipAddress" bson:"ipAddress"`
	UserAgent    string             `json:"userAgent" bson:"userAgent"`
}
