package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AnnouncementType 公告类型
type AnnouncementType string

const (
	AnnouncementInfo    AnnouncementType = "info"
	AnnouncementWarning AnnouncementType = "warning"
	AnnouncementSuccess AnnouncementType = "success"
)

// Valid 类型是否合法
func (t AnnouncementType) Valid() bool {
	switch t {
	case AnnouncementInfo, AnnouncementWarning, AnnouncementSuccess:
		return true
	}
	return false
}

// Announcement 团队公告
type Announcement struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Title     string             `bson:"title" json:"title"`
	Message   string             `bson:"message" json:"message"`
	Type      AnnouncementType   `bson:"type" json:"type"`
	Active    bool               `bson:"active" json:"active"`
	CreatedBy primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	ExpiresAt *time.Time         `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CreateAnnouncementRequest 创建公告
type CreateAnnouncementRequest struct {
	Title     string           `json:"title" validate:"required"`
	Message   string           `json:"message" validate:"required"`
	Type      AnnouncementType `json:"type"`
	ExpiresAt *time.Time       `json:"expiresAt"`
}
