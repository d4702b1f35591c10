package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultChatRoom 默认聊天室
const DefaultChatRoom = "general"

// ChatMessage 聊天消息，只追加
type ChatMessage struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Message   string             `bson:"message" json:"message"`
	Room      string             `bson:"room" json:"room"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ChatAuthor 消息作者摘要
type ChatAuthor struct {
	ID   primitive.ObjectID `bson:"_id" json:"_id"`
	Name string             `bson:"name" json:"name"`
}

// ChatMessageView 带作者信息的消息
type ChatMessageView struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	User      *ChatAuthor        `bson:"user" json:"user"`
	Message   string             `bson:"message" json:"message"`
	Room      string             `bson:"room" json:"room"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ChatMessageRequest 发送消息
type ChatMessageRequest struct {
	Message string `json:"message"`
	Room    string `json:"room"`
}
