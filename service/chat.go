package service

import (
	"context"
	"strings"
	"time"

	"github.com/24SankeerthM/FUTURE-FS-02/metrics"
	"github.com/24SankeerthM/FUTURE-FS-02/models"
	"github.com/24SankeerthM/FUTURE-FS-02/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatHistoryLimit 每次读取的消息条数上限
const ChatHistoryLimit = 50

// ChatService 团队聊天（轮询）
type ChatService struct {
	chats     ChatStore
	publisher EventPublisher
	now       func() time.Time
}

func NewChatService(chats ChatStore, publisher EventPublisher) *ChatService {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &ChatService{chats: chats, publisher: publisher, now: time.Now}
}

// ListMessages 房间内最近的消息，按时间升序
func (s *ChatService) ListMessages(ctx context.Context, room string) ([]models.ChatMessageView, error) {
	messages, err := s.chats.Recent(ctx, roomOrDefault(room), ChatHistoryLimit)
	if err != nil {
		return nil, err
	}
	// 倒序取出后翻转为升序
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// PostMessage 发送消息，返回带作者信息的消息
func (s *ChatService) PostMessage(ctx context.Context, req models.ChatMessageRequest, author primitive.ObjectID) (*models.ChatMessageView, error) {
	text := strings.TrimSpace(req.Message)
	if text == "" {
		return nil, utils.CreateBadRequestError("Invalid data")
	}

	now := s.now()
	msg := &models.ChatMessage{
		User:      author,
		Message:   text,
		Room:      roomOrDefault(req.Room),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.chats.Insert(ctx, msg); err != nil {
		return nil, err
	}

	metrics.RecordChatMessage()
	publishEvent(ctx, s.publisher, EventChatMessage, map[string]interface{}{
		"messageId": msg.ID.Hex(),
		"room":      msg.Room,
		"user":      author.Hex(),
	})

	view, err := s.chats.FindView(ctx, msg.ID)
	if err != nil {
		return nil, notFoundOr(err, "Message")
	}
	return view, nil
}

func roomOrDefault(room string) string {
	if room = strings.TrimSpace(room); room != "" {
		return room
	}
	return models.DefaultChatRoom
}
