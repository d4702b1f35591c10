package service

import (
	"context"
	"time"

	"github.com/24SankeerthM/FUTURE-FS-02/models"
	"github.com/24SankeerthM/FUTURE-FS-02/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AnnouncementService 团队公告
type AnnouncementService struct {
	announcements AnnouncementStore
	now           func() time.Time
}

func NewAnnouncementService(announcements AnnouncementStore) *AnnouncementService {
	return &AnnouncementService{announcements: announcements, now: time.Now}
}

// ListActive 启用中的公告，新的在前
func (s *AnnouncementService) ListActive(ctx context.Context) ([]models.Announcement, error) {
	return s.announcements.ListActive(ctx)
}

// CreateAnnouncement 发布公告
func (s *AnnouncementService) CreateAnnouncement(ctx context.Context, req models.CreateAnnouncementRequest, author primitive.ObjectID) (*models.Announcement, error) {
	if err := validateRequest(req, "Invalid data"); err != nil {
		return nil, err
	}

	announcementType := req.Type
	if announcementType == "" {
		announcementType = models.AnnouncementInfo
	}
	if !announcementType.Valid() {
		return nil, utils.CreateBadRequestError("Invalid data")
	}

	now := s.now()
	if req.ExpiresAt != nil && !req.ExpiresAt.After(now) {
		return nil, utils.CreateBadRequestError("expiresAt must be in the future")
	}

	announcement := &models.Announcement{
		Title:     req.Title,
		Message:   req.Message,
		Type:      announcementType,
		Active:    true,
		CreatedBy: author,
		ExpiresAt: req.ExpiresAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.announcements.Insert(ctx, announcement); err != nil {
		return nil, err
	}
	return announcement, nil
}

// DeactivateExpired 停用已过期公告，由定时任务调用
func (s *AnnouncementService) DeactivateExpired(ctx context.Context) (int64, error) {
	return s.announcements.DeactivateExpired(ctx, s.now())
}
