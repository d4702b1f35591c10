package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/24SankeerthM/FUTURE-FS-02/metrics"
	"github.com/24SankeerthM/FUTURE-FS-02/models"
	"github.com/24SankeerthM/FUTURE-FS-02/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// statsWindowMonths 月度增长统计的回溯月数
const statsWindowMonths = 6

// SystemActorResolver 解析公开线索的归属用户
type SystemActorResolver interface {
	EnsureSystemAdmin(ctx context.Context) (*models.User, error)
}

// LeadService 线索业务
type LeadService struct {
	leads       LeadStore
	owners      SystemActorResolver
	publisher   EventPublisher
	mailer      Mailer
	phoneRegion string
	now         func() time.Time
}

// NewLeadService 创建线索服务，mailer 为 nil 时邮件功能不可用
func NewLeadService(leads LeadStore, owners SystemActorResolver, publisher EventPublisher, mailer Mailer, phoneRegion string) *LeadService {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &LeadService{
		leads:       leads,
		owners:      owners,
		publisher:   publisher,
		mailer:      mailer,
		phoneRegion: phoneRegion,
		now:         time.Now,
	}
}

// ListLeads 线索列表，新的在前
func (s *LeadService) ListLeads(ctx context.Context, search string) ([]models.Lead, error) {
	return s.leads.List(ctx, search)
}

// CreateLead 创建线索
func (s *LeadService) CreateLead(ctx context.Context, req models.CreateLeadRequest, actor primitive.ObjectID) (*models.Lead, error) {
	if err := validateRequest(req, "Please fill in all fields"); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.LeadStatusNew
	}
	if !status.Valid() {
		return nil, utils.CreateBadRequestError(fmt.Sprintf("Invalid status: %s", status))
	}

	now := s.now()
	lead := &models.Lead{
		Owner:     actor,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		PhoneE164: utils.NormalizePhone(req.Phone, s.phoneRegion),
		Source:    req.Source,
		Status:    status,
		Score:     0,
		History:   []models.HistoryEntry{},
		Tags:      cleanTags(req.Tags),
		Notes:     []models.Note{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.leads.Insert(ctx, lead); err != nil {
		return nil, err
	}

	metrics.RecordLeadsCreated(lead.Source, 1)
	publishEvent(ctx, s.publisher, EventLeadCreated, leadEventData(lead))
	return lead, nil
}

// UpdateLead 应用更新并持久化（整文档覆盖，后写覆盖先写）
func (s *LeadService) UpdateLead(ctx context.Context, id primitive.ObjectID, patch models.LeadPatch, actor primitive.ObjectID) (*models.Lead, error) {
	lead, err := s.leads.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Lead")
	}

	transition, err := ApplyLeadPatch(lead, patch, actor, s.now(), s.phoneRegion)
	if err != nil {
		return nil, err
	}

	if err := s.leads.Replace(ctx, lead); err != nil {
		return nil, notFoundOr(err, "Lead")
	}

	if transition.StatusChanged {
		utils.Logger.Info().
			Str("leadId", lead.ID.Hex()).
			Str("from", string(transition.From)).
			Str("to", string(transition.To)).
			Int("score", lead.Score).
			Msg("线索状态变更")
		metrics.RecordLeadStatusTransition(string(transition.From), string(transition.To))
		publishEvent(ctx, s.publisher, EventLeadStatusChanged, map[string]interface{}{
			"leadId": lead.ID.Hex(),
			"from":   transition.From,
			"to":     transition.To,
			"score":  lead.Score,
			"actor":  actor.Hex(),
		})
	}
	return lead, nil
}

// DeleteLead 删除线索
func (s *LeadService) DeleteLead(ctx context.Context, id primitive.ObjectID) error {
	return notFoundOr(s.leads.Delete(ctx, id), "Lead")
}

// AddNote 添加备注，不影响历史与分值
func (s *LeadService) AddNote(ctx context.Context, id primitive.ObjectID, text string, actor primitive.ObjectID) (*models.Lead, error) {
	if strings.TrimSpace(text) == "" {
		return nil, utils.CreateBadRequestError("Note text is required")
	}
	return s.appendNote(ctx, id, text, actor)
}

func (s *LeadService) appendNote(ctx context.Context, id primitive.ObjectID, text string, actor primitive.ObjectID) (*models.Lead, error) {
	lead, err := s.leads.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Lead")
	}

	now := s.now()
	lead.Notes = append(lead.Notes, models.Note{Text: text, CreatedAt: now, User: actor})
	lead.UpdatedAt = now

	if err := s.leads.Replace(ctx, lead); err != nil {
		return nil, notFoundOr(err, "Lead")
	}
	return lead, nil
}

// BulkImport 批量导入，缺少姓名或邮箱的记录被丢弃，返回导入条数
func (s *LeadService) BulkImport(ctx context.Context, records []models.ImportRecord, actor primitive.ObjectID) (int, error) {
	now := s.now()
	leads := make([]*models.Lead, 0, len(records))
	for _, rec := range records {
		name := strings.TrimSpace(rec.Name)
		email := strings.TrimSpace(rec.Email)
		if name == "" || email == "" {
			continue
		}
		phone := strings.TrimSpace(rec.Phone)
		leads = append(leads, &models.Lead{
			Owner:     actor,
			Name:      name,
			Email:     email,
			Phone:     phone,
			PhoneE164: utils.NormalizePhone(phone, s.phoneRegion),
			Source:    models.LeadSourceImport,
			Status:    models.LeadStatusNew,
			Score:     10,
			History: []models.HistoryEntry{{
				Action:    models.HistoryActionImported,
				Details:   "Bulk Import",
				User:      actor,
				Timestamp: now,
			}},
			Tags:      cleanTags(rec.Tags),
			Notes:     []models.Note{},
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if len(leads) == 0 {
		return 0, utils.CreateBadRequestError("No valid leads to import")
	}

	if err := s.leads.InsertMany(ctx, leads); err != nil {
		return 0, err
	}

	utils.LogInfo(map[string]interface{}{
		"received": len(records),
		"imported": len(leads),
	}, "批量导入线索完成")
	metrics.RecordLeadsCreated(models.LeadSourceImport, len(leads))
	publishEvent(ctx, s.publisher, EventLeadsImported, map[string]interface{}{
		"count": len(leads),
		"actor": actor.Hex(),
	})
	return len(leads), nil
}

// ComputeStats 看板统计
func (s *LeadService) ComputeStats(ctx context.Context) (*models.LeadStats, error) {
	stats := &models.LeadStats{
		LeadsBySource: []models.GroupCount{},
		MonthlyGrowth: []models.GroupCount{},
	}

	total, err := s.leads.CountTotal(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalLeads = total

	byStatus, err := s.leads.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	for _, group := range byStatus {
		switch models.LeadStatus(group.ID) {
		case models.LeadStatusNew:
			stats.NewLeads = group.Count
		case models.LeadStatusContacted:
			stats.Contacted = group.Count
		case models.LeadStatusConverted:
			stats.Converted = group.Count
		case models.LeadStatusLost:
			stats.Lost = group.Count
		}
	}

	bySource, err := s.leads.CountBySource(ctx)
	if err != nil {
		return nil, err
	}
	if len(bySource) > 0 {
		stats.LeadsBySource = bySource
	}

	since := s.now().AddDate(0, -statsWindowMonths, 0)
	monthly, err := s.leads.CountByMonthSince(ctx, since)
	if err != nil {
		return nil, err
	}
	if len(monthly) > 0 {
		stats.MonthlyGrowth = monthly
	}

	return stats, nil
}

// CreatePublicLead 公开表单提交，归属系统管理员
func (s *LeadService) CreatePublicLead(ctx context.Context, req models.PublicLeadRequest) (*models.Lead, error) {
	if err := validateRequest(req, "Name and Email are required"); err != nil {
		return nil, err
	}

	owner, err := s.owners.EnsureSystemAdmin(ctx)
	if err != nil {
		utils.LogError(err, nil, "解析公开线索归属用户失败")
		return nil, errors.New("System error: Could not create admin.")
	}

	now := s.now()
	notes := []models.Note{}
	if req.Message != "" {
		notes = append(notes, models.Note{Text: "Initial Message: " + req.Message, CreatedAt: now})
	}

	lead := &models.Lead{
		Owner:     owner.ID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		PhoneE164: utils.NormalizePhone(req.Phone, s.phoneRegion),
		Source:    models.LeadSourceWebForm,
		Status:    models.LeadStatusNew,
		Score:     10,
		History:   []models.HistoryEntry{},
		Tags:      []string{},
		Notes:     notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.leads.Insert(ctx, lead); err != nil {
		return nil, err
	}

	utils.Logger.Info().Str("leadId", lead.ID.Hex()).Str("owner", owner.ID.Hex()).Msg("公开线索已保存")
	metrics.RecordLeadsCreated(lead.Source, 1)
	publishEvent(ctx, s.publisher, EventLeadCreated, leadEventData(lead))
	return lead, nil
}

// EmailLead 给线索发送邮件并记录备注
func (s *LeadService) EmailLead(ctx context.Context, id primitive.ObjectID, req models.LeadEmailRequest, actor primitive.ObjectID) (*models.Lead, error) {
	if s.mailer == nil {
		return nil, utils.CreateServiceUnavailableError("Email is not configured")
	}
	if err := validateRequest(req, "Subject and body are required"); err != nil {
		return nil, err
	}

	lead, err := s.leads.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Lead")
	}

	if err := s.mailer.Send(lead.Email, req.Subject, req.Body); err != nil {
		metrics.RecordIntegrationError("smtp")
		return nil, err
	}

	return s.appendNote(ctx, id, "EMAIL SENT: "+req.Subject, actor)
}

func leadEventData(lead *models.Lead) map[string]interface{} {
	return map[string]interface{}{
		"leadId": lead.ID.Hex(),
		"name":   lead.Name,
		"email":  lead.Email,
		"source": lead.Source,
		"status": lead.Status,
		"owner":  lead.Owner.Hex(),
	}
}

// cleanTags 去掉空白标签，保证返回非nil
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
