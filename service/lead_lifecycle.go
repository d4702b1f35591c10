package service

import (
	"fmt"
	"time"

	"github.com/24SankeerthM/FUTURE-FS-02/models"
	"github.com/24SankeerthM/FUTURE-FS-02/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 状态变更时按目标状态累加的分值，New 不加分
var statusScoreDelta = map[models.LeadStatus]int{
	models.LeadStatusContacted: 10,
	models.LeadStatusConverted: 50,
	models.LeadStatusLost:      -5,
}

// ScoreDelta 进入某状态时的加分
func ScoreDelta(status models.LeadStatus) int {
	return statusScoreDelta[status]
}

// LeadTransition 一次更新产生的状态变化
type LeadTransition struct {
	StatusChanged bool
	From          models.LeadStatus
	To            models.LeadStatus
}

// ApplyLeadPatch 将更新请求应用到线索上（不做持久化）。
// 每次调用恰好追加一条历史记录；空字符串视为未提供。
func ApplyLeadPatch(lead *models.Lead, patch models.LeadPatch, actor primitive.ObjectID, now time.Time, phoneRegion string) (LeadTransition, error) {
	transition := LeadTransition{From: lead.Status, To: lead.Status}

	var newStatus models.LeadStatus
	if patch.Status != nil && *patch.Status != "" {
		newStatus = *patch.Status
		if !newStatus.Valid() {
			return transition, utils.CreateBadRequestError(fmt.Sprintf("Invalid status: %s", newStatus))
		}
	}

	if newStatus != "" && newStatus != lead.Status {
		lead.History = append(lead.History, models.HistoryEntry{
			Action:    models.HistoryActionStatusChange,
			Details:   fmt.Sprintf("Changed from %s to %s", lead.Status, newStatus),
			User:      actor,
			Timestamp: now,
		})
		lead.Score += ScoreDelta(newStatus)
		transition.StatusChanged = true
		transition.To = newStatus
	} else {
		lead.History = append(lead.History, models.HistoryEntry{
			Action:    models.HistoryActionUpdate,
			Details:   "Lead details updated",
			User:      actor,
			Timestamp: now,
		})
	}

	if v := nonEmpty(patch.Name); v != "" {
		lead.Name = v
	}
	if v := nonEmpty(patch.Email); v != "" {
		lead.Email = v
	}
	if v := nonEmpty(patch.Phone); v != "" {
		lead.Phone = v
		lead.PhoneE164 = utils.NormalizePhone(v, phoneRegion)
	}
	if v := nonEmpty(patch.Source); v != "" {
		lead.Source = v
	}
	if newStatus != "" {
		lead.Status = newStatus
	}
	if patch.Tags != nil {
		lead.Tags = append([]string{}, *patch.Tags...)
	}
	// 显式传入的分值覆盖状态加分
	if patch.Score != nil {
		lead.Score = *patch.Score
	}

	lead.UpdatedAt = now
	return transition, nil
}

func nonEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
