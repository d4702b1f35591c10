package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LeadStatus 线索状态
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "New"
	LeadStatusContacted LeadStatus = "Contacted"
	LeadStatusConverted LeadStatus = "Converted"
	LeadStatusLost      LeadStatus = "Lost"
)

// LeadStatuses 全部合法状态，按漏斗顺序
var LeadStatuses = []LeadStatus{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusConverted,
	LeadStatusLost,
}

// Valid 状态是否合法
func (s LeadStatus) Valid() bool {
	for _, status := range LeadStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// 线索来源
const (
	LeadSourceImport  = "Import"
	LeadSourceWebForm = "Web Form"
)

// 历史记录动作
const (
	HistoryActionStatusChange = "Status Change"
	HistoryActionUpdate       = "Update"
	HistoryActionImported     = "Imported"
)

// Lead 销售线索
type Lead struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Owner     primitive.ObjectID `bson:"user" json:"user"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone" json:"phone"`
	PhoneE164 string             `bson:"phoneE164,omitempty" json:"phoneE164,omitempty"`
	Source    string             `bson:"source" json:"source"`
	Status    LeadStatus         `bson:"status" json:"status"`
	Score     int                `bson:"score" json:"score"`
	History   []HistoryEntry     `bson:"history" json:"history"`
	Tags      []string           `bson:"tags" json:"tags"`
	Notes     []Note             `bson:"notes" json:"notes"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// HistoryEntry 线索审计记录，只追加
type HistoryEntry struct {
	Action    string             `bson:"action" json:"action"`
	Details   string             `bson:"details" json:"details"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// Note 线索备注
type Note struct {
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	User      primitive.ObjectID `bson:"user,omitempty" json:"user,omitempty"`
}

// CreateLeadRequest 创建线索请求
type CreateLeadRequest struct {
	Name   string     `json:"name" validate:"required"`
	Email  string     `json:"email" validate:"required"`
	Phone  string     `json:"phone" validate:"required"`
	Source string     `json:"source" validate:"required"`
	Status LeadStatus `json:"status"`
	Tags   []string   `json:"tags"`
}

// LeadPatch 更新线索请求，nil 字段表示未提供
type LeadPatch struct {
	Name   *string     `json:"name"`
	Email  *string     `json:"email"`
	Phone  *string     `json:"phone"`
	Source *string     `json:"source"`
	Status *LeadStatus `json:"status"`
	Tags   *[]string   `json:"tags"`
	Score  *int        `json:"score"`
}

// ImportRecord 批量导入的单条记录
type ImportRecord struct {
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Phone string   `json:"phone"`
	Tags  []string `json:"tags"`
}

// PublicLeadRequest 公开表单提交
type PublicLeadRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// NoteRequest 添加备注
type NoteRequest struct {
	Text string `json:"text"`
}

// LeadEmailRequest 给线索发送邮件
type LeadEmailRequest struct {
	Subject string `json:"subject" validate:"required"`
	Body    string `json:"body" validate:"required"`
}
