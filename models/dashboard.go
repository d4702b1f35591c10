package models

// GroupCount 聚合分组计数，_id 为分组键
type GroupCount struct {
	ID    string `bson:"_id" json:"_id"`
	Count int64  `bson:"count" json:"count"`
}

// LeadStats 线索看板统计
type LeadStats struct {
	TotalLeads    int64        `json:"totalLeads"`
	NewLeads      int64        `json:"newLeads"`
	Contacted     int64        `json:"contacted"`
	Converted     int64        `json:"converted"`
	Lost          int64        `json:"lost"`
	LeadsBySource []GroupCount `json:"leadsBySource"` // 按来源分布
	MonthlyGrowth []GroupCount `json:"monthlyGrowth"` // 近6个月按月新增（YYYY-MM 升序）
}
