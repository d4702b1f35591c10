package service

import (
	"context"
	"time"

	"github.com/24SankeerthM/FUTURE-FS-02/utils"

	"github.com/robfig/cron/v3"
)

// 每小时整点检查一次过期公告
const announcementExpirySpec = "0 * * * *"

// AnnouncementExpirer 由公告服务实现
type AnnouncementExpirer interface {
	DeactivateExpired(ctx context.Context) (int64, error)
}

// Scheduler 定时任务
type Scheduler struct {
	cron *cron.Cron
}

func NewScheduler() *Scheduler {
	return &Scheduler{cron: cron.New()}
}

// SetupJobs 注册定时任务
func (s *Scheduler) SetupJobs(expirer AnnouncementExpirer) error {
	_, err := s.cron.AddFunc(announcementExpirySpec, func() {
		ProcessExpiredAnnouncements(expirer)
	})
	return err
}

// Start 启动调度器
func (s *Scheduler) Start() {
	utils.Logger.Info().Msg("启动定时任务调度器")
	s.cron.Start()
}

// Stop 停止调度器并等待运行中的任务结束
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	utils.Logger.Info().Msg("定时任务调度器已停止")
}

// ProcessExpiredAnnouncements 停用已过期的公告
func ProcessExpiredAnnouncements(expirer AnnouncementExpirer) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	count, err := expirer.DeactivateExpired(ctx)
	if err != nil {
		utils.LogError(err, nil, "停用过期公告失败")
		return
	}
	if count > 0 {
		utils.Logger.Info().Int64("count", count).Msg("已停用过期公告")
	}
}
