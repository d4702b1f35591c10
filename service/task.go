package service

import (
	"context"
	"strings"
	"time"

	"github.com/24SankeerthM/FUTURE-FS-02/models"
	"github.com/24SankeerthM/FUTURE-FS-02/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 任务日期接受的格式
var taskDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02",
}

// TaskService 个人任务
type TaskService struct {
	tasks TaskStore
	now   func() time.Time
}

func NewTaskService(tasks TaskStore) *TaskService {
	return &TaskService{tasks: tasks, now: time.Now}
}

// ListTasks 当前用户的任务，按日期升序
func (s *TaskService) ListTasks(ctx context.Context, owner primitive.ObjectID) ([]models.Task, error) {
	return s.tasks.ListByOwner(ctx, owner)
}

// CreateTask 创建任务
func (s *TaskService) CreateTask(ctx context.Context, req models.CreateTaskRequest, owner primitive.ObjectID) (*models.Task, error) {
	if err := validateRequest(req, "Please provide title and date"); err != nil {
		return nil, err
	}
	date, err := ParseTaskDate(req.Date)
	if err != nil {
		return nil, err
	}

	taskType := strings.TrimSpace(req.Type)
	if taskType == "" {
		taskType = models.DefaultTaskType
	}

	now := s.now()
	task := &models.Task{
		Owner:     owner,
		Title:     req.Title,
		Date:      date,
		Type:      taskType,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.tasks.Insert(ctx, task); err != nil {
		return nil, err
	}

	utils.Logger.Debug().Str("taskId", task.ID.Hex()).Str("owner", owner.Hex()).Msg("任务已创建")
	return task, nil
}

// UpdateTask 更新任务，仅限创建者
func (s *TaskService) UpdateTask(ctx context.Context, id primitive.ObjectID, req models.UpdateTaskRequest, requester primitive.ObjectID) (*models.Task, error) {
	task, err := s.ownedTask(ctx, id, requester)
	if err != nil {
		return nil, err
	}

	if req.Completed != nil {
		task.Completed = *req.Completed
	}
	if v := nonEmpty(req.Title); v != "" {
		task.Title = v
	}
	if v := nonEmpty(req.Date); v != "" {
		date, err := ParseTaskDate(v)
		if err != nil {
			return nil, err
		}
		task.Date = date
	}
	if v := nonEmpty(req.Type); v != "" {
		task.Type = v
	}
	task.UpdatedAt = s.now()

	if err := s.tasks.Replace(ctx, task); err != nil {
		return nil, notFoundOr(err, "Task")
	}
	return task, nil
}

// DeleteTask 删除任务，仅限创建者
func (s *TaskService) DeleteTask(ctx context.Context, id, requester primitive.ObjectID) error {
	if _, err := s.ownedTask(ctx, id, requester); err != nil {
		return err
	}
	return notFoundOr(s.tasks.Delete(ctx, id), "Task")
}

// ownedTask 先判断存在（404），再判断归属（401）
func (s *TaskService) ownedTask(ctx context.Context, id, requester primitive.ObjectID) (*models.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Task")
	}
	if task.Owner != requester {
		return nil, utils.CreateUnauthorizedError("Not authorized")
	}
	return task, nil
}

// ParseTaskDate 解析任务日期
func ParseTaskDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range taskDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, utils.CreateBadRequestError("Invalid date: " + value)
}
