package controllers

import (
	"net/http"

	"github.com/24SankeerthM/FUTURE-FS-02/models"
	"github.com/24SankeerthM/FUTURE-FS-02/service"
	"github.com/24SankeerthM/FUTURE-FS-02/utils"

	"github.com/gin-gonic/gin"
)

// TaskController 个人任务接口
type TaskController struct {
	tasks *service.TaskService
}

func NewTaskController(tasks *service.TaskService) *TaskController {
	return &TaskController{tasks: tasks}
}

func (tc *TaskController) GetTasks(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	tasks, err := tc.tasks.ListTasks(c.Request.Context(), user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (tc *TaskController) CreateTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req models.CreateTaskRequest
	if !bindJSON(c, &req, "Please provide title and date") {
		return
	}

	task, err := tc.tasks.CreateTask(c.Request.Context(), req, user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (tc *TaskController) UpdateTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.UpdateTaskRequest
	if !bindJSON(c, &req, "Invalid task data") {
		return
	}

	task, err := tc.tasks.UpdateTask(c.Request.Context(), id, req, user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (tc *TaskController) DeleteTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := tc.tasks.DeleteTask(c.Request.Context(), id, user.ID); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.MessageResponse(c, http.StatusOK, "Task removed")
}
