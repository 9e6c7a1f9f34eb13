package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"taskify/backend/internal/models"
	"taskify/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type TaskHandler struct {
	db          *gorm.DB
	taskService services.TaskService
}

func NewTaskHandler(db *gorm.DB, taskService services.TaskService) *TaskHandler {
	return &TaskHandler{db: db, taskService: taskService}
}

type TagInput struct {
	Name string `json:"name" binding:"required,max=255"`
}

func tagNames(inputs []TagInput) []string {
	names := make([]string, 0, len(inputs))
	for _, t := range inputs {
		names = append(names, t.Name)
	}
	return names
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDInterface, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return uuid.Nil, false
	}
	userIDStr, ok := userIDInterface.(string)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return uuid.Nil, false
	}
	userID, err := uuid.FromString(userIDStr)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return uuid.Nil, false
	}
	return userID, true
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var taskInput struct {
		Description string     `json:"description" binding:"required,max=500"`
		DueDate     time.Time  `json:"due_date" binding:"required"`
		Priority    int        `json:"priority"`
		IsComplete  bool       `json:"is_complete"`
		Tags        []TagInput `json:"tags"`
	}
	if err := c.ShouldBindJSON(&taskInput); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// is_complete from the payload is deliberately dropped; a task always
	// starts open.
	task, err := h.taskService.CreateTask(h.db, userID, services.CreateTaskInput{
		Description: taskInput.Description,
		DueDate:     taskInput.DueDate,
		Priority:    models.Priority(taskInput.Priority),
		Tags:        tagNames(taskInput.Tags),
	})
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) GetTasks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var tagIDs []uuid.UUID
	if raw := c.Query("tags"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := uuid.FromString(strings.TrimSpace(part))
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   "invalid_filter",
					"message": "tags must be a comma separated list of tag IDs",
				})
				return
			}
			tagIDs = append(tagIDs, id)
		}
	}

	tasks, err := h.taskService.ListTasks(h.db, userID, tagIDs)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	id := uuid.FromStringOrNil(c.Param("id"))
	task, err := h.taskService.GetTaskByID(h.db, userID, id)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	id := uuid.FromStringOrNil(c.Param("id"))

	var taskInput struct {
		Description *string     `json:"description" binding:"omitempty,max=500"`
		DueDate     *time.Time  `json:"due_date"`
		Priority    *int        `json:"priority"`
		IsComplete  *bool       `json:"is_complete"`
		Tags        *[]TagInput `json:"tags"`
	}
	if err := c.ShouldBindJSON(&taskInput); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.UpdateTaskInput{
		Description: taskInput.Description,
		DueDate:     taskInput.DueDate,
		IsComplete:  taskInput.IsComplete,
	}
	if taskInput.Priority != nil {
		priority := models.Priority(*taskInput.Priority)
		input.Priority = &priority
	}
	if taskInput.Tags != nil {
		names := tagNames(*taskInput.Tags)
		input.Tags = &names
	}

	task, err := h.taskService.UpdateTask(h.db, userID, id, input)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	id := uuid.FromStringOrNil(c.Param("id"))
	if err := h.taskService.DeleteTask(h.db, userID, id); err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

func handleTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "task not found",
		})
	case errors.Is(err, services.ErrPastDueDate), errors.Is(err, services.ErrInvalidPriority):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_failed",
			"message": err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to process task request",
		})
	}
}
