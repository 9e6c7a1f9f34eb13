package services

import (
	"errors"
	"time"

	"taskify/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

var (
	ErrPastDueDate     = errors.New("due date cannot be earlier than now")
	ErrInvalidPriority = errors.New("priority must be low, medium or high")
)

type CreateTaskInput struct {
	Description string
	DueDate     time.Time
	Priority    models.Priority
	Tags        []string
}

// UpdateTaskInput carries a partial update; nil fields are left untouched.
// Tags is a pointer so "clear all tags" (empty slice) and "don't touch tags"
// (nil) stay distinguishable.
type UpdateTaskInput struct {
	Description *string
	DueDate     *time.Time
	Priority    *models.Priority
	IsComplete  *bool
	Tags        *[]string
}

type TaskService interface {
	CreateTask(db *gorm.DB, ownerID uuid.UUID, input CreateTaskInput) (*models.Task, error)
	ListTasks(db *gorm.DB, ownerID uuid.UUID, tagIDs []uuid.UUID) ([]models.Task, error)
	GetTaskByID(db *gorm.DB, ownerID, id uuid.UUID) (*models.Task, error)
	UpdateTask(db *gorm.DB, ownerID, id uuid.UUID, input UpdateTaskInput) (*models.Task, error)
	DeleteTask(db *gorm.DB, ownerID, id uuid.UUID) error
}

type TaskServiceImpl struct {
	tagService TagService
}

func NewTaskService(tagService TagService) *TaskServiceImpl {
	return &TaskServiceImpl{tagService: tagService}
}

func (s *TaskServiceImpl) CreateTask(db *gorm.DB, ownerID uuid.UUID, input CreateTaskInput) (*models.Task, error) {
	if input.DueDate.Before(time.Now()) {
		return nil, ErrPastDueDate
	}

	priority := input.Priority
	if priority == 0 {
		priority = models.PriorityLow
	}
	if !priority.Valid() {
		return nil, ErrInvalidPriority
	}

	task := models.Task{
		ID:          uuid.Must(uuid.NewV4()),
		UserID:      ownerID,
		Description: input.Description,
		DueDate:     input.DueDate,
		IsComplete:  false,
		Priority:    priority,
		CreatedAt:   time.Now(),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&task).Error; err != nil {
			return err
		}
		return s.attachTags(tx, &task, input.Tags)
	})
	if err != nil {
		return nil, err
	}

	return s.GetTaskByID(db, ownerID, task.ID)
}

func (s *TaskServiceImpl) ListTasks(db *gorm.DB, ownerID uuid.UUID, tagIDs []uuid.UUID) ([]models.Task, error) {
	// Non-nil so an empty listing serializes as [] rather than null.
	tasks := make([]models.Task, 0)

	query := db.Model(&models.Task{}).Preload("Tags").Where("tasks.user_id = ?", ownerID)
	if len(tagIDs) > 0 {
		query = query.
			Joins("JOIN task_tags ON task_tags.task_id = tasks.id").
			Where("task_tags.tag_id IN ?", tagIDs).
			Distinct("tasks.*")
	}

	if err := query.Order("tasks.due_date DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *TaskServiceImpl) GetTaskByID(db *gorm.DB, ownerID, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := db.Preload("Tags").Where("id = ? AND user_id = ?", id, ownerID).First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskServiceImpl) UpdateTask(db *gorm.DB, ownerID, id uuid.UUID, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.GetTaskByID(db, ownerID, id)
	if err != nil {
		return nil, err
	}

	if input.DueDate != nil {
		if input.DueDate.Before(time.Now()) {
			return nil, ErrPastDueDate
		}
		task.DueDate = *input.DueDate
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.IsComplete != nil {
		task.IsComplete = *input.IsComplete
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if input.Tags != nil {
			if err := tx.Model(task).Association("Tags").Clear(); err != nil {
				return err
			}
			task.Tags = nil
			if err := s.attachTags(tx, task, *input.Tags); err != nil {
				return err
			}
		}
		return tx.Omit("Tags").Save(task).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetTaskByID(db, ownerID, id)
}

func (s *TaskServiceImpl) DeleteTask(db *gorm.DB, ownerID, id uuid.UUID) error {
	task, err := s.GetTaskByID(db, ownerID, id)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(task).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(task).Error
	})
}

// attachTags resolves tag names through get-or-create scoped to the task's
// owner, so a task can never reference another user's tag.
func (s *TaskServiceImpl) attachTags(tx *gorm.DB, task *models.Task, names []string) error {
	for _, name := range names {
		tag, err := s.tagService.GetOrCreateTag(tx, task.UserID, name)
		if err != nil {
			return err
		}
		if err := tx.Model(task).Association("Tags").Append(tag); err != nil {
			return err
		}
	}
	return nil
}
