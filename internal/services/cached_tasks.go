package services

import (
	"fmt"
	"time"

	"taskify/backend/internal/cache"
	"taskify/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// CachedTaskService is a read-through cache over TaskService. Keys always
// include the owner, matching the owner scoping of the underlying queries.
type CachedTaskService struct {
	taskService TaskService
	cache       *cache.RedisCache
}

const (
	taskCacheTTL     = 30 * time.Minute
	taskListCacheTTL = 10 * time.Minute
)

func NewCachedTaskService(taskService TaskService, cacheInstance *cache.RedisCache) *CachedTaskService {
	return &CachedTaskService{
		taskService: taskService,
		cache:       cacheInstance,
	}
}

func taskKey(ownerID, id uuid.UUID) string {
	return fmt.Sprintf("task:%s:%s", ownerID.String(), id.String())
}

func userTasksKey(ownerID uuid.UUID) string {
	return fmt.Sprintf("user_tasks:%s", ownerID.String())
}

func (s *CachedTaskService) CreateTask(db *gorm.DB, ownerID uuid.UUID, input CreateTaskInput) (*models.Task, error) {
	task, err := s.taskService.CreateTask(db, ownerID, input)
	if err != nil {
		return nil, err
	}

	s.cache.Set(taskKey(ownerID, task.ID), task, taskCacheTTL)
	s.invalidateOwner(ownerID)

	return task, nil
}

func (s *CachedTaskService) ListTasks(db *gorm.DB, ownerID uuid.UUID, tagIDs []uuid.UUID) ([]models.Task, error) {
	// Filtered listings are not cached; the tag combinations are unbounded.
	if len(tagIDs) > 0 {
		return s.taskService.ListTasks(db, ownerID, tagIDs)
	}

	var cached []models.Task
	if err := s.cache.Get(userTasksKey(ownerID), &cached); err == nil {
		return cached, nil
	}

	tasks, err := s.taskService.ListTasks(db, ownerID, nil)
	if err != nil {
		return nil, err
	}

	s.cache.Set(userTasksKey(ownerID), tasks, taskListCacheTTL)

	return tasks, nil
}

func (s *CachedTaskService) GetTaskByID(db *gorm.DB, ownerID, id uuid.UUID) (*models.Task, error) {
	var cached models.Task
	if err := s.cache.Get(taskKey(ownerID, id), &cached); err == nil {
		return &cached, nil
	}

	task, err := s.taskService.GetTaskByID(db, ownerID, id)
	if err != nil {
		return nil, err
	}

	s.cache.Set(taskKey(ownerID, id), task, taskCacheTTL)

	return task, nil
}

func (s *CachedTaskService) UpdateTask(db *gorm.DB, ownerID, id uuid.UUID, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskService.UpdateTask(db, ownerID, id, input)
	if err != nil {
		return nil, err
	}

	s.cache.Set(taskKey(ownerID, id), task, taskCacheTTL)
	s.invalidateOwner(ownerID)

	return task, nil
}

func (s *CachedTaskService) DeleteTask(db *gorm.DB, ownerID, id uuid.UUID) error {
	if err := s.taskService.DeleteTask(db, ownerID, id); err != nil {
		return err
	}

	s.cache.Delete(taskKey(ownerID, id))
	s.invalidateOwner(ownerID)

	return nil
}

func (s *CachedTaskService) invalidateOwner(ownerID uuid.UUID) {
	s.cache.Delete(userTasksKey(ownerID))
}

func (s *CachedTaskService) GetCacheStats() map[string]interface{} {
	return s.cache.Stats()
}
