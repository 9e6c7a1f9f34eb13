package services

import (
	"fmt"

	"taskify/backend/internal/cache"
	"taskify/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// CachedTagService keeps the task cache honest: cached tasks embed their tags,
// so renaming or deleting a tag must drop every cached task entry of the owner,
// not just the tag's own data.
type CachedTagService struct {
	tagService TagService
	cache      *cache.RedisCache
}

func NewCachedTagService(tagService TagService, cacheInstance *cache.RedisCache) *CachedTagService {
	return &CachedTagService{
		tagService: tagService,
		cache:      cacheInstance,
	}
}

func (s *CachedTagService) GetOrCreateTag(db *gorm.DB, ownerID uuid.UUID, name string) (*models.Tag, error) {
	// A new unattached tag appears in no cached task; nothing to invalidate.
	return s.tagService.GetOrCreateTag(db, ownerID, name)
}

func (s *CachedTagService) ListTagsForUser(db *gorm.DB, ownerID uuid.UUID, assignedOnly bool) ([]models.Tag, error) {
	return s.tagService.ListTagsForUser(db, ownerID, assignedOnly)
}

func (s *CachedTagService) UpdateTag(db *gorm.DB, ownerID, id uuid.UUID, name string) (*models.Tag, error) {
	tag, err := s.tagService.UpdateTag(db, ownerID, id, name)
	if err != nil {
		return nil, err
	}

	s.invalidateOwnerTasks(ownerID)

	return tag, nil
}

func (s *CachedTagService) DeleteTag(db *gorm.DB, ownerID, id uuid.UUID) error {
	if err := s.tagService.DeleteTag(db, ownerID, id); err != nil {
		return err
	}

	s.invalidateOwnerTasks(ownerID)

	return nil
}

func (s *CachedTagService) invalidateOwnerTasks(ownerID uuid.UUID) {
	s.cache.DeletePattern(fmt.Sprintf("task:%s:*", ownerID.String()))
	s.cache.Delete(userTasksKey(ownerID))
}
