package services

import (
	"errors"

	"taskify/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type TagService interface {
	GetOrCreateTag(db *gorm.DB, ownerID uuid.UUID, name string) (*models.Tag, error)
	ListTagsForUser(db *gorm.DB, ownerID uuid.UUID, assignedOnly bool) ([]models.Tag, error)
	UpdateTag(db *gorm.DB, ownerID, id uuid.UUID, name string) (*models.Tag, error)
	DeleteTag(db *gorm.DB, ownerID, id uuid.UUID) error
}

type TagServiceImpl struct{}

func NewTagService() *TagServiceImpl {
	return &TagServiceImpl{}
}

// GetOrCreateTag returns the owner's tag with the given name, creating it if
// absent. Losing a concurrent create race surfaces as a unique violation on
// (user_id, name); the winner's row is fetched instead.
func (s *TagServiceImpl) GetOrCreateTag(db *gorm.DB, ownerID uuid.UUID, name string) (*models.Tag, error) {
	var tag models.Tag
	err := db.Where("user_id = ? AND name = ?", ownerID, name).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tag = models.Tag{
		ID:     uuid.Must(uuid.NewV4()),
		Name:   name,
		UserID: ownerID,
	}
	if err := db.Create(&tag).Error; err != nil {
		// Unique violation on (user_id, name) means a concurrent request won.
		var existing models.Tag
		if fetchErr := db.Where("user_id = ? AND name = ?", ownerID, name).First(&existing).Error; fetchErr == nil {
			return &existing, nil
		}
		return nil, err
	}

	return &tag, nil
}

func (s *TagServiceImpl) ListTagsForUser(db *gorm.DB, ownerID uuid.UUID, assignedOnly bool) ([]models.Tag, error) {
	// Non-nil so an empty listing serializes as [] rather than null.
	tags := make([]models.Tag, 0)

	query := db.Model(&models.Tag{}).Where("tags.user_id = ?", ownerID)
	if assignedOnly {
		query = query.
			Joins("JOIN task_tags ON task_tags.tag_id = tags.id").
			Distinct("tags.*")
	}

	if err := query.Order("tags.name DESC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *TagServiceImpl) UpdateTag(db *gorm.DB, ownerID, id uuid.UUID, name string) (*models.Tag, error) {
	var tag models.Tag
	if err := db.Where("id = ? AND user_id = ?", id, ownerID).First(&tag).Error; err != nil {
		return nil, err
	}

	tag.Name = name
	if err := db.Save(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (s *TagServiceImpl) DeleteTag(db *gorm.DB, ownerID, id uuid.UUID) error {
	var tag models.Tag
	if err := db.Where("id = ? AND user_id = ?", id, ownerID).First(&tag).Error; err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM task_tags WHERE tag_id = ?", tag.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
}
