package handlers

import (
	"errors"
	"net/http"

	"taskify/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type TagHandler struct {
	db         *gorm.DB
	tagService services.TagService
}

func NewTagHandler(db *gorm.DB, tagService services.TagService) *TagHandler {
	return &TagHandler{db: db, tagService: tagService}
}

func (h *TagHandler) GetTags(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	assignedOnly := c.Query("assigned_only") == "1" || c.Query("assigned_only") == "true"

	tags, err := h.tagService.ListTagsForUser(h.db, userID, assignedOnly)
	if err != nil {
		handleTagError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *TagHandler) UpdateTag(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var tagInput struct {
		Name string `json:"name" binding:"required,max=255"`
	}
	if err := c.ShouldBindJSON(&tagInput); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := uuid.FromStringOrNil(c.Param("id"))
	tag, err := h.tagService.UpdateTag(h.db, userID, id, tagInput.Name)
	if err != nil {
		handleTagError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

func (h *TagHandler) DeleteTag(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	id := uuid.FromStringOrNil(c.Param("id"))
	if err := h.tagService.DeleteTag(h.db, userID, id); err != nil {
		handleTagError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

func handleTagError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "tag not found",
		})
	case errors.Is(err, gorm.ErrDuplicatedKey):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "duplicate_tag",
			"message": "a tag with this name already exists",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to process tag request",
		})
	}
}
