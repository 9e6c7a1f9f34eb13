package services_test

import (
	"testing"
	"time"

	"taskify/backend/internal/models"
	"taskify/backend/internal/services"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type TagServiceTestSuite struct {
	suite.Suite
	db          *gorm.DB
	service     services.TagService
	taskService services.TaskService

	userID      uuid.UUID
	otherUserID uuid.UUID
}

func (suite *TagServiceTestSuite) SetupTest() {
	suite.db = openTestDB(&suite.Suite)
	suite.service = services.NewTagService()
	suite.taskService = services.NewTaskService(suite.service)

	suite.userID = suite.createUser("test@example.com")
	suite.otherUserID = suite.createUser("other@example.com")
}

func (suite *TagServiceTestSuite) createUser(email string) uuid.UUID {
	user, err := services.NewUserService().CreateUser(suite.db, services.CreateUserInput{
		Email:    email,
		Password: "password123",
	})
	suite.Require().NoError(err)
	return user.ID
}

func (suite *TagServiceTestSuite) createTask(ownerID uuid.UUID, tags ...string) *models.Task {
	task, err := suite.taskService.CreateTask(suite.db, ownerID, services.CreateTaskInput{
		Description: "Task",
		DueDate:     time.Date(2089, 4, 20, 0, 0, 0, 0, time.UTC),
		Tags:        tags,
	})
	suite.Require().NoError(err)
	return task
}

func (suite *TagServiceTestSuite) TestGetOrCreateTag_Idempotent() {
	first, err := suite.service.GetOrCreateTag(suite.db, suite.userID, "Work")
	suite.Require().NoError(err)

	second, err := suite.service.GetOrCreateTag(suite.db, suite.userID, "Work")
	suite.Require().NoError(err)

	suite.Equal(first.ID, second.ID, "identical calls must return the same tag")

	var count int64
	suite.db.Model(&models.Tag{}).Where("user_id = ? AND name = ?", suite.userID, "Work").Count(&count)
	suite.Equal(int64(1), count)
}

func (suite *TagServiceTestSuite) TestGetOrCreateTag_ScopedToOwner() {
	mine, err := suite.service.GetOrCreateTag(suite.db, suite.userID, "Work")
	suite.Require().NoError(err)

	theirs, err := suite.service.GetOrCreateTag(suite.db, suite.otherUserID, "Work")
	suite.Require().NoError(err)

	suite.NotEqual(mine.ID, theirs.ID, "same name for different users is a different tag")
}

func (suite *TagServiceTestSuite) TestListTagsForUser_OrderedByNameDesc() {
	for _, name := range []string{"Alpha", "Zulu", "Mike"} {
		_, err := suite.service.GetOrCreateTag(suite.db, suite.userID, name)
		suite.Require().NoError(err)
	}

	tags, err := suite.service.ListTagsForUser(suite.db, suite.userID, false)
	suite.Require().NoError(err)

	suite.Require().Len(tags, 3)
	suite.Equal("Zulu", tags[0].Name)
	suite.Equal("Mike", tags[1].Name)
	suite.Equal("Alpha", tags[2].Name)
}

func (suite *TagServiceTestSuite) TestListTagsForUser_LimitedToOwner() {
	_, err := suite.service.GetOrCreateTag(suite.db, suite.userID, "Mine")
	suite.Require().NoError(err)
	_, err = suite.service.GetOrCreateTag(suite.db, suite.otherUserID, "Theirs")
	suite.Require().NoError(err)

	tags, err := suite.service.ListTagsForUser(suite.db, suite.userID, false)
	suite.Require().NoError(err)

	suite.Require().Len(tags, 1)
	suite.Equal("Mine", tags[0].Name)
}

func (suite *TagServiceTestSuite) TestListTagsForUser_AssignedOnly() {
	suite.createTask(suite.userID, "Work")
	_, err := suite.service.GetOrCreateTag(suite.db, suite.userID, "Unused")
	suite.Require().NoError(err)

	tags, err := suite.service.ListTagsForUser(suite.db, suite.userID, true)
	suite.Require().NoError(err)

	suite.Require().Len(tags, 1)
	suite.Equal("Work", tags[0].Name)
}

func (suite *TagServiceTestSuite) TestListTagsForUser_AssignedOnlyDeduplicates() {
	suite.createTask(suite.userID, "Work")
	suite.createTask(suite.userID, "Work")

	tags, err := suite.service.ListTagsForUser(suite.db, suite.userID, true)
	suite.Require().NoError(err)

	suite.Require().Len(tags, 1, "tag attached to two tasks must appear once")
}

func (suite *TagServiceTestSuite) TestUpdateTag() {
	tag, err := suite.service.GetOrCreateTag(suite.db, suite.userID, "Work")
	suite.Require().NoError(err)

	updated, err := suite.service.UpdateTag(suite.db, suite.userID, tag.ID, "Office")
	suite.Require().NoError(err)
	suite.Equal("Office", updated.Name)
	suite.Equal(tag.ID, updated.ID)
}

func (suite *TagServiceTestSuite) TestUpdateTag_OtherUsersTagNotFound() {
	tag, err := suite.service.GetOrCreateTag(suite.db, suite.otherUserID, "Theirs")
	suite.Require().NoError(err)

	_, err = suite.service.UpdateTag(suite.db, suite.userID, tag.ID, "Hijacked")
	suite.Require().ErrorIs(err, gorm.ErrRecordNotFound)

	var stored models.Tag
	suite.Require().NoError(suite.db.First(&stored, "id = ?", tag.ID).Error)
	suite.Equal("Theirs", stored.Name, "record must remain unchanged")
}

func (suite *TagServiceTestSuite) TestDeleteTag() {
	tag, err := suite.service.GetOrCreateTag(suite.db, suite.userID, "Work")
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.DeleteTag(suite.db, suite.userID, tag.ID))

	err = suite.db.First(&models.Tag{}, "id = ?", tag.ID).Error
	suite.Require().ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *TagServiceTestSuite) TestDeleteTag_RemovesAssociations() {
	task := suite.createTask(suite.userID, "Work")
	suite.Require().Len(task.Tags, 1)

	suite.Require().NoError(suite.service.DeleteTag(suite.db, suite.userID, task.Tags[0].ID))

	reloaded, err := suite.taskService.GetTaskByID(suite.db, suite.userID, task.ID)
	suite.Require().NoError(err)
	suite.Len(reloaded.Tags, 0)
}

func (suite *TagServiceTestSuite) TestDeleteTag_OtherUsersTagNotFound() {
	tag, err := suite.service.GetOrCreateTag(suite.db, suite.otherUserID, "Theirs")
	suite.Require().NoError(err)

	err = suite.service.DeleteTag(suite.db, suite.userID, tag.ID)
	suite.Require().ErrorIs(err, gorm.ErrRecordNotFound)

	suite.Require().NoError(suite.db.First(&models.Tag{}, "id = ?", tag.ID).Error)
}

func (suite *TagServiceTestSuite) TestListTagsForUser_EmptyListing() {
	tags, err := suite.service.ListTagsForUser(suite.db, suite.userID, false)
	suite.Require().NoError(err)
	suite.NotNil(tags, "empty listing should serialize as [], not null")
	suite.Len(tags, 0)
}

func TestTagServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TagServiceTestSuite))
}
