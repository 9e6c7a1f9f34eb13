package services

import (
	"errors"
	"strings"
	"time"

	"taskify/backend/internal/models"

	"github.com/gofrs/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailRequired  = errors.New("email address is required")
	ErrDuplicateEmail = errors.New("email already exists")
)

type CreateUserInput struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	Username    string `json:"username" binding:"max=255"`
	PhoneNumber string `json:"phone_number,omitempty" binding:"max=255"`
}

type UserService interface {
	CreateUser(db *gorm.DB, input CreateUserInput) (*models.User, error)
	CreateSuperuser(db *gorm.DB, email, password string) (*models.User, error)
	GetUserByID(db *gorm.DB, id uuid.UUID) (*models.User, error)
}

type UserServiceImpl struct{}

func NewUserService() *UserServiceImpl {
	return &UserServiceImpl{}
}

func (s *UserServiceImpl) CreateUser(db *gorm.DB, input CreateUserInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, ErrEmailRequired
	}

	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrDuplicateEmail
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		ID:          uuid.Must(uuid.NewV4()),
		Email:       email,
		Username:    input.Username,
		PhoneNumber: input.PhoneNumber,
		Password:    string(hashedPassword),
		IsActive:    true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	return &user, nil
}

func (s *UserServiceImpl) CreateSuperuser(db *gorm.DB, email, password string) (*models.User, error) {
	user, err := s.CreateUser(db, CreateUserInput{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	user.IsStaff = true
	user.IsSuperuser = true
	if err := db.Save(user).Error; err != nil {
		return nil, err
	}

	return user, nil
}

func (s *UserServiceImpl) GetUserByID(db *gorm.DB, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
