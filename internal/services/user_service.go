package services

import (
	"errors"
	"fmt"
	"strings"

	"logistics/internal/auth"
	"logistics/internal/models"
	"logistics/internal/repository"

	"gorm.io/gorm"
)

const DefaultAdminUsername = "admin"

type UserService interface {
	Authenticate(username, password string) (*models.User, error)
	CreateUser(username, password, fullName string, role models.UserRole) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	GetAllUsers() ([]models.User, error)
	DeleteUser(id uint) error
	CreateDefaultAdmin(password string) (bool, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Authenticate(username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(strings.TrimSpace(username))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: username does not exist", ErrInvalidCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, fmt.Errorf("%w: wrong password", ErrInvalidCredentials)
	}
	return user, nil
}

func (s *userService) CreateUser(username, password, fullName string, role models.UserRole) (*models.User, error) {
	username = strings.TrimSpace(username)
	if role == "" {
		role = models.RoleStaff
	}
	switch {
	case username == "":
		return nil, validationError(errors.New("username is required"))
	case password == "":
		return nil, validationError(errors.New("password is required"))
	case !role.Valid():
		return nil, validationError(fmt.Errorf("unknown role %q", role))
	}

	if _, err := s.userRepo.GetByUsername(username); err == nil {
		return nil, fmt.Errorf("%w: username %s already exists", ErrAlreadyExists, username)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(fullName),
		Role:         role,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *userService) GetUserByID(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return user, nil
}

func (s *userService) GetAllUsers() ([]models.User, error) {
	return s.userRepo.GetAll()
}

// DeleteUser keeps at least one admin account in the system.
func (s *userService) DeleteUser(id uint) error {
	user, err := s.GetUserByID(id)
	if err != nil {
		return err
	}
	if user.IsAdmin() {
		admins, err := s.userRepo.CountByRole(models.RoleAdmin)
		if err != nil {
			return fmt.Errorf("failed to count admins: %w", err)
		}
		if admins <= 1 {
			return fmt.Errorf("%w: cannot delete the last admin", ErrForbidden)
		}
	}
	if err := s.userRepo.Delete(id); err != nil {
		return notFound(err, "user", id)
	}
	return nil
}

// CreateDefaultAdmin seeds the admin account when no admin exists yet.
// It reports whether an account was created.
func (s *userService) CreateDefaultAdmin(password string) (bool, error) {
	admins, err := s.userRepo.CountByRole(models.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("failed to count admins: %w", err)
	}
	if admins > 0 {
		return false, nil
	}
	if _, err := s.CreateUser(DefaultAdminUsername, password, "Administrator", models.RoleAdmin); err != nil {
		return false, err
	}
	return true, nil
}
