package service

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/qs3c/subtrack_go_server/internal/model/dto"
	"github.com/qs3c/subtrack_go_server/internal/repository"
)

type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetUser 获取用户信息，只能查看自己
func (s *UserService) GetUser(requesterID, userID int64) (*dto.UserInfo, error) {
	if requesterID != userID {
		return nil, ErrPermissionDenied
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return buildUserInfo(user), nil
}

// UpdateUser 修改名字或密码，只能修改自己
func (s *UserService) UpdateUser(requesterID, userID int64, req *dto.UpdateUserRequest) (*dto.UserInfo, error) {
	if req.Empty() {
		return nil, ErrNoUpdateFields
	}

	if requesterID != userID {
		if _, err := s.userRepo.GetByID(userID); errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, ErrPermissionDenied
	}

	var name, passwordHash *string
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		name = &trimmed
	}
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		h := string(hashed)
		passwordHash = &h
	}

	if err := s.userRepo.UpdateProfile(userID, name, passwordHash); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.GetUser(requesterID, userID)
}
