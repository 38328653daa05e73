package profiles

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"skybook/internal/shared/constants"
	"skybook/internal/users"
	"skybook/pkg/cache"
	"skybook/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrProfileNotFound     = errors.New("profile not found")
	ErrForbidden           = errors.New("profile belongs to another user")
	ErrRoleChangeForbidden = errors.New("only admins can change roles")
	ErrEmptyProfileChanges = errors.New("no fields to update")
)

// Requester is the authenticated caller
type Requester struct {
	UserID  uuid.UUID
	IsAdmin bool
}

type UpdateProfileRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName  *string `json:"last_name" binding:"omitempty,min=1,max=100"`
	Role      *string `json:"role" binding:"omitempty,oneof=user admin"`
}

type Service interface {
	SetCacheService(cacheService cache.Service)
	GetProfile(ctx context.Context, requester Requester, userID uuid.UUID) (*users.Profile, error)
	UpdateProfile(ctx context.Context, requester Requester, userID uuid.UUID, req UpdateProfileRequest) (*users.Profile, error)
}

type service struct {
	repo         Repository
	cacheService cache.Service
	log          *logger.Logger
}

func NewService(repo Repository) Service {
	return &service{repo: repo, log: logger.GetDefault().WithComponent("profiles")}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) GetProfile(ctx context.Context, requester Requester, userID uuid.UUID) (*users.Profile, error) {
	if !requester.IsAdmin && requester.UserID != userID {
		return nil, ErrForbidden
	}

	key := constants.BuildUserProfileKey(userID.String())
	if s.cacheService != nil {
		var cached users.Profile
		if err := s.cacheService.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, key, profile, constants.TTL_USER_PROFILE); err != nil {
			s.log.WarnContext(ctx, "failed to cache profile", slog.Any("error", err))
		}
	}
	return profile, nil
}

func (s *service) UpdateProfile(ctx context.Context, requester Requester, userID uuid.UUID, req UpdateProfileRequest) (*users.Profile, error) {
	if !requester.IsAdmin && requester.UserID != userID {
		return nil, ErrForbidden
	}

	updates := make(map[string]interface{})
	if req.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if req.Role != nil {
		if !requester.IsAdmin {
			return nil, ErrRoleChangeForbidden
		}
		updates["role"] = users.ParseRole(*req.Role)
	}
	if len(updates) == 0 {
		return nil, ErrEmptyProfileChanges
	}

	profile, err := s.repo.Update(ctx, userID, updates)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	if s.cacheService != nil {
		if err := s.cacheService.Delete(ctx, constants.BuildUserProfileKey(userID.String())); err != nil {
			s.log.WarnContext(ctx, "failed to drop cached profile", slog.Any("error", err))
		}
	}
	return profile, nil
}
