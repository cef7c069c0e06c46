package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"farmhub-server/internal/domain"
	"farmhub-server/internal/repository"
)

type UserService struct {
	userRepo    repository.UserRepository
	profileRepo *repository.ProfileRepository
}

func NewUserService(userRepo repository.UserRepository, profileRepo *repository.ProfileRepository) *UserService {
	return &UserService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
	}
}

func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user not found")
	}

	user.Password = ""
	return user, nil
}

// Update changes account-level fields. Usernames stay unique.
func (s *UserService) Update(ctx context.Context, userID string, req *domain.UpdateUserRequest) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil && *req.Username != user.Username {
		taken, err := s.userRepo.UsernameExists(ctx, *req.Username)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, &domain.ValidationError{Field: "username", Reason: "already taken"}
		}
		user.Username = *req.Username
	}

	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	user.Password = ""
	return user, nil
}

// GetProfile returns the user's profile, or an empty one if it was never
// filled in. A missing profile is not an error for an existing user.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := s.profileRepo.Find(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.Profile{ID: userID}, nil
		}
		return nil, err
	}
	return profile, nil
}

// UpdateProfile applies the non-nil fields of req onto the stored profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *domain.UpdateProfileRequest) (*domain.Profile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now()
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&profile.FirstName, req.FirstName)
	apply(&profile.LastName, req.LastName)
	apply(&profile.Location, req.Location)
	apply(&profile.Phone, req.Phone)
	apply(&profile.FarmSize, req.FarmSize)
	apply(&profile.FarmingExperience, req.FarmingExperience)
	apply(&profile.PrimaryCrops, req.PrimaryCrops)
	apply(&profile.Bio, req.Bio)
	apply(&profile.AvatarURL, req.AvatarURL)
	profile.UpdatedAt = time.Now()

	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return profile, nil
}
