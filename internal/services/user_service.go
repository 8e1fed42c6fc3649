package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"catalog/internal/models"
	"catalog/internal/repositories"

	"github.com/rs/zerolog"
)

const (
	minUserAge = 0
	maxUserAge = 150
)

// UserService is the register for users: it validates requests, derives responses and
// writes them through the repository.
type UserService struct {
	repo      repositories.UserRepository
	publisher EventPublisher
	log       zerolog.Logger
}

// NewUserService creates a new UserService. publisher may be nil.
func NewUserService(repo repositories.UserRepository, publisher EventPublisher, log zerolog.Logger) *UserService {
	return &UserService{
		repo:      repo,
		publisher: publisher,
		log:       log.With().Str("service", "users").Logger(),
	}
}

// ProcessUser activates a user: the name is upper-cased and the status set to ACTIVE.
func (s *UserService) ProcessUser(ctx context.Context, req models.UserRequest) (*models.UserResponse, error) {
	if err := check(req.Name, "required", "name is required"); err != nil {
		return nil, err
	}
	if err := check(req.Age, fmt.Sprintf("gte=%d,lte=%d", minUserAge, maxUserAge),
		fmt.Sprintf("age must be between %d and %d", minUserAge, maxUserAge)); err != nil {
		return nil, err
	}

	user := &models.UserResponse{
		Name:      strings.ToUpper(req.Name),
		Email:     req.Email,
		Age:       req.Age,
		Status:    models.UserStatusActive,
		CreatedAt: time.Now(),
	}
	if err := s.save(ctx, user); err != nil {
		return nil, err
	}

	publishEvent(s.publisher, s.log, EventUserProcessed, user)
	return user, nil
}

// ValidateUser checks a user's name and email and stamps it VALIDATED. The name is kept verbatim.
func (s *UserService) ValidateUser(ctx context.Context, req models.UserRequest) (*models.UserResponse, error) {
	if err := check(req.Name, "required", "name cannot be empty"); err != nil {
		return nil, err
	}
	if err := check(req.Email, "required,contains=@", "invalid email format"); err != nil {
		return nil, err
	}

	user := &models.UserResponse{
		Name:      req.Name,
		Email:     req.Email,
		Age:       req.Age,
		Status:    models.UserStatusValidated,
		CreatedAt: time.Now(),
	}
	if err := s.save(ctx, user); err != nil {
		return nil, err
	}

	publishEvent(s.publisher, s.log, EventUserValidated, user)
	return user, nil
}

// GetUserByEmail looks a stored user up by email.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*models.UserResponse, error) {
	return s.repo.FindByEmail(ctx, email)
}

func (s *UserService) save(ctx context.Context, user *models.UserResponse) error {
	if err := s.repo.Save(ctx, user); err != nil {
		s.log.Error().Err(err).Str("email", user.Email).Msg("failed to save user")
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}
