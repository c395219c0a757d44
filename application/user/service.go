package user

import (
	"context"
	"time"

	"github.com/jsupa/turbo-template/domain/user"
)

// ApplicationService User application service
type ApplicationService struct {
	userRepo      user.Repository
	domainService *user.DomainService
}

// NewApplicationService Create user application service
func NewApplicationService(userRepo user.Repository) *ApplicationService {
	return &ApplicationService{
		userRepo:      userRepo,
		domainService: user.NewDomainService(userRepo),
	}
}

// CreateUserRequest Create user request DTO
type CreateUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// UserResponse User response DTO
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateUser Create user
func (s *ApplicationService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	u, err := user.NewUser(req.Name, req.Email)
	if err != nil {
		return nil, err
	}

	if err := s.domainService.EnsureEmailAvailable(ctx, u.Email()); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, u); err != nil {
		return nil, err
	}
	return toResponse(u), nil
}

// GetUser Get user by ID
func (s *ApplicationService) GetUser(ctx context.Context, userID string) (*UserResponse, error) {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toResponse(u), nil
}

// GetUserByEmail Get user by email
func (s *ApplicationService) GetUserByEmail(ctx context.Context, email string) (*UserResponse, error) {
	u, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return toResponse(u), nil
}

// ListUsers List users, newest first
func (s *ApplicationService) ListUsers(ctx context.Context, limit int) ([]*UserResponse, error) {
	users, err := s.userRepo.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	resp := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toResponse(u))
	}
	return resp, nil
}

// UpdateUserNameRequest Rename user request DTO
type UpdateUserNameRequest struct {
	Name string `json:"name" binding:"required"`
}

// RenameUser Change the name of an existing user
func (s *ApplicationService) RenameUser(ctx context.Context, userID string, req UpdateUserNameRequest) (*UserResponse, error) {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := u.Rename(req.Name); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, u); err != nil {
		return nil, err
	}
	return toResponse(u), nil
}

func toResponse(u *user.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID(),
		Email:     u.Email().Value(),
		Name:      u.Name(),
		CreatedAt: u.CreatedAt(),
		UpdatedAt: u.UpdatedAt(),
	}
}
