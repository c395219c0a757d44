package user

import (
	"context"
	"errors"
)

// DomainService holds user rules that need the repository. It only reads.
type DomainService struct {
	userRepository Repository
}

// NewDomainService Create user domain service
func NewDomainService(userRepo Repository) *DomainService {
	return &DomainService{
		userRepository: userRepo,
	}
}

// EnsureEmailAvailable returns an email-exists error when another user
// already owns email. The unique index remains the final arbiter; this only
// gives the common case a clean error before the write.
func (s *DomainService) EnsureEmailAvailable(ctx context.Context, email Email) error {
	existing, err := s.userRepository.FindByEmail(ctx, email.Value())
	if errors.Is(err, ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing != nil {
		return NewEmailAlreadyExistsError(email.Value())
	}
	return nil
}
