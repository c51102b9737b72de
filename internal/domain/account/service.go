package account

import (
	"context"
	"errors"
	"regexp"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/torildhov/sandefjord-legesenter-booking-system/internal/platform/auth"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// ValidationError reports a rejected registration or login input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var (
	// Letters and spaces only, Norwegian letters included.
	userNamePattern = regexp.MustCompile(`^[A-Za-zÆØÅæøå\s]+$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

type Service struct {
	repo   Repository
	tokens *auth.TokenIssuer
	log    zerolog.Logger
}

func NewService(repo Repository, tokens *auth.TokenIssuer, log zerolog.Logger) *Service {
	return &Service{repo: repo, tokens: tokens, log: log}
}

type RegisterInput struct {
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register validates the input, hashes the password and stores a new patient
// account. Duplicate emails surface as ErrEmailTaken.
func (s *Service) Register(ctx context.Context, in RegisterInput) error {
	if in.UserName == "" || in.Email == "" || in.Password == "" {
		return &ValidationError{Message: "All fields are required"}
	}
	if !emailPattern.MatchString(in.Email) {
		return &ValidationError{Message: "Invalid email format"}
	}
	if !userNamePattern.MatchString(in.UserName) {
		return &ValidationError{Message: "Your name must contain letters and spaces only"}
	}
	if len(in.Password) < 8 {
		return &ValidationError{Message: "Password must be at least 8 characters long"}
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return err
	}
	user := &User{
		ID:           uuid.NewString(),
		UserName:     in.UserName,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         RolePatient,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return err
	}
	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return nil
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies the credentials and returns a signed access token.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, in LoginInput) (string, error) {
	if in.Email == "" || in.Password == "" {
		return "", &ValidationError{Message: "All fields are required"}
	}
	if !emailPattern.MatchString(in.Email) {
		return "", &ValidationError{Message: "Invalid email format"}
	}

	user, err := s.repo.GetByEmail(ctx, in.Email)
	if errors.Is(err, ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if !auth.CheckPassword(user.PasswordHash, in.Password) {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return "", err
	}
	s.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("user logged in")
	return token, nil
}
