package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/voyage/voyage/internal/auth"
	"github.com/voyage/voyage/internal/metrics"
	"github.com/voyage/voyage/internal/model"
	"github.com/voyage/voyage/internal/repository"
)

// Auth service errors.
var (
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

const (
	maxNameLength     = 100
	maxEmailLength    = 254
	minPasswordLength = 8
	maxPasswordLength = 128
)

// UserService handles signup, login, and profile lookups.
type UserService struct {
	repo    *repository.Repository
	tokens  *auth.TokenManager
	metrics metrics.Recorder
}

// NewUserService creates a new UserService.
func NewUserService(repo *repository.Repository, tokens *auth.TokenManager, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		repo:    repo,
		tokens:  tokens,
		metrics: recorder,
	}
}

// SignupInput defines input for registering a user.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// AuthOutput is the result of a successful signup or login.
type AuthOutput struct {
	Token string
	User  *model.User
}

// Signup registers a new user and issues a token.
func (s *UserService) Signup(ctx context.Context, input SignupInput) (*AuthOutput, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)

	if verrs := validateSignup(input); verrs.HasErrors() {
		return nil, verrs
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           generateID(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &AuthOutput{Token: token, User: user}, nil
}

// Login verifies credentials and issues a token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthOutput, error) {
	email = normalizeEmail(email)

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncLoginFailure()
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil || !match {
		s.metrics.IncLoginFailure()
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.metrics.IncLoginSuccess()

	return &AuthOutput{Token: token, User: user}, nil
}

// GetUser retrieves a user's profile by ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

// normalizeEmail lowercases and trims an email address.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateSignup checks signup fields and collects all faults.
func validateSignup(input SignupInput) model.ValidationErrors {
	var verrs model.ValidationErrors

	if input.Name == "" {
		verrs.Add("name", "Name is required")
	} else if len(input.Name) > maxNameLength {
		verrs.Add("name", fmt.Sprintf("Name must be at most %d characters", maxNameLength))
	}

	if input.Email == "" {
		verrs.Add("email", "Email is required")
	} else if len(input.Email) > maxEmailLength || !isValidEmail(input.Email) {
		verrs.Add("email", "Email must be a valid address")
	}

	if len(input.Password) < minPasswordLength {
		verrs.Add("password", fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	} else if len(input.Password) > maxPasswordLength {
		verrs.Add("password", fmt.Sprintf("Password must be at most %d characters", maxPasswordLength))
	}

	return verrs
}

// isValidEmail applies a minimal structural check: one @ with a dot in
// the domain. Deliverability is the mail server's problem.
func isValidEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	if strings.Contains(domain, "@") {
		return false
	}
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}
