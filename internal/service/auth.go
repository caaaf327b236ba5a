// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes the database
//
// Handlers only know about HTTP (status codes, headers, JSON). Services
// only know about business rules (validation, ownership, uniqueness).
// Neither knows about SQL.
//
// DEPENDENCY INJECTION:
// Services take repository INTERFACES, not the concrete sqlite types.
// Tests pass in-memory mocks; main wires the real thing. The service
// doesn't import the sqlite package at all.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/shreyash/bloghub/internal/apperror"
	"github.com/shreyash/bloghub/internal/auth"
	"github.com/shreyash/bloghub/internal/model"
	"github.com/shreyash/bloghub/internal/repository"
)

// Validation constants. Named so error messages and checks can't drift apart.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 30
	MinPasswordLength = 6
)

// AuthService handles registration, login and profile lookup.
//
// DEPENDENCIES (injected via NewAuthService):
//   - users     repository.UserRepository → read/write user records
//   - tokens    *auth.TokenService        → issue JWTs
//   - passwords *auth.PasswordService     → bcrypt hashing
//   - logger    *slog.Logger              → structured logging
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the user record and the issued JWT so the handler can
// build the response in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a new account and logs it in.
//
// FLOW:
//  1. Validate the input shape (lengths, email format)
//  2. Check username/email uniqueness → Conflict with a clear message
//  3. Hash the password — the plaintext goes no further than this method
//  4. Insert the user, issue a token
//
// The uniqueness check and the insert are two round-trips; a concurrent
// registration for the same email can slip between them. The database's
// UNIQUE constraints catch that race and the repository reports it as the
// same Conflict, so callers can't tell the difference.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if len(username) < MinUsernameLength || len(username) > MaxUsernameLength {
		return nil, apperror.ValidationFailed("username",
			fmt.Sprintf("Username must be between %d and %d characters", MinUsernameLength, MaxUsernameLength))
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperror.ValidationFailed("email", "Please enter a valid email")
	}
	if len(password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength))
	}

	exists, err := s.users.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("service/auth: checking uniqueness: %w", err)
	}
	if exists {
		return nil, apperror.Conflict("User with this email or username already exists")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		slog.Int64("userID", user.ID),
		slog.String("username", user.Username),
	)

	return s.issueFor(user)
}

// Login verifies credentials and issues a token.
//
// UNIFORM FAILURE:
// "No such email" and "wrong password" both return the same Unauthorized
// with the same message. Distinguishing them would let an attacker probe
// which emails have accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	ok, err := s.passwords.Verify(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: verifying password: %w", err)
	}
	if !ok {
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	s.logger.Info("user logged in", slog.Int64("userID", user.ID))

	return s.issueFor(user)
}

// CurrentUser returns the full profile for the given user id.
//
// The access gate trusts tokens without a store lookup, so this is where a
// deleted account finally surfaces: the token still passes the gate, but
// the profile read returns NotFound.
func (s *AuthService) CurrentUser(ctx context.Context, id int64) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *AuthService) issueFor(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(model.Identity{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
	})
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing token for user %d: %w", user.ID, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}
