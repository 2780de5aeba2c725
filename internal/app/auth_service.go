package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"visaguide/internal/model"
	"visaguide/internal/pkg/jwtutil"
	"visaguide/internal/repository"
)

const minPasswordLen = 8

type AuthService struct {
	users    *repository.UserRepository
	secret   string
	tokenTTL time.Duration
	now      func() time.Time
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput identifies the account by username or, when Login contains
// "@", by email.
type LoginInput struct {
	Login    string
	Password string
}

// Session is an issued bearer token together with the account it names.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *model.User
}

func NewAuthService(users *repository.UserRepository, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{users: users, secret: secret, tokenTTL: tokenTTL, now: time.Now}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	username := strings.TrimSpace(in.Username)
	email := normalizeEmail(in.Email)
	if username == "" || !strings.Contains(email, "@") || len(strings.TrimSpace(in.Password)) < minPasswordLen {
		return nil, ErrInvalidInput
	}

	if err := s.ensureUnique(ctx, username, email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(in.Password)), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &model.User{Username: username, Email: email, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return s.sessionFor(user)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	login := strings.TrimSpace(in.Login)
	password := strings.TrimSpace(in.Password)
	if login == "" || password == "" {
		return nil, ErrInvalidInput
	}

	lookup := s.users.GetByUsername
	if strings.Contains(login, "@") {
		lookup, login = s.users.GetByEmail, normalizeEmail(login)
	}
	user, err := lookup(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredential
	}

	if err := s.users.TouchLogin(ctx, user, s.now()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return s.sessionFor(user)
}

// CurrentUser loads the account named by a verified token.
func (s *AuthService) CurrentUser(ctx context.Context, id uint) (*model.User, error) {
	if id == 0 {
		return nil, ErrInvalidCredential
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if user == nil {
		return nil, ErrInvalidCredential
	}
	return user, nil
}

func (s *AuthService) ensureUnique(ctx context.Context, username, email string) error {
	byName, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if byName != nil {
		return ErrUsernameExists
	}
	byEmail, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if byEmail != nil {
		return ErrEmailExists
	}
	return nil
}

func (s *AuthService) sessionFor(user *model.User) (*Session, error) {
	token, err := jwtutil.GenerateToken(s.secret, s.tokenTTL, user.ID, user.Username, user.Email)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: s.now().Add(s.tokenTTL), User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
