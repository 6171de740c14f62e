package service

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/simmerkit/recipe-vault/internal/core/domain"
	"github.com/simmerkit/recipe-vault/internal/core/ports"
)

// AuthService implements registration and login against the user
// repository, with bcrypt-verified credentials and HS256 token issuance.
// It also implements ports.Authenticator, so device session stores can use
// the same verification without going through the HTTP surface.
type AuthService struct {
	repo      ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(repo ports.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Plan:         domain.PlanFree,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return s.repo.Create(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// Authenticate satisfies ports.Authenticator: credential check only, no
// token.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.Session, error) {
	_, user, err := s.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return &domain.Session{ID: user.ID, Email: user.Email}, nil
}

// SignUp satisfies ports.Authenticator: account creation yielding a
// session principal.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (*domain.Session, error) {
	user, err := s.Register(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return &domain.Session{ID: user.ID, Email: user.Email}, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"plan":    string(user.Plan),
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// StubAuthenticator is the development authenticator the app shipped with:
// it fabricates a session from the submitted email with a constant id and
// never checks the password. Kept for tests and for running without a user
// database.
type StubAuthenticator struct{}

func (StubAuthenticator) Authenticate(_ context.Context, email, _ string) (*domain.Session, error) {
	return &domain.Session{ID: "1", Email: email}, nil
}

func (StubAuthenticator) SignUp(_ context.Context, email, _ string) (*domain.Session, error) {
	return &domain.Session{ID: "1", Email: email}, nil
}
