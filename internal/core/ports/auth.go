package ports

import (
	"context"

	"github.com/simmerkit/recipe-vault/internal/core/domain"
)

// UserRepository defines persistence for registered accounts.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

// Authenticator verifies or creates credentials and produces the session
// principal. The session store consumes this capability so the stubbed
// dev behavior and real bcrypt-backed verification are interchangeable
// without changing the store's contract.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*domain.Session, error)
	SignUp(ctx context.Context, email, password string) (*domain.Session, error)
}

// AuthService is the account-facing use case surface: registration and
// login with token issuance.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
