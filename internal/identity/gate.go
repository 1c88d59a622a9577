package identity

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Session is what the storefront knows about a signed-in visitor.
type Session struct {
	ID        uuid.UUID
	Token     string
	UserID    uuid.UUID
	Email     string
	FullName  string
	ExpiresAt time.Time
}

type ChangeKind string

const (
	SignedIn  ChangeKind = "signed_in"
	SignedOut ChangeKind = "signed_out"
)

// SessionChange is pushed to subscribers when a session starts or ends.
type SessionChange struct {
	Kind    ChangeKind
	Session Session
}

type SignUpParams struct {
	Email       string
	Password    string
	FullName    string
	RedirectURL string
}

// Gate authenticates visitors. CurrentSession returns nil, nil when the token
// names no live session.
type Gate interface {
	CurrentSession(ctx context.Context, token string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, params SignUpParams) error
	SignOut(ctx context.Context, token string) error
	Subscribe(fn func(SessionChange)) (unsubscribe func())
}

// ProviderError is a failure reported by the identity provider itself, as
// opposed to a transport or storage failure.
type ProviderError struct {
	Message string
}

func (e *ProviderError) Error() string { return e.Message }

// Is matches when e's message contains target's, so a provider message with
// extra detail still maps to the known failure.
func (e *ProviderError) Is(target error) bool {
	t, ok := target.(*ProviderError)
	return ok && t.Message != "" && strings.Contains(e.Message, t.Message)
}

var (
	ErrInvalidCredentials    = &ProviderError{Message: "Invalid login credentials"}
	ErrUserAlreadyRegistered = &ProviderError{Message: "User already registered"}
)
