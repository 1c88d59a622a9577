package usecase

import (
	"context"
	"errors"

	"ticket-storefront/internal/dto/request"
	"ticket-storefront/internal/dto/response"
	"ticket-storefront/internal/identity"
	"ticket-storefront/pkg/utils"

	"go.uber.org/zap"
)

const (
	msgInvalidCredentials = "Invalid email or password. Please check your credentials and try again."
	msgAlreadyRegistered  = "An account with this email already exists. Please sign in instead."
	msgUnexpected         = "An unexpected error occurred. Please try again."
)

var signUpMessages = utils.FieldMessages{
	"full_name.min": "Name must be at least 2 characters",
	"email.email":   "Please enter a valid email address",
	"password.min":  "Password must be at least 6 characters",
}

var signInMessages = utils.FieldMessages{
	"email.email":       "Please enter a valid email address",
	"password.required": "Password is required",
}

type AuthService interface {
	SignUp(ctx context.Context, req *request.SignUpRequest) error
	SignIn(ctx context.Context, req *request.SignInRequest) (*response.SessionResponse, error)
	CurrentSession(ctx context.Context, session *identity.Session) *response.SessionResponse
	SignOut(ctx context.Context, session *identity.Session) error
}

type authService struct {
	gate identity.Gate
	log  *zap.Logger
}

func NewAuthService(gate identity.Gate, log *zap.Logger) AuthService {
	return &authService{
		gate: gate,
		log:  log.With(zap.String("service", "auth")),
	}
}

func (s *authService) SignUp(ctx context.Context, req *request.SignUpRequest) error {
	req.Normalize()
	if msg := utils.FirstValidationError(req, signUpMessages); msg != "" {
		s.log.Warn("Sign-up validation failed", zap.String("reason", msg))
		return &ValidationError{Message: msg}
	}

	err := s.gate.SignUp(ctx, identity.SignUpParams{
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		RedirectURL: req.RedirectURL,
	})
	if err != nil {
		return s.providerError("sign up", req.Email, err)
	}

	s.log.Info("Account created", zap.String("email", req.Email))
	return nil
}

func (s *authService) SignIn(ctx context.Context, req *request.SignInRequest) (*response.SessionResponse, error) {
	req.Normalize()
	if msg := utils.FirstValidationError(req, signInMessages); msg != "" {
		s.log.Warn("Sign-in validation failed", zap.String("reason", msg))
		return nil, &ValidationError{Message: msg}
	}

	session, err := s.gate.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.providerError("sign in", req.Email, err)
	}

	resp := response.SessionToResponse(session, true)
	return &resp, nil
}

func (s *authService) CurrentSession(_ context.Context, session *identity.Session) *response.SessionResponse {
	resp := response.SessionToResponse(session, false)
	return &resp
}

func (s *authService) SignOut(ctx context.Context, session *identity.Session) error {
	if err := s.gate.SignOut(ctx, session.Token); err != nil {
		return s.providerError("sign out", session.Email, err)
	}
	return nil
}

// providerError maps identity failures to what the visitor is told. Messages
// from the provider that have no friendlier form are shown as-is.
func (s *authService) providerError(op, email string, err error) error {
	var pe *identity.ProviderError
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		s.log.Warn("Rejected credentials", zap.String("op", op), zap.String("email", email))
		return &AuthError{Kind: AuthInvalidCredentials, Message: msgInvalidCredentials, Err: err}
	case errors.Is(err, identity.ErrUserAlreadyRegistered):
		s.log.Warn("Email already registered", zap.String("email", email))
		return &AuthError{Kind: AuthAlreadyRegistered, Message: msgAlreadyRegistered, Err: err}
	case errors.As(err, &pe):
		s.log.Warn("Identity provider refused request", zap.String("op", op), zap.Error(err))
		return &AuthError{Kind: AuthProvider, Message: pe.Message, Err: err}
	case errors.Is(err, identity.ErrInvalidToken):
		return &AuthError{Kind: AuthProvider, Message: "Your session has expired. Please sign in again.", Err: err}
	default:
		s.log.Error("Identity provider failed", zap.String("op", op), zap.Error(err))
		return &AuthError{Kind: AuthUnexpected, Message: msgUnexpected, Err: err}
	}
}
