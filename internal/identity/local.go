package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"ticket-storefront/internal/data/entity"
	"ticket-storefront/internal/data/repository"
	"ticket-storefront/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrInvalidToken = errors.New("invalid session token")

const tokenIssuer = "ticket-storefront"

type LocalConfig struct {
	Secret     string
	SessionTTL time.Duration
	BcryptCost int
}

// LocalProvider is a self-hosted Gate. Tokens are HS256 JWTs whose jti names
// a stored session, so signing out takes effect before the token expires.
type LocalProvider struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	cfg      LocalConfig
	log      *zap.Logger
	now      func() time.Time

	mu     sync.RWMutex
	nextID int
	subs   map[int]func(SessionChange)
}

func NewLocalProvider(users repository.UserRepository, sessions repository.SessionRepository, cfg LocalConfig, log *zap.Logger) *LocalProvider {
	return &LocalProvider{
		users:    users,
		sessions: sessions,
		cfg:      cfg,
		log:      log.With(zap.String("service", "identity")),
		now:      time.Now,
		subs:     make(map[int]func(SessionChange)),
	}
}

func (p *LocalProvider) SignUp(ctx context.Context, params SignUpParams) error {
	existing, err := p.users.FindByEmail(ctx, params.Email)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return ErrUserAlreadyRegistered
	}

	hash, err := utils.HashPassword(params.Password, p.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	now := p.now()
	user := &entity.User{
		ID:           utils.GenerateUUID(),
		FullName:     strings.TrimSpace(params.FullName),
		Email:        strings.TrimSpace(params.Email),
		PasswordHash: hash,
		RedirectURL:  params.RedirectURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := p.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return ErrUserAlreadyRegistered
		}
		return fmt.Errorf("create user: %w", err)
	}

	p.log.Info("User signed up",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
	)
	return nil
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	user, err := p.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	now := p.now()
	stored := &entity.Session{
		ID:        utils.GenerateUUID(),
		UserID:    user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		ExpiresAt: now.Add(p.cfg.SessionTTL),
		CreatedAt: now,
	}
	if err := p.sessions.Create(ctx, stored); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	token, err := p.sign(stored)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	session := toSession(stored, token)
	p.log.Info("User signed in",
		zap.String("user_id", user.ID.String()),
		zap.String("session_id", stored.ID.String()),
	)
	p.publish(SessionChange{Kind: SignedIn, Session: *session})

	return session, nil
}

func (p *LocalProvider) CurrentSession(ctx context.Context, token string) (*Session, error) {
	id, err := p.parse(token)
	if err != nil {
		p.log.Debug("Rejected session token", zap.Error(err))
		return nil, nil
	}

	stored, err := p.sessions.FindValidSession(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	if stored == nil {
		return nil, nil
	}
	return toSession(stored, token), nil
}

func (p *LocalProvider) SignOut(ctx context.Context, token string) error {
	session, err := p.CurrentSession(ctx, token)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrInvalidToken
	}

	if err := p.sessions.Revoke(ctx, session.ID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	p.log.Info("User signed out",
		zap.String("user_id", session.UserID.String()),
		zap.String("session_id", session.ID.String()),
	)
	p.publish(SessionChange{Kind: SignedOut, Session: *session})
	return nil
}

// Subscribe registers fn for session changes. fn runs synchronously on the
// goroutine that caused the change and must not call back into the provider.
func (p *LocalProvider) Subscribe(fn func(SessionChange)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subs, id)
			p.mu.Unlock()
		})
	}
}

func (p *LocalProvider) publish(change SessionChange) {
	p.mu.RLock()
	subs := make([]func(SessionChange), 0, len(p.subs))
	for _, fn := range p.subs {
		subs = append(subs, fn)
	}
	p.mu.RUnlock()

	for _, fn := range subs {
		fn(change)
	}
}

func (p *LocalProvider) sign(s *entity.Session) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        s.ID.String(),
		Subject:   s.UserID.String(),
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(s.CreatedAt),
		ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(p.cfg.Secret))
}

// parse verifies the token and returns the session id it names.
func (p *LocalProvider) parse(token string) (uuid.UUID, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return []byte(p.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id, err := uuid.Parse(claims.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bad jti", ErrInvalidToken)
	}
	return id, nil
}

func toSession(s *entity.Session, token string) *Session {
	return &Session{
		ID:        s.ID,
		Token:     token,
		UserID:    s.UserID,
		Email:     s.Email,
		FullName:  s.FullName,
		ExpiresAt: s.ExpiresAt,
	}
}
