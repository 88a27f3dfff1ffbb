package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/time/rate"
)

const (
	adminSubject  = "admin"
	adminRole     = "admin"
	adminAudience = "admin"

	maxTrackedClients = 1024
)

// PasswordVerifier compares a stored hash with a candidate password.
type PasswordVerifier func(hashedPassword, password string) error

// AdminAuthConfig configures an AdminAuthenticator.
type AdminAuthConfig struct {
	PasswordHash string
	SigningKey   []byte
	SessionTTL   time.Duration
	// LoginsPerMinute bounds login attempts per client key. Zero disables limiting.
	LoginsPerMinute int
}

// AdminLoginParams carries an admin login attempt.
type AdminLoginParams struct {
	Password  string
	ClientKey string
}

// AdminSession is an issued admin token.
type AdminSession struct {
	Token     string
	ExpiresAt time.Time
	Principal Principal
}

type adminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AdminAuthenticator verifies the admin secret and issues signed session tokens.
type AdminAuthenticator struct {
	passwordHash string
	signingKey   []byte
	sessionTTL   time.Duration
	verify       PasswordVerifier
	limiter      *loginLimiter
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger
}

// NewAdminAuthenticator constructs an authenticator.
func NewAdminAuthenticator(cfg AdminAuthConfig, verify PasswordVerifier, idGenerator func() string, now func() time.Time) *AdminAuthenticator {
	return NewAdminAuthenticatorWithLogger(cfg, verify, idGenerator, now, nil)
}

// NewAdminAuthenticatorWithLogger constructs an authenticator with a specified logger.
func NewAdminAuthenticatorWithLogger(cfg AdminAuthConfig, verify PasswordVerifier, idGenerator func() string, now func() time.Time, logger *slog.Logger) *AdminAuthenticator {
	if verify == nil {
		verify = VerifyPassword
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	return &AdminAuthenticator{
		passwordHash: cfg.PasswordHash,
		signingKey:   cfg.SigningKey,
		sessionTTL:   cfg.SessionTTL,
		verify:       verify,
		limiter:      newLoginLimiter(cfg.LoginsPerMinute, now),
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

func (a *AdminAuthenticator) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, a.logger, "AdminAuthenticator", operation, attrs...)
}

// Authenticate verifies the admin password and issues a session token.
func (a *AdminAuthenticator) Authenticate(ctx context.Context, params AdminLoginParams) (session AdminSession, err error) {
	if a == nil {
		err = fmt.Errorf("AdminAuthenticator is nil")
		return
	}

	logger := a.loggerWith(ctx, "Authenticate", "client", params.ClientKey)
	defer func() {
		if err != nil {
			logger.WarnContext(ctx, "admin login failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("expires_at", session.ExpiresAt).InfoContext(ctx, "admin logged in")
	}()

	if !a.limiter.Allow(params.ClientKey) {
		err = ErrRateLimited
		return
	}

	if params.Password == "" {
		vErr := &ValidationError{}
		vErr.add("password", "password is required")
		err = vErr
		return
	}

	if vErr := a.verify(a.passwordHash, params.Password); vErr != nil {
		if !errors.Is(vErr, ErrInvalidCredentials) {
			logger.ErrorContext(ctx, "admin secret could not be checked", "error", vErr)
		}
		err = ErrInvalidCredentials
		return
	}

	issuedAt := a.now()
	session.ExpiresAt = issuedAt.Add(a.sessionTTL)
	claims := adminClaims{
		Role: adminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        a.idGenerator(),
			Subject:   adminSubject,
			Audience:  jwt.ClaimStrings{adminAudience},
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	session.Token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.signingKey)
	if err != nil {
		err = fmt.Errorf("sign admin token: %w", err)
		return
	}
	session.Principal = Principal{Subject: adminSubject, IsAdmin: true}
	return
}

// ValidateToken parses a session token and returns the admin principal it carries.
func (a *AdminAuthenticator) ValidateToken(ctx context.Context, token string) (Principal, error) {
	if a == nil {
		return Principal{}, fmt.Errorf("AdminAuthenticator is nil")
	}
	if token == "" {
		return Principal{}, ErrUnauthorized
	}

	claims := &adminClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return a.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(adminAudience),
		jwt.WithTimeFunc(a.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Principal{}, ErrSessionExpired
		}
		a.loggerWith(ctx, "ValidateToken").DebugContext(ctx, "rejected admin token", "error", err)
		return Principal{}, ErrUnauthorized
	}
	if claims.Role != adminRole || claims.Subject != adminSubject {
		return Principal{}, ErrUnauthorized
	}
	return Principal{Subject: claims.Subject, IsAdmin: true}, nil
}

// loginLimiter keeps a token bucket per client key. A bucket untouched for a
// full refill window carries no state and may be evicted; when every tracked
// bucket is still live, unknown clients are refused.
type loginLimiter struct {
	mu       sync.Mutex
	now      func() time.Time
	limit    rate.Limit
	burst    int
	idle     time.Duration
	capacity int
	clients  map[string]*clientBucket
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLoginLimiter(perMinute int, now func() time.Time) *loginLimiter {
	if perMinute <= 0 {
		return nil
	}
	return &loginLimiter{
		now:      now,
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		idle:     time.Minute,
		capacity: maxTrackedClients,
		clients:  make(map[string]*clientBucket),
	}
}

func (l *loginLimiter) Allow(key string) bool {
	if l == nil {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	bucket, ok := l.clients[key]
	if !ok {
		if len(l.clients) >= l.capacity {
			l.evictIdle(now)
		}
		if len(l.clients) >= l.capacity {
			return false
		}
		bucket = &clientBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = bucket
	}
	bucket.lastSeen = now
	return bucket.limiter.AllowN(now, 1)
}

func (l *loginLimiter) evictIdle(now time.Time) {
	for key, bucket := range l.clients {
		if now.Sub(bucket.lastSeen) >= l.idle {
			delete(l.clients, key)
		}
	}
}
