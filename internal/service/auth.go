// Package service contains application services for authentication, vehicles,
// trips and settings.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	pkgcrypto "github.com/avtokontrol/avtokontrol/internal/crypto"
	"github.com/avtokontrol/avtokontrol/internal/errs"
	"github.com/avtokontrol/avtokontrol/internal/limiter"
	"github.com/avtokontrol/avtokontrol/internal/model"
	"github.com/avtokontrol/avtokontrol/internal/repository"
)

// AuthService defines authentication and profile operations.
type AuthService interface {
	// Register creates a new user with secure password hashing plus its profile row.
	Register(ctx context.Context, email, password, name string) (userID string, err error)
	// LoginWithIP applies rate-limiting and authenticates the user.
	LoginWithIP(ctx context.Context, email, password, ip string) (model.Tokens, model.Profile, error)
	// Me loads the profile of an authenticated user (session restore).
	Me(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	// UpdateProfile rewrites the caller's profile fields.
	UpdateProfile(ctx context.Context, userID uuid.UUID, p *model.Profile) error
}

type AuthServiceImpl struct {
	users     repository.UserRepository
	signKey   []byte
	accessTTL time.Duration
	lim       limiter.Limiter
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, signKey []byte, accessTTL time.Duration, lim limiter.Limiter) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, signKey: signKey, accessTTL: accessTTL, lim: lim}
}

// Register validates credentials and creates the user and profile rows.
func (s *AuthServiceImpl) Register(ctx context.Context, email, password, name string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return "", fmt.Errorf("%w: bad email", errs.ErrValidation)
	}
	if len(password) < 8 {
		return "", fmt.Errorf("%w: password shorter than 8 characters", errs.ErrValidation)
	}

	uid, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	saltAuth, err := pkgcrypto.RandBytes(16)
	if err != nil {
		return "", err
	}
	pwdHash := pkgcrypto.HashPassword([]byte(password), saltAuth)

	u := &model.User{
		ID:       uid,
		Email:    email,
		PwdHash:  pwdHash,
		SaltAuth: saltAuth,
	}
	p := &model.Profile{
		ID:       uid,
		Name:     name,
		Username: usernameFromEmail(email),
		Email:    email,
	}
	if err := s.users.Create(ctx, u, p); err != nil {
		return "", err
	}
	return uid.String(), nil
}

// usernameFromEmail derives the initial unique username from the email local part.
func usernameFromEmail(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}

// LoginWithIP authenticates with rate limiting by (email, ip).
func (s *AuthServiceImpl) LoginWithIP(ctx context.Context, email, password, ip string) (model.Tokens, model.Profile, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, email, ipHash)
	if err != nil {
		return model.Tokens{}, model.Profile{}, err
	}
	if !allowed {
		return model.Tokens{}, model.Profile{}, errs.ErrRateLimited
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil || !pkgcrypto.VerifyPassword([]byte(password), u.SaltAuth, u.PwdHash) {
		// Record failure; if threshold reached — return rate-limited.
		if blocked, _, ferr := s.lim.Failure(ctx, email, ipHash); ferr == nil && blocked {
			return model.Tokens{}, model.Profile{}, errs.ErrRateLimited
		}
		// user lookup errors are masked: do not reveal account existence
		return model.Tokens{}, model.Profile{}, errs.ErrUnauthorized
	}

	// Success: reset counters (best-effort).
	_ = s.lim.Success(ctx, email, ipHash)

	access, exp, err := s.issueAccessToken(u.ID)
	if err != nil {
		return model.Tokens{}, model.Profile{}, err
	}

	prof, err := s.users.GetProfile(ctx, u.ID)
	if err != nil {
		return model.Tokens{}, model.Profile{}, err
	}
	return model.Tokens{AccessToken: access, ExpiresAt: exp}, *prof, nil
}

// issueAccessToken creates a signed HS256 JWT for the given subject.
func (s *AuthServiceImpl) issueAccessToken(userID uuid.UUID) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.accessTTL)
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.signKey)
	return signed, exp, err
}

// Me loads the caller's profile.
func (s *AuthServiceImpl) Me(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: empty userID", errs.ErrValidation)
	}
	return s.users.GetProfile(ctx, userID)
}

// UpdateProfile rewrites mutable profile fields of the caller.
func (s *AuthServiceImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, p *model.Profile) error {
	if userID == uuid.Nil {
		return fmt.Errorf("%w: empty userID", errs.ErrValidation)
	}
	if strings.TrimSpace(p.Username) == "" {
		return fmt.Errorf("%w: empty username", errs.ErrValidation)
	}
	p.ID = userID
	return s.users.UpdateProfile(ctx, p)
}
